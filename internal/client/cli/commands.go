package cli

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/gophnotes/internal/client/services"
	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/dmitrijs2005/gophnotes/internal/models"
)

// argOrPrompt returns args[0], or asks for the value when it was not given.
func (a *App) argOrPrompt(args []string, prompt string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	return GetSimpleText(a.reader, prompt, a.out)
}

func (a *App) report(ctx context.Context, err error) error {
	var conflict *services.ConflictError
	switch {
	case errors.As(err, &conflict):
		a.printf("Conflict: note %s was changed elsewhere (revision %d). Your edit was not saved.\n",
			conflict.Current.ID, conflict.Current.Revision)
		a.printNote(conflict.Current)
	case errors.Is(err, common.ErrorNotFound):
		a.println("Note not found")
	case errors.Is(err, common.ErrSyncInProgress):
		a.println("Sync already in progress")
	default:
		a.println("Error:", err.Error())
	}
	a.logger.Warn(ctx, "command failed", "error", err)
	return err
}

func (a *App) printNote(n *models.Note) {
	a.printf("%s (revision %d, updated %s)\n", n.Title, n.Revision, n.UpdatedAt.Local().Format(time.DateTime))
	if n.FolderID != "" {
		a.printf("folder: %s\n", n.FolderID)
	}
	a.println("----")
	a.println(n.Body)
}

// List prints notes, optionally restricted to the folder in args[0].
func (a *App) List(ctx context.Context, args []string) error {
	folderID := ""
	if len(args) > 0 {
		folderID = args[0]
	}

	list, err := a.notes.FetchNotes(ctx, folderID)
	if err != nil {
		return a.report(ctx, err)
	}
	if len(list) == 0 {
		a.println("No notes")
		return nil
	}
	for _, n := range list {
		a.printf("%s  %-30s  rev %d  %s\n", n.ID, n.Title, n.Revision, n.UpdatedAt.Local().Format(time.DateTime))
	}
	return nil
}

// Show prints a single note.
func (a *App) Show(ctx context.Context, args []string) error {
	id, err := a.argOrPrompt(args, "Enter note id to show")
	if err != nil {
		return a.report(ctx, err)
	}

	n, err := a.notes.GetNote(ctx, id)
	if err != nil {
		return a.report(ctx, err)
	}
	a.printNote(n)
	return nil
}

// New reads a body and creates a note, filed in args[0] when given.
func (a *App) New(ctx context.Context, args []string) error {
	folderID := ""
	if len(args) > 0 {
		folderID = args[0]
	}

	body, err := GetMultiline(a.reader, "Enter note text (double Enter to finish):", a.out)
	if err != nil {
		return a.report(ctx, err)
	}

	n, err := a.notes.CreateNote(ctx, body, folderID)
	if err != nil {
		return a.report(ctx, err)
	}
	a.printf("Created %s: %s\n", n.ID, n.Title)
	return nil
}

// Edit replaces a note's body. The update carries the revision that was
// shown, so a concurrent change elsewhere is reported as a conflict.
func (a *App) Edit(ctx context.Context, args []string) error {
	id, err := a.argOrPrompt(args, "Enter note id to edit")
	if err != nil {
		return a.report(ctx, err)
	}

	n, err := a.notes.GetNote(ctx, id)
	if err != nil {
		return a.report(ctx, err)
	}
	a.printNote(n)

	body, err := GetMultiline(a.reader, "Enter new text (double Enter to finish):", a.out)
	if err != nil {
		return a.report(ctx, err)
	}

	updated, err := a.notes.UpdateNote(ctx, id, body, n.Revision)
	if err != nil {
		return a.report(ctx, err)
	}
	a.printf("Saved %s at revision %d\n", updated.ID, updated.Revision)
	return nil
}

// Delete removes a note.
func (a *App) Delete(ctx context.Context, args []string) error {
	id, err := a.argOrPrompt(args, "Enter note id to delete")
	if err != nil {
		return a.report(ctx, err)
	}

	if err := a.notes.DeleteNote(ctx, id); err != nil {
		return a.report(ctx, err)
	}
	a.println("Deleted", id)
	return nil
}

// Sync replays queued changes without waiting for the watcher.
func (a *App) Sync(ctx context.Context) error {
	if err := a.reconcile(ctx); err != nil {
		return a.report(ctx, err)
	}
	a.println("Sync complete")
	return nil
}

// Status prints connectivity and how many changes are queued.
func (a *App) Status(ctx context.Context) error {
	pending, err := a.queue.ListPending(ctx)
	if err != nil {
		return a.report(ctx, err)
	}
	tombstoned, err := a.queue.ListTombstoned(ctx)
	if err != nil {
		return a.report(ctx, err)
	}
	a.printf("Mode: %s\nQueued edits: %d\nQueued deletes: %d\n", a.status(), len(pending), len(tombstoned))
	return nil
}
