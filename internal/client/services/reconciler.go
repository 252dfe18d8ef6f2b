package services

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/dmitrijs2005/gophnotes/internal/client/client"
	"github.com/dmitrijs2005/gophnotes/internal/client/repositories/notes"
	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/dmitrijs2005/gophnotes/internal/logging"
	"github.com/dmitrijs2005/gophnotes/internal/models"
)

// SyncResult summarises one reconciliation run. Conflicts lists the ids
// whose local edit lost to a newer server revision.
type SyncResult struct {
	Synced    int
	Failed    int
	Conflicts []string
}

// Reconciler replays queued local changes against the server. Queued edits
// go first, then queued deletes. Items are processed one at a time and at
// most one run is active.
type Reconciler struct {
	remote  client.Client
	store   notes.Repository
	logger  logging.Logger
	running atomic.Bool
}

func NewReconciler(remote client.Client, store notes.Repository, l logging.Logger) *Reconciler {
	return &Reconciler{remote: remote, store: store, logger: l.With("module", "reconciler")}
}

// Run drains the queue. A call made while another run is active returns
// common.ErrSyncInProgress at once. Items that fail stay queued for the
// next run.
func (r *Reconciler) Run(ctx context.Context) (SyncResult, error) {
	if !r.running.CompareAndSwap(false, true) {
		return SyncResult{}, common.ErrSyncInProgress
	}
	defer r.running.Store(false)

	res := SyncResult{Conflicts: []string{}}

	pending, err := r.store.ListPending(ctx)
	if err != nil {
		return res, err
	}
	for _, n := range pending {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		r.replayUpdate(ctx, n, &res)
	}

	tombstoned, err := r.store.ListTombstoned(ctx)
	if err != nil {
		return res, err
	}
	for _, n := range tombstoned {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		r.replayDelete(ctx, n, &res)
	}

	r.logger.Info(ctx, "reconciliation finished",
		"synced", res.Synced, "failed", res.Failed, "conflicts", len(res.Conflicts))
	return res, nil
}

func (r *Reconciler) replayUpdate(ctx context.Context, n *models.CachedNote, res *SyncResult) {
	out, err := r.remote.Update(ctx, n.ID, n.Body, n.Revision)
	if err != nil {
		r.logger.Warn(ctx, "replay update failed", "id", n.ID, "error", err)
		res.Failed++
		return
	}

	switch out.Outcome {
	case models.UpdateCommitted:
		if err := r.store.Put(ctx, models.Clean(out.Note)); err != nil {
			r.logger.Error(ctx, "cache write failed", "id", n.ID, "error", err)
			res.Failed++
			return
		}
		res.Synced++

	case models.UpdateConflict:
		if err := r.store.Put(ctx, models.Clean(out.Note)); err != nil {
			r.logger.Error(ctx, "cache write failed", "id", n.ID, "error", err)
			res.Failed++
			return
		}
		// The server already holds this body: an earlier run committed the
		// edit but could not record it locally.
		if out.Note.Body == n.Body {
			res.Synced++
			return
		}
		r.logger.Info(ctx, "local edit discarded, server copy kept", "id", n.ID,
			"local_revision", n.Revision, "server_revision", out.Note.Revision)
		res.Conflicts = append(res.Conflicts, n.ID)

	case models.UpdateNotFound:
		r.promote(ctx, n, res)
	}
}

// promote uploads a note the server does not know, typically one created
// offline, and swaps the temporary entry for the server's note.
func (r *Reconciler) promote(ctx context.Context, n *models.CachedNote, res *SyncResult) {
	created, err := r.remote.Create(ctx, n.Body, n.FolderID)
	if err != nil {
		r.logger.Warn(ctx, "replay create failed", "id", n.ID, "error", err)
		res.Failed++
		return
	}

	if err := r.store.Replace(ctx, n.ID, models.Clean(created)); err != nil {
		r.logger.Error(ctx, "temporary entry not replaced", "temp_id", n.ID, "id", created.ID, "error", err)
		// The temporary entry is still pending and will be uploaded again;
		// drop this copy so the retry does not leave two on the server.
		if derr := r.remote.Delete(ctx, created.ID); derr != nil && !errors.Is(derr, common.ErrorNotFound) {
			r.logger.Error(ctx, "uploaded copy not removed", "id", created.ID, "error", derr)
		}
		res.Failed++
		return
	}

	r.logger.Info(ctx, "note promoted", "temp_id", n.ID, "id", created.ID)
	res.Synced++
}

func (r *Reconciler) replayDelete(ctx context.Context, n *models.CachedNote, res *SyncResult) {
	err := r.remote.Delete(ctx, n.ID)
	if err != nil && !errors.Is(err, common.ErrorNotFound) {
		r.logger.Warn(ctx, "replay delete failed", "id", n.ID, "error", err)
		res.Failed++
		return
	}

	if err := r.store.Delete(ctx, n.ID); err != nil {
		r.logger.Error(ctx, "cache delete failed", "id", n.ID, "error", err)
		res.Failed++
		return
	}
	res.Synced++
}
