// Package services holds the client's offline-capable note logic: a
// network-aware wrapper over the remote service, the reconciliation engine
// that replays queued changes, and the online status watcher.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophnotes/internal/client/client"
	"github.com/dmitrijs2005/gophnotes/internal/client/repositories/notes"
	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/dmitrijs2005/gophnotes/internal/logging"
	"github.com/dmitrijs2005/gophnotes/internal/models"
	"github.com/google/uuid"
)

// ConflictError reports a rejected update. Current is the server's copy,
// which has already replaced the local one.
type ConflictError struct {
	Current *models.Note
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("note %s was changed elsewhere (now at revision %d)", e.Current.ID, e.Current.Revision)
}

func (e *ConflictError) Unwrap() error { return common.ErrVersionConflict }

// isNetworkFailure reports whether err means the server could not be reached.
func isNetworkFailure(err error) bool {
	return errors.Is(err, client.ErrUnavailable)
}

// SyncService performs note operations against the server and falls back to
// the local store when the server cannot be reached.
type SyncService struct {
	remote client.Client
	store  notes.Repository
	logger logging.Logger
	advise func(Advisory)
	now    func() time.Time
	newID  func() string
}

// NewSyncService wires a SyncService. advise receives every offline advisory
// and may be nil.
func NewSyncService(remote client.Client, store notes.Repository, l logging.Logger, advise func(Advisory)) *SyncService {
	if advise == nil {
		advise = func(Advisory) {}
	}
	return &SyncService{
		remote: remote,
		store:  store,
		logger: l.With("module", "sync"),
		advise: advise,
		now:    func() time.Time { return time.Now().UTC() },
		newID:  uuid.NewString,
	}
}

func toNotes(cached []*models.CachedNote) []*models.Note {
	out := make([]*models.Note, 0, len(cached))
	for _, c := range cached {
		n := c.Note
		out = append(out, &n)
	}
	return out
}

// FetchNotes lists notes from the server. An unfiltered listing also
// refreshes the clean part of the cache. Offline, the cached non-tombstoned
// notes are returned instead.
func (s *SyncService) FetchNotes(ctx context.Context, folderID string) ([]*models.Note, error) {
	list, err := s.remote.FetchAll(ctx, folderID)
	if err == nil {
		if folderID == "" {
			if err := s.store.PutAll(ctx, list); err != nil {
				s.logger.Warn(ctx, "cache refresh failed", "error", err)
			}
		}
		return list, nil
	}
	if !isNetworkFailure(err) {
		return nil, err
	}

	cached, cerr := s.store.List(ctx, folderID)
	if cerr != nil {
		return nil, fmt.Errorf("read cache: %w", cerr)
	}
	s.logger.Info(ctx, "serving notes from cache", "count", len(cached))
	s.advise(AdvisoryShowingCached)
	return toNotes(cached), nil
}

// GetNote returns one note, preferring the server copy. A note with a queued
// local change is returned as the local copy so edits build on it; one with
// a queued delete is reported as not found.
func (s *SyncService) GetNote(ctx context.Context, id string) (*models.Note, error) {
	n, err := s.remote.Get(ctx, id)
	switch {
	case err == nil:
		cached, cerr := s.store.Get(ctx, id)
		switch {
		case cerr != nil || cached.Flags == (models.SyncFlags{}):
			s.cacheClean(ctx, n)
		case cached.Flags.Tombstoned:
			return nil, common.ErrorNotFound
		default:
			local := cached.Note
			return &local, nil
		}
		return n, nil
	case errors.Is(err, common.ErrorNotFound):
		// Created offline and not yet uploaded.
		if cached, cerr := s.store.Get(ctx, id); cerr == nil && cached.Flags.Pending {
			n := cached.Note
			return &n, nil
		}
		return nil, err
	case !isNetworkFailure(err):
		return nil, err
	}

	cached, cerr := s.store.Get(ctx, id)
	if cerr != nil {
		return nil, cerr
	}
	if cached.Flags.Tombstoned {
		return nil, common.ErrorNotFound
	}
	s.advise(AdvisoryShowingCached)
	local := cached.Note
	return &local, nil
}

// CreateNote creates a note on the server, or offline stores it under a
// temporary id to be promoted by the reconciler.
func (s *SyncService) CreateNote(ctx context.Context, body, folderID string) (*models.Note, error) {
	n, err := s.remote.Create(ctx, body, folderID)
	if err == nil {
		s.cacheClean(ctx, n)
		return n, nil
	}
	if !isNetworkFailure(err) {
		return nil, err
	}

	now := s.now()
	local := &models.Note{
		ID:        s.newID(),
		Title:     models.DeriveTitle(body),
		Body:      body,
		Revision:  0,
		FolderID:  folderID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.Put(ctx, models.PendingNote(local)); err != nil {
		return nil, fmt.Errorf("queue create: %w", err)
	}
	s.logger.Info(ctx, "create queued", "id", local.ID)
	s.advise(AdvisoryCreateQueued)
	return local, nil
}

// UpdateNote sends body with the revision the caller last saw. A stale
// revision yields a *ConflictError and the cache adopts the server copy.
// Offline, the edit is queued with the caller's revision.
func (s *SyncService) UpdateNote(ctx context.Context, id, body string, revision int64) (*models.Note, error) {
	res, err := s.remote.Update(ctx, id, body, revision)
	if err != nil {
		if !isNetworkFailure(err) {
			return nil, err
		}
		return s.queueUpdate(ctx, id, body, revision)
	}

	switch res.Outcome {
	case models.UpdateCommitted:
		s.cacheClean(ctx, res.Note)
		return res.Note, nil
	case models.UpdateConflict:
		s.cacheClean(ctx, res.Note)
		s.logger.Info(ctx, "update rejected", "id", id, "sent", revision, "current", res.Note.Revision)
		return nil, &ConflictError{Current: res.Note}
	default:
		// A note created offline is unknown to the server until the
		// reconciler uploads it; keep editing the queued copy.
		if cached, cerr := s.store.Get(ctx, id); cerr == nil && cached.Flags.Pending {
			return s.queueUpdate(ctx, id, body, revision)
		}
		if err := s.store.Delete(ctx, id); err != nil {
			s.logger.Warn(ctx, "cache delete failed", "id", id, "error", err)
		}
		return nil, common.ErrorNotFound
	}
}

func (s *SyncService) queueUpdate(ctx context.Context, id, body string, revision int64) (*models.Note, error) {
	now := s.now()
	local := &models.Note{
		ID:        id,
		Title:     models.DeriveTitle(body),
		Body:      body,
		Revision:  revision,
		CreatedAt: now,
		UpdatedAt: now,
	}

	cached, err := s.store.Get(ctx, id)
	switch {
	case err == nil:
		if cached.Flags.Tombstoned {
			return nil, common.ErrorNotFound
		}
		local.FolderID = cached.FolderID
		local.CreatedAt = cached.CreatedAt
	case !errors.Is(err, common.ErrorNotFound):
		return nil, fmt.Errorf("read cache: %w", err)
	}

	if err := s.store.Put(ctx, models.PendingNote(local)); err != nil {
		return nil, fmt.Errorf("queue update: %w", err)
	}
	s.logger.Info(ctx, "update queued", "id", id, "revision", revision)
	s.advise(AdvisoryUpdateQueued)
	return local, nil
}

// DeleteNote deletes on the server, or offline tombstones the cached entry
// so the reconciler can replay the delete.
func (s *SyncService) DeleteNote(ctx context.Context, id string) error {
	err := s.remote.Delete(ctx, id)
	switch {
	case err == nil:
		return s.store.Delete(ctx, id)
	case errors.Is(err, common.ErrorNotFound):
		if _, cerr := s.store.Get(ctx, id); cerr != nil {
			return err
		}
		return s.store.Delete(ctx, id)
	case !isNetworkFailure(err):
		return err
	}

	if _, err := s.store.Get(ctx, id); err != nil {
		return err
	}
	if err := s.store.MarkTombstoned(ctx, id); err != nil {
		return fmt.Errorf("queue delete: %w", err)
	}
	s.logger.Info(ctx, "delete queued", "id", id)
	s.advise(AdvisoryDeleteQueued)
	return nil
}

// cacheClean stores n as confirmed server state. A failed cache write does
// not fail the operation; the next fetch repairs it.
func (s *SyncService) cacheClean(ctx context.Context, n *models.Note) {
	if err := s.store.Put(ctx, models.Clean(n)); err != nil {
		s.logger.Warn(ctx, "cache write failed", "id", n.ID, "error", err)
	}
}
