// Package notes is the client's local note store: a cache of server
// snapshots plus the queue of mutations made while offline.
package notes

import (
	"context"

	"github.com/dmitrijs2005/gophnotes/internal/models"
)

// Repository persists cached notes and their sync flags. Writes are
// whole-record upserts; the last writer wins.
type Repository interface {
	// Put upserts n together with its flags.
	Put(ctx context.Context, n *models.CachedNote) error
	// PutAll makes fresh the authoritative clean contents of the cache.
	// Entries that are pending or tombstoned are left untouched.
	PutAll(ctx context.Context, fresh []*models.Note) error
	// Get returns the entry with the given id or common.ErrorNotFound.
	Get(ctx context.Context, id string) (*models.CachedNote, error)
	// List returns non-tombstoned entries, optionally limited to one folder.
	List(ctx context.Context, folderID string) ([]*models.CachedNote, error)
	// ListPending returns entries awaiting upload, excluding tombstoned ones.
	ListPending(ctx context.Context) ([]*models.CachedNote, error)
	// ListTombstoned returns entries whose delete is queued.
	ListTombstoned(ctx context.Context) ([]*models.CachedNote, error)
	// Replace removes the entry oldID and upserts n in one transaction.
	Replace(ctx context.Context, oldID string, n *models.CachedNote) error
	// Delete removes an entry. Removing a missing entry is not an error.
	Delete(ctx context.Context, id string) error
	// MarkTombstoned queues a delete and drops any pending edit. A missing
	// entry is left missing.
	MarkTombstoned(ctx context.Context, id string) error
}
