// Package notes provides the PostgreSQL-backed server store of record for
// notes, including the optimistic conditional update.
package notes

import (
	"context"

	"github.com/dmitrijs2005/gophnotes/internal/models"
)

// Repository persists notes for a user. All methods are scoped by userID.
type Repository interface {
	// Create inserts n and returns the stored row.
	Create(ctx context.Context, userID string, n *models.Note) (*models.Note, error)

	// List returns the user's notes, newest update first. An empty folderID
	// lists every note.
	List(ctx context.Context, userID string, folderID string) ([]*models.Note, error)

	// GetByID returns common.ErrorNotFound when the note does not exist.
	GetByID(ctx context.Context, userID string, id string) (*models.Note, error)

	// Update writes n.Body, n.Title and n.UpdatedAt and bumps the revision,
	// only if the stored revision equals expectedRevision.
	Update(ctx context.Context, userID string, n *models.Note, expectedRevision int64) (models.UpdateResult, error)

	// Delete returns common.ErrorNotFound when no row was removed.
	Delete(ctx context.Context, userID string, id string) error
}
