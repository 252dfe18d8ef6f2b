package client

import (
	"context"

	"github.com/dmitrijs2005/gophnotes/internal/models"
)

// Client is the remote note service as seen by the sync layer.
type Client interface {
	Close() error
	Ping(ctx context.Context) error
	FetchAll(ctx context.Context, folderID string) ([]*models.Note, error)
	Get(ctx context.Context, id string) (*models.Note, error)
	Create(ctx context.Context, body, folderID string) (*models.Note, error)
	// Update is a conditional write; NotFound and Conflict are outcomes,
	// not errors.
	Update(ctx context.Context, id, body string, revision int64) (models.UpdateResult, error)
	Delete(ctx context.Context, id string) error
}
