// Package services contains server-side business logic. This file implements
// NoteService, the authoritative store of notes with optimistic concurrency
// on every update.
package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/dmitrijs2005/gophnotes/internal/models"
	"github.com/dmitrijs2005/gophnotes/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// NoteService owns note ids, titles, timestamps and revisions. Callers only
// ever supply bodies, folders and the revision they last saw.
type NoteService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	now         func() time.Time
}

// NewNoteService constructs a NoteService using repositories from m.
func NewNoteService(db *sql.DB, m repomanager.RepositoryManager) *NoteService {
	return &NoteService{
		db:          db,
		repomanager: m,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func validateFolder(folderID string) error {
	if folderID == "" {
		return nil
	}
	if _, err := uuid.Parse(folderID); err != nil {
		return fmt.Errorf("%w: folder id %q", common.ErrorValidation, folderID)
	}
	return nil
}

// Create stores a new note at revision 0.
func (s *NoteService) Create(ctx context.Context, userID, body, folderID string) (*models.Note, error) {
	if err := validateFolder(folderID); err != nil {
		return nil, err
	}

	now := s.now()
	n := &models.Note{
		ID:        uuid.NewString(),
		Title:     models.DeriveTitle(body),
		Body:      body,
		FolderID:  folderID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := s.repomanager.Notes(s.db).Create(ctx, userID, n)
	if err != nil {
		return nil, fmt.Errorf("create note: %w", err)
	}
	return created, nil
}

// List returns the user's notes, optionally restricted to one folder,
// most recently updated first.
func (s *NoteService) List(ctx context.Context, userID, folderID string) ([]*models.Note, error) {
	if err := validateFolder(folderID); err != nil {
		return nil, err
	}
	return s.repomanager.Notes(s.db).List(ctx, userID, folderID)
}

// Get returns a single note or common.ErrorNotFound.
func (s *NoteService) Get(ctx context.Context, userID, id string) (*models.Note, error) {
	return s.repomanager.Notes(s.db).GetByID(ctx, userID, id)
}

// Update replaces the body of a note if revision still matches the stored
// one. The title is recomputed from the new body.
func (s *NoteService) Update(ctx context.Context, userID, id, body string, revision int64) (models.UpdateResult, error) {
	if revision < 0 {
		return models.UpdateResult{}, fmt.Errorf("%w: negative revision %d", common.ErrorValidation, revision)
	}

	n := &models.Note{
		ID:        id,
		Title:     models.DeriveTitle(body),
		Body:      body,
		UpdatedAt: s.now(),
	}

	res, err := s.repomanager.Notes(s.db).Update(ctx, userID, n, revision)
	if err != nil {
		return models.UpdateResult{}, fmt.Errorf("update note: %w", err)
	}
	return res, nil
}

// Delete removes a note; a missing note yields common.ErrorNotFound.
func (s *NoteService) Delete(ctx context.Context, userID, id string) error {
	return s.repomanager.Notes(s.db).Delete(ctx, userID, id)
}
