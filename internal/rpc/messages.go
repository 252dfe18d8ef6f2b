package rpc

import (
	"time"

	"github.com/dmitrijs2005/gophnotes/internal/models"
)

// Note is the wire form of models.Note.
type Note struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Revision  int64     `json:"revision"`
	FolderID  string    `json:"folder_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NoteFromModel(n *models.Note) *Note {
	if n == nil {
		return nil
	}
	return &Note{
		ID:        n.ID,
		Title:     n.Title,
		Body:      n.Body,
		Revision:  n.Revision,
		FolderID:  n.FolderID,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
}

func (n *Note) ToModel() *models.Note {
	if n == nil {
		return nil
	}
	return &models.Note{
		ID:        n.ID,
		Title:     n.Title,
		Body:      n.Body,
		Revision:  n.Revision,
		FolderID:  n.FolderID,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
}

type PingRequest struct{}

type PingResponse struct {
	Status string `json:"status"`
}

type ListNotesRequest struct {
	FolderID string `json:"folder_id,omitempty"`
}

type ListNotesResponse struct {
	Notes []*Note `json:"notes"`
}

type GetNoteRequest struct {
	ID string `json:"id"`
}

type GetNoteResponse struct {
	Note *Note `json:"note"`
}

type CreateNoteRequest struct {
	Body     string `json:"body"`
	FolderID string `json:"folder_id,omitempty"`
}

type CreateNoteResponse struct {
	Note *Note `json:"note"`
}

type UpdateNoteRequest struct {
	ID       string `json:"id"`
	Body     string `json:"body"`
	Revision int64  `json:"revision"`
}

// Update outcomes carried in UpdateNoteResponse. A missing note is reported
// as a codes.NotFound status instead.
const (
	OutcomeCommitted = "committed"
	OutcomeConflict  = "conflict"
)

// UpdateNoteResponse carries either the committed note or, on conflict, the
// current authoritative note.
type UpdateNoteResponse struct {
	Outcome string `json:"outcome"`
	Note    *Note  `json:"note"`
}

type DeleteNoteRequest struct {
	ID string `json:"id"`
}

type DeleteNoteResponse struct{}
