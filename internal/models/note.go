// Package models holds the note domain types shared by the gophnotes server
// and client: the authoritative Note record, the three-way outcome of a
// conditional update, and title derivation.
package models

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/gophnotes/internal/common"
)

// Note is an authoritative note snapshot as issued by the server.
//
// Revision starts at 0 and grows by exactly one per committed update.
// FolderID is empty when the note is not filed in a folder.
type Note struct {
	ID        string
	Title     string
	Body      string
	Revision  int64
	FolderID  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DeriveTitle returns the title for a body: its first line, trimmed and
// truncated to common.MaxTitleLength runes, or common.DefaultNoteTitle when
// that line is blank.
func DeriveTitle(body string) string {
	first, _, _ := strings.Cut(body, "\n")
	first = strings.TrimSpace(first)

	if utf8.RuneCountInString(first) > common.MaxTitleLength {
		first = string([]rune(first)[:common.MaxTitleLength])
	}

	if first == "" {
		return common.DefaultNoteTitle
	}
	return first
}

// UpdateOutcome classifies the result of a conditional update.
type UpdateOutcome int

const (
	// UpdateCommitted means the revision matched and the write was applied.
	UpdateCommitted UpdateOutcome = iota
	// UpdateNotFound means no note with the given id exists.
	UpdateNotFound
	// UpdateConflict means the note exists at a different revision.
	UpdateConflict
)

func (o UpdateOutcome) String() string {
	switch o {
	case UpdateCommitted:
		return "committed"
	case UpdateNotFound:
		return "not_found"
	case UpdateConflict:
		return "conflict"
	default:
		return "unknown"
	}
}

// UpdateResult is the outcome of a conditional update.
//
// Note is the freshly committed note for UpdateCommitted, the current
// authoritative note for UpdateConflict, and nil for UpdateNotFound.
type UpdateResult struct {
	Outcome UpdateOutcome
	Note    *Note
}

// Committed builds an UpdateResult for an applied write.
func Committed(n *Note) UpdateResult { return UpdateResult{Outcome: UpdateCommitted, Note: n} }

// NotFound builds an UpdateResult for a missing note.
func NotFound() UpdateResult { return UpdateResult{Outcome: UpdateNotFound} }

// Conflict builds an UpdateResult carrying the current note.
func Conflict(current *Note) UpdateResult { return UpdateResult{Outcome: UpdateConflict, Note: current} }
