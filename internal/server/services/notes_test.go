package services

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/dmitrijs2005/gophnotes/internal/dbx"
	"github.com/dmitrijs2005/gophnotes/internal/models"
	"github.com/dmitrijs2005/gophnotes/internal/server/repositories/notes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- fakes ---

type fakeNotesRepo struct {
	created   *models.Note
	createErr error

	listFolder string
	listOut    []*models.Note
	listErr    error

	getOut *models.Note
	getErr error

	updated      *models.Note
	updatedRev   int64
	updateResult models.UpdateResult
	updateErr    error

	deletedID string
	deleteErr error
}

func (f *fakeNotesRepo) Create(_ context.Context, _ string, n *models.Note) (*models.Note, error) {
	f.created = n
	if f.createErr != nil {
		return nil, f.createErr
	}
	return n, nil
}

func (f *fakeNotesRepo) List(_ context.Context, _ string, folderID string) ([]*models.Note, error) {
	f.listFolder = folderID
	return f.listOut, f.listErr
}

func (f *fakeNotesRepo) GetByID(context.Context, string, string) (*models.Note, error) {
	return f.getOut, f.getErr
}

func (f *fakeNotesRepo) Update(_ context.Context, _ string, n *models.Note, expected int64) (models.UpdateResult, error) {
	f.updated = n
	f.updatedRev = expected
	return f.updateResult, f.updateErr
}

func (f *fakeNotesRepo) Delete(_ context.Context, _ string, id string) error {
	f.deletedID = id
	return f.deleteErr
}

type fakeRepoManager struct {
	repo *fakeNotesRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Notes(dbx.DBTX) notes.Repository           { return m.repo }

func newNoteService(t *testing.T, repo *fakeNotesRepo) *NoteService {
	t.Helper()
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	s := NewNoteService(db, &fakeRepoManager{repo: repo})
	s.now = func() time.Time { return time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC) }
	return s
}

// --- tests ---

func TestNoteService_Create_DerivesTitleAndStartsAtZero(t *testing.T) {
	repo := &fakeNotesRepo{}
	s := newNoteService(t, repo)

	n, err := s.Create(context.Background(), "u1", "  Groceries  \nmilk\neggs", "")
	require.NoError(t, err)

	assert.NotEmpty(t, n.ID)
	assert.Equal(t, "Groceries", n.Title)
	assert.Equal(t, int64(0), n.Revision)
	assert.Equal(t, n.CreatedAt, n.UpdatedAt)
	assert.Same(t, repo.created, n)
}

func TestNoteService_Create_EmptyBodyGetsDefaultTitle(t *testing.T) {
	s := newNoteService(t, &fakeNotesRepo{})

	n, err := s.Create(context.Background(), "u1", "", "")
	require.NoError(t, err)
	assert.Equal(t, common.DefaultNoteTitle, n.Title)
}

func TestNoteService_Create_RejectsMalformedFolder(t *testing.T) {
	repo := &fakeNotesRepo{}
	s := newNoteService(t, repo)

	_, err := s.Create(context.Background(), "u1", "x", "not-a-uuid")
	require.ErrorIs(t, err, common.ErrorValidation)
	assert.Nil(t, repo.created)
}

func TestNoteService_Create_RepoError(t *testing.T) {
	s := newNoteService(t, &fakeNotesRepo{createErr: errors.New("db")})

	_, err := s.Create(context.Background(), "u1", "x", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create note")
}

func TestNoteService_List_PassesFolder(t *testing.T) {
	folder := "6f1c1d5e-4d0b-4a57-9d7c-3b1f0f7e2a11"
	repo := &fakeNotesRepo{listOut: []*models.Note{{ID: "a"}}}
	s := newNoteService(t, repo)

	out, err := s.List(context.Background(), "u1", folder)
	require.NoError(t, err)
	assert.Len(t, out, 1)
	assert.Equal(t, folder, repo.listFolder)
}

func TestNoteService_Get_NotFound(t *testing.T) {
	s := newNoteService(t, &fakeNotesRepo{getErr: common.ErrorNotFound})

	_, err := s.Get(context.Background(), "u1", "missing")
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestNoteService_Update_RecomputesTitle(t *testing.T) {
	repo := &fakeNotesRepo{}
	repo.updateResult = models.Committed(&models.Note{ID: "n1", Revision: 1})
	s := newNoteService(t, repo)

	res, err := s.Update(context.Background(), "u1", "n1", "Hi\nWorld", 0)
	require.NoError(t, err)

	assert.Equal(t, models.UpdateCommitted, res.Outcome)
	assert.Equal(t, "Hi", repo.updated.Title)
	assert.Equal(t, "Hi\nWorld", repo.updated.Body)
	assert.Equal(t, int64(0), repo.updatedRev)
	assert.False(t, repo.updated.UpdatedAt.IsZero())
}

func TestNoteService_Update_PassesConflictThrough(t *testing.T) {
	current := &models.Note{ID: "n1", Revision: 4}
	s := newNoteService(t, &fakeNotesRepo{updateResult: models.Conflict(current)})

	res, err := s.Update(context.Background(), "u1", "n1", "stale", 2)
	require.NoError(t, err)
	assert.Equal(t, models.UpdateConflict, res.Outcome)
	assert.Same(t, current, res.Note)
}

func TestNoteService_Update_NegativeRevision(t *testing.T) {
	repo := &fakeNotesRepo{}
	s := newNoteService(t, repo)

	_, err := s.Update(context.Background(), "u1", "n1", "x", -1)
	require.ErrorIs(t, err, common.ErrorValidation)
	assert.Nil(t, repo.updated)
}

func TestNoteService_Update_RepoError(t *testing.T) {
	boom := errors.New("boom")
	s := newNoteService(t, &fakeNotesRepo{updateErr: boom})

	_, err := s.Update(context.Background(), "u1", "n1", "x", 0)
	require.ErrorIs(t, err, boom)
}

func TestNoteService_Delete(t *testing.T) {
	repo := &fakeNotesRepo{}
	s := newNoteService(t, repo)

	require.NoError(t, s.Delete(context.Background(), "u1", "n1"))
	assert.Equal(t, "n1", repo.deletedID)

	repo.deleteErr = common.ErrorNotFound
	require.ErrorIs(t, s.Delete(context.Background(), "u1", "n1"), common.ErrorNotFound)
}
