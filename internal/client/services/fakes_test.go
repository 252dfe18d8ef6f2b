package services

import (
	"context"
	"errors"
	"path/filepath"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophnotes/internal/client/client"
	"github.com/dmitrijs2005/gophnotes/internal/client/repositories/notes"
	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/dmitrijs2005/gophnotes/internal/logging"
	"github.com/dmitrijs2005/gophnotes/internal/models"
	"github.com/stretchr/testify/require"
)

// memRemote is an in-memory server of record with revision checks. Setting
// offline makes every call fail as a network error.
type memRemote struct {
	mu      sync.Mutex
	offline bool
	seq     int
	notes   map[string]*models.Note
	calls   []string
}

var _ client.Client = (*memRemote)(nil)

func newMemRemote() *memRemote {
	return &memRemote{notes: map[string]*models.Note{}}
}

func (m *memRemote) setOffline(v bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.offline = v
}

func (m *memRemote) record(call string) error {
	m.calls = append(m.calls, call)
	if m.offline {
		return client.ErrUnavailable
	}
	return nil
}

func (m *memRemote) callLog() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

func (m *memRemote) Close() error { return nil }

func (m *memRemote) Ping(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.offline {
		return client.ErrUnavailable
	}
	return nil
}

func (m *memRemote) FetchAll(_ context.Context, folderID string) ([]*models.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("list"); err != nil {
		return nil, err
	}
	out := []*models.Note{}
	for _, n := range m.notes {
		if folderID == "" || n.FolderID == folderID {
			c := *n
			out = append(out, &c)
		}
	}
	return out, nil
}

func (m *memRemote) Get(_ context.Context, id string) (*models.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("get:" + id); err != nil {
		return nil, err
	}
	n, ok := m.notes[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c := *n
	return &c, nil
}

func (m *memRemote) Create(_ context.Context, body, folderID string) (*models.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("create"); err != nil {
		return nil, err
	}
	m.seq++
	now := time.Now().UTC()
	n := &models.Note{
		ID: "srv-" + strconv.Itoa(m.seq), Title: models.DeriveTitle(body), Body: body,
		FolderID: folderID, CreatedAt: now, UpdatedAt: now,
	}
	m.notes[n.ID] = n
	c := *n
	return &c, nil
}

func (m *memRemote) Update(_ context.Context, id, body string, revision int64) (models.UpdateResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("update:" + id); err != nil {
		return models.UpdateResult{}, err
	}
	n, ok := m.notes[id]
	if !ok {
		return models.NotFound(), nil
	}
	if n.Revision != revision {
		c := *n
		return models.Conflict(&c), nil
	}
	n.Body = body
	n.Title = models.DeriveTitle(body)
	n.Revision++
	n.UpdatedAt = time.Now().UTC()
	c := *n
	return models.Committed(&c), nil
}

func (m *memRemote) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("delete:" + id); err != nil {
		return err
	}
	if _, ok := m.notes[id]; !ok {
		return common.ErrorNotFound
	}
	delete(m.notes, id)
	return nil
}

// serverNote reads the server copy directly, bypassing offline mode.
func (m *memRemote) serverNote(id string) (*models.Note, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.notes[id]
	if !ok {
		return nil, false
	}
	c := *n
	return &c, true
}

func (m *memRemote) serverCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.notes)
}

func newStore(t *testing.T) *notes.SQLiteRepository {
	t.Helper()
	db, err := client.InitDatabase(context.Background(), filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return notes.NewSQLiteRepository(db)
}

type harness struct {
	remote     *memRemote
	store      *notes.SQLiteRepository
	sync       *SyncService
	reconciler *Reconciler
	advisories []Advisory
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{remote: newMemRemote(), store: newStore(t)}
	h.sync = NewSyncService(h.remote, h.store, logging.Nop(), func(a Advisory) {
		h.advisories = append(h.advisories, a)
	})
	h.reconciler = NewReconciler(h.remote, h.store, logging.Nop())
	return h
}

// failingRemote answers every list and write call with err.
type failingRemote struct {
	*memRemote
	err error
}

func (f *failingRemote) FetchAll(context.Context, string) ([]*models.Note, error) {
	return nil, f.err
}

func (f *failingRemote) Create(context.Context, string, string) (*models.Note, error) {
	return nil, f.err
}

func (f *failingRemote) Update(context.Context, string, string, int64) (models.UpdateResult, error) {
	return models.UpdateResult{}, f.err
}

func (f *failingRemote) Delete(context.Context, string) error {
	return f.err
}

var errLocalWrite = errors.New("disk I/O error")

// flakyStore fails the next failPut clean writes and failReplace swaps.
type flakyStore struct {
	*notes.SQLiteRepository
	failPut     int
	failReplace int
}

func (f *flakyStore) Put(ctx context.Context, n *models.CachedNote) error {
	if f.failPut > 0 && n.Flags == (models.SyncFlags{}) {
		f.failPut--
		return errLocalWrite
	}
	return f.SQLiteRepository.Put(ctx, n)
}

func (f *flakyStore) Replace(ctx context.Context, oldID string, n *models.CachedNote) error {
	if f.failReplace > 0 {
		f.failReplace--
		return errLocalWrite
	}
	return f.SQLiteRepository.Replace(ctx, oldID, n)
}
