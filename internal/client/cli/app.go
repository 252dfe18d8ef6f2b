package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/dmitrijs2005/gophnotes/internal/client/client"
	"github.com/dmitrijs2005/gophnotes/internal/client/config"
	"github.com/dmitrijs2005/gophnotes/internal/client/repositories/notes"
	"github.com/dmitrijs2005/gophnotes/internal/client/services"
	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/dmitrijs2005/gophnotes/internal/logging"
	"github.com/dmitrijs2005/gophnotes/internal/models"
	"github.com/rs/zerolog"
)

type Mode string

const (
	ModeUnknown Mode = "connecting"
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// noteService is the part of services.SyncService the commands use.
type noteService interface {
	FetchNotes(ctx context.Context, folderID string) ([]*models.Note, error)
	GetNote(ctx context.Context, id string) (*models.Note, error)
	CreateNote(ctx context.Context, body, folderID string) (*models.Note, error)
	UpdateNote(ctx context.Context, id, body string, revision int64) (*models.Note, error)
	DeleteNote(ctx context.Context, id string) error
}

type reconciler interface {
	Run(ctx context.Context) (services.SyncResult, error)
}

// queue reports what is still waiting to be replayed.
type queue interface {
	ListPending(ctx context.Context) ([]*models.CachedNote, error)
	ListTombstoned(ctx context.Context) ([]*models.CachedNote, error)
}

type App struct {
	config     *config.Config
	notes      noteService
	reconciler reconciler
	queue      queue
	watcher    *services.StatusWatcher
	logger     logging.Logger
	reader     *bufio.Reader
	out        io.Writer

	mu      sync.Mutex
	mode    Mode
	closers []io.Closer
}

// NewApp opens the local cache and the log file, prepares the remote client
// and wires the sync services. Nothing contacts the server until Run.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logWriter := logging.NewRotatingFileWriter(c.LogFile)
	logger := logging.NewZerologLogger(logWriter, zerolog.InfoLevel)

	db, err := client.InitDatabase(ctx, c.LocalDBFile)
	if err != nil {
		_ = logWriter.Close()
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	apiClient, err := client.NewGRPCClient(c.ServerEndpointAddr, c.AccessToken, c.RequestTimeout)
	if err != nil {
		_ = db.Close()
		_ = logWriter.Close()
		return nil, fmt.Errorf("error creating client: %w", err)
	}

	store := notes.NewSQLiteRepository(db)

	a := &App{
		config:  c,
		queue:   store,
		logger:  logger.With("module", "cli"),
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
		mode:    ModeUnknown,
		closers: []io.Closer{apiClient, db, logWriter},
	}
	a.notes = services.NewSyncService(apiClient, store, logger, a.advise)
	a.reconciler = services.NewReconciler(apiClient, store, logger)
	a.watcher = services.NewStatusWatcher(apiClient, c.OnlineCheckInterval, logger, a.onConnectivityChange)

	return a, nil
}

// Run starts the status watcher and the REPL. When the user exits or ctx is
// cancelled it waits for the watcher, including a reconciliation in
// progress, before releasing resources.
func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)

	a.println("Welcome to gophnotes CLI (type 'help' for commands)")

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		a.watcher.Run(ctx)
	}()

	runREPL(ctx, a, a.status, a.reader)

	cancel()
	wg.Wait()
	a.Close()
}

// Close releases the remote connection, the cache and the log file.
func (a *App) Close() {
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			a.logger.Warn(context.Background(), "close failed", "error", err)
		}
	}
	a.closers = nil
}

func (a *App) status() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return string(a.mode)
}

func (a *App) setMode(mode Mode) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.mode == mode {
		return false
	}
	a.mode = mode
	return true
}

func (a *App) println(args ...any) {
	a.mu.Lock()
	defer a.mu.Unlock()
	fmt.Fprintln(a.out, args...)
}

func (a *App) printf(format string, args ...any) {
	a.mu.Lock()
	defer a.mu.Unlock()
	fmt.Fprintf(a.out, format, args...)
}

func (a *App) advise(adv services.Advisory) {
	a.println(adv.String())
}

// onConnectivityChange runs on the watcher goroutine. Coming online drains
// the queue and then refreshes the cache from the server.
func (a *App) onConnectivityChange(ctx context.Context, online bool) {
	mode := ModeOffline
	if online {
		mode = ModeOnline
	}
	if a.setMode(mode) {
		a.println("Switched to", mode, "mode")
	}
	if !online {
		return
	}
	if err := a.reconcile(ctx); err != nil && !errors.Is(err, common.ErrSyncInProgress) {
		a.logger.Error(ctx, "reconciliation failed", "error", err)
	}
}

// reconcile replays queued changes, reports the result and refreshes the
// cache with one authoritative listing.
func (a *App) reconcile(ctx context.Context) error {
	res, err := a.reconciler.Run(ctx)
	if err != nil {
		return err
	}

	if res.Synced > 0 || res.Failed > 0 {
		a.printf("Sync finished: %d synced, %d failed\n", res.Synced, res.Failed)
	}
	for _, id := range res.Conflicts {
		a.printf("Note %s was changed elsewhere; your offline edit was replaced by the server copy\n", id)
	}

	if _, err := a.notes.FetchNotes(ctx, ""); err != nil {
		return fmt.Errorf("refresh after sync: %w", err)
	}
	return nil
}
