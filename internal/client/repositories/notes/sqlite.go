package notes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/dmitrijs2005/gophnotes/internal/dbx"
	"github.com/dmitrijs2005/gophnotes/internal/models"
)

// SQLiteRepository implements Repository on the local SQLite cache.
// Timestamps are stored as Unix nanoseconds.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository returns a repository bound to db.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const columns = `id, title, body, revision, folder_id, created_at, updated_at, pending_sync, tombstoned`

const upsertQuery = `
	INSERT INTO notes (` + columns + `)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		title = excluded.title,
		body = excluded.body,
		revision = excluded.revision,
		folder_id = excluded.folder_id,
		created_at = excluded.created_at,
		updated_at = excluded.updated_at,
		pending_sync = excluded.pending_sync,
		tombstoned = excluded.tombstoned`

type scanner interface {
	Scan(dest ...any) error
}

func scanCached(row scanner) (*models.CachedNote, error) {
	var (
		n                  models.CachedNote
		created, updated   int64
		pending, tombstone int
	)
	if err := row.Scan(&n.ID, &n.Title, &n.Body, &n.Revision, &n.FolderID,
		&created, &updated, &pending, &tombstone); err != nil {
		return nil, err
	}
	n.CreatedAt = time.Unix(0, created).UTC()
	n.UpdatedAt = time.Unix(0, updated).UTC()
	n.Flags = models.SyncFlags{Pending: pending == 1, Tombstoned: tombstone == 1}
	return &n, nil
}

func put(ctx context.Context, db dbx.DBTX, n *models.CachedNote) error {
	_, err := db.ExecContext(ctx, upsertQuery,
		n.ID, n.Title, n.Body, n.Revision, n.FolderID,
		n.CreatedAt.UnixNano(), n.UpdatedAt.UnixNano(),
		dbx.BoolToInt(n.Flags.Pending), dbx.BoolToInt(n.Flags.Tombstoned))
	if err != nil {
		return fmt.Errorf("failed to upsert note: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Put(ctx context.Context, n *models.CachedNote) error {
	return put(ctx, r.db, n)
}

// PutAll drops every clean entry and writes fresh in its place, in one
// transaction. A fresh note whose id is pending or tombstoned locally does
// not overwrite the local entry; the queued change still has to be replayed.
func (r *SQLiteRepository) PutAll(ctx context.Context, fresh []*models.Note) error {
	const insertClean = `
		INSERT INTO notes (` + columns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, 0, 0)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			body = excluded.body,
			revision = excluded.revision,
			folder_id = excluded.folder_id,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at
		WHERE notes.pending_sync = 0 AND notes.tombstoned = 0`

	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM notes WHERE pending_sync = 0 AND tombstoned = 0`); err != nil {
			return fmt.Errorf("failed to purge clean notes: %w", err)
		}
		for _, n := range fresh {
			if _, err := tx.ExecContext(ctx, insertClean,
				n.ID, n.Title, n.Body, n.Revision, n.FolderID,
				n.CreatedAt.UnixNano(), n.UpdatedAt.UnixNano()); err != nil {
				return fmt.Errorf("failed to store note %s: %w", n.ID, err)
			}
		}
		return nil
	})
}

func (r *SQLiteRepository) Get(ctx context.Context, id string) (*models.CachedNote, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+columns+` FROM notes WHERE id = ?`, id)

	n, err := scanCached(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("query row scan failed: %w", err)
	}
	return n, nil
}

func (r *SQLiteRepository) query(ctx context.Context, query string, args ...any) ([]*models.CachedNote, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select notes: %w", err)
	}
	defer rows.Close()

	result := make([]*models.CachedNote, 0)
	for rows.Next() {
		n, err := scanCached(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) List(ctx context.Context, folderID string) ([]*models.CachedNote, error) {
	if folderID == "" {
		return r.query(ctx, `SELECT `+columns+` FROM notes WHERE tombstoned = 0 ORDER BY updated_at DESC`)
	}
	return r.query(ctx, `SELECT `+columns+` FROM notes WHERE tombstoned = 0 AND folder_id = ? ORDER BY updated_at DESC`, folderID)
}

func (r *SQLiteRepository) ListPending(ctx context.Context) ([]*models.CachedNote, error) {
	return r.query(ctx, `SELECT `+columns+` FROM notes WHERE pending_sync = 1 AND tombstoned = 0`)
}

func (r *SQLiteRepository) ListTombstoned(ctx context.Context) ([]*models.CachedNote, error) {
	return r.query(ctx, `SELECT `+columns+` FROM notes WHERE tombstoned = 1`)
}

// Replace swaps the entry oldID for n atomically. Either both the removal
// and the upsert happen or neither does.
func (r *SQLiteRepository) Replace(ctx context.Context, oldID string, n *models.CachedNote) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, oldID); err != nil {
			return fmt.Errorf("failed to delete note %s: %w", oldID, err)
		}
		return put(ctx, tx, n)
	})
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) MarkTombstoned(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE notes SET tombstoned = 1, pending_sync = 0 WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to tombstone note: %w", err)
	}
	return nil
}
