package notes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/dmitrijs2005/gophnotes/internal/dbx"
	"github.com/dmitrijs2005/gophnotes/internal/models"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const noteColumns = `id, title, body, revision, folder_id, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanNote(row scanner) (*models.Note, error) {
	var (
		n      models.Note
		folder sql.NullString
	)
	if err := row.Scan(&n.ID, &n.Title, &n.Body, &n.Revision, &folder, &n.CreatedAt, &n.UpdatedAt); err != nil {
		return nil, err
	}
	n.FolderID = folder.String
	return &n, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// isInvalidText reports a malformed literal, e.g. a non-UUID id or folder id.
func isInvalidText(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.InvalidTextRepresentation
}

func (r *PostgresRepository) Create(ctx context.Context, userID string, n *models.Note) (*models.Note, error) {
	query := `
		INSERT INTO notes (id, user_id, folder_id, title, body, revision, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, 0, $6, $7)
		RETURNING ` + noteColumns

	row := r.db.QueryRowContext(ctx, query,
		n.ID, userID, nullable(n.FolderID), n.Title, n.Body, n.CreatedAt, n.UpdatedAt)

	created, err := scanNote(row)
	if err != nil {
		if isInvalidText(err) {
			return nil, fmt.Errorf("%w: malformed folder id", common.ErrorValidation)
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return created, nil
}

func (r *PostgresRepository) List(ctx context.Context, userID string, folderID string) ([]*models.Note, error) {
	query := `SELECT ` + noteColumns + ` FROM notes WHERE user_id = $1`
	args := []any{userID}
	if folderID != "" {
		query += ` AND folder_id = $2`
		args = append(args, folderID)
	}
	query += ` ORDER BY updated_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		if isInvalidText(err) {
			return nil, fmt.Errorf("%w: malformed folder id", common.ErrorValidation)
		}
		return nil, fmt.Errorf("failed to select notes: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Note, 0)
	for rows.Next() {
		n, err := scanNote(rows)
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

func (r *PostgresRepository) GetByID(ctx context.Context, userID string, id string) (*models.Note, error) {
	query := `SELECT ` + noteColumns + ` FROM notes WHERE id = $1 AND user_id = $2`

	n, err := scanNote(r.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || isInvalidText(err) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("query row scan failed: %w", err)
	}
	return n, nil
}

// Update is a single conditional statement guarded by the expected revision.
// When nothing was written, a follow-up read tells a missing note (NotFound)
// from a stale revision (Conflict). A delete that lands between the two
// statements therefore resolves to NotFound.
func (r *PostgresRepository) Update(ctx context.Context, userID string, n *models.Note, expectedRevision int64) (models.UpdateResult, error) {
	query := `
		UPDATE notes
		SET title = $1, body = $2, revision = revision + 1, updated_at = $3
		WHERE id = $4 AND user_id = $5 AND revision = $6
		RETURNING ` + noteColumns

	row := r.db.QueryRowContext(ctx, query, n.Title, n.Body, n.UpdatedAt, n.ID, userID, expectedRevision)

	updated, err := scanNote(row)
	switch {
	case err == nil:
		return models.Committed(updated), nil
	case isInvalidText(err):
		return models.NotFound(), nil
	case !errors.Is(err, sql.ErrNoRows):
		return models.UpdateResult{}, fmt.Errorf("db error: %w", err)
	}

	current, err := r.GetByID(ctx, userID, n.ID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return models.NotFound(), nil
		}
		return models.UpdateResult{}, err
	}
	return models.Conflict(current), nil
}

func (r *PostgresRepository) Delete(ctx context.Context, userID string, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM notes WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		if isInvalidText(err) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
