package skills

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/upskills/internal/common"
	"github.com/dmitrijs2005/upskills/internal/dbx"
	"github.com/dmitrijs2005/upskills/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

// skillColumns is the scan order used by every SELECT in this package.
const skillColumns = `id, collection_id, source_url, alias, name, description, created_at,
		last_etag, last_content, last_fetched_at, last_fetch_status, last_fetch_error`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// isUniqueViolation reports whether err is a unique-constraint failure.
// Production runs on PostgreSQL (pgx error code 23505); tests run on an
// in-memory sqlite database which reports the constraint in the message.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint")
}

func (r *PostgresRepository) Create(ctx context.Context, skill *models.Skill) error {

	query :=
		`INSERT INTO skills (id, collection_id, source_url, alias, name, description, created_at,
		 last_etag, last_content, last_fetched_at, last_fetch_status, last_fetch_error)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 `

	_, err := r.db.ExecContext(ctx, query,
		skill.ID, skill.CollectionID, skill.SourceURL, skill.Alias, skill.Name, skill.Description,
		skill.CreatedAt, skill.LastETag, skill.LastContent, skill.LastFetchedAt,
		skill.LastFetchStatus, skill.LastFetchError)

	if err != nil {
		if isUniqueViolation(err) {
			return common.ErrorConflict
		}
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) List(ctx context.Context, collectionID string) ([]*models.Skill, error) {
	query := `SELECT ` + skillColumns + `
		 FROM skills
		 WHERE collection_id = $1
		 ORDER BY created_at DESC, id
		 `

	rows, err := r.db.QueryContext(ctx, query, collectionID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	return scanSkills(rows)
}

// Search matches the needle case-insensitively against alias, name,
// description and source URL within one collection. A needle that is empty
// after trimming matches everything, so it degrades to List.
func (r *PostgresRepository) Search(ctx context.Context, collectionID string, needle string) ([]*models.Skill, error) {
	needle = strings.TrimSpace(needle)
	if needle == "" {
		return r.List(ctx, collectionID)
	}

	query := `SELECT ` + skillColumns + `
		 FROM skills
		 WHERE collection_id = $1
		   AND (LOWER(COALESCE(alias, '')) LIKE $2 OR LOWER(name) LIKE $2
		        OR LOWER(description) LIKE $2 OR LOWER(source_url) LIKE $2)
		 ORDER BY created_at DESC, id
		 `

	pattern := "%" + strings.ToLower(needle) + "%"

	rows, err := r.db.QueryContext(ctx, query, collectionID, pattern)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	return scanSkills(rows)
}

func (r *PostgresRepository) GetByID(ctx context.Context, collectionID string, id string) (*models.Skill, error) {
	query := `SELECT ` + skillColumns + `
		 FROM skills
		 WHERE collection_id = $1 AND id = $2
		 `

	skill := &models.Skill{}
	err := r.db.QueryRowContext(ctx, query, collectionID, id).Scan(
		&skill.ID, &skill.CollectionID, &skill.SourceURL, &skill.Alias, &skill.Name,
		&skill.Description, &skill.CreatedAt, &skill.LastETag, &skill.LastContent,
		&skill.LastFetchedAt, &skill.LastFetchStatus, &skill.LastFetchError)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return skill, nil
}

// ApplyFetch writes the outcome of a fetch attempt as a single row update.
// Nil pointer fields in upd leave the stored column untouched (COALESCE);
// the attempt columns last_fetched_at, last_fetch_status and
// last_fetch_error are overwritten unconditionally.
func (r *PostgresRepository) ApplyFetch(ctx context.Context, collectionID string, id string, upd *models.FetchUpdate) error {
	query :=
		`UPDATE skills SET
		   last_etag = COALESCE($1, last_etag),
		   last_content = COALESCE($2, last_content),
		   name = COALESCE($3, name),
		   description = COALESCE($4, description),
		   last_fetched_at = $5,
		   last_fetch_status = $6,
		   last_fetch_error = $7
		 WHERE collection_id = $8 AND id = $9
		 `

	res, err := r.db.ExecContext(ctx, query,
		upd.ETag, upd.Content, upd.Name, upd.Description,
		upd.FetchedAt, upd.FetchStatus, upd.FetchError,
		collectionID, id)

	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrorNotFound
	}

	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, collectionID string, id string) error {
	query :=
		`DELETE FROM skills
		 WHERE collection_id = $1 AND id = $2
		 `

	res, err := r.db.ExecContext(ctx, query, collectionID, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrorNotFound
	}

	return nil
}

func scanSkills(rows *sql.Rows) ([]*models.Skill, error) {
	result := []*models.Skill{}
	for rows.Next() {
		skill := &models.Skill{}
		err := rows.Scan(
			&skill.ID, &skill.CollectionID, &skill.SourceURL, &skill.Alias, &skill.Name,
			&skill.Description, &skill.CreatedAt, &skill.LastETag, &skill.LastContent,
			&skill.LastFetchedAt, &skill.LastFetchStatus, &skill.LastFetchError)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, skill)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}
