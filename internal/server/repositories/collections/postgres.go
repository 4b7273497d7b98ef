package collections

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/upskills/internal/common"
	"github.com/dmitrijs2005/upskills/internal/dbx"
	"github.com/dmitrijs2005/upskills/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, collection *models.Collection) error {

	query :=
		`INSERT INTO collections (id, token_hash, created_at)
		 VALUES ($1, $2, $3)
		 `

	_, err := r.db.ExecContext(ctx, query,
		collection.ID, collection.TokenHash, collection.CreatedAt)

	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*models.Collection, error) {
	query :=
		`SELECT id, token_hash, created_at, last_used_at FROM collections
		 WHERE token_hash = $1
		 `

	collection := &models.Collection{}
	err := r.db.QueryRowContext(ctx, query, tokenHash).Scan(
		&collection.ID, &collection.TokenHash, &collection.CreatedAt, &collection.LastUsedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return collection, nil
}

// TouchLastUsed records token activity. Callers treat failures as
// non-fatal so the error is informational.
func (r *PostgresRepository) TouchLastUsed(ctx context.Context, id string, at time.Time) error {
	query :=
		`UPDATE collections SET last_used_at = $1
		 WHERE id = $2
		 `

	_, err := r.db.ExecContext(ctx, query, at, id)

	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}
