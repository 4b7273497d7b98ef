package skills

import (
	"context"

	"github.com/dmitrijs2005/upskills/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, skill *models.Skill) error
	List(ctx context.Context, collectionID string) ([]*models.Skill, error)
	Search(ctx context.Context, collectionID string, query string) ([]*models.Skill, error)
	GetByID(ctx context.Context, collectionID string, id string) (*models.Skill, error)
	ApplyFetch(ctx context.Context, collectionID string, id string, upd *models.FetchUpdate) error
	Delete(ctx context.Context, collectionID string, id string) error
}
