package collections

import (
	"context"
	"time"

	"github.com/dmitrijs2005/upskills/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, collection *models.Collection) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.Collection, error)
	TouchLastUsed(ctx context.Context, id string, at time.Time) error
}
