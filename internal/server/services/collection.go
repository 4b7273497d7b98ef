// Package services contains server-side business logic. This file implements
// CollectionService, which mints collections with their bearer tokens and
// resolves tokens back to collections on each request.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/upskills/internal/common"
	"github.com/dmitrijs2005/upskills/internal/cryptox"
	"github.com/dmitrijs2005/upskills/internal/server/config"
	"github.com/dmitrijs2005/upskills/internal/server/models"
	"github.com/dmitrijs2005/upskills/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/upskills/internal/shared"
	"github.com/google/uuid"
)

// tokenPrefix marks issued bearer tokens so they are recognizable in logs
// and secret scanners without revealing anything about their contents.
const tokenPrefix = "ups_"

// tokenRandBytes is the entropy of the random token part, before encoding.
const tokenRandBytes = 24

// CollectionService issues collections and authenticates bearer tokens.
// Only a salted digest of each token is ever stored; the plaintext token
// exists once, in the Create response.
type CollectionService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	tokenSalt   string
}

// NewCollectionService constructs a CollectionService using repositories and
// server config.
func NewCollectionService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *CollectionService {
	return &CollectionService{
		db:          db,
		repomanager: m,
		tokenSalt:   cfg.TokenSalt,
	}
}

// Create mints a new collection and its bearer token. The returned token is
// the only copy; the database keeps its digest.
func (s *CollectionService) Create(ctx context.Context) (*models.Collection, string, error) {
	randPart, err := shared.MakeRandBase64URLString(tokenRandBytes)
	if err != nil {
		return nil, "", fmt.Errorf("error generating token: %v", err)
	}
	token := tokenPrefix + randPart

	collection := &models.Collection{
		ID:        uuid.New().String(),
		TokenHash: cryptox.TokenDigest(s.tokenSalt, token),
		CreatedAt: time.Now().UTC(),
	}

	repo := s.repomanager.Collections(s.db)
	if err := repo.Create(ctx, collection); err != nil {
		return nil, "", fmt.Errorf("error creating collection: %v", err)
	}

	return collection, token, nil
}

// AuthenticateByToken resolves a bearer token to its collection. Unknown
// tokens yield ErrorUnauthorized. Recording token activity is best-effort
// and never fails the request.
func (s *CollectionService) AuthenticateByToken(ctx context.Context, token string) (*models.Collection, error) {
	if token == "" {
		return nil, common.ErrorUnauthorized
	}

	repo := s.repomanager.Collections(s.db)
	collection, err := repo.GetByTokenHash(ctx, cryptox.TokenDigest(s.tokenSalt, token))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}

	_ = repo.TouchLastUsed(ctx, collection.ID, time.Now().UTC())

	return collection, nil
}
