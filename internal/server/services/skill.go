package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrijs2005/upskills/internal/common"
	"github.com/dmitrijs2005/upskills/internal/dbx"
	"github.com/dmitrijs2005/upskills/internal/server/admission"
	sc "github.com/dmitrijs2005/upskills/internal/server/config"
	"github.com/dmitrijs2005/upskills/internal/server/fetcher"
	"github.com/dmitrijs2005/upskills/internal/server/manifest"
	"github.com/dmitrijs2005/upskills/internal/server/models"
	"github.com/dmitrijs2005/upskills/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// DocumentFetcher retrieves a skill document, optionally conditionally.
// *fetcher.Fetcher satisfies it; tests substitute their own.
type DocumentFetcher interface {
	Fetch(ctx context.Context, url string, etag string) (*fetcher.Result, error)
}

// SkillService implements the skill lifecycle: registration against an
// allowlisted origin, listing and search over the ledger, revalidating reads,
// and removal.
type SkillService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	config      *sc.Config
	fetcher     DocumentFetcher
	policy      admission.Policy
}

func NewSkillService(db *sql.DB, m repomanager.RepositoryManager, cfg *sc.Config, f DocumentFetcher) *SkillService {
	return &SkillService{
		db:          db,
		repomanager: m,
		config:      cfg,
		fetcher:     f,
		policy: admission.Policy{
			MaxURLLength: cfg.MaxURLLength,
			AllowedHosts: cfg.AllowedHosts,
		},
	}
}

func (s *SkillService) manifestLimits() manifest.Limits {
	return manifest.Limits{
		MaxNameLength:        s.config.MaxNameLength,
		MaxDescriptionLength: s.config.MaxDescriptionLength,
	}
}

// Register validates sourceURL, fetches the document once, parses its
// frontmatter and inserts the ledger row. Any failure along the way leaves
// no trace in the ledger. Admission, fetch and manifest errors pass through
// untranslated so the boundary can surface their codes.
func (s *SkillService) Register(ctx context.Context, collectionID string, sourceURL string, alias *string) (*models.Skill, error) {
	if _, err := s.policy.Validate(sourceURL); err != nil {
		return nil, err
	}

	res, err := s.fetcher.Fetch(ctx, sourceURL, "")
	if err != nil {
		return nil, err
	}
	if res.Status != http.StatusOK {
		// No If-None-Match was sent, so anything but 200 is an origin bug.
		return nil, fmt.Errorf("%w: unexpected status %d", common.ErrorUpstreamFetch, res.Status)
	}

	m, err := manifest.Parse(res.Body, s.manifestLimits())
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	content := res.Body
	etag := res.ETag
	status := res.Status
	skill := &models.Skill{
		ID:              uuid.New().String(),
		CollectionID:    collectionID,
		SourceURL:       sourceURL,
		Alias:           alias,
		Name:            m.Name,
		Description:     m.Description,
		CreatedAt:       now,
		LastETag:        &etag,
		LastContent:     &content,
		LastFetchedAt:   &now,
		LastFetchStatus: &status,
	}

	repo := s.repomanager.Skills(s.db)
	if err := repo.Create(ctx, skill); err != nil {
		if errors.Is(err, common.ErrorConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating skill: %v", err)
	}

	return skill, nil
}

// List returns every skill in the collection in registration order.
func (s *SkillService) List(ctx context.Context, collectionID string) ([]*models.Skill, error) {
	repo := s.repomanager.Skills(s.db)
	result, err := repo.List(ctx, collectionID)
	if err != nil {
		return nil, fmt.Errorf("error listing skills: %v", err)
	}
	return result, nil
}

// Search returns the collection's skills whose name, description or alias
// contains the needle, case-insensitively.
func (s *SkillService) Search(ctx context.Context, collectionID string, needle string) ([]*models.Skill, error) {
	repo := s.repomanager.Skills(s.db)
	result, err := repo.Search(ctx, collectionID, needle)
	if err != nil {
		return nil, fmt.Errorf("error searching skills: %v", err)
	}
	return result, nil
}

// Get revalidates the skill against its origin and returns the row with
// current content. The origin is consulted on every read: a 304 serves the
// cached content, a 200 replaces it, and a failed attempt is recorded in the
// ledger before the error surfaces.
func (s *SkillService) Get(ctx context.Context, collectionID string, id string) (*models.Skill, error) {
	repo := s.repomanager.Skills(s.db)
	skill, err := repo.GetByID(ctx, collectionID, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("error loading skill: %v", err)
	}

	etag := ""
	if skill.LastETag != nil {
		etag = *skill.LastETag
	}

	res, err := s.fetcher.Fetch(ctx, skill.SourceURL, etag)
	now := time.Now().UTC()

	if err != nil {
		// The attempt is recorded even though the read fails, so the row
		// always reflects the most recent revalidation outcome.
		msg := err.Error()
		status := http.StatusBadGateway
		upd := &models.FetchUpdate{FetchedAt: now, FetchStatus: status, FetchError: &msg}
		_ = s.recordFetch(ctx, collectionID, id, upd)
		return nil, fmt.Errorf("%w: %v", common.ErrorUpstreamFetch, err)
	}

	if res.Status == http.StatusNotModified {
		return s.applyNotModified(ctx, skill, res, now)
	}
	return s.applyModified(ctx, skill, res, now)
}

// applyNotModified handles a 304: cached content is served unchanged. A 304
// with nothing cached is unservable and leaves the ledger untouched.
func (s *SkillService) applyNotModified(ctx context.Context, skill *models.Skill, res *fetcher.Result, now time.Time) (*models.Skill, error) {
	if skill.LastContent == nil {
		return nil, common.ErrorCacheMiss
	}

	var etagUpd *string
	if res.ETag != "" {
		etagUpd = &res.ETag
	}

	status := res.Status
	upd := &models.FetchUpdate{ETag: etagUpd, FetchedAt: now, FetchStatus: status}
	if err := s.recordFetch(ctx, skill.CollectionID, skill.ID, upd); err != nil {
		return nil, fmt.Errorf("error recording fetch: %v", err)
	}

	if etagUpd != nil {
		skill.LastETag = etagUpd
	}
	skill.LastFetchedAt = &now
	skill.LastFetchStatus = &status
	skill.LastFetchError = nil
	return skill, nil
}

// applyModified handles a 200: new content and etag always land, and the
// parsed name and description replace the stored ones when the new document
// parses. A document that stopped parsing keeps the old metadata; the raw
// content is still cached so the registrant can inspect what broke.
func (s *SkillService) applyModified(ctx context.Context, skill *models.Skill, res *fetcher.Result, now time.Time) (*models.Skill, error) {
	content := res.Body
	etag := res.ETag
	status := res.Status

	var nameUpd, descUpd *string
	m, perr := manifest.Parse(content, s.manifestLimits())
	if perr == nil {
		nameUpd = &m.Name
		descUpd = &m.Description
	}

	upd := &models.FetchUpdate{
		ETag:        &etag,
		Content:     &content,
		Name:        nameUpd,
		Description: descUpd,
		FetchedAt:   now,
		FetchStatus: status,
	}
	if err := s.recordFetch(ctx, skill.CollectionID, skill.ID, upd); err != nil {
		return nil, fmt.Errorf("error recording fetch: %v", err)
	}

	skill.LastETag = &etag
	skill.LastContent = &content
	if perr == nil {
		skill.Name = m.Name
		skill.Description = m.Description
	}
	skill.LastFetchedAt = &now
	skill.LastFetchStatus = &status
	skill.LastFetchError = nil
	return skill, nil
}

// recordFetch applies a fetch outcome as one transactional row update.
func (s *SkillService) recordFetch(ctx context.Context, collectionID string, id string, upd *models.FetchUpdate) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return s.repomanager.Skills(tx).ApplyFetch(ctx, collectionID, id, upd)
	})
}

// Delete removes the skill from the collection's ledger.
func (s *SkillService) Delete(ctx context.Context, collectionID string, id string) error {
	repo := s.repomanager.Skills(s.db)
	err := repo.Delete(ctx, collectionID, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return err
		}
		return fmt.Errorf("error deleting skill: %v", err)
	}
	return nil
}
