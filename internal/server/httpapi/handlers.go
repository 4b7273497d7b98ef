package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrijs2005/upskills/internal/server/models"
)

type createCollectionResponse struct {
	Token        string    `json:"token"`
	CollectionID string    `json:"collection_id"`
	CreatedAt    time.Time `json:"created_at"`
}

type registerSkillRequest struct {
	SourceURL string  `json:"source_url"`
	Alias     *string `json:"alias"`
}

// skillSummary is the list/search/registration shape: metadata only, no
// cached content.
type skillSummary struct {
	ID          string    `json:"id"`
	SourceURL   string    `json:"source_url"`
	Alias       *string   `json:"alias"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// skillDetail is the single-skill read shape, including the revalidated
// content.
type skillDetail struct {
	ID          string     `json:"id"`
	SourceURL   string     `json:"source_url"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	ETag        *string    `json:"etag"`
	FetchedAt   *time.Time `json:"fetched_at"`
	Content     *string    `json:"content"`
}

type listSkillsResponse struct {
	Items []skillSummary `json:"items"`
}

func toSummary(s *models.Skill) skillSummary {
	return skillSummary{
		ID:          s.ID,
		SourceURL:   s.SourceURL,
		Alias:       s.Alias,
		Name:        s.Name,
		Description: s.Description,
		CreatedAt:   s.CreatedAt,
	}
}

func toDetail(s *models.Skill) skillDetail {
	return skillDetail{
		ID:          s.ID,
		SourceURL:   s.SourceURL,
		Name:        s.Name,
		Description: s.Description,
		ETag:        s.LastETag,
		FetchedAt:   s.LastFetchedAt,
		Content:     s.LastContent,
	}
}

func (rt *Router) createCollection(w http.ResponseWriter, r *http.Request) {
	collection, token, err := rt.collections.Create(r.Context())
	if err != nil {
		rt.writeServiceError(r.Context(), w, err)
		return
	}

	rt.logger.Info(r.Context(), "collection created", "collection_id", collection.ID)
	writeJSON(w, http.StatusCreated, createCollectionResponse{
		Token:        token,
		CollectionID: collection.ID,
		CreatedAt:    collection.CreatedAt,
	})
}

func (rt *Router) registerSkill(w http.ResponseWriter, r *http.Request) {
	var req registerSkillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			switch typeErr.Field {
			case "source_url":
				writeError(w, http.StatusUnprocessableEntity, "invalid_source_url", "source_url must be a string")
			case "alias":
				writeError(w, http.StatusUnprocessableEntity, "invalid_alias", "alias must be a string")
			default:
				writeError(w, http.StatusBadRequest, "invalid_json", "invalid JSON body")
			}
			return
		}
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid JSON body")
		return
	}

	collectionID := CollectionIDFromContext(r.Context())
	skill, err := rt.skills.Register(r.Context(), collectionID, req.SourceURL, req.Alias)
	if err != nil {
		rt.writeServiceError(r.Context(), w, err)
		return
	}

	rt.logger.Info(r.Context(), "skill registered",
		"collection_id", collectionID, "skill_id", skill.ID, "source_url", skill.SourceURL)
	writeJSON(w, http.StatusCreated, toSummary(skill))
}

func (rt *Router) listSkills(w http.ResponseWriter, r *http.Request) {
	collectionID := CollectionIDFromContext(r.Context())
	result, err := rt.skills.List(r.Context(), collectionID)
	if err != nil {
		rt.writeServiceError(r.Context(), w, err)
		return
	}

	items := make([]skillSummary, 0, len(result))
	for _, s := range result {
		items = append(items, toSummary(s))
	}
	writeJSON(w, http.StatusOK, listSkillsResponse{Items: items})
}

func (rt *Router) searchSkills(w http.ResponseWriter, r *http.Request) {
	collectionID := CollectionIDFromContext(r.Context())
	needle := r.URL.Query().Get("q")

	result, err := rt.skills.Search(r.Context(), collectionID, needle)
	if err != nil {
		rt.writeServiceError(r.Context(), w, err)
		return
	}

	items := make([]skillSummary, 0, len(result))
	for _, s := range result {
		items = append(items, toSummary(s))
	}
	writeJSON(w, http.StatusOK, listSkillsResponse{Items: items})
}

func (rt *Router) getSkill(w http.ResponseWriter, r *http.Request) {
	collectionID := CollectionIDFromContext(r.Context())
	id := chi.URLParam(r, "id")

	skill, err := rt.skills.Get(r.Context(), collectionID, id)
	if err != nil {
		rt.writeServiceError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, toDetail(skill))
}

func (rt *Router) deleteSkill(w http.ResponseWriter, r *http.Request) {
	collectionID := CollectionIDFromContext(r.Context())
	id := chi.URLParam(r, "id")

	if err := rt.skills.Delete(r.Context(), collectionID, id); err != nil {
		rt.writeServiceError(r.Context(), w, err)
		return
	}

	rt.logger.Info(r.Context(), "skill removed", "collection_id", collectionID, "skill_id", id)
	w.WriteHeader(http.StatusNoContent)
}
