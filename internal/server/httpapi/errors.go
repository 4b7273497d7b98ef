package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/upskills/internal/common"
	"github.com/dmitrijs2005/upskills/internal/server/admission"
	"github.com/dmitrijs2005/upskills/internal/server/fetcher"
	"github.com/dmitrijs2005/upskills/internal/server/manifest"
)

// errorEnvelope is the uniform error body: {"error":{"code":...,"message":...}}.
type errorEnvelope struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, errorEnvelope{Error: errorBody{Code: code, Message: message}})
}

// writeServiceError translates service-layer failures into the error
// envelope. Admission and manifest failures are the caller's fault (422);
// fetch failures blame the origin (502); unknown errors are logged and
// reported as 500 without leaking detail.
func (rt *Router) writeServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	var admErr *admission.Error
	var mErr *manifest.Error
	var fErr *fetcher.Error

	switch {
	case errors.As(err, &admErr):
		writeError(w, http.StatusUnprocessableEntity, admErr.Code, admErr.Message)
	case errors.As(err, &mErr):
		writeError(w, http.StatusUnprocessableEntity, mErr.Code, mErr.Message)
	case errors.As(err, &fErr):
		writeError(w, http.StatusBadGateway, "upstream_fetch_failed", fErr.Message)
	case errors.Is(err, common.ErrorUpstreamFetch):
		writeError(w, http.StatusBadGateway, "upstream_fetch_failed", err.Error())
	case errors.Is(err, common.ErrorCacheMiss):
		writeError(w, http.StatusBadGateway, "cache_miss", "upstream returned 304 but no cached content")
	case errors.Is(err, common.ErrorConflict):
		writeError(w, http.StatusConflict, "conflict", "conflict")
	case errors.Is(err, common.ErrorNotFound):
		writeError(w, http.StatusNotFound, "not_found", "skill not found")
	case errors.Is(err, common.ErrorUnauthorized):
		writeError(w, http.StatusUnauthorized, "unauthorized", "invalid token")
	default:
		rt.logger.Error(ctx, "request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}
