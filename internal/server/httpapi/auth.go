package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/upskills/internal/common"
)

type ctxKey string

const collectionIDKey ctxKey = "collection_id"

// CollectionIDFromContext returns the authenticated collection id, or ""
// outside an authenticated request.
func CollectionIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(collectionIDKey).(string)
	return id
}

// extractBearerToken pulls the token out of the Authorization header. The
// scheme match is case-insensitive.
func extractBearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if len(auth) < len("bearer ") || !strings.EqualFold(auth[:len("bearer ")], "bearer ") {
		return ""
	}
	return strings.TrimSpace(auth[len("bearer "):])
}

// authenticate resolves the bearer token to a collection and stores its id
// in the request context.
func (rt *Router) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractBearerToken(r)
		if token == "" {
			writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
			return
		}

		collection, err := rt.collections.AuthenticateByToken(r.Context(), token)
		if err != nil {
			if errors.Is(err, common.ErrorUnauthorized) {
				writeError(w, http.StatusUnauthorized, "unauthorized", "invalid token")
				return
			}
			rt.logger.Error(r.Context(), "token lookup failed", "error", err)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
			return
		}

		ctx := context.WithValue(r.Context(), collectionIDKey, collection.ID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
