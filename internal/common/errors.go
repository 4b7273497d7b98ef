// Package common defines shared sentinel errors used across the client and
// server layers of up-skills. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")
	ErrorConflict = errors.New("conflict")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Revalidation-specific errors. ErrorCacheMiss is returned when the
	// origin answers 304 but the ledger holds no cached content to serve.
	// ErrorUpstreamFetch is returned when a revalidation attempt fails
	// outright; the failed attempt is still recorded in the ledger.
	ErrorCacheMiss     = errors.New("not modified but no cached content")
	ErrorUpstreamFetch = errors.New("upstream fetch failed")
)
