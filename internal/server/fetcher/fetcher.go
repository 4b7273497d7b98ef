// Package fetcher retrieves skill documents over HTTPS with a hard wall-clock
// timeout and a byte ceiling. It supports conditional GET: when a stored ETag
// is supplied the origin may answer 304 and no body is transferred.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Error codes surfaced to the boundary layer. Upstream non-success statuses
// use UpstreamStatusCode to carry the numeric status in the code itself.
const (
	CodeTimeout            = "timeout"
	CodeResponseTooLarge   = "response_too_large"
	CodeRedirectNotAllowed = "redirect_not_allowed"
	CodeUpstreamFailure    = "upstream_failure"
)

// UpstreamStatusCode builds the error code for a non-success origin status,
// e.g. "upstream_status_404".
func UpstreamStatusCode(status int) string {
	return fmt.Sprintf("upstream_status_%d", status)
}

// Doer issues a single HTTP request without following redirects. *http.Client
// satisfies it; tests substitute their own.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Error is a fetch failure with a stable machine-readable code. Status is the
// origin's HTTP status when one was received, 0 otherwise.
type Error struct {
	Code    string
	Status  int
	Message string
	cause   error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

func newError(code string, status int, message string, cause error) *Error {
	return &Error{Code: code, Status: status, Message: message, cause: cause}
}

// Result is a successful fetch. Status is either 200, with Body holding the
// full document, or 304, with Body empty.
type Result struct {
	Status int
	ETag   string
	Body   string
}

// Fetcher performs bounded conditional GETs against skill origins.
type Fetcher struct {
	client   Doer
	timeout  time.Duration
	maxBytes int64
}

// Option mutates a Fetcher during construction.
type Option func(*Fetcher)

// WithDoer substitutes the HTTP client, mainly for tests.
func WithDoer(d Doer) Option {
	return func(f *Fetcher) { f.client = d }
}

// New returns a Fetcher with the given per-request timeout and response byte
// ceiling. The default client reports redirects instead of following them.
func New(timeout time.Duration, maxBytes int64, opts ...Option) *Fetcher {
	f := &Fetcher{
		client: &http.Client{
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		timeout:  timeout,
		maxBytes: maxBytes,
	}
	for _, o := range opts {
		o(f)
	}
	return f
}

// Fetch performs one GET against url. A non-empty etag is sent as
// If-None-Match so the origin may answer 304. The entire exchange, body read
// included, must finish within the configured timeout.
func (f *Fetcher) Fetch(ctx context.Context, url string, etag string) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, newError(CodeUpstreamFailure, 0, fmt.Sprintf("building request: %v", err), err)
	}
	if etag != "" {
		req.Header.Set("If-None-Match", etag)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, newError(CodeTimeout, 0, fmt.Sprintf("fetch timeout after %s", f.timeout), err)
		}
		return nil, newError(CodeUpstreamFailure, 0, fmt.Sprintf("fetch failed: %v", err), err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotModified:
		return &Result{Status: http.StatusNotModified, ETag: resp.Header.Get("ETag")}, nil
	case resp.StatusCode >= 300 && resp.StatusCode < 400:
		return nil, newError(CodeRedirectNotAllowed, resp.StatusCode, "redirects are not allowed", nil)
	case resp.StatusCode != http.StatusOK:
		return nil, newError(UpstreamStatusCode(resp.StatusCode), resp.StatusCode,
			fmt.Sprintf("upstream returned %d", resp.StatusCode), nil)
	}

	// Fail fast on a declared oversize body, then enforce the same ceiling
	// on the actual stream since Content-Length may be absent or lie.
	if resp.ContentLength > f.maxBytes {
		return nil, newError(CodeResponseTooLarge, resp.StatusCode,
			fmt.Sprintf("response exceeds %d bytes", f.maxBytes), nil)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, newError(CodeTimeout, resp.StatusCode, fmt.Sprintf("fetch timeout after %s", f.timeout), err)
		}
		return nil, newError(CodeUpstreamFailure, resp.StatusCode, fmt.Sprintf("reading response: %v", err), err)
	}
	if int64(len(body)) > f.maxBytes {
		return nil, newError(CodeResponseTooLarge, resp.StatusCode,
			fmt.Sprintf("response exceeds %d bytes", f.maxBytes), nil)
	}

	return &Result{Status: http.StatusOK, ETag: resp.Header.Get("ETag"), Body: string(body)}, nil
}
