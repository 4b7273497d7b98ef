// Package api is a thin HTTP client for the up-skills backend. It speaks the
// JSON surface under /v1 and turns error envelopes into typed errors.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultTimeout = 30 * time.Second

// Client talks to one up-skills server on behalf of one collection.
type Client struct {
	baseURL string
	token   string
	httpc   *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient substitutes the underlying *http.Client, mostly for tests.
func WithHTTPClient(httpc *http.Client) Option {
	return func(c *Client) {
		c.httpc = httpc
	}
}

// New returns a Client rooted at baseURL. A trailing slash on baseURL is
// tolerated. An empty token is allowed; only CreateCollection works then.
func New(baseURL string, token string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpc:   &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Error is a failed API call: the HTTP status plus the code and message from
// the server's error envelope.
type Error struct {
	Status  int
	Code    string
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return e.Code
}

// Collection is the response to a collection bootstrap. Token is the raw
// bearer token and is shown to the user exactly once.
type Collection struct {
	Token        string    `json:"token"`
	CollectionID string    `json:"collection_id"`
	CreatedAt    time.Time `json:"created_at"`
}

// SkillSummary is one row of a listing.
type SkillSummary struct {
	ID          string    `json:"id"`
	SourceURL   string    `json:"source_url"`
	Alias       *string   `json:"alias"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// SkillDetail is the full record served by GET /v1/skills/{id}, including
// the cached document body.
type SkillDetail struct {
	ID          string     `json:"id"`
	SourceURL   string     `json:"source_url"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	ETag        *string    `json:"etag"`
	FetchedAt   *time.Time `json:"fetched_at"`
	Content     *string    `json:"content"`
}

type registerSkillRequest struct {
	SourceURL string  `json:"source_url"`
	Alias     *string `json:"alias,omitempty"`
}

type listSkillsResponse struct {
	Items []SkillSummary `json:"items"`
}

type errorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// CreateCollection bootstraps a new collection. It needs no token.
func (c *Client) CreateCollection(ctx context.Context) (*Collection, error) {
	col := &Collection{}
	if err := c.do(ctx, http.MethodPost, "/v1/collections", nil, http.StatusCreated, col); err != nil {
		return nil, err
	}
	return col, nil
}

// RegisterSkill registers a SKILL.md pointer in the collection.
func (c *Client) RegisterSkill(ctx context.Context, sourceURL string, alias *string) (*SkillSummary, error) {
	req := &registerSkillRequest{SourceURL: sourceURL, Alias: alias}
	s := &SkillSummary{}
	if err := c.do(ctx, http.MethodPost, "/v1/skills", req, http.StatusCreated, s); err != nil {
		return nil, err
	}
	return s, nil
}

// ListSkills returns every skill in the collection, newest first.
func (c *Client) ListSkills(ctx context.Context) ([]SkillSummary, error) {
	var resp listSkillsResponse
	if err := c.do(ctx, http.MethodGet, "/v1/skills", nil, http.StatusOK, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// SearchSkills returns the skills matching q.
func (c *Client) SearchSkills(ctx context.Context, q string) ([]SkillSummary, error) {
	var resp listSkillsResponse
	path := "/v1/skills/search?q=" + url.QueryEscape(q)
	if err := c.do(ctx, http.MethodGet, path, nil, http.StatusOK, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// GetSkill revalidates the skill against its upstream and returns the full
// record with the freshest available content.
func (c *Client) GetSkill(ctx context.Context, id string) (*SkillDetail, error) {
	d := &SkillDetail{}
	if err := c.do(ctx, http.MethodGet, "/v1/skills/"+url.PathEscape(id), nil, http.StatusOK, d); err != nil {
		return nil, err
	}
	return d, nil
}

// DeleteSkill removes the skill from the collection.
func (c *Client) DeleteSkill(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/v1/skills/"+url.PathEscape(id), nil, http.StatusNoContent, nil)
}

// do performs one API round-trip: marshal body, send, check the status and
// decode either the expected payload or the error envelope.
func (c *Client) do(ctx context.Context, method string, path string, body any, wantStatus int, out any) error {

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		return decodeError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// decodeError turns a non-success response into an *Error. Responses that do
// not carry the JSON envelope still produce a usable error.
func decodeError(resp *http.Response) error {
	apiErr := &Error{Status: resp.StatusCode, Code: "unexpected_status"}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return apiErr
	}

	var env errorEnvelope
	if err := json.Unmarshal(data, &env); err == nil && env.Error.Code != "" {
		apiErr.Code = env.Error.Code
		apiErr.Message = env.Error.Message
		return apiErr
	}

	apiErr.Message = strings.TrimSpace(string(data))
	return apiErr
}
