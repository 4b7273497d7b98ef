package httpapi

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/dmitrijs2005/upskills/internal/logging"
	"github.com/dmitrijs2005/upskills/internal/server/config"
	"github.com/dmitrijs2005/upskills/internal/server/fetcher"
	"github.com/dmitrijs2005/upskills/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/upskills/internal/server/services"
)

const testSchema = `
CREATE TABLE collections (
    id TEXT PRIMARY KEY,
    token_hash TEXT NOT NULL UNIQUE,
    created_at TIMESTAMP NOT NULL,
    last_used_at TIMESTAMP
);
CREATE TABLE skills (
    id TEXT PRIMARY KEY,
    collection_id TEXT NOT NULL REFERENCES collections(id) ON DELETE CASCADE,
    source_url TEXT NOT NULL,
    alias TEXT,
    name TEXT NOT NULL,
    description TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL,
    last_etag TEXT,
    last_content TEXT,
    last_fetched_at TIMESTAMP,
    last_fetch_status INTEGER,
    last_fetch_error TEXT,
    UNIQUE (collection_id, source_url),
    UNIQUE (collection_id, alias)
);
`

const testSourceURL = "https://raw.githubusercontent.com/a/b/main/SKILL.md"
const testDocV1 = "---\nname: demo\ndescription: a demo skill\n---\n\nVersion one."
const testDocV2 = "---\nname: demo v2\ndescription: an updated skill\n---\n\nVersion two."

// scriptedFetcher returns queued results per URL, failing the test when a
// URL is fetched more times than scripted.
type scriptedFetcher struct {
	t       *testing.T
	queue   map[string][]scriptedResponse
	lastTag string
}

type scriptedResponse struct {
	res *fetcher.Result
	err error
}

func (f *scriptedFetcher) push(url string, res *fetcher.Result, err error) {
	if f.queue == nil {
		f.queue = map[string][]scriptedResponse{}
	}
	f.queue[url] = append(f.queue[url], scriptedResponse{res: res, err: err})
}

func (f *scriptedFetcher) Fetch(ctx context.Context, url string, etag string) (*fetcher.Result, error) {
	f.lastTag = etag
	q := f.queue[url]
	if len(q) == 0 {
		f.t.Errorf("unscripted fetch of %s", url)
		return nil, &fetcher.Error{Code: fetcher.CodeUpstreamFailure, Message: "unscripted fetch"}
	}
	next := q[0]
	f.queue[url] = q[1:]
	return next.res, next.err
}

func newTestServer(t *testing.T) (*httptest.Server, *scriptedFetcher) {
	t.Helper()

	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()))
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(testSchema)
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.LoadDefaults()

	rm, err := repomanager.NewPostgresRepositoryManager(db)
	require.NoError(t, err)

	sf := &scriptedFetcher{t: t}
	cs := services.NewCollectionService(db, rm, cfg)
	ss := services.NewSkillService(db, rm, cfg, sf)

	logger := logging.NewJSONLogger(io.Discard)
	srv := httptest.NewServer(NewRouter(cs, ss, logger).Setup())
	t.Cleanup(srv.Close)

	return srv, sf
}

func doRequest(t *testing.T, method, url, token string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded map[string]any
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp, decoded
}

func createCollection(t *testing.T, srv *httptest.Server) string {
	t.Helper()
	resp, body := doRequest(t, http.MethodPost, srv.URL+"/v1/collections", "", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func errorCode(body map[string]any) string {
	e, _ := body["error"].(map[string]any)
	code, _ := e["code"].(string)
	return code
}

func TestCreateCollection_IssuesToken(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, body := doRequest(t, http.MethodPost, srv.URL+"/v1/collections", "", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Contains(t, body["token"], "ups_")
	assert.NotEmpty(t, body["collection_id"])
}

func TestSkillsRoutes_RequireToken(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, body := doRequest(t, http.MethodGet, srv.URL+"/v1/skills", "", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "unauthorized", errorCode(body))

	resp, body = doRequest(t, http.MethodGet, srv.URL+"/v1/skills", "ups_bogus", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "unauthorized", errorCode(body))
}

func TestRegisterSkill_FullLifecycle(t *testing.T) {
	srv, sf := newTestServer(t)
	token := createCollection(t, srv)

	// Register: the origin serves version one.
	sf.push(testSourceURL, &fetcher.Result{Status: http.StatusOK, ETag: `"v1"`, Body: testDocV1}, nil)
	resp, body := doRequest(t, http.MethodPost, srv.URL+"/v1/skills", token,
		map[string]any{"source_url": testSourceURL, "alias": "demo"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "demo", body["name"])
	assert.Equal(t, "a demo skill", body["description"])
	skillID, _ := body["id"].(string)
	require.NotEmpty(t, skillID)

	// List and search see the registration.
	resp, body = doRequest(t, http.MethodGet, srv.URL+"/v1/skills", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	items, _ := body["items"].([]any)
	require.Len(t, items, 1)

	resp, body = doRequest(t, http.MethodGet, srv.URL+"/v1/skills/search?q=DEMO", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	items, _ = body["items"].([]any)
	require.Len(t, items, 1)

	resp, body = doRequest(t, http.MethodGet, srv.URL+"/v1/skills/search?q=nomatch", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	items, _ = body["items"].([]any)
	require.Len(t, items, 0)

	// First read revalidates with the stored etag and serves the cache.
	sf.push(testSourceURL, &fetcher.Result{Status: http.StatusNotModified, ETag: `"v1"`}, nil)
	resp, body = doRequest(t, http.MethodGet, srv.URL+"/v1/skills/"+skillID, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, `"v1"`, sf.lastTag)
	assert.Equal(t, testDocV1, body["content"])
	assert.Equal(t, "demo", body["name"])

	// Second read sees new content; metadata follows the new frontmatter.
	sf.push(testSourceURL, &fetcher.Result{Status: http.StatusOK, ETag: `"v2"`, Body: testDocV2}, nil)
	resp, body = doRequest(t, http.MethodGet, srv.URL+"/v1/skills/"+skillID, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, testDocV2, body["content"])
	assert.Equal(t, "demo v2", body["name"])
	assert.Equal(t, `"v2"`, body["etag"])

	// Remove and confirm it is gone.
	resp, _ = doRequest(t, http.MethodDelete, srv.URL+"/v1/skills/"+skillID, token, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, body = doRequest(t, http.MethodDelete, srv.URL+"/v1/skills/"+skillID, token, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "not_found", errorCode(body))
}

func TestRegisterSkill_ValidationAndDecoding(t *testing.T) {
	srv, _ := newTestServer(t)
	token := createCollection(t, srv)

	tests := []struct {
		name       string
		body       any
		raw        string
		wantStatus int
		wantCode   string
	}{
		{"not json", nil, "{nope", http.StatusBadRequest, "invalid_json"},
		{"source_url wrong type", map[string]any{"source_url": 5}, "", http.StatusUnprocessableEntity, "invalid_source_url"},
		{"alias wrong type", map[string]any{"source_url": testSourceURL, "alias": 5}, "", http.StatusUnprocessableEntity, "invalid_alias"},
		{"disallowed host", map[string]any{"source_url": "https://evil.example/SKILL.md"}, "", http.StatusUnprocessableEntity, "host_not_allowed"},
		{"wrong filename", map[string]any{"source_url": "https://raw.githubusercontent.com/a/b/main/README.md"}, "", http.StatusUnprocessableEntity, "not_skill_md"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var resp *http.Response
			var body map[string]any
			if tt.raw != "" {
				req, err := http.NewRequest(http.MethodPost, srv.URL+"/v1/skills", bytes.NewBufferString(tt.raw))
				require.NoError(t, err)
				req.Header.Set("Authorization", "Bearer "+token)
				resp, err = http.DefaultClient.Do(req)
				require.NoError(t, err)
				defer resp.Body.Close()
				require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			} else {
				resp, body = doRequest(t, http.MethodPost, srv.URL+"/v1/skills", token, tt.body)
			}
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, tt.wantCode, errorCode(body))
		})
	}
}

func TestRegisterSkill_UpstreamFailure(t *testing.T) {
	srv, sf := newTestServer(t)
	token := createCollection(t, srv)

	sf.push(testSourceURL, nil, &fetcher.Error{Code: "upstream_status_404", Status: 404, Message: "upstream returned 404"})
	resp, body := doRequest(t, http.MethodPost, srv.URL+"/v1/skills", token,
		map[string]any{"source_url": testSourceURL})
	require.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, "upstream_fetch_failed", errorCode(body))

	// No row was created by the failed registration.
	resp, body = doRequest(t, http.MethodGet, srv.URL+"/v1/skills", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	items, _ := body["items"].([]any)
	require.Len(t, items, 0)
}

func TestRegisterSkill_BadManifest(t *testing.T) {
	srv, sf := newTestServer(t)
	token := createCollection(t, srv)

	sf.push(testSourceURL, &fetcher.Result{Status: http.StatusOK, Body: "no frontmatter"}, nil)
	resp, body := doRequest(t, http.MethodPost, srv.URL+"/v1/skills", token,
		map[string]any{"source_url": testSourceURL})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "missing_frontmatter", errorCode(body))
}

func TestRegisterSkill_DuplicateConflicts(t *testing.T) {
	srv, sf := newTestServer(t)
	token := createCollection(t, srv)

	sf.push(testSourceURL, &fetcher.Result{Status: http.StatusOK, ETag: `"v1"`, Body: testDocV1}, nil)
	resp, _ := doRequest(t, http.MethodPost, srv.URL+"/v1/skills", token,
		map[string]any{"source_url": testSourceURL})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	sf.push(testSourceURL, &fetcher.Result{Status: http.StatusOK, ETag: `"v1"`, Body: testDocV1}, nil)
	resp, body := doRequest(t, http.MethodPost, srv.URL+"/v1/skills", token,
		map[string]any{"source_url": testSourceURL})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "conflict", errorCode(body))
}

func TestGetSkill_FetchFailureSurfacesAndIsRecorded(t *testing.T) {
	srv, sf := newTestServer(t)
	token := createCollection(t, srv)

	sf.push(testSourceURL, &fetcher.Result{Status: http.StatusOK, ETag: `"v1"`, Body: testDocV1}, nil)
	resp, body := doRequest(t, http.MethodPost, srv.URL+"/v1/skills", token,
		map[string]any{"source_url": testSourceURL})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	skillID, _ := body["id"].(string)

	sf.push(testSourceURL, nil, &fetcher.Error{Code: fetcher.CodeTimeout, Message: "fetch timeout after 5s"})
	resp, body = doRequest(t, http.MethodGet, srv.URL+"/v1/skills/"+skillID, token, nil)
	require.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, "upstream_fetch_failed", errorCode(body))

	// A later successful revalidation still serves the cached content.
	sf.push(testSourceURL, &fetcher.Result{Status: http.StatusNotModified}, nil)
	resp, body = doRequest(t, http.MethodGet, srv.URL+"/v1/skills/"+skillID, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, testDocV1, body["content"])
}

func TestGetSkill_IsolatedBetweenCollections(t *testing.T) {
	srv, sf := newTestServer(t)
	tokenA := createCollection(t, srv)
	tokenB := createCollection(t, srv)

	sf.push(testSourceURL, &fetcher.Result{Status: http.StatusOK, ETag: `"v1"`, Body: testDocV1}, nil)
	resp, body := doRequest(t, http.MethodPost, srv.URL+"/v1/skills", tokenA,
		map[string]any{"source_url": testSourceURL})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	skillID, _ := body["id"].(string)

	// The other collection cannot see or delete the skill.
	resp, body = doRequest(t, http.MethodGet, srv.URL+"/v1/skills/"+skillID, tokenB, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "not_found", errorCode(body))

	resp, _ = doRequest(t, http.MethodDelete, srv.URL+"/v1/skills/"+skillID, tokenB, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body = doRequest(t, http.MethodGet, srv.URL+"/v1/skills", tokenB, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	items, _ := body["items"].([]any)
	require.Len(t, items, 0)
}

func TestRegisterSkill_SameSourceURLAcrossCollections(t *testing.T) {
	srv, sf := newTestServer(t)
	tokenA := createCollection(t, srv)
	tokenB := createCollection(t, srv)

	sf.push(testSourceURL, &fetcher.Result{Status: http.StatusOK, ETag: `"v1"`, Body: testDocV1}, nil)
	resp, _ := doRequest(t, http.MethodPost, srv.URL+"/v1/skills", tokenA,
		map[string]any{"source_url": testSourceURL, "alias": "demo"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// Uniqueness is scoped per collection, so another collection may
	// register the same URL and alias without a conflict.
	sf.push(testSourceURL, &fetcher.Result{Status: http.StatusOK, ETag: `"v1"`, Body: testDocV1}, nil)
	resp, body := doRequest(t, http.MethodPost, srv.URL+"/v1/skills", tokenB,
		map[string]any{"source_url": testSourceURL, "alias": "demo"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, testSourceURL, body["source_url"])

	resp, body = doRequest(t, http.MethodGet, srv.URL+"/v1/skills", tokenB, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	items, _ := body["items"].([]any)
	require.Len(t, items, 1)
}
