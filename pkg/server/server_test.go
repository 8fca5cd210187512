package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/lyphgraph/pkg/observability"
	"github.com/matzehuels/lyphgraph/pkg/pipeline"
	"github.com/matzehuels/lyphgraph/pkg/store"
)

const heart = `{
	"id": "heart",
	"lyphs": [{"id": "atrium"}, {"id": "ventricle"}],
	"chains": [{"id": "flow", "lyphs": ["atrium", "ventricle"]}]
}`

func newTestServer(t *testing.T, cfg Config) *httptest.Server {
	t.Helper()
	s := New(cfg, pipeline.NewRunner(nil, nil, nil), store.NewMemoryStore(), nil)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func do(t *testing.T, method, url, contentType, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(data)
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, Config{})
	resp := do(t, http.MethodGet, ts.URL+"/healthz", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
}

func TestAssemble(t *testing.T) {
	ts := newTestServer(t, Config{})

	tests := []struct {
		name        string
		query       string
		contentType string
		body        string
		wantStatus  int
		wantType    string
		wantBody    string
	}{
		{"json", "", "application/json", heart, http.StatusOK, "application/json", `"id":"heart"`},
		{"yaml", "", "application/yaml", "id: heart\nlyphs:\n  - id: a\n", http.StatusOK, "application/json", `"id":"heart"`},
		{"dot", "?format=dot", "", heart, http.StatusOK, "text/vnd.graphviz", "digraph G {"},
		{"entities", "?format=entities", "", heart, http.StatusOK, "application/json", `"id":"atrium"`},
		{"bad format", "?format=pdf", "", heart, http.StatusBadRequest, "application/json", "INVALID_INPUT"},
		{"bad flag", "?detailed=maybe", "", heart, http.StatusBadRequest, "application/json", "detailed"},
		{"bad body", "", "", "{", http.StatusBadRequest, "application/json", "INVALID_FORMAT"},
		{"not an object", "", "", "[1]", http.StatusBadRequest, "application/json", "INVALID_FORMAT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, http.MethodPost, ts.URL+"/v1/assemble"+tt.query, tt.contentType, tt.body)
			body := readBody(t, resp)
			assert.Equal(t, tt.wantStatus, resp.StatusCode, body)
			assert.Equal(t, tt.wantType, resp.Header.Get("Content-Type"))
			assert.Contains(t, strings.ReplaceAll(body, " ", ""), strings.ReplaceAll(tt.wantBody, " ", ""))
		})
	}
}

func TestAssembleHeaders(t *testing.T) {
	ts := newTestServer(t, Config{})
	resp := do(t, http.MethodPost, ts.URL+"/v1/assemble", "", heart)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(HeaderStatus))
	assert.Equal(t, "miss", resp.Header.Get(HeaderCache))
	assert.Len(t, resp.Header.Get(HeaderModelHash), 64)
}

func TestBodyLimit(t *testing.T) {
	ts := newTestServer(t, Config{MaxBodyBytes: 16})
	resp := do(t, http.MethodPost, ts.URL+"/v1/assemble", "", heart)
	body := readBody(t, resp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, "exceeds 16 bytes")
}

func TestValidate(t *testing.T) {
	ts := newTestServer(t, Config{})

	resp := do(t, http.MethodPost, ts.URL+"/v1/validate", "", heart)
	var ok struct {
		Valid      bool             `json:"valid"`
		Violations []map[string]any `json:"violations"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&ok))
	assert.True(t, ok.Valid)
	assert.Empty(t, ok.Violations)

	resp = do(t, http.MethodPost, ts.URL+"/v1/validate", "", `{"id": "bad", "nodes": "nope"}`)
	var bad struct {
		Valid      bool             `json:"valid"`
		Violations []map[string]any `json:"violations"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&bad))
	assert.False(t, bad.Valid)
	assert.NotEmpty(t, bad.Violations)
}

func TestModels(t *testing.T) {
	ts := newTestServer(t, Config{})
	base := ts.URL + "/v1/models"

	resp := do(t, http.MethodPut, base+"/heart", "", heart)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var doc store.Document
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&doc))
	assert.Equal(t, "heart", doc.ID)
	assert.Equal(t, 1, doc.Version)
	assert.Equal(t, "/v1/models/heart", resp.Header.Get("Location"))

	resp = do(t, http.MethodPost, base, "", `{"id": "lung"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created store.Document
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	assert.NotEmpty(t, created.ID)

	resp = do(t, http.MethodGet, base, "", "")
	var docs []store.Document
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&docs))
	assert.Len(t, docs, 2)

	resp = do(t, http.MethodGet, base+"/heart", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, `"`+doc.Hash+`"`, resp.Header.Get("ETag"))
	assert.Contains(t, readBody(t, resp), `"chains"`)

	resp = do(t, http.MethodGet, base+"/heart/graph?format=dot&detailed=true", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "digraph G {")

	resp = do(t, http.MethodDelete, base+"/heart", "", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	for _, path := range []string{"/heart", "/heart/graph"} {
		resp = do(t, http.MethodGet, base+path, "", "")
		body := readBody(t, resp)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, path)
		assert.Contains(t, body, "NOT_FOUND")
	}
	resp = do(t, http.MethodDelete, base+"/heart", "", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestMetrics(t *testing.T) {
	p := observability.NewPrometheus(prometheus.NewRegistry())
	observability.Install(p)
	defer observability.Reset()

	ts := newTestServer(t, Config{Metrics: p.Handler()})
	do(t, http.MethodPost, ts.URL+"/v1/assemble", "", heart)
	do(t, http.MethodGet, ts.URL+"/v1/models/missing", "", "")

	resp := do(t, http.MethodGet, ts.URL+"/metrics", "", "")
	body := readBody(t, resp)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `route="/v1/assemble"`)
	assert.Contains(t, body, `route="/v1/models/{id}"`)
}

func TestServe(t *testing.T) {
	s := New(Config{Addr: "127.0.0.1:0"}, pipeline.NewRunner(nil, nil, nil), store.NewMemoryStore(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx) }()

	select {
	case <-s.Ready():
	case <-time.After(5 * time.Second):
		t.Fatal("server did not start")
	}
	resp, err := http.Get("http://" + s.Addr().String() + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(15 * time.Second):
		t.Fatal("server did not stop")
	}
}
