package web

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jusunglee/hypua/internal/db/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	repo, err := sqlite.New(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	router := NewRouter(repo, slog.New(slog.NewTextHandler(io.Discard, nil)), "secret", nil)
	t.Cleanup(router.Close)

	srv := httptest.NewServer(router.Handler())
	t.Cleanup(srv.Close)
	return srv
}

func TestRouterConvert(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Post(srv.URL+"/api/v1/convert", "application/json", strings.NewReader(`{"text":"\uF341"}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))

	var body struct {
		Text    string `json:"text"`
		Changed bool   `json:"changed"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "\u110E\u119E", body.Text)
	assert.True(t, body.Changed)
}

func TestRouterReadRoutesAreCached(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/v1/table")
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "public, max-age=86400", resp.Header.Get("Cache-Control"))
}

func TestRouterDeleteRequiresKey(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Post(srv.URL+"/api/v1/documents", "application/json", strings.NewReader(`{"text":"archived"}`))
	require.NoError(t, err)
	var doc struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&doc))
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	url := fmt.Sprintf("%s/api/v1/documents/%d", srv.URL, doc.ID)

	req, err := http.NewRequest(http.MethodDelete, url, nil)
	require.NoError(t, err)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req.Header.Set("X-API-Key", "secret")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestRouterRejectsLargeBodies(t *testing.T) {
	repo, err := sqlite.New(context.Background(), ":memory:")
	require.NoError(t, err)
	defer repo.Close()
	router := NewRouter(repo, slog.New(slog.NewTextHandler(io.Discard, nil)), "", nil)
	defer router.Close()

	body := `{"text":"` + strings.Repeat("a", maxBodyBytes) + `"}`
	rec := httptest.NewRecorder()
	router.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/convert", strings.NewReader(body)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouterUnknownMethod(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/v1/convert")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestRouterAccessLogCarriesConversionCounts(t *testing.T) {
	repo, err := sqlite.New(context.Background(), ":memory:")
	require.NoError(t, err)
	defer repo.Close()

	var buf bytes.Buffer
	router := NewRouter(repo, slog.New(slog.NewTextHandler(&buf, nil)), "", nil)
	defer router.Close()

	rec := httptest.NewRecorder()
	router.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/convert",
		strings.NewReader(`{"text":"\uF341\uE0BC"}`)))
	require.Equal(t, http.StatusOK, rec.Code)

	var access string
	for line := range strings.Lines(buf.String()) {
		if strings.Contains(line, "msg=request") {
			access = line
		}
	}
	require.NotEmpty(t, access)
	assert.Contains(t, access, `route="POST /api/v1/convert"`)
	assert.Contains(t, access, "legacy=2")
	assert.Contains(t, access, "unmapped=1")
}
