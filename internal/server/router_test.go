package server

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/igxactly-forks/lightning/internal/document"
	"github.com/igxactly-forks/lightning/internal/siteinfo"
)

type fakeSource struct {
	info    siteinfo.SiteInfo
	err     error
	touched time.Time
}

func (f fakeSource) Current() (siteinfo.SiteInfo, error) { return f.info, f.err }
func (f fakeSource) Touched() time.Time                  { return f.touched }

func site(t *testing.T) siteinfo.SiteInfo {
	t.Helper()
	info, err := siteinfo.FromMapping(document.MappingOf(
		document.Pair("title", document.StringValue("lx")),
		document.Pair("url", document.StringValue("https://lightning.rs")),
		document.Pair("default_timezone", document.StringValue("UTC")),
	))
	require.NoError(t, err)
	return info
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("User-Agent", "curl/8.5.0")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	rec := get(t, Router(Options{}), "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
}

func TestMetrics(t *testing.T) {
	rec := get(t, Router(Options{}), "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestSiteJSON(t *testing.T) {
	touched := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	h := Router(Options{Site: fakeSource{info: site(t), touched: touched}})

	rec := get(t, h, "/site.json")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "Fri, 01 Mar 2024 12:00:00 GMT", rec.Header().Get("Last-Modified"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "lx", body["title"])
	assert.Equal(t, "https://lightning.rs", body["url"])
	assert.Equal(t, "UTC", body["default_timezone"])
}

func TestSiteJSONInvalid(t *testing.T) {
	_, verr := siteinfo.FromMapping(document.MappingOf(
		document.Pair("title", document.StringValue("lx")),
	))
	require.Error(t, verr)

	rec := get(t, Router(Options{Site: fakeSource{err: verr}}), "/site.json")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "missing_required_field", body["kind"])
	assert.Contains(t, body["error"], `"url"`)
}

func TestSiteJSONMissingFile(t *testing.T) {
	rec := get(t, Router(Options{Site: fakeSource{err: os.ErrNotExist}}), "/site.json")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStaticFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "about.html"), []byte("<h1>about</h1>"), 0o644))

	h := Router(Options{OutputDir: dir})
	rec := get(t, h, "/about.html")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "<h1>about</h1>", rec.Body.String())

	assert.Equal(t, http.StatusNotFound, get(t, h, "/nope.html").Code)
}

func TestNoSiteRouteWithoutSource(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, get(t, Router(Options{}), "/site.json").Code)
}

func TestNewTimeouts(t *testing.T) {
	srv := New("127.0.0.1:0", http.NotFoundHandler())
	assert.Equal(t, 10*time.Second, srv.ReadTimeout)
	assert.Equal(t, 15*time.Second, srv.WriteTimeout)
	assert.Equal(t, 60*time.Second, srv.IdleTimeout)
}
