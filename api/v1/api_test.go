package v1

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/99rahul8605-ops/Yt-v2/manager"
	"github.com/99rahul8605-ops/Yt-v2/service/cookies"
)

func newTestApp(t *testing.T) (*fiber.App, *manager.DownloadManager, *cookies.Store) {
	t.Helper()
	dir := t.TempDir()
	cookiesContent := "# Netscape HTTP Cookie File\n" +
		strings.Repeat(".youtube.com\tTRUE\t/\tTRUE\t1999999999\tSID\tvalue\n", 3)
	path := filepath.Join(dir, "cookies.txt")
	require.NoError(t, os.WriteFile(path, []byte(cookiesContent), 0644))

	store := cookies.NewStore(path, dir)
	dlmanager := manager.NewDownloadManager(1)

	app := fiber.New()
	app.Get("/health", func(ctx *fiber.Ctx) error {
		return HealthHandler(ctx, dlmanager, store, time.Now().Add(-time.Minute))
	})
	AddRoutes(app.Group("/api/v1"), dlmanager, store)
	return app, dlmanager, store
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestHealthHandler(t *testing.T) {
	app, _, _ := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, float64(0), body["active_downloads"])
	assert.Equal(t, true, body["cookies"])
	assert.GreaterOrEqual(t, body["uptime_seconds"].(float64), float64(60))
}

func TestStatusHandlerUnknownGid(t *testing.T) {
	app, _, _ := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/status/no-such-gid", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Contains(t, body["error"], "gid not found")
}

func TestListDownloadsEmpty(t *testing.T) {
	app, _, _ := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/downloads", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, float64(0), body["count"])
}

func TestCancelHandlerUnknownGid(t *testing.T) {
	app, _, _ := newTestApp(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cancel", strings.NewReader(`{"gid":"missing"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDownloadHandlerRejectsNonYouTubeURL(t *testing.T) {
	app, _, _ := newTestApp(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/download", strings.NewReader(`{"url":"https://vimeo.com/1","user_id":1}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCookiesHandler(t *testing.T) {
	app, _, _ := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/cookies", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, true, body["available"])
	assert.Equal(t, "Netscape", body["format"])
	assert.Equal(t, float64(1), body["domain_count"])
}
