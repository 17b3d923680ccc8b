package rest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMux(checks map[string]Checker, metrics http.Handler) *http.ServeMux {
	mux := http.NewServeMux()
	NewHealthHandler(checks, slog.New(slog.NewTextHandler(io.Discard, nil))).RegisterRoutes(mux, metrics)
	return mux
}

func get(t *testing.T, mux *http.ServeMux, path string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

	var body map[string]any
	if rec.Header().Get("Content-Type") == "application/json" {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec, body
}

func TestHealth_Liveness(t *testing.T) {
	rec, body := get(t, newMux(nil, nil), "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])
}

func TestHealth_ReadinessAllHealthy(t *testing.T) {
	ok := func(context.Context) error { return nil }
	rec, body := get(t, newMux(map[string]Checker{"postgres": ok, "redis": ok}, nil), "/readyz")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ready", body["status"])
	assert.Equal(t, map[string]any{"postgres": "ok", "redis": "ok"}, body["dependencies"])
}

func TestHealth_ReadinessDependencyDown(t *testing.T) {
	checks := map[string]Checker{
		"postgres": func(context.Context) error { return nil },
		"redis":    func(context.Context) error { return errors.New("connection refused") },
	}
	rec, body := get(t, newMux(checks, nil), "/readyz")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "not_ready", body["status"])
	assert.Equal(t, map[string]any{"postgres": "ok", "redis": "unavailable"}, body["dependencies"])
}

func TestHealth_MetricsRoute(t *testing.T) {
	metrics := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("loanlens_reports_unlocked_total 0\n"))
	})
	rec, _ := get(t, newMux(nil, metrics), "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "loanlens_reports_unlocked_total")
}
