package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/guttosm/graph-guard/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func testConfig() config.Config {
	return config.Config{
		Server: config.ServerConfig{
			Port:           "8080",
			RequestTimeout: 5 * time.Second,
		},
		Log: config.LogConfig{Level: "error"},
		Cache: config.CacheConfig{
			Size:            100,
			TTL:             5 * time.Minute,
			VolatileTTL:     time.Minute,
			CleanupInterval: time.Minute,
			Backend:         config.BackendMemory,
			RemoteTimeout:   time.Second,
		},
		Graph: config.GraphConfig{Enabled: false},
		CircuitBreaker: config.CircuitBreakerConfig{
			FailureThreshold: 2,
			SuccessThreshold: 1,
			Timeout:          time.Minute,
			HalfOpenMaxCalls: 1,
		},
	}
}

func newTestApp(t *testing.T, cfg config.Config) (*App, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	application, err := InitializeApp(cfg, WithRegisterer(reg))
	require.NoError(t, err)
	t.Cleanup(func() { _ = application.Close(context.Background()) })
	return application, reg
}

func serve(application *App, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	application.Router.ServeHTTP(w, req)
	return w
}
