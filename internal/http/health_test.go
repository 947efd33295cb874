package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/graph-guard/internal/circuitbreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthHandler_Liveness(t *testing.T) {
	router := gin.New()
	NewHealthHandler(nil).Register(router)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestHealthHandler_Readiness(t *testing.T) {
	openBreaker := func(t *testing.T) *circuitbreaker.Registry {
		cfg := circuitbreaker.DefaultConfig()
		cfg.FailureThreshold = 1
		cfg.Timeout = time.Hour
		registry := circuitbreaker.NewRegistry(cfg)
		cb, err := registry.GetOrCreate("neo4j", nil)
		require.NoError(t, err)
		_ = cb.Execute(context.Background(), func(context.Context) error { return errors.New("down") })
		require.True(t, cb.IsOpen())
		return registry
	}

	tests := []struct {
		name           string
		setupHandler   func(t *testing.T) *HealthHandler
		expectedStatus int
		expectedChecks map[string]any
	}{
		{
			name: "no checkers",
			setupHandler: func(t *testing.T) *HealthHandler {
				return NewHealthHandler(nil)
			},
			expectedStatus: http.StatusOK,
			expectedChecks: map[string]any{"service": "ok"},
		},
		{
			name: "healthy dependencies and closed breaker",
			setupHandler: func(t *testing.T) *HealthHandler {
				registry := circuitbreaker.NewRegistry(circuitbreaker.DefaultConfig())
				_, err := registry.GetOrCreate("neo4j", nil)
				require.NoError(t, err)
				h := NewHealthHandler(registry)
				h.RegisterChecker("graph", HealthCheckFunc(func(context.Context) error { return nil }))
				return h
			},
			expectedStatus: http.StatusOK,
			expectedChecks: map[string]any{"graph": "ok", "neo4j_circuit": "closed"},
		},
		{
			name: "failing checker",
			setupHandler: func(t *testing.T) *HealthHandler {
				h := NewHealthHandler(nil)
				h.RegisterChecker("cache", HealthCheckFunc(func(context.Context) error {
					return errors.New("dial tcp: connection refused")
				}))
				return h
			},
			expectedStatus: http.StatusServiceUnavailable,
			expectedChecks: map[string]any{"cache": "dial tcp: connection refused"},
		},
		{
			name: "open breaker",
			setupHandler: func(t *testing.T) *HealthHandler {
				return NewHealthHandler(openBreaker(t))
			},
			expectedStatus: http.StatusServiceUnavailable,
			expectedChecks: map[string]any{"neo4j_circuit": "open"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			tt.setupHandler(t).Register(router)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			var body struct {
				Status string         `json:"status"`
				Checks map[string]any `json:"checks"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.expectedChecks, body.Checks)
			if tt.expectedStatus == http.StatusOK {
				assert.Equal(t, "ok", body.Status)
			} else {
				assert.Equal(t, "degraded", body.Status)
			}
		})
	}
}

func TestHealthHandler_CheckerReceivesDeadline(t *testing.T) {
	h := NewHealthHandler(nil)
	var hasDeadline bool
	h.RegisterChecker("graph", HealthCheckFunc(func(ctx context.Context) error {
		_, hasDeadline = ctx.Deadline()
		return nil
	}))

	router := gin.New()
	h.Register(router)
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/readyz", nil))

	assert.True(t, hasDeadline)
}
