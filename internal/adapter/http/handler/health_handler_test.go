package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ressKim-io/EvoGuard/emotion-service/internal/ml/pipeline"
)

func loadedModel() *pipeline.Artifact {
	return &pipeline.Artifact{
		Labels:   []string{"joy", "sadness"},
		Features: pipeline.FeatureSpace{IDF: []float64{1, 1.5, 2}},
		Metadata: pipeline.Metadata{ModelID: "model-1"},
	}
}

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func checkHealth(t *testing.T, h *HealthHandler) (int, HealthStatus) {
	t.Helper()
	router := gin.New()
	router.GET("/health", h.Health)

	req, _ := http.NewRequest("GET", "/health", http.NoBody)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var status HealthStatus
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	return w.Code, status
}

func TestHealthHandler_Health(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("healthy with only a model", func(t *testing.T) {
		code, status := checkHealth(t, NewHealthHandler(nil, nil, loadedModel(), nil))

		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "healthy", status.Status)
		assert.Equal(t, map[string]string{
			"database":    "not configured",
			"redis":       "not configured",
			"translation": "not configured",
			"model":       "ok",
		}, status.Components)
		require.NotNil(t, status.Model)
		assert.Equal(t, "model-1", status.Model.ModelID)
		assert.Equal(t, []string{"joy", "sadness"}, status.Model.Labels)
		assert.Equal(t, 3, status.Model.Features)
	})

	t.Run("unhealthy without model", func(t *testing.T) {
		code, status := checkHealth(t, NewHealthHandler(nil, nil, nil, nil))

		assert.Equal(t, http.StatusServiceUnavailable, code)
		assert.Equal(t, "unhealthy", status.Status)
		assert.Equal(t, "not loaded", status.Components["model"])
		assert.Nil(t, status.Model)
	})

	t.Run("degraded when the cache is unreachable", func(t *testing.T) {
		rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1})
		defer rdb.Close()

		code, status := checkHealth(t, NewHealthHandler(nil, rdb, loadedModel(), nil))

		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "degraded", status.Status)
		assert.Contains(t, status.Components["redis"], "error")
	})

	t.Run("translation service reachable", func(t *testing.T) {
		up := pingerFunc(func(context.Context) error { return nil })
		code, status := checkHealth(t, NewHealthHandler(nil, nil, loadedModel(), up))

		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "healthy", status.Status)
		assert.Equal(t, "ok", status.Components["translation"])
	})

	t.Run("degraded when the translation service is down", func(t *testing.T) {
		down := pingerFunc(func(context.Context) error { return errors.New("connection refused") })
		code, status := checkHealth(t, NewHealthHandler(nil, nil, loadedModel(), down))

		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "degraded", status.Status)
		assert.Equal(t, "error: connection refused", status.Components["translation"])
	})
}

func TestHealthHandler_Ready(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name     string
		model    *pipeline.Artifact
		wantCode int
		wantBody string
	}{
		{"ready with model", loadedModel(), http.StatusOK, "model-1"},
		{"not ready without model", nil, http.StatusServiceUnavailable, "model not loaded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.GET("/ready", NewHealthHandler(nil, nil, tt.model, pingerFunc(func(context.Context) error { return errors.New("down") })).Ready)

			req, _ := http.NewRequest("GET", "/ready", http.NoBody)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantCode, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
		})
	}
}
