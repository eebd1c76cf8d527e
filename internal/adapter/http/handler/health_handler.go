package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/ressKim-io/EvoGuard/emotion-service/internal/ml/pipeline"
)

const checkTimeout = 5 * time.Second

// Component states reported by /health.
const (
	componentOK            = "ok"
	componentNotConfigured = "not configured"
	componentNotLoaded     = "not loaded"
)

// Pinger is a collaborator that can report whether it is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles health check endpoints
type HealthHandler struct {
	db          *gorm.DB
	redis       *redis.Client
	model       *pipeline.Artifact
	translation Pinger
}

// NewHealthHandler creates a new health handler. db, redis and translation
// are optional; the service is only ready once a model is loaded.
func NewHealthHandler(db *gorm.DB, redis *redis.Client, model *pipeline.Artifact, translation Pinger) *HealthHandler {
	return &HealthHandler{
		db:          db,
		redis:       redis,
		model:       model,
		translation: translation,
	}
}

// HealthStatus represents the health check response. Status is healthy,
// degraded when the translation service or its cache is down, or unhealthy.
type HealthStatus struct {
	Status     string            `json:"status"`
	Components map[string]string `json:"components"`
	Model      *ModelSummary     `json:"model,omitempty"`
}

// ModelSummary identifies the loaded model.
type ModelSummary struct {
	ModelID  string   `json:"model_id"`
	Labels   []string `json:"labels"`
	Features int      `json:"features"`
}

type healthCheck struct {
	components map[string]string
	model      *ModelSummary
	failed     bool
	degraded   bool
}

func (h *HealthHandler) check(ctx context.Context) healthCheck {
	p := healthCheck{components: make(map[string]string, 4)}

	switch {
	case h.model == nil:
		p.components["model"] = componentNotLoaded
		p.failed = true
	default:
		p.components["model"] = componentOK
		p.model = &ModelSummary{
			ModelID:  h.model.Metadata.ModelID,
			Labels:   h.model.Labels,
			Features: h.model.Features.Dim(),
		}
	}

	if err := h.pingDatabase(ctx); err != nil {
		p.components["database"] = "error: " + err.Error()
		p.failed = true
	} else if h.db == nil {
		p.components["database"] = componentNotConfigured
	} else {
		p.components["database"] = componentOK
	}

	switch {
	case h.redis == nil:
		p.components["redis"] = componentNotConfigured
	default:
		if err := h.redis.Ping(ctx).Err(); err != nil {
			p.components["redis"] = "error: " + err.Error()
			p.degraded = true
		} else {
			p.components["redis"] = componentOK
		}
	}

	switch {
	case h.translation == nil:
		p.components["translation"] = componentNotConfigured
	default:
		if err := h.translation.Ping(ctx); err != nil {
			p.components["translation"] = "error: " + err.Error()
			p.degraded = true
		} else {
			p.components["translation"] = componentOK
		}
	}
	return p
}

func (h *HealthHandler) pingDatabase(ctx context.Context) error {
	if h.db == nil {
		return nil
	}
	sqlDB, err := h.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), checkTimeout)
	defer cancel()

	p := h.check(ctx)

	status, httpStatus := "healthy", http.StatusOK
	switch {
	case p.failed:
		status, httpStatus = "unhealthy", http.StatusServiceUnavailable
	case p.degraded:
		status = "degraded"
	}

	c.JSON(httpStatus, HealthStatus{
		Status:     status,
		Components: p.components,
		Model:      p.model,
	})
}

// Ready handles GET /ready. The translation service and its cache do not
// block readiness; predictions report their outage as errors.
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), checkTimeout)
	defer cancel()

	if h.model == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "reason": "model not loaded"})
		return
	}
	if err := h.pingDatabase(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "reason": "database unreachable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ready", "model_id": h.model.Metadata.ModelID})
}
