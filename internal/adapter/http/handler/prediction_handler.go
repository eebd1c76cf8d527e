package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ressKim-io/EvoGuard/emotion-service/internal/usecase"
)

// PredictionHandler handles prediction-related HTTP requests
type PredictionHandler struct {
	predictionUC usecase.PredictionUsecase
}

// NewPredictionHandler creates a new prediction handler
func NewPredictionHandler(predictionUC usecase.PredictionUsecase) *PredictionHandler {
	return &PredictionHandler{predictionUC: predictionUC}
}

// CreatePrediction handles POST /api/v1/predictions
func (h *PredictionHandler) CreatePrediction(c *gin.Context) {
	var input usecase.PredictInput
	if err := c.ShouldBindJSON(&input); err != nil {
		HandleInvalidRequest(c, err.Error())
		return
	}

	output, err := h.predictionUC.Predict(c.Request.Context(), c.GetString("request_id"), &input)
	if err != nil {
		HandleUsecaseError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, output)
}

// GetPrediction handles GET /api/v1/predictions/:id
func (h *PredictionHandler) GetPrediction(c *gin.Context) {
	id, err := ExtractUUIDParam(c, "id")
	if err != nil {
		HandleInvalidUUID(c, "prediction id")
		return
	}

	record, err := h.predictionUC.GetByID(c.Request.Context(), id)
	if err != nil {
		HandleUsecaseError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, record)
}

// ListPredictions handles GET /api/v1/predictions
func (h *PredictionHandler) ListPredictions(c *gin.Context) {
	page := ParsePagination(c)

	output, err := h.predictionUC.List(c.Request.Context(), page.Limit, page.Offset)
	if err != nil {
		HandleUsecaseError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, output)
}

// GetStats handles GET /api/v1/predictions/stats
func (h *PredictionHandler) GetStats(c *gin.Context) {
	output, err := h.predictionUC.Stats(c.Request.Context())
	if err != nil {
		HandleUsecaseError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, output)
}

// GetModel handles GET /api/v1/model
func (h *PredictionHandler) GetModel(c *gin.Context) {
	respondSuccess(c, http.StatusOK, h.predictionUC.ModelInfo())
}
