package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ressKim-io/EvoGuard/emotion-service/internal/domain/entity"
	"github.com/ressKim-io/EvoGuard/emotion-service/internal/usecase"
)

// ErrorResponse represents a structured error response
type ErrorResponse struct {
	StatusCode int
	Code       string
	Kind       string
	Message    string
}

// MapUsecaseError maps usecase and classifier errors to HTTP error responses.
// It provides consistent error handling across all handlers.
func MapUsecaseError(err error) ErrorResponse {
	switch {
	case errors.Is(err, usecase.ErrPredictionNotFound):
		return ErrorResponse{
			StatusCode: http.StatusNotFound,
			Code:       "NOT_FOUND",
			Message:    "prediction not found",
		}
	case errors.Is(err, usecase.ErrHistoryDisabled):
		return ErrorResponse{
			StatusCode: http.StatusNotImplemented,
			Code:       "HISTORY_DISABLED",
			Message:    "prediction history is not configured",
		}
	case errors.Is(err, entity.ErrInvalidInput):
		return ErrorResponse{
			StatusCode: http.StatusBadRequest,
			Code:       "INVALID_INPUT",
			Kind:       entity.ErrorKind(err),
			Message:    "text must not be empty",
		}
	case errors.Is(err, entity.ErrTranslationUnavailable):
		return ErrorResponse{
			StatusCode: http.StatusServiceUnavailable,
			Code:       "TRANSLATION_UNAVAILABLE",
			Kind:       entity.ErrorKind(err),
			Message:    "translation service unavailable",
		}
	case errors.Is(err, entity.ErrModelNotFound),
		errors.Is(err, entity.ErrModelCorrupt),
		errors.Is(err, entity.ErrIncompatibleModelVersion):
		return ErrorResponse{
			StatusCode: http.StatusServiceUnavailable,
			Code:       "MODEL_UNAVAILABLE",
			Kind:       entity.ErrorKind(err),
			Message:    "model unavailable",
		}
	case errors.Is(err, entity.ErrPrediction):
		return ErrorResponse{
			StatusCode: http.StatusInternalServerError,
			Code:       "PREDICTION_FAILED",
			Kind:       entity.ErrorKind(err),
			Message:    "prediction failed",
		}
	default:
		return ErrorResponse{
			StatusCode: http.StatusInternalServerError,
			Code:       "INTERNAL_ERROR",
			Message:    "internal server error",
		}
	}
}

// HandleUsecaseError handles a usecase error by sending an appropriate HTTP response.
// It maps the error to an HTTP status and sends a JSON error response.
func HandleUsecaseError(c *gin.Context, err error) {
	errResp := MapUsecaseError(err)
	if errResp.StatusCode >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	respondErrorInfo(c, errResp.StatusCode, &ErrorInfo{
		Code:    errResp.Code,
		Kind:    errResp.Kind,
		Message: errResp.Message,
	})
}

// HandleInvalidUUID handles an invalid UUID parameter error.
func HandleInvalidUUID(c *gin.Context, paramName string) {
	respondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid "+paramName)
}

// HandleInvalidRequest handles a generic invalid request error.
func HandleInvalidRequest(c *gin.Context, message string) {
	respondError(c, http.StatusBadRequest, "INVALID_REQUEST", message)
}
