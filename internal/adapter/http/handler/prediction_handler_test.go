package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ressKim-io/EvoGuard/emotion-service/internal/domain/entity"
	"github.com/ressKim-io/EvoGuard/emotion-service/internal/usecase"
)

// MockPredictionUsecase is a mock implementation of PredictionUsecase
type MockPredictionUsecase struct {
	mock.Mock
}

func (m *MockPredictionUsecase) Predict(ctx context.Context, requestID string, input *usecase.PredictInput) (*usecase.PredictionOutput, error) {
	args := m.Called(ctx, requestID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.PredictionOutput), args.Error(1)
}

func (m *MockPredictionUsecase) GetByID(ctx context.Context, id uuid.UUID) (*entity.PredictionRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.PredictionRecord), args.Error(1)
}

func (m *MockPredictionUsecase) List(ctx context.Context, limit, offset int) (*usecase.PredictionListOutput, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.PredictionListOutput), args.Error(1)
}

func (m *MockPredictionUsecase) Stats(ctx context.Context) (*usecase.PredictionStatsOutput, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.PredictionStatsOutput), args.Error(1)
}

func (m *MockPredictionUsecase) ModelInfo() *usecase.ModelInfoOutput {
	args := m.Called()
	return args.Get(0).(*usecase.ModelInfoOutput)
}

func setupTestRouter(h *PredictionHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("request_id", "req-test")
		c.Next()
	})
	r.POST("/api/v1/predictions", h.CreatePrediction)
	r.GET("/api/v1/predictions", h.ListPredictions)
	r.GET("/api/v1/predictions/stats", h.GetStats)
	r.GET("/api/v1/predictions/:id", h.GetPrediction)
	r.GET("/api/v1/model", h.GetModel)
	return r
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) Response {
	t.Helper()
	var response Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return response
}

func TestCreatePrediction_Success(t *testing.T) {
	mockUC := new(MockPredictionUsecase)
	router := setupTestRouter(NewPredictionHandler(mockUC))

	expected := &usecase.PredictionOutput{
		Label:        "joy",
		Display:      "JOY (81%)",
		Confidence:   0.81,
		Distribution: map[string]float64{"joy": 0.81, "sadness": 0.19},
		ModelID:      "model-1",
	}
	mockUC.On("Predict", mock.Anything, "req-test", &usecase.PredictInput{Text: "what a great day"}).Return(expected, nil)

	body, _ := json.Marshal(map[string]string{"text": "what a great day"})
	req, _ := http.NewRequest("POST", "/api/v1/predictions", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	response := decodeResponse(t, w)
	assert.True(t, response.Success)
	data := response.Data.(map[string]interface{})
	assert.Equal(t, "joy", data["label"])
	assert.Equal(t, "JOY (81%)", data["display"])
	assert.Equal(t, 0.81, data["confidence"])
	assert.Equal(t, "req-test", response.Meta.RequestID)
	mockUC.AssertExpectations(t)
}

func TestCreatePrediction_InvalidJSON(t *testing.T) {
	mockUC := new(MockPredictionUsecase)
	router := setupTestRouter(NewPredictionHandler(mockUC))

	req, _ := http.NewRequest("POST", "/api/v1/predictions", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	response := decodeResponse(t, w)
	assert.False(t, response.Success)
	assert.Equal(t, "INVALID_REQUEST", response.Error.Code)
	mockUC.AssertNotCalled(t, "Predict", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreatePrediction_TextTooLong(t *testing.T) {
	mockUC := new(MockPredictionUsecase)
	router := setupTestRouter(NewPredictionHandler(mockUC))

	body, _ := json.Marshal(map[string]string{"text": string(bytes.Repeat([]byte("a"), 10001))})
	req, _ := http.NewRequest("POST", "/api/v1/predictions", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockUC.AssertNotCalled(t, "Predict", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreatePrediction_Errors(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedCode   string
	}{
		{"blank text", entity.ErrInvalidInput, http.StatusBadRequest, "INVALID_INPUT"},
		{"translation down", entity.ErrTranslationUnavailable, http.StatusServiceUnavailable, "TRANSLATION_UNAVAILABLE"},
		{"no model", entity.ErrModelNotFound, http.StatusServiceUnavailable, "MODEL_UNAVAILABLE"},
		{"prediction failure", entity.ErrPrediction, http.StatusInternalServerError, "PREDICTION_FAILED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockUC := new(MockPredictionUsecase)
			router := setupTestRouter(NewPredictionHandler(mockUC))
			mockUC.On("Predict", mock.Anything, "req-test", mock.Anything).Return(nil, tt.err)

			req, _ := http.NewRequest("POST", "/api/v1/predictions", bytes.NewBufferString(`{"text":"   "}`))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			response := decodeResponse(t, w)
			assert.False(t, response.Success)
			assert.Equal(t, tt.expectedCode, response.Error.Code)
		})
	}
}

func TestGetPrediction(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		mockUC := new(MockPredictionUsecase)
		router := setupTestRouter(NewPredictionHandler(mockUC))

		id := uuid.New()
		mockUC.On("GetByID", mock.Anything, id).Return(&entity.PredictionRecord{ID: id, Label: "sadness"}, nil)

		req, _ := http.NewRequest("GET", "/api/v1/predictions/"+id.String(), nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		data := decodeResponse(t, w).Data.(map[string]interface{})
		assert.Equal(t, id.String(), data["id"])
		assert.Equal(t, "sadness", data["label"])
	})

	t.Run("not found", func(t *testing.T) {
		mockUC := new(MockPredictionUsecase)
		router := setupTestRouter(NewPredictionHandler(mockUC))

		id := uuid.New()
		mockUC.On("GetByID", mock.Anything, id).Return(nil, usecase.ErrPredictionNotFound)

		req, _ := http.NewRequest("GET", "/api/v1/predictions/"+id.String(), nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("invalid id", func(t *testing.T) {
		mockUC := new(MockPredictionUsecase)
		router := setupTestRouter(NewPredictionHandler(mockUC))

		req, _ := http.NewRequest("GET", "/api/v1/predictions/not-a-uuid", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "invalid prediction id")
	})
}

func TestListPredictions(t *testing.T) {
	t.Run("passes pagination", func(t *testing.T) {
		mockUC := new(MockPredictionUsecase)
		router := setupTestRouter(NewPredictionHandler(mockUC))

		mockUC.On("List", mock.Anything, 5, 10).Return(&usecase.PredictionListOutput{
			Predictions: []*entity.PredictionRecord{{Label: "joy"}},
			Total:       16,
			Limit:       5,
			Offset:      10,
			HasMore:     true,
		}, nil)

		req, _ := http.NewRequest("GET", "/api/v1/predictions?limit=5&offset=10", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		data := decodeResponse(t, w).Data.(map[string]interface{})
		assert.Equal(t, float64(16), data["total"])
		assert.Equal(t, true, data["has_more"])
		mockUC.AssertExpectations(t)
	})

	t.Run("history disabled", func(t *testing.T) {
		mockUC := new(MockPredictionUsecase)
		router := setupTestRouter(NewPredictionHandler(mockUC))

		mockUC.On("List", mock.Anything, DefaultLimit, DefaultOffset).Return(nil, usecase.ErrHistoryDisabled)

		req, _ := http.NewRequest("GET", "/api/v1/predictions", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotImplemented, w.Code)
	})
}

func TestGetStats(t *testing.T) {
	mockUC := new(MockPredictionUsecase)
	router := setupTestRouter(NewPredictionHandler(mockUC))

	mockUC.On("Stats", mock.Anything).Return(&usecase.PredictionStatsOutput{
		Total: 3,
		Labels: []entity.LabelCount{
			{Label: "joy", Count: 2},
			{Label: "anger", Count: 1},
		},
	}, nil)

	req, _ := http.NewRequest("GET", "/api/v1/predictions/stats", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeResponse(t, w).Data.(map[string]interface{})
	assert.Equal(t, float64(3), data["total"])
	assert.Len(t, data["labels"], 2)
}

func TestGetModel(t *testing.T) {
	mockUC := new(MockPredictionUsecase)
	router := setupTestRouter(NewPredictionHandler(mockUC))

	mockUC.On("ModelInfo").Return(&usecase.ModelInfoOutput{
		ModelID:       "model-1",
		FormatVersion: 1,
		Labels:        []string{"joy", "sadness"},
		Features:      120,
		Accuracy:      0.875,
	})

	req, _ := http.NewRequest("GET", "/api/v1/model", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeResponse(t, w).Data.(map[string]interface{})
	assert.Equal(t, "model-1", data["model_id"])
	assert.Equal(t, float64(120), data["features"])
	assert.Equal(t, []interface{}{"joy", "sadness"}, data["labels"])
}
