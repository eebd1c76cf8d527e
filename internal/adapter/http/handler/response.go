package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Response represents the standard API response structure
type Response struct {
	Success bool        `json:"success"`
	Data    any         `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
	Meta    *MetaInfo   `json:"meta"`
}

// ErrorInfo represents error details. Kind is the classifier error kind,
// such as InvalidInputError, when the failure came from the classifier.
type ErrorInfo struct {
	Code    string `json:"code"`
	Kind    string `json:"kind,omitempty"`
	Message string `json:"message"`
}

// MetaInfo represents response metadata. ModelID names the model that was
// serving when the response was produced.
type MetaInfo struct {
	Timestamp string `json:"timestamp"`
	RequestID string `json:"request_id"`
	ModelID   string `json:"model_id,omitempty"`
}

func newMeta(c *gin.Context) *MetaInfo {
	requestID := c.GetString("request_id")
	if requestID == "" {
		requestID = uuid.New().String()
	}
	return &MetaInfo{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		RequestID: requestID,
		ModelID:   c.GetString("model_id"),
	}
}

func respondSuccess(c *gin.Context, status int, data any) {
	c.JSON(status, Response{
		Success: true,
		Data:    data,
		Meta:    newMeta(c),
	})
}

func respondError(c *gin.Context, status int, code, message string) {
	respondErrorInfo(c, status, &ErrorInfo{Code: code, Message: message})
}

func respondErrorInfo(c *gin.Context, status int, info *ErrorInfo) {
	c.JSON(status, Response{
		Success: false,
		Error:   info,
		Meta:    newMeta(c),
	})
}
