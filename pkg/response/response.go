package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// APIResponse is the envelope used by operational endpoints (health, debug).
// Gateway endpoints answer with bare payloads instead, see Payload.
type APIResponse[T any] struct {
	Status    int         `json:"status"`
	Timestamp time.Time   `json:"timestamp"`
	RequestID string      `json:"request_id"`
	Success   bool        `json:"success"`
	Message   string      `json:"message"`
	Data      T           `json:"data,omitempty"`
	Meta      interface{} `json:"meta,omitempty"`
}

// ErrorBody is written for every non-2xx answer.
type ErrorBody struct {
	Message   string      `json:"message"`
	RequestID string      `json:"request_id,omitempty"`
	Error     interface{} `json:"error,omitempty"`
}

// MutationBody is the answer to a successful create or update.
type MutationBody[T any] struct {
	Message string `json:"message"`
	Record  T      `json:"record"`
}

func Success[T any](ctx *gin.Context, status int, data T, message string, meta interface{}) {
	if status == 0 {
		status = http.StatusOK
	}
	ctx.JSON(status, APIResponse[T]{
		Status:    status,
		Timestamp: time.Now(),
		RequestID: ctx.GetString("request_id"),
		Success:   true,
		Message:   message,
		Data:      data,
		Meta:      meta,
	})
}

// Error writes an error body and aborts the handler chain.
func Error(ctx *gin.Context, status int, message string, details interface{}) {
	if status == 0 {
		status = http.StatusBadRequest
	}
	ctx.AbortWithStatusJSON(status, ErrorBody{
		Message:   message,
		RequestID: ctx.GetString("request_id"),
		Error:     details,
	})
}

// Payload writes v as the whole body, e.g. a JSON array for list endpoints.
func Payload(ctx *gin.Context, status int, v any) {
	ctx.JSON(status, v)
}

func Mutation[T any](ctx *gin.Context, message string, record T) {
	ctx.JSON(http.StatusOK, MutationBody[T]{Message: message, Record: record})
}
