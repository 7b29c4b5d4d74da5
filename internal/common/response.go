package common

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// APIResponse standard API response structure
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
	Notice  *Notice     `json:"notice,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
}

// Meta collection metadata
type Meta struct {
	Collection string `json:"collection,omitempty"`
	Total      int    `json:"total"`
	Degraded   bool   `json:"degraded,omitempty"`
	Cached     bool   `json:"cached,omitempty"`
}

// Notice transient, dismissable message for the authoring UI
type Notice struct {
	Type    string `json:"type"` // success | error
	Message string `json:"message"`
}

// ErrorInfo error details
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// SuccessResponse returns a successful JSON response
func SuccessResponse(c *gin.Context, data interface{}, meta *Meta) {
	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    data,
		Meta:    meta,
	})
}

// NoticeResponse returns a success response with an authoring notice
func NoticeResponse(c *gin.Context, status int, data interface{}, message string) {
	c.JSON(status, APIResponse{
		Success: true,
		Data:    data,
		Notice:  &Notice{Type: "success", Message: message},
	})
}

// ErrorResponse returns an error JSON response
func ErrorResponse(c *gin.Context, status int, message string, err error) {
	errInfo := &ErrorInfo{
		Code:    getErrorCode(status),
		Message: message,
	}
	if err != nil && status < http.StatusInternalServerError {
		errInfo.Details = err.Error()
	}

	c.JSON(status, APIResponse{
		Success: false,
		Error:   errInfo,
		Notice:  &Notice{Type: "error", Message: message},
	})
}

// FailResponse maps err through HTTPStatus and writes an error response
func FailResponse(c *gin.Context, message string, err error) {
	ErrorResponse(c, HTTPStatus(err), message, err)
}

// getErrorCode generates error code from HTTP status
func getErrorCode(status int) string {
	switch status {
	case 400:
		return "BAD_REQUEST"
	case 401:
		return "UNAUTHORIZED"
	case 403:
		return "FORBIDDEN"
	case 404:
		return "NOT_FOUND"
	case 409:
		return "CONFLICT"
	case 429:
		return "RATE_LIMITED"
	case 500:
		return "INTERNAL_SERVER_ERROR"
	case 502:
		return "UPSTREAM_REJECTED"
	case 503:
		return "STORE_UNAVAILABLE"
	case 504:
		return "UPSTREAM_UNREACHABLE"
	default:
		return "ERROR"
	}
}
