// internal/common/errors/handler.go
package errors

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

type Logger interface {
	Error(msg string, fields map[string]interface{})
}

// ErrorHandler renders errors escaping echo handlers. Logical failures stay on 200 with
// success=false; only echo's own HTTP errors (bad body, unknown route) keep their status.
type ErrorHandler struct {
	logger Logger
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// Handle satisfies echo.HTTPErrorHandler.
func (h *ErrorHandler) Handle(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusOK
	body := map[string]interface{}{"success": false}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		status = httpErr.Code
		body["error"] = http.StatusText(status)
		if msg, ok := httpErr.Message.(string); ok && msg != "" {
			body["error"] = msg
		}
	} else {
		stdErr := h.normalizeError(err)
		if stdErr.Code == ErrCodeInvalidRequest {
			status = http.StatusBadRequest
		}
		body["error"] = stdErr.Message
		body["code"] = string(stdErr.Code)
		h.logger.Error("request failed", map[string]interface{}{
			"path":     c.Path(),
			"code":     string(stdErr.Code),
			"category": GetErrorCategory(stdErr.Code),
			"details":  stdErr.Details,
		})
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(status)
		return
	}
	_ = c.JSON(status, body)
}

func (h *ErrorHandler) normalizeError(err error) *StandardError {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr
	}
	return &StandardError{
		Code:      ErrCodeApplicationError,
		Message:   "An error occurred while processing your request.",
		Details:   err.Error(),
		Timestamp: time.Now().UTC(),
	}
}
