package middleware

import (
	"errors"
	"net/http"

	"sharpPicks/pkg/logger"

	jsonres "sharpPicks/pkg/response"

	"github.com/labstack/echo/v4"
)

// ErrorHandler renders errors that escape handlers (routing, binding,
// panics recovered by echo) in the shared error envelope.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := http.StatusText(code)

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			message = m
		} else {
			message = http.StatusText(code)
		}
	}

	if code >= http.StatusInternalServerError {
		logger.Error("Unhandled error", "method", c.Request().Method, "path", c.Path(), "error", err)
	}

	var writeErr error
	if c.Request().Method == http.MethodHead {
		writeErr = c.NoContent(code)
	} else {
		writeErr = c.JSON(code, jsonres.Error(errorCode(code), message, nil))
	}
	if writeErr != nil {
		logger.Error("Failed to write error response", "error", writeErr)
	}
}

func errorCode(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "BAD_REQUEST"
	case http.StatusUnauthorized:
		return "UNAUTHORIZED"
	case http.StatusForbidden:
		return "FORBIDDEN"
	case http.StatusNotFound:
		return "NOT_FOUND"
	case http.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	default:
		if status >= http.StatusInternalServerError {
			return "INTERNAL_ERROR"
		}
		return "ERROR"
	}
}
