// Package httputil writes the JSON error bodies shared by the document API.
package httputil

import (
	"log/slog"
	"net/http"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"

	apperrors "github.com/allisson/pseudonymizer/internal/errors"
)

// ErrorResponse is the body of every non-2xx answer. Messages never echo
// document contents.
type ErrorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

type kindMapping struct {
	status  int
	code    string
	message string
}

// kindMappings is keyed by error kind. An empty message means the error text
// itself is safe to return.
var kindMappings = map[error]kindMapping{
	apperrors.ErrNotFound: {
		status:  http.StatusNotFound,
		code:    "not_found",
		message: "The requested resource was not found",
	},
	apperrors.ErrConflict: {
		status:  http.StatusConflict,
		code:    "conflict",
		message: "A stored mapping conflicts with this document",
	},
	apperrors.ErrInvalidInput: {
		status: http.StatusUnprocessableEntity,
		code:   "invalid_input",
	},
	apperrors.ErrUnavailable: {
		status:  http.StatusServiceUnavailable,
		code:    "service_unavailable",
		message: "A backing service is temporarily unavailable",
	},
}

var internalError = kindMapping{
	status:  http.StatusInternalServerError,
	code:    "internal_error",
	message: "An internal error occurred",
}

// StatusFor returns the HTTP status and error code for err.
func StatusFor(err error) (int, string) {
	m := mappingFor(err)
	return m.status, m.code
}

func mappingFor(err error) kindMapping {
	if m, ok := kindMappings[apperrors.KindOf(err)]; ok {
		return m
	}
	return internalError
}

// HandleErrorGin writes the response for an error returned by a use case.
// Server-side failures are logged at Error, client-side ones at Warn.
func HandleErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	if err == nil {
		return
	}

	m := mappingFor(err)
	message := m.message
	if message == "" {
		message = err.Error()
	}

	if logger != nil {
		level := slog.LevelWarn
		if m.status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		logger.LogAttrs(c, level, "request failed",
			slog.Int("status_code", m.status),
			slog.String("error_code", m.code),
			slog.String("request_id", requestid.Get(c)),
			slog.Any("error", err),
		)
	}

	writeError(c, m.status, m.code, message)
}

// HandleBadRequestGin answers 400 for bodies that are not valid JSON.
func HandleBadRequestGin(c *gin.Context, err error, logger *slog.Logger) {
	if logger != nil {
		logger.Warn("bad request", slog.Any("error", err))
	}
	writeError(c, http.StatusBadRequest, "bad_request", err.Error())
}

// HandleValidationErrorGin answers 422 for documents failing request validation.
func HandleValidationErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	if logger != nil {
		logger.Warn("validation failed", slog.Any("error", err))
	}
	writeError(c, http.StatusUnprocessableEntity, "validation_error", err.Error())
}

func writeError(c *gin.Context, status int, code, message string) {
	c.JSON(status, ErrorResponse{
		Error:     code,
		Message:   message,
		RequestID: requestid.Get(c),
	})
}
