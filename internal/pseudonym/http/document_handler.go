// Package http provides HTTP handlers for document deidentification and reidentification.
package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/pseudonymizer/internal/httputil"
	"github.com/allisson/pseudonymizer/internal/pseudonym/http/dto"
	pseudonymUseCase "github.com/allisson/pseudonymizer/internal/pseudonym/usecase"
	customValidation "github.com/allisson/pseudonymizer/internal/validation"
)

// DocumentHandler handles HTTP requests for document pseudonymization.
type DocumentHandler struct {
	documentUseCase pseudonymUseCase.DocumentUseCase
	logger          *slog.Logger
}

// NewDocumentHandler creates a new document handler with required dependencies.
func NewDocumentHandler(documentUseCase pseudonymUseCase.DocumentUseCase, logger *slog.Logger) *DocumentHandler {
	return &DocumentHandler{
		documentUseCase: documentUseCase,
		logger:          logger,
	}
}

// DeidentifyHandler replaces the declared PII fields of a document with tokens.
// POST /v1/deidentify - Returns 200 OK with the deidentified document.
func (h *DocumentHandler) DeidentifyHandler(c *gin.Context) {
	req, ok := h.bind(c)
	if !ok {
		return
	}

	out, err := h.documentUseCase.Deidentify(c.Request.Context(), req.Document)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, out)
}

// ReidentifyHandler restores the declared PII fields of a document from their tokens.
// POST /v1/reidentify - Returns 200 OK with the reidentified document.
// Unknown tokens are returned unchanged.
func (h *DocumentHandler) ReidentifyHandler(c *gin.Context) {
	req, ok := h.bind(c)
	if !ok {
		return
	}

	out, err := h.documentUseCase.Reidentify(c.Request.Context(), req.Document)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, out)
}

// errEmptyBody is returned when the request carries no JSON object.
var errEmptyBody = errors.New("request body must be a JSON object")

// bind parses and validates the request body, writing the error response on failure.
// Numbers are kept as json.Number so passthrough values are echoed back verbatim.
func (h *DocumentHandler) bind(c *gin.Context) (*dto.DocumentRequest, bool) {
	body, err := decodeDocument(c.Request)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return nil, false
	}

	req := dto.NewDocumentRequest(body)
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return nil, false
	}
	return req, true
}

func decodeDocument(r *http.Request) (map[string]any, error) {
	if r.Body == nil || r.Body == http.NoBody {
		return nil, errEmptyBody
	}

	decoder := json.NewDecoder(r.Body)
	decoder.UseNumber()

	var body map[string]any
	if err := decoder.Decode(&body); err != nil {
		return nil, err
	}
	if body == nil {
		return nil, errEmptyBody
	}
	return body, nil
}
