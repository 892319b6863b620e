// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	pseudonymDomain "github.com/allisson/pseudonymizer/internal/pseudonym/domain"
	customValidation "github.com/allisson/pseudonymizer/internal/validation"
)

// DocumentRequest wraps a clinical document received for deidentification or reidentification.
// Keys other than Document_Type and PII are carried through untouched.
type DocumentRequest struct {
	DocumentType string                   `json:"Document_Type"`
	PII          any                      `json:"PII"`
	Document     pseudonymDomain.Document `json:"-"`
}

// NewDocumentRequest builds a request from a decoded JSON object.
func NewDocumentRequest(body map[string]any) *DocumentRequest {
	docType, _ := body[pseudonymDomain.DocumentTypeKey].(string)
	return &DocumentRequest{
		DocumentType: docType,
		PII:          body[pseudonymDomain.PIIKey],
		Document:     pseudonymDomain.Document(body),
	}
}

// Validate checks the document type against the supported set and the PII shape.
func (r *DocumentRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.DocumentType,
			validation.Required,
			customValidation.NotBlank,
			customValidation.KnownDocumentType,
		),
		validation.Field(&r.PII,
			validation.NotNil,
			customValidation.PIIObject,
		),
	)
}
