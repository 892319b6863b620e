// Package validation provides custom validation rules for the application.
package validation

import (
	"strings"

	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/pseudonymizer/internal/errors"
	pseudonymDomain "github.com/allisson/pseudonymizer/internal/pseudonym/domain"
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// NotBlank validates that a string is not empty after trimming whitespace
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)

// KnownDocumentType validates that a string names a supported document type.
var KnownDocumentType = validation.NewStringRuleWithError(
	func(s string) bool {
		return pseudonymDomain.DocumentType(s).IsValid()
	},
	validation.NewError(
		"validation_document_type",
		"must be one of: Medical Report, Lab Report, Discharge Summary, Admission Slip",
	),
)

// PIIObject validates that a value is a JSON object whose values are strings or null.
var PIIObject = validation.By(func(value interface{}) error {
	if value == nil {
		return nil
	}
	pii, ok := value.(map[string]any)
	if !ok {
		return validation.NewError("validation_pii_object", "must be an object")
	}
	for _, v := range pii {
		if v == nil {
			continue
		}
		if _, ok := v.(string); !ok {
			return validation.NewError("validation_pii_value", "values must be strings or null")
		}
	}
	return nil
})
