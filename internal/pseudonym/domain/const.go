// Package domain defines the core pseudonymization types: documents, document types,
// tokens and persisted mappings.
package domain

const (
	// TokenPrefix marks a value as already tokenized.
	TokenPrefix = "TKN_"

	// TokenBodyLength is the number of URL-safe base64 characters following the prefix.
	TokenBodyLength = 24

	// TokenLength is the total length of a token.
	TokenLength = len(TokenPrefix) + TokenBodyLength
)

// Top-level document keys.
const (
	DocumentTypeKey = "Document_Type"
	PIIKey          = "PII"
)

// DocumentType identifies a kind of clinical document.
type DocumentType string

// Supported document types.
const (
	MedicalReport    DocumentType = "Medical Report"
	LabReport        DocumentType = "Lab Report"
	DischargeSummary DocumentType = "Discharge Summary"
	AdmissionSlip    DocumentType = "Admission Slip"
)

var singleDateFields = []string{"Name", "DOB", "ID", "Date"}

var fieldsByType = map[DocumentType][]string{
	MedicalReport:    singleDateFields,
	LabReport:        singleDateFields,
	AdmissionSlip:    singleDateFields,
	DischargeSummary: {"Name", "DOB", "ID", "Admission_Date", "Discharge_Date"},
}

// DocumentTypes returns every supported document type.
func DocumentTypes() []DocumentType {
	return []DocumentType{MedicalReport, LabReport, DischargeSummary, AdmissionSlip}
}

// FieldsFor returns the ordered sensitive field names for t.
// The second result is false when t is not a supported type.
func FieldsFor(t DocumentType) ([]string, bool) {
	fields, ok := fieldsByType[t]
	if !ok {
		return nil, false
	}
	out := make([]string, len(fields))
	copy(out, fields)
	return out, true
}

// IsValid reports whether t is a supported document type.
func (t DocumentType) IsValid() bool {
	_, ok := fieldsByType[t]
	return ok
}
