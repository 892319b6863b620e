package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDocumentRequest_Validate(t *testing.T) {
	tests := []struct {
		name        string
		body        map[string]any
		expectError bool
		errorField  string
	}{
		{
			name: "valid lab report",
			body: map[string]any{
				"Document_Type": "Lab Report",
				"PII":           map[string]any{"Name": "Jane Doe", "DOB": nil},
				"Results":       []any{1.0, 2.0},
			},
		},
		{
			name: "valid with empty PII",
			body: map[string]any{"Document_Type": "Discharge Summary", "PII": map[string]any{}},
		},
		{
			name:        "missing document type",
			body:        map[string]any{"PII": map[string]any{}},
			expectError: true,
			errorField:  "Document_Type",
		},
		{
			name:        "document type not a string",
			body:        map[string]any{"Document_Type": 3.0, "PII": map[string]any{}},
			expectError: true,
			errorField:  "Document_Type",
		},
		{
			name:        "unsupported document type",
			body:        map[string]any{"Document_Type": "Prescription", "PII": map[string]any{}},
			expectError: true,
			errorField:  "Document_Type",
		},
		{
			name:        "missing PII",
			body:        map[string]any{"Document_Type": "Lab Report"},
			expectError: true,
			errorField:  "PII",
		},
		{
			name:        "PII not an object",
			body:        map[string]any{"Document_Type": "Lab Report", "PII": []any{"Jane"}},
			expectError: true,
			errorField:  "PII",
		},
		{
			name:        "PII value not a string",
			body:        map[string]any{"Document_Type": "Lab Report", "PII": map[string]any{"ID": 123.0}},
			expectError: true,
			errorField:  "PII",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewDocumentRequest(tt.body).Validate()
			if tt.expectError {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorField)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewDocumentRequest_KeepsPassthroughKeys(t *testing.T) {
	body := map[string]any{"Document_Type": "Lab Report", "PII": map[string]any{}, "Extra": "x"}
	req := NewDocumentRequest(body)

	assert.Equal(t, "Lab Report", req.DocumentType)
	assert.Equal(t, "x", req.Document["Extra"])
}
