/*
Package pseudonym provides reversible pseudonymization of PII fields inside clinical documents.

Sensitive field values are replaced with deterministic tokens of the form TKN_ followed by
24 URL-safe base64 characters. The original value is encrypted and stored keyed by its token
so that it can be restored later.

# Architecture

The module follows Clean Architecture principles:
  - domain: Documents, document types, tokens and mappings
  - service: Tokenizer (HMAC-SHA256) and CipherBox (AEAD envelope)
  - repository: Mapping persistence (PostgreSQL, MySQL) with insert-if-absent writes
  - usecase: Deidentify and Reidentify orchestration
  - http: HTTP handlers and DTOs

# Field Sets

Only the fields declared for a document's type are ever touched:
  - Medical Report, Lab Report, Admission Slip: Name, DOB, ID, Date
  - Discharge Summary: Name, DOB, ID, Admission_Date, Discharge_Date

Everything outside PII, and any PII field outside the declared set, passes through unchanged.

# Idempotence

Values already carrying the token prefix are never re-tokenized and values without it are
never looked up, so both transforms may be applied repeatedly. Reidentify leaves unknown
tokens in place instead of failing.

# Basic Usage

	out, err := documentUseCase.Deidentify(ctx, domain.Document{
	    "Document_Type": "Lab Report",
	    "PII": map[string]any{"Name": "Jane Doe", "DOB": "1990-01-01"},
	})

	restored, err := documentUseCase.Reidentify(ctx, out)
*/
package pseudonym
