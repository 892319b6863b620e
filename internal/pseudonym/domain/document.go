package domain

// Document is a clinical document decoded from JSON. Only the PII object is
// inspected; every other key is opaque passthrough data.
type Document map[string]any

// Type returns the declared document type, or "" when missing or not a string.
func (d Document) Type() DocumentType {
	s, _ := d[DocumentTypeKey].(string)
	return DocumentType(s)
}

// PII returns the PII object. The second result is false when the key is absent
// or null, and err is ErrInvalidDocument when it holds anything but an object.
func (d Document) PII() (map[string]any, bool, error) {
	raw, ok := d[PIIKey]
	if !ok || raw == nil {
		return nil, false, nil
	}
	pii, ok := raw.(map[string]any)
	if !ok {
		return nil, false, ErrInvalidDocument
	}
	return pii, true, nil
}

// Clone returns a copy of d whose PII object is also copied, so field replacement
// on the clone never reaches the original. Nested passthrough values are shared.
func (d Document) Clone() Document {
	if d == nil {
		return nil
	}
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = v
	}
	if pii, ok := d[PIIKey].(map[string]any); ok {
		copied := make(map[string]any, len(pii))
		for k, v := range pii {
			copied[k] = v
		}
		out[PIIKey] = copied
	}
	return out
}
