package usecase

import (
	"context"
	"reflect"
	"time"

	"github.com/allisson/pseudonymizer/internal/metrics"
	pseudonymDomain "github.com/allisson/pseudonymizer/internal/pseudonym/domain"
)

// documentUseCaseWithMetrics decorates DocumentUseCase with metrics instrumentation.
type documentUseCaseWithMetrics struct {
	next    DocumentUseCase
	metrics metrics.BusinessMetrics
}

// NewDocumentUseCaseWithMetrics wraps a DocumentUseCase with metrics recording.
func NewDocumentUseCaseWithMetrics(useCase DocumentUseCase, m metrics.BusinessMetrics) DocumentUseCase {
	return &documentUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Deidentify records metrics for deidentify operations.
func (d *documentUseCaseWithMetrics) Deidentify(
	ctx context.Context,
	doc pseudonymDomain.Document,
) (pseudonymDomain.Document, error) {
	start := time.Now()
	out, err := d.next.Deidentify(ctx, doc)
	d.record(ctx, "deidentify", doc, out, start, err)
	return out, err
}

// Reidentify records metrics for reidentify operations.
func (d *documentUseCaseWithMetrics) Reidentify(
	ctx context.Context,
	doc pseudonymDomain.Document,
) (pseudonymDomain.Document, error) {
	start := time.Now()
	out, err := d.next.Reidentify(ctx, doc)
	d.record(ctx, "reidentify", doc, out, start, err)
	return out, err
}

func (d *documentUseCaseWithMetrics) record(
	ctx context.Context,
	operation string,
	in, out pseudonymDomain.Document,
	start time.Time,
	err error,
) {
	status := "success"
	if err != nil {
		status = "error"
	}

	documentType := metrics.UnknownDocumentType
	if in.Type().IsValid() {
		documentType = string(in.Type())
	}

	d.metrics.RecordOperation(ctx, operation, documentType, status)
	d.metrics.RecordDuration(ctx, operation, documentType, time.Since(start), status)

	if err == nil && documentType != metrics.UnknownDocumentType {
		d.metrics.RecordFields(ctx, operation, documentType, changedFields(in, out))
	}
}

// changedFields counts declared PII fields whose value differs between in and out.
func changedFields(in, out pseudonymDomain.Document) int {
	fields, _ := pseudonymDomain.FieldsFor(in.Type())
	before, _, errIn := in.PII()
	after, _, errOut := out.PII()
	if errIn != nil || errOut != nil || before == nil || after == nil {
		return 0
	}

	n := 0
	for _, field := range fields {
		if !reflect.DeepEqual(before[field], after[field]) {
			n++
		}
	}
	return n
}
