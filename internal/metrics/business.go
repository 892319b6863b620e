package metrics

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// UnknownDocumentType is the document_type label for documents outside the
// supported set. Raw Document_Type values are never used as labels.
const UnknownDocumentType = "unknown"

// BusinessMetrics records pseudonymization operation metrics. Every method is
// labelled by operation ("deidentify", "reidentify") and document type.
type BusinessMetrics interface {
	// RecordOperation counts one operation with status "success" or "error".
	RecordOperation(ctx context.Context, operation, documentType, status string)

	// RecordDuration records the operation duration in seconds as a histogram.
	RecordDuration(ctx context.Context, operation, documentType string, duration time.Duration, status string)

	// RecordFields adds count to the number of PII fields rewritten by operation.
	// Field values never become labels.
	RecordFields(ctx context.Context, operation, documentType string, count int)
}

type businessMetrics struct {
	operationCounter metric.Int64Counter
	durationHisto    metric.Float64Histogram
	fieldCounter     metric.Int64Counter
}

// NewBusinessMetrics creates BusinessMetrics backed by meterProvider. All metric
// names are prefixed with namespace (e.g., "pseudonymizer").
func NewBusinessMetrics(meterProvider metric.MeterProvider, namespace string) (BusinessMetrics, error) {
	meter := meterProvider.Meter(namespace)

	operationCounter, err := meter.Int64Counter(
		fmt.Sprintf("%s_operations_total", namespace),
		metric.WithDescription("Total number of document operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create operation counter: %w", err)
	}

	durationHisto, err := meter.Float64Histogram(
		fmt.Sprintf("%s_operation_duration_seconds", namespace),
		metric.WithDescription("Duration of document operations in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create duration histogram: %w", err)
	}

	fieldCounter, err := meter.Int64Counter(
		fmt.Sprintf("%s_pii_fields_total", namespace),
		metric.WithDescription("Total number of PII fields tokenized or restored"),
		metric.WithUnit("{field}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create field counter: %w", err)
	}

	return &businessMetrics{
		operationCounter: operationCounter,
		durationHisto:    durationHisto,
		fieldCounter:     fieldCounter,
	}, nil
}

func (b *businessMetrics) RecordOperation(ctx context.Context, operation, documentType, status string) {
	b.operationCounter.Add(ctx, 1, metric.WithAttributes(operationAttributes(operation, documentType, status)...))
}

func (b *businessMetrics) RecordDuration(
	ctx context.Context,
	operation, documentType string,
	duration time.Duration,
	status string,
) {
	b.durationHisto.Record(ctx, duration.Seconds(),
		metric.WithAttributes(operationAttributes(operation, documentType, status)...),
	)
}

func (b *businessMetrics) RecordFields(ctx context.Context, operation, documentType string, count int) {
	if count <= 0 {
		return
	}
	b.fieldCounter.Add(ctx, int64(count),
		metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("document_type", documentType),
		),
	)
}

func operationAttributes(operation, documentType, status string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("operation", operation),
		attribute.String("document_type", documentType),
		attribute.String("status", status),
	}
}

// NoOpBusinessMetrics is used when metrics are disabled.
type NoOpBusinessMetrics struct{}

// NewNoOpBusinessMetrics creates a no-op BusinessMetrics implementation.
func NewNoOpBusinessMetrics() BusinessMetrics {
	return &NoOpBusinessMetrics{}
}

func (n *NoOpBusinessMetrics) RecordOperation(ctx context.Context, operation, documentType, status string) {}

func (n *NoOpBusinessMetrics) RecordDuration(
	ctx context.Context,
	operation, documentType string,
	duration time.Duration,
	status string,
) {
}

func (n *NoOpBusinessMetrics) RecordFields(ctx context.Context, operation, documentType string, count int) {}
