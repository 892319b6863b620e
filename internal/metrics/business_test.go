package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// assertBizMetricLine checks that the Prometheus output contains a metric line with
// the given name, partial label pattern, and value. The regex tolerates the OTel
// scope labels injected by the exporter.
func assertBizMetricLine(t *testing.T, output, name, labels, value string) {
	t.Helper()
	pattern := name + `\{[^}]*` + labels + `[^}]*\} ` + value
	assert.Regexp(t, pattern, output)
}

func scrape(t *testing.T, provider *Provider) string {
	t.Helper()
	w := httptest.NewRecorder()
	provider.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	return w.Body.String()
}

func TestNewBusinessMetrics(t *testing.T) {
	provider, err := NewProvider("test_app")
	require.NoError(t, err)

	businessMetrics, err := NewBusinessMetrics(provider.MeterProvider(), "test_app")

	require.NoError(t, err)
	assert.NotNil(t, businessMetrics)
}

func TestBusinessMetrics_RecordFields(t *testing.T) {
	provider, err := NewProvider("fields_test")
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	}()

	bm, err := NewBusinessMetrics(provider.MeterProvider(), "fields_test")
	require.NoError(t, err)

	ctx := context.Background()
	bm.RecordFields(ctx, "deidentify", "Lab Report", 4)
	bm.RecordFields(ctx, "deidentify", "Lab Report", 2)
	bm.RecordFields(ctx, "reidentify", "Discharge Summary", 5)
	bm.RecordFields(ctx, "reidentify", "Medical Report", 0)

	output := scrape(t, provider)

	assertBizMetricLine(t, output, `fields_test_pii_fields_total`,
		`document_type="Lab Report".*operation="deidentify"`, `6`)
	assertBizMetricLine(t, output, `fields_test_pii_fields_total`,
		`document_type="Discharge Summary".*operation="reidentify"`, `5`)
	assert.NotContains(t, output, `document_type="Medical Report"`)
}

func TestNewNoOpBusinessMetrics(t *testing.T) {
	noOpMetrics := NewNoOpBusinessMetrics()

	assert.NotNil(t, noOpMetrics)
	assert.IsType(t, &NoOpBusinessMetrics{}, noOpMetrics)

	assert.NotPanics(t, func() {
		noOpMetrics.RecordOperation(context.Background(), "deidentify", "Lab Report", "success")
		noOpMetrics.RecordDuration(context.Background(), "reidentify", "Lab Report", 100*time.Millisecond, "error")
		noOpMetrics.RecordFields(context.Background(), "deidentify", "Lab Report", 3)
	})
}

func TestBusinessMetrics_Integration(t *testing.T) {
	provider, err := NewProvider("integration_test")
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	}()

	bm, err := NewBusinessMetrics(provider.MeterProvider(), "integration_test")
	require.NoError(t, err)

	ctx := context.Background()

	bm.RecordOperation(ctx, "deidentify", "Lab Report", "success")
	bm.RecordOperation(ctx, "deidentify", "Lab Report", "success")
	bm.RecordOperation(ctx, "deidentify", "Lab Report", "error")
	bm.RecordOperation(ctx, "reidentify", "Discharge Summary", "success")
	bm.RecordOperation(ctx, "deidentify", UnknownDocumentType, "success")

	bm.RecordDuration(ctx, "deidentify", "Lab Report", 50*time.Millisecond, "success")
	bm.RecordDuration(ctx, "deidentify", "Lab Report", 60*time.Millisecond, "success")
	bm.RecordDuration(ctx, "deidentify", "Lab Report", 100*time.Millisecond, "error")
	bm.RecordDuration(ctx, "reidentify", "Discharge Summary", 20*time.Millisecond, "success")

	output := scrape(t, provider)

	assertBizMetricLine(t, output, `integration_test_operations_total`,
		`document_type="Lab Report".*operation="deidentify".*status="success"`, `2`)
	assertBizMetricLine(t, output, `integration_test_operations_total`,
		`document_type="Lab Report".*operation="deidentify".*status="error"`, `1`)
	assertBizMetricLine(t, output, `integration_test_operations_total`,
		`document_type="unknown".*operation="deidentify".*status="success"`, `1`)

	assertBizMetricLine(t, output, `integration_test_operation_duration_seconds_count`,
		`document_type="Lab Report".*operation="deidentify".*status="success"`, `2`)
	assertBizMetricLine(t, output, `integration_test_operation_duration_seconds_sum`,
		`document_type="Discharge Summary".*operation="reidentify".*status="success"`, ``)
}
