package instrumentation

import (
	"context"
	"testing"
	"time"
)

func newTestProvider(t *testing.T, ctx context.Context) *Provider {
	t.Helper()

	provider, err := NewProvider(ctx, Config{
		ServiceName:     "test-service",
		ServiceVersion:  "1.0.0",
		Enabled:         true,
		MetricsExporter: "prometheus",
		TracingExporter: "none",
	})
	if err != nil {
		t.Fatalf("failed to create provider: %v", err)
	}
	t.Cleanup(func() { _ = provider.Shutdown(ctx) })
	return provider
}

func TestMetrics_RecordGmailOperation(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	metrics := newTestProvider(t, ctx).Metrics()
	if metrics == nil {
		t.Fatal("expected metrics to be non-nil")
	}

	// Should not panic
	metrics.RecordGmailOperation(ctx, OpGetProfile, StatusSuccess, 100*time.Millisecond)
	metrics.RecordGmailOperation(ctx, OpListMessages, StatusSuccess, 200*time.Millisecond)
	metrics.RecordGmailOperation(ctx, OpGetMessage, StatusError, 50*time.Millisecond)
}

func TestMetrics_RecordSummaryFetch(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	metrics := newTestProvider(t, ctx).Metrics()

	// Should not panic
	metrics.RecordSummaryFetch(ctx, StatusSuccess, 10, 500*time.Millisecond)
	metrics.RecordSummaryFetch(ctx, StatusSuccess, 0, 100*time.Millisecond)
	metrics.RecordSummaryFetch(ctx, StatusError, 0, 50*time.Millisecond)
}

func TestMetrics_RecordToolInvocation(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	metrics := newTestProvider(t, ctx).Metrics()

	// Should not panic
	metrics.RecordToolInvocation(ctx, "gmail_fetch_summary", StatusSuccess, 300*time.Millisecond)
	metrics.RecordToolInvocation(ctx, "gmail_fetch_summary", StatusError, 30*time.Millisecond)
}

func TestMetrics_NoOpWhenUninitialized(t *testing.T) {
	ctx := context.Background()
	m := &Metrics{}

	// All recorders must be safe on a zero-value Metrics
	m.RecordGmailOperation(ctx, OpListLabels, StatusSuccess, time.Millisecond)
	m.RecordSummaryFetch(ctx, StatusSuccess, 3, time.Millisecond)
	m.RecordToolInvocation(ctx, "gmail_fetch_summary", StatusSuccess, time.Millisecond)
}
