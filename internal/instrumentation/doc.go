// Package instrumentation provides OpenTelemetry-based observability for the
// gmailsummary module.
//
// It wires up metrics and distributed tracing behind a single Provider that is
// configured from the environment. Everything degrades gracefully: with
// instrumentation disabled the Metrics recorder becomes a no-op and Tracer
// returns a noop tracer, so calling code never needs nil checks.
//
// # Metrics
//
//   - gmail_api_operations_total / gmail_api_operation_duration_seconds:
//     per-call Gmail API outcomes, labeled by operation and status
//   - summary_fetches_total / summary_fetch_duration_seconds /
//     summary_messages_returned: end-to-end summary fetch outcomes
//   - mcp_tool_invocations_total / mcp_tool_duration_seconds: tool invocations
//
// # Configuration
//
// Configuration is read from environment variables by DefaultConfig:
//
//	INSTRUMENTATION_ENABLED      enable/disable everything (default: true)
//	METRICS_EXPORTER             prometheus, otlp, or stdout (default: prometheus)
//	TRACING_EXPORTER             otlp, stdout, or none (default: none)
//	OTEL_EXPORTER_OTLP_ENDPOINT  collector endpoint for OTLP exporters
//	OTEL_TRACES_SAMPLER_ARG      trace sampling rate (default: 0.1)
//
// # Usage
//
//	cfg := instrumentation.DefaultConfig()
//	provider, err := instrumentation.NewProvider(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer provider.Shutdown(ctx)
//
//	metrics := provider.Metrics()
//	metrics.RecordGmailOperation(ctx, instrumentation.OpGetProfile,
//	    instrumentation.StatusSuccess, elapsed)
package instrumentation
