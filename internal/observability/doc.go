// Package observability wires logging, metrics and tracing for the catalog service.
//
// Logs go through zap. Metrics are collected in a dedicated prometheus registry
// exposed on /metrics. Traces use the OpenTelemetry SDK and are exported over
// OTLP/gRPC when an endpoint is configured.
package observability
