// Package otel provides OpenTelemetry metric exporter bindings for sentry counters and
// histograms.
//
// [NewOTelExporter] registers Int64ObservableCounter instruments for each sentry metric
// and Int64ObservableGauge per histogram bucket. A single callback reads
// [sentry.Authenticator.MetricsSnapshot] on each collection cycle.
//
// # What this package must NOT do
//
//   - Own the OTel MeterProvider; callers supply the Meter.
//   - Mutate authenticator state.
package otel
