// Package prometheus provides Prometheus collectors for sentry metrics.
//
// [NewPrometheusExporter] accepts a [sentry.Authenticator] and exposes an [http.Handler]
// that renders all sentry counters and histograms in Prometheus text exposition format.
// Counter names are prefixed sentry_*_total; the single histogram is
// sentry_login_latency_seconds.
//
// # What this package must NOT do
//
//   - Register metrics in a global Prometheus registry; callers mount the Handler.
//   - Mutate authenticator state.
package prometheus
