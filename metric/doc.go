// Package metric provides Prometheus metrics registration and serving.
//
// MetricsRegistry wraps a dedicated prometheus.Registry with namespaced
// registration so components can own their metric families without
// colliding. Core platform metrics (message counts, processing durations,
// NATS connection state) are registered automatically; components add their
// own collectors via the RegisterXxx methods.
//
// Server exposes the registry over HTTP at /metrics alongside a /health
// endpoint.
package metric
