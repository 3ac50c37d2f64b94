// Package monitoring provides Prometheus metrics for the backend: HTTP
// request counters, terminal session lifecycle gauges, event bus throughput,
// and WebSocket connection tracking.
package monitoring
