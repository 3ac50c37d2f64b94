// Package http provides the gin handlers for the backend's REST surface.
//
// Endpoints:
//   - Health: / and /health
//   - Services: /services, /services/discover, /services/execute
//   - Sessions: /sessions, /sessions/:id
//   - Metrics: /metrics
//
// Streaming output never goes over these endpoints; the ws package carries
// it. The session endpoints are thin wrappers over the terminal controller
// so the front end can manage tabs without composing tool calls.
package http
