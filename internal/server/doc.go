// Package server assembles the backend: configuration, logging, metrics,
// the event bus, the terminal controller, the provider registry, and the
// HTTP and WebSocket transports.
//
// Server Lifecycle:
//  1. Load configuration from environment
//  2. Initialize logger and metrics
//  3. Build the event bus and terminal controller
//  4. Register the terminal and filesystem providers
//  5. Set up routes and middleware
//  6. Serve HTTP until a shutdown signal
//  7. Drain: stop the listener, kill live sessions, flush exit events
package server
