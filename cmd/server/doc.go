// Package main is the entry point for the tabshell backend.
//
// The backend serves the desktop workspace shell: a REST surface for the
// folder browser and editor, and a WebSocket stream for terminal tabs.
//
// Configuration comes from environment variables (12-factor), with CLI
// flags overriding the port and log mode.
//
// Usage:
//
//	./server -port 7420
//	./server -dev
//
// Signals:
//   - SIGINT, SIGTERM: graceful shutdown
package main
