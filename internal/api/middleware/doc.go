// Package middleware provides gin middleware for the HTTP surface: CORS
// for the desktop front end, per-IP rate limiting, and request id tagging.
package middleware
