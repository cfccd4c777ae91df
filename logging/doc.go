// Package logging defines the Logger interface used across the assistant plus
// slog-backed implementations. Components accept any Logger; NoOpLogger keeps
// tests and minimal setups quiet.
package logging
