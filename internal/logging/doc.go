// Package logging wraps log/slog with typed attribute helpers and the
// standardized field keys used across curator components.
package logging
