// Package logging builds slog loggers with the console and JSON handlers
// used across lathe.
package logging
