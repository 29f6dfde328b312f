// Package logging configures the process-wide structured logger. Output
// format and minimum level come from the telemetry section of the
// configuration; handlers are the standard slog JSON and text handlers.
package logging
