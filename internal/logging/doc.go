// Package logging wraps log/slog with marquee's output conventions.
//
// Two formats are supported: a human-oriented console format (colorized when
// the writer is a terminal) and JSON for machine consumption. Loggers are
// constructed once at startup from configuration and passed down explicitly;
// components tag themselves via WithComponent.
package logging
