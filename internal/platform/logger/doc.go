// Package logger configures the process-wide slog logger and carries
// request-scoped loggers through context. Handlers and services pull the
// contextual logger back out so every line emitted for a request shares
// its trace ID.
package logger
