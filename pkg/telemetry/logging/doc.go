// Package logging configures structured logging for the sentra service.
//
// It is a thin layer over log/slog: parsing the configured level and format,
// selecting the handler, and producing component loggers. All packages take
// a *slog.Logger and fall back to slog.Default when given nil, so this
// package is only consulted at process startup.
package logging
