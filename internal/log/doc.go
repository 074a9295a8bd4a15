// Package log provides a redacting slog handler for hintscan.
// Debug logs routinely carry full configuration dumps and engine errors;
// the handler masks credential-shaped attribute values so those logs can
// be attached to bug reports without leaking secrets.
package log
