// Package services defines shared utilities consumed by the HTTP handlers and
// external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp request IDs and route names for logging.
//   - Structured error markers plus the Wrap helper that translate failures
//     into consistent HTTP statuses and client-facing messages.
//
// Subpackages hold the provider clients (chat completions, transcription).
package services
