// Package llm provides an OpenAI-compatible chat completion client.
//
// This package is used by:
//   - Task plan generation, which relays the provider body verbatim (Raw)
//   - Meeting summaries and transcript formatting, which need the first
//     choice's text (Complete)
//   - The status command's reachability probe (HealthCheck)
//
// # Errors
//
// Non-2xx replies surface as *StatusError carrying the provider status and
// body. Connection, timeout, and read failures surface as *TransportError.
// A missing key fails with ErrMissingAPIKey before any request is made.
//
// # Retry Behaviour
//
// None. Each call issues exactly one HTTP request bounded by the per-request
// timeout in ChatRequest or the client default.
package llm
