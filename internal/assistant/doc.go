// Package assistant implements the AI endpoints: task plan generation,
// meeting summaries, and transcript formatting.
//
// Prompts are Japanese and fixed; request parameters are interpolated into
// them. Generate relays the provider's response body unchanged. Provider
// HTTP failures keep the provider status so the handler can relay it.
package assistant
