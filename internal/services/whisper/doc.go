// Package whisper submits audio files to an OpenAI-compatible speech-to-text
// endpoint through github.com/sashabaranov/go-openai.
//
// Provider error objects come back as *ProviderError with the provider's HTTP
// status; everything else (network, timeout, undecodable body) is a
// *TransportError. Calls are never retried.
package whisper
