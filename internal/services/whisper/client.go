package whisper

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

const (
	defaultTimeout  = 300 * time.Second
	defaultLanguage = "ja"
)

// ErrMissingAPIKey is returned before any upload when no key is configured.
var ErrMissingAPIKey = errors.New("whisper: api key required")

// Config captures the speech-to-text endpoint settings.
type Config struct {
	APIKey         string
	BaseURL        string
	Model          string
	Language       string
	// Timeout bounds one upload; zero uses 300 seconds.
	Timeout time.Duration
}

// Client submits audio files to an OpenAI-compatible transcription endpoint.
type Client struct {
	api      *openai.Client
	apiKey   string
	model    string
	language string
	timeout  time.Duration
}

// Option customizes the client.
type Option func(*settings)

type settings struct {
	httpClient *http.Client
}

// WithHTTPClient overrides the HTTP client used for uploads.
func WithHTTPClient(client *http.Client) Option {
	return func(s *settings) {
		if client != nil {
			s.httpClient = client
		}
	}
}

// NewClient constructs a transcription client.
func NewClient(cfg Config, opts ...Option) *Client {
	var s settings
	for _, opt := range opts {
		opt(&s)
	}

	key := strings.TrimSpace(cfg.APIKey)
	clientConfig := openai.DefaultConfig(key)
	if base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"); base != "" {
		clientConfig.BaseURL = base
	}
	if s.httpClient != nil {
		clientConfig.HTTPClient = s.httpClient
	} else {
		clientConfig.HTTPClient = &http.Client{}
	}

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = openai.Whisper1
	}
	language := strings.TrimSpace(cfg.Language)
	if language == "" {
		language = defaultLanguage
	}
	timeout := defaultTimeout
	if cfg.Timeout > 0 {
		timeout = cfg.Timeout
	}

	return &Client{
		api:      openai.NewClientWithConfig(clientConfig),
		apiKey:   key,
		model:    model,
		language: language,
		timeout:  timeout,
	}
}

// ProviderError is an error object returned by the transcription endpoint.
type ProviderError struct {
	StatusCode int
	Message    string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("whisper: provider error (http %d): %s", e.StatusCode, e.Message)
}

// HTTPStatus exposes the provider status for response mapping.
func (e *ProviderError) HTTPStatus() int {
	return e.StatusCode
}

// TransportError reports a failure to reach the endpoint or decode its reply.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("whisper: transport failure: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Transcribe uploads the file at path and returns the recognized text. Exactly
// one request is made.
func (c *Client) Transcribe(ctx context.Context, path string) (string, error) {
	if c.apiKey == "" {
		return "", ErrMissingAPIKey
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.api.CreateTranscription(ctx, openai.AudioRequest{
		Model:    c.model,
		FilePath: path,
		Language: c.language,
		Format:   openai.AudioResponseFormatJSON,
	})
	if err != nil {
		return "", classify(err)
	}
	return resp.Text, nil
}

func classify(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		status := apiErr.HTTPStatusCode
		if status == 0 {
			status = http.StatusBadGateway
		}
		return &ProviderError{StatusCode: status, Message: strings.TrimSpace(apiErr.Message)}
	}
	return &TransportError{Err: err}
}
