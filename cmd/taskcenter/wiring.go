package main

import (
	"fmt"
	"log/slog"

	"taskcenter/internal/assistant"
	"taskcenter/internal/config"
	"taskcenter/internal/logging"
	"taskcenter/internal/services/llm"
	"taskcenter/internal/services/whisper"
	"taskcenter/internal/store"
	"taskcenter/internal/transcribe"
)

// components holds the collaborators shared by serve and the offline commands.
type components struct {
	store     *store.Store
	chat      *llm.Client
	assistant *assistant.Service
	media     *transcribe.ExecMedia
	pipeline  *transcribe.Pipeline
}

func llmConfig(cfg *config.Config) llm.Config {
	return llm.Config{
		APIKey:         apiKey(cfg),
		BaseURL:        cfg.OpenAI.BaseURL,
		Model:          cfg.OpenAI.ChatModel,
		TimeoutSeconds: cfg.OpenAI.ChatTimeoutSeconds,
	}
}

// apiKey hides the .env placeholder from the provider clients so they fail
// with a missing key instead of a 401.
func apiKey(cfg *config.Config) string {
	if !cfg.HasAPIKey() {
		return ""
	}
	return cfg.OpenAI.APIKey
}

func buildComponents(cfg *config.Config, logger *slog.Logger) (*components, error) {
	docs, err := store.Open(cfg.Paths.DataDir, logger)
	if err != nil {
		return nil, err
	}

	chat := llm.NewClient(llmConfig(cfg))
	stt := whisper.NewClient(whisper.Config{
		APIKey:         apiKey(cfg),
		BaseURL:        cfg.OpenAI.BaseURL,
		Model:          cfg.OpenAI.TranscriptionModel,
		Language:       cfg.Transcription.Language,
		Timeout:        cfg.TranscriptionTimeout(),
	})
	media := transcribe.NewExecMedia(cfg)

	return &components{
		store: docs,
		chat:  chat,
		assistant: assistant.New(chat, assistant.Options{
			KeyConfigured: cfg.HasAPIKey(),
			ChatTimeout:   cfg.ChatTimeout(),
			FormatTimeout: cfg.FormatTimeout(),
			Logger:        logger,
		}),
		media:    media,
		pipeline: transcribe.NewPipeline(media, stt, cfg.Paths.TempDir, logger),
	}, nil
}

// cliLogger logs to stderr so command output on stdout stays clean.
func cliLogger(cfg *config.Config) (*slog.Logger, error) {
	logger, err := logging.New(logging.Options{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		OutputPaths: []string{"stderr"},
	})
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return logger, nil
}
