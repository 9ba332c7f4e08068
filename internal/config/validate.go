package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/text/language"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateOpenAI(); err != nil {
		return err
	}
	if err := c.validateTranscription(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		return errors.New("paths.data_dir must be set")
	}
	if strings.TrimSpace(c.Paths.StaticDir) == "" {
		return errors.New("paths.static_dir must be set")
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.MaxBodyMiB <= 0 {
		return errors.New("server.max_body_mib must be positive")
	}
	return nil
}

func (c *Config) validateOpenAI() error {
	parsed, err := url.Parse(c.OpenAI.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("openai.base_url must be an absolute URL, got %q", c.OpenAI.BaseURL)
	}
	if c.OpenAI.ChatTimeoutSeconds <= 0 || c.OpenAI.FormatTimeoutSeconds <= 0 || c.OpenAI.TranscriptionTimeoutSeconds <= 0 {
		return errors.New("openai timeouts must be positive")
	}
	return nil
}

func (c *Config) validateTranscription() error {
	if _, err := language.Parse(c.Transcription.Language); err != nil {
		return fmt.Errorf("transcription.language %q is not a valid language tag: %w", c.Transcription.Language, err)
	}
	if c.Transcription.ProbeTimeoutSeconds <= 0 || c.Transcription.DurationTimeoutSeconds <= 0 || c.Transcription.ConvertTimeoutSeconds <= 0 {
		return errors.New("transcription timeouts must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
