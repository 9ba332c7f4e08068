package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeServer(); err != nil {
		return err
	}
	c.normalizeOpenAI()
	c.normalizeTranscription()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.StaticDir) == "" {
		c.Paths.StaticDir = defaultStaticDir
	}
	if c.Paths.StaticDir, err = expandPath(c.Paths.StaticDir); err != nil {
		return fmt.Errorf("paths.static_dir: %w", err)
	}
	if c.Paths.TempDir, err = expandPath(strings.TrimSpace(c.Paths.TempDir)); err != nil {
		return fmt.Errorf("paths.temp_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeServer() error {
	c.Server.Host = strings.TrimSpace(c.Server.Host)
	if value, ok := os.LookupEnv("TASK_DASHBOARD_PORT"); ok && strings.TrimSpace(value) != "" {
		port, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("TASK_DASHBOARD_PORT: invalid port %q", value)
		}
		c.Server.Port = port
	}
	if c.Server.Port == 0 {
		c.Server.Port = defaultPort
	}
	if c.Server.MaxBodyMiB <= 0 {
		c.Server.MaxBodyMiB = defaultMaxBodyMiB
	}
	return nil
}

func (c *Config) normalizeOpenAI() {
	if value, ok := os.LookupEnv("OPENAI_API_KEY"); ok && strings.TrimSpace(value) != "" {
		c.OpenAI.APIKey = value
	}
	c.OpenAI.APIKey = strings.TrimSpace(c.OpenAI.APIKey)
	c.OpenAI.BaseURL = strings.TrimRight(strings.TrimSpace(c.OpenAI.BaseURL), "/")
	if c.OpenAI.BaseURL == "" {
		c.OpenAI.BaseURL = defaultOpenAIBaseURL
	}
	c.OpenAI.ChatModel = strings.TrimSpace(c.OpenAI.ChatModel)
	if c.OpenAI.ChatModel == "" {
		c.OpenAI.ChatModel = defaultChatModel
	}
	c.OpenAI.TranscriptionModel = strings.TrimSpace(c.OpenAI.TranscriptionModel)
	if c.OpenAI.TranscriptionModel == "" {
		c.OpenAI.TranscriptionModel = defaultTranscriptionModel
	}
	if c.OpenAI.ChatTimeoutSeconds <= 0 {
		c.OpenAI.ChatTimeoutSeconds = defaultChatTimeoutSeconds
	}
	if c.OpenAI.FormatTimeoutSeconds <= 0 {
		c.OpenAI.FormatTimeoutSeconds = defaultFormatTimeoutSeconds
	}
	if c.OpenAI.TranscriptionTimeoutSeconds <= 0 {
		c.OpenAI.TranscriptionTimeoutSeconds = defaultTranscriptionTimeoutSeconds
	}
}

func (c *Config) normalizeTranscription() {
	c.Transcription.Language = strings.TrimSpace(c.Transcription.Language)
	if c.Transcription.Language == "" {
		c.Transcription.Language = defaultLanguage
	}
	c.Transcription.FFmpegBinary = strings.TrimSpace(c.Transcription.FFmpegBinary)
	c.Transcription.FFprobeBinary = strings.TrimSpace(c.Transcription.FFprobeBinary)
	if c.Transcription.ProbeTimeoutSeconds <= 0 {
		c.Transcription.ProbeTimeoutSeconds = defaultProbeTimeoutSeconds
	}
	if c.Transcription.DurationTimeoutSeconds <= 0 {
		c.Transcription.DurationTimeoutSeconds = defaultDurationTimeoutSeconds
	}
	if c.Transcription.ConvertTimeoutSeconds <= 0 {
		c.Transcription.ConvertTimeoutSeconds = defaultConvertTimeoutSeconds
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.RetentionDays < 0 {
		c.Logging.RetentionDays = 0
	}
}
