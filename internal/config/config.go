package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains the directories the server reads from and writes to.
type Paths struct {
	DataDir   string `toml:"data_dir"`
	StaticDir string `toml:"static_dir"`
	TempDir   string `toml:"temp_dir"`
	LogDir    string `toml:"log_dir"`
}

// Server contains listener settings.
type Server struct {
	Host       string `toml:"host"`
	Port       int    `toml:"port"`
	MaxBodyMiB int    `toml:"max_body_mib"`
}

// OpenAI contains provider connection settings shared by the chat and
// transcription clients.
type OpenAI struct {
	APIKey                      string `toml:"api_key"`
	BaseURL                     string `toml:"base_url"`
	ChatModel                   string `toml:"chat_model"`
	TranscriptionModel          string `toml:"transcription_model"`
	ChatTimeoutSeconds          int    `toml:"chat_timeout_seconds"`
	FormatTimeoutSeconds        int    `toml:"format_timeout_seconds"`
	TranscriptionTimeoutSeconds int    `toml:"transcription_timeout_seconds"`
}

// Transcription contains settings for the audio ingestion pipeline.
type Transcription struct {
	Language               string `toml:"language"`
	FFmpegBinary           string `toml:"ffmpeg_binary"`
	FFprobeBinary          string `toml:"ffprobe_binary"`
	ProbeTimeoutSeconds    int    `toml:"probe_timeout_seconds"`
	DurationTimeoutSeconds int    `toml:"duration_timeout_seconds"`
	ConvertTimeoutSeconds  int    `toml:"convert_timeout_seconds"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format        string `toml:"format"`
	Level         string `toml:"level"`
	RetentionDays int    `toml:"retention_days"`
}

// Config encapsulates all configuration values for taskcenter.
//
// Configuration sections by subsystem:
//   - Paths: data, static, temp, and log directories
//   - Server: bind host, port, and request body ceiling
//   - OpenAI: API key, endpoint, models, and per-call timeouts
//   - Transcription: language and ffmpeg/ffprobe settings
//   - Logging: log format, level, and retention
type Config struct {
	Paths         Paths         `toml:"paths"`
	Server        Server        `toml:"server"`
	OpenAI        OpenAI        `toml:"openai"`
	Transcription Transcription `toml:"transcription"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/taskcenter/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("taskcenter.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories the server writes into.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.TempDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// MaxBodyBytes returns the request body ceiling in bytes.
func (c *Config) MaxBodyBytes() int64 {
	return int64(c.Server.MaxBodyMiB) << 20
}

// HasAPIKey reports whether a usable provider key is configured. The
// placeholder shipped in .env templates does not count.
func (c *Config) HasAPIKey() bool {
	key := strings.TrimSpace(c.OpenAI.APIKey)
	return key != "" && key != APIKeyPlaceholder
}

// APIKeyHint returns the last four characters of the key for boot logs.
func (c *Config) APIKeyHint() string {
	if !c.HasAPIKey() {
		return ""
	}
	key := strings.TrimSpace(c.OpenAI.APIKey)
	if len(key) <= 4 {
		return "..." + key
	}
	return "..." + key[len(key)-4:]
}

// ChatTimeout returns the timeout for a single chat completion request.
func (c *Config) ChatTimeout() time.Duration {
	return time.Duration(c.OpenAI.ChatTimeoutSeconds) * time.Second
}

// FormatTimeout returns the timeout for a single transcript formatting chunk.
func (c *Config) FormatTimeout() time.Duration {
	return time.Duration(c.OpenAI.FormatTimeoutSeconds) * time.Second
}

// TranscriptionTimeout returns the timeout for the speech-to-text upload.
func (c *Config) TranscriptionTimeout() time.Duration {
	return time.Duration(c.OpenAI.TranscriptionTimeoutSeconds) * time.Second
}

// ProbeTimeout bounds the ffprobe audio stream listing.
func (c *Config) ProbeTimeout() time.Duration {
	return time.Duration(c.Transcription.ProbeTimeoutSeconds) * time.Second
}

// DurationTimeout bounds the ffprobe duration query.
func (c *Config) DurationTimeout() time.Duration {
	return time.Duration(c.Transcription.DurationTimeoutSeconds) * time.Second
}

// ConvertTimeout bounds a single ffmpeg transcode.
func (c *Config) ConvertTimeout() time.Duration {
	return time.Duration(c.Transcription.ConvertTimeoutSeconds) * time.Second
}

// FFmpegBinary returns the ffmpeg executable name used for transcoding.
func (c *Config) FFmpegBinary() string {
	if bin := strings.TrimSpace(c.Transcription.FFmpegBinary); bin != "" {
		return bin
	}
	return defaultFFmpegBinary
}

// FFprobeBinary returns the ffprobe executable name used for stream inspection.
func (c *Config) FFprobeBinary() string {
	if bin := strings.TrimSpace(c.Transcription.FFprobeBinary); bin != "" {
		return bin
	}
	return defaultFFprobeBinary
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
