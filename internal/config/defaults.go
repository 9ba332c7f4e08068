package config

const (
	defaultDataDir                     = "./data"
	defaultStaticDir                   = "."
	defaultPort                        = 8009
	defaultMaxBodyMiB                  = 512
	defaultOpenAIBaseURL               = "https://api.openai.com/v1"
	defaultChatModel                   = "gpt-4o-mini"
	defaultTranscriptionModel          = "whisper-1"
	defaultChatTimeoutSeconds          = 60
	defaultFormatTimeoutSeconds        = 180
	defaultTranscriptionTimeoutSeconds = 300
	defaultLanguage                    = "ja"
	defaultFFmpegBinary                = "ffmpeg"
	defaultFFprobeBinary               = "ffprobe"
	defaultProbeTimeoutSeconds         = 30
	defaultDurationTimeoutSeconds      = 60
	defaultConvertTimeoutSeconds       = 300
	defaultLogFormat                   = "console"
	defaultLogLevel                    = "info"
	defaultLogRetentionDays            = 30

	// APIKeyPlaceholder is the value shipped in .env templates.
	APIKeyPlaceholder = "your-api-key-here"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:   defaultDataDir,
			StaticDir: defaultStaticDir,
		},
		Server: Server{
			Port:       defaultPort,
			MaxBodyMiB: defaultMaxBodyMiB,
		},
		OpenAI: OpenAI{
			BaseURL:                     defaultOpenAIBaseURL,
			ChatModel:                   defaultChatModel,
			TranscriptionModel:          defaultTranscriptionModel,
			ChatTimeoutSeconds:          defaultChatTimeoutSeconds,
			FormatTimeoutSeconds:        defaultFormatTimeoutSeconds,
			TranscriptionTimeoutSeconds: defaultTranscriptionTimeoutSeconds,
		},
		Transcription: Transcription{
			Language:               defaultLanguage,
			FFmpegBinary:           defaultFFmpegBinary,
			FFprobeBinary:          defaultFFprobeBinary,
			ProbeTimeoutSeconds:    defaultProbeTimeoutSeconds,
			DurationTimeoutSeconds: defaultDurationTimeoutSeconds,
			ConvertTimeoutSeconds:  defaultConvertTimeoutSeconds,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
