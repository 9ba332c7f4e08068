package transcribe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"taskcenter/internal/fileutil"
	"taskcenter/internal/logging"
	"taskcenter/internal/media/ffmpeg"
	"taskcenter/internal/services"
	"taskcenter/internal/services/whisper"
	"taskcenter/internal/textutil"
	"taskcenter/internal/upload"
)

const (
	msgNoAudioTrack  = "このファイルには音声トラックが含まれていません。音声付きで録画するか、音声ファイルをアップロードしてください。"
	msgUnsupported   = "この形式（%s）はWhisper APIに対応していません。ffmpegをインストールするか、対応形式（mp3, mp4, wav, webm等）に変換してください。"
	msgTooLargeNoFF  = "ファイルサイズが大きすぎます（%dMB > 25MB）。ffmpegをインストールするか、より短い音声ファイルを使用してください。"
	msgConvertFailed = "音声変換に失敗しました: %s"
	msgStillTooLarge = "変換後もファイルが大きすぎます（%dMB）。音声が長すぎます（最大約3時間まで）。より短い音声ファイルを使用してください。"
)

// MediaTool probes and transcodes local media files.
type MediaTool interface {
	HasAudioStream(ctx context.Context, path string) (bool, error)
	Duration(ctx context.Context, path string) (float64, error)
	ToMP3(ctx context.Context, input, output string, bitRate int) error
	Available() bool
}

// Transcriber turns an audio file into text.
type Transcriber interface {
	Transcribe(ctx context.Context, path string) (string, error)
}

// Result is the outcome of one pipeline run.
type Result struct {
	Text        string
	Format      Format
	Converted   bool
	BitRate     int
	UploadBytes int64
}

// Pipeline runs one upload through classification, the audio check,
// optional transcoding, and transcription. Every file it writes lives in a
// per-run directory removed before Run returns.
type Pipeline struct {
	media       MediaTool
	transcriber Transcriber
	tempDir     string
	logger      *slog.Logger
}

// NewPipeline wires the pipeline. An empty tempDir uses os.TempDir.
func NewPipeline(media MediaTool, transcriber Transcriber, tempDir string, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		media:       media,
		transcriber: transcriber,
		tempDir:     tempDir,
		logger:      logging.NewComponentLogger(logger, "transcribe"),
	}
}

// Run transcribes audio.
func (p *Pipeline) Run(ctx context.Context, audio upload.Audio) (Result, error) {
	if len(audio.Data) < upload.MinAudioBytes {
		return Result{}, services.Wrap(services.ErrValidation, "transcribe", "No valid audio file provided", nil)
	}
	logger := logging.WithContext(ctx, p.logger)

	format := Classify(audio.ContentType, audio.FileName)
	result := Result{Format: format}
	logger.Info("audio upload received",
		logging.String(logging.FieldEventType, "transcribe_upload"),
		logging.Int("bytes", len(audio.Data)),
		logging.String("filename", textutil.SanitizeFileName(audio.FileName)),
		logging.String("content_type", audio.ContentType),
		logging.String("ext", format.Ext),
		logging.Bool("needs_conversion", format.NeedsConversion),
	)

	workDir, err := os.MkdirTemp(p.tempDir, "taskcenter-transcribe-")
	if err != nil {
		return Result{}, services.Wrap(services.ErrExternalTool, "transcribe", "failed to create temporary directory", err)
	}
	defer func() {
		if err := os.RemoveAll(workDir); err != nil {
			logging.WarnWithContext(logger, "temporary directory cleanup failed", "transcribe_cleanup",
				logging.String("dir", workDir),
				logging.Error(err),
				logging.String(logging.FieldImpact, "temporary audio left on disk"),
			)
		}
	}()

	input := filepath.Join(workDir, "upload"+format.Ext)
	if err := os.WriteFile(input, audio.Data, 0o600); err != nil {
		return Result{}, services.Wrap(services.ErrExternalTool, "transcribe", "failed to write temporary file", err)
	}

	if format.VideoCapable() {
		hasAudio, err := p.media.HasAudioStream(ctx, input)
		if err != nil {
			logging.WarnWithContext(logger, "audio stream probe failed; assuming audio present", "audio_probe_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "ensure ffprobe is installed and on PATH"),
				logging.String(logging.FieldImpact, "upload forwarded without audio check"),
			)
			hasAudio = true
		}
		if !hasAudio {
			return Result{}, services.Wrap(services.ErrMedia, "transcribe", msgNoAudioTrack, nil)
		}
	}

	uploadPath := input
	size := int64(len(audio.Data))
	if format.NeedsConversion || size > MaxUploadBytes {
		converted, bitRate, err := p.convert(ctx, logger, input, workDir, format, size)
		if err != nil {
			return Result{}, err
		}
		uploadPath = converted
		result.Converted = true
		result.BitRate = bitRate
		if size, err = fileutil.FileSize(converted); err != nil {
			return Result{}, services.Wrap(services.ErrExternalTool, "transcribe", "converted file missing", err)
		}
	}
	result.UploadBytes = size

	text, err := p.transcriber.Transcribe(ctx, uploadPath)
	if err != nil {
		return Result{}, transcriptionError(err)
	}
	result.Text = text
	logger.Info("transcription complete",
		logging.String(logging.FieldEventType, "transcribe_complete"),
		logging.Int("chars", len([]rune(text))),
		logging.Int64("upload_bytes", size),
		logging.Bool("converted", result.Converted),
	)
	return result, nil
}

func (p *Pipeline) convert(ctx context.Context, logger *slog.Logger, input, workDir string, format Format, size int64) (string, int, error) {
	if !p.media.Available() {
		if format.NeedsConversion {
			return "", 0, services.Wrap(services.ErrMedia, "transcribe", fmt.Sprintf(msgUnsupported, format.Ext), nil)
		}
		return "", 0, services.Wrap(services.ErrMedia, "transcribe", fmt.Sprintf(msgTooLargeNoFF, size/1024/1024), nil)
	}

	bitRate := DefaultBitRate
	duration, err := p.media.Duration(ctx, input)
	if err != nil {
		logging.WarnWithContext(logger, "duration probe failed; using default bitrate", "duration_probe_failed",
			logging.Error(err),
			logging.Int("bitrate", bitRate),
		)
	} else {
		bitRate = TargetBitRate(duration)
		logger.Info("transcode bitrate selected",
			logging.Float64("duration_seconds", duration),
			logging.Int("bitrate", bitRate),
		)
	}

	output := filepath.Join(workDir, "converted.mp3")
	if err := p.media.ToMP3(ctx, input, output, bitRate); err != nil {
		return "", 0, conversionError(err)
	}
	converted, err := fileutil.FileSize(output)
	if err != nil {
		return "", 0, services.Wrap(services.ErrExternalTool, "transcribe", "converted file missing", err)
	}
	logger.Info("audio converted",
		logging.String(logging.FieldEventType, "transcode_complete"),
		logging.Int64("input_bytes", size),
		logging.Int64("output_bytes", converted),
		logging.Int("bitrate", bitRate),
	)

	if converted > MaxUploadBytes {
		logger.Warn("converted file still too large; retrying at minimum bitrate",
			logging.String(logging.FieldEventType, "transcode_retry"),
			logging.Int64("output_bytes", converted),
		)
		if err := p.media.ToMP3(ctx, input, output, MinBitRate); err != nil {
			logging.WarnWithContext(logger, "minimum bitrate retry failed", "transcode_retry_failed", logging.Error(err))
		} else {
			bitRate = MinBitRate
			if converted, err = fileutil.FileSize(output); err != nil {
				return "", 0, services.Wrap(services.ErrExternalTool, "transcribe", "converted file missing", err)
			}
		}
	}
	if converted > MaxUploadBytes {
		return "", 0, services.Wrap(services.ErrMedia, "transcribe", fmt.Sprintf(msgStillTooLarge, converted/1024/1024), nil)
	}
	return output, bitRate, nil
}

func conversionError(err error) error {
	if errors.Is(err, ffmpeg.ErrNoAudioStream) {
		return services.Wrap(services.ErrMedia, "transcribe", msgNoAudioTrack, err)
	}
	detail := err.Error()
	var convErr *ffmpeg.ConversionError
	if errors.As(err, &convErr) && convErr.Stderr != "" {
		detail = convErr.Stderr
	}
	return services.Wrap(services.ErrExternalTool, "transcribe", fmt.Sprintf(msgConvertFailed, detail), err)
}

func transcriptionError(err error) error {
	var providerErr *whisper.ProviderError
	switch {
	case errors.Is(err, whisper.ErrMissingAPIKey):
		return services.Wrap(services.ErrConfiguration, "transcribe", "OpenAI API Key is missing", err)
	case errors.As(err, &providerErr):
		return services.Wrap(services.ErrTransient, "transcribe", "Whisper API error: "+providerErr.Message, err)
	default:
		return services.Wrap(services.ErrTransient, "transcribe", "Whisper API call failed: "+err.Error(), err)
	}
}
