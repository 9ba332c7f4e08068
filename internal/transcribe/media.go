package transcribe

import (
	"context"

	"taskcenter/internal/config"
	"taskcenter/internal/media/ffmpeg"
	"taskcenter/internal/media/ffprobe"
)

// ExecMedia runs the ffprobe and ffmpeg binaries on the host.
type ExecMedia struct {
	Prober     *ffprobe.Prober
	Transcoder *ffmpeg.Transcoder
}

// NewExecMedia builds the host media tool from the transcription settings.
func NewExecMedia(cfg *config.Config) *ExecMedia {
	return &ExecMedia{
		Prober:     ffprobe.New(cfg.FFprobeBinary(), cfg.ProbeTimeout(), cfg.DurationTimeout()),
		Transcoder: ffmpeg.New(cfg.FFmpegBinary(), cfg.ConvertTimeout()),
	}
}

func (m *ExecMedia) HasAudioStream(ctx context.Context, path string) (bool, error) {
	return m.Prober.HasAudioStream(ctx, path)
}

func (m *ExecMedia) Duration(ctx context.Context, path string) (float64, error) {
	return m.Prober.Duration(ctx, path)
}

func (m *ExecMedia) ToMP3(ctx context.Context, input, output string, bitRate int) error {
	return m.Transcoder.ToMP3(ctx, input, output, bitRate)
}

func (m *ExecMedia) Available() bool {
	return m.Transcoder.Available()
}
