package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"taskcenter/internal/deps"
	"taskcenter/internal/textutil"
)

const (
	defaultBinary  = "ffmpeg"
	defaultTimeout = 300 * time.Second
	stderrTailSize = 300
)

// ErrNoAudioStream reports that the input carried nothing ffmpeg could map to audio.
var ErrNoAudioStream = errors.New("ffmpeg: input has no audio stream")

var noStreamMarkers = []string{
	"does not contain any stream",
	"Output file #0 does not contain",
}

// CommandRunner executes name with args and returns captured stderr.
type CommandRunner func(ctx context.Context, name string, args ...string) (stderr []byte, err error)

// ConversionError carries the tail of ffmpeg's stderr for a failed run.
type ConversionError struct {
	Err    error
	Stderr string
}

func (e *ConversionError) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("ffmpeg: %v", e.Err)
	}
	return fmt.Sprintf("ffmpeg: %v: %s", e.Err, e.Stderr)
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

// Transcoder produces speech-oriented MP3 files.
type Transcoder struct {
	binary  string
	timeout time.Duration
	run     CommandRunner
}

// New returns a Transcoder for binary. A zero timeout selects 300s.
func New(binary string, timeout time.Duration) *Transcoder {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = defaultBinary
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Transcoder{binary: binary, timeout: timeout, run: runCommand}
}

// WithCommandRunner sets a custom command runner (for testing).
func (t *Transcoder) WithCommandRunner(run CommandRunner) *Transcoder {
	if run != nil {
		t.run = run
	}
	return t
}

// Binary returns the ffmpeg executable in use.
func (t *Transcoder) Binary() string {
	return t.binary
}

// Available reports whether the ffmpeg binary resolves on PATH.
func (t *Transcoder) Available() bool {
	return deps.Available(t.binary)
}

// Args builds the ffmpeg argument list for a mono 16 kHz MP3 at bitRate bits per second.
func Args(input, output string, bitRate int) []string {
	return []string{
		"-y",
		"-i", input,
		"-vn",
		"-ar", "16000",
		"-ac", "1",
		"-b:a", strconv.Itoa(bitRate/1000) + "k",
		"-f", "mp3",
		output,
	}
}

// ToMP3 transcodes input into output at bitRate. Inputs without an audio
// stream fail with ErrNoAudioStream; other failures return *ConversionError.
func (t *Transcoder) ToMP3(ctx context.Context, input, output string, bitRate int) error {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	stderr, err := t.run(ctx, t.binary, Args(input, output, bitRate)...)
	if err == nil {
		return nil
	}
	text := string(stderr)
	for _, marker := range noStreamMarkers {
		if strings.Contains(text, marker) {
			return fmt.Errorf("%w: %v", ErrNoAudioStream, err)
		}
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		err = ctxErr
	}
	return &ConversionError{Err: err, Stderr: strings.TrimSpace(textutil.Tail(text, stderrTailSize))}
}

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stderr.Bytes(), err
}
