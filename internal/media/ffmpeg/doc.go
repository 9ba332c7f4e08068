// Package ffmpeg converts uploaded media into mono 16 kHz MP3 suitable for
// speech transcription. Commands run through a CommandRunner so tests can
// replay canned stderr.
package ffmpeg
