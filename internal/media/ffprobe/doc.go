// Package ffprobe wraps the ffprobe queries the audio pipeline needs.
//
// Primary entry points:
//   - Prober.HasAudioStream: lists audio streams (csv output) to reject
//     silent video uploads before transcoding
//   - Prober.Duration: container duration used to size the target bitrate
//   - Prober.Inspect: full JSON stream/format dump for the CLI
//
// Commands run through a CommandRunner so tests can substitute canned output.
package ffprobe
