// Package transcribe implements the audio ingestion pipeline behind
// POST /api/transcribe and the transcribe CLI command.
//
// A run classifies the upload by media type and filename, rejects
// video-only containers, transcodes to mono MP3 when the format is not
// accepted by the transcription endpoint or the payload exceeds 25 MiB, and
// submits the result. Transcoding sizes its bitrate from the probed
// duration and retries once at the minimum bitrate when the first output is
// still too large.
//
// The audio stream probe fails open: when ffprobe cannot answer, the upload
// is treated as carrying audio and a warning is logged.
package transcribe
