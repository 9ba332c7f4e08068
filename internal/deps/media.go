package deps

// MediaRequirements lists the binaries the transcription pipeline uses. Both
// are optional: without ffprobe audio checks fail open and bitrate falls back
// to its ceiling; without ffmpeg only native formats under the upload limit
// are accepted.
func MediaRequirements(ffmpegBinary, ffprobeBinary string) []Requirement {
	return []Requirement{
		{
			Name:        "FFmpeg",
			Command:     ffmpegBinary,
			Description: "Transcodes unsupported or oversized uploads to mono MP3",
			Optional:    true,
		},
		{
			Name:        "FFprobe",
			Command:     ffprobeBinary,
			Description: "Detects audio streams and measures duration",
			Optional:    true,
		},
	}
}
