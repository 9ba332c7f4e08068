package transcribe

const (
	// MaxUploadBytes is the transcription endpoint's payload ceiling (25 MiB).
	MaxUploadBytes = 25 * 1024 * 1024

	MinBitRate     = 16000
	MaxBitRate     = 64000
	DefaultBitRate = MaxBitRate

	targetSizeBits = 24 * 1024 * 1024 * 8
	safetyMargin   = 0.9
)

// TargetBitRate sizes the MP3 bitrate so durationSeconds of audio lands under
// 24 MiB with a 10% margin, clamped to [MinBitRate, MaxBitRate]. Unknown or
// non-positive durations use DefaultBitRate.
func TargetBitRate(durationSeconds float64) int {
	if durationSeconds <= 0 {
		return DefaultBitRate
	}
	rate := int(targetSizeBits / durationSeconds * safetyMargin)
	return max(MinBitRate, min(MaxBitRate, rate))
}
