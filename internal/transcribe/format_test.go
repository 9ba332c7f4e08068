package transcribe

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		mediaType string
		filename  string
		want      Format
	}{
		{"video/quicktime", "clip.mp4", Format{".mov", true}},
		{"audio/mp3", "", Format{".mp3", false}},
		{"video/mp4", "x.mov", Format{".mp4", false}},
		{"audio/mpeg", "", Format{".mp3", false}},
		{"audio/wav", "", Format{".wav", false}},
		{"audio/x-m4a", "", Format{".m4a", false}},
		{"audio/ogg", "", Format{".ogg", false}},
		{"audio/flac", "", Format{".flac", false}},
		{"audio/webm;codecs=opus", "", Format{".webm", false}},
		{"AUDIO/MPEG", "", Format{".mp3", false}},
		{"application/octet-stream", "talk.MKV", Format{".mkv", true}},
		{"", "lecture.avi", Format{".avi", true}},
		{"", "memo.oga", Format{".oga", false}},
		{"", "memo.mpga", Format{".mpga", false}},
		{"", "notes.txt", Format{".webm", false}},
		{"", "", Format{".webm", false}},
	}
	for _, tc := range tests {
		if got := Classify(tc.mediaType, tc.filename); got != tc.want {
			t.Errorf("Classify(%q, %q) = %+v, want %+v", tc.mediaType, tc.filename, got, tc.want)
		}
	}
}

func TestVideoCapable(t *testing.T) {
	for _, ext := range []string{".mov", ".mp4", ".webm", ".mkv", ".avi"} {
		if !(Format{Ext: ext}).VideoCapable() {
			t.Errorf("%s should be probed for audio", ext)
		}
	}
	for _, ext := range []string{".mp3", ".wav", ".m4a", ".ogg", ".flac"} {
		if (Format{Ext: ext}).VideoCapable() {
			t.Errorf("%s should not be probed", ext)
		}
	}
}

func TestTargetBitRate(t *testing.T) {
	tests := []struct {
		duration float64
		want     int
	}{
		// 24 MiB * 8 / 3600 * 0.9 = 50331.6
		{3600, 50331},
		{14400, MinBitRate},
		{60, MaxBitRate},
		{0, DefaultBitRate},
		{-5, DefaultBitRate},
		// 24 MiB * 8 / 5000 * 0.9 = 36238.9
		{5000, 36238},
	}
	for _, tc := range tests {
		if got := TargetBitRate(tc.duration); got != tc.want {
			t.Errorf("TargetBitRate(%v) = %d, want %d", tc.duration, got, tc.want)
		}
	}
}
