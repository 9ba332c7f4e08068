package textutil

import "testing"

func TestSanitizeFileName(t *testing.T) {
	cases := map[string]string{
		"voice memo.m4a":         "voice memo.m4a",
		"../../etc/passwd":       "passwd",
		`C:\Users\me\rec?.webm`:  "rec.webm",
		"  meeting:notes.mp3  ":  "meeting-notes.mp3",
		"":                       "",
		"..":                     "",
	}
	for in, want := range cases {
		if got := SanitizeFileName(in); got != want {
			t.Errorf("SanitizeFileName(%q) = %q, want %q", in, got, want)
		}
	}
}
