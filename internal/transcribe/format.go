package transcribe

import (
	"path/filepath"
	"strings"
)

// Format is the container chosen for an upload.
type Format struct {
	Ext             string
	NeedsConversion bool
}

// VideoCapable reports whether the container may carry only video, in which
// case the upload is probed for an audio stream first.
func (f Format) VideoCapable() bool {
	switch f.Ext {
	case ".mov", ".mp4", ".webm", ".mkv", ".avi":
		return true
	}
	return false
}

const defaultExt = ".webm"

var mediaTypeRules = []struct {
	needles []string
	format  Format
}{
	{[]string{"quicktime", "mov"}, Format{Ext: ".mov", NeedsConversion: true}},
	{[]string{"mp3"}, Format{Ext: ".mp3"}},
	{[]string{"mp4"}, Format{Ext: ".mp4"}},
	{[]string{"mpeg"}, Format{Ext: ".mp3"}},
	{[]string{"wav"}, Format{Ext: ".wav"}},
	{[]string{"m4a"}, Format{Ext: ".m4a"}},
	{[]string{"ogg"}, Format{Ext: ".ogg"}},
	{[]string{"flac"}, Format{Ext: ".flac"}},
	{[]string{"webm"}, Format{Ext: ".webm"}},
}

var nativeExts = map[string]bool{
	".webm": true, ".mp3": true, ".mp4": true, ".wav": true, ".m4a": true,
	".ogg": true, ".flac": true, ".oga": true, ".mpga": true,
}

var convertExts = map[string]bool{
	".mov": true, ".avi": true, ".mkv": true,
}

// Classify maps the declared media type, then the filename extension, to a
// container. Unrecognized inputs fall back to .webm and are sent as is.
func Classify(mediaType, filename string) Format {
	mediaType = strings.ToLower(mediaType)
	if mediaType != "" {
		for _, rule := range mediaTypeRules {
			for _, needle := range rule.needles {
				if strings.Contains(mediaType, needle) {
					return rule.format
				}
			}
		}
	}
	ext := strings.ToLower(filepath.Ext(filename))
	switch {
	case nativeExts[ext]:
		return Format{Ext: ext}
	case convertExts[ext]:
		return Format{Ext: ext, NeedsConversion: true}
	}
	return Format{Ext: defaultExt}
}
