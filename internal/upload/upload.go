package upload

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"regexp"
	"strings"

	"taskcenter/internal/services"
)

// MinAudioBytes is the smallest payload accepted as an audio upload.
const MinAudioBytes = 100

// AudioFieldNames lists the form fields searched for an upload, in order.
var AudioFieldNames = []string{"audio", "file"}

var boundaryPattern = regexp.MustCompile(`boundary=([^;\s]+)`)

// Part is one decoded section of a multipart body.
type Part struct {
	Name        string
	FileName    string
	ContentType string
	Data        []byte
}

// IsFile reports whether the part declared a filename.
func (p Part) IsFile() bool {
	return p.FileName != ""
}

// Form holds every part of a multipart body in wire order.
type Form struct {
	Parts []Part
}

// Fields returns the non-file values keyed by field name. Later parts win.
func (f *Form) Fields() map[string]string {
	fields := make(map[string]string)
	for _, part := range f.Parts {
		if !part.IsFile() {
			fields[part.Name] = string(part.Data)
		}
	}
	return fields
}

// Files returns the parts that declared a filename.
func (f *Form) Files() []Part {
	var files []Part
	for _, part := range f.Parts {
		if part.IsFile() {
			files = append(files, part)
		}
	}
	return files
}

// Lookup returns the first part named name.
func (f *Form) Lookup(name string) (Part, bool) {
	for _, part := range f.Parts {
		if part.Name == name {
			return part, true
		}
	}
	return Part{}, false
}

// Audio is the upload extracted from a form.
type Audio struct {
	Data        []byte
	FileName    string
	ContentType string
}

// Boundary extracts the multipart boundary token from a Content-Type header.
func Boundary(contentType string) (string, error) {
	if !strings.Contains(strings.ToLower(contentType), "multipart/form-data") {
		return "", services.Wrap(services.ErrValidation, "upload", "Content-Type must be multipart/form-data", nil)
	}
	match := boundaryPattern.FindStringSubmatch(contentType)
	if match == nil {
		return "", services.Wrap(services.ErrValidation, "upload", "Could not find boundary in Content-Type", nil)
	}
	boundary := strings.Trim(match[1], `"`)
	if boundary == "" {
		return "", services.Wrap(services.ErrValidation, "upload", "Could not find boundary in Content-Type", nil)
	}
	return boundary, nil
}

// Parse splits body into its parts. Part payloads are returned byte for byte.
func Parse(body []byte, boundary string) (*Form, error) {
	reader := multipart.NewReader(bytes.NewReader(body), boundary)
	form := &Form{}
	for {
		part, err := reader.NextRawPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, services.Wrap(services.ErrValidation, "upload", "Malformed multipart body", err)
		}
		data, err := io.ReadAll(part)
		_ = part.Close()
		if err != nil {
			return nil, services.Wrap(services.ErrValidation, "upload", "Malformed multipart body", fmt.Errorf("read part %q: %w", part.FormName(), err))
		}
		form.Parts = append(form.Parts, Part{
			Name:        part.FormName(),
			FileName:    part.FileName(),
			ContentType: part.Header.Get("Content-Type"),
			Data:        data,
		})
	}
	return form, nil
}

// ExtractAudio returns the first audio or file part. Missing parts and
// payloads under MinAudioBytes are validation errors.
func ExtractAudio(form *Form) (Audio, error) {
	if form != nil {
		for _, part := range form.Parts {
			if !isAudioField(part.Name) {
				continue
			}
			if len(part.Data) < MinAudioBytes {
				break
			}
			return Audio{Data: part.Data, FileName: part.FileName, ContentType: part.ContentType}, nil
		}
	}
	return Audio{}, services.Wrap(services.ErrValidation, "upload", "No valid audio file provided", nil)
}

// FromRequest parses body with the boundary from contentType and extracts the audio part.
func FromRequest(contentType string, body []byte) (Audio, error) {
	boundary, err := Boundary(contentType)
	if err != nil {
		return Audio{}, err
	}
	form, err := Parse(body, boundary)
	if err != nil {
		return Audio{}, err
	}
	return ExtractAudio(form)
}

func isAudioField(name string) bool {
	for _, candidate := range AudioFieldNames {
		if name == candidate {
			return true
		}
	}
	return false
}
