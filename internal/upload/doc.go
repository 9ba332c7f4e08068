// Package upload decodes multipart/form-data request bodies and pulls out
// the audio payload submitted under the "audio" or "file" field.
package upload
