package services_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"taskcenter/internal/services"
)

type upstreamErr struct{ code int }

func (e upstreamErr) Error() string   { return fmt.Sprintf("upstream %d", e.code) }
func (e upstreamErr) HTTPStatus() int { return e.code }

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrExternalTool, "transcode", "ffmpeg failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"transcode", "ffmpeg failed", "boom"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestHTTPStatusMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"validation", services.Wrap(services.ErrValidation, "parse", "invalid", nil), http.StatusBadRequest},
		{"not found", services.Wrap(services.ErrNotFound, "route", "missing", nil), http.StatusNotFound},
		{"configuration", services.Wrap(services.ErrConfiguration, "key", "missing", nil), http.StatusInternalServerError},
		{"media", services.Wrap(services.ErrMedia, "probe", "no audio", nil), http.StatusInternalServerError},
		{"upstream relayed", services.Wrap(services.ErrTransient, "chat", "provider", upstreamErr{code: 429}), http.StatusTooManyRequests},
		{"upstream success ignored", services.Wrap(services.ErrTransient, "chat", "odd", upstreamErr{code: 200}), http.StatusInternalServerError},
		{"plain", errors.New("plain"), http.StatusInternalServerError},
		{"nil", nil, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := services.HTTPStatus(tc.err); got != tc.want {
				t.Fatalf("HTTPStatus() = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestMessagePrefersClientText(t *testing.T) {
	err := fmt.Errorf("handler: %w", services.Wrap(services.ErrMedia, "probe", "this file has no audio track", errors.New("exit 1")))
	if got := services.Message(err); got != "this file has no audio track" {
		t.Fatalf("unexpected message %q", got)
	}
	if got := services.Message(errors.New("raw")); got != "raw" {
		t.Fatalf("unexpected fallback message %q", got)
	}
	if got := services.Message(fmt.Errorf("wait: %w", context.DeadlineExceeded)); got != "operation timed out" {
		t.Fatalf("unexpected timeout message %q", got)
	}
}
