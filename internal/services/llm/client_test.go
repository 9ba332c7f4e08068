package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func completionHandler(t *testing.T, content string, inspect func(map[string]any)) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test" {
			t.Errorf("unexpected auth header %q", got)
		}
		if inspect != nil {
			var body map[string]any
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				t.Errorf("decode request: %v", err)
			}
			inspect(body)
		}
		payload := map[string]any{
			"choices": []any{
				map[string]any{
					"message":       map[string]any{"content": content},
					"finish_reason": "stop",
				},
			},
		}
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			t.Errorf("encode response: %v", err)
		}
	}
}

func TestClientHealthCheck(t *testing.T) {
	server := httptest.NewServer(completionHandler(t, `{"ok":true}`, nil))
	defer server.Close()

	client := NewClient(Config{APIKey: "test", BaseURL: server.URL, Model: "demo-model"})
	if err := client.HealthCheck(context.Background()); err != nil {
		t.Fatalf("HealthCheck returned error: %v", err)
	}
}

func TestClientHealthCheckCodeFence(t *testing.T) {
	server := httptest.NewServer(completionHandler(t, "```json\n{\"ok\":true}\n```", nil))
	defer server.Close()

	client := NewClient(Config{APIKey: "test", BaseURL: server.URL + "/", Model: "demo-model"})
	if err := client.HealthCheck(context.Background()); err != nil {
		t.Fatalf("HealthCheck returned error: %v", err)
	}
}

func TestClientCompleteSendsRequestFields(t *testing.T) {
	var seen map[string]any
	server := httptest.NewServer(completionHandler(t, "整形済み", func(body map[string]any) { seen = body }))
	defer server.Close()

	client := NewClient(Config{APIKey: "test", BaseURL: server.URL, Model: "gpt-4o-mini"})
	got, err := client.Complete(context.Background(), ChatRequest{
		Messages:    []Message{{Role: "system", Content: "sys"}, {Role: "user", Content: "hi"}},
		Temperature: 0.3,
		MaxTokens:   8000,
	})
	if err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}
	if got != "整形済み" {
		t.Fatalf("unexpected content %q", got)
	}
	if seen["model"] != "gpt-4o-mini" || seen["temperature"] != 0.3 || seen["max_tokens"] != float64(8000) {
		t.Fatalf("unexpected request body %v", seen)
	}
	if _, ok := seen["response_format"]; ok {
		t.Fatalf("response_format must be omitted for plain requests: %v", seen)
	}
}

func TestClientRawJSONModeRelaysBody(t *testing.T) {
	const body = `{"id":"x","choices":[{"message":{"content":"{\"tasks\":[]}"}}]}`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		if !strings.Contains(string(raw), `"response_format":{"type":"json_object"}`) {
			t.Errorf("expected json_object response format, got %s", raw)
		}
		_, _ = w.Write([]byte(body))
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test", BaseURL: server.URL, Model: "m"})
	got, err := client.Raw(context.Background(), ChatRequest{
		Messages: []Message{{Role: "user", Content: "plan"}},
		JSON:     true,
	})
	if err != nil {
		t.Fatalf("Raw returned error: %v", err)
	}
	if string(got) != body {
		t.Fatalf("expected body relayed unmodified, got %s", got)
	}
}

func TestClientStatusErrorCarriesProviderStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limited"}}`))
	}))
	defer server.Close()

	var calls int
	client := NewClient(Config{APIKey: "test", BaseURL: server.URL, Model: "m"}, WithHTTPClient(&http.Client{
		Transport: roundTripCounter{next: http.DefaultTransport, calls: &calls},
	}))
	_, err := client.Complete(context.Background(), ChatRequest{Messages: []Message{{Role: "user", Content: "x"}}})
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if statusErr.HTTPStatus() != http.StatusTooManyRequests || !strings.Contains(statusErr.Body, "rate limited") {
		t.Fatalf("unexpected status error %#v", statusErr)
	}
	if calls != 1 {
		t.Fatalf("expected exactly one attempt, got %d", calls)
	}
}

func TestClientTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := NewClient(Config{APIKey: "test", BaseURL: url, Model: "m"})
	_, err := client.Raw(context.Background(), ChatRequest{Messages: []Message{{Role: "user", Content: "x"}}})
	var transportErr *TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("expected TransportError, got %v", err)
	}
}

func TestClientTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	client := NewClient(Config{APIKey: "test", BaseURL: server.URL, Model: "m"})
	_, err := client.Raw(context.Background(), ChatRequest{
		Messages: []Message{{Role: "user", Content: "x"}},
		Timeout:  50 * time.Millisecond,
	})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestClientMissingKey(t *testing.T) {
	client := NewClient(Config{Model: "m"})
	if _, err := client.Raw(context.Background(), ChatRequest{Messages: []Message{{Role: "user", Content: "x"}}}); !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
}

func TestClientCompleteEmptyContentHasSnippet(t *testing.T) {
	server := httptest.NewServer(completionHandler(t, "", nil))
	defer server.Close()

	client := NewClient(Config{APIKey: "test", BaseURL: server.URL, Model: "m"})
	_, err := client.Complete(context.Background(), ChatRequest{Messages: []Message{{Role: "user", Content: "x"}}})
	if err == nil || !strings.Contains(err.Error(), "finish_reason=\"stop\"") {
		t.Fatalf("expected empty content error with finish reason, got %v", err)
	}
}

func TestDecodeLLMJSONExtractsObject(t *testing.T) {
	var out struct {
		Actions []struct {
			Title string `json:"title"`
		} `json:"actions"`
	}
	if err := DecodeLLMJSON("Here you go: {\"actions\":[{\"title\":\"資料送付\"}]} thanks", &out); err != nil {
		t.Fatalf("DecodeLLMJSON: %v", err)
	}
	if len(out.Actions) != 1 || out.Actions[0].Title != "資料送付" {
		t.Fatalf("unexpected decode %+v", out)
	}
	if err := DecodeLLMJSON("  ", &out); err == nil {
		t.Fatal("expected error for empty payload")
	}
}

type roundTripCounter struct {
	next  http.RoundTripper
	calls *int
}

func (r roundTripCounter) RoundTrip(req *http.Request) (*http.Response, error) {
	*r.calls++
	return r.next.RoundTrip(req)
}
