package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"taskcenter/internal/services"
	"taskcenter/internal/services/llm"
)

type fakeChat struct {
	raw      []byte
	content  string
	err      error
	requests []llm.ChatRequest
	// echo returns the user content after the format prefix when set.
	echo bool
}

func (f *fakeChat) Raw(_ context.Context, req llm.ChatRequest) ([]byte, error) {
	f.requests = append(f.requests, req)
	return f.raw, f.err
}

func (f *fakeChat) Complete(_ context.Context, req llm.ChatRequest) (string, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return "", f.err
	}
	if f.echo {
		return strings.TrimPrefix(req.Messages[1].Content, "以下の書き起こしテキストを整形してください:\n\n"), nil
	}
	return f.content, nil
}

func newService(chat ChatClient, keyed bool) *Service {
	return New(chat, Options{
		KeyConfigured: keyed,
		ChatTimeout:   60 * time.Second,
		FormatTimeout: 180 * time.Second,
		Now:           func() time.Time { return time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC) },
	})
}

func TestGenerateRelaysBodyAndBuildsPrompt(t *testing.T) {
	chat := &fakeChat{raw: []byte(`{"choices":[]}`)}
	svc := newService(chat, true)

	var req GenerateRequest
	if err := json.Unmarshal([]byte(`{"goal":"簿記2級合格","deadline":"2026-01-31","hoursPerWeek":12,"level":"beginner"}`), &req); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	body, err := svc.Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if string(body) != `{"choices":[]}` {
		t.Fatalf("expected body relayed, got %s", body)
	}
	if len(chat.requests) != 1 {
		t.Fatalf("expected one request, got %d", len(chat.requests))
	}
	sent := chat.requests[0]
	if !sent.JSON || sent.Temperature != 0.7 || sent.Timeout != 60*time.Second {
		t.Fatalf("unexpected request settings %+v", sent)
	}
	system := sent.Messages[0].Content
	for _, want := range []string{
		"目標タイプ: 一般",
		"初心者向け: 基礎から丁寧にステップを分ける",
		"約12時間",
		"目標達成までの日数: 29日 (4週間)",
		"今日の日付: 2026-01-01",
		"締め切り: 2026-01-31",
		`"tasks": [`,
	} {
		if !strings.Contains(system, want) {
			t.Errorf("system prompt missing %q", want)
		}
	}
	if sent.Messages[1].Content != "目標: 簿記2級合格" {
		t.Fatalf("unexpected user prompt %q", sent.Messages[1].Content)
	}
}

func TestGenerateMissingKey(t *testing.T) {
	chat := &fakeChat{}
	_, err := newService(chat, false).Generate(context.Background(), GenerateRequest{Deadline: "2026-02-01"})
	if !errors.Is(err, services.ErrConfiguration) || services.Message(err) != msgMissingKeyGenerate {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if len(chat.requests) != 0 {
		t.Fatal("no request expected")
	}
}

func TestGenerateInvalidDeadline(t *testing.T) {
	_, err := newService(&fakeChat{}, true).Generate(context.Background(), GenerateRequest{Deadline: "next week"})
	if services.HTTPStatus(err) != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d (%v)", services.HTTPStatus(err), err)
	}
}

func TestGenerateRelaysProviderStatus(t *testing.T) {
	chat := &fakeChat{err: &llm.StatusError{StatusCode: http.StatusUnauthorized, Body: `{"error":"bad key"}`}}
	_, err := newService(chat, true).Generate(context.Background(), GenerateRequest{Deadline: "2026-02-01"})
	if services.HTTPStatus(err) != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", services.HTTPStatus(err))
	}
	if services.Message(err) != `OpenAI API Error: {"error":"bad key"}` {
		t.Fatalf("unexpected message %q", services.Message(err))
	}
}

func TestGenerateNetworkError(t *testing.T) {
	chat := &fakeChat{err: &llm.TransportError{Err: errors.New("connection refused")}}
	_, err := newService(chat, true).Generate(context.Background(), GenerateRequest{Deadline: "2026-02-01"})
	if services.HTTPStatus(err) != http.StatusInternalServerError || services.Message(err) != "Network Error: connection refused" {
		t.Fatalf("unexpected error %d %q", services.HTTPStatus(err), services.Message(err))
	}
}

func TestPlanWindow(t *testing.T) {
	now := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	tests := []struct {
		deadline time.Time
		want     PlanWindow
	}{
		{time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC), PlanWindow{Days: 29, Weeks: 4}},
		{time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC), PlanWindow{Days: 0, Weeks: 1}},
		{time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC), PlanWindow{Days: -2, Weeks: 1}},
	}
	for _, tc := range tests {
		if got := NewPlanWindow(now, tc.deadline); got != tc.want {
			t.Errorf("NewPlanWindow(%v) = %+v, want %+v", tc.deadline, got, tc.want)
		}
	}
}

func TestBuildPlanPromptUnknownLevel(t *testing.T) {
	prompt := BuildPlanPrompt(GenerateRequest{GoalType: "資格", Level: "expert", HoursPerWeek: "5"}, PlanWindow{Days: 10, Weeks: 1}, time.Now())
	if !strings.Contains(prompt, "ユーザーのレベル: 中級者向け\n") {
		t.Fatal("expected default level description")
	}
}

func TestSummarizeKinds(t *testing.T) {
	chat := &fakeChat{content: "- 決定事項"}
	svc := newService(chat, true)

	out, err := svc.Summarize(context.Background(), SummarizeRequest{Text: "議論"})
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if string(out) != `{"result":"- 決定事項"}` {
		t.Fatalf("unexpected summary output %s", out)
	}
	req := chat.requests[0]
	if req.JSON || req.Temperature != 0.3 || req.Messages[1].Content != "会議内容:\n議論" {
		t.Fatalf("unexpected summary request %+v", req)
	}

	chat.content = `{"actions":[{"title":"資料送付","assignee":"田中"}]}`
	out, err = svc.Summarize(context.Background(), SummarizeRequest{Text: "議論", Type: KindActions})
	if err != nil {
		t.Fatalf("Summarize actions: %v", err)
	}
	var parsed struct {
		Actions []struct {
			Title    string `json:"title"`
			Assignee string `json:"assignee"`
		} `json:"actions"`
	}
	if err := json.Unmarshal(out, &parsed); err != nil {
		t.Fatalf("actions output not JSON: %v", err)
	}
	if len(parsed.Actions) != 1 || parsed.Actions[0].Assignee != "田中" {
		t.Fatalf("unexpected actions %+v", parsed)
	}
	if !chat.requests[1].JSON {
		t.Fatal("actions must request JSON output")
	}
}

func TestSummarizeActionsRelaysModelJSON(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"key order kept", "{\n  \"summary\": \"要約\",\n  \"actions\": []\n}", `{"summary":"要約","actions":[]}`},
		{"top-level array", `[{"title":"資料送付"}]`, `[{"title":"資料送付"}]`},
		{"code fence", "```json\n{\"z\":1,\"a\":2}\n```", `{"z":1,"a":2}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			chat := &fakeChat{content: tc.content}
			out, err := newService(chat, true).Summarize(context.Background(), SummarizeRequest{Text: "x", Type: KindActions})
			if err != nil {
				t.Fatalf("Summarize: %v", err)
			}
			if string(out) != tc.want {
				t.Fatalf("got %s, want %s", out, tc.want)
			}
		})
	}
}

func TestSummarizeActionsInvalidJSON(t *testing.T) {
	chat := &fakeChat{content: "not json"}
	_, err := newService(chat, true).Summarize(context.Background(), SummarizeRequest{Text: "x", Type: KindActions})
	if services.HTTPStatus(err) != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %v", err)
	}
}

func TestBuildSummaryPromptMinutes(t *testing.T) {
	prompt := BuildSummaryPrompt(SummarizeRequest{Type: KindMinutes, Title: "定例会"})
	for _, want := range []string{"- 会議名: 定例会", "【議事録】定例会", "・参加者: [参加者]", "- 参加者: \n"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("minutes prompt missing %q", want)
		}
	}
	prompt = BuildSummaryPrompt(SummarizeRequest{Type: KindMinutes, Title: "定例会", Participants: "山田, 佐藤"})
	if !strings.Contains(prompt, "・参加者: 山田, 佐藤") {
		t.Error("expected participants in overview")
	}
	if BuildSummaryPrompt(SummarizeRequest{Type: "other"}) != actionsPrompt {
		t.Error("unknown kinds use the action prompt")
	}
}

func TestSummarizeMissingKey(t *testing.T) {
	_, err := newService(&fakeChat{}, false).Summarize(context.Background(), SummarizeRequest{Text: "x"})
	if services.Message(err) != msgMissingKey {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestFormatTranscriptShortText(t *testing.T) {
	chat := &fakeChat{content: "整形済み。"}
	got, err := newService(chat, true).FormatTranscript(context.Background(), "えーと整形して")
	if err != nil {
		t.Fatalf("FormatTranscript: %v", err)
	}
	if got != "整形済み。" {
		t.Fatalf("unexpected output %q", got)
	}
	req := chat.requests[0]
	if req.Messages[0].Content != formatPrompt {
		t.Fatal("single chunk must not carry a part annotation")
	}
	if req.MaxTokens != 8000 || req.Timeout != 180*time.Second {
		t.Fatalf("unexpected request settings %+v", req)
	}
}

func TestFormatTranscriptChunksLongText(t *testing.T) {
	sentence := strings.Repeat("あ", 99) + "。"
	text := strings.Repeat(sentence, 200)

	chat := &fakeChat{echo: true}
	got, err := newService(chat, true).FormatTranscript(context.Background(), text)
	if err != nil {
		t.Fatalf("FormatTranscript: %v", err)
	}
	if len(chat.requests) < 2 {
		t.Fatalf("expected at least 2 chunks, got %d", len(chat.requests))
	}
	total := len(chat.requests)
	for i, req := range chat.requests {
		chunk := strings.TrimPrefix(req.Messages[1].Content, "以下の書き起こしテキストを整形してください:\n\n")
		if !strings.HasSuffix(chunk, "。") {
			t.Errorf("chunk %d split mid-sentence", i+1)
		}
		if !strings.HasSuffix(req.Messages[0].Content, BuildFormatPrompt(i, total)[len(formatPrompt):]) {
			t.Errorf("chunk %d missing part annotation", i+1)
		}
	}
	if !strings.Contains(chat.requests[0].Messages[0].Content, "これはパート1/") {
		t.Fatal("expected part annotation on first chunk")
	}
	if strings.ReplaceAll(got, "\n\n", "") != text {
		t.Fatal("reassembled output must preserve chunk order")
	}
}

func TestFormatTranscriptEmptyText(t *testing.T) {
	chat := &fakeChat{}
	_, err := newService(chat, false).FormatTranscript(context.Background(), "")
	if services.HTTPStatus(err) != http.StatusBadRequest || services.Message(err) != "No text provided" {
		t.Fatalf("expected 400 No text provided, got %v", err)
	}
	if len(chat.requests) != 0 {
		t.Fatal("no request expected")
	}
}

func TestFlexString(t *testing.T) {
	var v struct {
		A FlexString `json:"a"`
		B FlexString `json:"b"`
		C FlexString `json:"c"`
	}
	if err := json.Unmarshal([]byte(`{"a":"7","b":2.5,"c":null}`), &v); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if v.A != "7" || v.B != "2.5" || v.C != "" {
		t.Fatalf("unexpected values %+v", v)
	}
	if err := json.Unmarshal([]byte(`{"a":true}`), &v); err == nil {
		t.Fatal("expected error for bool")
	}
}
