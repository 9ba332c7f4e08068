package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"taskcenter/internal/logging"
	"taskcenter/internal/services"
	"taskcenter/internal/services/llm"
	"taskcenter/internal/textutil"
)

const (
	// MaxChunkRunes is the largest transcript slice sent in one formatting call.
	MaxChunkRunes = 8000

	deadlineLayout    = "2006-01-02"
	planTemperature   = 0.7
	meetingTemp       = 0.3
	formatTemperature = 0.3
	formatMaxTokens   = 8000

	msgMissingKeyGenerate = "OpenAI API Key is missing in .env file. Please set OPENAI_API_KEY=your-key"
	msgMissingKey         = "OpenAI API Key is missing"
)

// Summary kinds accepted by Summarize.
const (
	KindSummary = "summary"
	KindMinutes = "minutes"
	KindActions = "actions"
)

// ChatClient is the subset of the chat client the assistant needs.
type ChatClient interface {
	Raw(ctx context.Context, req llm.ChatRequest) ([]byte, error)
	Complete(ctx context.Context, req llm.ChatRequest) (string, error)
}

// Options configures a Service.
type Options struct {
	// KeyConfigured gates every operation; false fails before any request.
	KeyConfigured bool
	ChatTimeout   time.Duration
	FormatTimeout time.Duration
	Logger        *slog.Logger
	// Now overrides the clock used for deadline arithmetic (for testing).
	Now func() time.Time
}

// Service builds prompts for the AI endpoints and forwards them to the chat client.
type Service struct {
	chat          ChatClient
	keyConfigured bool
	chatTimeout   time.Duration
	formatTimeout time.Duration
	logger        *slog.Logger
	now           func() time.Time
}

// New constructs the assistant service.
func New(chat ChatClient, opts Options) *Service {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		chat:          chat,
		keyConfigured: opts.KeyConfigured,
		chatTimeout:   opts.ChatTimeout,
		formatTimeout: opts.FormatTimeout,
		logger:        logging.NewComponentLogger(opts.Logger, "assistant"),
		now:           now,
	}
}

// FlexString decodes a JSON string or number into its textual form.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected string or number: %w", err)
	}
	*f = FlexString(n.String())
	return nil
}

// GenerateRequest is the body of POST /api/generate.
type GenerateRequest struct {
	Goal         string     `json:"goal"`
	Deadline     string     `json:"deadline"`
	GoalType     string     `json:"goalType"`
	Category     string     `json:"category"`
	Level        string     `json:"level"`
	HoursPerWeek FlexString `json:"hoursPerWeek"`
}

func (r *GenerateRequest) applyDefaults() {
	if r.GoalType == "" {
		r.GoalType = "一般"
	}
	if r.Category == "" {
		r.Category = "private"
	}
	if r.Level == "" {
		r.Level = "intermediate"
	}
	if r.HoursPerWeek == "" {
		r.HoursPerWeek = "10"
	}
}

// PlanWindow is the time left until a deadline.
type PlanWindow struct {
	Days  int
	Weeks int
}

// NewPlanWindow counts whole days from now until deadline, rounding toward
// the past, and at least one week.
func NewPlanWindow(now, deadline time.Time) PlanWindow {
	days := int(math.Floor(deadline.Sub(now).Hours() / 24))
	return PlanWindow{Days: days, Weeks: max(1, floorDiv(days, 7))}
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// Generate asks the model for a task plan and returns the provider body unmodified.
func (s *Service) Generate(ctx context.Context, req GenerateRequest) ([]byte, error) {
	req.applyDefaults()
	if !s.keyConfigured {
		return nil, services.Wrap(services.ErrConfiguration, "generate", msgMissingKeyGenerate, nil)
	}
	now := s.now()
	deadline, err := time.ParseInLocation(deadlineLayout, strings.TrimSpace(req.Deadline), now.Location())
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "generate", fmt.Sprintf("Invalid deadline %q: expected YYYY-MM-DD", req.Deadline), err)
	}
	window := NewPlanWindow(now, deadline)
	system := BuildPlanPrompt(req, window, now)

	logging.WithContext(ctx, s.logger).Info("generating task plan",
		logging.String(logging.FieldEventType, "plan_generate"),
		logging.String("goal_type", req.GoalType),
		logging.String("category", req.Category),
		logging.String("level", req.Level),
		logging.Int("days_remaining", window.Days),
	)
	body, err := s.chat.Raw(ctx, llm.ChatRequest{
		Messages: []llm.Message{
			{Role: "system", Content: system},
			{Role: "user", Content: goalUserPrefix + req.Goal},
		},
		Temperature: planTemperature,
		JSON:        true,
		Timeout:     s.chatTimeout,
	})
	if err != nil {
		return nil, providerError("generate", err)
	}
	return body, nil
}

// BuildPlanPrompt renders the plan system prompt.
func BuildPlanPrompt(req GenerateRequest, window PlanWindow, today time.Time) string {
	level, ok := levelDescriptions[req.Level]
	if !ok {
		level = defaultLevelDescription
	}
	return fmt.Sprintf(planPromptTemplate,
		req.GoalType,
		level,
		string(req.HoursPerWeek),
		window.Days,
		window.Weeks,
		today.Format(deadlineLayout),
		req.Deadline,
	)
}

// SummarizeRequest is the body of POST /api/summarize.
type SummarizeRequest struct {
	Text         string `json:"text"`
	Type         string `json:"type"`
	Title        string `json:"title"`
	Participants string `json:"participants"`
}

// Summarize produces a meeting summary, formal minutes, or action items.
// Actions return the model's JSON object; the other kinds return {"result": text}.
func (s *Service) Summarize(ctx context.Context, req SummarizeRequest) (json.RawMessage, error) {
	if req.Type == "" {
		req.Type = KindSummary
	}
	if req.Title == "" {
		req.Title = "会議"
	}
	if !s.keyConfigured {
		return nil, services.Wrap(services.ErrConfiguration, "summarize", msgMissingKey, nil)
	}

	actions := req.Type != KindSummary && req.Type != KindMinutes
	logging.WithContext(ctx, s.logger).Info("summarizing meeting",
		logging.String(logging.FieldEventType, "meeting_summarize"),
		logging.String("kind", req.Type),
		logging.Int("chars", len([]rune(req.Text))),
	)
	content, err := s.chat.Complete(ctx, llm.ChatRequest{
		Messages: []llm.Message{
			{Role: "system", Content: BuildSummaryPrompt(req)},
			{Role: "user", Content: meetingUserPrefix + req.Text},
		},
		Temperature: meetingTemp,
		JSON:        actions,
		Timeout:     s.chatTimeout,
	})
	if err != nil {
		return nil, providerError("summarize", err)
	}

	if actions {
		// The model's JSON is relayed as is: key order and top-level type are kept.
		var raw json.RawMessage
		if err := llm.DecodeLLMJSON(content, &raw); err != nil {
			return nil, services.Wrap(services.ErrTransient, "summarize", "model returned invalid action JSON", err)
		}
		var out bytes.Buffer
		if err := json.Compact(&out, raw); err != nil {
			return nil, services.Wrap(services.ErrTransient, "summarize", "encode actions", err)
		}
		return out.Bytes(), nil
	}
	out, err := json.Marshal(map[string]string{"result": content})
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "summarize", "encode summary", err)
	}
	return out, nil
}

// BuildSummaryPrompt selects the system prompt for req.Type. Unknown kinds
// use the action item prompt.
func BuildSummaryPrompt(req SummarizeRequest) string {
	switch req.Type {
	case KindSummary:
		return summaryPrompt
	case KindMinutes:
		participants := req.Participants
		if participants == "" {
			participants = participantsBlank
		}
		return fmt.Sprintf(minutesPromptTemplate, req.Title, req.Participants, participants)
	default:
		return actionsPrompt
	}
}

// FormatTranscript cleans up a raw transcript. Text longer than MaxChunkRunes
// is formatted in independent chunks that are rejoined in order.
func (s *Service) FormatTranscript(ctx context.Context, text string) (string, error) {
	if text == "" {
		return "", services.Wrap(services.ErrValidation, "format-transcript", "No text provided", nil)
	}
	if !s.keyConfigured {
		return "", services.Wrap(services.ErrConfiguration, "format-transcript", msgMissingKey, nil)
	}

	chunks := textutil.ChunkText(text, MaxChunkRunes, textutil.DefaultChunkSeparators)
	logger := logging.WithContext(ctx, s.logger)
	logger.Info("formatting transcript",
		logging.String(logging.FieldEventType, "transcript_format"),
		logging.Int("chars", len([]rune(text))),
		logging.Int("chunks", len(chunks)),
	)

	parts := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		logger.Debug("formatting chunk",
			logging.Int("index", i+1),
			logging.Int("total", len(chunks)),
			logging.Int("chars", len([]rune(chunk))),
		)
		formatted, err := s.chat.Complete(ctx, llm.ChatRequest{
			Messages: []llm.Message{
				{Role: "system", Content: BuildFormatPrompt(i, len(chunks))},
				{Role: "user", Content: fmt.Sprintf(formatUserTemplate, chunk)},
			},
			Temperature: formatTemperature,
			MaxTokens:   formatMaxTokens,
			Timeout:     s.formatTimeout,
		})
		if err != nil {
			return "", providerError("format-transcript", fmt.Errorf("chunk %d/%d: %w", i+1, len(chunks), err))
		}
		parts = append(parts, formatted)
	}
	return strings.Join(parts, "\n\n"), nil
}

// BuildFormatPrompt returns the formatting prompt for chunk index of total.
func BuildFormatPrompt(index, total int) string {
	if total <= 1 {
		return formatPrompt
	}
	return formatPrompt + fmt.Sprintf(partAnnotation, index+1, total)
}

func providerError(operation string, err error) error {
	var statusErr *llm.StatusError
	var transportErr *llm.TransportError
	switch {
	case errors.Is(err, llm.ErrMissingAPIKey):
		return services.Wrap(services.ErrConfiguration, operation, msgMissingKey, err)
	case errors.As(err, &statusErr):
		return services.Wrap(services.ErrTransient, operation, "OpenAI API Error: "+statusErr.Body, err)
	case errors.As(err, &transportErr):
		return services.Wrap(services.ErrTransient, operation, "Network Error: "+transportErr.Err.Error(), err)
	default:
		return services.Wrap(services.ErrTransient, operation, err.Error(), err)
	}
}
