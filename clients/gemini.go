package clients

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	gax "github.com/googleapis/gax-go/v2"
	"google.golang.org/genai"
)

// DefaultGeminiModel is used when no model is configured.
const DefaultGeminiModel = "gemini-2.0-flash"

// ErrNoAPIKey is returned by NewResolver when no credential is configured.
var ErrNoAPIKey = errors.New("gemini: missing API key")

// TurnSummary is one analysed turn as shown to the resolution model.
type TurnSummary struct {
	Speaker       string
	Text          string
	Tension       float64
	Assertiveness float64
	Style         string
}

type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// DefaultGeminiAttempts bounds how often a rate-limited or failing request
// is sent.
const DefaultGeminiAttempts = 3

// Resolver asks Gemini for de-escalation strategies.
type Resolver struct {
	models   contentGenerator
	model    string
	attempts int
	backoff  gax.Backoff
}

func NewResolver(ctx context.Context, apiKey, model string) (*Resolver, error) {
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey, Backend: genai.BackendGeminiAPI})
	if err != nil {
		return nil, fmt.Errorf("genai client: %w", err)
	}
	return newResolver(client.Models, model), nil
}

func newResolver(models contentGenerator, model string) *Resolver {
	if model == "" {
		model = DefaultGeminiModel
	}
	return &Resolver{
		models:   models,
		model:    model,
		attempts: DefaultGeminiAttempts,
		backoff:  gax.Backoff{Initial: time.Second, Max: 8 * time.Second, Multiplier: 2},
	}
}

// Retryable reports whether a Gemini error is worth sending again: rate
// limiting or a server-side failure.
func Retryable(err error) bool {
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Code == http.StatusTooManyRequests || apiErr.Code >= http.StatusInternalServerError
}

// Suggest returns free-text resolution strategies for the conversation.
func (r *Resolver) Suggest(ctx context.Context, turns []TurnSummary) (string, error) {
	contents := []*genai.Content{
		{Parts: []*genai.Part{{Text: ResolutionPrompt(turns)}}, Role: "user"},
	}
	bo := r.backoff
	var (
		resp *genai.GenerateContentResponse
		err  error
	)
	for attempt := 1; ; attempt++ {
		resp, err = r.models.GenerateContent(ctx, r.model, contents, nil)
		if err == nil || attempt >= r.attempts || !Retryable(err) {
			break
		}
		if serr := gax.Sleep(ctx, bo.Pause()); serr != nil {
			return "", fmt.Errorf("genai generate: %w", serr)
		}
	}
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("genai generate %d %s: %s", apiErr.Code, apiErr.Status, apiErr.Message)
		}
		return "", fmt.Errorf("genai generate: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("genai generate: no candidates")
	}
	var sb strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("genai generate: empty response")
	}
	return sb.String(), nil
}

// ResolutionPrompt renders the analysed conversation into the
// conflict-resolution request.
func ResolutionPrompt(turns []TurnSummary) string {
	var sb strings.Builder
	for i, t := range turns {
		fmt.Fprintf(&sb, "Turn %d - %s:\n", i+1, t.Speaker)
		fmt.Fprintf(&sb, "  Text: %q\n", t.Text)
		fmt.Fprintf(&sb, "  Tension: %v, Assertiveness: %v\n", t.Tension, t.Assertiveness)
		fmt.Fprintf(&sb, "  TKI Style: %s\n\n", t.Style)
	}
	return fmt.Sprintf(`You are a conflict resolution expert analyzing a workplace conversation using the Thomas-Kilmann Conflict Mode Instrument (TKI).
Here is the conversation analysis:
%s
Based on the TKI styles and tension/assertiveness scores:

1. Suggest 1 or 2 specific, actionable resolution strategies that consider each person's conflict style
2. Recommend how each person could adjust their approach for better outcomes
Keep your response concise, practical, and focused on de-escalation.`, sb.String())
}
