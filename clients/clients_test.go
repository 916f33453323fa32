package clients

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	gax "github.com/googleapis/gax-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestSentiment(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/sentiment", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var req SentimentReq
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "hello", req.Text)
		_ = json.NewEncoder(w).Encode(SentimentResp{Polarity: 0.25, Subjectivity: 0.5})
	}))
	defer srv.Close()

	got, err := NewHTTP(time.Second).Sentiment(context.Background(), srv.URL, "hello")
	require.NoError(t, err)
	assert.Equal(t, &SentimentResp{Polarity: 0.25, Subjectivity: 0.5}, got)
}

func TestSentimentStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewHTTP(0).Sentiment(context.Background(), srv.URL, "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sentiment 503")
	assert.Contains(t, err.Error(), "model not loaded")
}

func TestGenerateTimelineAndRadar(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		switch r.URL.Path {
		case "/generate-timeline":
			var req TimelineReq
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, []int{1, 2}, req.Turns)
			assert.Equal(t, []string{"Compromising", "Avoiding"}, req.Styles)
			_, _ = w.Write([]byte(`{"Status":"ok","Path":"/tmp/timeline.png"}`))
		case "/generate-radar":
			_, _ = w.Write([]byte(`{"Status":"ok","Path":"/tmp/radar.png"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	h := NewHTTP(time.Second)
	tl, err := h.GenerateTimeline(context.Background(), srv.URL, TimelineReq{
		Turns:  []int{1, 2},
		Styles: []string{"Compromising", "Avoiding"},
	})
	require.NoError(t, err)
	assert.Equal(t, "/tmp/timeline.png", tl.Path)

	rd, err := h.GenerateRadar(context.Background(), srv.URL, RadarReq{SpeakerName: "Manager"})
	require.NoError(t, err)
	assert.Equal(t, "ok", rd.Status)
	assert.Equal(t, []string{"/generate-timeline", "/generate-radar"}, paths)
}

// fakeModels returns errs in order, then resp and err.
type fakeModels struct {
	resp   *genai.GenerateContentResponse
	err    error
	errs   []error
	calls  int
	model  string
	prompt string
}

func (f *fakeModels) GenerateContent(_ context.Context, model string, contents []*genai.Content, _ *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.calls++
	f.model = model
	f.prompt = ""
	for _, c := range contents {
		for _, p := range c.Parts {
			f.prompt += p.Text
		}
	}
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		return nil, err
	}
	return f.resp, f.err
}

func okResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: &genai.Content{Parts: []*genai.Part{{Text: text}}}}},
	}
}

func fastResolver(m *fakeModels) *Resolver {
	r := newResolver(m, "m")
	r.backoff = gax.Backoff{Initial: time.Millisecond, Max: time.Millisecond, Multiplier: 1}
	return r
}

var sampleTurns = []TurnSummary{
	{Speaker: "Manager", Text: "Let us work together.", Tension: 0.02, Assertiveness: 0.44, Style: "Compromising (moderate assertiveness/tension)"},
	{Speaker: "Employee", Text: "Sure.", Tension: 0.1, Assertiveness: 0.4, Style: "Compromising (moderate assertiveness/tension)"},
}

func TestResolverSuggest(t *testing.T) {
	m := &fakeModels{resp: &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: &genai.Content{Parts: []*genai.Part{
			{Text: "1. Agree on a shared goal. "}, {Text: "2. Slow down."},
		}}}},
	}}
	r := newResolver(m, "")

	got, err := r.Suggest(context.Background(), sampleTurns)
	require.NoError(t, err)
	assert.Equal(t, "1. Agree on a shared goal. 2. Slow down.", got)
	assert.Equal(t, DefaultGeminiModel, m.model)
	assert.Contains(t, m.prompt, "Turn 1 - Manager:")
	assert.Contains(t, m.prompt, "Turn 2 - Employee:")
	assert.Contains(t, m.prompt, "Tension: 0.02, Assertiveness: 0.44")
	assert.Contains(t, m.prompt, "focused on de-escalation")
}

func TestResolverSuggestErrors(t *testing.T) {
	_, err := newResolver(&fakeModels{err: errors.New("permission denied")}, "m").Suggest(context.Background(), sampleTurns)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "permission denied")

	_, err = newResolver(&fakeModels{resp: &genai.GenerateContentResponse{}}, "m").Suggest(context.Background(), sampleTurns)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no candidates")

	m := &fakeModels{err: genai.APIError{Code: 401, Status: "UNAUTHENTICATED", Message: "API key not valid"}}
	_, err = fastResolver(m).Suggest(context.Background(), sampleTurns)
	require.Error(t, err)
	assert.Equal(t, "genai generate 401 UNAUTHENTICATED: API key not valid", err.Error())
	assert.Equal(t, 1, m.calls, "auth failures are not retried")
}

func TestResolverRetriesTransientErrors(t *testing.T) {
	m := &fakeModels{
		errs: []error{
			genai.APIError{Code: 429, Status: "RESOURCE_EXHAUSTED", Message: "quota"},
			genai.APIError{Code: 503, Status: "UNAVAILABLE", Message: "overloaded"},
		},
		resp: okResponse("Take a short break."),
	}
	got, err := fastResolver(m).Suggest(context.Background(), sampleTurns)
	require.NoError(t, err)
	assert.Equal(t, "Take a short break.", got)
	assert.Equal(t, 3, m.calls)
}

func TestResolverGivesUpAfterAttempts(t *testing.T) {
	m := &fakeModels{err: genai.APIError{Code: 429, Status: "RESOURCE_EXHAUSTED", Message: "quota exceeded"}}
	_, err := fastResolver(m).Suggest(context.Background(), sampleTurns)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429 RESOURCE_EXHAUSTED")
	assert.Equal(t, DefaultGeminiAttempts, m.calls)
}

func TestResolverStopsRetryingWhenCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	m := &fakeModels{err: genai.APIError{Code: 503, Status: "UNAVAILABLE"}}
	r := newResolver(m, "m")
	r.backoff = gax.Backoff{Initial: time.Hour, Max: time.Hour}
	_, err := r.Suggest(ctx, sampleTurns)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, m.calls)
}

func TestRetryable(t *testing.T) {
	assert.True(t, Retryable(genai.APIError{Code: 429}))
	assert.True(t, Retryable(fmt.Errorf("wrapped: %w", genai.APIError{Code: 500})))
	assert.False(t, Retryable(genai.APIError{Code: 400}))
	assert.False(t, Retryable(errors.New("dial tcp: refused")))
}

func TestNewResolverRequiresKey(t *testing.T) {
	_, err := NewResolver(context.Background(), "", "")
	assert.ErrorIs(t, err, ErrNoAPIKey)
}
