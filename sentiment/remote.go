package sentiment

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/johnrychristian11/conflict-resolution-tki/clients"
)

// Client is the remote sentiment endpoint.
type Client interface {
	Sentiment(ctx context.Context, url, text string) (*clients.SentimentResp, error)
}

// Remote asks an HTTP sentiment service and falls back to a local analyzer
// whenever the service cannot answer.
type Remote struct {
	Client   Client
	URL      string
	Timeout  time.Duration
	Fallback Analyzer
	Log      logrus.FieldLogger
}

// Analyze uses the fallback when ctx is cancelled before the service answers.
func (r *Remote) Analyze(ctx context.Context, text string) Result {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}
	resp, err := r.Client.Sentiment(ctx, r.URL, text)
	if err != nil {
		if r.Log != nil {
			r.Log.WithError(err).Warn("remote sentiment unavailable, using fallback")
		}
		return r.Fallback.Analyze(ctx, text)
	}
	return Result{
		Polarity:     clamp(resp.Polarity, -1, 1),
		Subjectivity: clamp(resp.Subjectivity, 0, 1),
	}
}
