package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/johnrychristian11/conflict-resolution-tki/clients"
	cfg "github.com/johnrychristian11/conflict-resolution-tki/config"
	"github.com/johnrychristian11/conflict-resolution-tki/lexical"
	"github.com/johnrychristian11/conflict-resolution-tki/prosody"
	"github.com/johnrychristian11/conflict-resolution-tki/scores"
	"github.com/johnrychristian11/conflict-resolution-tki/sentiment"
	"github.com/johnrychristian11/conflict-resolution-tki/tki"
)

// ProsodyScorer scores the recording of a turn; an empty path means none.
type ProsodyScorer interface {
	ScoreFile(ctx context.Context, path string) scores.Pair
}

// TextScorer scores the words of a turn.
type TextScorer interface {
	Score(ctx context.Context, text string) scores.Pair
}

// Suggester proposes resolution strategies for an analysed conversation.
type Suggester interface {
	Suggest(ctx context.Context, turns []clients.TurnSummary) (string, error)
}

const noAPIKeyMessage = `No API key found. Please set GOOGLE_API_KEY environment variable
Example: export GOOGLE_API_KEY='your-api-key-here'
Or get one from: https://makersuite.google.com/app/apikey`

type Pipeline struct {
	cfg       *cfg.Root
	http      *clients.HTTP
	log       logrus.FieldLogger
	out       io.Writer
	prosody   ProsodyScorer
	text      TextScorer
	suggester Suggester
	noAI      bool
	noPersist bool
}

type Option func(*Pipeline)

func WithProsody(s ProsodyScorer) Option { return func(p *Pipeline) { p.prosody = s } }
func WithText(s TextScorer) Option { return func(p *Pipeline) { p.text = s } }
func WithSuggester(s Suggester) Option { return func(p *Pipeline) { p.suggester = s } }
func WithOutput(w io.Writer) Option { return func(p *Pipeline) { p.out = w } }
func WithLogger(l logrus.FieldLogger) Option { return func(p *Pipeline) { p.log = l } }

// WithoutAI skips the resolution request.
func WithoutAI() Option { return func(p *Pipeline) { p.noAI = true } }

// WithoutPersist skips writing the session bundle.
func WithoutPersist() Option { return func(p *Pipeline) { p.noPersist = true } }

// NewPipeline wires the scorers described by the configuration. Options
// replace individual collaborators.
func NewPipeline(c *cfg.Root, opts ...Option) *Pipeline {
	p := &Pipeline{
		cfg:  c,
		http: clients.NewHTTP(cfg.DurSeconds(c.Services.Visualization.Timeout)),
		log:  logrus.StandardLogger(),
		out:  os.Stdout,
	}
	for _, o := range opts {
		o(p)
	}
	if p.prosody == nil {
		p.prosody = prosody.NewScorer(prosody.NewFFmpegDecoder(c.Audio.FFmpegBin, c.Audio.FFprobeBin), p.log)
	}
	if p.text == nil {
		p.text = lexical.NewScorer(p.sentimentAnalyzer(), p.log)
	}
	return p
}

func (p *Pipeline) sentimentAnalyzer() sentiment.Analyzer {
	lex := sentiment.MustLexicon()
	if p.cfg.Sentiment.Engine != "remote" {
		return lex
	}
	svc := p.cfg.Services.Sentiment
	return &sentiment.Remote{
		Client:   clients.NewHTTP(cfg.DurSeconds(svc.Timeout)),
		URL:      svc.URL,
		Timeout:  cfg.DurSeconds(svc.Timeout),
		Fallback: lex,
		Log:      p.log,
	}
}

// Analyze scores every turn in order. Turns are validated up front; a turn
// without text fails the whole conversation.
func (p *Pipeline) Analyze(ctx context.Context, turns []Turn) (ConversationAnalysis, error) {
	for i, t := range turns {
		if strings.TrimSpace(t.Text) == "" {
			return nil, fmt.Errorf("turn %d (%s): %w", i+1, t.Speaker, ErrEmptyText)
		}
	}

	out := make(ConversationAnalysis, 0, len(turns))
	for i, t := range turns {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out = append(out, p.analyzeTurn(ctx, i+1, t))
	}
	return out, nil
}

func (p *Pipeline) analyzeTurn(ctx context.Context, n int, t Turn) TurnAnalysis {
	log := p.log.WithFields(logrus.Fields{"turn": n, "speaker": t.Speaker})

	audio := p.prosody.ScoreFile(ctx, t.Audio)
	text := p.text.Score(ctx, t.Text)
	final := scores.Fuse(text, audio)
	style := tki.Classify(final.Tension, final.Assertiveness)

	log.WithFields(logrus.Fields{
		"text_tension":        text.Tension,
		"text_assertiveness":  text.Assertiveness,
		"audio_tension":       audio.Tension,
		"audio_assertiveness": audio.Assertiveness,
	}).Debug(tki.Explain(final.Tension, final.Assertiveness))

	return TurnAnalysis{
		Speaker:       t.Speaker,
		Text:          t.Text,
		Tension:       final.Tension,
		Assertiveness: final.Assertiveness,
		Style:         style,
	}
}

// Run analyses the conversation stored at path, prints the report, asks
// for resolution strategies and stores the session.
func (p *Pipeline) Run(ctx context.Context, path string) error {
	turns, err := LoadConversation(path)
	if err != nil {
		return err
	}

	fmt.Fprintf(p.out, "=== TKI Conversation Analysis (Audio-Focused) ===\n\n")
	analysis, err := p.Analyze(ctx, turns)
	if err != nil {
		return err
	}
	for i, t := range analysis {
		printTurn(p.out, i+1, t)
	}

	summary := summarize(analysis)
	printSummary(p.out, summary)

	var resolution string
	if !p.noAI {
		fmt.Fprintf(p.out, "\n%s\n=== AI-DRIVEN CONFLICT RESOLUTION ===\n%s\n\n", rule('='), rule('='))
		resolution = p.resolve(ctx, analysis)
		fmt.Fprintln(p.out, resolution)
	}

	if p.noPersist {
		return nil
	}
	saved, err := persist(p.cfg.Paths.Outputs, path, analysis, summary, resolution)
	if err != nil {
		return err
	}
	p.log.WithFields(logrus.Fields{
		"session":  saved.SessionID,
		"analysis": saved.AnalysisPath,
		"summary":  saved.SummaryPath,
	}).Info("session saved")

	if url := p.cfg.Services.Visualization.URL; url != "" {
		p.visualize(ctx, url, saved.Dir, analysis, summary)
	}
	return nil
}

// resolve never fails: problems with the AI service become the message
// shown to the user.
func (p *Pipeline) resolve(ctx context.Context, a ConversationAnalysis) string {
	g := p.cfg.Services.Gemini
	s := p.suggester
	if s == nil {
		r, err := clients.NewResolver(ctx, g.APIKey, g.Model)
		if errors.Is(err, clients.ErrNoAPIKey) {
			return noAPIKeyMessage
		}
		if err != nil {
			return resolutionError(err)
		}
		s = r
	}
	if g.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.DurSeconds(g.Timeout))
		defer cancel()
	}
	text, err := s.Suggest(ctx, a.Summaries())
	if err != nil {
		p.log.WithError(err).Warn("resolution request failed")
		return resolutionError(err)
	}
	return text
}

func resolutionError(err error) string {
	return fmt.Sprintf("Error generating resolution: %v\n\nPlease ensure you have set your GOOGLE_API_KEY environment variable or pass it directly.", err)
}

func (p *Pipeline) visualize(ctx context.Context, url, outDir string, a ConversationAnalysis, s Summary) {
	tl := clients.TimelineReq{OutputDir: outDir}
	for i, t := range a {
		tl.Turns = append(tl.Turns, i+1)
		tl.Speakers = append(tl.Speakers, t.Speaker)
		tl.Tension = append(tl.Tension, t.Tension)
		tl.Assertiveness = append(tl.Assertiveness, t.Assertiveness)
		tl.Styles = append(tl.Styles, t.Style.String())
	}
	if resp, err := p.http.GenerateTimeline(ctx, url, tl); err != nil {
		p.log.WithError(err).Warn("timeline generation failed")
	} else {
		p.log.WithField("path", resp.Path).Info("timeline generated")
	}

	categories := make([]string, 0, len(tki.Styles))
	for _, st := range tki.Styles {
		categories = append(categories, st.String())
	}
	for _, sp := range s.Speakers {
		resp, err := p.http.GenerateRadar(ctx, url, clients.RadarReq{
			Categories:  categories,
			Values:      styleVector(sp),
			SpeakerName: sp.Speaker,
			OutputDir:   outDir,
		})
		if err != nil {
			p.log.WithError(err).WithField("speaker", sp.Speaker).Warn("radar generation failed")
			continue
		}
		p.log.WithFields(logrus.Fields{"speaker": sp.Speaker, "path": resp.Path}).Info("radar generated")
	}
}

func rule(c rune) string { return strings.Repeat(string(c), 70) }

func printTurn(w io.Writer, n int, t TurnAnalysis) {
	fmt.Fprintf(w, "Turn %d: %s\n", n, t.Speaker)
	fmt.Fprintf(w, "  %q\n", t.Text)
	fmt.Fprintf(w, "→ TENSION: %.2f, ASSERTIVENESS: %.2f\n", t.Tension, t.Assertiveness)
	fmt.Fprintf(w, "→ TKI STYLE: %s\n", t.Style.Label())
	fmt.Fprintln(w, rule('-'))
}

func printSummary(w io.Writer, s Summary) {
	fmt.Fprintf(w, "\nSpeakers:\n")
	for _, sp := range s.Speakers {
		fmt.Fprintf(w, "  %-12s turns=%d tension=%.2f assertiveness=%.2f dominant=%s\n",
			sp.Speaker, sp.Turns, sp.MeanTension, sp.MeanAssertiveness, sp.Dominant)
	}
	fmt.Fprintf(w, "Peak tension %.2f at turn %d, trend %+.2f\n", s.PeakTension, s.PeakTurn, s.TensionTrend)
}
