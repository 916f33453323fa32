package orchestrator

import (
	"errors"

	"gopkg.in/yaml.v3"

	"github.com/johnrychristian11/conflict-resolution-tki/clients"
	"github.com/johnrychristian11/conflict-resolution-tki/tki"
)

// ErrEmptyText is returned for a turn that has no utterance text.
var ErrEmptyText = errors.New("turn has no text")

// Turn is one utterance of the conversation. Audio is a path to the
// recording of the utterance and may be empty.
type Turn struct {
	Speaker string `yaml:"speaker" json:"speaker"`
	Text    string `yaml:"text" json:"text"`
	Audio   string `yaml:"audio,omitempty" json:"audio,omitempty"`
}

// UnmarshalYAML accepts "person" as an alias of "speaker".
func (t *Turn) UnmarshalYAML(n *yaml.Node) error {
	var raw struct {
		Speaker string `yaml:"speaker"`
		Person  string `yaml:"person"`
		Text    string `yaml:"text"`
		Audio   string `yaml:"audio"`
	}
	if err := n.Decode(&raw); err != nil {
		return err
	}
	t.Speaker = raw.Speaker
	if t.Speaker == "" {
		t.Speaker = raw.Person
	}
	t.Text, t.Audio = raw.Text, raw.Audio
	return nil
}

// TurnAnalysis is the outcome for one turn.
type TurnAnalysis struct {
	Speaker       string    `json:"speaker"`
	Text          string    `json:"text"`
	Tension       float64   `json:"tension"`
	Assertiveness float64   `json:"assertiveness"`
	Style         tki.Style `json:"style"`
}

// ConversationAnalysis holds one TurnAnalysis per turn, in turn order.
type ConversationAnalysis []TurnAnalysis

// Summaries converts the analysis for the resolution prompt.
func (a ConversationAnalysis) Summaries() []clients.TurnSummary {
	out := make([]clients.TurnSummary, 0, len(a))
	for _, t := range a {
		out = append(out, clients.TurnSummary{
			Speaker:       t.Speaker,
			Text:          t.Text,
			Tension:       t.Tension,
			Assertiveness: t.Assertiveness,
			Style:         t.Style.Label(),
		})
	}
	return out
}

// SpeakerSummary aggregates the turns of one speaker.
type SpeakerSummary struct {
	Speaker           string            `json:"speaker"`
	Turns             int               `json:"turns"`
	Share             float64           `json:"share"` // of all turns
	MeanTension       float64           `json:"mean_tension"`
	MeanAssertiveness float64           `json:"mean_assertiveness"`
	Styles            map[tki.Style]int `json:"styles"`
	Dominant          tki.Style         `json:"dominant_style"`
}

// Summary aggregates a whole conversation.
type Summary struct {
	Turns        int                   `json:"turns"`
	Speakers     []SpeakerSummary      `json:"speakers"`
	StyleShare   map[tki.Style]float64 `json:"style_share"`
	TensionTrend float64               `json:"tension_trend"` // last minus first turn
	PeakTension  float64               `json:"peak_tension"`
	PeakTurn     int                   `json:"peak_turn"` // 1-based
}
