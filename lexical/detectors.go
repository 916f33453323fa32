package lexical

import "strings"

// Compliance scores how accepting the utterance is, in [0,1]. Words are
// matched by substring against the keyword sets, so "okay," counts as
// acceptance and "nothing" as resistance.
func Compliance(text string) float64 {
	words := uniqueWords(strings.ToLower(text))
	acceptance := countWords(words, acceptanceKeywords)
	resistance := countWords(words, resistanceKeywords)
	assertive := countWords(words, assertiveKeywords)

	switch {
	case acceptance > 0 && resistance == 0:
		return min(0.9+0.05*float64(acceptance), 1.0)
	case resistance > 0 || assertive > 1:
		return 0.1
	default:
		return 0.5
	}
}

// Collaboration scores collaborative or empathetic phrasing.
func Collaboration(text string) float64 {
	switch n := countPhrases(strings.ToLower(text), collaborativeKeywords); {
	case n >= 2:
		return 0.9
	case n == 1:
		return 0.7
	default:
		return 0.0
	}
}

// Avoidance scores requests to postpone or withdraw from the discussion.
// Complaints about a postponement ("postponed twice already") are not
// avoidance.
func Avoidance(text string) float64 {
	lower := strings.ToLower(text)
	strong := countPhrases(lower, strongAvoidance)
	weak := countPhrases(lower, weakAvoidance)
	if weak > 0 && countPhrases(lower, assertiveContext) > 0 {
		weak = 0
	}

	switch {
	case strong >= 2:
		return 0.95
	case strong >= 1:
		return 0.80
	case weak > 0:
		return 0.30
	default:
		return 0.0
	}
}

// uniqueWords splits on whitespace and drops duplicates, keeping order.
func uniqueWords(s string) []string {
	fields := strings.Fields(s)
	seen := make(map[string]struct{}, len(fields))
	out := fields[:0]
	for _, f := range fields {
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out
}

// countWords counts the words that contain at least one keyword.
func countWords(words, keywords []string) int {
	n := 0
	for _, w := range words {
		for _, kw := range keywords {
			if strings.Contains(w, kw) {
				n++
				break
			}
		}
	}
	return n
}

// countPhrases counts the keywords that occur anywhere in text.
func countPhrases(text string, keywords []string) int {
	n := 0
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			n++
		}
	}
	return n
}
