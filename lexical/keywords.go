package lexical

// Keyword sets are matched against lower-cased text. They are read-only.
var (
	// acceptanceKeywords mark accepting or accommodating replies.
	acceptanceKeywords = []string{
		"ok", "okay", "yes", "agree", "agreed", "will do", "let us", "let's do",
		"sounds good", "that works", "fine", "alright", "sure", "absolutely",
		"certainly", "understood", "no problem", "that's fine", "acceptable",
		"i understand", "makes sense", "appreciate", "thank you", "thanks",
		"i accept", "accepted", "good", "great", "perfect", "exactly",
	}

	collaborativeKeywords = []string{
		"understand", "frustration", "solution", "works for both",
		"find a solution", "let's see", "let us see", "i understand",
		"empathy", "help", "work together", "both of us", "mutual",
	}

	assertiveKeywords = []string{
		"need", "must", "have to", "should", "require", "demand", "insist",
		"postponed", "twice", "again", "urgent", "immediately", "now",
		"schedule", "today", "asap",
	}

	resistanceKeywords = []string{
		"but", "however", "disagree", "no", "never", "cannot", "can't", "won't",
		"refuse", "not", "don't", "doesn't", "argument", "problem",
		"issue", "wrong", "busy", "later", "delay", "postpone",
	}

	// strongAvoidance asks to put the discussion off.
	strongAvoidance = []string{"can we discuss", "can we", "later?", "busy right now", "busy"}

	// weakAvoidance may also appear in a complaint about being put off.
	weakAvoidance = []string{"postponed", "delay"}

	// assertiveContext turns a weak avoidance term into a complaint.
	assertiveContext = []string{"twice", "already", "schedule", "today", "need"}
)
