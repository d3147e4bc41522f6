package extract

import (
	"regexp"
	"strings"
)

// Utterance segmentation: sentence punctuation ends a segment, and the
// connectives below start a new one. Colon-introduced enumerations stay
// inside their segment ("Buy groceries: milk, bread, eggs" is one action).
var (
	sentenceSplitPattern   = regexp.MustCompile(`[.;!?]+\s*`)
	connectiveSplitPattern = regexp.MustCompile(`(?i)\s+(?:and then|also|then)\s+`)
	leadingFillerPattern   = regexp.MustCompile(`(?i)^(?:also|then|and then|and|please|okay|ok|so)[\s,]+`)
	titlePattern           = regexp.MustCompile(`(?i)^(?:i need to|i have to|i want to|remind me to|remember to)\s+`)
)

// Words that, alone, carry no actionable content.
var fillerWords = map[string]struct{}{
	"": {}, "also": {}, "then": {}, "and": {}, "ok": {}, "okay": {},
	"please": {}, "thanks": {}, "thank you": {}, "yes": {}, "no": {},
}

// Result carries the extracted actions and an optional inferred title
// summarizing the whole utterance.
type Result struct {
	Actions []string `json:"actions"`
	Title   string   `json:"title,omitempty"`
}

// Actions segments a raw utterance into candidate task descriptions. It
// never fails: when nothing actionable survives filtering, the trimmed
// utterance itself is the single action.
func Actions(text string) Result {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Result{}
	}

	var actions []string
	titled := false
	for _, sentence := range sentenceSplitPattern.Split(trimmed, -1) {
		for _, segment := range connectiveSplitPattern.Split(sentence, -1) {
			action, hadPrefix := cleanSegment(segment)
			if action == "" {
				continue
			}
			if len(actions) == 0 && hadPrefix {
				titled = true
			}
			actions = append(actions, action)
		}
	}

	if len(actions) == 0 {
		// Worst case the whole utterance is the single action. Pure
		// punctuation yields nothing at all.
		if fallback := trimTrailingPunct(trimmed); fallback != "" {
			actions = []string{fallback}
		} else {
			return Result{}
		}
	}

	title := ""
	if titled {
		// "I need to plan the garden. Buy seeds." titles the whole
		// utterance after its first action.
		title = actions[0]
	}
	return Result{Actions: actions, Title: title}
}

func cleanSegment(segment string) (action string, hadTitlePrefix bool) {
	s := strings.TrimSpace(segment)
	s = leadingFillerPattern.ReplaceAllString(s, "")
	stripped := titlePattern.ReplaceAllString(s, "")
	hadTitlePrefix = stripped != s
	s = trimTrailingPunct(stripped)
	if _, filler := fillerWords[strings.ToLower(s)]; filler {
		return "", false
	}
	if len(s) < 3 {
		return "", false
	}
	return s, hadTitlePrefix
}

func trimTrailingPunct(s string) string {
	return strings.TrimRight(strings.TrimSpace(s), ".,;!? ")
}
