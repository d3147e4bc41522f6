package extract

import (
	"regexp"
	"strings"
)

// Project hints name a target list inline: "add milk to my shopping list",
// "in the work project". The captured phrase feeds the project matcher.
var projectHintPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(?:to|in|into|on|under|for)\s+(?:my|the|our)?\s*([\w][\w\s]{0,40}?)\s+(?:project|list)\b`),
	regexp.MustCompile(`(?i)\bproject\s+([\w][\w\s]{0,40}?)(?:[.,;!?]|$)`),
}

// Date hint keywords scanned out of the original utterance so the engine can
// skip the date prompt when the user already said when.
var dateHintPattern = regexp.MustCompile(`(?i)\b(today|tonight|tomorrow|yesterday|next week|next month|(?:this |next |on )?(?:monday|tuesday|wednesday|thursday|friday|saturday|sunday)|in \d+ days?|\d{4}-\d{2}-\d{2})\b`)

// ProjectHint returns the first inline project phrase found in the
// utterance, or "" when none was named.
func ProjectHint(text string) string {
	for _, pattern := range projectHintPatterns {
		if m := pattern.FindStringSubmatch(text); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

// DateHint returns the first date expression found in the utterance, or ""
// when none was named.
func DateHint(text string) string {
	return strings.ToLower(strings.TrimSpace(dateHintPattern.FindString(text)))
}

// StripProjectHint removes the matched project phrase from an action so task
// content does not repeat the routing information.
func StripProjectHint(action string) string {
	out := action
	for _, pattern := range projectHintPatterns {
		out = pattern.ReplaceAllString(out, " ")
	}
	out = strings.Join(strings.Fields(out), " ")
	return trimTrailingPunct(out)
}
