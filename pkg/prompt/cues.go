package prompt

import "strings"

// referentialCues are words that signal the question refers back to something
// the user saw earlier, in which case the knowledge-only prompt gets the page
// url/title as situational context.
var referentialCues = []string{"previous", "before", "last"}

// HasReferentialCue reports whether the question contains a referential cue.
// Matching is case-insensitive substring matching over the raw question text,
// never over the serialized prior-context block.
func HasReferentialCue(question string) bool {
	lowered := strings.ToLower(question)
	for _, cue := range referentialCues {
		if strings.Contains(lowered, cue) {
			return true
		}
	}
	return false
}
