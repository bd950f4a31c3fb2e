// Package quiz holds the question model shared by deck sources and rendering.
package quiz

import (
	"strings"
)

// Question is one multiple-choice question. Options are ordered A..D.
// Answer keeps the author's raw answer text ("d) Madrid", "D", "Madrid").
type Question struct {
	Number  int       `yaml:"number,omitempty"`
	Text    string    `yaml:"question"`
	Options [4]string `yaml:"options,flow"`
	Answer  string    `yaml:"answer"`
}

var optionKeys = [4]string{"a", "b", "c", "d"}

// AnswerIndex resolves the answer to an option index. Options are tried in
// order a..d: an option matches when the answer contains "x)" or starts with "x".
// ok is false when no option matches.
func (q Question) AnswerIndex() (index int, ok bool) {
	answer := strings.ToLower(strings.TrimSpace(q.Answer))
	if answer == "" {
		return -1, false
	}
	for i, k := range optionKeys {
		if strings.Contains(answer, k+")") || strings.HasPrefix(answer, k) {
			return i, true
		}
	}
	return -1, false
}

// OptionText returns option i without its leading "x)" marker.
func (q Question) OptionText(i int) string {
	return StripMarker(i, q.Options[i])
}

// StripMarker removes a leading "a)" style marker matching option i.
func StripMarker(i int, s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && strings.EqualFold(s[:2], optionKeys[i]+")") {
		return strings.TrimSpace(s[2:])
	}
	return s
}

// Label returns the on-screen label of option i: "A:".."D:".
func Label(i int) string {
	return strings.ToUpper(optionKeys[i]) + ":"
}
