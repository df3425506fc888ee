package services

import (
	"strings"
	"unicode"

	"github.com/kokuren333/BiimSlideMaker/application/ports/inbound"
)

// terminalPunctuation is the set of characters that already close a clause;
// a clause ending without one gets a Japanese full stop appended so the
// speech engine phrases it as a finished sentence.
var terminalPunctuation = map[rune]bool{
	'。': true,
	'！': true,
	'？': true,
	'!': true,
	'?': true,
	'.': true,
}

type scriptSplitter struct {
	terminators map[rune]bool
}

// NewScriptSplitter builds a splitter over a configured terminator set. The
// grammar is data, not a pattern: each terminator rune ends the current
// clause, punctuation terminators stay attached to it.
func NewScriptSplitter(terminators []string) inbound.ScriptSplitterPort {
	set := make(map[rune]bool)
	for _, terminator := range terminators {
		for _, r := range terminator {
			set[r] = true
		}
	}
	return &scriptSplitter{terminators: set}
}

func (s *scriptSplitter) Split(text string) []string {
	cleaned := strings.ReplaceAll(text, "\r", "")
	units := make([]string, 0)
	var current strings.Builder

	flush := func() {
		clause := strings.TrimSpace(current.String())
		current.Reset()
		if clause == "" {
			return
		}
		if !terminalPunctuation[lastRune(clause)] {
			clause += "。"
		}
		units = append(units, clause)
	}

	for _, r := range cleaned {
		if s.terminators[r] {
			if !unicode.IsSpace(r) {
				current.WriteRune(r)
			}
			flush()
			continue
		}
		current.WriteRune(r)
	}
	flush()

	if len(units) == 0 {
		if whole := strings.TrimSpace(cleaned); whole != "" {
			units = append(units, whole)
		}
	}
	return units
}

func lastRune(s string) rune {
	var last rune
	for _, r := range s {
		last = r
	}
	return last
}
