// Package agent drives the tutor's conversation: it parses model output into
// tool calls or final answers and runs the small tool loop around them.
package agent

import "strings"

const (
	finalAnswerMarker = "Final Answer:"
	actionMarker      = "Action:"
	actionInputMarker = "Action Input:"
)

// Step is what the model asked for next. It is either a ToolInvocation or a
// FinalAnswer.
type Step interface {
	step()
}

type ToolInvocation struct {
	Name  string
	Input string
}

type FinalAnswer struct {
	Text string
}

func (ToolInvocation) step() {}
func (FinalAnswer) step()    {}

// Parse reads one model reply. A "Final Answer:" marker always wins. A reply
// without a complete Action/Action Input pair is taken as the answer itself.
func Parse(text string) Step {
	if idx := strings.LastIndex(text, finalAnswerMarker); idx >= 0 {
		return FinalAnswer{Text: strings.TrimSpace(text[idx+len(finalAnswerMarker):])}
	}

	name, okName := lineAfter(text, actionMarker)
	input, okInput := lineAfter(text, actionInputMarker)
	if !okName || !okInput || name == "" {
		return FinalAnswer{Text: strings.TrimSpace(text)}
	}
	return ToolInvocation{Name: name, Input: input}
}

func lineAfter(text, marker string) (string, bool) {
	idx := strings.Index(text, marker)
	if idx < 0 {
		return "", false
	}
	rest := text[idx+len(marker):]
	if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
		rest = rest[:nl]
	}
	return strings.TrimSpace(rest), true
}
