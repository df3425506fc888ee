package inbound

// ScriptSplitterPort breaks narration text into ordered speakable units.
// Implementations must be pure: same input, same output, no side effects.
type ScriptSplitterPort interface {
	Split(text string) []string
}
