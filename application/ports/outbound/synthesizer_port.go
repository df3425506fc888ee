package outbound

import "context"

// SpeakerStyle is one selectable voice style exposed by the speech engine.
type SpeakerStyle struct {
	SpeakerName string
	StyleName   string
	StyleID     string
}

// SynthesizerPort wraps the speech engine's two-phase synthesis API: a query
// call producing a prosody blob, then an audio call rendering it to bytes.
type SynthesizerPort interface {
	ListSpeakers(ctx context.Context) ([]SpeakerStyle, error)
	InitializeSpeaker(ctx context.Context, voiceID string) error
	AudioQuery(ctx context.Context, voiceID string, text string) ([]byte, error)
	Synthesize(ctx context.Context, voiceID string, query []byte) ([]byte, error)
}
