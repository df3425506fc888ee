package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/kokuren333/BiimSlideMaker/application/ports/outbound"
	"github.com/kokuren333/BiimSlideMaker/config"
)

type speakerStylePayload struct {
	Name string      `json:"name"`
	ID   json.Number `json:"id"`
}

type speakerPayload struct {
	Name   string                `json:"name"`
	Styles []speakerStylePayload `json:"styles"`
}

// voicevoxClient speaks the VOICEVOX-compatible engine API (AivisSpeech and
// friends): /speakers, /initialize_speaker, /audio_query, /synthesis.
// Synthesis is two-phase: the query blob from /audio_query is passed verbatim
// to /synthesis.
type voicevoxClient struct {
	ContentFetcher
	baseURL          string
	queryTimeout     time.Duration
	synthesisTimeout time.Duration
}

func NewVoicevoxClient(contentFetcher ContentFetcher, engineConfig *config.Engine) outbound.SynthesizerPort {
	return &voicevoxClient{
		ContentFetcher:   contentFetcher,
		baseURL:          strings.TrimRight(engineConfig.BaseURL, "/"),
		queryTimeout:     time.Duration(engineConfig.QueryTimeoutSeconds) * time.Second,
		synthesisTimeout: time.Duration(engineConfig.SynthesisTimeoutSeconds) * time.Second,
	}
}

func (v *voicevoxClient) ListSpeakers(ctx context.Context) ([]outbound.SpeakerStyle, error) {
	ctx, cancel := context.WithTimeout(ctx, v.queryTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.baseURL+"/speakers", nil)
	if err != nil {
		return nil, err
	}
	payload, err := v.FetchContent(req)
	if err != nil {
		return nil, err
	}

	var speakers []speakerPayload
	if err := json.Unmarshal(payload, &speakers); err != nil {
		return nil, fmt.Errorf("decode speakers response: %w", err)
	}

	styles := make([]outbound.SpeakerStyle, 0, len(speakers))
	for _, speaker := range speakers {
		for _, style := range speaker.Styles {
			styles = append(styles, outbound.SpeakerStyle{
				SpeakerName: speaker.Name,
				StyleName:   style.Name,
				StyleID:     style.ID.String(),
			})
		}
	}
	return styles, nil
}

func (v *voicevoxClient) InitializeSpeaker(ctx context.Context, voiceID string) error {
	ctx, cancel := context.WithTimeout(ctx, v.synthesisTimeout)
	defer cancel()

	query := url.Values{}
	query.Set("speaker", voiceID)
	query.Set("skip_reinit", strconv.FormatBool(true))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		v.baseURL+"/initialize_speaker?"+query.Encode(), nil)
	if err != nil {
		return err
	}
	_, err = v.FetchContent(req)
	return err
}

func (v *voicevoxClient) AudioQuery(ctx context.Context, voiceID string, text string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, v.queryTimeout)
	defer cancel()

	query := url.Values{}
	query.Set("text", text)
	query.Set("speaker", voiceID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		v.baseURL+"/audio_query?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}
	return v.FetchContent(req)
}

func (v *voicevoxClient) Synthesize(ctx context.Context, voiceID string, queryBlob []byte) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, v.synthesisTimeout)
	defer cancel()

	query := url.Values{}
	query.Set("speaker", voiceID)
	query.Set("enable_interrogative_upspeak", "true")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		v.baseURL+"/synthesis?"+query.Encode(), bytes.NewReader(queryBlob))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/wav")
	return v.FetchContent(req)
}
