package outbound

import (
	"context"

	"github.com/kokuren333/BiimSlideMaker/domain"
)

// RenderSegmentParams describes one slide's segment render: a static
// composited frame held for the duration of the concatenated narration.
type RenderSegmentParams struct {
	Slide           domain.Slide
	AudioPaths      []string
	CaptionText     string
	OutputPath      string
	DurationSeconds float64
	Silent          bool
}

// EncoderPort is the command contract with the external codec engine.
// Concatenate must be lossless (container-level, no re-encode); MixBackground
// loops or trims the bed under the existing narration track.
type EncoderPort interface {
	RenderSegment(ctx context.Context, params RenderSegmentParams) error
	Concatenate(ctx context.Context, segmentPaths []string, outputPath string) error
	MixBackground(ctx context.Context, videoPath string, bgmPath string, gain float64, outputPath string) error
}
