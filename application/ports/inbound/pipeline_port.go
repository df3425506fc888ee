package inbound

import (
	"context"

	"github.com/kokuren333/BiimSlideMaker/domain"
)

// PipelinePort exposes the three pipeline stages plus the full run: rasterize
// slides, synthesize narration into the manifest, render and assemble the
// video. Each stage can run on its own so long runs resume mid-pipeline.
type PipelinePort interface {
	GenerateSlides(ctx context.Context) error
	GenerateAudio(ctx context.Context) (*domain.Manifest, error)
	AssembleVideo(ctx context.Context) (string, error)
	RunAll(ctx context.Context) (string, error)
}
