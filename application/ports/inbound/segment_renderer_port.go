package inbound

import (
	"context"

	"github.com/kokuren333/BiimSlideMaker/domain"
)

// SegmentRendererPort produces one finished video segment per manifest slide.
// Failures are collected across slides; err is a *domain.RenderReport when
// any slide failed, alongside the segments that did succeed.
type SegmentRendererPort interface {
	RenderAll(ctx context.Context, manifest *domain.Manifest) ([]domain.VideoSegment, error)
}
