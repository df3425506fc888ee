package inbound

import (
	"context"

	"github.com/kokuren333/BiimSlideMaker/domain"
)

// TimelineAssemblerPort concatenates segments in slide order and mixes the
// background audio bed, returning the final artifact path.
type TimelineAssemblerPort interface {
	Assemble(ctx context.Context, segments []domain.VideoSegment) (string, error)
}
