package inbound

import (
	"context"

	"github.com/kokuren333/BiimSlideMaker/domain"
)

// SynthesisDispatcherPort fans slide narration out to the speech engine and
// re-joins the results into a manifest. The returned manifest is complete
// even on partial failure; err is a *domain.SynthesisReport when any unit
// exhausted its retries.
type SynthesisDispatcherPort interface {
	SynthesizeAll(ctx context.Context, slides []domain.Slide) (*domain.Manifest, error)
}
