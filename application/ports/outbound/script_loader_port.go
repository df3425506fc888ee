package outbound

import "github.com/kokuren333/BiimSlideMaker/domain"

// ScriptLoaderPort parses the slide script document into ordered slides.
type ScriptLoaderPort interface {
	LoadSlides(path string) ([]domain.Slide, error)
}
