package outbound

import "github.com/kokuren333/BiimSlideMaker/domain"

// ManifestStorePort persists pipeline progress. Save must be atomic from the
// caller's perspective; Load returns (nil, nil) when no manifest exists yet.
type ManifestStorePort interface {
	Load() (*domain.Manifest, error)
	Save(manifest *domain.Manifest) error
}
