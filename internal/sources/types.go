package sources

import (
	"context"

	"leadminer-engine/internal/domain"
)

// Fetcher pulls raw items from one upstream provider and normalizes them into
// the common shape. Fetchers own all network access; the pipeline never sees
// a transport error, only whatever was successfully fetched.
type Fetcher interface {
	Name() string
	// Kind is the pipeline group this fetcher feeds (pipeline.Kind*).
	Kind() string
	Fetch(ctx context.Context) ([]domain.RawItem, error)
}
