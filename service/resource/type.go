package resource

import (
	"context"

	"github.com/DraculaSOTD/AHI-Flutter-Body-sub002/model"
)

// IService locates model resources and returns their decrypted bytes.
type IService interface {
	Resolve(ctx context.Context, d model.ResourceDescriptor) ([]byte, error)
	// ResolveBatch resolves every name or fails with CodeModelsMissing; it
	// never returns a partial set.
	ResolveBatch(ctx context.Context, names []string, typ model.ResourceType, sex *model.Sex) (map[string][]byte, error)
}
