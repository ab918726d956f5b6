package metadata

import (
	"context"
)

// Repository is a small key/value store over the local metadata table.
// Get returns (nil, nil) for a missing key.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
