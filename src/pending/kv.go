package pending

import (
	"context"
	"fmt"

	"github.com/warp-contracts/arns/src/utils/config"
)

// Raw storage of the pending interactions. Values are JSON arrays of interactions.
type KV interface {
	// Returns false if the key doesn't exist
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context) ([]string, error)
	Close() error
}

const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Creates the backend selected in the configuration
func NewKV(ctx context.Context, config *config.Config) (KV, error) {
	switch config.Store.Backend {
	case BackendMemory, "":
		return NewMemoryKV(), nil
	case BackendRedis:
		return NewRedisKV(ctx, config)
	case BackendPostgres:
		return NewPostgresKV(ctx, config)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, config.Store.Backend)
}
