package common

import (
	"context"

	"github.com/warp-contracts/arns/src/utils/config"
)

type ContextKey int

const (
	ContextKeyConfig ContextKey = iota
)

func SetConfig(ctx context.Context, config *config.Config) context.Context {
	return context.WithValue(ctx, ContextKeyConfig, config)
}

// Nil if the context carries no configuration
func GetConfig(ctx context.Context) (out *config.Config) {
	out, _ = ctx.Value(ContextKeyConfig).(*config.Config)
	return
}
