package cache

import (
	"fmt"

	"github.com/amparo/backoffice/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Factory creates read-model caches based on configuration
type Factory struct {
	cacheConfig config.CacheConfig
	redisConfig config.RedisConfig
	logger      *zap.Logger
}

// FactoryOption is a functional option for configuring the factory
type FactoryOption func(*Factory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) FactoryOption {
	return func(f *Factory) {
		f.logger = logger
	}
}

// NewFactory creates a new cache factory
func NewFactory(cacheCfg config.CacheConfig, redisCfg config.RedisConfig, opts ...FactoryOption) *Factory {
	f := &Factory{
		cacheConfig: cacheCfg,
		redisConfig: redisCfg,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Create creates a cache for the configured backend. When Redis is selected
// but unreachable and fallback is allowed, an in-memory cache is returned
// instead; in-memory state is not shared across instances, so multi-instance
// deployments should not rely on the fallback.
func (f *Factory) Create() (ReadModelCache, error) {
	if f.cacheConfig.Backend != "redis" {
		return NewInMemoryCache(), nil
	}

	store, err := NewRedisCache(RedisConfig{
		Addr:     f.redisConfig.Addr(),
		Password: f.redisConfig.Password,
		DB:       f.redisConfig.DB,
	})
	if err == nil {
		f.logger.Info("Using Redis read-model cache", zap.String("addr", f.redisConfig.Addr()))
		return store, nil
	}

	if !f.cacheConfig.AllowFallback {
		return nil, fmt.Errorf("failed to create Redis cache: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory read-model cache",
		zap.Error(err))
	return NewInMemoryCache(), nil
}
