package external

import (
	"fmt"

	"climacast.app/internal/config"
	"climacast.app/internal/ports"
	"climacast.app/pkg/errors"
	"github.com/jonboulle/clockwork"
)

type CacheProviderFactory struct {
	clock clockwork.Clock
}

func NewCacheProviderFactory(clock clockwork.Clock) *CacheProviderFactory {
	return &CacheProviderFactory{clock: clock}
}

func (f *CacheProviderFactory) CreateCacheProvider(cfg *config.CacheConfig) (ports.CacheProvider, error) {
	if cfg == nil {
		return nil, errors.NewConfigurationError("cache config cannot be nil", nil)
	}

	switch cfg.Type {
	case config.CacheTypeMemory:
		return NewMemoryCacheProvider(f.clock), nil
	case config.CacheTypeRedis:
		return NewRedisCacheProvider(&cfg.Redis)
	default:
		return nil, errors.NewConfigurationError(
			fmt.Sprintf("unsupported cache type: %s", cfg.Type.String()), nil)
	}
}
