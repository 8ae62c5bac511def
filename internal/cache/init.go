package cache

import (
	"github.com/firmledger/firmledger/internal/config"
	"github.com/firmledger/firmledger/internal/logger"
)

// CacheType represents the type of cache to use
type CacheType string

const (
	// CacheTypeInMemory represents an in-memory cache
	CacheTypeInMemory CacheType = "inmemory"
)

// Initialize initializes the cache system based on the configured type.
// Only the in-memory backend exists today; unknown types fall back to it.
func Initialize(cfg *config.Configuration, log *logger.Logger) Cache {
	log.Infow("initializing cache system", "type", cfg.Cache.Type)

	InitializeInMemoryCache()
	return GetInMemoryCache()
}
