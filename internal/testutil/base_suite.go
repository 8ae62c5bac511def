package testutil

import (
	"context"

	"github.com/stretchr/testify/suite"

	"github.com/firmledger/firmledger/internal/cache"
	"github.com/firmledger/firmledger/internal/config"
	"github.com/firmledger/firmledger/internal/logger"
	"github.com/firmledger/firmledger/internal/types"
)

// BaseServiceTestSuite provides common functionality for service tests:
// a tenant-scoped context, a logger, a default configuration and fresh
// in-memory stores per test.
type BaseServiceTestSuite struct {
	suite.Suite
	ctx    context.Context
	stores *Stores
	log    *logger.Logger
	cfg    *config.Configuration
	cache  cache.Cache
}

// SetupSuite is called once before all tests in the suite
func (s *BaseServiceTestSuite) SetupSuite() {
	s.cfg = config.GetDefaultConfig()

	log, err := logger.NewLogger(s.cfg)
	if err != nil {
		s.T().Fatalf("failed to create logger: %v", err)
	}
	s.log = log
}

// SetupTest is called before each test
func (s *BaseServiceTestSuite) SetupTest() {
	s.setupContext()
	s.stores = NewInMemoryStores()
	cache.InitializeInMemoryCache()
	s.cache = cache.GetInMemoryCache()
	s.cache.Flush(s.ctx)
}

// TearDownTest is called after each test
func (s *BaseServiceTestSuite) TearDownTest() {
	s.stores.Clear()
	s.cache.Flush(s.ctx)
}

func (s *BaseServiceTestSuite) setupContext() {
	ctx := context.Background()
	ctx = types.SetTenantID(ctx, types.DefaultTenantID)
	ctx = types.SetEnvironmentID(ctx, types.DefaultEnvironmentID)
	ctx = types.SetUserID(ctx, types.DefaultUserID)
	ctx = types.SetRequestID(ctx, types.GenerateUUIDWithPrefix(types.UUID_PREFIX_REQUEST))
	s.ctx = ctx
}

// GetContext returns the tenant-scoped test context
func (s *BaseServiceTestSuite) GetContext() context.Context {
	return s.ctx
}

// GetStores returns the current in-memory stores
func (s *BaseServiceTestSuite) GetStores() *Stores {
	return s.stores
}

// GetLogger returns the suite logger
func (s *BaseServiceTestSuite) GetLogger() *logger.Logger {
	return s.log
}

// GetConfig returns the test configuration
func (s *BaseServiceTestSuite) GetConfig() *config.Configuration {
	return s.cfg
}

// GetCache returns the test cache
func (s *BaseServiceTestSuite) GetCache() cache.Cache {
	return s.cache
}
