package service

import (
	"github.com/firmledger/firmledger/internal/cache"
	"github.com/firmledger/firmledger/internal/config"
	"github.com/firmledger/firmledger/internal/domain/dunning"
	"github.com/firmledger/firmledger/internal/logger"
)

// ServiceParams holds the dependencies shared by all services
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration
	Cache  cache.Cache

	EscalationPolicyRepo dunning.Repository
}
