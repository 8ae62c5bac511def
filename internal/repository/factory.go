package repository

import (
	"github.com/firmledger/firmledger/internal/domain/dunning"
	"github.com/firmledger/firmledger/internal/logger"
	"github.com/firmledger/firmledger/internal/repository/inmemory"
)

// NewEscalationPolicyRepository returns the escalation policy repository.
// Persistence beyond the process lifetime belongs to the host application;
// the engine ships with the in-memory collaborator only.
func NewEscalationPolicyRepository(log *logger.Logger) dunning.Repository {
	log.Debugw("initializing escalation policy repository", "backend", "inmemory")
	return inmemory.NewEscalationPolicyStore()
}
