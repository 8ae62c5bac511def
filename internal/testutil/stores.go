package testutil

import (
	"github.com/firmledger/firmledger/internal/repository/inmemory"
)

// Stores bundles the in-memory stores used by service tests
type Stores struct {
	EscalationPolicyRepo *inmemory.EscalationPolicyStore
}

// NewInMemoryStores creates a fresh set of in-memory stores
func NewInMemoryStores() *Stores {
	return &Stores{
		EscalationPolicyRepo: inmemory.NewEscalationPolicyStore(),
	}
}

// Clear resets all stores to their initial empty state
func (s *Stores) Clear() {
	s.EscalationPolicyRepo.Clear()
}
