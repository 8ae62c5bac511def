package inmemory

import (
	"context"
	"fmt"
	"sync"

	"github.com/firmledger/firmledger/internal/domain/dunning"
	ierr "github.com/firmledger/firmledger/internal/errors"
	"github.com/firmledger/firmledger/internal/types"
)

// EscalationPolicyStore is an in-memory implementation of dunning.Repository,
// keyed by tenant and environment. The host application swaps this for its
// own persistence; the escalation core only needs the save/load boundary.
type EscalationPolicyStore struct {
	mu       sync.RWMutex
	policies map[string]*dunning.EscalationPolicy
}

// NewEscalationPolicyStore creates a new in-memory escalation policy store
func NewEscalationPolicyStore() *EscalationPolicyStore {
	return &EscalationPolicyStore{
		policies: make(map[string]*dunning.EscalationPolicy),
	}
}

func policyKey(ctx context.Context) string {
	return fmt.Sprintf("%s:%s", types.GetTenantID(ctx), types.GetEnvironmentID(ctx))
}

func (s *EscalationPolicyStore) Get(ctx context.Context) (*dunning.EscalationPolicy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	policy, ok := s.policies[policyKey(ctx)]
	if !ok {
		return nil, ierr.NewError("escalation policy not found").
			WithHint("No escalation policy has been saved for this tenant").
			WithReportableDetails(map[string]any{
				"tenant_id":      types.GetTenantID(ctx),
				"environment_id": types.GetEnvironmentID(ctx),
			}).
			Mark(ierr.ErrNotFound)
	}
	return policy.Copy(), nil
}

func (s *EscalationPolicyStore) Save(ctx context.Context, policy *dunning.EscalationPolicy) error {
	if policy == nil {
		return ierr.NewError("policy cannot be nil").
			WithHint("Policy cannot be nil").
			Mark(ierr.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.policies[policyKey(ctx)] = policy.Copy()
	return nil
}

// Clear drops all stored policies. Used by tests.
func (s *EscalationPolicyStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.policies = make(map[string]*dunning.EscalationPolicy)
}
