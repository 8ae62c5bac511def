package dunning

import "context"

// Repository is the persistence collaborator for escalation policies. The
// tenant and environment are taken from the context; a tenant has exactly one
// policy per environment.
type Repository interface {
	// Get retrieves the stored policy, or ErrNotFound when the tenant has
	// never saved one.
	Get(ctx context.Context) (*EscalationPolicy, error)

	// Save persists the full policy (templates, retry schedule, final action)
	Save(ctx context.Context, policy *EscalationPolicy) error
}
