package service

import (
	"context"
	"fmt"

	"github.com/firmledger/firmledger/internal/api/dto"
	"github.com/firmledger/firmledger/internal/cache"
	"github.com/firmledger/firmledger/internal/domain/dunning"
	ierr "github.com/firmledger/firmledger/internal/errors"
	"github.com/firmledger/firmledger/internal/types"
)

// EscalationPolicyService manages the billing escalation configuration: the
// reminder template set, the payment retry schedule and the terminal final
// action. Every mutation is all-or-nothing and persists through the
// repository on success.
type EscalationPolicyService interface {
	// GetPolicy returns the stored policy, materializing defaults on first read
	GetPolicy(ctx context.Context) (*dto.EscalationPolicyResponse, error)

	// SavePolicy replaces the whole configuration in one validated save
	SavePolicy(ctx context.Context, req *dto.SaveEscalationPolicyRequest) (*dto.EscalationPolicyResponse, error)

	// CreateTemplate adds a new after-due reminder
	CreateTemplate(ctx context.Context, req *dto.CreateReminderTemplateRequest) (*dto.ReminderTemplateResponse, error)

	// UpdateTemplate replaces a template's editable fields
	UpdateTemplate(ctx context.Context, id string, req *dto.UpdateReminderTemplateRequest) (*dto.ReminderTemplateResponse, error)

	// DeleteTemplate removes a reminder; the terminal template is protected
	DeleteTemplate(ctx context.Context, id string) error

	// ChangeDayTrigger moves an after-due template to a new day, cascading
	// the change into its name and subject
	ChangeDayTrigger(ctx context.Context, req *dto.ChangeDayTriggerRequest) (*dto.ReminderTemplateResponse, error)

	// SetDaysBeforeDue selects a before-due preset for a template
	SetDaysBeforeDue(ctx context.Context, req *dto.SetDaysBeforeDueRequest) (*dto.ReminderTemplateResponse, error)

	// UpdateRetrySchedule updates one retry slot
	UpdateRetrySchedule(ctx context.Context, req *dto.UpdateRetryScheduleRequest) (*dto.EscalationPolicyResponse, error)

	// UpdateFinalAction switches the terminal action
	UpdateFinalAction(ctx context.Context, req *dto.UpdateFinalActionRequest) (*dto.EscalationPolicyResponse, error)

	// SetTemplateFinalStatus updates the terminal marker on a template
	SetTemplateFinalStatus(ctx context.Context, req *dto.SetTemplateFinalStatusRequest) (*dto.ReminderTemplateResponse, error)

	// ResetToDefaults discards all customizations
	ResetToDefaults(ctx context.Context) (*dto.EscalationPolicyResponse, error)

	// GetTimeline returns the derived escalation timeline
	GetTimeline(ctx context.Context) (*dto.EscalationTimelineResponse, error)

	// PreviewTemplate renders a template with merge-field values
	PreviewTemplate(ctx context.Context, req *dto.PreviewTemplateRequest) (*dto.PreviewTemplateResponse, error)
}

type escalationPolicyService struct {
	ServiceParams
}

// NewEscalationPolicyService creates a new escalation policy service
func NewEscalationPolicyService(params ServiceParams) EscalationPolicyService {
	return &escalationPolicyService{
		ServiceParams: params,
	}
}

func (s *escalationPolicyService) GetPolicy(ctx context.Context) (*dto.EscalationPolicyResponse, error) {
	if cached, ok := s.cachedPolicy(ctx); ok {
		return cached, nil
	}

	policy, err := s.loadOrDefault(ctx)
	if err != nil {
		return nil, err
	}

	resp := dto.NewEscalationPolicyResponse(policy)
	s.cachePolicy(ctx, resp)
	return resp, nil
}

func (s *escalationPolicyService) SavePolicy(ctx context.Context, req *dto.SaveEscalationPolicyRequest) (*dto.EscalationPolicyResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	policy := req.ToPolicy(ctx)
	if err := policy.Validate(); err != nil {
		return nil, err
	}

	if err := s.savePolicy(ctx, policy); err != nil {
		return nil, err
	}

	s.Logger.Infow("escalation policy saved",
		"tenant_id", types.GetTenantID(ctx),
		"templates", len(policy.Templates),
		"final_action", policy.FinalAction,
	)

	return dto.NewEscalationPolicyResponse(policy), nil
}

func (s *escalationPolicyService) CreateTemplate(ctx context.Context, req *dto.CreateReminderTemplateRequest) (*dto.ReminderTemplateResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	policy, err := s.loadOrDefault(ctx)
	if err != nil {
		return nil, err
	}

	template := req.ToReminderTemplate(ctx)
	if err := policy.AddTemplate(template); err != nil {
		return nil, err
	}

	if err := s.savePolicy(ctx, policy); err != nil {
		return nil, err
	}

	s.Logger.Infow("reminder template created",
		"template_id", template.ID,
		"day", template.DayTrigger.Days,
		"tenant_id", types.GetTenantID(ctx),
	)

	return dto.NewReminderTemplateResponse(template), nil
}

func (s *escalationPolicyService) UpdateTemplate(ctx context.Context, id string, req *dto.UpdateReminderTemplateRequest) (*dto.ReminderTemplateResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	policy, err := s.loadOrDefault(ctx)
	if err != nil {
		return nil, err
	}

	existing, err := policy.Template(id)
	if err != nil {
		return nil, err
	}

	updated := req.ApplyTo(existing)
	if err := policy.UpdateTemplate(updated); err != nil {
		return nil, err
	}

	if err := s.savePolicy(ctx, policy); err != nil {
		return nil, err
	}

	return dto.NewReminderTemplateResponse(updated), nil
}

func (s *escalationPolicyService) DeleteTemplate(ctx context.Context, id string) error {
	policy, err := s.loadOrDefault(ctx)
	if err != nil {
		return err
	}

	if err := policy.DeleteTemplate(id); err != nil {
		return err
	}

	if err := s.savePolicy(ctx, policy); err != nil {
		return err
	}

	s.Logger.Infow("reminder template deleted",
		"template_id", id,
		"tenant_id", types.GetTenantID(ctx),
	)
	return nil
}

func (s *escalationPolicyService) ChangeDayTrigger(ctx context.Context, req *dto.ChangeDayTriggerRequest) (*dto.ReminderTemplateResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	policy, err := s.loadOrDefault(ctx)
	if err != nil {
		return nil, err
	}

	day, err := policy.ChangeDayTrigger(req.TemplateID, req.NewDay)
	if err != nil {
		return nil, err
	}

	if err := s.savePolicy(ctx, policy); err != nil {
		return nil, err
	}

	template, err := policy.Template(req.TemplateID)
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("day trigger changed",
		"template_id", req.TemplateID,
		"requested_day", req.NewDay,
		"applied_day", day,
		"tenant_id", types.GetTenantID(ctx),
	)

	return dto.NewReminderTemplateResponse(template), nil
}

func (s *escalationPolicyService) SetDaysBeforeDue(ctx context.Context, req *dto.SetDaysBeforeDueRequest) (*dto.ReminderTemplateResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	policy, err := s.loadOrDefault(ctx)
	if err != nil {
		return nil, err
	}

	if err := policy.SetDaysBeforeDue(req.TemplateID, req.DaysBeforeDue); err != nil {
		return nil, err
	}

	if err := s.savePolicy(ctx, policy); err != nil {
		return nil, err
	}

	template, err := policy.Template(req.TemplateID)
	if err != nil {
		return nil, err
	}
	return dto.NewReminderTemplateResponse(template), nil
}

func (s *escalationPolicyService) UpdateRetrySchedule(ctx context.Context, req *dto.UpdateRetryScheduleRequest) (*dto.EscalationPolicyResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	policy, err := s.loadOrDefault(ctx)
	if err != nil {
		return nil, err
	}

	if err := policy.SetRetryDays(req.Slot, req.Days); err != nil {
		return nil, err
	}

	if err := s.savePolicy(ctx, policy); err != nil {
		return nil, err
	}

	return dto.NewEscalationPolicyResponse(policy), nil
}

func (s *escalationPolicyService) UpdateFinalAction(ctx context.Context, req *dto.UpdateFinalActionRequest) (*dto.EscalationPolicyResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	policy, err := s.loadOrDefault(ctx)
	if err != nil {
		return nil, err
	}

	if err := policy.SetFinalAction(req.FinalAction); err != nil {
		return nil, err
	}

	if err := s.savePolicy(ctx, policy); err != nil {
		return nil, err
	}

	s.Logger.Infow("final action updated",
		"final_action", req.FinalAction,
		"tenant_id", types.GetTenantID(ctx),
	)

	return dto.NewEscalationPolicyResponse(policy), nil
}

func (s *escalationPolicyService) SetTemplateFinalStatus(ctx context.Context, req *dto.SetTemplateFinalStatusRequest) (*dto.ReminderTemplateResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	policy, err := s.loadOrDefault(ctx)
	if err != nil {
		return nil, err
	}

	if err := policy.SetTemplateFinalStatus(req.TemplateID, req.FinalStatus); err != nil {
		return nil, err
	}

	if err := s.savePolicy(ctx, policy); err != nil {
		return nil, err
	}

	template, err := policy.Template(req.TemplateID)
	if err != nil {
		return nil, err
	}
	return dto.NewReminderTemplateResponse(template), nil
}

func (s *escalationPolicyService) ResetToDefaults(ctx context.Context) (*dto.EscalationPolicyResponse, error) {
	policy, err := s.loadOrDefault(ctx)
	if err != nil {
		return nil, err
	}

	policy.ResetToDefaults()

	if err := s.savePolicy(ctx, policy); err != nil {
		return nil, err
	}

	s.Logger.Infow("escalation policy reset to defaults",
		"tenant_id", types.GetTenantID(ctx),
	)

	return dto.NewEscalationPolicyResponse(policy), nil
}

func (s *escalationPolicyService) GetTimeline(ctx context.Context) (*dto.EscalationTimelineResponse, error) {
	policy, err := s.loadOrDefault(ctx)
	if err != nil {
		return nil, err
	}
	return dto.NewEscalationTimelineResponse(dunning.BuildTimeline(policy)), nil
}

// loadOrDefault fetches the stored policy, materializing and persisting the
// default configuration on first read.
func (s *escalationPolicyService) loadOrDefault(ctx context.Context) (*dunning.EscalationPolicy, error) {
	policy, err := s.EscalationPolicyRepo.Get(ctx)
	if err == nil {
		return policy, nil
	}
	if !ierr.IsNotFound(err) {
		return nil, err
	}

	policy = dunning.DefaultPolicy(ctx)
	if err := s.EscalationPolicyRepo.Save(ctx, policy); err != nil {
		return nil, err
	}

	s.Logger.Debugw("materialized default escalation policy",
		"tenant_id", types.GetTenantID(ctx),
		"environment_id", types.GetEnvironmentID(ctx),
	)
	return policy, nil
}

func (s *escalationPolicyService) savePolicy(ctx context.Context, policy *dunning.EscalationPolicy) error {
	if err := s.EscalationPolicyRepo.Save(ctx, policy); err != nil {
		return err
	}
	s.invalidateCache(ctx)
	return nil
}

func (s *escalationPolicyService) policyCacheKey(ctx context.Context) string {
	return fmt.Sprintf("dunning:policy:%s:%s", types.GetTenantID(ctx), types.GetEnvironmentID(ctx))
}

func (s *escalationPolicyService) cachedPolicy(ctx context.Context) (*dto.EscalationPolicyResponse, bool) {
	if s.Cache == nil {
		return nil, false
	}
	value, ok := s.Cache.Get(ctx, s.policyCacheKey(ctx))
	if !ok {
		return nil, false
	}
	return cache.TypedGet[dto.EscalationPolicyResponse](value)
}

func (s *escalationPolicyService) cachePolicy(ctx context.Context, resp *dto.EscalationPolicyResponse) {
	if s.Cache == nil {
		return
	}
	s.Cache.Set(ctx, s.policyCacheKey(ctx), resp, cache.ExpiryDefault)
}

func (s *escalationPolicyService) invalidateCache(ctx context.Context) {
	if s.Cache == nil {
		return
	}
	s.Cache.Delete(ctx, s.policyCacheKey(ctx))
}
