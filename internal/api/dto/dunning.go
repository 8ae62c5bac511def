package dto

import (
	"context"
	"time"

	"github.com/samber/lo"

	"github.com/firmledger/firmledger/internal/domain/dunning"
	"github.com/firmledger/firmledger/internal/domain/mergefield"
	ierr "github.com/firmledger/firmledger/internal/errors"
	"github.com/firmledger/firmledger/internal/types"
	"github.com/firmledger/firmledger/internal/validator"
)

// DayTriggerInput is the wire form of a day trigger
type DayTriggerInput struct {
	Type types.DayTriggerType `json:"type" validate:"required"`
	Days int                  `json:"days"`
}

func (i *DayTriggerInput) ToDayTrigger() dunning.DayTrigger {
	return dunning.DayTrigger{Type: i.Type, Days: i.Days}
}

// CreateReminderTemplateRequest adds a new after-due reminder at a chosen
// day. Name, subject and body are seeded from a generic overdue template when
// omitted.
type CreateReminderTemplateRequest struct {
	Day     int    `json:"day" validate:"min=0,max=365"`
	Name    string `json:"name,omitempty"`
	Subject string `json:"subject,omitempty"`
	Body    string `json:"body,omitempty"`
}

func (r *CreateReminderTemplateRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// ToReminderTemplate builds the domain template, seeding defaults for any
// omitted text field.
func (r *CreateReminderTemplateRequest) ToReminderTemplate(ctx context.Context) *dunning.ReminderTemplate {
	t := dunning.NewOverdueTemplate(ctx, r.Day)
	if r.Name != "" {
		t.Name = r.Name
	}
	if r.Subject != "" {
		t.Subject = r.Subject
	}
	if r.Body != "" {
		t.Body = r.Body
	}
	return t
}

// UpdateReminderTemplateRequest replaces a template's editable fields in full
type UpdateReminderTemplateRequest struct {
	Name        string                    `json:"name" validate:"required"`
	Subject     string                    `json:"subject" validate:"required"`
	Body        string                    `json:"body" validate:"required"`
	DayTrigger  *DayTriggerInput          `json:"day_trigger,omitempty"`
	FinalStatus types.TemplateFinalStatus `json:"final_status,omitempty"`
}

func (r *UpdateReminderTemplateRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if r.FinalStatus != "" {
		return r.FinalStatus.Validate()
	}
	return nil
}

// ApplyTo returns a copy of the template with the request applied
func (r *UpdateReminderTemplateRequest) ApplyTo(t *dunning.ReminderTemplate) *dunning.ReminderTemplate {
	updated := t.Copy()
	updated.Name = r.Name
	updated.Subject = r.Subject
	updated.Body = r.Body
	if r.DayTrigger != nil {
		updated.DayTrigger = r.DayTrigger.ToDayTrigger()
	}
	if r.FinalStatus != "" {
		updated.FinalStatus = r.FinalStatus
	}
	return updated
}

// ChangeDayTriggerRequest moves an after-due template to a new day. All UI
// entry points (stepper, badge entry, quick-edit dialog) post this request.
type ChangeDayTriggerRequest struct {
	TemplateID string `json:"template_id" validate:"required"`
	NewDay     int    `json:"new_day"`
}

func (r *ChangeDayTriggerRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// SetDaysBeforeDueRequest selects a before-due preset for a template
type SetDaysBeforeDueRequest struct {
	TemplateID    string `json:"template_id" validate:"required"`
	DaysBeforeDue int    `json:"days_before_due" validate:"required"`
}

func (r *SetDaysBeforeDueRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// UpdateRetryScheduleRequest updates one retry slot
type UpdateRetryScheduleRequest struct {
	Slot types.RetrySlot `json:"slot" validate:"required,min=1,max=3"`
	Days int             `json:"days"`
}

func (r *UpdateRetryScheduleRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// UpdateFinalActionRequest switches the policy's terminal action
type UpdateFinalActionRequest struct {
	FinalAction types.FinalAction `json:"final_action" validate:"required"`
}

func (r *UpdateFinalActionRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	return r.FinalAction.Validate()
}

// SetTemplateFinalStatusRequest updates the terminal marker on a template
type SetTemplateFinalStatusRequest struct {
	TemplateID  string                    `json:"template_id" validate:"required"`
	FinalStatus types.TemplateFinalStatus `json:"final_status" validate:"required"`
}

func (r *SetTemplateFinalStatusRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	return r.FinalStatus.Validate()
}

// ReminderTemplateInput is the wire form of a full template, used by the
// host screen's bulk save.
type ReminderTemplateInput struct {
	ID          string                    `json:"id,omitempty"`
	Name        string                    `json:"name" validate:"required"`
	DayTrigger  DayTriggerInput           `json:"day_trigger" validate:"required"`
	Subject     string                    `json:"subject" validate:"required"`
	Body        string                    `json:"body" validate:"required"`
	FinalStatus types.TemplateFinalStatus `json:"final_status,omitempty"`
}

func (i *ReminderTemplateInput) ToReminderTemplate(ctx context.Context) *dunning.ReminderTemplate {
	id := i.ID
	if id == "" {
		id = types.GenerateUUIDWithPrefix(types.UUID_PREFIX_REMINDER_TEMPLATE)
	}
	return &dunning.ReminderTemplate{
		ID:          id,
		Name:        i.Name,
		DayTrigger:  i.DayTrigger.ToDayTrigger(),
		Subject:     i.Subject,
		Body:        i.Body,
		FinalStatus: i.FinalStatus,
		BaseModel:   types.GetDefaultBaseModel(ctx),
	}
}

// SaveEscalationPolicyRequest saves the whole configuration in one call:
// templates, retry schedule and final action. No partial save: the policy is
// validated as a whole before anything is persisted.
type SaveEscalationPolicyRequest struct {
	Templates     []ReminderTemplateInput `json:"templates" validate:"required,min=1,dive"`
	RetrySchedule RetryScheduleInput      `json:"retry_schedule"`
	FinalAction   types.FinalAction       `json:"final_action" validate:"required"`
}

type RetryScheduleInput struct {
	Retry1Days int `json:"retry_1_days" validate:"min=1,max=90"`
	Retry2Days int `json:"retry_2_days" validate:"min=1,max=90"`
	Retry3Days int `json:"retry_3_days" validate:"min=1,max=90"`
}

func (r *SaveEscalationPolicyRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	return r.FinalAction.Validate()
}

func (r *SaveEscalationPolicyRequest) ToPolicy(ctx context.Context) *dunning.EscalationPolicy {
	return &dunning.EscalationPolicy{
		Templates: lo.Map(r.Templates, func(i ReminderTemplateInput, _ int) *dunning.ReminderTemplate {
			return i.ToReminderTemplate(ctx)
		}),
		RetrySchedule: dunning.RetrySchedule{
			Retry1Days: r.RetrySchedule.Retry1Days,
			Retry2Days: r.RetrySchedule.Retry2Days,
			Retry3Days: r.RetrySchedule.Retry3Days,
		},
		FinalAction:   r.FinalAction,
		EnvironmentID: types.GetEnvironmentID(ctx),
		BaseModel:     types.GetDefaultBaseModel(ctx),
	}
}

// PreviewTemplateRequest renders a template with merge-field values. Either
// a stored template id or inline subject/body may be given; caller-supplied
// values override the sample data context.
type PreviewTemplateRequest struct {
	TemplateID string            `json:"template_id,omitempty"`
	Subject    string            `json:"subject,omitempty"`
	Body       string            `json:"body,omitempty"`
	DayTrigger *DayTriggerInput  `json:"day_trigger,omitempty"`
	Values     map[string]string `json:"values,omitempty"`
}

func (r *PreviewTemplateRequest) Validate() error {
	if r.TemplateID == "" && r.Subject == "" && r.Body == "" {
		return ierr.NewError("nothing to preview").
			WithHint("Provide a template_id or inline subject/body to preview").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// ReminderTemplateResponse is the wire form of a stored template
type ReminderTemplateResponse struct {
	ID           string                    `json:"id"`
	Name         string                    `json:"name"`
	DayTrigger   DayTriggerInput           `json:"day_trigger"`
	EffectiveDay int                       `json:"effective_day"`
	Subject      string                    `json:"subject"`
	Body         string                    `json:"body"`
	FinalStatus  types.TemplateFinalStatus `json:"final_status,omitempty"`
	CreatedAt    time.Time                 `json:"created_at"`
	UpdatedAt    time.Time                 `json:"updated_at"`
}

func NewReminderTemplateResponse(t *dunning.ReminderTemplate) *ReminderTemplateResponse {
	if t == nil {
		return nil
	}
	return &ReminderTemplateResponse{
		ID:           t.ID,
		Name:         t.Name,
		DayTrigger:   DayTriggerInput{Type: t.DayTrigger.Type, Days: t.DayTrigger.Days},
		EffectiveDay: t.DayTrigger.EffectiveDay(),
		Subject:      t.Subject,
		Body:         t.Body,
		FinalStatus:  t.FinalStatus,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
}

// EscalationPolicyResponse is the full configuration, templates in timeline
// order.
type EscalationPolicyResponse struct {
	Templates     []*ReminderTemplateResponse `json:"templates"`
	RetrySchedule dunning.RetrySchedule       `json:"retry_schedule"`
	FinalAction   types.FinalAction           `json:"final_action"`
	UpdatedAt     time.Time                   `json:"updated_at"`
}

func NewEscalationPolicyResponse(p *dunning.EscalationPolicy) *EscalationPolicyResponse {
	if p == nil {
		return nil
	}
	return &EscalationPolicyResponse{
		Templates: lo.Map(p.SortedTemplates(), func(t *dunning.ReminderTemplate, _ int) *ReminderTemplateResponse {
			return NewReminderTemplateResponse(t)
		}),
		RetrySchedule: p.RetrySchedule,
		FinalAction:   p.FinalAction,
		UpdatedAt:     p.UpdatedAt,
	}
}

// EscalationTimelineResponse is the derived timeline plus a warning when no
// after-due reminders remain to anchor the final action.
type EscalationTimelineResponse struct {
	*dunning.EscalationTimeline
	Warning string `json:"warning,omitempty"`
}

func NewEscalationTimelineResponse(t *dunning.EscalationTimeline) *EscalationTimelineResponse {
	resp := &EscalationTimelineResponse{EscalationTimeline: t}
	if !t.HasAfterDueStages {
		resp.Warning = "no overdue reminders are configured; the final action has no day to fire on"
	}
	return resp
}

// PreviewTemplateResponse carries the rendered preview
type PreviewTemplateResponse struct {
	Subject string            `json:"subject"`
	Body    string            `json:"body"`
	Values  map[string]string `json:"values"`
}

// MergeFieldResponse describes one substitutable token
type MergeFieldResponse struct {
	Token       string              `json:"token"`
	Placeholder string              `json:"placeholder"`
	Label       string              `json:"label"`
	Category    mergefield.Category `json:"category"`
}

// ListMergeFieldsResponse lists the full merge-field catalog
type ListMergeFieldsResponse struct {
	Fields []MergeFieldResponse `json:"fields"`
}

func NewListMergeFieldsResponse() *ListMergeFieldsResponse {
	return &ListMergeFieldsResponse{
		Fields: lo.Map(mergefield.All(), func(f mergefield.MergeField, _ int) MergeFieldResponse {
			return MergeFieldResponse{
				Token:       f.Token,
				Placeholder: f.Placeholder(),
				Label:       f.Label,
				Category:    f.Category,
			}
		}),
	}
}
