package dunning

import (
	"sort"
	"strings"
	"time"

	"github.com/samber/lo"

	ierr "github.com/firmledger/firmledger/internal/errors"
	"github.com/firmledger/firmledger/internal/types"
)

// EscalationPolicy is the aggregate holding one tenant's full escalation
// configuration: reminder templates, the payment retry schedule and the
// terminal final action. All edits go through its mutation methods so the
// day-uniqueness invariant holds at all times, not just at save time.
type EscalationPolicy struct {
	Templates     []*ReminderTemplate `json:"templates"`
	RetrySchedule RetrySchedule       `json:"retry_schedule"`
	FinalAction   types.FinalAction   `json:"final_action"`
	EnvironmentID string              `json:"environment_id"`
	types.BaseModel
}

// Copy returns a deep copy of the policy
func (p *EscalationPolicy) Copy() *EscalationPolicy {
	if p == nil {
		return nil
	}
	copied := *p
	copied.Templates = lo.Map(p.Templates, func(t *ReminderTemplate, _ int) *ReminderTemplate {
		return t.Copy()
	})
	return &copied
}

// Template finds a template by id
func (p *EscalationPolicy) Template(id string) (*ReminderTemplate, error) {
	t, ok := lo.Find(p.Templates, func(t *ReminderTemplate) bool {
		return t.ID == id
	})
	if !ok {
		return nil, ierr.NewErrorf("reminder template not found: %s", id).
			WithHint("Reminder template not found").
			WithReportableDetails(map[string]any{
				"template_id": id,
			}).
			Mark(ierr.ErrNotFound)
	}
	return t, nil
}

// SortedTemplates returns the templates in timeline order: before-due
// templates earliest-first, then after-due templates ascending by day.
// Ordering is always derived from the day trigger, never persisted.
func (p *EscalationPolicy) SortedTemplates() []*ReminderTemplate {
	sorted := make([]*ReminderTemplate, len(p.Templates))
	copy(sorted, p.Templates)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].DayTrigger.EffectiveDay() < sorted[j].DayTrigger.EffectiveDay()
	})
	return sorted
}

// AfterDueTemplates returns the after-due templates ascending by day
func (p *EscalationPolicy) AfterDueTemplates() []*ReminderTemplate {
	return lo.Filter(p.SortedTemplates(), func(t *ReminderTemplate, _ int) bool {
		return !t.DayTrigger.IsBeforeDue()
	})
}

// BeforeDueTemplates returns the before-due templates earliest-first
func (p *EscalationPolicy) BeforeDueTemplates() []*ReminderTemplate {
	return lo.Filter(p.SortedTemplates(), func(t *ReminderTemplate, _ int) bool {
		return t.DayTrigger.IsBeforeDue()
	})
}

// MaxAfterDueDay returns the latest after-due day, and false when the policy
// has no after-due templates at all.
func (p *EscalationPolicy) MaxAfterDueDay() (int, bool) {
	afterDue := p.AfterDueTemplates()
	if len(afterDue) == 0 {
		return 0, false
	}
	return afterDue[len(afterDue)-1].DayTrigger.Days, true
}

// dayInUse reports whether another after-due template already owns the day
func (p *EscalationPolicy) dayInUse(day int, excludeID string) (string, bool) {
	t, ok := lo.Find(p.Templates, func(t *ReminderTemplate) bool {
		return t.ID != excludeID &&
			!t.DayTrigger.IsBeforeDue() &&
			t.DayTrigger.Days == day
	})
	if !ok {
		return "", false
	}
	return t.ID, true
}

func duplicateDayTrigger(day int, ownerID string) error {
	return ierr.NewErrorf("day trigger %d is already in use", day).
		WithHintf("Day %d already exists. Please choose a different day.", day).
		WithReportableDetails(map[string]any{
			"day":      day,
			"owned_by": ownerID,
		}).
		Mark(ierr.ErrAlreadyExists)
}

// AddTemplate validates and appends a new template
func (p *EscalationPolicy) AddTemplate(t *ReminderTemplate) error {
	if t == nil {
		return ierr.NewError("template cannot be nil").
			WithHint("Template cannot be nil").
			Mark(ierr.ErrValidation)
	}
	if err := t.Validate(); err != nil {
		return err
	}
	if !t.DayTrigger.IsBeforeDue() {
		if ownerID, used := p.dayInUse(t.DayTrigger.Days, t.ID); used {
			return duplicateDayTrigger(t.DayTrigger.Days, ownerID)
		}
	}
	p.Templates = append(p.Templates, t)
	p.touch()
	return nil
}

// UpdateTemplate validates and replaces an existing template in full. The
// update is all-or-nothing: on any validation failure the stored template is
// untouched.
func (p *EscalationPolicy) UpdateTemplate(updated *ReminderTemplate) error {
	if updated == nil {
		return ierr.NewError("template cannot be nil").
			WithHint("Template cannot be nil").
			Mark(ierr.ErrValidation)
	}
	existing, err := p.Template(updated.ID)
	if err != nil {
		return err
	}
	if err := updated.Validate(); err != nil {
		return err
	}
	if !updated.DayTrigger.IsBeforeDue() {
		if ownerID, used := p.dayInUse(updated.DayTrigger.Days, updated.ID); used {
			return duplicateDayTrigger(updated.DayTrigger.Days, ownerID)
		}
	}
	*existing = *updated
	existing.UpdatedAt = time.Now().UTC()
	p.touch()
	return nil
}

// DeleteTemplate removes a template. The template carrying the terminal
// final-status marker can never be deleted; its action can only be changed.
func (p *EscalationPolicy) DeleteTemplate(id string) error {
	t, err := p.Template(id)
	if err != nil {
		return err
	}
	if t.IsTerminal() {
		return ierr.NewErrorf("cannot delete terminal template: %s", id).
			WithHint("The final action template cannot be deleted, only its action can be changed").
			WithReportableDetails(map[string]any{
				"template_id":  id,
				"final_status": t.FinalStatus,
			}).
			Mark(ierr.ErrInvalidOperation)
	}
	p.Templates = lo.Filter(p.Templates, func(t *ReminderTemplate, _ int) bool {
		return t.ID != id
	})
	p.touch()
	return nil
}

// ChangeDayTrigger moves an after-due template to a new day. The value is
// clamped to the allowed range, checked for collisions against every other
// after-due template, and on success the old day is rewritten into the
// template's name and subject wherever it appears as a recognized phrase.
// Either the whole edit applies or none of it does.
//
// Every entry point that edits a day (stepper, badge entry, quick-edit
// dialog) must funnel through this one method.
func (p *EscalationPolicy) ChangeDayTrigger(templateID string, newDay int) (int, error) {
	t, err := p.Template(templateID)
	if err != nil {
		return 0, err
	}
	if t.DayTrigger.IsBeforeDue() {
		return 0, ierr.NewErrorf("cannot set an overdue day on a before-due template: %s", templateID).
			WithHint("Before-due reminders use preset day counts").
			Mark(ierr.ErrInvalidOperation)
	}

	newDay = types.ClampAfterDueDay(newDay)
	oldDay := t.DayTrigger.Days
	if newDay == oldDay {
		return newDay, nil
	}

	if ownerID, used := p.dayInUse(newDay, templateID); used {
		return 0, duplicateDayTrigger(newDay, ownerID)
	}

	t.Name = cascadeName(t.Name, oldDay, newDay)
	t.Subject = cascadeSubject(t.Subject, oldDay, newDay)
	t.DayTrigger = AfterDue(newDay)
	t.UpdatedAt = time.Now().UTC()
	p.touch()
	return newDay, nil
}

// SetDaysBeforeDue updates a before-due template's preset offset
func (p *EscalationPolicy) SetDaysBeforeDue(templateID string, days int) error {
	t, err := p.Template(templateID)
	if err != nil {
		return err
	}
	if !t.DayTrigger.IsBeforeDue() {
		return ierr.NewErrorf("template is not a before-due reminder: %s", templateID).
			WithHint("Only before-due reminders have a days-before-due setting").
			Mark(ierr.ErrInvalidOperation)
	}
	trigger := BeforeDue(days)
	if err := trigger.Validate(); err != nil {
		return err
	}
	t.DayTrigger = trigger
	t.UpdatedAt = time.Now().UTC()
	p.touch()
	return nil
}

// SetRetryDays updates one retry slot, clamped to [1, 90]
func (p *EscalationPolicy) SetRetryDays(slot types.RetrySlot, days int) error {
	if err := p.RetrySchedule.SetSlot(slot, days); err != nil {
		return err
	}
	p.touch()
	return nil
}

// SetFinalAction switches the terminal action. Pure assignment; the four
// actions are mutually exclusive.
func (p *EscalationPolicy) SetFinalAction(action types.FinalAction) error {
	if err := action.Validate(); err != nil {
		return err
	}
	p.FinalAction = action
	p.touch()
	return nil
}

// SetTemplateFinalStatus updates the terminal marker on a template
func (p *EscalationPolicy) SetTemplateFinalStatus(templateID string, status types.TemplateFinalStatus) error {
	t, err := p.Template(templateID)
	if err != nil {
		return err
	}
	if err := status.Validate(); err != nil {
		return err
	}
	t.FinalStatus = status
	t.UpdatedAt = time.Now().UTC()
	p.touch()
	return nil
}

// ResetToDefaults discards all customizations and restores the hard-coded
// default template set, retry schedule and final action.
func (p *EscalationPolicy) ResetToDefaults() {
	p.Templates = DefaultTemplates(p.TenantID)
	p.RetrySchedule = DefaultRetrySchedule()
	p.FinalAction = DefaultFinalAction
	p.touch()
}

// Validate checks the whole policy: every template, cross-template day
// uniqueness, the retry schedule and the final action.
func (p *EscalationPolicy) Validate() error {
	seen := map[int]string{}
	for _, t := range p.Templates {
		if err := t.Validate(); err != nil {
			return err
		}
		if t.DayTrigger.IsBeforeDue() {
			continue
		}
		if ownerID, dup := seen[t.DayTrigger.Days]; dup {
			return duplicateDayTrigger(t.DayTrigger.Days, ownerID)
		}
		seen[t.DayTrigger.Days] = t.ID
	}
	if err := p.RetrySchedule.Validate(); err != nil {
		return err
	}
	return p.FinalAction.Validate()
}

func (p *EscalationPolicy) touch() {
	p.UpdatedAt = time.Now().UTC()
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
