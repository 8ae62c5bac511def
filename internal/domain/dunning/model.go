package dunning

import (
	"github.com/samber/lo"

	ierr "github.com/firmledger/firmledger/internal/errors"
	"github.com/firmledger/firmledger/internal/types"
)

// DayTrigger anchors a reminder relative to the invoice due date. Exactly one
// variant is active: before_due carries days before the due date (preset
// values only), after_due carries days past it.
type DayTrigger struct {
	Type types.DayTriggerType `json:"type"`
	Days int                  `json:"days"`
}

// BeforeDue builds a before-due trigger
func BeforeDue(daysBeforeDue int) DayTrigger {
	return DayTrigger{Type: types.DayTriggerBeforeDue, Days: daysBeforeDue}
}

// AfterDue builds an after-due trigger. Day 0 is the due date itself.
func AfterDue(day int) DayTrigger {
	return DayTrigger{Type: types.DayTriggerAfterDue, Days: day}
}

func (t DayTrigger) IsBeforeDue() bool {
	return t.Type == types.DayTriggerBeforeDue
}

// EffectiveDay returns the trigger's position on the escalation timeline:
// negative for before-due, the overdue day otherwise.
func (t DayTrigger) EffectiveDay() int {
	if t.IsBeforeDue() {
		return -t.Days
	}
	return t.Days
}

func (t DayTrigger) Validate() error {
	if err := t.Type.Validate(); err != nil {
		return err
	}
	if t.IsBeforeDue() {
		if !lo.Contains(types.BeforeDuePresets, t.Days) {
			return ierr.NewErrorf("invalid days before due: %d", t.Days).
				WithHint("Days before due must be one of the preset values").
				WithReportableDetails(map[string]any{
					"allowed": types.BeforeDuePresets,
				}).
				Mark(ierr.ErrValidation)
		}
		return nil
	}
	if t.Days < types.MinAfterDueDay || t.Days > types.MaxAfterDueDay {
		return ierr.NewErrorf("day trigger out of range: %d", t.Days).
			WithHintf("Day trigger must be between %d and %d", types.MinAfterDueDay, types.MaxAfterDueDay).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// ReminderTemplate is a single reminder in the escalation sequence. Subject
// and body may contain {{token}} merge fields and **bold** spans.
type ReminderTemplate struct {
	ID          string                    `json:"id"`
	Name        string                    `json:"name"`
	DayTrigger  DayTrigger                `json:"day_trigger"`
	Subject     string                    `json:"subject"`
	Body        string                    `json:"body"`
	FinalStatus types.TemplateFinalStatus `json:"final_status,omitempty"`
	types.BaseModel
}

// IsTerminal reports whether this template carries the terminal final-status
// marker. The terminal template cannot be deleted, only edited.
func (t *ReminderTemplate) IsTerminal() bool {
	return t.FinalStatus != "" && t.FinalStatus != types.FinalStatusNone
}

// Validate enforces the per-template invariants: non-empty required fields
// and a well-formed day trigger.
func (t *ReminderTemplate) Validate() error {
	for field, value := range map[string]string{
		"name":    t.Name,
		"subject": t.Subject,
		"body":    t.Body,
	} {
		if isBlank(value) {
			return missingRequiredField(field)
		}
	}
	if err := t.DayTrigger.Validate(); err != nil {
		return err
	}
	if t.FinalStatus != "" {
		if err := t.FinalStatus.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Copy returns a deep copy of the template
func (t *ReminderTemplate) Copy() *ReminderTemplate {
	if t == nil {
		return nil
	}
	copied := *t
	return &copied
}

// RetrySchedule holds the three payment retry offsets, in days after the
// initial payment failure. Slots are independent; no ordering is enforced
// between them.
type RetrySchedule struct {
	Retry1Days int `json:"retry_1_days"`
	Retry2Days int `json:"retry_2_days"`
	Retry3Days int `json:"retry_3_days"`
}

// DefaultRetrySchedule returns the default retry offsets
func DefaultRetrySchedule() RetrySchedule {
	return RetrySchedule{
		Retry1Days: 1,
		Retry2Days: 3,
		Retry3Days: 7,
	}
}

// DaysForSlot returns the offset configured for a slot
func (r RetrySchedule) DaysForSlot(slot types.RetrySlot) int {
	switch slot {
	case types.RetrySlot1:
		return r.Retry1Days
	case types.RetrySlot2:
		return r.Retry2Days
	case types.RetrySlot3:
		return r.Retry3Days
	}
	return 0
}

// SetSlot sets a slot's offset, clamped to the allowed range
func (r *RetrySchedule) SetSlot(slot types.RetrySlot, days int) error {
	if err := slot.Validate(); err != nil {
		return err
	}
	days = types.ClampRetryDays(days)
	switch slot {
	case types.RetrySlot1:
		r.Retry1Days = days
	case types.RetrySlot2:
		r.Retry2Days = days
	case types.RetrySlot3:
		r.Retry3Days = days
	}
	return nil
}

// MaxRetryDay returns the latest retry offset, i.e. when the retry phase ends
func (r RetrySchedule) MaxRetryDay() int {
	return lo.Max([]int{r.Retry1Days, r.Retry2Days, r.Retry3Days})
}

func (r RetrySchedule) Validate() error {
	for slot, days := range map[string]int{
		"retry_1_days": r.Retry1Days,
		"retry_2_days": r.Retry2Days,
		"retry_3_days": r.Retry3Days,
	} {
		if days < types.MinRetryDays || days > types.MaxRetryDays {
			return ierr.NewErrorf("retry offset out of range: %s=%d", slot, days).
				WithHintf("Retry offsets must be between %d and %d days", types.MinRetryDays, types.MaxRetryDays).
				WithReportableDetails(map[string]any{
					"slot": slot,
					"days": days,
				}).
				Mark(ierr.ErrValidation)
		}
	}
	return nil
}

func missingRequiredField(field string) error {
	return ierr.NewErrorf("missing required field: %s", field).
		WithHintf("Template %s cannot be empty", field).
		WithReportableDetails(map[string]any{
			"field": field,
		}).
		Mark(ierr.ErrValidation)
}
