package types

import (
	"github.com/samber/lo"

	ierr "github.com/firmledger/firmledger/internal/errors"
)

// DayTriggerType discriminates the two reminder anchoring modes: a fixed
// number of days before the due date, or a number of days past it.
type DayTriggerType string

const (
	DayTriggerBeforeDue DayTriggerType = "before_due"
	DayTriggerAfterDue  DayTriggerType = "after_due"
)

func (t DayTriggerType) String() string {
	return string(t)
}

func (t DayTriggerType) Validate() error {
	allowed := []DayTriggerType{
		DayTriggerBeforeDue,
		DayTriggerAfterDue,
	}
	if !lo.Contains(allowed, t) {
		return ierr.NewErrorf("invalid day trigger type: %s", t).
			WithHint("Day trigger type must be before_due or after_due").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// FinalAction is the terminal outcome applied once the escalation sequence
// is exhausted without payment. Exactly one is active per policy.
type FinalAction string

const (
	FinalActionCollections FinalAction = "collections"
	FinalActionWriteOff    FinalAction = "write_off"
	FinalActionSuspend     FinalAction = "suspend"
	FinalActionKeepActive  FinalAction = "keep_active"
)

func (a FinalAction) String() string {
	return string(a)
}

func (a FinalAction) Validate() error {
	allowed := []FinalAction{
		FinalActionCollections,
		FinalActionWriteOff,
		FinalActionSuspend,
		FinalActionKeepActive,
	}
	if !lo.Contains(allowed, a) {
		return ierr.NewErrorf("invalid final action: %s", a).
			WithHint("Final action must be one of: collections, write_off, suspend, keep_active").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// TemplateFinalStatus is the optional terminal marker carried by the last
// after-due template. FinalStatusNone means the template is a plain reminder.
type TemplateFinalStatus string

const (
	FinalStatusNone        TemplateFinalStatus = "none"
	FinalStatusSuspend     TemplateFinalStatus = "suspend"
	FinalStatusCollections TemplateFinalStatus = "collections"
	FinalStatusWriteOff    TemplateFinalStatus = "write_off"
)

func (s TemplateFinalStatus) Validate() error {
	allowed := []TemplateFinalStatus{
		FinalStatusNone,
		FinalStatusSuspend,
		FinalStatusCollections,
		FinalStatusWriteOff,
	}
	if !lo.Contains(allowed, s) {
		return ierr.NewErrorf("invalid final status: %s", s).
			WithHint("Final status must be one of: none, suspend, collections, write_off").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// RetrySlot identifies one of the three payment retry offsets
type RetrySlot int

const (
	RetrySlot1 RetrySlot = 1
	RetrySlot2 RetrySlot = 2
	RetrySlot3 RetrySlot = 3
)

func (s RetrySlot) Validate() error {
	if s < RetrySlot1 || s > RetrySlot3 {
		return ierr.NewErrorf("invalid retry slot: %d", s).
			WithHint("Retry slot must be 1, 2 or 3").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// Bounds for day triggers and retry offsets
const (
	MinAfterDueDay = 0
	MaxAfterDueDay = 365

	MinRetryDays = 1
	MaxRetryDays = 90

	// SmartSkipThresholdDays is the lead time below which the executing
	// collaborator skips before-due reminders for short-dated invoices.
	SmartSkipThresholdDays = 7
)

// BeforeDuePresets are the selectable before-due offsets
var BeforeDuePresets = []int{3, 5, 7, 10}

// ClampAfterDueDay clamps a day trigger value into [MinAfterDueDay, MaxAfterDueDay]
func ClampAfterDueDay(day int) int {
	if day < MinAfterDueDay {
		return MinAfterDueDay
	}
	if day > MaxAfterDueDay {
		return MaxAfterDueDay
	}
	return day
}

// ClampRetryDays clamps a retry offset into [MinRetryDays, MaxRetryDays]
func ClampRetryDays(days int) int {
	if days < MinRetryDays {
		return MinRetryDays
	}
	if days > MaxRetryDays {
		return MaxRetryDays
	}
	return days
}
