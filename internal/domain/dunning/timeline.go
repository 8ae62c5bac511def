package dunning

import (
	"github.com/samber/lo"

	"github.com/firmledger/firmledger/internal/types"
)

// TimelinePhase labels the three sequential phases of an escalation
type TimelinePhase string

const (
	PhaseRetry       TimelinePhase = "retry"
	PhaseReminder    TimelinePhase = "reminder"
	PhaseFinalAction TimelinePhase = "final_action"
)

// RetryAttempt is one automatic payment retry in the retry phase
type RetryAttempt struct {
	Attempt          int `json:"attempt"`
	DaysAfterFailure int `json:"days_after_failure"`
}

// TimelineStage is one reminder on the escalation timeline. Before-due
// stages carry the smart-skip threshold; the executing collaborator skips
// them for invoices due sooner than that, not this package.
type TimelineStage struct {
	TemplateID        string                    `json:"template_id"`
	Name              string                    `json:"name"`
	Subject           string                    `json:"subject"`
	EffectiveDay      int                       `json:"effective_day"`
	BeforeDue         bool                      `json:"before_due"`
	FinalStatus       types.TemplateFinalStatus `json:"final_status,omitempty"`
	SkipThresholdDays int                       `json:"skip_threshold_days,omitempty"`
}

// EscalationTimeline is the derived, strictly time-ordered view of a policy:
// the retry phase resolving the underlying payment failure, then the reminder
// sequence around day 0, then the terminal final action. It is recomputed on
// every read and never stored.
type EscalationTimeline struct {
	RetryPhase          []RetryAttempt    `json:"retry_phase"`
	Stages              []TimelineStage   `json:"stages"`
	FinalAction         types.FinalAction `json:"final_action"`
	FinalActionAfterDay int               `json:"final_action_after_day"`
	// HasAfterDueStages is false when every after-due reminder has been
	// deleted; the caller must surface a warning instead of assuming day 0.
	HasAfterDueStages bool `json:"has_after_due_stages"`
}

// BuildTimeline derives the escalation timeline from a policy
func BuildTimeline(p *EscalationPolicy) *EscalationTimeline {
	stages := lo.Map(p.SortedTemplates(), func(t *ReminderTemplate, _ int) TimelineStage {
		stage := TimelineStage{
			TemplateID:   t.ID,
			Name:         t.Name,
			Subject:      t.Subject,
			EffectiveDay: t.DayTrigger.EffectiveDay(),
			BeforeDue:    t.DayTrigger.IsBeforeDue(),
			FinalStatus:  t.FinalStatus,
		}
		if stage.BeforeDue {
			stage.SkipThresholdDays = types.SmartSkipThresholdDays
		}
		return stage
	})

	maxDay, hasAfterDue := p.MaxAfterDueDay()

	return &EscalationTimeline{
		RetryPhase: []RetryAttempt{
			{Attempt: 1, DaysAfterFailure: p.RetrySchedule.Retry1Days},
			{Attempt: 2, DaysAfterFailure: p.RetrySchedule.Retry2Days},
			{Attempt: 3, DaysAfterFailure: p.RetrySchedule.Retry3Days},
		},
		Stages:              stages,
		FinalAction:         p.FinalAction,
		FinalActionAfterDay: maxDay,
		HasAfterDueStages:   hasAfterDue,
	}
}
