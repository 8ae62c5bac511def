package service

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/firmledger/firmledger/internal/api/dto"
	"github.com/firmledger/firmledger/internal/domain/dunning"
	ierr "github.com/firmledger/firmledger/internal/errors"
	"github.com/firmledger/firmledger/internal/testutil"
	"github.com/firmledger/firmledger/internal/types"
)

type EscalationPolicyServiceSuite struct {
	testutil.BaseServiceTestSuite
	service EscalationPolicyService
}

func TestEscalationPolicyService(t *testing.T) {
	suite.Run(t, new(EscalationPolicyServiceSuite))
}

func (s *EscalationPolicyServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewEscalationPolicyService(ServiceParams{
		Logger:               s.GetLogger(),
		Config:               s.GetConfig(),
		Cache:                s.GetCache(),
		EscalationPolicyRepo: s.GetStores().EscalationPolicyRepo,
	})
}

func (s *EscalationPolicyServiceSuite) TestGetPolicyMaterializesDefaults() {
	resp, err := s.service.GetPolicy(s.GetContext())
	s.NoError(err)
	s.Len(resp.Templates, 6)
	s.Equal(types.FinalActionSuspend, resp.FinalAction)
	s.Equal(1, resp.RetrySchedule.Retry1Days)

	// defaults were persisted, not just returned
	stored, err := s.GetStores().EscalationPolicyRepo.Get(s.GetContext())
	s.NoError(err)
	s.Len(stored.Templates, 6)
}

func (s *EscalationPolicyServiceSuite) TestGetPolicyServedFromCache() {
	first, err := s.service.GetPolicy(s.GetContext())
	s.NoError(err)

	// mutate the store behind the cache; the cached response wins until a
	// mutation invalidates it
	s.GetStores().EscalationPolicyRepo.Clear()

	second, err := s.service.GetPolicy(s.GetContext())
	s.NoError(err)
	s.Equal(first.UpdatedAt, second.UpdatedAt)
}

func (s *EscalationPolicyServiceSuite) TestChangeDayTriggerCascades() {
	resp, err := s.service.ChangeDayTrigger(s.GetContext(), &dto.ChangeDayTriggerRequest{
		TemplateID: dunning.DefaultTemplateOverdue1,
		NewDay:     10,
	})
	s.NoError(err)
	s.Equal(10, resp.DayTrigger.Days)
	s.Equal("Overdue: Invoice #{{number}} - 10 Days Past Due", resp.Subject)

	// templates re-sort between day 0 and day 14
	policy, err := s.service.GetPolicy(s.GetContext())
	s.NoError(err)
	days := []int{}
	for _, tmpl := range policy.Templates {
		days = append(days, tmpl.EffectiveDay)
	}
	s.Equal([]int{-3, 0, 10, 14, 21, 30}, days)
}

func (s *EscalationPolicyServiceSuite) TestChangeDayTriggerDuplicate() {
	_, err := s.service.ChangeDayTrigger(s.GetContext(), &dto.ChangeDayTriggerRequest{
		TemplateID: dunning.DefaultTemplateOverdue2,
		NewDay:     7,
	})
	s.Error(err)
	s.True(ierr.IsAlreadyExists(err))
	s.Equal("Day 7 already exists. Please choose a different day.", ierr.Hint(err))

	// nothing was persisted
	policy, err := s.service.GetPolicy(s.GetContext())
	s.NoError(err)
	for _, tmpl := range policy.Templates {
		if tmpl.ID == dunning.DefaultTemplateOverdue2 {
			s.Equal(14, tmpl.DayTrigger.Days)
		}
	}
}

func (s *EscalationPolicyServiceSuite) TestChangeDayTriggerClamps() {
	resp, err := s.service.ChangeDayTrigger(s.GetContext(), &dto.ChangeDayTriggerRequest{
		TemplateID: dunning.DefaultTemplateOverdue4,
		NewDay:     9999,
	})
	s.NoError(err)
	s.Equal(365, resp.DayTrigger.Days)
}

func (s *EscalationPolicyServiceSuite) TestCreateTemplate() {
	resp, err := s.service.CreateTemplate(s.GetContext(), &dto.CreateReminderTemplateRequest{Day: 45})
	s.NoError(err)
	s.Equal("Overdue Reminder - Day 45", resp.Name)
	s.Equal("Overdue: Invoice #{{number}} - 45 Days Past Due", resp.Subject)
	s.Contains(resp.ID, "tmpl_")

	policy, err := s.service.GetPolicy(s.GetContext())
	s.NoError(err)
	s.Len(policy.Templates, 7)
}

func (s *EscalationPolicyServiceSuite) TestCreateTemplateDuplicateDay() {
	_, err := s.service.CreateTemplate(s.GetContext(), &dto.CreateReminderTemplateRequest{Day: 14})
	s.Error(err)
	s.True(ierr.IsAlreadyExists(err))
}

func (s *EscalationPolicyServiceSuite) TestUpdateTemplate() {
	resp, err := s.service.UpdateTemplate(s.GetContext(), dunning.DefaultTemplateOverdue1, &dto.UpdateReminderTemplateRequest{
		Name:    "Gentle Nudge",
		Subject: "A quick note about invoice #{{number}}",
		Body:    "Hello {{client_name}}, your invoice is {{days_overdue}} days overdue.",
	})
	s.NoError(err)
	s.Equal("Gentle Nudge", resp.Name)
	// day trigger untouched when not supplied
	s.Equal(7, resp.DayTrigger.Days)
}

func (s *EscalationPolicyServiceSuite) TestDeleteTemplate() {
	err := s.service.DeleteTemplate(s.GetContext(), dunning.DefaultTemplateOverdue2)
	s.NoError(err)

	policy, err := s.service.GetPolicy(s.GetContext())
	s.NoError(err)
	s.Len(policy.Templates, 5)
}

func (s *EscalationPolicyServiceSuite) TestDeleteTerminalTemplate() {
	err := s.service.DeleteTemplate(s.GetContext(), dunning.DefaultTemplateOverdue4)
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))
}

func (s *EscalationPolicyServiceSuite) TestSetDaysBeforeDue() {
	resp, err := s.service.SetDaysBeforeDue(s.GetContext(), &dto.SetDaysBeforeDueRequest{
		TemplateID:    dunning.DefaultTemplateBeforeDue,
		DaysBeforeDue: 5,
	})
	s.NoError(err)
	s.Equal(5, resp.DayTrigger.Days)
	s.Equal(-5, resp.EffectiveDay)
}

func (s *EscalationPolicyServiceSuite) TestSetDaysBeforeDueRejectsNonPreset() {
	_, err := s.service.SetDaysBeforeDue(s.GetContext(), &dto.SetDaysBeforeDueRequest{
		TemplateID:    dunning.DefaultTemplateBeforeDue,
		DaysBeforeDue: 4,
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *EscalationPolicyServiceSuite) TestUpdateRetrySchedule() {
	resp, err := s.service.UpdateRetrySchedule(s.GetContext(), &dto.UpdateRetryScheduleRequest{
		Slot: types.RetrySlot2,
		Days: 5,
	})
	s.NoError(err)
	s.Equal(5, resp.RetrySchedule.Retry2Days)

	// clamped at the ceiling
	resp, err = s.service.UpdateRetrySchedule(s.GetContext(), &dto.UpdateRetryScheduleRequest{
		Slot: types.RetrySlot3,
		Days: 400,
	})
	s.NoError(err)
	s.Equal(90, resp.RetrySchedule.Retry3Days)
}

func (s *EscalationPolicyServiceSuite) TestUpdateFinalAction() {
	resp, err := s.service.UpdateFinalAction(s.GetContext(), &dto.UpdateFinalActionRequest{
		FinalAction: types.FinalActionCollections,
	})
	s.NoError(err)
	s.Equal(types.FinalActionCollections, resp.FinalAction)
}

func (s *EscalationPolicyServiceSuite) TestUpdateFinalActionInvalid() {
	_, err := s.service.UpdateFinalAction(s.GetContext(), &dto.UpdateFinalActionRequest{
		FinalAction: types.FinalAction("escalate"),
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *EscalationPolicyServiceSuite) TestSetTemplateFinalStatus() {
	resp, err := s.service.SetTemplateFinalStatus(s.GetContext(), &dto.SetTemplateFinalStatusRequest{
		TemplateID:  dunning.DefaultTemplateOverdue4,
		FinalStatus: types.FinalStatusCollections,
	})
	s.NoError(err)
	s.Equal(types.FinalStatusCollections, resp.FinalStatus)
}

func (s *EscalationPolicyServiceSuite) TestResetToDefaults() {
	_, err := s.service.ChangeDayTrigger(s.GetContext(), &dto.ChangeDayTriggerRequest{
		TemplateID: dunning.DefaultTemplateOverdue1,
		NewDay:     10,
	})
	s.NoError(err)
	s.NoError(s.service.DeleteTemplate(s.GetContext(), dunning.DefaultTemplateOverdue2))

	resp, err := s.service.ResetToDefaults(s.GetContext())
	s.NoError(err)
	s.Len(resp.Templates, 6)
	s.Equal(types.FinalActionSuspend, resp.FinalAction)

	days := []int{}
	for _, tmpl := range resp.Templates {
		days = append(days, tmpl.EffectiveDay)
	}
	s.Equal([]int{-3, 0, 7, 14, 21, 30}, days)
}

func (s *EscalationPolicyServiceSuite) TestSavePolicy() {
	resp, err := s.service.SavePolicy(s.GetContext(), &dto.SaveEscalationPolicyRequest{
		Templates: []dto.ReminderTemplateInput{
			{
				Name:       "Due Today",
				DayTrigger: dto.DayTriggerInput{Type: types.DayTriggerAfterDue, Days: 0},
				Subject:    "Invoice #{{number}} due today",
				Body:       "Hello {{client_name}}, your invoice is due today.",
			},
			{
				Name:        "Final Notice",
				DayTrigger:  dto.DayTriggerInput{Type: types.DayTriggerAfterDue, Days: 30},
				Subject:     "Final notice for invoice #{{number}}",
				Body:        "Hello {{client_name}}, this is the final notice.",
				FinalStatus: types.FinalStatusSuspend,
			},
		},
		RetrySchedule: dto.RetryScheduleInput{Retry1Days: 2, Retry2Days: 4, Retry3Days: 8},
		FinalAction:   types.FinalActionKeepActive,
	})
	s.NoError(err)
	s.Len(resp.Templates, 2)
	s.Equal(types.FinalActionKeepActive, resp.FinalAction)
	s.Equal(2, resp.RetrySchedule.Retry1Days)
}

func (s *EscalationPolicyServiceSuite) TestSavePolicyRejectsDuplicateDays() {
	_, err := s.service.SavePolicy(s.GetContext(), &dto.SaveEscalationPolicyRequest{
		Templates: []dto.ReminderTemplateInput{
			{
				Name:       "First",
				DayTrigger: dto.DayTriggerInput{Type: types.DayTriggerAfterDue, Days: 7},
				Subject:    "s",
				Body:       "b",
			},
			{
				Name:       "Second",
				DayTrigger: dto.DayTriggerInput{Type: types.DayTriggerAfterDue, Days: 7},
				Subject:    "s",
				Body:       "b",
			},
		},
		RetrySchedule: dto.RetryScheduleInput{Retry1Days: 1, Retry2Days: 3, Retry3Days: 7},
		FinalAction:   types.FinalActionSuspend,
	})
	s.Error(err)
	s.True(ierr.IsAlreadyExists(err))

	// nothing persisted: next read materializes defaults
	policy, err := s.service.GetPolicy(s.GetContext())
	s.NoError(err)
	s.Len(policy.Templates, 6)
}

func (s *EscalationPolicyServiceSuite) TestGetTimeline() {
	resp, err := s.service.GetTimeline(s.GetContext())
	s.NoError(err)
	s.Len(resp.Stages, 6)
	s.Equal(30, resp.FinalActionAfterDay)
	s.Empty(resp.Warning)
	s.Len(resp.RetryPhase, 3)
}

func (s *EscalationPolicyServiceSuite) TestGetTimelineWarnsWithoutAfterDueStages() {
	for _, id := range []string{
		dunning.DefaultTemplateDueDate,
		dunning.DefaultTemplateOverdue1,
		dunning.DefaultTemplateOverdue2,
		dunning.DefaultTemplateOverdue3,
	} {
		s.NoError(s.service.DeleteTemplate(s.GetContext(), id))
	}
	_, err := s.service.SetTemplateFinalStatus(s.GetContext(), &dto.SetTemplateFinalStatusRequest{
		TemplateID:  dunning.DefaultTemplateOverdue4,
		FinalStatus: types.FinalStatusNone,
	})
	s.NoError(err)
	s.NoError(s.service.DeleteTemplate(s.GetContext(), dunning.DefaultTemplateOverdue4))

	resp, err := s.service.GetTimeline(s.GetContext())
	s.NoError(err)
	s.False(resp.HasAfterDueStages)
	s.NotEmpty(resp.Warning)
}

func (s *EscalationPolicyServiceSuite) TestPreviewTemplate() {
	resp, err := s.service.PreviewTemplate(s.GetContext(), &dto.PreviewTemplateRequest{
		TemplateID: dunning.DefaultTemplateOverdue1,
	})
	s.NoError(err)
	s.Equal("Overdue: Invoice #INV-2024-001 - 7 Days Past Due", resp.Subject)
	s.Contains(resp.Body, "John Smith")
	s.Contains(resp.Body, "$1,250.00")
	s.Contains(resp.Body, "<strong>Invoice Details:</strong>")
	s.Equal("7", resp.Values["days_overdue"])
}

func (s *EscalationPolicyServiceSuite) TestPreviewInlineWithOverrides() {
	resp, err := s.service.PreviewTemplate(s.GetContext(), &dto.PreviewTemplateRequest{
		Subject: "Hi {{client_name}}",
		Body:    "Your balance of {{amount}} is {{days_overdue}} days overdue.",
		DayTrigger: &dto.DayTriggerInput{
			Type: types.DayTriggerAfterDue,
			Days: 21,
		},
		Values: map[string]string{"client_name": "Dana Lee"},
	})
	s.NoError(err)
	s.Equal("Hi Dana Lee", resp.Subject)
	s.Contains(resp.Body, "21 days overdue")
}

func (s *EscalationPolicyServiceSuite) TestPreviewRequiresASource() {
	_, err := s.service.PreviewTemplate(s.GetContext(), &dto.PreviewTemplateRequest{})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *EscalationPolicyServiceSuite) TestTenantIsolation() {
	_, err := s.service.ChangeDayTrigger(s.GetContext(), &dto.ChangeDayTriggerRequest{
		TemplateID: dunning.DefaultTemplateOverdue1,
		NewDay:     10,
	})
	s.NoError(err)

	otherCtx := types.SetTenantID(s.GetContext(), "tenant-2")
	policy, err := s.service.GetPolicy(otherCtx)
	s.NoError(err)
	for _, tmpl := range policy.Templates {
		if tmpl.ID == dunning.DefaultTemplateOverdue1 {
			s.Equal(7, tmpl.DayTrigger.Days)
		}
	}
}
