package dunning

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ierr "github.com/firmledger/firmledger/internal/errors"
	"github.com/firmledger/firmledger/internal/types"
)

func testContext() context.Context {
	ctx := context.Background()
	ctx = types.SetTenantID(ctx, types.DefaultTenantID)
	ctx = types.SetEnvironmentID(ctx, types.DefaultEnvironmentID)
	return ctx
}

func TestDefaultPolicy(t *testing.T) {
	policy := DefaultPolicy(testContext())

	require.Len(t, policy.Templates, 6)
	assert.Len(t, policy.BeforeDueTemplates(), 1)
	assert.Len(t, policy.AfterDueTemplates(), 5)
	assert.Equal(t, types.FinalActionSuspend, policy.FinalAction)
	assert.Equal(t, RetrySchedule{Retry1Days: 1, Retry2Days: 3, Retry3Days: 7}, policy.RetrySchedule)

	// after-due days are 0/7/14/21/30, day 30 carries the write-off marker
	days := []int{}
	for _, tmpl := range policy.AfterDueTemplates() {
		days = append(days, tmpl.DayTrigger.Days)
	}
	assert.Equal(t, []int{0, 7, 14, 21, 30}, days)

	terminal, err := policy.Template(DefaultTemplateOverdue4)
	require.NoError(t, err)
	assert.Equal(t, types.FinalStatusWriteOff, terminal.FinalStatus)
	assert.True(t, terminal.IsTerminal())

	require.NoError(t, policy.Validate())
}

func TestChangeDayTrigger(t *testing.T) {
	t.Run("cascades name and subject", func(t *testing.T) {
		policy := DefaultPolicy(testContext())

		tmpl, err := policy.Template(DefaultTemplateOverdue1)
		require.NoError(t, err)
		tmpl.Name = "Overdue Reminder - Day 7"

		applied, err := policy.ChangeDayTrigger(DefaultTemplateOverdue1, 10)
		require.NoError(t, err)
		assert.Equal(t, 10, applied)

		assert.Equal(t, "Overdue Reminder - Day 10", tmpl.Name)
		assert.Equal(t, "Overdue: Invoice #{{number}} - 10 Days Past Due", tmpl.Subject)
		assert.Equal(t, AfterDue(10), tmpl.DayTrigger)
	})

	t.Run("duplicate day leaves template untouched", func(t *testing.T) {
		policy := DefaultPolicy(testContext())

		tmpl, err := policy.Template(DefaultTemplateOverdue2)
		require.NoError(t, err)
		originalSubject := tmpl.Subject

		_, err = policy.ChangeDayTrigger(DefaultTemplateOverdue2, 7)
		require.Error(t, err)
		assert.True(t, ierr.IsAlreadyExists(err))
		assert.Equal(t, "Day 7 already exists. Please choose a different day.", ierr.Hint(err))

		assert.Equal(t, 14, tmpl.DayTrigger.Days)
		assert.Equal(t, originalSubject, tmpl.Subject)
	})

	t.Run("clamps below zero", func(t *testing.T) {
		policy := DefaultPolicy(testContext())

		// day 0 is taken by the due-date template, so clamp then collide
		_, err := policy.ChangeDayTrigger(DefaultTemplateOverdue1, -5)
		require.Error(t, err)
		assert.True(t, ierr.IsAlreadyExists(err))
	})

	t.Run("clamps above maximum", func(t *testing.T) {
		policy := DefaultPolicy(testContext())

		applied, err := policy.ChangeDayTrigger(DefaultTemplateOverdue1, 9999)
		require.NoError(t, err)
		assert.Equal(t, 365, applied)
	})

	t.Run("same day is a no-op", func(t *testing.T) {
		policy := DefaultPolicy(testContext())

		tmpl, err := policy.Template(DefaultTemplateOverdue1)
		require.NoError(t, err)
		originalName := tmpl.Name

		applied, err := policy.ChangeDayTrigger(DefaultTemplateOverdue1, 7)
		require.NoError(t, err)
		assert.Equal(t, 7, applied)
		assert.Equal(t, originalName, tmpl.Name)
	})

	t.Run("rejects before-due templates", func(t *testing.T) {
		policy := DefaultPolicy(testContext())

		_, err := policy.ChangeDayTrigger(DefaultTemplateBeforeDue, 10)
		require.Error(t, err)
		assert.True(t, ierr.IsInvalidOperation(err))
	})

	t.Run("unknown template", func(t *testing.T) {
		policy := DefaultPolicy(testContext())

		_, err := policy.ChangeDayTrigger("missing", 10)
		require.Error(t, err)
		assert.True(t, ierr.IsNotFound(err))
	})
}

func TestAddTemplate(t *testing.T) {
	policy := DefaultPolicy(testContext())

	t.Run("adds at a free day", func(t *testing.T) {
		tmpl := NewOverdueTemplate(testContext(), 45)
		require.NoError(t, policy.AddTemplate(tmpl))
		assert.Len(t, policy.Templates, 7)
	})

	t.Run("rejects a taken day", func(t *testing.T) {
		tmpl := NewOverdueTemplate(testContext(), 45)
		err := policy.AddTemplate(tmpl)
		require.Error(t, err)
		assert.True(t, ierr.IsAlreadyExists(err))
	})

	t.Run("rejects blank fields", func(t *testing.T) {
		tmpl := NewOverdueTemplate(testContext(), 60)
		tmpl.Subject = "   "
		err := policy.AddTemplate(tmpl)
		require.Error(t, err)
		assert.True(t, ierr.IsValidation(err))
	})
}

func TestUpdateTemplate(t *testing.T) {
	t.Run("replaces fields in full", func(t *testing.T) {
		policy := DefaultPolicy(testContext())

		tmpl, err := policy.Template(DefaultTemplateOverdue1)
		require.NoError(t, err)

		updated := tmpl.Copy()
		updated.Name = "Friendly Follow Up"
		updated.Body = "Hello {{client_name}}, please pay."
		require.NoError(t, policy.UpdateTemplate(updated))

		stored, err := policy.Template(DefaultTemplateOverdue1)
		require.NoError(t, err)
		assert.Equal(t, "Friendly Follow Up", stored.Name)
		assert.Equal(t, "Hello {{client_name}}, please pay.", stored.Body)
	})

	t.Run("invalid update leaves stored template untouched", func(t *testing.T) {
		policy := DefaultPolicy(testContext())

		tmpl, err := policy.Template(DefaultTemplateOverdue1)
		require.NoError(t, err)
		originalName := tmpl.Name

		updated := tmpl.Copy()
		updated.Name = "New Name"
		updated.Body = ""
		require.Error(t, policy.UpdateTemplate(updated))

		stored, err := policy.Template(DefaultTemplateOverdue1)
		require.NoError(t, err)
		assert.Equal(t, originalName, stored.Name)
	})

	t.Run("day collision via update is rejected", func(t *testing.T) {
		policy := DefaultPolicy(testContext())

		tmpl, err := policy.Template(DefaultTemplateOverdue1)
		require.NoError(t, err)

		updated := tmpl.Copy()
		updated.DayTrigger = AfterDue(14)
		err = policy.UpdateTemplate(updated)
		require.Error(t, err)
		assert.True(t, ierr.IsAlreadyExists(err))
	})
}

func TestDeleteTemplate(t *testing.T) {
	policy := DefaultPolicy(testContext())

	t.Run("deletes a regular template", func(t *testing.T) {
		require.NoError(t, policy.DeleteTemplate(DefaultTemplateOverdue2))
		_, err := policy.Template(DefaultTemplateOverdue2)
		assert.True(t, ierr.IsNotFound(err))
	})

	t.Run("terminal template is protected", func(t *testing.T) {
		err := policy.DeleteTemplate(DefaultTemplateOverdue4)
		require.Error(t, err)
		assert.True(t, ierr.IsInvalidOperation(err))

		_, err = policy.Template(DefaultTemplateOverdue4)
		assert.NoError(t, err)
	})

	t.Run("unknown template", func(t *testing.T) {
		err := policy.DeleteTemplate("missing")
		assert.True(t, ierr.IsNotFound(err))
	})
}

func TestSetDaysBeforeDue(t *testing.T) {
	policy := DefaultPolicy(testContext())

	t.Run("accepts preset values", func(t *testing.T) {
		for _, days := range types.BeforeDuePresets {
			require.NoError(t, policy.SetDaysBeforeDue(DefaultTemplateBeforeDue, days))
		}
	})

	t.Run("rejects non-preset values", func(t *testing.T) {
		err := policy.SetDaysBeforeDue(DefaultTemplateBeforeDue, 4)
		require.Error(t, err)
		assert.True(t, ierr.IsValidation(err))
	})

	t.Run("rejects after-due templates", func(t *testing.T) {
		err := policy.SetDaysBeforeDue(DefaultTemplateOverdue1, 3)
		require.Error(t, err)
		assert.True(t, ierr.IsInvalidOperation(err))
	})
}

func TestSetRetryDays(t *testing.T) {
	policy := DefaultPolicy(testContext())

	t.Run("sets within range", func(t *testing.T) {
		require.NoError(t, policy.SetRetryDays(types.RetrySlot2, 5))
		assert.Equal(t, 5, policy.RetrySchedule.Retry2Days)
	})

	t.Run("clamps below minimum", func(t *testing.T) {
		require.NoError(t, policy.SetRetryDays(types.RetrySlot1, 0))
		assert.Equal(t, 1, policy.RetrySchedule.Retry1Days)
	})

	t.Run("clamps above maximum", func(t *testing.T) {
		require.NoError(t, policy.SetRetryDays(types.RetrySlot3, 200))
		assert.Equal(t, 90, policy.RetrySchedule.Retry3Days)
	})

	t.Run("rejects an invalid slot", func(t *testing.T) {
		err := policy.SetRetryDays(types.RetrySlot(4), 5)
		require.Error(t, err)
		assert.True(t, ierr.IsValidation(err))
	})
}

func TestResetToDefaults(t *testing.T) {
	policy := DefaultPolicy(testContext())

	require.NoError(t, policy.DeleteTemplate(DefaultTemplateOverdue1))
	_, err := policy.ChangeDayTrigger(DefaultTemplateOverdue2, 10)
	require.NoError(t, err)
	require.NoError(t, policy.SetRetryDays(types.RetrySlot1, 2))
	require.NoError(t, policy.SetFinalAction(types.FinalActionCollections))

	policy.ResetToDefaults()

	assert.Len(t, policy.Templates, 6)
	assert.Equal(t, DefaultRetrySchedule(), policy.RetrySchedule)
	assert.Equal(t, types.FinalActionSuspend, policy.FinalAction)

	restored, err := policy.Template(DefaultTemplateOverdue2)
	require.NoError(t, err)
	assert.Equal(t, 14, restored.DayTrigger.Days)
	require.NoError(t, policy.Validate())
}

func TestPolicyValidate(t *testing.T) {
	t.Run("duplicate after-due days rejected", func(t *testing.T) {
		policy := DefaultPolicy(testContext())
		policy.Templates[2].DayTrigger = AfterDue(14)

		err := policy.Validate()
		require.Error(t, err)
		assert.True(t, ierr.IsAlreadyExists(err))
	})

	t.Run("before-due day may equal an after-due day", func(t *testing.T) {
		policy := DefaultPolicy(testContext())
		require.NoError(t, policy.SetDaysBeforeDue(DefaultTemplateBeforeDue, 7))
		assert.NoError(t, policy.Validate())
	})
}

func TestSortedTemplates(t *testing.T) {
	policy := DefaultPolicy(testContext())

	_, err := policy.ChangeDayTrigger(DefaultTemplateOverdue1, 25)
	require.NoError(t, err)

	days := []int{}
	for _, tmpl := range policy.SortedTemplates() {
		days = append(days, tmpl.DayTrigger.EffectiveDay())
	}
	assert.Equal(t, []int{-3, 0, 14, 21, 25, 30}, days)
}
