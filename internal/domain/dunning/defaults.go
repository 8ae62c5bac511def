package dunning

import (
	"context"
	"fmt"
	"time"

	"github.com/firmledger/firmledger/internal/types"
)

// DefaultFinalAction is the terminal action a fresh policy starts with
const DefaultFinalAction = types.FinalActionSuspend

// Stable ids for the default template set. Defaults keep fixed ids so a reset
// always restores the exact same state; user-created templates get ULIDs.
const (
	DefaultTemplateBeforeDue = "before-due"
	DefaultTemplateDueDate   = "due-date"
	DefaultTemplateOverdue1  = "overdue-1"
	DefaultTemplateOverdue2  = "overdue-2"
	DefaultTemplateOverdue3  = "overdue-3"
	DefaultTemplateOverdue4  = "overdue-4"
)

// DefaultPolicy builds a fresh escalation policy for the tenant and
// environment in the context: one before-due reminder three days out, five
// after-due reminders at days 0/7/14/21/30, the day-30 reminder carrying the
// write-off marker, retries at 1/3/7 days and a suspend final action.
func DefaultPolicy(ctx context.Context) *EscalationPolicy {
	return &EscalationPolicy{
		Templates:     DefaultTemplates(types.GetTenantID(ctx)),
		RetrySchedule: DefaultRetrySchedule(),
		FinalAction:   DefaultFinalAction,
		EnvironmentID: types.GetEnvironmentID(ctx),
		BaseModel:     types.GetDefaultBaseModel(ctx),
	}
}

// DefaultTemplates returns the hard-coded default reminder set
func DefaultTemplates(tenantID string) []*ReminderTemplate {
	now := time.Now().UTC()
	base := types.BaseModel{
		TenantID:  tenantID,
		Status:    types.StatusPublished,
		CreatedAt: now,
		UpdatedAt: now,
	}

	return []*ReminderTemplate{
		{
			ID:         DefaultTemplateBeforeDue,
			Name:       "Payment Due Soon",
			DayTrigger: BeforeDue(3),
			Subject:    "Reminder: Invoice #{{number}} Due in {{days_until_due}} Days",
			Body: `Hello {{client_name}},

This is a friendly reminder that your invoice payment is due soon.

**Invoice Details:**
Invoice #{{number}}
Amount Due: {{amount}}
Due Date: {{due_date}}
Days Until Due: {{days_until_due}}

You can view and pay your invoice by logging into your client portal or clicking the link below.

Thank you for your business!

Best regards,
{{company_name}}`,
			BaseModel: base,
		},
		{
			ID:         DefaultTemplateDueDate,
			Name:       "Payment Due Today",
			DayTrigger: AfterDue(0),
			Subject:    "Payment Due Today: Invoice #{{number}}",
			Body: `Hello {{client_name}},

This is a reminder that your invoice payment is due today.

**Invoice Details:**
Invoice #{{number}}
Amount Due: {{amount}}
Due Date: {{due_date}}

Please submit payment at your earliest convenience. You can pay through your client portal or contact us for payment options.

If you've already sent payment, please disregard this message.

Thank you,
{{company_name}}`,
			BaseModel: base,
		},
		{
			ID:         DefaultTemplateOverdue1,
			Name:       "Overdue Reminder 1",
			DayTrigger: AfterDue(7),
			Subject:    "Overdue: Invoice #{{number}} - 7 Days Past Due",
			Body: `Hello {{client_name}},

We wanted to let you know that we haven't received payment for your invoice.

**Invoice Details:**
Invoice #{{number}}
Amount Due: {{amount}}
Original Due Date: {{due_date}}
Days Overdue: {{days_overdue}}

This may have been an oversight. Please submit payment as soon as possible to avoid any late fees or service interruptions.

If you have any questions or need to discuss payment arrangements, please contact us.

Thank you,
{{company_name}}`,
			BaseModel: base,
		},
		{
			ID:         DefaultTemplateOverdue2,
			Name:       "Overdue Reminder 2",
			DayTrigger: AfterDue(14),
			Subject:    "Action Required: Invoice #{{number}} - 14 Days Past Due",
			Body: `Hello {{client_name}},

Your invoice payment remains outstanding and is now {{days_overdue}} days past due.

**Invoice Details:**
Invoice #{{number}}
Amount Due: {{amount}}
Original Due Date: {{due_date}}
Days Overdue: {{days_overdue}}

**Immediate action is required to avoid:**
• Late fees being applied
• Service suspension
• Account restrictions

Please submit payment immediately or contact us to discuss payment arrangements.

Best regards,
{{company_name}}`,
			BaseModel: base,
		},
		{
			ID:         DefaultTemplateOverdue3,
			Name:       "Overdue Reminder 3",
			DayTrigger: AfterDue(21),
			Subject:    "Urgent: Invoice #{{number}} - 21 Days Past Due",
			Body: `Hello {{client_name}},

Your invoice payment is now {{days_overdue}} days past due and requires urgent attention.

**Invoice Details:**
Invoice #{{number}}
Amount Due: {{amount}}
Original Due Date: {{due_date}}
Days Overdue: {{days_overdue}}

**Account Status:**
Continued non-payment may result in service suspension or account restrictions.

Please submit payment immediately or contact us to discuss this matter.

Thank you,
{{company_name}} Billing Team`,
			BaseModel: base,
		},
		{
			ID:          DefaultTemplateOverdue4,
			Name:        "Final Notice - Account Suspended",
			DayTrigger:  AfterDue(30),
			Subject:     "Account Suspended - Payment Required for Invoice #{{number}}",
			FinalStatus: types.FinalStatusWriteOff,
			Body: `Hello {{client_name}},

Your account has been suspended due to non-payment. This invoice is now {{days_overdue}} days overdue.

**Invoice Details:**
Invoice #{{number}}
Amount Due: {{amount}}
Original Due Date: {{due_date}}
Days Overdue: {{days_overdue}}

**Account Status: SUSPENDED**

To reactivate your services, please update your payment method or contact our billing team.

If you're experiencing financial difficulty, please contact us immediately to discuss payment options.

{{company_name}}`,
			BaseModel: base,
		},
	}
}

// NewOverdueTemplate seeds a user-created after-due template at the given day
// with a generic name, subject and body built from the merge-field catalog.
func NewOverdueTemplate(ctx context.Context, day int) *ReminderTemplate {
	day = types.ClampAfterDueDay(day)
	return &ReminderTemplate{
		ID:         types.GenerateUUIDWithPrefix(types.UUID_PREFIX_REMINDER_TEMPLATE),
		Name:       formatDayName(day),
		DayTrigger: AfterDue(day),
		Subject:    formatDaySubject(day),
		Body: `Hello {{client_name}},

Your invoice payment is now {{days_overdue}} days past due.

**Invoice Details:**
Invoice #{{number}}
Amount Due: {{amount}}
Original Due Date: {{due_date}}
Days Overdue: {{days_overdue}}

Please submit payment as soon as possible, or contact us at {{support_email}} to discuss payment arrangements.

Thank you,
{{company_name}}`,
		BaseModel: types.GetDefaultBaseModel(ctx),
	}
}

func formatDayName(day int) string {
	return fmt.Sprintf("Overdue Reminder - Day %d", day)
}

func formatDaySubject(day int) string {
	return fmt.Sprintf("Overdue: Invoice #{{number}} - %d Days Past Due", day)
}
