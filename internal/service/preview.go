package service

import (
	"context"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/firmledger/firmledger/internal/api/dto"
	"github.com/firmledger/firmledger/internal/domain/dunning"
	"github.com/firmledger/firmledger/internal/render"
)

// sampleInvoiceAmount backs the preview's {{amount}} value
var sampleInvoiceAmount = decimal.NewFromFloat(1250.00)

// PreviewTemplate renders a template's subject and body against a merge-field
// data context. The data context starts from sample values, derives the
// day-dependent fields from the template's trigger, then applies any
// caller-supplied overrides. Unknown tokens stay unrendered.
func (s *escalationPolicyService) PreviewTemplate(ctx context.Context, req *dto.PreviewTemplateRequest) (*dto.PreviewTemplateResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	subject := req.Subject
	body := req.Body
	trigger := dunning.AfterDue(0)
	if req.DayTrigger != nil {
		trigger = req.DayTrigger.ToDayTrigger()
	}

	if req.TemplateID != "" {
		policy, err := s.loadOrDefault(ctx)
		if err != nil {
			return nil, err
		}
		template, err := policy.Template(req.TemplateID)
		if err != nil {
			return nil, err
		}
		if subject == "" {
			subject = template.Subject
		}
		if body == "" {
			body = template.Body
		}
		if req.DayTrigger == nil {
			trigger = template.DayTrigger
		}
	}

	values := previewValues(trigger)
	for token, value := range req.Values {
		values[token] = value
	}

	return &dto.PreviewTemplateResponse{
		Subject: render.RenderSubject(subject, values),
		Body:    render.Render(body, values),
		Values:  values,
	}, nil
}

// previewValues builds the sample data context, deriving the day-dependent
// fields from the trigger the way the live preview pane does.
func previewValues(trigger dunning.DayTrigger) map[string]string {
	daysOverdue := 0
	daysUntilDue := 0
	if trigger.IsBeforeDue() {
		daysUntilDue = trigger.Days
	} else {
		daysOverdue = trigger.Days
	}

	return map[string]string{
		"client_name":    "John Smith",
		"number":         "INV-2024-001",
		"amount":         formatAmount(sampleInvoiceAmount),
		"due_date":       "December 15, 2024",
		"days_overdue":   strconv.Itoa(daysOverdue),
		"days_until_due": strconv.Itoa(daysUntilDue),
		"company_name":   "Acme Corp",
		"support_email":  "support@acmecorp.com",
		"support_phone":  "(555) 123-4567",
	}
}

// formatAmount renders a decimal as a US-style currency string, e.g. $1,250.00
func formatAmount(amount decimal.Decimal) string {
	fixed := amount.StringFixed(2)

	negative := strings.HasPrefix(fixed, "-")
	fixed = strings.TrimPrefix(fixed, "-")

	parts := strings.SplitN(fixed, ".", 2)
	whole := parts[0]

	var b strings.Builder
	for i, digit := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}

	out := "$" + b.String() + "." + parts[1]
	if negative {
		out = "-" + out
	}
	return out
}
