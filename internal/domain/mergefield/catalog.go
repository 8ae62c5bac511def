package mergefield

import (
	"strings"

	"github.com/samber/lo"
)

// Category groups merge fields for display in the editor sidebar
type Category string

const (
	CategoryClient  Category = "Client"
	CategoryInvoice Category = "Invoice"
	CategoryPayment Category = "Payment"
	CategoryCompany Category = "Company"
)

// MergeField is a substitutable token available to reminder templates.
// The catalog is immutable and defined once at process start.
type MergeField struct {
	Token    string   `json:"token"`
	Label    string   `json:"label"`
	Category Category `json:"category"`
}

// Placeholder returns the token in its template form, e.g. {{client_name}}
func (f MergeField) Placeholder() string {
	return "{{" + f.Token + "}}"
}

var catalog = []MergeField{
	{Token: "client_name", Label: "Client Name", Category: CategoryClient},
	{Token: "number", Label: "Invoice Number", Category: CategoryInvoice},
	{Token: "amount", Label: "Amount Due", Category: CategoryPayment},
	{Token: "due_date", Label: "Due Date", Category: CategoryPayment},
	{Token: "days_overdue", Label: "Days Overdue", Category: CategoryPayment},
	{Token: "days_until_due", Label: "Days Until Due", Category: CategoryPayment},
	{Token: "company_name", Label: "Company Name", Category: CategoryCompany},
	{Token: "support_email", Label: "Support Email", Category: CategoryCompany},
	{Token: "support_phone", Label: "Support Phone", Category: CategoryCompany},
}

// All returns the full catalog in display order
func All() []MergeField {
	out := make([]MergeField, len(catalog))
	copy(out, catalog)
	return out
}

// Tokens returns the registered token names
func Tokens() []string {
	return lo.Map(catalog, func(f MergeField, _ int) string {
		return f.Token
	})
}

// Lookup finds a merge field by token. Accepts either the bare token or its
// {{token}} placeholder form.
func Lookup(token string) (MergeField, bool) {
	token = strings.TrimSuffix(strings.TrimPrefix(token, "{{"), "}}")
	return lo.Find(catalog, func(f MergeField) bool {
		return f.Token == token
	})
}

// ByCategory returns the merge fields in a category
func ByCategory(category Category) []MergeField {
	return lo.Filter(catalog, func(f MergeField, _ int) bool {
		return f.Category == category
	})
}

// Categories returns the catalog categories in display order
func Categories() []Category {
	return lo.Uniq(lo.Map(catalog, func(f MergeField, _ int) Category {
		return f.Category
	}))
}
