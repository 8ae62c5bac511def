package dunning

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCascadeName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		oldDay   int
		newDay   int
		expected string
	}{
		{
			name:     "dash day phrase",
			input:    "Overdue Reminder - Day 7",
			oldDay:   7,
			newDay:   14,
			expected: "Overdue Reminder - Day 14",
		},
		{
			name:     "bare day phrase",
			input:    "Day 7 Follow Up",
			oldDay:   7,
			newDay:   10,
			expected: "Day 10 Follow Up",
		},
		{
			name:     "day 1 does not match inside day 14",
			input:    "Reminder - Day 14",
			oldDay:   1,
			newDay:   2,
			expected: "Reminder - Day 14",
		},
		{
			name:     "day 1 at end of string",
			input:    "Reminder - Day 1",
			oldDay:   1,
			newDay:   3,
			expected: "Reminder - Day 3",
		},
		{
			name:     "no day phrase leaves name untouched",
			input:    "Gentle Nudge",
			oldDay:   7,
			newDay:   14,
			expected: "Gentle Nudge",
		},
		{
			name:     "unrelated day number untouched",
			input:    "Overdue Reminder - Day 21",
			oldDay:   7,
			newDay:   14,
			expected: "Overdue Reminder - Day 21",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, cascadeName(tt.input, tt.oldDay, tt.newDay))
		})
	}
}

func TestCascadeSubject(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		oldDay   int
		newDay   int
		expected string
	}{
		{
			name:     "days past due phrase",
			input:    "Overdue: Invoice #{{number}} - 7 Days Past Due",
			oldDay:   7,
			newDay:   14,
			expected: "Overdue: Invoice #{{number}} - 14 Days Past Due",
		},
		{
			name:     "days overdue phrase",
			input:    "Invoice #{{number}} - 14 Days Overdue",
			oldDay:   14,
			newDay:   21,
			expected: "Invoice #{{number}} - 21 Days Overdue",
		},
		{
			name:     "day phrase",
			input:    "Day 7 Notice: Invoice #{{number}}",
			oldDay:   7,
			newDay:   10,
			expected: "Day 10 Notice: Invoice #{{number}}",
		},
		{
			name:     "7 does not match inside 17",
			input:    "Invoice - 17 Days Overdue",
			oldDay:   7,
			newDay:   14,
			expected: "Invoice - 17 Days Overdue",
		},
		{
			name:     "phrase at end of string",
			input:    "Invoice overdue since Day 7",
			oldDay:   7,
			newDay:   30,
			expected: "Invoice overdue since Day 30",
		},
		{
			name:     "multiple occurrences all rewritten",
			input:    "Day 7: now 7 Days Overdue",
			oldDay:   7,
			newDay:   9,
			expected: "Day 9: now 9 Days Overdue",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, cascadeSubject(tt.input, tt.oldDay, tt.newDay))
		})
	}
}
