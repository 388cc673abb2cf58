package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDurationDerivedLengths(t *testing.T) {
	hours := func(h int) *int { return &h }
	days := func(d int) *int { return &d }

	tests := []struct {
		name            string
		def             DurationDefinition
		totalHours      int
		approximateDays float64
		billableDays    int
	}{
		{
			name:            "half day in hours",
			def:             DurationDefinition{DurationHours: hours(4)},
			totalHours:      4,
			approximateDays: 4.0 / 24,
			billableDays:    1,
		},
		{
			name:            "full day",
			def:             DurationDefinition{DurationDays: days(1)},
			totalHours:      24,
			approximateDays: 1,
			billableDays:    1,
		},
		{
			name:            "thirty six hours rounds up",
			def:             DurationDefinition{DurationHours: hours(36)},
			totalHours:      36,
			approximateDays: 1.5,
			billableDays:    2,
		},
		{
			name:            "week",
			def:             DurationDefinition{DurationDays: days(7)},
			totalHours:      168,
			approximateDays: 7,
			billableDays:    7,
		},
		{
			name:            "days take precedence over hours",
			def:             DurationDefinition{DurationDays: days(2), DurationHours: hours(4)},
			totalHours:      48,
			approximateDays: 2,
			billableDays:    2,
		},
		{
			name:            "custom has no fixed length",
			def:             DurationDefinition{IsCustom: true},
			totalHours:      0,
			approximateDays: 0,
			billableDays:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.totalHours, tt.def.TotalHours())
			assert.Equal(t, tt.approximateDays, tt.def.ApproximateDays())
			assert.Equal(t, tt.billableDays, tt.def.BillableDays())
		})
	}
}
