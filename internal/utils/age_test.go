package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAgeYears(t *testing.T) {
	today := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		birthday time.Time
		want     int
	}{
		{"birthday today", time.Date(2008, 8, 30, 0, 0, 0, 0, time.UTC), 18},
		{"birthday tomorrow", time.Date(2008, 8, 31, 0, 0, 0, 0, time.UTC), 17},
		{"birthday yesterday", time.Date(2008, 8, 29, 0, 0, 0, 0, time.UTC), 18},
		{"earlier month", time.Date(2008, 2, 1, 0, 0, 0, 0, time.UTC), 18},
		{"later month", time.Date(2008, 12, 1, 0, 0, 0, 0, time.UTC), 17},
		{"same day last year", time.Date(2025, 8, 30, 0, 0, 0, 0, time.UTC), 1},
		{"born this year", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AgeYears(tt.birthday, today))
		})
	}
}

func TestAgeGateBoundary(t *testing.T) {
	today := time.Now()

	// Exactly 18 today passes the gate; 18 tomorrow does not.
	exactly18 := today.AddDate(-18, 0, 0)
	assert.GreaterOrEqual(t, AgeYears(exactly18, today), 18)

	oneDayShort := today.AddDate(-18, 0, 1)
	assert.Less(t, AgeYears(oneDayShort, today), 18)
}
