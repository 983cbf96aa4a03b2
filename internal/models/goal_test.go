package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestDayKeySameInstantAnyZone verifies that every representation of the
// same instant maps to the same calendar key.
func TestDayKeySameInstantAnyZone(t *testing.T) {
	local := time.Date(2024, 3, 1, 10, 0, 0, 0, time.Local)

	assert.Equal(t, DayKey(local), DayKey(local.UTC()))
	assert.Equal(t, DayKey(local), DayKey(local.In(time.FixedZone("X", -5*3600))))
}

// TestDayKeyDifferentDays verifies that instants on different local days
// produce different keys.
func TestDayKeyDifferentDays(t *testing.T) {
	d1 := time.Date(2024, 3, 1, 23, 0, 0, 0, time.Local)
	d2 := time.Date(2024, 3, 2, 2, 0, 0, 0, time.Local)

	assert.NotEqual(t, DayKey(d1), DayKey(d2))
}

func TestFindDailyCard(t *testing.T) {
	morning := time.Date(2024, 3, 1, 8, 0, 0, 0, time.Local)
	goal := Goal{
		DailyCards: []DailyCard{
			{Date: morning, DailyTask: "Run"},
		},
	}

	// Same day, different time and zone representation
	evening := time.Date(2024, 3, 1, 22, 30, 0, 0, time.Local).UTC()
	assert.Equal(t, 0, goal.FindDailyCard(evening))

	// Next day
	assert.Equal(t, -1, goal.FindDailyCard(morning.AddDate(0, 0, 1)))
}

func TestPriorityRankOrdering(t *testing.T) {
	assert.Less(t, PriorityRank(PriorityHigh), PriorityRank(PriorityMedium))
	assert.Less(t, PriorityRank(PriorityMedium), PriorityRank(PriorityLow))
	assert.Greater(t, PriorityRank("bogus"), PriorityRank(PriorityLow))
}

func TestActiveCount(t *testing.T) {
	goals := []Goal{
		{Status: StatusActive},
		{Status: StatusCompleted},
		{Status: StatusArchived},
		{Status: StatusActive},
	}
	assert.Equal(t, 2, ActiveCount(goals))
}

func TestRecomputeTotalDuration(t *testing.T) {
	p := Progress{
		Records: []ProgressRecord{
			{Duration: 30},
			{Duration: 15},
		},
		TotalDuration: 999, // stale
	}
	p.RecomputeTotalDuration()
	assert.Equal(t, 45, p.TotalDuration)

	p.Records = nil
	p.RecomputeTotalDuration()
	assert.Equal(t, 0, p.TotalDuration)
}
