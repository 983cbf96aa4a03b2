package services

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/focusapp/focus-server/internal/models"
)

func sampleReportGoal() *models.Goal {
	return &models.Goal{
		Title:       "Read daily",
		Description: "Working towards: Read daily",
		Motivation:  "books pile up",
		CurrentSettings: models.DailySettings{
			DailyTask: "Read 20 pages",
		},
		DailyCards: []models.DailyCard{
			{
				Date:      time.Date(2024, 3, 1, 9, 0, 0, 0, time.Local),
				DailyTask: "Read 20 pages",
				Completed: models.CardCompletion{DailyTask: true},
				Records:   []models.CardRecord{{Content: "finished chapter 3"}},
			},
			{
				Date:      time.Date(2024, 3, 2, 9, 0, 0, 0, time.Local),
				DailyTask: "Read 20 pages",
			},
			{
				// Outside the requested range.
				Date:      time.Date(2024, 4, 1, 9, 0, 0, 0, time.Local),
				DailyTask: "Read 20 pages",
			},
		},
	}
}

func TestBuildPromptDeterministicAndFiltered(t *testing.T) {
	goal := sampleReportGoal()
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.Local)
	end := time.Date(2024, 3, 7, 23, 59, 59, 0, time.Local)

	first := BuildPrompt(goal, start, end)
	second := BuildPrompt(goal, start, end)
	assert.Equal(t, first, second)

	assert.Contains(t, first, "Goal: Read daily")
	assert.Contains(t, first, "2024-03-01: Read 20 pages")
	assert.Contains(t, first, "finished chapter 3")
	assert.NotContains(t, first, "2024-04-01", "cards outside the range are excluded")
	assert.Contains(t, first, "Progress Analysis")
}

func TestBuildPromptIncludesEndDayCard(t *testing.T) {
	goal := sampleReportGoal()
	// Bare Y-M-D range dates parse to local midnight; the 09:00 card on the
	// final day must still be in range.
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.Local)
	end := time.Date(2024, 3, 7, 0, 0, 0, 0, time.Local)
	goal.DailyCards = append(goal.DailyCards, models.DailyCard{
		Date:      time.Date(2024, 3, 7, 9, 0, 0, 0, time.Local),
		DailyTask: "Read 20 pages",
		Completed: models.CardCompletion{DailyTask: true},
	})

	prompt := BuildPrompt(goal, start, end)
	assert.Contains(t, prompt, "2024-03-07: Read 20 pages")
}

func TestBuildPromptEmptyPeriod(t *testing.T) {
	goal := sampleReportGoal()
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.Local)
	end := time.Date(2023, 1, 7, 0, 0, 0, 0, time.Local)

	prompt := BuildPrompt(goal, start, end)
	assert.Contains(t, prompt, "Completed daily tasks:\n- none")
	assert.Contains(t, prompt, "Progress notes:\n- none")
}

func TestFormatResponseBoldHeadings(t *testing.T) {
	raw := strings.Join([]string{
		"**Progress Analysis**",
		"You read on most days.",
		"",
		"**Potential Challenges**",
		"Weekends slip.",
		"",
		"**Actionable Suggestions**",
		"Read before breakfast.",
	}, "\n")

	content := FormatResponse(raw)

	require.Len(t, content.Sections, 3)
	assert.Equal(t, "Progress Analysis", content.Sections[0].Title)
	assert.Equal(t, "You read on most days.", content.Sections[0].Content)
	assert.Equal(t, "You read on most days.", content.Summary)
	assert.Equal(t, raw, content.Details)
}

func TestFormatResponseHashAndCapsHeadings(t *testing.T) {
	raw := strings.Join([]string{
		"## Progress Analysis",
		"Good pace.",
		"POTENTIAL CHALLENGES:",
		"Travel week ahead.",
	}, "\n")

	content := FormatResponse(raw)

	require.Len(t, content.Sections, 2)
	assert.Equal(t, "Progress Analysis", content.Sections[0].Title)
	assert.Equal(t, "POTENTIAL CHALLENGES", content.Sections[1].Title)
	assert.Equal(t, "Travel week ahead.", content.Sections[1].Content)
}

func TestFormatResponseMalformedFallback(t *testing.T) {
	raw := "the model just rambled with no structure at all " + strings.Repeat("x", 300)

	content := FormatResponse(raw)

	assert.Empty(t, content.Sections)
	assert.Equal(t, raw, content.Details)
	assert.LessOrEqual(t, len([]rune(content.Summary)), 200)
}

func TestFormatResponseEmptyInput(t *testing.T) {
	content := FormatResponse("")

	assert.Empty(t, content.Sections)
	assert.Empty(t, content.Summary)
}
