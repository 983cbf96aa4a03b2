package services

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/focusapp/focus-server/internal/inference"
	"github.com/focusapp/focus-server/internal/models"
	"github.com/focusapp/focus-server/internal/storage"
	"github.com/focusapp/focus-server/internal/types"
)

// Fixed section headings the prompt demands from the model.
var reportHeadings = []string{"Progress Analysis", "Potential Challenges", "Actionable Suggestions"}

const summaryLimit = 200

// BuildPrompt deterministically renders a goal's metadata and the in-range
// daily cards into the natural-language prompt, ending with the fixed
// instruction suffix.
func BuildPrompt(goal *models.Goal, start, end time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Goal: %s\n", goal.Title)
	fmt.Fprintf(&b, "Description: %s\n", goal.Description)
	if goal.Motivation != "" {
		fmt.Fprintf(&b, "Motivation: %s\n", goal.Motivation)
	}
	fmt.Fprintf(&b, "Daily task: %s\n", goal.CurrentSettings.DailyTask)
	fmt.Fprintf(&b, "Period: %s to %s\n\n", models.DayKey(start), models.DayKey(end))

	// Range membership is decided on calendar days, like card identity:
	// clients send bare Y-M-D dates that parse to midnight, so an instant
	// comparison would drop every card later in the range's last day.
	startKey, endKey := models.DayKey(start), models.DayKey(end)

	var completed, incomplete, notes []string
	for i := range goal.DailyCards {
		card := &goal.DailyCards[i]
		day := models.DayKey(card.Date)
		if day < startKey || day > endKey {
			continue
		}
		if card.Completed.DailyTask {
			completed = append(completed, fmt.Sprintf("%s: %s", day, card.DailyTask))
		} else {
			incomplete = append(incomplete, fmt.Sprintf("%s: %s", day, card.DailyTask))
		}
		for _, r := range card.Records {
			notes = append(notes, fmt.Sprintf("%s: %s", day, r.Content))
		}
	}

	writeList := func(header string, items []string) {
		fmt.Fprintf(&b, "%s:\n", header)
		if len(items) == 0 {
			b.WriteString("- none\n")
		}
		for _, item := range items {
			fmt.Fprintf(&b, "- %s\n", item)
		}
		b.WriteString("\n")
	}
	writeList("Completed daily tasks", completed)
	writeList("Incomplete daily tasks", incomplete)
	writeList("Progress notes", notes)

	fmt.Fprintf(&b, "Write a progress report with exactly three sections titled \"%s\", \"%s\" and \"%s\".",
		reportHeadings[0], reportHeadings[1], reportHeadings[2])

	return b.String()
}

// GenerateReport builds the prompt, calls the inference endpoint once,
// formats the reply and persists the resulting report. Upstream failures
// are returned as-is for the caller to surface; nothing is retried.
func GenerateReport(ctx context.Context, store storage.Store, ai *inference.Client, p types.Principal, goalID string, rng models.DateRange) (*models.Report, error) {
	if rng.EndDate.Before(rng.StartDate) {
		return nil, types.NewValidationError("timeRange endDate precedes startDate")
	}
	goal, err := GetOwnedGoal(ctx, store, p, goalID)
	if err != nil {
		return nil, err
	}

	prompt := BuildPrompt(goal, rng.StartDate, rng.EndDate)
	reply, err := ai.Complete(ctx, prompt)
	if err != nil {
		return nil, upstreamError(err)
	}

	report := &models.Report{
		GoalID:      goal.ID,
		UserID:      goal.UserID,
		Content:     FormatResponse(reply),
		GeneratedAt: time.Now(),
		DateRange:   rng,
	}
	if err := store.CreateReport(ctx, report); err != nil {
		// The report is a regenerable artifact; a failed save is not worth
		// failing the request over.
		log.Printf("Failed to persist report for goal %s: %v", goalID, err)
	}
	return report, nil
}

// boldHeading matches lines like **Progress Analysis** or **1. Progress Analysis:**
var boldHeading = regexp.MustCompile(`^\*\*\s*(.+?)\s*:?\s*\*\*:?$`)

// hashHeading matches markdown ATX headings.
var hashHeading = regexp.MustCompile(`^#{1,6}\s+(.+?)\s*$`)

// FormatResponse re-segments raw model output into labeled sections by
// scanning for heading-like lines: markdown bold markers, # headings, or
// short ALL-CAPS lines. The external service guarantees none of this, so
// any text that yields no headings falls back to a single unsectioned
// block. Never panics on malformed input.
func FormatResponse(text string) models.ReportContent {
	content := models.ReportContent{
		Details:  text,
		Sections: []models.ReportSection{},
	}

	var current *models.ReportSection
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if title, ok := headingTitle(trimmed); ok {
			content.Sections = append(content.Sections, models.ReportSection{Title: title})
			current = &content.Sections[len(content.Sections)-1]
			continue
		}
		if current != nil && trimmed != "" {
			if current.Content != "" {
				current.Content += "\n"
			}
			current.Content += trimmed
		}
	}

	if len(content.Sections) > 0 {
		content.Summary = truncate(content.Sections[0].Content, summaryLimit)
	} else {
		content.Summary = truncate(strings.TrimSpace(text), summaryLimit)
	}
	return content
}

// headingTitle reports whether a trimmed line looks like a section heading
// and returns its title text.
func headingTitle(line string) (string, bool) {
	if line == "" {
		return "", false
	}
	if m := boldHeading.FindStringSubmatch(line); m != nil {
		return m[1], true
	}
	if m := hashHeading.FindStringSubmatch(line); m != nil {
		return m[1], true
	}
	// Short ALL-CAPS lines read as shouted headings.
	if len(line) <= 40 && line == strings.ToUpper(line) && strings.ContainsFunc(line, isLetter) {
		return strings.TrimSuffix(line, ":"), true
	}
	return "", false
}

func isLetter(r rune) bool {
	return (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z')
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

// upstreamError converts an inference sentinel error to the API error
// taxonomy, naming the sub-case in details.
func upstreamError(err error) *types.CustomError {
	msg := "report generation failed, please try again later"
	switch err {
	case inference.ErrAuth:
		return types.NewUpstreamError(502, msg, "inference authentication failed")
	case inference.ErrRateLimited:
		return types.NewUpstreamError(502, msg, "inference rate limited")
	case inference.ErrTimeout:
		return types.NewUpstreamError(504, msg, "inference timed out")
	case inference.ErrEmptyReply:
		return types.NewUpstreamError(502, msg, "inference returned an empty reply")
	}
	return types.NewUpstreamError(503, msg, "inference service unavailable")
}
