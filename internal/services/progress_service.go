package services

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/focusapp/focus-server/internal/models"
	"github.com/focusapp/focus-server/internal/storage"
	"github.com/focusapp/focus-server/internal/types"
)

// AddRecordInput is the payload for logging a progress record.
type AddRecordInput struct {
	GoalID   string     `json:"goalId"`
	Date     *time.Time `json:"date,omitempty"`
	Activity string     `json:"activity"`
	Duration int        `json:"duration"`
	Notes    string     `json:"notes"`
	Images   []string   `json:"images"`
}

// ActivityDuration is one row of the per-activity breakdown.
type ActivityDuration struct {
	Activity string `json:"activity"`
	Duration int    `json:"duration"`
}

// ProgressSummary aggregates progress over a date range.
type ProgressSummary struct {
	TotalDuration            int                `json:"totalDuration"`
	TotalRecords             int                `json:"totalRecords"`
	RecordDays               int                `json:"recordDays"`
	CheckpointCompletionRate float64            `json:"checkpointCompletionRate"`
	ActivitiesByDuration     []ActivityDuration `json:"activitiesByDuration"`
}

// AddProgressRecord appends a record to the goal's progress document for
// the record's calendar day, creating the document if the day has none.
// TotalDuration is recomputed on every mutation.
func AddProgressRecord(ctx context.Context, store storage.Store, p types.Principal, in AddRecordInput) (*models.Progress, error) {
	if in.Activity == "" {
		return nil, types.NewValidationError("activity is required")
	}
	if in.Duration < 0 {
		return nil, types.NewValidationError("duration must not be negative")
	}
	goal, err := GetOwnedGoal(ctx, store, p, in.GoalID)
	if err != nil {
		return nil, err
	}

	date := time.Now()
	if in.Date != nil {
		date = *in.Date
	}

	record := models.ProgressRecord{
		ID:        uuid.NewString(),
		Activity:  in.Activity,
		Duration:  in.Duration,
		Notes:     in.Notes,
		Images:    in.Images,
		CreatedAt: time.Now(),
	}

	// One progress document per (goal, account, day), matched on calendar
	// day like daily cards.
	existing, err := store.ListProgressByGoal(ctx, goal.ID.Hex())
	if err != nil {
		return nil, err
	}
	for i := range existing {
		if models.DayKey(existing[i].Date) == models.DayKey(date) {
			doc := existing[i]
			doc.Records = append(doc.Records, record)
			doc.RecomputeTotalDuration()
			if err := store.ReplaceProgress(ctx, &doc); err != nil {
				return nil, err
			}
			return &doc, nil
		}
	}

	doc := &models.Progress{
		GoalID:      goal.ID,
		UserID:      goal.UserID,
		Date:        date,
		Records:     []models.ProgressRecord{record},
		Checkpoints: goal.Checkpoints,
	}
	doc.RecomputeTotalDuration()
	if err := store.CreateProgress(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// DeleteProgressRecord removes one record from a progress document and
// recomputes the duration total.
func DeleteProgressRecord(ctx context.Context, store storage.Store, p types.Principal, progressID, recordID string) (*models.Progress, error) {
	doc, err := store.GetProgress(ctx, progressID)
	if err != nil {
		if err == storage.ErrNotFound {
			return nil, types.NewNotFoundError("progress not found")
		}
		return nil, err
	}
	ownerKeys, err := OwnerKeys(ctx, store, p)
	if err != nil {
		return nil, err
	}
	if !types.OwnsKey(ownerKeys, doc.UserID) {
		return nil, types.NewForbiddenError("progress belongs to another account")
	}

	kept := doc.Records[:0]
	found := false
	for _, r := range doc.Records {
		if r.ID == recordID {
			found = true
			continue
		}
		kept = append(kept, r)
	}
	if !found {
		return nil, types.NewNotFoundError("record not found")
	}
	doc.Records = kept
	doc.RecomputeTotalDuration()

	if err := store.ReplaceProgress(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// ListProgress returns a goal's progress documents ordered by date.
func ListProgress(ctx context.Context, store storage.Store, p types.Principal, goalID string) ([]models.Progress, error) {
	goal, err := GetOwnedGoal(ctx, store, p, goalID)
	if err != nil {
		return nil, err
	}
	docs, err := store.ListProgressByGoal(ctx, goal.ID.Hex())
	if err != nil {
		return nil, err
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].Date.Before(docs[j].Date) })
	return docs, nil
}

// Summarize aggregates a goal's progress documents within [start, end].
// Output is deterministic: activities are sorted by descending duration,
// ties broken alphabetically.
func Summarize(goal *models.Goal, docs []models.Progress) ProgressSummary {
	summary := ProgressSummary{ActivitiesByDuration: []ActivityDuration{}}

	days := map[string]bool{}
	byActivity := map[string]int{}
	for i := range docs {
		doc := &docs[i]
		summary.TotalDuration += doc.TotalDuration
		summary.TotalRecords += len(doc.Records)
		if len(doc.Records) > 0 {
			days[models.DayKey(doc.Date)] = true
		}
		for _, r := range doc.Records {
			byActivity[r.Activity] += r.Duration
		}
	}
	summary.RecordDays = len(days)

	if n := len(goal.Checkpoints); n > 0 {
		done := 0
		for _, cp := range goal.Checkpoints {
			if cp.IsCompleted {
				done++
			}
		}
		summary.CheckpointCompletionRate = float64(done) / float64(n)
	}

	for activity, duration := range byActivity {
		summary.ActivitiesByDuration = append(summary.ActivitiesByDuration, ActivityDuration{Activity: activity, Duration: duration})
	}
	sort.Slice(summary.ActivitiesByDuration, func(i, j int) bool {
		a, b := summary.ActivitiesByDuration[i], summary.ActivitiesByDuration[j]
		if a.Duration != b.Duration {
			return a.Duration > b.Duration
		}
		return a.Activity < b.Activity
	})

	return summary
}
