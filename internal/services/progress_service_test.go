package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/focusapp/focus-server/internal/models"
	"github.com/focusapp/focus-server/internal/storage"
)

func TestAddProgressRecordMergesSameDay(t *testing.T) {
	store := storage.NewMemoryStore()
	p, goal := newGuestWithGoal(t, store)
	ctx := context.Background()

	morning := time.Date(2024, 3, 1, 9, 0, 0, 0, time.Local)
	evening := time.Date(2024, 3, 1, 21, 0, 0, 0, time.Local)

	_, err := AddProgressRecord(ctx, store, p, AddRecordInput{GoalID: goal.ID.Hex(), Date: &morning, Activity: "reading", Duration: 30})
	require.NoError(t, err)
	doc, err := AddProgressRecord(ctx, store, p, AddRecordInput{GoalID: goal.ID.Hex(), Date: &evening, Activity: "notes", Duration: 15})
	require.NoError(t, err)

	assert.Len(t, doc.Records, 2)
	assert.Equal(t, 45, doc.TotalDuration)

	docs, err := store.ListProgressByGoal(ctx, goal.ID.Hex())
	require.NoError(t, err)
	assert.Len(t, docs, 1, "one document per goal and day")
}

func TestAddProgressRecordNewDayNewDocument(t *testing.T) {
	store := storage.NewMemoryStore()
	p, goal := newGuestWithGoal(t, store)
	ctx := context.Background()

	d1 := time.Date(2024, 3, 1, 9, 0, 0, 0, time.Local)
	d2 := time.Date(2024, 3, 2, 9, 0, 0, 0, time.Local)

	_, err := AddProgressRecord(ctx, store, p, AddRecordInput{GoalID: goal.ID.Hex(), Date: &d1, Activity: "reading", Duration: 30})
	require.NoError(t, err)
	_, err = AddProgressRecord(ctx, store, p, AddRecordInput{GoalID: goal.ID.Hex(), Date: &d2, Activity: "reading", Duration: 30})
	require.NoError(t, err)

	docs, err := store.ListProgressByGoal(ctx, goal.ID.Hex())
	require.NoError(t, err)
	assert.Len(t, docs, 2)
}

func TestAddProgressRecordValidation(t *testing.T) {
	store := storage.NewMemoryStore()
	p, goal := newGuestWithGoal(t, store)
	ctx := context.Background()

	_, err := AddProgressRecord(ctx, store, p, AddRecordInput{GoalID: goal.ID.Hex(), Duration: 10})
	assert.Error(t, err, "activity is required")

	_, err = AddProgressRecord(ctx, store, p, AddRecordInput{GoalID: goal.ID.Hex(), Activity: "x", Duration: -1})
	assert.Error(t, err, "negative duration is rejected")
}

func TestDeleteProgressRecordRecomputes(t *testing.T) {
	store := storage.NewMemoryStore()
	p, goal := newGuestWithGoal(t, store)
	ctx := context.Background()

	date := time.Date(2024, 3, 1, 9, 0, 0, 0, time.Local)
	doc, err := AddProgressRecord(ctx, store, p, AddRecordInput{GoalID: goal.ID.Hex(), Date: &date, Activity: "reading", Duration: 30})
	require.NoError(t, err)
	doc, err = AddProgressRecord(ctx, store, p, AddRecordInput{GoalID: goal.ID.Hex(), Date: &date, Activity: "notes", Duration: 15})
	require.NoError(t, err)

	updated, err := DeleteProgressRecord(ctx, store, p, doc.ID.Hex(), doc.Records[0].ID)
	require.NoError(t, err)
	assert.Len(t, updated.Records, 1)
	assert.Equal(t, 15, updated.TotalDuration)

	_, err = DeleteProgressRecord(ctx, store, p, doc.ID.Hex(), "no-such-record")
	assert.Error(t, err)
}

func TestSummarize(t *testing.T) {
	goal := &models.Goal{
		Checkpoints: []models.Checkpoint{
			{Title: "a", IsCompleted: true},
			{Title: "b"},
			{Title: "c"},
			{Title: "d"},
		},
	}
	docs := []models.Progress{
		{
			Date:          time.Date(2024, 3, 1, 9, 0, 0, 0, time.Local),
			TotalDuration: 45,
			Records: []models.ProgressRecord{
				{Activity: "reading", Duration: 30},
				{Activity: "notes", Duration: 15},
			},
		},
		{
			Date:          time.Date(2024, 3, 2, 9, 0, 0, 0, time.Local),
			TotalDuration: 30,
			Records: []models.ProgressRecord{
				{Activity: "notes", Duration: 30},
			},
		},
	}

	s := Summarize(goal, docs)

	assert.Equal(t, 75, s.TotalDuration)
	assert.Equal(t, 3, s.TotalRecords)
	assert.Equal(t, 2, s.RecordDays)
	assert.InDelta(t, 0.25, s.CheckpointCompletionRate, 1e-9)
	require.Len(t, s.ActivitiesByDuration, 2)
	assert.Equal(t, ActivityDuration{Activity: "notes", Duration: 45}, s.ActivitiesByDuration[0])
	assert.Equal(t, ActivityDuration{Activity: "reading", Duration: 30}, s.ActivitiesByDuration[1])
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(&models.Goal{}, nil)

	assert.Zero(t, s.TotalDuration)
	assert.Zero(t, s.RecordDays)
	assert.Zero(t, s.CheckpointCompletionRate)
	assert.NotNil(t, s.ActivitiesByDuration)
}

func TestSummarizeActivityTieBreaksAlphabetically(t *testing.T) {
	docs := []models.Progress{
		{
			Date: time.Date(2024, 3, 1, 9, 0, 0, 0, time.Local),
			Records: []models.ProgressRecord{
				{Activity: "zumba", Duration: 20},
				{Activity: "aikido", Duration: 20},
			},
		},
	}

	s := Summarize(&models.Goal{}, docs)
	require.Len(t, s.ActivitiesByDuration, 2)
	assert.Equal(t, "aikido", s.ActivitiesByDuration[0].Activity)
	assert.Equal(t, "zumba", s.ActivitiesByDuration[1].Activity)
}
