package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/focusapp/focus-server/internal/models"
	"github.com/focusapp/focus-server/internal/storage"
	"github.com/focusapp/focus-server/internal/types"
)

func newGuestWithGoal(t *testing.T, store storage.Store) (types.Principal, *models.Goal) {
	t.Helper()
	ctx := context.Background()

	tu, _, err := GetOrCreateGuest(ctx, store, "")
	require.NoError(t, err)
	p := types.GuestPrincipal(tu.TempID)

	goal, err := CreateGoal(ctx, store, p, CreateGoalInput{
		Title:      "Read daily",
		Motivation: "books pile up",
		CurrentSettings: &models.DailySettings{
			DailyTask:   "Read 20 pages",
			DailyReward: "One episode",
		},
	})
	require.NoError(t, err)
	return p, goal
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestUpsertDailyCardIdempotentIdentity(t *testing.T) {
	store := storage.NewMemoryStore()
	p, goal := newGuestWithGoal(t, store)
	ctx := context.Background()

	date := time.Date(2024, 3, 1, 9, 0, 0, 0, time.Local)
	_, err := UpsertDailyCard(ctx, store, p, goal.ID.Hex(), DailyCardPatch{Date: &date, DailyTask: strPtr("Run")})
	require.NoError(t, err)

	// Same calendar day, different time-of-day and zone representation.
	later := time.Date(2024, 3, 1, 22, 0, 0, 0, time.Local).UTC()
	updated, err := UpsertDailyCard(ctx, store, p, goal.ID.Hex(), DailyCardPatch{Date: &later, DailyReward: strPtr("Tea")})
	require.NoError(t, err)

	require.Len(t, updated.DailyCards, 1)
	assert.Equal(t, "Run", updated.DailyCards[0].DailyTask)
	assert.Equal(t, "Tea", updated.DailyCards[0].DailyReward)
}

func TestUpsertDailyCardSplitsAcrossMidnight(t *testing.T) {
	store := storage.NewMemoryStore()
	p, goal := newGuestWithGoal(t, store)
	ctx := context.Background()

	lateNight := time.Date(2024, 3, 1, 23, 0, 0, 0, time.Local)
	earlyMorning := time.Date(2024, 3, 2, 2, 0, 0, 0, time.Local)

	_, err := UpsertDailyCard(ctx, store, p, goal.ID.Hex(), DailyCardPatch{Date: &lateNight, DailyTask: strPtr("Run")})
	require.NoError(t, err)
	updated, err := UpsertDailyCard(ctx, store, p, goal.ID.Hex(), DailyCardPatch{
		Date:    &earlyMorning,
		Records: []models.CardRecord{{Content: "done"}},
	})
	require.NoError(t, err)

	assert.Len(t, updated.DailyCards, 2)
}

func TestUpsertDailyCardSeedsFromCurrentSettings(t *testing.T) {
	store := storage.NewMemoryStore()
	p, goal := newGuestWithGoal(t, store)

	updated, err := UpsertDailyCard(context.Background(), store, p, goal.ID.Hex(), DailyCardPatch{})
	require.NoError(t, err)

	require.Len(t, updated.DailyCards, 1)
	card := updated.DailyCards[0]
	assert.Equal(t, "Read 20 pages", card.DailyTask)
	assert.Equal(t, "One episode", card.DailyReward)
	assert.NotNil(t, card.TaskCompletions)
	assert.Empty(t, card.Records)
}

func TestUpsertDailyCardRecordsReplaceWholesale(t *testing.T) {
	store := storage.NewMemoryStore()
	p, goal := newGuestWithGoal(t, store)
	ctx := context.Background()

	date := time.Date(2024, 3, 1, 9, 0, 0, 0, time.Local)
	_, err := UpsertDailyCard(ctx, store, p, goal.ID.Hex(), DailyCardPatch{
		Date: &date,
		Records: []models.CardRecord{
			{Content: "A"},
			{Content: "B"},
		},
	})
	require.NoError(t, err)

	// Patch without records leaves them untouched.
	updated, err := UpsertDailyCard(ctx, store, p, goal.ID.Hex(), DailyCardPatch{Date: &date, DailyTask: strPtr("Swim")})
	require.NoError(t, err)
	require.Len(t, updated.DailyCards[0].Records, 2)

	// Patch with records replaces, never appends.
	updated, err = UpsertDailyCard(ctx, store, p, goal.ID.Hex(), DailyCardPatch{
		Date:    &date,
		Records: []models.CardRecord{{Content: "C"}},
	})
	require.NoError(t, err)
	require.Len(t, updated.DailyCards[0].Records, 1)
	assert.Equal(t, "C", updated.DailyCards[0].Records[0].Content)
}

func TestUpsertDailyCardTaskCompletionsReplaceWholesale(t *testing.T) {
	store := storage.NewMemoryStore()
	p, goal := newGuestWithGoal(t, store)
	ctx := context.Background()

	date := time.Date(2024, 3, 1, 9, 0, 0, 0, time.Local)
	_, err := UpsertDailyCard(ctx, store, p, goal.ID.Hex(), DailyCardPatch{
		Date:            &date,
		TaskCompletions: map[string]bool{"t1": true, "t2": false},
	})
	require.NoError(t, err)

	updated, err := UpsertDailyCard(ctx, store, p, goal.ID.Hex(), DailyCardPatch{
		Date:            &date,
		TaskCompletions: map[string]bool{"t1": false},
	})
	require.NoError(t, err)

	// t2 is dropped: last writer wins per field, not a key merge.
	assert.Equal(t, map[string]bool{"t1": false}, updated.DailyCards[0].TaskCompletions)
}

func TestUpsertDailyCardCompletedSubfields(t *testing.T) {
	store := storage.NewMemoryStore()
	p, goal := newGuestWithGoal(t, store)
	ctx := context.Background()

	date := time.Date(2024, 3, 1, 9, 0, 0, 0, time.Local)
	_, err := UpsertDailyCard(ctx, store, p, goal.ID.Hex(), DailyCardPatch{
		Date:      &date,
		Completed: &CompletedPatch{DailyTask: boolPtr(true)},
	})
	require.NoError(t, err)

	updated, err := UpsertDailyCard(ctx, store, p, goal.ID.Hex(), DailyCardPatch{
		Date:      &date,
		Completed: &CompletedPatch{DailyReward: boolPtr(true)},
	})
	require.NoError(t, err)

	// The dailyTask flag set by the first patch survives the second.
	assert.True(t, updated.DailyCards[0].Completed.DailyTask)
	assert.True(t, updated.DailyCards[0].Completed.DailyReward)
}

func TestUpsertDailyCardLinksAppend(t *testing.T) {
	store := storage.NewMemoryStore()
	p, goal := newGuestWithGoal(t, store)
	ctx := context.Background()

	date := time.Date(2024, 3, 1, 9, 0, 0, 0, time.Local)
	_, err := UpsertDailyCard(ctx, store, p, goal.ID.Hex(), DailyCardPatch{Date: &date, Links: []string{"a"}})
	require.NoError(t, err)
	updated, err := UpsertDailyCard(ctx, store, p, goal.ID.Hex(), DailyCardPatch{Date: &date, Links: []string{"b"}})
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, updated.DailyCards[0].Links)
}

func TestCreateGoalGuestQuota(t *testing.T) {
	store := storage.NewMemoryStore()
	p, _ := newGuestWithGoal(t, store)

	_, err := CreateGoal(context.Background(), store, p, CreateGoalInput{Title: "Second goal"})
	require.Error(t, err)
	ce, ok := err.(*types.CustomError)
	require.True(t, ok)
	assert.Equal(t, 400, ce.Code)
	assert.Equal(t, types.ErrTypeQuota, ce.Type)
}

func TestCreateGoalRegisteredQuota(t *testing.T) {
	store := storage.NewMemoryStore()
	ctx := context.Background()

	user, err := Register(ctx, store, RegisterInput{Username: "ada", Email: "ada@example.com", Password: "pw123456"})
	require.NoError(t, err)
	p := types.RegisteredPrincipal(user.ID.Hex())

	var last *models.Goal
	for i := 0; i < RegisteredGoalLimit; i++ {
		last, err = CreateGoal(ctx, store, p, CreateGoalInput{Title: "Goal", Motivation: "m"})
		require.NoError(t, err)
	}

	_, err = CreateGoal(ctx, store, p, CreateGoalInput{Title: "One too many"})
	require.Error(t, err)

	// Archiving one frees a slot.
	_, err = SetGoalStatus(ctx, store, p, last.ID.Hex(), models.StatusArchived)
	require.NoError(t, err)
	_, err = CreateGoal(ctx, store, p, CreateGoalInput{Title: "Fits now"})
	assert.NoError(t, err)
}

func TestSetGoalStatusCompletedAt(t *testing.T) {
	store := storage.NewMemoryStore()
	p, goal := newGuestWithGoal(t, store)
	ctx := context.Background()

	updated, err := SetGoalStatus(ctx, store, p, goal.ID.Hex(), models.StatusCompleted)
	require.NoError(t, err)
	require.NotNil(t, updated.CompletedAt)

	updated, err = SetGoalStatus(ctx, store, p, goal.ID.Hex(), models.StatusActive)
	require.NoError(t, err)
	assert.Nil(t, updated.CompletedAt)
}

func TestUpdateGoalFieldWiseMerge(t *testing.T) {
	store := storage.NewMemoryStore()
	p, goal := newGuestWithGoal(t, store)
	ctx := context.Background()

	updated, err := UpdateGoal(ctx, store, p, goal.ID.Hex(), UpdateGoalInput{Priority: models.PriorityHigh})
	require.NoError(t, err)

	assert.Equal(t, models.PriorityHigh, updated.Priority)
	assert.Equal(t, "Read daily", updated.Title)
	assert.Equal(t, "books pile up", updated.Motivation)
	assert.Equal(t, "Read 20 pages", updated.CurrentSettings.DailyTask)
}

func TestDeleteGoalCascadesProgress(t *testing.T) {
	store := storage.NewMemoryStore()
	p, goal := newGuestWithGoal(t, store)
	ctx := context.Background()

	_, err := AddProgressRecord(ctx, store, p, AddRecordInput{GoalID: goal.ID.Hex(), Activity: "read", Duration: 30})
	require.NoError(t, err)

	require.NoError(t, DeleteGoal(ctx, store, p, goal.ID.Hex()))

	docs, err := store.ListProgressByGoal(ctx, goal.ID.Hex())
	require.NoError(t, err)
	assert.Empty(t, docs)

	_, err = store.GetGoal(ctx, goal.ID.Hex())
	assert.Equal(t, storage.ErrNotFound, err)
}

func TestGetOwnedGoalForbidden(t *testing.T) {
	store := storage.NewMemoryStore()
	_, goal := newGuestWithGoal(t, store)

	stranger := types.GuestPrincipal("temp_stranger")
	_, err := GetOwnedGoal(context.Background(), store, stranger, goal.ID.Hex())
	require.Error(t, err)
	ce, ok := err.(*types.CustomError)
	require.True(t, ok)
	assert.Equal(t, 403, ce.Code)
}

func TestCreateGoalDerivesDescription(t *testing.T) {
	store := storage.NewMemoryStore()
	tu, _, err := GetOrCreateGuest(context.Background(), store, "")
	require.NoError(t, err)
	p := types.GuestPrincipal(tu.TempID)

	goal, err := CreateGoal(context.Background(), store, p, CreateGoalInput{Title: "Read daily", Motivation: "auto"})
	require.NoError(t, err)
	assert.Equal(t, "Working towards: Read daily. auto", goal.Description)
}
