package services

import (
	"context"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/focusapp/focus-server/internal/models"
	"github.com/focusapp/focus-server/internal/storage"
	"github.com/focusapp/focus-server/internal/types"
)

// CreateGoalInput is the payload for goal creation.
type CreateGoalInput struct {
	Title           string                `json:"title"`
	Description     string                `json:"description"`
	Priority        string                `json:"priority"`
	TargetDate      *time.Time            `json:"targetDate,omitempty"`
	Motivation      string                `json:"motivation"`
	Resources       []string              `json:"resources"`
	DailyTasks      []string              `json:"dailyTasks"`
	Rewards         []string              `json:"rewards"`
	CurrentSettings *models.DailySettings `json:"currentSettings,omitempty"`
	Vision          string                `json:"vision"`
}

// UpdateGoalInput carries a partial goal update. Nil fields are left
// untouched; the update is a field-wise merge, never a document replace.
type UpdateGoalInput struct {
	Title           string                `json:"title"`
	Description     string                `json:"description"`
	Priority        string                `json:"priority"`
	TargetDate      *time.Time            `json:"targetDate,omitempty"`
	Motivation      *string               `json:"motivation,omitempty"`
	Resources       []string              `json:"resources,omitempty"`
	DailyTasks      []string              `json:"dailyTasks,omitempty"`
	Rewards         []string              `json:"rewards,omitempty"`
	CurrentSettings *models.DailySettings `json:"currentSettings,omitempty"`
	Checkpoints     []models.Checkpoint   `json:"checkpoints,omitempty"`
	Vision          *string               `json:"vision,omitempty"`
}

// CompletedPatch carries per-sub-field completion updates for a daily card.
type CompletedPatch struct {
	DailyTask   *bool `json:"dailyTask,omitempty"`
	DailyReward *bool `json:"dailyReward,omitempty"`
}

// DailyCardPatch is the upsert payload for a daily card. Absent (nil)
// fields keep stored values. TaskCompletions and Records replace wholesale
// when present; Links append.
type DailyCardPatch struct {
	Date            *time.Time          `json:"date,omitempty"`
	DailyTask       *string             `json:"dailyTask,omitempty"`
	DailyReward     *string             `json:"dailyReward,omitempty"`
	Completed       *CompletedPatch     `json:"completed,omitempty"`
	TaskCompletions map[string]bool     `json:"taskCompletions,omitempty"`
	Records         []models.CardRecord `json:"records,omitempty"`
	Links           []string            `json:"links,omitempty"`
}

// DeriveDescription builds the fallback description used when the client
// omits one.
func DeriveDescription(title, motivation string) string {
	if motivation == "" {
		return "Working towards: " + title
	}
	return "Working towards: " + title + ". " + motivation
}

// CreateGoal validates, applies the quota check against the authoritative
// store, stamps ownership and persists a new goal.
func CreateGoal(ctx context.Context, store storage.Store, p types.Principal, in CreateGoalInput) (*models.Goal, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, types.NewValidationError("title is required")
	}
	if in.Description == "" {
		in.Description = DeriveDescription(in.Title, in.Motivation)
	}
	if in.Priority == "" {
		in.Priority = models.PriorityMedium
	}
	if !models.ValidPriority(in.Priority) {
		return nil, types.NewValidationError("priority must be High, Medium or Low")
	}

	ownerKeys, err := OwnerKeys(ctx, store, p)
	if err != nil {
		return nil, err
	}
	existing, err := store.ListGoalsByOwner(ctx, ownerKeys)
	if err != nil {
		return nil, err
	}
	if err := CheckGoalQuota(p, existing); err != nil {
		return nil, err
	}

	settings := models.DailySettings{}
	if in.CurrentSettings != nil {
		settings = *in.CurrentSettings
	} else if len(in.DailyTasks) > 0 {
		settings.DailyTask = in.DailyTasks[0]
	}
	if settings.DailyReward == "" && len(in.Rewards) > 0 {
		settings.DailyReward = in.Rewards[0]
	}

	goal := &models.Goal{
		UserID:          p.StorageKey(),
		Title:           in.Title,
		Description:     in.Description,
		Priority:        in.Priority,
		Status:          models.StatusActive,
		TargetDate:      in.TargetDate,
		Motivation:      in.Motivation,
		Resources:       in.Resources,
		DailyTasks:      in.DailyTasks,
		Rewards:         in.Rewards,
		CurrentSettings: settings,
		Checkpoints:     []models.Checkpoint{},
		DailyCards:      []models.DailyCard{},
		CreatedAt:       time.Now(),
	}
	goal.Declaration = models.Declaration{
		Content:   GenerateDeclaration(DeclarationInputFromGoal(goal), displayName(ctx, store, p)),
		Vision:    in.Vision,
		UpdatedAt: time.Now(),
	}

	if err := store.CreateGoal(ctx, goal); err != nil {
		return nil, err
	}
	return goal, nil
}

// ListGoals returns the principal's goals sorted by priority (High first),
// then creation time.
func ListGoals(ctx context.Context, store storage.Store, p types.Principal) ([]models.Goal, error) {
	ownerKeys, err := OwnerKeys(ctx, store, p)
	if err != nil {
		return nil, err
	}
	goals, err := store.ListGoalsByOwner(ctx, ownerKeys)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(goals, func(i, j int) bool {
		ri, rj := models.PriorityRank(goals[i].Priority), models.PriorityRank(goals[j].Priority)
		if ri != rj {
			return ri < rj
		}
		return goals[i].CreatedAt.Before(goals[j].CreatedAt)
	})
	return goals, nil
}

// GetOwnedGoal fetches a goal and verifies the principal owns it.
func GetOwnedGoal(ctx context.Context, store storage.Store, p types.Principal, goalID string) (*models.Goal, error) {
	goal, err := store.GetGoal(ctx, goalID)
	if err != nil {
		if err == storage.ErrNotFound {
			return nil, types.NewNotFoundError("goal not found")
		}
		return nil, err
	}
	ownerKeys, err := OwnerKeys(ctx, store, p)
	if err != nil {
		return nil, err
	}
	if !types.OwnsKey(ownerKeys, goal.UserID) {
		return nil, types.NewForbiddenError("goal belongs to another account")
	}
	return goal, nil
}

// UpdateGoal applies a field-wise merge of the supplied fields and persists
// the result.
func UpdateGoal(ctx context.Context, store storage.Store, p types.Principal, goalID string, in UpdateGoalInput) (*models.Goal, error) {
	goal, err := GetOwnedGoal(ctx, store, p, goalID)
	if err != nil {
		return nil, err
	}

	if in.Title != "" {
		goal.Title = in.Title
	}
	if in.Description != "" {
		goal.Description = in.Description
	}
	if in.Priority != "" {
		if !models.ValidPriority(in.Priority) {
			return nil, types.NewValidationError("priority must be High, Medium or Low")
		}
		goal.Priority = in.Priority
	}
	if in.TargetDate != nil {
		goal.TargetDate = in.TargetDate
	}
	if in.Motivation != nil {
		goal.Motivation = *in.Motivation
	}
	if in.Resources != nil {
		goal.Resources = in.Resources
	}
	if in.DailyTasks != nil {
		goal.DailyTasks = in.DailyTasks
	}
	if in.Rewards != nil {
		goal.Rewards = in.Rewards
	}
	if in.CurrentSettings != nil {
		goal.CurrentSettings = *in.CurrentSettings
	}
	if in.Checkpoints != nil {
		goal.Checkpoints = in.Checkpoints
	}
	if in.Vision != nil {
		goal.Declaration.Vision = *in.Vision
	}

	goal.Declaration.Content = GenerateDeclaration(DeclarationInputFromGoal(goal), displayName(ctx, store, p))
	goal.Declaration.UpdatedAt = time.Now()

	if err := store.ReplaceGoal(ctx, goal); err != nil {
		return nil, err
	}
	return goal, nil
}

// SetGoalStatus transitions a goal's status. Entering completed stamps
// completedAt; leaving completed clears it.
func SetGoalStatus(ctx context.Context, store storage.Store, p types.Principal, goalID, status string) (*models.Goal, error) {
	if !models.ValidStatus(status) {
		return nil, types.NewValidationError("status must be active, completed or archived")
	}
	goal, err := GetOwnedGoal(ctx, store, p, goalID)
	if err != nil {
		return nil, err
	}

	if status == models.StatusCompleted && goal.Status != models.StatusCompleted {
		now := time.Now()
		goal.CompletedAt = &now
	}
	if status != models.StatusCompleted {
		goal.CompletedAt = nil
	}
	goal.Status = status

	if err := store.ReplaceGoal(ctx, goal); err != nil {
		return nil, err
	}
	return goal, nil
}

// DeleteGoal hard-deletes a goal and cascades to its progress documents and
// reports. Progress rows are unreachable through the API once the goal is
// gone, so orphaning them would only leak storage.
func DeleteGoal(ctx context.Context, store storage.Store, p types.Principal, goalID string) error {
	goal, err := GetOwnedGoal(ctx, store, p, goalID)
	if err != nil {
		return err
	}
	if err := store.DeleteGoal(ctx, goal.ID.Hex()); err != nil {
		return err
	}
	if err := store.DeleteProgressByGoal(ctx, goal.ID.Hex()); err != nil {
		log.Printf("Cascade delete of progress for goal %s failed: %v", goal.ID.Hex(), err)
	}
	if err := store.DeleteReportsByGoal(ctx, goal.ID.Hex()); err != nil {
		log.Printf("Cascade delete of reports for goal %s failed: %v", goal.ID.Hex(), err)
	}
	return nil
}

// UpsertDailyCard creates or patches the card for the patch's calendar day
// and persists the whole goal document. Two concurrent upserts to the same
// goal race as last-writer-wins at the document level; that behavior is
// deliberate and matches how clients use the endpoint (full local state
// resend on retry).
func UpsertDailyCard(ctx context.Context, store storage.Store, p types.Principal, goalID string, patch DailyCardPatch) (*models.Goal, error) {
	goal, err := GetOwnedGoal(ctx, store, p, goalID)
	if err != nil {
		return nil, err
	}

	upsertCard(goal, patch, time.Now())

	if err := store.ReplaceGoal(ctx, goal); err != nil {
		return nil, err
	}
	return goal, nil
}

// upsertCard applies the daily-card upsert algorithm to the goal in memory:
// normalize the date (default now) to its local calendar day, patch the
// matching card if one exists, otherwise push a new card seeded from
// currentSettings.
func upsertCard(goal *models.Goal, patch DailyCardPatch, now time.Time) {
	date := now
	if patch.Date != nil {
		date = *patch.Date
	}

	if i := goal.FindDailyCard(date); i >= 0 {
		applyCardPatch(&goal.DailyCards[i], patch)
		return
	}

	card := models.DailyCard{
		Date:            date,
		DailyTask:       goal.CurrentSettings.DailyTask,
		DailyReward:     goal.CurrentSettings.DailyReward,
		TaskCompletions: map[string]bool{},
		Records:         []models.CardRecord{},
		Links:           []string{},
	}
	applyCardPatch(&card, patch)
	goal.DailyCards = append(goal.DailyCards, card)
}

// applyCardPatch merges a patch into a card. Field semantics, in order:
// dailyTask/dailyReward overwrite; completed sub-fields overwrite
// individually; taskCompletions replaces the stored map wholesale (the
// client resends its full locally-merged map); records replaces wholesale;
// links append.
func applyCardPatch(card *models.DailyCard, patch DailyCardPatch) {
	if patch.DailyTask != nil {
		card.DailyTask = *patch.DailyTask
	}
	if patch.DailyReward != nil {
		card.DailyReward = *patch.DailyReward
	}
	if patch.Completed != nil {
		if patch.Completed.DailyTask != nil {
			card.Completed.DailyTask = *patch.Completed.DailyTask
		}
		if patch.Completed.DailyReward != nil {
			card.Completed.DailyReward = *patch.Completed.DailyReward
		}
	}
	if patch.TaskCompletions != nil {
		card.TaskCompletions = patch.TaskCompletions
	}
	if patch.Records != nil {
		records := patch.Records
		for i := range records {
			if records[i].CreatedAt.IsZero() {
				records[i].CreatedAt = time.Now()
			}
		}
		card.Records = records
	}
	if len(patch.Links) > 0 {
		card.Links = append(card.Links, patch.Links...)
	}
}

// displayName resolves the account's display name for declaration text.
// Guests fall back to a generic name.
func displayName(ctx context.Context, store storage.Store, p types.Principal) string {
	if p.IsGuest() {
		return "a focused traveler"
	}
	user, err := store.GetUserByID(ctx, p.ID)
	if err != nil || user.Username == "" {
		return "a focused traveler"
	}
	return user.Username
}
