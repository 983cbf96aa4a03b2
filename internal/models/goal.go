package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Goal priorities. Sort order is High before Medium before Low.
const (
	PriorityHigh   = "High"
	PriorityMedium = "Medium"
	PriorityLow    = "Low"
)

// Goal statuses.
const (
	StatusActive    = "active"
	StatusCompleted = "completed"
	StatusArchived  = "archived"
)

// PriorityRank returns the sort key for a priority (High < Medium < Low).
// Unknown values sort last.
func PriorityRank(priority string) int {
	switch priority {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	}
	return 3
}

// ValidStatus reports whether s is a recognized goal status.
func ValidStatus(s string) bool {
	return s == StatusActive || s == StatusCompleted || s == StatusArchived
}

// ValidPriority reports whether p is a recognized goal priority.
func ValidPriority(p string) bool {
	return p == PriorityHigh || p == PriorityMedium || p == PriorityLow
}

// DailySettings is the active daily task/reward template applied to newly
// created daily cards.
type DailySettings struct {
	DailyTask   string `bson:"dailyTask" json:"dailyTask"`
	DailyReward string `bson:"dailyReward" json:"dailyReward"`
}

// Declaration is the generated narrative for a goal.
type Declaration struct {
	Content   string    `bson:"content" json:"content"`
	Vision    string    `bson:"vision,omitempty" json:"vision,omitempty"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Checkpoint is an optional milestone on a goal.
type Checkpoint struct {
	ID          string     `bson:"id" json:"id"`
	Title       string     `bson:"title" json:"title"`
	TargetDate  *time.Time `bson:"targetDate,omitempty" json:"targetDate,omitempty"`
	IsCompleted bool       `bson:"isCompleted" json:"isCompleted"`
	CompletedAt *time.Time `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
}

// CardRecord is a free-text progress note on a daily card.
type CardRecord struct {
	Content   string    `bson:"content" json:"content"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// CardCompletion tracks completion of the card's task and reward.
type CardCompletion struct {
	DailyTask   bool `bson:"dailyTask" json:"dailyTask"`
	DailyReward bool `bson:"dailyReward" json:"dailyReward"`
}

// DailyCard is one calendar date's state for a goal, embedded in the Goal
// document. Identity is the local calendar day of Date; time-of-day is not
// significant. See DayKey.
type DailyCard struct {
	Date            time.Time       `bson:"date" json:"date"`
	DailyTask       string          `bson:"dailyTask" json:"dailyTask"`
	DailyReward     string          `bson:"dailyReward" json:"dailyReward"`
	Completed       CardCompletion  `bson:"completed" json:"completed"`
	TaskCompletions map[string]bool `bson:"taskCompletions" json:"taskCompletions"`
	Records         []CardRecord    `bson:"records" json:"records"`
	Links           []string        `bson:"links" json:"links"`
}

// Goal belongs to exactly one account. UserID is a plain string so it can
// hold either an ObjectID hex or a temp_... guest token; use
// types.PrincipalFromKey to discriminate.
type Goal struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID          string             `bson:"userId" json:"userId"`
	Title           string             `bson:"title" json:"title"`
	Description     string             `bson:"description" json:"description"`
	Priority        string             `bson:"priority" json:"priority"`
	Status          string             `bson:"status" json:"status"`
	TargetDate      *time.Time         `bson:"targetDate,omitempty" json:"targetDate,omitempty"`
	Motivation      string             `bson:"motivation" json:"motivation"`
	Resources       []string           `bson:"resources" json:"resources"`
	DailyTasks      []string           `bson:"dailyTasks" json:"dailyTasks"` // legacy, superseded by CurrentSettings.DailyTask
	Rewards         []string           `bson:"rewards" json:"rewards"`
	CurrentSettings DailySettings      `bson:"currentSettings" json:"currentSettings"`
	Declaration     Declaration        `bson:"declaration" json:"declaration"`
	Checkpoints     []Checkpoint       `bson:"checkpoints" json:"checkpoints"`
	DailyCards      []DailyCard        `bson:"dailyCards" json:"dailyCards"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	CompletedAt     *time.Time         `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
}

// DayKey normalizes a timestamp to its local calendar day (Y-M-D) in the
// server's reference timezone. Card identity comparisons must go through
// this function on both sides; comparing raw instants or mixing UTC with
// local days forks card state across the same logical day.
func DayKey(t time.Time) string {
	return t.In(time.Local).Format("2006-01-02")
}

// FindDailyCard returns the index of the card matching the calendar day of
// t, or -1 if no card exists for that day.
func (g *Goal) FindDailyCard(t time.Time) int {
	key := DayKey(t)
	for i := range g.DailyCards {
		if DayKey(g.DailyCards[i].Date) == key {
			return i
		}
	}
	return -1
}

// ActiveCount returns how many of the given goals are active.
func ActiveCount(goals []Goal) int {
	n := 0
	for i := range goals {
		if goals[i].Status == StatusActive {
			n++
		}
	}
	return n
}
