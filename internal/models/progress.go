package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProgressRecord is a single logged activity on a Progress document.
type ProgressRecord struct {
	ID        string    `bson:"id" json:"id"`
	Activity  string    `bson:"activity" json:"activity"`
	Duration  int       `bson:"duration" json:"duration"` // minutes
	Notes     string    `bson:"notes,omitempty" json:"notes,omitempty"`
	Images    []string  `bson:"images" json:"images"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// Progress is the per-date progress document, a separate collection that
// predates daily cards and still backs summaries and duration totals.
type Progress struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	GoalID        primitive.ObjectID `bson:"goalId" json:"goalId"`
	UserID        string             `bson:"userId" json:"userId"`
	Date          time.Time          `bson:"date" json:"date"`
	Records       []ProgressRecord   `bson:"records" json:"records"`
	Checkpoints   []Checkpoint       `bson:"checkpoints" json:"checkpoints"`
	Summary       string             `bson:"summary,omitempty" json:"summary,omitempty"`
	TotalDuration int                `bson:"totalDuration" json:"totalDuration"`
}

// RecomputeTotalDuration re-derives TotalDuration from Records. Must run
// after every record mutation; the stored value is never trusted stale.
func (p *Progress) RecomputeTotalDuration() {
	total := 0
	for i := range p.Records {
		total += p.Records[i].Duration
	}
	p.TotalDuration = total
}
