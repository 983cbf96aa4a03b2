package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReportSection is one labeled segment of a generated report.
type ReportSection struct {
	Title   string `bson:"title" json:"title"`
	Content string `bson:"content" json:"content"`
}

// ReportContent holds the raw AI reply plus its best-effort segmentation.
// Details is always the full raw text; Sections is a derived, regenerable
// view and may be empty when no headings were detected.
type ReportContent struct {
	Summary  string          `bson:"summary" json:"summary"`
	Details  string          `bson:"details" json:"details"`
	Sections []ReportSection `bson:"sections" json:"sections"`
}

// DateRange is the inclusive time range a report covers.
type DateRange struct {
	StartDate time.Time `bson:"startDate" json:"startDate"`
	EndDate   time.Time `bson:"endDate" json:"endDate"`
}

// Report is an ephemeral generated artifact. Clients cache the latest report
// per goal and may regenerate at will; nothing ties a report to progress
// counts.
type Report struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	GoalID      primitive.ObjectID `bson:"goalId" json:"goalId"`
	UserID      string             `bson:"userId" json:"userId"`
	Content     ReportContent      `bson:"content" json:"content"`
	GeneratedAt time.Time          `bson:"generatedAt" json:"generatedAt"`
	DateRange   DateRange          `bson:"dateRange" json:"dateRange"`
}
