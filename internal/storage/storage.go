package storage

import (
	"context"
	"errors"
	"time"

	"github.com/focusapp/focus-server/internal/models"
)

// Sentinel errors returned by Store implementations.
var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate")
)

// Store is the persistence seam. The production implementation is MongoStore;
// MemoryStore backs unit tests.
type Store interface {
	// Users
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	TouchLastLogin(ctx context.Context, id string, at time.Time) error

	// Temp users
	CreateTempUser(ctx context.Context, tu *models.TempUser) error
	GetTempUser(ctx context.Context, tempID string) (*models.TempUser, error)

	// Goals
	CreateGoal(ctx context.Context, goal *models.Goal) error
	GetGoal(ctx context.Context, id string) (*models.Goal, error)
	ListGoalsByOwner(ctx context.Context, ownerKeys []string) ([]models.Goal, error)
	ReplaceGoal(ctx context.Context, goal *models.Goal) error
	DeleteGoal(ctx context.Context, id string) error

	// Progress
	CreateProgress(ctx context.Context, progress *models.Progress) error
	GetProgress(ctx context.Context, id string) (*models.Progress, error)
	ListProgressByGoal(ctx context.Context, goalID string) ([]models.Progress, error)
	ListProgressInRange(ctx context.Context, goalID string, start, end time.Time) ([]models.Progress, error)
	ReplaceProgress(ctx context.Context, progress *models.Progress) error
	DeleteProgress(ctx context.Context, id string) error
	DeleteProgressByGoal(ctx context.Context, goalID string) error

	// Reports
	CreateReport(ctx context.Context, report *models.Report) error
	DeleteReportsByGoal(ctx context.Context, goalID string) error

	// Ping verifies the backing store is reachable.
	Ping(ctx context.Context) error
}
