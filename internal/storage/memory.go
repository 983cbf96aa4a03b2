package storage

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/focusapp/focus-server/internal/models"
)

// MemoryStore is an in-memory Store used by unit tests. All methods copy on
// the way in and out so callers never share slices or maps with the store.
type MemoryStore struct {
	mu        sync.RWMutex
	users     map[string]models.User     // id hex -> user
	tempUsers map[string]models.TempUser // tempId -> temp user
	goals     map[string]models.Goal     // id hex -> goal
	progress  map[string]models.Progress // id hex -> progress
	reports   map[string]models.Report   // id hex -> report
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:     make(map[string]models.User),
		tempUsers: make(map[string]models.TempUser),
		goals:     make(map[string]models.Goal),
		progress:  make(map[string]models.Progress),
		reports:   make(map[string]models.Report),
	}
}

func (s *MemoryStore) CreateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == user.Email {
			return ErrDuplicate
		}
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	s.users[user.ID.Hex()] = *user
	return nil
}

func (s *MemoryStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			out := u
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) GetUserByID(_ context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := u
	return &out, nil
}

func (s *MemoryStore) TouchLastLogin(_ context.Context, id string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return ErrNotFound
	}
	u.LastLogin = at
	s.users[id] = u
	return nil
}

func (s *MemoryStore) CreateTempUser(_ context.Context, tu *models.TempUser) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tempUsers[tu.TempID]; ok {
		return ErrDuplicate
	}
	if tu.ID.IsZero() {
		tu.ID = primitive.NewObjectID()
	}
	s.tempUsers[tu.TempID] = *tu
	return nil
}

func (s *MemoryStore) GetTempUser(_ context.Context, tempID string) (*models.TempUser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tu, ok := s.tempUsers[tempID]
	if !ok {
		return nil, ErrNotFound
	}
	// Mirror the TTL index: an expired guest no longer exists.
	if time.Now().After(tu.ExpiresAt) {
		return nil, ErrNotFound
	}
	out := tu
	return &out, nil
}

func (s *MemoryStore) CreateGoal(_ context.Context, goal *models.Goal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if goal.ID.IsZero() {
		goal.ID = primitive.NewObjectID()
	}
	s.goals[goal.ID.Hex()] = cloneGoal(*goal)
	return nil
}

func (s *MemoryStore) GetGoal(_ context.Context, id string) (*models.Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.goals[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := cloneGoal(g)
	return &out, nil
}

func (s *MemoryStore) ListGoalsByOwner(_ context.Context, ownerKeys []string) ([]models.Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make(map[string]bool, len(ownerKeys))
	for _, k := range ownerKeys {
		keys[k] = true
	}
	var out []models.Goal
	for _, g := range s.goals {
		if keys[g.UserID] {
			out = append(out, cloneGoal(g))
		}
	}
	return out, nil
}

func (s *MemoryStore) ReplaceGoal(_ context.Context, goal *models.Goal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.goals[goal.ID.Hex()]; !ok {
		return ErrNotFound
	}
	s.goals[goal.ID.Hex()] = cloneGoal(*goal)
	return nil
}

func (s *MemoryStore) DeleteGoal(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.goals[id]; !ok {
		return ErrNotFound
	}
	delete(s.goals, id)
	return nil
}

func (s *MemoryStore) CreateProgress(_ context.Context, progress *models.Progress) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if progress.ID.IsZero() {
		progress.ID = primitive.NewObjectID()
	}
	s.progress[progress.ID.Hex()] = cloneProgress(*progress)
	return nil
}

func (s *MemoryStore) GetProgress(_ context.Context, id string) (*models.Progress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.progress[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := cloneProgress(p)
	return &out, nil
}

func (s *MemoryStore) ListProgressByGoal(_ context.Context, goalID string) ([]models.Progress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Progress
	for _, p := range s.progress {
		if p.GoalID.Hex() == goalID {
			out = append(out, cloneProgress(p))
		}
	}
	return out, nil
}

func (s *MemoryStore) ListProgressInRange(_ context.Context, goalID string, start, end time.Time) ([]models.Progress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Progress
	for _, p := range s.progress {
		if p.GoalID.Hex() == goalID && !p.Date.Before(start) && !p.Date.After(end) {
			out = append(out, cloneProgress(p))
		}
	}
	return out, nil
}

func (s *MemoryStore) ReplaceProgress(_ context.Context, progress *models.Progress) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.progress[progress.ID.Hex()]; !ok {
		return ErrNotFound
	}
	s.progress[progress.ID.Hex()] = cloneProgress(*progress)
	return nil
}

func (s *MemoryStore) DeleteProgress(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.progress[id]; !ok {
		return ErrNotFound
	}
	delete(s.progress, id)
	return nil
}

func (s *MemoryStore) DeleteProgressByGoal(_ context.Context, goalID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, p := range s.progress {
		if p.GoalID.Hex() == goalID {
			delete(s.progress, id)
		}
	}
	return nil
}

func (s *MemoryStore) CreateReport(_ context.Context, report *models.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if report.ID.IsZero() {
		report.ID = primitive.NewObjectID()
	}
	s.reports[report.ID.Hex()] = *report
	return nil
}

func (s *MemoryStore) DeleteReportsByGoal(_ context.Context, goalID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, r := range s.reports {
		if r.GoalID.Hex() == goalID {
			delete(s.reports, id)
		}
	}
	return nil
}

func (s *MemoryStore) Ping(_ context.Context) error {
	return nil
}

// cloneProgress deep-copies a progress document's record and checkpoint
// slices. Callers filter Records in place before committing, so a shared
// backing array would let uncommitted mutations bleed into stored state.
func cloneProgress(p models.Progress) models.Progress {
	out := p
	out.Records = make([]models.ProgressRecord, len(p.Records))
	for i, r := range p.Records {
		r.Images = append([]string(nil), r.Images...)
		out.Records[i] = r
	}
	out.Checkpoints = append([]models.Checkpoint(nil), p.Checkpoints...)
	return out
}

// cloneGoal deep-copies the embedded slices and maps a goal carries.
func cloneGoal(g models.Goal) models.Goal {
	out := g
	out.Resources = append([]string(nil), g.Resources...)
	out.DailyTasks = append([]string(nil), g.DailyTasks...)
	out.Rewards = append([]string(nil), g.Rewards...)
	out.Checkpoints = append([]models.Checkpoint(nil), g.Checkpoints...)
	out.DailyCards = make([]models.DailyCard, len(g.DailyCards))
	for i, card := range g.DailyCards {
		c := card
		c.Records = append([]models.CardRecord(nil), card.Records...)
		c.Links = append([]string(nil), card.Links...)
		if card.TaskCompletions != nil {
			c.TaskCompletions = make(map[string]bool, len(card.TaskCompletions))
			for k, v := range card.TaskCompletions {
				c.TaskCompletions[k] = v
			}
		}
		out.DailyCards[i] = c
	}
	return out
}
