package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/focusapp/focus-server/internal/models"
	"github.com/focusapp/focus-server/internal/storage"
	"github.com/focusapp/focus-server/internal/types"
)

// Guest quota: 1 goal ever. Registered quota: 4 simultaneously active goals.
const (
	GuestGoalLimit      = 1
	RegisteredGoalLimit = 4
)

// RegisterInput is the payload for account registration.
type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	TempID   string `json:"tempId,omitempty"`
}

// Register creates a registered account. When a tempId is supplied and still
// resolves to a live guest record, the new account stores it as a
// back-reference so goal lookups OR across both identities; registration
// does not move goal documents. A failed temp lookup is logged and ignored —
// the primary record is never rolled back.
func Register(ctx context.Context, store storage.Store, in RegisterInput) (*models.User, error) {
	if in.Username == "" || in.Email == "" || in.Password == "" {
		return nil, types.NewValidationError("username, email and password are required")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:  in.Username,
		Email:     in.Email,
		Password:  string(hashed),
		Role:      models.RoleRegular,
		CreatedAt: time.Now(),
	}

	if in.TempID != "" {
		if _, err := store.GetTempUser(ctx, in.TempID); err == nil {
			user.TempID = in.TempID
		} else {
			log.Printf("Registration for %s: temp session %s not linked: %v", in.Email, in.TempID, err)
		}
	}

	if err := store.CreateUser(ctx, user); err != nil {
		if err == storage.ErrDuplicate {
			return nil, types.NewConflictError("email already registered")
		}
		return nil, err
	}
	return user, nil
}

// Authenticate verifies email/password credentials and stamps lastLogin.
// Unknown email and wrong password are indistinguishable to the caller.
func Authenticate(ctx context.Context, store storage.Store, email, password string) (*models.User, error) {
	if email == "" || password == "" {
		return nil, types.NewValidationError("email and password are required")
	}
	user, err := store.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, types.NewUnauthorizedError("invalid credentials")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, types.NewUnauthorizedError("invalid credentials")
	}
	now := time.Now()
	if err := store.TouchLastLogin(ctx, user.ID.Hex(), now); err != nil {
		log.Printf("Failed to stamp lastLogin for %s: %v", user.ID.Hex(), err)
	}
	user.LastLogin = now
	return user, nil
}

// GetOrCreateGuest returns the existing guest session when the presented
// tempId still resolves, otherwise mints a fresh one. The second return
// value reports whether a new session was created.
func GetOrCreateGuest(ctx context.Context, store storage.Store, existingTempID string) (*models.TempUser, bool, error) {
	if existingTempID != "" {
		if tu, err := store.GetTempUser(ctx, existingTempID); err == nil {
			return tu, false, nil
		}
	}

	now := time.Now()
	tu := &models.TempUser{
		TempID:    "temp_" + uuid.NewString(),
		CreatedAt: now,
		ExpiresAt: now.Add(models.GuestLifetime),
	}
	if err := store.CreateTempUser(ctx, tu); err != nil {
		return nil, false, err
	}
	return tu, true, nil
}

// OwnerKeys resolves the set of storage keys a principal may own goals
// under: a guest owns under its tempId only; a registered user owns under
// its id plus any linked tempId from a prior guest session.
func OwnerKeys(ctx context.Context, store storage.Store, p types.Principal) ([]string, error) {
	if p.IsGuest() {
		return []string{p.TempID}, nil
	}
	keys := []string{p.ID}
	user, err := store.GetUserByID(ctx, p.ID)
	if err != nil {
		if err == storage.ErrNotFound {
			return nil, types.NewUnauthorizedError("account no longer exists")
		}
		return nil, err
	}
	if user.TempID != "" {
		keys = append(keys, user.TempID)
	}
	return keys, nil
}

// CheckGoalQuota is the pure quota decision over the authoritative goal
// list: guests are rejected once they own any goal, registered users once
// they hold the active-goal limit (archived and completed goals do not
// count).
func CheckGoalQuota(p types.Principal, existing []models.Goal) error {
	if p.IsGuest() {
		if len(existing) >= GuestGoalLimit {
			return types.NewQuotaError("temporary accounts are limited to 1 goal; register to create more")
		}
		return nil
	}
	if models.ActiveCount(existing) >= RegisteredGoalLimit {
		return types.NewQuotaError(fmt.Sprintf("limit of %d active goals reached; complete or archive one first", RegisteredGoalLimit))
	}
	return nil
}
