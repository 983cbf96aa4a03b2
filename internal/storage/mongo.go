package storage

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/focusapp/focus-server/internal/database"
	"github.com/focusapp/focus-server/internal/models"
)

// MongoStore implements Store against the application database.
type MongoStore struct {
	db *mongo.Database
}

// NewMongoStore wraps a connected database handle.
func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{db: db}
}

func (s *MongoStore) users() *mongo.Collection     { return s.db.Collection(database.CollUsers) }
func (s *MongoStore) tempUsers() *mongo.Collection { return s.db.Collection(database.CollTempUsers) }
func (s *MongoStore) goals() *mongo.Collection     { return s.db.Collection(database.CollGoals) }
func (s *MongoStore) progress() *mongo.Collection  { return s.db.Collection(database.CollProgress) }
func (s *MongoStore) reports() *mongo.Collection   { return s.db.Collection(database.CollReports) }

// CreateUser inserts a user, mapping the unique email index violation to
// ErrDuplicate.
func (s *MongoStore) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	_, err := s.users().InsertOne(ctx, user)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}

func (s *MongoStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.users().FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *MongoStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var user models.User
	err = s.users().FindOne(ctx, bson.M{"_id": oid}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *MongoStore) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	_, err = s.users().UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"lastLogin": at}})
	return err
}

func (s *MongoStore) CreateTempUser(ctx context.Context, tu *models.TempUser) error {
	if tu.ID.IsZero() {
		tu.ID = primitive.NewObjectID()
	}
	_, err := s.tempUsers().InsertOne(ctx, tu)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}

// GetTempUser resolves a live guest session. The expiresAt filter matters:
// the TTL monitor sweeps on roughly 60s cycles, so an expired document can
// linger briefly and must not be resumable in that window.
func (s *MongoStore) GetTempUser(ctx context.Context, tempID string) (*models.TempUser, error) {
	var tu models.TempUser
	err := s.tempUsers().FindOne(ctx, bson.M{
		"tempId":    tempID,
		"expiresAt": bson.M{"$gt": time.Now()},
	}).Decode(&tu)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &tu, nil
}

func (s *MongoStore) CreateGoal(ctx context.Context, goal *models.Goal) error {
	if goal.ID.IsZero() {
		goal.ID = primitive.NewObjectID()
	}
	_, err := s.goals().InsertOne(ctx, goal)
	return err
}

func (s *MongoStore) GetGoal(ctx context.Context, id string) (*models.Goal, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var goal models.Goal
	err = s.goals().FindOne(ctx, bson.M{"_id": oid}).Decode(&goal)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &goal, nil
}

// ListGoalsByOwner returns every goal whose userId matches any of the owner
// keys. Registration does not move goal documents, so a registered user with
// a linked tempId queries under both keys.
func (s *MongoStore) ListGoalsByOwner(ctx context.Context, ownerKeys []string) ([]models.Goal, error) {
	cursor, err := s.goals().Find(ctx, bson.M{"userId": bson.M{"$in": ownerKeys}})
	if err != nil {
		return nil, err
	}
	var goals []models.Goal
	if err := cursor.All(ctx, &goals); err != nil {
		return nil, err
	}
	return goals, nil
}

// ReplaceGoal persists the whole goal document. Concurrent writers to the
// same goal race as last-writer-wins; see the goal service for the rationale.
func (s *MongoStore) ReplaceGoal(ctx context.Context, goal *models.Goal) error {
	res, err := s.goals().ReplaceOne(ctx, bson.M{"_id": goal.ID}, goal)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) DeleteGoal(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	res, err := s.goals().DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) CreateProgress(ctx context.Context, progress *models.Progress) error {
	if progress.ID.IsZero() {
		progress.ID = primitive.NewObjectID()
	}
	_, err := s.progress().InsertOne(ctx, progress)
	return err
}

func (s *MongoStore) GetProgress(ctx context.Context, id string) (*models.Progress, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var p models.Progress
	err = s.progress().FindOne(ctx, bson.M{"_id": oid}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *MongoStore) ListProgressByGoal(ctx context.Context, goalID string) ([]models.Progress, error) {
	oid, err := primitive.ObjectIDFromHex(goalID)
	if err != nil {
		return nil, ErrNotFound
	}
	cursor, err := s.progress().Find(ctx, bson.M{"goalId": oid})
	if err != nil {
		return nil, err
	}
	var out []models.Progress
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *MongoStore) ListProgressInRange(ctx context.Context, goalID string, start, end time.Time) ([]models.Progress, error) {
	oid, err := primitive.ObjectIDFromHex(goalID)
	if err != nil {
		return nil, ErrNotFound
	}
	filter := bson.M{
		"goalId": oid,
		"date":   bson.M{"$gte": start, "$lte": end},
	}
	cursor, err := s.progress().Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	var out []models.Progress
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *MongoStore) ReplaceProgress(ctx context.Context, progress *models.Progress) error {
	res, err := s.progress().ReplaceOne(ctx, bson.M{"_id": progress.ID}, progress)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) DeleteProgress(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	res, err := s.progress().DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) DeleteProgressByGoal(ctx context.Context, goalID string) error {
	oid, err := primitive.ObjectIDFromHex(goalID)
	if err != nil {
		return ErrNotFound
	}
	_, err = s.progress().DeleteMany(ctx, bson.M{"goalId": oid})
	return err
}

func (s *MongoStore) CreateReport(ctx context.Context, report *models.Report) error {
	if report.ID.IsZero() {
		report.ID = primitive.NewObjectID()
	}
	_, err := s.reports().InsertOne(ctx, report)
	return err
}

func (s *MongoStore) DeleteReportsByGoal(ctx context.Context, goalID string) error {
	oid, err := primitive.ObjectIDFromHex(goalID)
	if err != nil {
		return ErrNotFound
	}
	_, err = s.reports().DeleteMany(ctx, bson.M{"goalId": oid})
	return err
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.db.Client().Ping(ctx, nil)
}
