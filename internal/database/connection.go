package database

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/focusapp/focus-server/internal/config"
)

// Collection names.
const (
	CollUsers     = "users"
	CollTempUsers = "tempusers"
	CollGoals     = "goals"
	CollProgress  = "progresses"
	CollReports   = "reports"
)

// Connect establishes the MongoDB connection and returns the application
// database handle.
func Connect(cfg *config.Config) (*mongo.Database, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	log.Printf("MongoDB connected (%s)", cfg.MongoDatabase)
	return client.Database(cfg.MongoDatabase), nil
}

// Close disconnects the underlying client.
func Close(db *mongo.Database) {
	if db == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.Client().Disconnect(ctx); err != nil {
		log.Printf("Error disconnecting MongoDB: %v", err)
	}
}

// EnsureIndexes creates the indexes the service relies on:
//   - unique users.email
//   - unique tempusers.tempId plus the TTL index on expiresAt that deletes
//     expired guest sessions without a manual sweep
//   - goals.userId and progresses.goalId for owner-scoped queries
func EnsureIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	_, err := db.Collection(CollUsers).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}

	_, err = db.Collection(CollTempUsers).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "tempId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "expiresAt", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0),
		},
	})
	if err != nil {
		return err
	}

	_, err = db.Collection(CollGoals).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}},
	})
	if err != nil {
		return err
	}

	_, err = db.Collection(CollProgress).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "goalId", Value: 1}, {Key: "date", Value: 1}},
	})
	return err
}
