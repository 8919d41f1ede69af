package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names.
const (
	Questions = "questions"
	Formulas  = "formulas"
	MockTests = "mocktests"
	Attempts  = "attempts"
	Admins    = "admins"
)

// Connect opens a client against uri and pings the primary.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	log.Println("Connected to MongoDB!")
	return client, nil
}

func OpenCollection(client *mongo.Client, dbName, collectionName string) *mongo.Collection {
	return client.Database(dbName).Collection(collectionName)
}

var indexes = map[string][]mongo.IndexModel{
	Questions: {
		{Keys: bson.D{{Key: "questionId", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "subject", Value: 1}, {Key: "chapter", Value: 1}}},
		{Keys: bson.D{{Key: "serialNumber", Value: 1}}},
	},
	Formulas: {
		{Keys: bson.D{{Key: "subject", Value: 1}, {Key: "chapter", Value: 1}}, Options: options.Index().SetUnique(true)},
	},
	MockTests: {
		{Keys: bson.D{{Key: "testName", Value: 1}}, Options: options.Index().SetUnique(true)},
	},
	Attempts: {
		{Keys: bson.D{{Key: "testId", Value: 1}}},
	},
	Admins: {
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	},
}

// EnsureIndexes creates the indexes every collection relies on. Unique
// indexes back the duplicate checks of the stores.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	for name, models := range indexes {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create %s indexes: %w", name, err)
		}
	}
	return nil
}
