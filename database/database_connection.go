package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/princinho/callboard/config"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

const (
	usersCollection    = "users"
	callsCollection    = "calls"
	sessionsCollection = "sessions"
	adsCollection      = "ads"
)

// Connect opens a client for cfg and pings the primary before returning.
func Connect(ctx context.Context, cfg config.MongoConfig) (*mongo.Client, error) {
	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	opts := options.Client().ApplyURI(cfg.URI).SetServerAPIOptions(serverAPI)
	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	log.Printf("Connected to MongoDB, database %q", cfg.DatabaseName)
	return client, nil
}

func NewMongoStores(db *mongo.Database) *Stores {
	return &Stores{
		Users:    &MongoUserStore{col: db.Collection(usersCollection)},
		Calls:    &MongoCallStore{col: db.Collection(callsCollection)},
		Sessions: &MongoSessionStore{col: db.Collection(sessionsCollection)},
		Ads:      &MongoAdStore{col: db.Collection(adsCollection)},
	}
}

// EnsureIndexes creates the indexes the stores rely on. The unique email index
// backs the duplicate check done at registration.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(usersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("users email index: %w", err)
	}

	_, err = db.Collection(callsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "category", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("calls category index: %w", err)
	}

	_, err = db.Collection(adsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "imageUrl", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("ads image index: %w", err)
	}
	return nil
}
