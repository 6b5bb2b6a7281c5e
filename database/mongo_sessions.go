package database

import (
	"context"
	"time"

	"github.com/princinho/callboard/models"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

type MongoSessionStore struct {
	col *mongo.Collection
}

func (s *MongoSessionStore) Create(ctx context.Context, userID bson.ObjectID) (*models.Session, error) {
	session := &models.Session{
		ID:        bson.NewObjectID(),
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.col.InsertOne(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *MongoSessionStore) FindByID(ctx context.Context, id bson.ObjectID) (*models.Session, error) {
	var session models.Session
	if err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&session); err != nil {
		return nil, notFound(err)
	}
	return &session, nil
}

func (s *MongoSessionStore) Delete(ctx context.Context, id bson.ObjectID) error {
	res, err := s.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
