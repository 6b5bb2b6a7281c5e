package database

import (
	"context"
	"regexp"

	"github.com/princinho/callboard/models"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

type MongoCallStore struct {
	col *mongo.Collection
}

func (s *MongoCallStore) Create(ctx context.Context, call *models.Call) error {
	if call.ID.IsZero() {
		call.ID = bson.NewObjectID()
	}
	if call.ImageURLs == nil {
		call.ImageURLs = []string{}
	}
	_, err := s.col.InsertOne(ctx, call)
	return err
}

func (s *MongoCallStore) FindByID(ctx context.Context, id bson.ObjectID) (*models.Call, error) {
	var call models.Call
	if err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&call); err != nil {
		return nil, notFound(err)
	}
	return &call, nil
}

func (s *MongoCallStore) Delete(ctx context.Context, id bson.ObjectID) error {
	res, err := s.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoCallStore) FindByCategories(ctx context.Context, categories ...models.Category) ([]models.Call, error) {
	return s.find(ctx, bson.M{"category": bson.M{"$in": categories}})
}

func (s *MongoCallStore) SearchByTitle(ctx context.Context, text string) ([]models.Call, error) {
	return s.find(ctx, bson.M{"title": bson.M{"$regex": regexp.QuoteMeta(text), "$options": "i"}})
}

func (s *MongoCallStore) find(ctx context.Context, filter bson.M) ([]models.Call, error) {
	cursor, err := s.col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	calls := make([]models.Call, 0)
	if err := cursor.All(ctx, &calls); err != nil {
		return nil, err
	}
	return calls, nil
}
