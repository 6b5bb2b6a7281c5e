package database

import (
	"context"

	"github.com/princinho/callboard/models"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type MongoAdStore struct {
	col *mongo.Collection
}

func (s *MongoAdStore) List(ctx context.Context) ([]models.Ad, error) {
	cursor, err := s.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	ads := make([]models.Ad, 0)
	if err := cursor.All(ctx, &ads); err != nil {
		return nil, err
	}
	return ads, nil
}

func (s *MongoAdStore) Upsert(ctx context.Context, ad models.Ad) error {
	filter := bson.M{"imageUrl": ad.ImageURL}
	update := bson.M{
		"$set": bson.M{
			"title": ad.Title,
			"link":  ad.Link,
		},
	}
	_, err := s.col.UpdateOne(ctx, filter, update, options.UpdateOne().SetUpsert(true))
	return err
}
