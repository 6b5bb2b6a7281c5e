package database

import (
	"context"
	"errors"

	"github.com/princinho/callboard/models"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type MongoUserStore struct {
	col *mongo.Collection
}

func (s *MongoUserStore) Create(ctx context.Context, user *models.User) error {
	if user.ID.IsZero() {
		user.ID = bson.NewObjectID()
	}
	// $push fails on a null array, so both collections start empty.
	if user.Calls == nil {
		user.Calls = []models.Call{}
	}
	if user.Favourites == nil {
		user.Favourites = []models.Call{}
	}
	if _, err := s.col.InsertOne(ctx, user); err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

func (s *MongoUserStore) FindByID(ctx context.Context, id bson.ObjectID) (*models.User, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

func (s *MongoUserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findOne(ctx, bson.M{"email": email})
}

func (s *MongoUserStore) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var user models.User
	if err := s.col.FindOne(ctx, filter).Decode(&user); err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (s *MongoUserStore) PushCall(ctx context.Context, userID bson.ObjectID, call models.Call) error {
	return s.update(ctx, userID, bson.M{"$push": bson.M{"calls": call}})
}

func (s *MongoUserStore) PullCall(ctx context.Context, userID, callID bson.ObjectID) error {
	return s.update(ctx, userID, bson.M{"$pull": bson.M{"calls": bson.M{"_id": callID}}})
}

func (s *MongoUserStore) PushFavourite(ctx context.Context, userID bson.ObjectID, call models.Call) (*models.User, error) {
	return s.updateAndReturn(ctx, userID, bson.M{"$push": bson.M{"favourites": call}})
}

func (s *MongoUserStore) PullFavourite(ctx context.Context, userID, callID bson.ObjectID) (*models.User, error) {
	return s.updateAndReturn(ctx, userID, bson.M{"$pull": bson.M{"favourites": bson.M{"_id": callID}}})
}

func (s *MongoUserStore) SetAvatar(ctx context.Context, userID bson.ObjectID, url string) error {
	return s.update(ctx, userID, bson.M{"$set": bson.M{"avatarUrl": url}})
}

func (s *MongoUserStore) update(ctx context.Context, userID bson.ObjectID, update bson.M) error {
	res, err := s.col.UpdateByID(ctx, userID, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoUserStore) updateAndReturn(ctx context.Context, userID bson.ObjectID, update bson.M) (*models.User, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var user models.User
	if err := s.col.FindOneAndUpdate(ctx, bson.M{"_id": userID}, update, opts).Decode(&user); err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func notFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}

func isDuplicateKey(err error) bool {
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == 11000 || e.Code == 11001 {
				return true
			}
		}
	}

	// Sometimes we might get a BulkWriteException
	var bwe mongo.BulkWriteException
	if errors.As(err, &bwe) {
		for _, e := range bwe.WriteErrors {
			if e.Code == 11000 || e.Code == 11001 {
				return true
			}
		}
	}
	return false
}
