// Package database holds the persistence layer: one store per collection,
// backed by MongoDB in production and by process memory for local runs and
// tests.
package database

import (
	"context"
	"errors"

	"github.com/princinho/callboard/models"
	"go.mongodb.org/mongo-driver/v2/bson"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate key")
)

type UserStore interface {
	// Create returns ErrDuplicate when the email is taken.
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id bson.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	PushCall(ctx context.Context, userID bson.ObjectID, call models.Call) error
	PullCall(ctx context.Context, userID, callID bson.ObjectID) error
	// PushFavourite and PullFavourite return the user after the update.
	PushFavourite(ctx context.Context, userID bson.ObjectID, call models.Call) (*models.User, error)
	PullFavourite(ctx context.Context, userID, callID bson.ObjectID) (*models.User, error)
	SetAvatar(ctx context.Context, userID bson.ObjectID, url string) error
}

type CallStore interface {
	Create(ctx context.Context, call *models.Call) error
	FindByID(ctx context.Context, id bson.ObjectID) (*models.Call, error)
	Delete(ctx context.Context, id bson.ObjectID) error
	FindByCategories(ctx context.Context, categories ...models.Category) ([]models.Call, error)
	// SearchByTitle matches text literally and case-insensitively anywhere in
	// the title.
	SearchByTitle(ctx context.Context, text string) ([]models.Call, error)
}

type SessionStore interface {
	Create(ctx context.Context, userID bson.ObjectID) (*models.Session, error)
	FindByID(ctx context.Context, id bson.ObjectID) (*models.Session, error)
	Delete(ctx context.Context, id bson.ObjectID) error
}

type AdStore interface {
	List(ctx context.Context) ([]models.Ad, error)
	// Upsert inserts or updates the ad with the same image URL.
	Upsert(ctx context.Context, ad models.Ad) error
}

type Stores struct {
	Users    UserStore
	Calls    CallStore
	Sessions SessionStore
	Ads      AdStore
}
