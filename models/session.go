package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Session backs a bearer token. Deleting it invalidates the token even though
// the signature still verifies.
type Session struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    bson.ObjectID `bson:"uid" json:"uid"`
	CreatedAt time.Time     `bson:"createdAt" json:"createdAt"`
}
