package models

import "go.mongodb.org/mongo-driver/v2/bson"

// Call is a classified-ad listing. Copies of it are embedded in the owner's
// calls and in the favourites of other users; those copies are snapshots and
// are not updated when the listing changes.
type Call struct {
	ID          bson.ObjectID `bson:"_id,omitempty" json:"_id"`
	Title       string        `bson:"title" json:"title"`
	Description string        `bson:"description" json:"description"`
	Category    Category      `bson:"category" json:"category"`
	Price       float64       `bson:"price" json:"price"`
	ImageURLs   []string      `bson:"imageUrls" json:"imageUrls"`
	UserID      bson.ObjectID `bson:"userId" json:"userId"`
}
