package models

import "go.mongodb.org/mongo-driver/v2/bson"

type Ad struct {
	ID       bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Title    string        `bson:"title" json:"title"`
	ImageURL string        `bson:"imageUrl" json:"imageUrl"`
	Link     string        `bson:"link,omitempty" json:"link,omitempty"`
}

type Creator struct {
	FirstName  string `json:"firstName"`
	SecondName string `json:"secondName"`
	Tasks      string `json:"tasks"`
	Avatar     string `json:"avatar"`
}
