package models

import (
	"go.mongodb.org/mongo-driver/v2/bson"
)

type User struct {
	ID           bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Email        string        `bson:"email" json:"email"`
	FirstName    string        `bson:"firstName" json:"firstName"`
	SecondName   string        `bson:"secondName" json:"secondName"`
	Phone        string        `bson:"phone" json:"phone"`
	PasswordHash string        `bson:"passwordHash" json:"-"` // never expose
	AvatarURL    string        `bson:"avatarUrl" json:"avatarUrl"`
	Calls        []Call        `bson:"calls" json:"calls"`
	Favourites   []Call        `bson:"favourites" json:"favourites"`
}

// OwnsCall reports whether id is among the listings the user posted.
func (u *User) OwnsCall(id bson.ObjectID) bool {
	return indexOfCall(u.Calls, id) >= 0
}

func (u *User) HasFavourite(id bson.ObjectID) bool {
	return indexOfCall(u.Favourites, id) >= 0
}

func indexOfCall(calls []Call, id bson.ObjectID) int {
	for i := range calls {
		if calls[i].ID == id {
			return i
		}
	}
	return -1
}

// RemoveCall returns calls without the entry matching id.
func RemoveCall(calls []Call, id bson.ObjectID) []Call {
	out := make([]Call, 0, len(calls))
	for _, c := range calls {
		if c.ID != id {
			out = append(out, c)
		}
	}
	return out
}
