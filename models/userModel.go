package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID         primitive.ObjectID `bson:"_id" json:"_id"`
	Username   string             `bson:"username" json:"username"`
	Password   string             `bson:"password" json:"-"`
	Created_at time.Time          `bson:"created_at" json:"created_at"`

	// Last_order_at is touched by every order insert so that placing an
	// order and deleting its user conflict inside the database.
	Last_order_at *time.Time `bson:"last_order_at,omitempty" json:"last_order_at,omitempty"`
}

// PublicUser is the view of a User that may leave the service.
type PublicUser struct {
	ID       string `json:"_id"`
	Username string `json:"username"`
	Admin    bool   `json:"admin,omitempty"`
}

func (u User) Public() PublicUser {
	return PublicUser{ID: u.ID.Hex(), Username: u.Username}
}
