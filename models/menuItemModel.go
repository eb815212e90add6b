package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MenuItem struct {
	ID           primitive.ObjectID `bson:"_id" json:"_id"`
	Name         string             `bson:"name" json:"name"`
	Category     string             `bson:"category" json:"category"`
	Price        Money              `bson:"price" json:"price"`
	Availability bool               `bson:"availability" json:"availability"`
	Image        []byte             `bson:"image" json:"image"`
	Created_at   time.Time          `bson:"created_at" json:"created_at"`
	Updated_at   time.Time          `bson:"updated_at" json:"updated_at"`
}

// MenuItemUpdate carries a partial update. Nil fields are left untouched.
type MenuItemUpdate struct {
	Name         *string
	Category     *string
	Price        *Money
	Availability *bool
	Image        []byte
}

func (u MenuItemUpdate) Empty() bool {
	return u.Name == nil && u.Category == nil && u.Price == nil && u.Availability == nil && u.Image == nil
}

// Apply merges the update into item.
func (u MenuItemUpdate) Apply(item *MenuItem) {
	if u.Name != nil {
		item.Name = *u.Name
	}
	if u.Category != nil {
		item.Category = *u.Category
	}
	if u.Price != nil {
		item.Price = *u.Price
	}
	if u.Availability != nil {
		item.Availability = *u.Availability
	}
	if u.Image != nil {
		item.Image = u.Image
	}
}
