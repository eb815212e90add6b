package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderStatus string

const (
	OrderPlaced    OrderStatus = "Placed"
	OrderCompleted OrderStatus = "Completed"
)

type OrderLine struct {
	MenuItemID primitive.ObjectID `bson:"menu_item_id" json:"menuItemId"`
	Quantity   int                `bson:"quantity" json:"quantity"`
}

// Order is the persisted ledger record. TotalAmount is fixed at creation.
type Order struct {
	ID          primitive.ObjectID `bson:"_id" json:"_id"`
	UserID      primitive.ObjectID `bson:"user_id" json:"userId"`
	Items       []OrderLine        `bson:"items" json:"items"`
	TotalAmount Money              `bson:"total_amount" json:"totalAmount"`
	Status      OrderStatus        `bson:"status" json:"status"`
	Created_at  time.Time          `bson:"created_at" json:"createdAt"`
	Updated_at  time.Time          `bson:"updated_at" json:"updatedAt"`
}

// OrderLineView is a line joined against the current catalog. Name and
// Price are nil when the menu item no longer exists.
type OrderLineView struct {
	MenuItemID string  `json:"menuItemId"`
	Quantity   int     `json:"quantity"`
	Name       *string `json:"name"`
	Price      *Money  `json:"price"`
}

type OrderView struct {
	ID          string          `json:"_id"`
	UserID      string          `json:"userId"`
	Username    *string         `json:"username,omitempty"`
	Items       []OrderLineView `json:"items"`
	TotalAmount Money           `json:"totalAmount"`
	Status      OrderStatus     `json:"status"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}
