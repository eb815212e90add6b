package database

import (
	"context"
	"errors"
	"time"

	"github.com/02priyeshraj/GrubSpot_Backend/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrNotFound     = errors.New("document not found")
	ErrDuplicateKey = errors.New("duplicate key")
)

type UserStore interface {
	// InsertUser returns ErrDuplicateKey when the username is taken.
	InsertUser(ctx context.Context, user *models.User) error
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)
	FindUsersByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	// DeleteUserCascade removes the user and all of its orders as one unit
	// and reports how many orders went with it.
	DeleteUserCascade(ctx context.Context, id primitive.ObjectID) (*models.User, int64, error)
}

type MenuStore interface {
	ListMenuItems(ctx context.Context) ([]models.MenuItem, error)
	FindMenuItem(ctx context.Context, id primitive.ObjectID) (*models.MenuItem, error)
	FindMenuItemsByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.MenuItem, error)
	InsertMenuItem(ctx context.Context, item *models.MenuItem) error
	UpdateMenuItem(ctx context.Context, id primitive.ObjectID, update models.MenuItemUpdate, updatedAt time.Time) (*models.MenuItem, error)
	DeleteMenuItem(ctx context.Context, id primitive.ObjectID) (*models.MenuItem, error)
}

type OrderStore interface {
	// InsertOrder returns ErrNotFound when the owning user does not exist
	// at the moment of the write.
	InsertOrder(ctx context.Context, order *models.Order) error
	FindOrder(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	// ListOrders and ListOrdersByUser return newest first.
	ListOrders(ctx context.Context) ([]models.Order, error)
	ListOrdersByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error)
	// ListOrdersWithUsers and FindOrderWithUser read orders together with
	// their owners from one point in time. A user cascade is seen whole or
	// not at all. Owners that do not exist are absent from the map or nil.
	ListOrdersWithUsers(ctx context.Context) ([]models.Order, map[primitive.ObjectID]models.User, error)
	FindOrderWithUser(ctx context.Context, id primitive.ObjectID) (*models.Order, *models.User, error)
	// SetOrderStatus leaves an order that already has status untouched.
	SetOrderStatus(ctx context.Context, id primitive.ObjectID, status models.OrderStatus, updatedAt time.Time) (*models.Order, error)
	DeleteOrder(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
}

type Store interface {
	UserStore
	MenuStore
	OrderStore
	Close(ctx context.Context) error
}
