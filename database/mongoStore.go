package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/02priyeshraj/GrubSpot_Backend/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"
)

// MongoStore keeps users, menu items and orders in three collections.
// Multi-document writes run in transactions, so the server must be a
// replica set or sharded cluster.
type MongoStore struct {
	client          *mongo.Client
	userCollection  *mongo.Collection
	menuCollection  *mongo.Collection
	orderCollection *mongo.Collection
}

var _ Store = (*MongoStore)(nil)

func NewMongoStore(client *mongo.Client, dbName string) *MongoStore {
	return &MongoStore{
		client:          client,
		userCollection:  OpenCollection(client, dbName, userCollectionName),
		menuCollection:  OpenCollection(client, dbName, menuCollectionName),
		orderCollection: OpenCollection(client, dbName, orderCollectionName),
	}
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func notFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}

// withTransaction runs fn inside a session transaction and returns its result.
func (s *MongoStore) withTransaction(ctx context.Context, fn func(sc mongo.SessionContext) (interface{}, error), opts ...*options.TransactionOptions) (interface{}, error) {
	session, err := s.client.StartSession()
	if err != nil {
		return nil, fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	return session.WithTransaction(ctx, fn, opts...)
}

// withSnapshot runs read-only fn against a single snapshot of the database.
func (s *MongoStore) withSnapshot(ctx context.Context, fn func(sc mongo.SessionContext) (interface{}, error)) (interface{}, error) {
	return s.withTransaction(ctx, fn, options.Transaction().SetReadConcern(readconcern.Snapshot()))
}

// Users

func (s *MongoStore) InsertUser(ctx context.Context, user *models.User) error {
	if _, err := s.userCollection.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *MongoStore) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := s.userCollection.FindOne(ctx, bson.M{"username": username}).Decode(&user); err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (s *MongoStore) FindUsersByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.User, error) {
	found := make(map[primitive.ObjectID]models.User, len(ids))
	if len(ids) == 0 {
		return found, nil
	}

	opts := options.Find().SetProjection(bson.M{"password": 0})
	cursor, err := s.userCollection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, opts)
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	for _, u := range users {
		found[u.ID] = u
	}
	return found, nil
}

func (s *MongoStore) ListUsers(ctx context.Context) ([]models.User, error) {
	opts := options.Find().SetProjection(bson.M{"password": 0}).SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := s.userCollection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	return users, nil
}

type cascadeResult struct {
	user          models.User
	deletedOrders int64
}

func (s *MongoStore) DeleteUserCascade(ctx context.Context, id primitive.ObjectID) (*models.User, int64, error) {
	result, err := s.withTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		var user models.User
		if err := s.userCollection.FindOneAndDelete(sc, bson.M{"_id": id}).Decode(&user); err != nil {
			return nil, notFound(err)
		}

		deleted, err := s.orderCollection.DeleteMany(sc, bson.M{"user_id": id})
		if err != nil {
			return nil, fmt.Errorf("delete orders of user: %w", err)
		}
		return cascadeResult{user: user, deletedOrders: deleted.DeletedCount}, nil
	})
	if err != nil {
		return nil, 0, err
	}

	res := result.(cascadeResult)
	return &res.user, res.deletedOrders, nil
}

// Menu items

func (s *MongoStore) ListMenuItems(ctx context.Context) ([]models.MenuItem, error) {
	cursor, err := s.menuCollection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list menu items: %w", err)
	}
	items := []models.MenuItem{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("decode menu items: %w", err)
	}
	return items, nil
}

func (s *MongoStore) FindMenuItem(ctx context.Context, id primitive.ObjectID) (*models.MenuItem, error) {
	var item models.MenuItem
	if err := s.menuCollection.FindOne(ctx, bson.M{"_id": id}).Decode(&item); err != nil {
		return nil, notFound(err)
	}
	return &item, nil
}

func (s *MongoStore) FindMenuItemsByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.MenuItem, error) {
	found := make(map[primitive.ObjectID]models.MenuItem, len(ids))
	if len(ids) == 0 {
		return found, nil
	}

	cursor, err := s.menuCollection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("find menu items: %w", err)
	}
	var items []models.MenuItem
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("decode menu items: %w", err)
	}
	for _, item := range items {
		found[item.ID] = item
	}
	return found, nil
}

func (s *MongoStore) InsertMenuItem(ctx context.Context, item *models.MenuItem) error {
	if _, err := s.menuCollection.InsertOne(ctx, item); err != nil {
		return fmt.Errorf("insert menu item: %w", err)
	}
	return nil
}

func (s *MongoStore) UpdateMenuItem(ctx context.Context, id primitive.ObjectID, update models.MenuItemUpdate, updatedAt time.Time) (*models.MenuItem, error) {
	updateObj := bson.D{}
	if update.Name != nil {
		updateObj = append(updateObj, bson.E{Key: "name", Value: *update.Name})
	}
	if update.Category != nil {
		updateObj = append(updateObj, bson.E{Key: "category", Value: *update.Category})
	}
	if update.Price != nil {
		updateObj = append(updateObj, bson.E{Key: "price", Value: *update.Price})
	}
	if update.Availability != nil {
		updateObj = append(updateObj, bson.E{Key: "availability", Value: *update.Availability})
	}
	if update.Image != nil {
		updateObj = append(updateObj, bson.E{Key: "image", Value: update.Image})
	}
	updateObj = append(updateObj, bson.E{Key: "updated_at", Value: updatedAt})

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After).SetUpsert(false)

	var item models.MenuItem
	err := s.menuCollection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.D{{Key: "$set", Value: updateObj}}, opts).Decode(&item)
	if err != nil {
		return nil, notFound(err)
	}
	return &item, nil
}

func (s *MongoStore) DeleteMenuItem(ctx context.Context, id primitive.ObjectID) (*models.MenuItem, error) {
	var item models.MenuItem
	if err := s.menuCollection.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&item); err != nil {
		return nil, notFound(err)
	}
	return &item, nil
}

// Orders

func (s *MongoStore) InsertOrder(ctx context.Context, order *models.Order) error {
	_, err := s.withTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		touched, err := s.userCollection.UpdateByID(sc, order.UserID, bson.M{"$set": bson.M{"last_order_at": order.Created_at}})
		if err != nil {
			return nil, fmt.Errorf("touch user: %w", err)
		}
		if touched.MatchedCount == 0 {
			return nil, ErrNotFound
		}

		if _, err := s.orderCollection.InsertOne(sc, order); err != nil {
			return nil, fmt.Errorf("insert order: %w", err)
		}
		return nil, nil
	})
	return err
}

func (s *MongoStore) FindOrder(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	var order models.Order
	if err := s.orderCollection.FindOne(ctx, bson.M{"_id": id}).Decode(&order); err != nil {
		return nil, notFound(err)
	}
	return &order, nil
}

func (s *MongoStore) findOrders(ctx context.Context, filter bson.M) ([]models.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := s.orderCollection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find orders: %w", err)
	}
	defer cursor.Close(ctx)

	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("decode orders: %w", err)
	}
	return orders, nil
}

func (s *MongoStore) ListOrders(ctx context.Context) ([]models.Order, error) {
	return s.findOrders(ctx, bson.M{})
}

func (s *MongoStore) ListOrdersByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	return s.findOrders(ctx, bson.M{"user_id": userID})
}

type ordersWithUsers struct {
	orders []models.Order
	users  map[primitive.ObjectID]models.User
}

func (s *MongoStore) ListOrdersWithUsers(ctx context.Context) ([]models.Order, map[primitive.ObjectID]models.User, error) {
	result, err := s.withSnapshot(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		orders, err := s.findOrders(sc, bson.M{})
		if err != nil {
			return nil, err
		}
		users, err := s.FindUsersByIDs(sc, ownerIDs(orders))
		if err != nil {
			return nil, err
		}
		return ordersWithUsers{orders: orders, users: users}, nil
	})
	if err != nil {
		return nil, nil, err
	}

	res := result.(ordersWithUsers)
	return res.orders, res.users, nil
}

func (s *MongoStore) FindOrderWithUser(ctx context.Context, id primitive.ObjectID) (*models.Order, *models.User, error) {
	result, err := s.withSnapshot(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		order, err := s.FindOrder(sc, id)
		if err != nil {
			return nil, err
		}
		users, err := s.FindUsersByIDs(sc, []primitive.ObjectID{order.UserID})
		if err != nil {
			return nil, err
		}
		return ordersWithUsers{orders: []models.Order{*order}, users: users}, nil
	})
	if err != nil {
		return nil, nil, err
	}

	res := result.(ordersWithUsers)
	order := res.orders[0]
	if u, ok := res.users[order.UserID]; ok {
		return &order, &u, nil
	}
	return &order, nil, nil
}

func ownerIDs(orders []models.Order) []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]bool)
	ids := make([]primitive.ObjectID, 0)
	for _, o := range orders {
		if !seen[o.UserID] {
			seen[o.UserID] = true
			ids = append(ids, o.UserID)
		}
	}
	return ids
}

func (s *MongoStore) SetOrderStatus(ctx context.Context, id primitive.ObjectID, status models.OrderStatus, updatedAt time.Time) (*models.Order, error) {
	filter := bson.M{"_id": id, "status": bson.M{"$ne": status}}
	update := bson.M{
		"$set": bson.M{
			"status":     status,
			"updated_at": updatedAt,
		},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var order models.Order
	err := s.orderCollection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		// Either missing or already in status.
		return s.FindOrder(ctx, id)
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *MongoStore) DeleteOrder(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	var order models.Order
	if err := s.orderCollection.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&order); err != nil {
		return nil, notFound(err)
	}
	return &order, nil
}
