package database

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/02priyeshraj/GrubSpot_Backend/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryStore is a process-local Store. Every operation holds the lock for
// its whole duration, so multi-record writes are observed all at once.
type MemoryStore struct {
	mu     sync.RWMutex
	users  map[primitive.ObjectID]models.User
	menu   map[primitive.ObjectID]models.MenuItem
	orders map[primitive.ObjectID]models.Order
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:  make(map[primitive.ObjectID]models.User),
		menu:   make(map[primitive.ObjectID]models.MenuItem),
		orders: make(map[primitive.ObjectID]models.Order),
	}
}

func (s *MemoryStore) Close(context.Context) error { return nil }

func copyOrder(o models.Order) models.Order {
	o.Items = append([]models.OrderLine(nil), o.Items...)
	return o
}

func copyMenuItem(item models.MenuItem) models.MenuItem {
	if item.Image != nil {
		item.Image = append([]byte(nil), item.Image...)
	}
	return item
}

// Users

func (s *MemoryStore) InsertUser(ctx context.Context, user *models.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == user.Username {
			return ErrDuplicateKey
		}
	}
	s.users[user.ID] = *user
	return nil
}

func (s *MemoryStore) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) FindUsersByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	found := make(map[primitive.ObjectID]models.User, len(ids))
	for _, id := range ids {
		if u, ok := s.users[id]; ok {
			u.Password = ""
			found[id] = u
		}
	}
	return found, nil
}

func (s *MemoryStore) ListUsers(ctx context.Context) ([]models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		u.Password = ""
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool {
		if users[i].Created_at.Equal(users[j].Created_at) {
			return users[i].ID.Hex() < users[j].ID.Hex()
		}
		return users[i].Created_at.Before(users[j].Created_at)
	})
	return users, nil
}

func (s *MemoryStore) DeleteUserCascade(ctx context.Context, id primitive.ObjectID) (*models.User, int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return nil, 0, ErrNotFound
	}
	delete(s.users, id)

	var deleted int64
	for orderID, o := range s.orders {
		if o.UserID == id {
			delete(s.orders, orderID)
			deleted++
		}
	}
	return &user, deleted, nil
}

// Menu items

func (s *MemoryStore) ListMenuItems(ctx context.Context) ([]models.MenuItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]models.MenuItem, 0, len(s.menu))
	for _, item := range s.menu {
		items = append(items, copyMenuItem(item))
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID.Hex() < items[j].ID.Hex() })
	return items, nil
}

func (s *MemoryStore) FindMenuItem(ctx context.Context, id primitive.ObjectID) (*models.MenuItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.menu[id]
	if !ok {
		return nil, ErrNotFound
	}
	item = copyMenuItem(item)
	return &item, nil
}

func (s *MemoryStore) FindMenuItemsByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.MenuItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	found := make(map[primitive.ObjectID]models.MenuItem, len(ids))
	for _, id := range ids {
		if item, ok := s.menu[id]; ok {
			found[id] = copyMenuItem(item)
		}
	}
	return found, nil
}

func (s *MemoryStore) InsertMenuItem(ctx context.Context, item *models.MenuItem) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.menu[item.ID] = copyMenuItem(*item)
	return nil
}

func (s *MemoryStore) UpdateMenuItem(ctx context.Context, id primitive.ObjectID, update models.MenuItemUpdate, updatedAt time.Time) (*models.MenuItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.menu[id]
	if !ok {
		return nil, ErrNotFound
	}
	update.Apply(&item)
	item.Updated_at = updatedAt
	s.menu[id] = copyMenuItem(item)
	return &item, nil
}

func (s *MemoryStore) DeleteMenuItem(ctx context.Context, id primitive.ObjectID) (*models.MenuItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.menu[id]
	if !ok {
		return nil, ErrNotFound
	}
	delete(s.menu, id)
	return &item, nil
}

// Orders

func (s *MemoryStore) InsertOrder(ctx context.Context, order *models.Order) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[order.UserID]
	if !ok {
		return ErrNotFound
	}
	placedAt := order.Created_at
	user.Last_order_at = &placedAt
	s.users[order.UserID] = user

	s.orders[order.ID] = copyOrder(*order)
	return nil
}

func (s *MemoryStore) FindOrder(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	o = copyOrder(o)
	return &o, nil
}

func (s *MemoryStore) listOrders(ctx context.Context, keep func(models.Order) bool) ([]models.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.collectOrders(keep), nil
}

// collectOrders expects the caller to hold the lock.
func (s *MemoryStore) collectOrders(keep func(models.Order) bool) []models.Order {
	orders := []models.Order{}
	for _, o := range s.orders {
		if keep(o) {
			orders = append(orders, copyOrder(o))
		}
	}
	sort.Slice(orders, func(i, j int) bool {
		if orders[i].Created_at.Equal(orders[j].Created_at) {
			return orders[i].ID.Hex() > orders[j].ID.Hex()
		}
		return orders[i].Created_at.After(orders[j].Created_at)
	})
	return orders
}

// ownerOf expects the caller to hold the lock.
func (s *MemoryStore) ownerOf(o models.Order) (models.User, bool) {
	u, ok := s.users[o.UserID]
	u.Password = ""
	return u, ok
}

func (s *MemoryStore) ListOrders(ctx context.Context) ([]models.Order, error) {
	return s.listOrders(ctx, func(models.Order) bool { return true })
}

func (s *MemoryStore) ListOrdersByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	return s.listOrders(ctx, func(o models.Order) bool { return o.UserID == userID })
}

func (s *MemoryStore) ListOrdersWithUsers(ctx context.Context) ([]models.Order, map[primitive.ObjectID]models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	orders := s.collectOrders(func(models.Order) bool { return true })
	users := make(map[primitive.ObjectID]models.User)
	for _, o := range orders {
		if u, ok := s.ownerOf(o); ok {
			users[o.UserID] = u
		}
	}
	return orders, users, nil
}

func (s *MemoryStore) FindOrderWithUser(ctx context.Context, id primitive.ObjectID) (*models.Order, *models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.orders[id]
	if !ok {
		return nil, nil, ErrNotFound
	}
	o = copyOrder(o)
	if u, ok := s.ownerOf(o); ok {
		return &o, &u, nil
	}
	return &o, nil, nil
}

func (s *MemoryStore) SetOrderStatus(ctx context.Context, id primitive.ObjectID, status models.OrderStatus, updatedAt time.Time) (*models.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	if o.Status != status {
		o.Status = status
		o.Updated_at = updatedAt
		s.orders[id] = o
	}

	o = copyOrder(o)
	return &o, nil
}

func (s *MemoryStore) DeleteOrder(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	delete(s.orders, id)
	return &o, nil
}
