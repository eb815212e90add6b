package services

import (
	"context"
	"errors"
	"time"

	"github.com/02priyeshraj/GrubSpot_Backend/apperror"
	"github.com/02priyeshraj/GrubSpot_Backend/database"
	"github.com/02priyeshraj/GrubSpot_Backend/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderLineInput struct {
	MenuItemID string `json:"menuItemId" validate:"required"`
	Quantity   int    `json:"quantity" validate:"gte=1"`
}

type PlaceOrderInput struct {
	UserID string           `json:"userId" validate:"required"`
	Items  []OrderLineInput `json:"items" validate:"required,min=1,dive"`
}

// Ledger places orders, advances their status and serves joined views.
type Ledger struct {
	store database.Store
	now   func() time.Time
}

func NewLedger(store database.Store) *Ledger {
	return &Ledger{store: store, now: time.Now}
}

func (l *Ledger) timestamp() time.Time {
	return l.now().UTC().Truncate(time.Millisecond)
}

// Place prices the cart against the catalog as it is right now and
// stores the order with that total. The total is never recomputed.
func (l *Ledger) Place(ctx context.Context, in PlaceOrderInput) (*models.Order, error) {
	if in.UserID == "" || len(in.Items) == 0 {
		return nil, apperror.Validation("user ID and items are required")
	}
	if err := validate.Struct(in); err != nil {
		return nil, validationError(err)
	}
	userID, err := parseID(in.UserID, "user")
	if err != nil {
		return nil, err
	}

	lines := make([]models.OrderLine, len(in.Items))
	wellFormed := make([]bool, len(in.Items))
	ids := make([]primitive.ObjectID, 0, len(in.Items))
	for i, item := range in.Items {
		lines[i].Quantity = item.Quantity
		oid, err := primitive.ObjectIDFromHex(item.MenuItemID)
		if err != nil {
			continue
		}
		lines[i].MenuItemID = oid
		wellFormed[i] = true
		ids = append(ids, oid)
	}

	menu, err := l.store.FindMenuItemsByIDs(ctx, ids)
	if err != nil {
		return nil, apperror.Internal(err, "failed to resolve menu items")
	}

	total := models.Money{}
	for i, line := range lines {
		item, ok := menu[line.MenuItemID]
		if !wellFormed[i] || !ok {
			return nil, apperror.NotFound("menu item %s not found", in.Items[i].MenuItemID)
		}
		total = total.Plus(item.Price.Times(line.Quantity))
	}
	if !total.Representable() {
		return nil, apperror.Validation("order total %s is out of range", total.StringFixed(2))
	}

	now := l.timestamp()
	order := &models.Order{
		ID:          primitive.NewObjectID(),
		UserID:      userID,
		Items:       lines,
		TotalAmount: total,
		Status:      models.OrderPlaced,
		Created_at:  now,
		Updated_at:  now,
	}

	if err := l.store.InsertOrder(ctx, order); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, apperror.NotFound("user %s not found", in.UserID)
		}
		return nil, apperror.Internal(err, "order creation failed")
	}
	return order, nil
}

// GetByUser returns the user's orders newest first. A user without orders
// gets an empty slice, not an error.
func (l *Ledger) GetByUser(ctx context.Context, userID string) ([]models.OrderView, error) {
	oid, err := parseID(userID, "user")
	if err != nil {
		return nil, err
	}
	orders, err := l.store.ListOrdersByUser(ctx, oid)
	if err != nil {
		return nil, apperror.Internal(err, "error retrieving orders")
	}
	return l.views(ctx, orders, nil)
}

// GetAll returns every order joined with its username and the current
// name and price of each line's menu item. Orders and users come from the
// same read, so a user being deleted concurrently is either fully present
// or fully gone.
func (l *Ledger) GetAll(ctx context.Context) ([]models.OrderView, error) {
	orders, users, err := l.store.ListOrdersWithUsers(ctx)
	if err != nil {
		return nil, apperror.Internal(err, "error retrieving orders")
	}
	return l.views(ctx, orders, users)
}

func (l *Ledger) Get(ctx context.Context, orderID string) (*models.OrderView, error) {
	oid, err := parseID(orderID, "order")
	if err != nil {
		return nil, err
	}
	order, owner, err := l.store.FindOrderWithUser(ctx, oid)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, apperror.NotFound("order %s not found", orderID)
		}
		return nil, apperror.Internal(err, "error retrieving order")
	}
	users := map[primitive.ObjectID]models.User{}
	if owner != nil {
		users[owner.ID] = *owner
	}
	views, err := l.views(ctx, []models.Order{*order}, users)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// Complete moves the order to Completed. Completing a completed order is
// a no-op success.
func (l *Ledger) Complete(ctx context.Context, orderID string) (*models.Order, error) {
	oid, err := parseID(orderID, "order")
	if err != nil {
		return nil, err
	}
	order, err := l.store.SetOrderStatus(ctx, oid, models.OrderCompleted, l.timestamp())
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, apperror.NotFound("order %s not found", orderID)
		}
		return nil, apperror.Internal(err, "failed to update order status")
	}
	return order, nil
}

func (l *Ledger) Delete(ctx context.Context, orderID string) (*models.Order, error) {
	oid, err := parseID(orderID, "order")
	if err != nil {
		return nil, err
	}
	order, err := l.store.DeleteOrder(ctx, oid)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, apperror.NotFound("order %s not found", orderID)
		}
		return nil, apperror.Internal(err, "error deleting order")
	}
	return order, nil
}

// views left-joins orders with the catalog and with the given owners.
// A nil users map leaves usernames out. Missing referents become nil fields.
func (l *Ledger) views(ctx context.Context, orders []models.Order, users map[primitive.ObjectID]models.User) ([]models.OrderView, error) {
	menuIDs := make([]primitive.ObjectID, 0)
	seenMenu := make(map[primitive.ObjectID]bool)
	for _, o := range orders {
		for _, line := range o.Items {
			if !seenMenu[line.MenuItemID] {
				seenMenu[line.MenuItemID] = true
				menuIDs = append(menuIDs, line.MenuItemID)
			}
		}
	}

	menu, err := l.store.FindMenuItemsByIDs(ctx, menuIDs)
	if err != nil {
		return nil, apperror.Internal(err, "failed to resolve menu items")
	}

	views := make([]models.OrderView, 0, len(orders))
	for _, o := range orders {
		view := models.OrderView{
			ID:          o.ID.Hex(),
			UserID:      o.UserID.Hex(),
			Items:       make([]models.OrderLineView, 0, len(o.Items)),
			TotalAmount: o.TotalAmount,
			Status:      o.Status,
			CreatedAt:   o.Created_at,
			UpdatedAt:   o.Updated_at,
		}
		if u, ok := users[o.UserID]; ok {
			username := u.Username
			view.Username = &username
		}
		for _, line := range o.Items {
			lv := models.OrderLineView{MenuItemID: line.MenuItemID.Hex(), Quantity: line.Quantity}
			if item, ok := menu[line.MenuItemID]; ok {
				name, price := item.Name, item.Price
				lv.Name = &name
				lv.Price = &price
			}
			view.Items = append(view.Items, lv)
		}
		views = append(views, view)
	}
	return views, nil
}
