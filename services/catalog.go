package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/02priyeshraj/GrubSpot_Backend/apperror"
	"github.com/02priyeshraj/GrubSpot_Backend/database"
	"github.com/02priyeshraj/GrubSpot_Backend/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CreateMenuItemInput is what an operator submits for a new item. Price
// is kept as text so that "missing" and "not a number" can be told apart.
type CreateMenuItemInput struct {
	Name         string
	Category     string
	Price        string
	Availability *bool
	Image        []byte
}

// UpdateMenuItemInput carries the fields present in an update request.
type UpdateMenuItemInput struct {
	Name         *string
	Category     *string
	Price        *string
	Availability *bool
	Image        []byte
}

type Catalog struct {
	store database.MenuStore
	now   func() time.Time
}

func NewCatalog(store database.MenuStore) *Catalog {
	return &Catalog{store: store, now: time.Now}
}

func (c *Catalog) List(ctx context.Context) ([]models.MenuItem, error) {
	items, err := c.store.ListMenuItems(ctx)
	if err != nil {
		return nil, apperror.Internal(err, "failed to list menu items")
	}
	return items, nil
}

func (c *Catalog) Get(ctx context.Context, id string) (*models.MenuItem, error) {
	oid, err := parseID(id, "menu item")
	if err != nil {
		return nil, err
	}
	item, err := c.store.FindMenuItem(ctx, oid)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, apperror.NotFound("menu item %s not found", id)
		}
		return nil, apperror.Internal(err, "failed to fetch menu item")
	}
	return item, nil
}

func (c *Catalog) Create(ctx context.Context, in CreateMenuItemInput) (*models.MenuItem, error) {
	name := strings.TrimSpace(in.Name)
	category := strings.TrimSpace(in.Category)
	price := strings.TrimSpace(in.Price)
	if name == "" || category == "" || price == "" {
		return nil, apperror.Validation("name, category, and price are required")
	}

	amount, err := models.ParseMoney(price)
	if err != nil {
		return nil, apperror.Validation("price: %v", err)
	}

	availability := true
	if in.Availability != nil {
		availability = *in.Availability
	}

	now := c.now()
	item := &models.MenuItem{
		ID:           primitive.NewObjectID(),
		Name:         name,
		Category:     category,
		Price:        amount,
		Availability: availability,
		Image:        in.Image,
		Created_at:   now,
		Updated_at:   now,
	}

	if err := c.store.InsertMenuItem(ctx, item); err != nil {
		return nil, apperror.Internal(err, "menu item was not created")
	}
	return item, nil
}

func (c *Catalog) Update(ctx context.Context, id string, in UpdateMenuItemInput) (*models.MenuItem, error) {
	oid, err := parseID(id, "menu item")
	if err != nil {
		return nil, err
	}

	update := models.MenuItemUpdate{Availability: in.Availability, Image: in.Image}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, apperror.Validation("name must not be empty")
		}
		update.Name = &name
	}
	if in.Category != nil {
		category := strings.TrimSpace(*in.Category)
		if category == "" {
			return nil, apperror.Validation("category must not be empty")
		}
		update.Category = &category
	}
	if in.Price != nil {
		amount, err := models.ParseMoney(strings.TrimSpace(*in.Price))
		if err != nil {
			return nil, apperror.Validation("price: %v", err)
		}
		update.Price = &amount
	}

	item, err := c.store.UpdateMenuItem(ctx, oid, update, c.now())
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, apperror.NotFound("menu item %s not found", id)
		}
		return nil, apperror.Internal(err, "menu item update failed")
	}
	return item, nil
}

// Delete removes the item. Orders that reference it are left untouched.
func (c *Catalog) Delete(ctx context.Context, id string) (*models.MenuItem, error) {
	oid, err := parseID(id, "menu item")
	if err != nil {
		return nil, err
	}
	item, err := c.store.DeleteMenuItem(ctx, oid)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, apperror.NotFound("menu item %s not found", id)
		}
		return nil, apperror.Internal(err, "menu item deletion failed")
	}
	return item, nil
}
