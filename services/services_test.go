package services

import (
	"context"
	"testing"
	"time"

	"github.com/02priyeshraj/GrubSpot_Backend/apperror"
	"github.com/02priyeshraj/GrubSpot_Backend/database"
	"github.com/02priyeshraj/GrubSpot_Backend/helper"
	"github.com/02priyeshraj/GrubSpot_Backend/models"
	"golang.org/x/crypto/bcrypt"
)

type fixture struct {
	store    *database.MemoryStore
	catalog  *Catalog
	identity *Identity
	ledger   *Ledger
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := database.NewMemoryStore()
	tokens := helper.NewTokenManager("test-secret", time.Hour)
	return &fixture{
		store:    store,
		catalog:  NewCatalog(store),
		identity: NewIdentity(store, helper.PasswordHasher{Cost: bcrypt.MinCost}, tokens, []string{"admin"}),
		ledger:   NewLedger(store),
	}
}

func (f *fixture) user(t *testing.T, username string) string {
	t.Helper()
	u, err := f.identity.Register(context.Background(), username, "password")
	if err != nil {
		t.Fatalf("Register(%s): %v", username, err)
	}
	return u.ID
}

func (f *fixture) item(t *testing.T, name, price string) *models.MenuItem {
	t.Helper()
	item, err := f.catalog.Create(context.Background(), CreateMenuItemInput{Name: name, Category: "Mains", Price: price})
	if err != nil {
		t.Fatalf("Create(%s): %v", name, err)
	}
	return item
}

func money(t *testing.T, s string) models.Money {
	t.Helper()
	m, err := models.ParseMoney(s)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func assertKind(t *testing.T, err error, kind apperror.Kind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", kind)
	}
	if got := apperror.KindOf(err); got != kind {
		t.Fatalf("expected %s error, got %s (%v)", kind, got, err)
	}
}
