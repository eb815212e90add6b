package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	controller "github.com/02priyeshraj/GrubSpot_Backend/controllers"
	"github.com/02priyeshraj/GrubSpot_Backend/database"
	"github.com/02priyeshraj/GrubSpot_Backend/helper"
	"github.com/02priyeshraj/GrubSpot_Backend/logger"
	"github.com/02priyeshraj/GrubSpot_Backend/models"
	"github.com/02priyeshraj/GrubSpot_Backend/services"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

const testOrigin = "http://localhost:3000"

type testServer struct {
	t       *testing.T
	handler http.Handler
}

func newTestServer(t *testing.T, store database.Store) *testServer {
	t.Helper()
	tokens := helper.NewTokenManager("test-secret", time.Hour)
	c := controller.New(
		services.NewCatalog(store),
		services.NewIdentity(store, helper.PasswordHasher{Cost: bcrypt.MinCost}, tokens, []string{"admin"}),
		services.NewLedger(store),
		logger.Discard(),
		5*time.Second,
	)
	return &testServer{t: t, handler: NewRouter(c, tokens, logger.Discard(), []string{testOrigin})}
}

func (s *testServer) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	s.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			s.t.Fatal(err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, data interface{}) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("response is not a JSON envelope: %v (%s)", err, rec.Body.String())
	}
	if data != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, data); err != nil {
			t.Fatalf("cannot decode data: %v (%s)", err, env.Data)
		}
	}
	return env
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status = %d, want %d, body = %s", rec.Code, want, rec.Body.String())
	}
}

// signUp registers and logs in, returning the user id and token.
func (s *testServer) signUp(username string) (string, string) {
	s.t.Helper()
	creds := map[string]string{"username": username, "password": "password"}
	expectStatus(s.t, s.do(http.MethodPost, "/auth/register", "", creds), http.StatusCreated)

	rec := s.do(http.MethodPost, "/auth/login", "", creds)
	expectStatus(s.t, rec, http.StatusOK)
	var session services.Session
	decode(s.t, rec, &session)
	return session.User.ID, session.Token
}

func (s *testServer) createItem(adminToken, name string, price interface{}) string {
	s.t.Helper()
	rec := s.do(http.MethodPost, "/menu", adminToken, map[string]interface{}{
		"name": name, "category": "Mains", "price": price,
	})
	expectStatus(s.t, rec, http.StatusCreated)
	var item struct {
		ID string `json:"_id"`
	}
	decode(s.t, rec, &item)
	return item.ID
}

func TestOrderLifecycleOverHTTP(t *testing.T) {
	s := newTestServer(t, database.NewMemoryStore())
	_, adminToken := s.signUp("admin")
	aliceID, aliceToken := s.signUp("alice")
	bobID, _ := s.signUp("bob")

	itemA := s.createItem(adminToken, "A", 10)

	// Place an order priced at 10.00 x 3.
	rec := s.do(http.MethodPost, "/order", aliceToken, map[string]interface{}{
		"userId": aliceID,
		"items":  []map[string]interface{}{{"menuItemId": itemA, "quantity": 3}},
	})
	expectStatus(t, rec, http.StatusCreated)
	if !strings.Contains(rec.Body.String(), `"totalAmount":30.00`) || !strings.Contains(rec.Body.String(), `"status":"Placed"`) {
		t.Fatalf("unexpected order body %s", rec.Body.String())
	}
	var order struct {
		ID string `json:"_id"`
	}
	decode(t, rec, &order)

	// Alice may not act for Bob.
	rec = s.do(http.MethodPost, "/order", aliceToken, map[string]interface{}{
		"userId": bobID,
		"items":  []map[string]interface{}{{"menuItemId": itemA, "quantity": 1}},
	})
	expectStatus(t, rec, http.StatusForbidden)
	expectStatus(t, s.do(http.MethodGet, "/order/user/"+bobID, aliceToken, nil), http.StatusForbidden)

	// The price changes after the order was placed.
	expectStatus(t, s.do(http.MethodPut, "/menu/"+itemA, adminToken, map[string]interface{}{"price": "15.00"}), http.StatusOK)

	rec = s.do(http.MethodGet, "/order", adminToken, nil)
	expectStatus(t, rec, http.StatusOK)
	var all []models.OrderView
	decode(t, rec, &all)
	if len(all) != 1 || all[0].Username == nil || *all[0].Username != "alice" {
		t.Fatalf("unexpected orders %+v", all)
	}
	if all[0].Items[0].Price == nil || all[0].Items[0].Price.StringFixed(2) != "15.00" {
		t.Fatalf("line price should be live joined, got %+v", all[0].Items[0])
	}
	if all[0].TotalAmount.StringFixed(2) != "30.00" {
		t.Fatalf("total should stay frozen at 30.00, got %s", all[0].TotalAmount)
	}

	// Completing is idempotent.
	for i := 0; i < 2; i++ {
		rec = s.do(http.MethodPut, "/order/"+order.ID+"/complete", adminToken, nil)
		expectStatus(t, rec, http.StatusOK)
		if !strings.Contains(rec.Body.String(), `"status":"Completed"`) {
			t.Fatalf("expected Completed, got %s", rec.Body.String())
		}
	}
	expectStatus(t, s.do(http.MethodPut, "/order/"+bobID+"/complete", adminToken, nil), http.StatusNotFound)

	rec = s.do(http.MethodGet, "/order/user/"+aliceID, aliceToken, nil)
	expectStatus(t, rec, http.StatusOK)
	var mine []models.OrderView
	decode(t, rec, &mine)
	if len(mine) != 1 {
		t.Fatalf("expected one order, got %d", len(mine))
	}

	// Deleting the only order leaves an empty list, not a 404.
	expectStatus(t, s.do(http.MethodDelete, "/order/"+order.ID, adminToken, nil), http.StatusOK)
	rec = s.do(http.MethodGet, "/order/user/"+aliceID, aliceToken, nil)
	expectStatus(t, rec, http.StatusOK)
	mine = nil
	decode(t, rec, &mine)
	if len(mine) != 0 {
		t.Fatalf("expected empty list, got %+v", mine)
	}
	expectStatus(t, s.do(http.MethodDelete, "/order/"+order.ID, adminToken, nil), http.StatusNotFound)
}

func TestDeleteUserCascadesOverHTTP(t *testing.T) {
	s := newTestServer(t, database.NewMemoryStore())
	_, adminToken := s.signUp("admin")
	aliceID, aliceToken := s.signUp("alice")
	item := s.createItem(adminToken, "Soup", "4.50")

	for i := 0; i < 2; i++ {
		expectStatus(t, s.do(http.MethodPost, "/order", aliceToken, map[string]interface{}{
			"userId": aliceID,
			"items":  []map[string]interface{}{{"menuItemId": item, "quantity": 1}},
		}), http.StatusCreated)
	}

	rec := s.do(http.MethodDelete, "/auth/users/"+aliceID, adminToken, nil)
	expectStatus(t, rec, http.StatusOK)
	var result struct {
		DeletedOrders int64 `json:"deleted_orders"`
	}
	decode(t, rec, &result)
	if result.DeletedOrders != 2 {
		t.Fatalf("expected 2 cascaded orders, got %d", result.DeletedOrders)
	}

	rec = s.do(http.MethodGet, "/order", adminToken, nil)
	var all []models.OrderView
	decode(t, rec, &all)
	if len(all) != 0 {
		t.Fatalf("orders of a deleted user must be gone, got %+v", all)
	}

	rec = s.do(http.MethodGet, "/auth/users", adminToken, nil)
	expectStatus(t, rec, http.StatusOK)
	if strings.Contains(rec.Body.String(), "alice") || strings.Contains(rec.Body.String(), "$2") {
		t.Fatalf("user list should not contain deleted users or hashes: %s", rec.Body.String())
	}
	expectStatus(t, s.do(http.MethodDelete, "/auth/users/"+aliceID, adminToken, nil), http.StatusNotFound)
}

func TestAuthErrorsOverHTTP(t *testing.T) {
	s := newTestServer(t, database.NewMemoryStore())
	_, userToken := s.signUp("carol")

	creds := map[string]string{"username": "carol", "password": "password"}
	rec := s.do(http.MethodPost, "/auth/register", "", creds)
	expectStatus(t, rec, http.StatusConflict)

	wrongPass := s.do(http.MethodPost, "/auth/login", "", map[string]string{"username": "carol", "password": "nope"})
	unknown := s.do(http.MethodPost, "/auth/login", "", map[string]string{"username": "dave", "password": "nope"})
	expectStatus(t, wrongPass, http.StatusUnauthorized)
	expectStatus(t, unknown, http.StatusUnauthorized)
	if decode(t, wrongPass, nil).Message != decode(t, unknown, nil).Message {
		t.Fatal("login failures must share one message")
	}

	expectStatus(t, s.do(http.MethodGet, "/order", "", nil), http.StatusUnauthorized)
	expectStatus(t, s.do(http.MethodGet, "/order", "garbage", nil), http.StatusUnauthorized)
	expectStatus(t, s.do(http.MethodGet, "/order", userToken, nil), http.StatusForbidden)
	expectStatus(t, s.do(http.MethodPost, "/menu", userToken, map[string]interface{}{"name": "x"}), http.StatusForbidden)

	expectStatus(t, s.do(http.MethodGet, "/menu", "", nil), http.StatusOK)
}

func TestPlaceOrderErrorsOverHTTP(t *testing.T) {
	s := newTestServer(t, database.NewMemoryStore())
	aliceID, aliceToken := s.signUp("alice")

	tests := []struct {
		name string
		body interface{}
		want int
	}{
		{"empty cart", map[string]interface{}{"userId": aliceID, "items": []interface{}{}}, http.StatusBadRequest},
		{"missing user", map[string]interface{}{"items": []map[string]interface{}{{"menuItemId": aliceID, "quantity": 1}}}, http.StatusBadRequest},
		{"zero quantity", map[string]interface{}{"userId": aliceID, "items": []map[string]interface{}{{"menuItemId": aliceID, "quantity": 0}}}, http.StatusBadRequest},
		{"unknown item", map[string]interface{}{"userId": aliceID, "items": []map[string]interface{}{{"menuItemId": aliceID, "quantity": 1}}}, http.StatusNotFound},
		{"not json", "{", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectStatus(t, s.do(http.MethodPost, "/order", aliceToken, tt.body), tt.want)
		})
	}
}

func TestCreateMenuItemMultipart(t *testing.T) {
	s := newTestServer(t, database.NewMemoryStore())
	_, adminToken := s.signUp("admin")

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	form.WriteField("name", "Dumplings")
	form.WriteField("category", "Starters")
	form.WriteField("price", "6.40")
	form.WriteField("availability", "false")
	part, _ := form.CreateFormFile("image", "dumplings.png")
	part.Write([]byte{0x89, 'P', 'N', 'G'})
	form.Close()

	req := httptest.NewRequest(http.MethodPost, "/menu", &body)
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+adminToken)
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	expectStatus(t, rec, http.StatusCreated)

	var item models.MenuItem
	decode(t, rec, &item)
	if item.Name != "Dumplings" || item.Availability || item.Price.StringFixed(2) != "6.40" {
		t.Fatalf("unexpected item %+v", item)
	}
	if !bytes.Equal(item.Image, []byte{0x89, 'P', 'N', 'G'}) {
		t.Fatalf("image bytes not stored, got %v", item.Image)
	}
}

func TestExportOrders(t *testing.T) {
	s := newTestServer(t, database.NewMemoryStore())
	_, adminToken := s.signUp("admin")
	aliceID, aliceToken := s.signUp("alice")
	item := s.createItem(adminToken, "Wrap", 7)
	expectStatus(t, s.do(http.MethodPost, "/order", aliceToken, map[string]interface{}{
		"userId": aliceID,
		"items":  []map[string]interface{}{{"menuItemId": item, "quantity": 2}},
	}), http.StatusCreated)

	rec := s.do(http.MethodGet, "/order/export", adminToken, nil)
	expectStatus(t, rec, http.StatusOK)
	if ct := rec.Header().Get("Content-Type"); !strings.Contains(ct, "spreadsheetml") {
		t.Fatalf("unexpected content type %q", ct)
	}
	if rec.Body.Len() == 0 || !bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")) {
		t.Fatal("expected an xlsx (zip) payload")
	}
}

type brokenStore struct {
	*database.MemoryStore
}

func (brokenStore) ListOrdersWithUsers(context.Context) ([]models.Order, map[primitive.ObjectID]models.User, error) {
	return nil, nil, errors.New("dial tcp 10.1.2.3:27017: connection refused")
}

func TestInternalErrorsDoNotLeak(t *testing.T) {
	s := newTestServer(t, brokenStore{database.NewMemoryStore()})
	_, adminToken := s.signUp("admin")

	rec := s.do(http.MethodGet, "/order", adminToken, nil)
	expectStatus(t, rec, http.StatusInternalServerError)
	env := decode(t, rec, nil)
	if env.Success || strings.Contains(rec.Body.String(), "10.1.2.3") {
		t.Fatalf("internal detail leaked: %s", rec.Body.String())
	}
}

func TestCORS(t *testing.T) {
	s := newTestServer(t, database.NewMemoryStore())

	preflight := func(origin string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodOptions, "/order", nil)
		req.Header.Set("Origin", origin)
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		req.Header.Set("Access-Control-Request-Headers", "Authorization, Content-Type")
		rec := httptest.NewRecorder()
		s.handler.ServeHTTP(rec, req)
		return rec
	}

	t.Run("preflight from allowed origin", func(t *testing.T) {
		rec := preflight(testOrigin)
		expectStatus(t, rec, http.StatusOK)
		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != testOrigin {
			t.Fatalf("Access-Control-Allow-Origin = %q, want %q", got, testOrigin)
		}
		if got := rec.Header().Get("Access-Control-Allow-Methods"); got != http.MethodPost {
			t.Fatalf("Access-Control-Allow-Methods = %q", got)
		}
		allowed := rec.Header().Get("Access-Control-Allow-Headers")
		if !strings.Contains(allowed, "Authorization") || !strings.Contains(allowed, "Content-Type") {
			t.Fatalf("Access-Control-Allow-Headers = %q", allowed)
		}
	})

	t.Run("preflight from unknown origin", func(t *testing.T) {
		rec := preflight("https://evil.example")
		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
			t.Fatalf("unknown origin must not be admitted, got %q", got)
		}
	})

	t.Run("simple request from allowed origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/menu", nil)
		req.Header.Set("Origin", testOrigin)
		rec := httptest.NewRecorder()
		s.handler.ServeHTTP(rec, req)
		expectStatus(t, rec, http.StatusOK)
		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != testOrigin {
			t.Fatalf("Access-Control-Allow-Origin = %q, want %q", got, testOrigin)
		}
	})
}
