package controller

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
)

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func decodeCredentials(r *http.Request) (credentials, error) {
	var creds credentials
	err := json.NewDecoder(r.Body).Decode(&creds)
	return creds, err
}

func (c *Controller) SignUp(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := c.requestContext(r)
	defer cancel()

	creds, err := decodeCredentials(r)
	if err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := c.identity.Register(ctx, creds.Username, creds.Password)
	if err != nil {
		c.respondError(w, r, "register", err)
		return
	}

	c.log.Info(r.Context(), "register", "user registered")
	respond(w, http.StatusCreated, "User registered successfully", user)
}

func (c *Controller) Login(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := c.requestContext(r)
	defer cancel()

	creds, err := decodeCredentials(r)
	if err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	session, err := c.identity.Login(ctx, creds.Username, creds.Password)
	if err != nil {
		c.respondError(w, r, "login", err)
		return
	}

	respond(w, http.StatusOK, "Login successful", session)
}

func (c *Controller) GetUsers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := c.requestContext(r)
	defer cancel()

	users, err := c.identity.List(ctx)
	if err != nil {
		c.respondError(w, r, "list_users", err)
		return
	}

	respond(w, http.StatusOK, "Users retrieved successfully", users)
}

func (c *Controller) DeleteUser(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := c.requestContext(r)
	defer cancel()

	userId := mux.Vars(r)["user_id"]

	user, deletedOrders, err := c.identity.Delete(ctx, userId)
	if err != nil {
		c.respondError(w, r, "delete_user", err)
		return
	}

	c.log.Info(r.Context(), "delete_user", "user and associated orders deleted")
	respond(w, http.StatusOK, "User and associated orders deleted successfully", map[string]interface{}{
		"user":           user,
		"deleted_orders": deletedOrders,
	})
}
