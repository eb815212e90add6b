package controller

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/02priyeshraj/GrubSpot_Backend/apperror"
	middleware "github.com/02priyeshraj/GrubSpot_Backend/middlewares"
	"github.com/02priyeshraj/GrubSpot_Backend/services"
	"github.com/gorilla/mux"
)

func (c *Controller) CreateOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := c.requestContext(r)
	defer cancel()

	var req services.PlaceOrderInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.UserID != "" && !middleware.CanActFor(r, req.UserID) {
		c.respondError(w, r, "place_order", apperror.Forbidden("cannot place orders for another user"))
		return
	}

	order, err := c.ledger.Place(ctx, req)
	if err != nil {
		c.respondError(w, r, "place_order", err)
		return
	}

	c.log.Info(r.Context(), "place_order", "order placed",
		slog.String("order_id", order.ID.Hex()),
		slog.String("total_amount", order.TotalAmount.StringFixed(2)),
	)
	respond(w, http.StatusCreated, "Order placed successfully", order)
}

func (c *Controller) GetOrdersByUserId(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := c.requestContext(r)
	defer cancel()

	userId := mux.Vars(r)["user_id"]
	if !middleware.CanActFor(r, userId) {
		c.respondError(w, r, "list_user_orders", apperror.Forbidden("cannot read another user's orders"))
		return
	}

	orders, err := c.ledger.GetByUser(ctx, userId)
	if err != nil {
		c.respondError(w, r, "list_user_orders", err)
		return
	}

	respond(w, http.StatusOK, "Orders retrieved successfully", orders)
}

func (c *Controller) GetOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := c.requestContext(r)
	defer cancel()

	orders, err := c.ledger.GetAll(ctx)
	if err != nil {
		c.respondError(w, r, "list_orders", err)
		return
	}

	respond(w, http.StatusOK, "Orders retrieved successfully", orders)
}

func (c *Controller) GetOrderById(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := c.requestContext(r)
	defer cancel()

	order, err := c.ledger.Get(ctx, mux.Vars(r)["order_id"])
	if err != nil {
		c.respondError(w, r, "get_order", err)
		return
	}

	respond(w, http.StatusOK, "Order retrieved successfully", order)
}

func (c *Controller) CompleteOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := c.requestContext(r)
	defer cancel()

	order, err := c.ledger.Complete(ctx, mux.Vars(r)["order_id"])
	if err != nil {
		c.respondError(w, r, "complete_order", err)
		return
	}

	respond(w, http.StatusOK, "Order marked as completed", order)
}

func (c *Controller) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := c.requestContext(r)
	defer cancel()

	order, err := c.ledger.Delete(ctx, mux.Vars(r)["order_id"])
	if err != nil {
		c.respondError(w, r, "delete_order", err)
		return
	}

	respond(w, http.StatusOK, "Order deleted successfully", order)
}
