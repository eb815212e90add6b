package routes

import (
	"net/http"

	controller "github.com/02priyeshraj/GrubSpot_Backend/controllers"
	"github.com/gorilla/mux"
)

// OrderProtectedRoutes are open to any signed in user acting for themselves.
func OrderProtectedRoutes(router *mux.Router, c *controller.Controller) {
	router.HandleFunc("/order", c.CreateOrder).Methods(http.MethodPost)
	router.HandleFunc("/order/user/{user_id}", c.GetOrdersByUserId).Methods(http.MethodGet)
}

func OrderAdminRoutes(router *mux.Router, c *controller.Controller) {
	router.HandleFunc("/order", c.GetOrders).Methods(http.MethodGet)
	router.HandleFunc("/order/export", c.ExportOrders).Methods(http.MethodGet)
	router.HandleFunc("/order/{order_id}", c.GetOrderById).Methods(http.MethodGet)
	router.HandleFunc("/order/{order_id}/complete", c.CompleteOrder).Methods(http.MethodPut)
	router.HandleFunc("/order/{order_id}", c.DeleteOrder).Methods(http.MethodDelete)
}
