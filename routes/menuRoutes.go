package routes

import (
	"net/http"

	controller "github.com/02priyeshraj/GrubSpot_Backend/controllers"
	"github.com/gorilla/mux"
)

func MenuPublicRoutes(router *mux.Router, c *controller.Controller) {
	router.HandleFunc("/menu", c.GetMenus).Methods(http.MethodGet)
	router.HandleFunc("/menu/{menu_id}", c.GetMenu).Methods(http.MethodGet)
}

func MenuAdminRoutes(router *mux.Router, c *controller.Controller) {
	router.HandleFunc("/menu", c.CreateMenu).Methods(http.MethodPost)
	router.HandleFunc("/menu/{menu_id}", c.UpdateMenu).Methods(http.MethodPut)
	router.HandleFunc("/menu/{menu_id}", c.DeleteMenu).Methods(http.MethodDelete)
}
