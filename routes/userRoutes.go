package routes

import (
	"net/http"

	controller "github.com/02priyeshraj/GrubSpot_Backend/controllers"
	"github.com/gorilla/mux"
)

func UserPublicRoutes(router *mux.Router, c *controller.Controller) {
	router.HandleFunc("/auth/register", c.SignUp).Methods(http.MethodPost)
	router.HandleFunc("/auth/login", c.Login).Methods(http.MethodPost)
}

func UserAdminRoutes(router *mux.Router, c *controller.Controller) {
	router.HandleFunc("/auth/users", c.GetUsers).Methods(http.MethodGet)
	router.HandleFunc("/auth/users/{user_id}", c.DeleteUser).Methods(http.MethodDelete)
}
