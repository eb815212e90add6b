package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/02priyeshraj/GrubSpot_Backend/apperror"
	"github.com/02priyeshraj/GrubSpot_Backend/logger"
	"github.com/02priyeshraj/GrubSpot_Backend/services"
)

// Controller holds the services behind the HTTP handlers.
type Controller struct {
	catalog  *services.Catalog
	identity *services.Identity
	ledger   *services.Ledger
	log      *logger.Logger
	timeout  time.Duration
}

func New(catalog *services.Catalog, identity *services.Identity, ledger *services.Ledger, log *logger.Logger, timeout time.Duration) *Controller {
	return &Controller{
		catalog:  catalog,
		identity: identity,
		ledger:   ledger,
		log:      log,
		timeout:  timeout,
	}
}

// requestContext bounds every storage call made on behalf of r.
func (c *Controller) requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), c.timeout)
}

func writeJSON(w http.ResponseWriter, status int, response map[string]interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(response)
}

func respond(w http.ResponseWriter, status int, message string, data interface{}) {
	response := map[string]interface{}{
		"success": true,
		"message": message,
	}
	if data != nil {
		response["data"] = data
	}
	writeJSON(w, status, response)
}

func respondMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{
		"success": false,
		"message": message,
	})
}

// respondError writes err as a JSON envelope. Internal causes are logged
// and replaced by a generic message.
func (c *Controller) respondError(w http.ResponseWriter, r *http.Request, action string, err error) {
	status := apperror.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		c.log.Error(r.Context(), action, "request failed", err)
	} else {
		c.log.Debug(r.Context(), action, apperror.PublicMessage(err))
	}
	respondMessage(w, status, apperror.PublicMessage(err))
}
