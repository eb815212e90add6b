package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/02priyeshraj/GrubSpot_Backend/services"
	"github.com/gorilla/mux"
)

const maxImageSize = 5 << 20

// menuItemRequest is the JSON body of a create or update. Price accepts
// both 12.5 and "12.5".
type menuItemRequest struct {
	Name         *string      `json:"name"`
	Category     *string      `json:"category"`
	Price        *json.Number `json:"price"`
	Availability *bool        `json:"availability"`
	Image        []byte       `json:"image"`
}

func isMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "multipart/form-data"
}

// parseMenuItemRequest reads either a JSON body or a multipart form with
// an optional "image" file.
func parseMenuItemRequest(r *http.Request) (menuItemRequest, error) {
	var req menuItemRequest
	if !isMultipart(r) {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return req, errors.New("invalid request body")
		}
		return req, nil
	}

	if err := r.ParseMultipartForm(maxImageSize); err != nil {
		return req, errors.New("invalid multipart form")
	}
	form := r.MultipartForm.Value
	if v, ok := form["name"]; ok && len(v) > 0 {
		req.Name = &v[0]
	}
	if v, ok := form["category"]; ok && len(v) > 0 {
		req.Category = &v[0]
	}
	if v, ok := form["price"]; ok && len(v) > 0 {
		n := json.Number(v[0])
		req.Price = &n
	}
	if v, ok := form["availability"]; ok && len(v) > 0 {
		available, err := strconv.ParseBool(v[0])
		if err != nil {
			return req, errors.New("availability must be true or false")
		}
		req.Availability = &available
	}

	file, header, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return req, nil
	} else if err != nil {
		return req, errors.New("invalid image upload")
	}
	defer file.Close()

	if header.Size > maxImageSize {
		return req, fmt.Errorf("image must be at most %d bytes", maxImageSize)
	}
	image, err := io.ReadAll(io.LimitReader(file, maxImageSize+1))
	if err != nil || len(image) > maxImageSize {
		return req, errors.New("invalid image upload")
	}
	req.Image = image
	return req, nil
}

func (c *Controller) GetMenus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := c.requestContext(r)
	defer cancel()

	items, err := c.catalog.List(ctx)
	if err != nil {
		c.respondError(w, r, "list_menu", err)
		return
	}

	respond(w, http.StatusOK, "Menu items retrieved successfully", items)
}

func (c *Controller) GetMenu(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := c.requestContext(r)
	defer cancel()

	item, err := c.catalog.Get(ctx, mux.Vars(r)["menu_id"])
	if err != nil {
		c.respondError(w, r, "get_menu_item", err)
		return
	}

	respond(w, http.StatusOK, "Menu item retrieved successfully", item)
}

func (c *Controller) CreateMenu(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := c.requestContext(r)
	defer cancel()

	req, err := parseMenuItemRequest(r)
	if err != nil {
		respondMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	in := services.CreateMenuItemInput{Availability: req.Availability, Image: req.Image}
	if req.Name != nil {
		in.Name = *req.Name
	}
	if req.Category != nil {
		in.Category = *req.Category
	}
	if req.Price != nil {
		in.Price = req.Price.String()
	}

	item, err := c.catalog.Create(ctx, in)
	if err != nil {
		c.respondError(w, r, "create_menu_item", err)
		return
	}

	respond(w, http.StatusCreated, "Menu item added successfully", item)
}

func (c *Controller) UpdateMenu(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := c.requestContext(r)
	defer cancel()

	req, err := parseMenuItemRequest(r)
	if err != nil {
		respondMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	in := services.UpdateMenuItemInput{
		Name:         req.Name,
		Category:     req.Category,
		Availability: req.Availability,
		Image:        req.Image,
	}
	if req.Price != nil {
		price := req.Price.String()
		in.Price = &price
	}

	item, err := c.catalog.Update(ctx, mux.Vars(r)["menu_id"], in)
	if err != nil {
		c.respondError(w, r, "update_menu_item", err)
		return
	}

	respond(w, http.StatusOK, "Menu item updated successfully", item)
}

func (c *Controller) DeleteMenu(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := c.requestContext(r)
	defer cancel()

	item, err := c.catalog.Delete(ctx, mux.Vars(r)["menu_id"])
	if err != nil {
		c.respondError(w, r, "delete_menu_item", err)
		return
	}

	respond(w, http.StatusOK, "Menu item deleted successfully", item)
}
