package controller

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/02priyeshraj/GrubSpot_Backend/models"
	"github.com/tealeg/xlsx"
)

var exportHeaders = []string{
	"Order ID", "User ID", "Username", "Status", "Total Amount", "Created At",
	"Menu Item ID", "Item Name", "Current Price", "Quantity",
}

// buildOrderWorkbook writes one row per order line. Lines whose menu item
// was deleted keep their id and quantity with blank name and price.
func buildOrderWorkbook(orders []models.OrderView) (*xlsx.File, error) {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Orders")
	if err != nil {
		return nil, err
	}

	headerRow := sheet.AddRow()
	for _, h := range exportHeaders {
		headerRow.AddCell().SetValue(h)
	}

	for _, o := range orders {
		username := ""
		if o.Username != nil {
			username = *o.Username
		}
		for _, line := range o.Items {
			row := sheet.AddRow()
			row.AddCell().SetValue(o.ID)
			row.AddCell().SetValue(o.UserID)
			row.AddCell().SetValue(username)
			row.AddCell().SetValue(string(o.Status))
			row.AddCell().SetValue(o.TotalAmount.StringFixed(2))
			row.AddCell().SetValue(o.CreatedAt.Format("2006-01-02 15:04:05"))
			row.AddCell().SetValue(line.MenuItemID)
			if line.Name != nil {
				row.AddCell().SetValue(*line.Name)
			} else {
				row.AddCell().SetValue("")
			}
			if line.Price != nil {
				row.AddCell().SetValue(line.Price.StringFixed(2))
			} else {
				row.AddCell().SetValue("")
			}
			row.AddCell().SetValue(line.Quantity)
		}
	}
	return file, nil
}

func (c *Controller) ExportOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := c.requestContext(r)
	defer cancel()

	orders, err := c.ledger.GetAll(ctx)
	if err != nil {
		c.respondError(w, r, "export_orders", err)
		return
	}

	file, err := buildOrderWorkbook(orders)
	if err != nil {
		c.respondError(w, r, "export_orders", err)
		return
	}

	var buf bytes.Buffer
	if err := file.Write(&buf); err != nil {
		c.respondError(w, r, "export_orders", err)
		return
	}

	filename := fmt.Sprintf("orders-%s.xlsx", time.Now().UTC().Format("20060102"))
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
