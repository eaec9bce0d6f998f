package models

import (
	"time"

	"github.com/google/uuid"
)

type Order struct {
	ID         uuid.UUID    `json:"id" db:"id"`
	Customer   string       `json:"cliente" db:"customer_name"`
	OrderDate  time.Time    `json:"dataPedido" db:"order_date"`
	Notes      *string      `json:"observacao" db:"notes"`
	TotalValue float64      `json:"valorTotal" db:"total_value"`
	Status     OrderStatus  `json:"status" db:"status"`
	Items      []*OrderItem `json:"itens"`
	CreatedAt  time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at" db:"updated_at"`
}

// AddItem appends an item and refreshes the order total.
func (o *Order) AddItem(item *OrderItem) {
	item.OrderID = o.ID
	o.Items = append(o.Items, item)
	o.RecalculateTotal()
}

// ClearItems drops every item and zeroes the total.
func (o *Order) ClearItems() {
	o.Items = nil
	o.RecalculateTotal()
}

// RecalculateTotal sets TotalValue to the sum of the item totals.
func (o *Order) RecalculateTotal() {
	total := 0.0
	for _, item := range o.Items {
		total += item.TotalValue
	}
	o.TotalValue = total
}

// OrderItemRequest is one requested line in a create/update payload.
type OrderItemRequest struct {
	ProductID uuid.UUID `json:"produtoId"`
	Quantity  int       `json:"quantidade"`
}

// OrderRequest is the create/update payload for an order.
type OrderRequest struct {
	Customer  string             `json:"cliente"`
	Notes     *string            `json:"observacao"`
	OrderDate *time.Time         `json:"dataPedido"`
	Status    string             `json:"status"`
	Items     []OrderItemRequest `json:"itens"`
}
