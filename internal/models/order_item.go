package models

import (
	"time"

	"github.com/google/uuid"
)

type OrderItem struct {
	ID         uuid.UUID `json:"id" db:"id"`
	OrderID    uuid.UUID `json:"pedidoId" db:"order_id"`
	ProductID  uuid.UUID `json:"produtoId" db:"product_id"`
	Quantity   int       `json:"quantidade" db:"quantity"`
	UnitPrice  float64   `json:"precoUnitario" db:"unit_price"`
	TotalValue float64   `json:"valorTotal" db:"total_value"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// ComputeTotal refreshes TotalValue from unit price and quantity.
func (i *OrderItem) ComputeTotal() {
	if i.Quantity <= 0 || i.UnitPrice <= 0 {
		i.TotalValue = 0
		return
	}
	i.TotalValue = i.UnitPrice * float64(i.Quantity)
}

// SetProduct snapshots the product's current price onto the item.
// Later price changes on the product do not affect existing items.
func (i *OrderItem) SetProduct(p *Product) {
	i.ProductID = p.ID
	i.UnitPrice = p.Price
	i.ComputeTotal()
}

// SetQuantity updates the quantity and recomputes the line total.
func (i *OrderItem) SetQuantity(quantity int) {
	i.Quantity = quantity
	i.ComputeTotal()
}
