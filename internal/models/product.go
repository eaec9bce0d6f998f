package models

import (
	"time"

	"github.com/google/uuid"
)

type Product struct {
	ID            uuid.UUID `json:"id" db:"id"`
	Name          string    `json:"nome" db:"name"`
	Description   *string   `json:"descricao" db:"description"`
	Price         float64   `json:"preco" db:"price"`
	StockQuantity int       `json:"quantidadeEstoque" db:"stock_quantity"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}
