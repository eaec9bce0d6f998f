package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"pedidos/internal/common"
	"pedidos/internal/models"
)

type OrderItemRepository interface {
	GetItemByID(ctx context.Context, id uuid.UUID) (*models.OrderItem, error)
	ListItems(ctx context.Context, limit, offset int) ([]*models.OrderItem, error)
	ListItemsByOrder(ctx context.Context, orderID uuid.UUID) ([]*models.OrderItem, error)
	ListItemsByProduct(ctx context.Context, productID uuid.UUID, limit, offset int) ([]*models.OrderItem, error)
	InsertItemWithStock(ctx context.Context, item *models.OrderItem, newOrderTotal float64) error
	UpdateItemWithStock(ctx context.Context, item *models.OrderItem, stockDelta int, newOrderTotal float64) error
	DeleteItemWithStock(ctx context.Context, item *models.OrderItem, newOrderTotal float64) error
}

type orderItemRepo struct {
	db DB
}

func NewOrderItemRepo(db DB) OrderItemRepository {
	return &orderItemRepo{db: db}
}

const updateOrderTotalQuery = `UPDATE orders SET total_value = $2, updated_at = NOW() WHERE id = $1`

func (r *orderItemRepo) GetItemByID(ctx context.Context, id uuid.UUID) (*models.OrderItem, error) {
	query := `SELECT ` + itemColumns + ` FROM order_items WHERE id = $1`
	var it models.OrderItem
	err := r.db.QueryRow(ctx, query, id).Scan(
		&it.ID, &it.OrderID, &it.ProductID, &it.Quantity, &it.UnitPrice, &it.TotalValue, &it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

func (r *orderItemRepo) ListItems(ctx context.Context, limit, offset int) ([]*models.OrderItem, error) {
	query := `SELECT ` + itemColumns + ` FROM order_items ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list order items: %w", err)
	}
	defer rows.Close()
	return scanItems(rows)
}

func (r *orderItemRepo) ListItemsByOrder(ctx context.Context, orderID uuid.UUID) ([]*models.OrderItem, error) {
	query := `SELECT ` + itemColumns + ` FROM order_items WHERE order_id = $1 ORDER BY created_at`
	rows, err := r.db.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list items by order: %w", err)
	}
	defer rows.Close()
	return scanItems(rows)
}

func (r *orderItemRepo) ListItemsByProduct(ctx context.Context, productID uuid.UUID, limit, offset int) ([]*models.OrderItem, error) {
	query := `SELECT ` + itemColumns + ` FROM order_items
	          WHERE product_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.Query(ctx, query, productID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list items by product: %w", err)
	}
	defer rows.Close()
	return scanItems(rows)
}

// InsertItemWithStock adds a line to an existing order in one transaction:
// the item row is inserted, the product stock decremented, and the order
// total rewritten.
func (r *orderItemRepo) InsertItemWithStock(ctx context.Context, item *models.OrderItem, newOrderTotal float64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, insertItemQuery,
		item.ID, item.OrderID, item.ProductID, item.Quantity, item.UnitPrice, item.TotalValue,
	); err != nil {
		return fmt.Errorf("failed to insert order item: %w", err)
	}
	if err := adjustStock(ctx, tx, item.ProductID, -item.Quantity); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, updateOrderTotalQuery, item.OrderID, newOrderTotal); err != nil {
		return fmt.Errorf("failed to update order total: %w", err)
	}

	return tx.Commit(ctx)
}

// UpdateItemWithStock rewrites an item's quantity and total, applies the
// stock delta (positive restores, negative reserves more), and rewrites the
// order total, all in one transaction.
func (r *orderItemRepo) UpdateItemWithStock(ctx context.Context, item *models.OrderItem, stockDelta int, newOrderTotal float64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `UPDATE order_items
	          SET quantity = $2, unit_price = $3, total_value = $4, updated_at = NOW()
	          WHERE id = $1`
	tag, err := tx.Exec(ctx, query, item.ID, item.Quantity, item.UnitPrice, item.TotalValue)
	if err != nil {
		return fmt.Errorf("failed to update order item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return common.NewNotFound("OrderItem", "id", item.ID)
	}
	if stockDelta != 0 {
		if err := adjustStock(ctx, tx, item.ProductID, stockDelta); err != nil {
			return err
		}
	}
	if _, err := tx.Exec(ctx, updateOrderTotalQuery, item.OrderID, newOrderTotal); err != nil {
		return fmt.Errorf("failed to update order total: %w", err)
	}

	return tx.Commit(ctx)
}

// DeleteItemWithStock removes a line from an order, restores its reserved
// stock, and rewrites the order total, all in one transaction.
func (r *orderItemRepo) DeleteItemWithStock(ctx context.Context, item *models.OrderItem, newOrderTotal float64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `DELETE FROM order_items WHERE id = $1`, item.ID)
	if err != nil {
		return fmt.Errorf("failed to delete order item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return common.NewNotFound("OrderItem", "id", item.ID)
	}
	if err := adjustStock(ctx, tx, item.ProductID, item.Quantity); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, updateOrderTotalQuery, item.OrderID, newOrderTotal); err != nil {
		return fmt.Errorf("failed to update order total: %w", err)
	}

	return tx.Commit(ctx)
}
