package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"pedidos/internal/common"
	"pedidos/internal/models"
)

type OrderRepository interface {
	CreateOrderWithItems(ctx context.Context, order *models.Order) error
	GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	UpdateOrder(ctx context.Context, order *models.Order) error
	UpdateOrderWithItems(ctx context.Context, order *models.Order, previousItems []*models.OrderItem) error
	DeleteOrderWithItems(ctx context.Context, order *models.Order) error
	ListOrders(ctx context.Context, limit, offset int) ([]*models.Order, error)
	SearchOrdersByCustomer(ctx context.Context, customer string, limit, offset int) ([]*models.Order, error)
	GetOrdersByStatus(ctx context.Context, status models.OrderStatus, limit, offset int) ([]*models.Order, error)
	GetOrdersByDateRange(ctx context.Context, from, to time.Time, limit, offset int) ([]*models.Order, error)
}

type orderRepo struct {
	db DB
}

func NewOrderRepo(db DB) OrderRepository {
	return &orderRepo{db: db}
}

const orderColumns = `id, customer_name, order_date, notes, total_value, status, created_at, updated_at`

const itemColumns = `id, order_id, product_id, quantity, unit_price, total_value, created_at, updated_at`

const insertItemQuery = `INSERT INTO order_items (id, order_id, product_id, quantity, unit_price, total_value, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())`

// CreateOrderWithItems inserts the order and its items in one transaction,
// decrementing product stock per item. The guarded decrement rolls the whole
// transaction back with common.ErrInsufficientStock when a product cannot
// cover the requested quantity.
func (r *orderRepo) CreateOrderWithItems(ctx context.Context, order *models.Order) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `INSERT INTO orders (id, customer_name, order_date, notes, total_value, status, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
	          RETURNING created_at, updated_at`
	err = tx.QueryRow(ctx, query,
		order.ID, order.Customer, order.OrderDate, order.Notes, order.TotalValue, order.Status,
	).Scan(&order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	for _, item := range order.Items {
		if _, err := tx.Exec(ctx, insertItemQuery,
			item.ID, order.ID, item.ProductID, item.Quantity, item.UnitPrice, item.TotalValue,
		); err != nil {
			return fmt.Errorf("failed to insert order item: %w", err)
		}
		if err := adjustStock(ctx, tx, item.ProductID, -item.Quantity); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *orderRepo) GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	var o models.Order
	err := r.db.QueryRow(ctx, query, id).Scan(
		&o.ID, &o.Customer, &o.OrderDate, &o.Notes, &o.TotalValue, &o.Status, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	items, err := r.loadItems(ctx, id)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return &o, nil
}

// UpdateOrder rewrites the order row only. Items are untouched.
func (r *orderRepo) UpdateOrder(ctx context.Context, order *models.Order) error {
	query := `UPDATE orders
	          SET customer_name = $2, order_date = $3, notes = $4, total_value = $5, status = $6, updated_at = NOW()
	          WHERE id = $1`
	tag, err := r.db.Exec(ctx, query,
		order.ID, order.Customer, order.OrderDate, order.Notes, order.TotalValue, order.Status,
	)
	if err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return common.NewNotFound("Order", "id", order.ID)
	}
	return nil
}

// UpdateOrderWithItems replaces the order's item set in one transaction:
// stock for the previous items is restored, the previous rows deleted, the
// new items inserted and their stock decremented, and the order row rewritten
// with the recomputed total.
func (r *orderRepo) UpdateOrderWithItems(ctx context.Context, order *models.Order, previousItems []*models.OrderItem) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, item := range previousItems {
		if err := adjustStock(ctx, tx, item.ProductID, item.Quantity); err != nil {
			return err
		}
	}
	if _, err := tx.Exec(ctx, `DELETE FROM order_items WHERE order_id = $1`, order.ID); err != nil {
		return fmt.Errorf("failed to delete previous order items: %w", err)
	}

	for _, item := range order.Items {
		if _, err := tx.Exec(ctx, insertItemQuery,
			item.ID, order.ID, item.ProductID, item.Quantity, item.UnitPrice, item.TotalValue,
		); err != nil {
			return fmt.Errorf("failed to insert order item: %w", err)
		}
		if err := adjustStock(ctx, tx, item.ProductID, -item.Quantity); err != nil {
			return err
		}
	}

	query := `UPDATE orders
	          SET customer_name = $2, order_date = $3, notes = $4, total_value = $5, status = $6, updated_at = NOW()
	          WHERE id = $1`
	tag, err := tx.Exec(ctx, query,
		order.ID, order.Customer, order.OrderDate, order.Notes, order.TotalValue, order.Status,
	)
	if err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return common.NewNotFound("Order", "id", order.ID)
	}

	return tx.Commit(ctx)
}

// DeleteOrderWithItems removes the order and its items in one transaction,
// restoring the stock each item had reserved.
func (r *orderRepo) DeleteOrderWithItems(ctx context.Context, order *models.Order) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, item := range order.Items {
		if err := adjustStock(ctx, tx, item.ProductID, item.Quantity); err != nil {
			return err
		}
	}
	if _, err := tx.Exec(ctx, `DELETE FROM order_items WHERE order_id = $1`, order.ID); err != nil {
		return fmt.Errorf("failed to delete order items: %w", err)
	}
	tag, err := tx.Exec(ctx, `DELETE FROM orders WHERE id = $1`, order.ID)
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return common.NewNotFound("Order", "id", order.ID)
	}

	return tx.Commit(ctx)
}

func (r *orderRepo) ListOrders(ctx context.Context, limit, offset int) ([]*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders ORDER BY order_date DESC LIMIT $1 OFFSET $2`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()
	return r.scanOrdersWithItems(ctx, rows)
}

func (r *orderRepo) SearchOrdersByCustomer(ctx context.Context, customer string, limit, offset int) ([]*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders
	          WHERE customer_name ILIKE '%' || $1 || '%'
	          ORDER BY order_date DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.Query(ctx, query, customer, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to search orders: %w", err)
	}
	defer rows.Close()
	return r.scanOrdersWithItems(ctx, rows)
}

func (r *orderRepo) GetOrdersByStatus(ctx context.Context, status models.OrderStatus, limit, offset int) ([]*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders
	          WHERE status = $1 ORDER BY order_date DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.Query(ctx, query, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get orders by status: %w", err)
	}
	defer rows.Close()
	return r.scanOrdersWithItems(ctx, rows)
}

func (r *orderRepo) GetOrdersByDateRange(ctx context.Context, from, to time.Time, limit, offset int) ([]*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders
	          WHERE order_date BETWEEN $1 AND $2
	          ORDER BY order_date DESC LIMIT $3 OFFSET $4`
	rows, err := r.db.Query(ctx, query, from, to, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get orders by date range: %w", err)
	}
	defer rows.Close()
	return r.scanOrdersWithItems(ctx, rows)
}

func (r *orderRepo) loadItems(ctx context.Context, orderID uuid.UUID) ([]*models.OrderItem, error) {
	query := `SELECT ` + itemColumns + ` FROM order_items WHERE order_id = $1 ORDER BY created_at`
	rows, err := r.db.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load order items: %w", err)
	}
	defer rows.Close()
	return scanItems(rows)
}

func (r *orderRepo) scanOrdersWithItems(ctx context.Context, rows pgx.Rows) ([]*models.Order, error) {
	var orders []*models.Order
	for rows.Next() {
		var o models.Order
		if err := rows.Scan(&o.ID, &o.Customer, &o.OrderDate, &o.Notes, &o.TotalValue, &o.Status, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, &o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	for _, o := range orders {
		items, err := r.loadItems(ctx, o.ID)
		if err != nil {
			return nil, err
		}
		o.Items = items
	}
	return orders, nil
}

func scanItems(rows pgx.Rows) ([]*models.OrderItem, error) {
	var items []*models.OrderItem
	for rows.Next() {
		var it models.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Quantity, &it.UnitPrice, &it.TotalValue, &it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		items = append(items, &it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
