package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"pedidos/internal/common"
	"pedidos/internal/models"
)

type ProductRepository interface {
	CreateProduct(ctx context.Context, product *models.Product) error
	GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	UpdateProduct(ctx context.Context, product *models.Product) error
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	ListProducts(ctx context.Context, limit, offset int) ([]*models.Product, error)
	SearchProductsByName(ctx context.Context, name string, limit, offset int) ([]*models.Product, error)
	ListLowStock(ctx context.Context, threshold int) ([]*models.Product, error)
	AdjustStock(ctx context.Context, id uuid.UUID, delta int) error
}

type productRepo struct {
	db DB
}

func NewProductRepo(db DB) ProductRepository {
	return &productRepo{db: db}
}

const productColumns = `id, name, description, price, stock_quantity, created_at, updated_at`

func (r *productRepo) CreateProduct(ctx context.Context, product *models.Product) error {
	query := `INSERT INTO products (id, name, description, price, stock_quantity, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
	          RETURNING created_at, updated_at`
	err := r.db.QueryRow(ctx, query,
		product.ID, product.Name, product.Description, product.Price, product.StockQuantity,
	).Scan(&product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

func (r *productRepo) GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	var p models.Product
	err := r.db.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.Description, &p.Price, &p.StockQuantity, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepo) UpdateProduct(ctx context.Context, product *models.Product) error {
	query := `UPDATE products
	          SET name = $2, description = $3, price = $4, stock_quantity = $5, updated_at = NOW()
	          WHERE id = $1`
	tag, err := r.db.Exec(ctx, query,
		product.ID, product.Name, product.Description, product.Price, product.StockQuantity,
	)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return common.NewNotFound("Product", "id", product.ID)
	}
	return nil
}

func (r *productRepo) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return common.NewNotFound("Product", "id", id)
	}
	return nil
}

func (r *productRepo) ListProducts(ctx context.Context, limit, offset int) ([]*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY name LIMIT $1 OFFSET $2`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()
	return scanProducts(rows)
}

func (r *productRepo) SearchProductsByName(ctx context.Context, name string, limit, offset int) ([]*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products
	          WHERE name ILIKE '%' || $1 || '%'
	          ORDER BY name LIMIT $2 OFFSET $3`
	rows, err := r.db.Query(ctx, query, name, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}
	defer rows.Close()
	return scanProducts(rows)
}

func (r *productRepo) ListLowStock(ctx context.Context, threshold int) ([]*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products
	          WHERE stock_quantity <= $1 ORDER BY stock_quantity ASC`
	rows, err := r.db.Query(ctx, query, threshold)
	if err != nil {
		return nil, fmt.Errorf("failed to list low-stock products: %w", err)
	}
	defer rows.Close()
	return scanProducts(rows)
}

// AdjustStock changes stock_quantity by delta. Negative deltas are guarded so
// the quantity never drops below zero; a guarded update that affects no rows
// reports common.ErrInsufficientStock.
func (r *productRepo) AdjustStock(ctx context.Context, id uuid.UUID, delta int) error {
	return adjustStock(ctx, r.db, id, delta)
}

// execer covers both the pool and a pgx.Tx so adjustStock can run inside the
// transactional order paths.
type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func adjustStock(ctx context.Context, db execer, id uuid.UUID, delta int) error {
	if delta < 0 {
		need := -delta
		query := `UPDATE products
		          SET stock_quantity = stock_quantity - $2, updated_at = NOW()
		          WHERE id = $1 AND stock_quantity >= $2`
		tag, err := db.Exec(ctx, query, id, need)
		if err != nil {
			return fmt.Errorf("failed to decrement stock: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return common.ErrInsufficientStock
		}
		return nil
	}
	query := `UPDATE products
	          SET stock_quantity = stock_quantity + $2, updated_at = NOW()
	          WHERE id = $1`
	tag, err := db.Exec(ctx, query, id, delta)
	if err != nil {
		return fmt.Errorf("failed to restore stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return common.NewNotFound("Product", "id", id)
	}
	return nil
}

func scanProducts(rows pgx.Rows) ([]*models.Product, error) {
	var products []*models.Product
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.StockQuantity, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return products, nil
}
