package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"pedidos/internal/common"
	"pedidos/internal/models"
	"pedidos/internal/repositories"
)

type ProductService interface {
	CreateProduct(ctx context.Context, product *models.Product) error
	GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	UpdateProduct(ctx context.Context, product *models.Product) error
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	ListProducts(ctx context.Context, limit, offset int) ([]*models.Product, error)
	SearchProductsByName(ctx context.Context, name string, limit, offset int) ([]*models.Product, error)
	ListLowStock(ctx context.Context, threshold int) ([]*models.Product, error)
	DecrementStock(ctx context.Context, id uuid.UUID, quantity int) error
	RestoreStock(ctx context.Context, id uuid.UUID, quantity int) error
}

type productService struct {
	productRepo repositories.ProductRepository
}

func NewProductService(productRepo repositories.ProductRepository) ProductService {
	return &productService{productRepo: productRepo}
}

func (s *productService) CreateProduct(ctx context.Context, product *models.Product) error {
	if err := validateProduct(product); err != nil {
		return err
	}
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	return s.productRepo.CreateProduct(ctx, product)
}

func (s *productService) GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.productRepo.GetProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.NewNotFound("Product", "id", id)
		}
		return nil, err
	}
	return product, nil
}

func (s *productService) UpdateProduct(ctx context.Context, product *models.Product) error {
	if product.ID == uuid.Nil {
		return common.NewBadRequest("product id is required")
	}
	if err := validateProduct(product); err != nil {
		return err
	}
	return s.productRepo.UpdateProduct(ctx, product)
}

func (s *productService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return s.productRepo.DeleteProduct(ctx, id)
}

func (s *productService) ListProducts(ctx context.Context, limit, offset int) ([]*models.Product, error) {
	limit, offset = normalizePage(limit, offset)
	return s.productRepo.ListProducts(ctx, limit, offset)
}

func (s *productService) SearchProductsByName(ctx context.Context, name string, limit, offset int) ([]*models.Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, common.NewBadRequest("search name is required")
	}
	limit, offset = normalizePage(limit, offset)
	return s.productRepo.SearchProductsByName(ctx, name, limit, offset)
}

func (s *productService) ListLowStock(ctx context.Context, threshold int) ([]*models.Product, error) {
	if threshold < 0 {
		return nil, common.NewBadRequest("threshold must not be negative")
	}
	return s.productRepo.ListLowStock(ctx, threshold)
}

// DecrementStock reserves quantity units of a product's stock. A product
// without enough stock yields a bad request naming the shortfall.
func (s *productService) DecrementStock(ctx context.Context, id uuid.UUID, quantity int) error {
	if quantity <= 0 {
		return common.NewBadRequest("quantity must be greater than zero")
	}
	product, err := s.GetProductByID(ctx, id)
	if err != nil {
		return err
	}
	if product.StockQuantity < quantity {
		return common.NewBadRequest("insufficient stock for product %s: available %d, requested %d",
			product.Name, product.StockQuantity, quantity)
	}
	err = s.productRepo.AdjustStock(ctx, id, -quantity)
	if errors.Is(err, common.ErrInsufficientStock) {
		return common.NewBadRequest("insufficient stock for product %s", product.Name)
	}
	return err
}

// RestoreStock returns quantity units to a product's stock.
func (s *productService) RestoreStock(ctx context.Context, id uuid.UUID, quantity int) error {
	if quantity <= 0 {
		return common.NewBadRequest("quantity must be greater than zero")
	}
	return s.productRepo.AdjustStock(ctx, id, quantity)
}

func validateProduct(product *models.Product) error {
	if strings.TrimSpace(product.Name) == "" {
		return common.NewBadRequest("product name is required")
	}
	if product.Price <= 0 {
		return common.NewBadRequest("product price must be greater than zero")
	}
	if product.StockQuantity < 0 {
		return common.NewBadRequest("stock quantity must not be negative")
	}
	return nil
}

func normalizePage(limit, offset int) (int, int) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
