package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"pedidos/internal/common"
	"pedidos/internal/models"
	"pedidos/internal/repositories"
)

type OrderItemService interface {
	GetItemByID(ctx context.Context, id uuid.UUID) (*models.OrderItem, error)
	ListItems(ctx context.Context, limit, offset int) ([]*models.OrderItem, error)
	ListItemsByOrder(ctx context.Context, orderID uuid.UUID) ([]*models.OrderItem, error)
	ListItemsByProduct(ctx context.Context, productID uuid.UUID, limit, offset int) ([]*models.OrderItem, error)
	AddItem(ctx context.Context, orderID uuid.UUID, req models.OrderItemRequest) (*models.OrderItem, error)
	UpdateItemQuantity(ctx context.Context, id uuid.UUID, quantity int) (*models.OrderItem, error)
	DeleteItem(ctx context.Context, id uuid.UUID) error
}

type orderItemService struct {
	itemRepo    repositories.OrderItemRepository
	orderRepo   repositories.OrderRepository
	productRepo repositories.ProductRepository
}

func NewOrderItemService(itemRepo repositories.OrderItemRepository, orderRepo repositories.OrderRepository, productRepo repositories.ProductRepository) OrderItemService {
	return &orderItemService{itemRepo: itemRepo, orderRepo: orderRepo, productRepo: productRepo}
}

func (s *orderItemService) GetItemByID(ctx context.Context, id uuid.UUID) (*models.OrderItem, error) {
	item, err := s.itemRepo.GetItemByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.NewNotFound("OrderItem", "id", id)
		}
		return nil, err
	}
	return item, nil
}

func (s *orderItemService) ListItems(ctx context.Context, limit, offset int) ([]*models.OrderItem, error) {
	limit, offset = normalizePage(limit, offset)
	return s.itemRepo.ListItems(ctx, limit, offset)
}

func (s *orderItemService) ListItemsByOrder(ctx context.Context, orderID uuid.UUID) ([]*models.OrderItem, error) {
	if _, err := s.loadOrder(ctx, orderID); err != nil {
		return nil, err
	}
	return s.itemRepo.ListItemsByOrder(ctx, orderID)
}

func (s *orderItemService) ListItemsByProduct(ctx context.Context, productID uuid.UUID, limit, offset int) ([]*models.OrderItem, error) {
	limit, offset = normalizePage(limit, offset)
	return s.itemRepo.ListItemsByProduct(ctx, productID, limit, offset)
}

// AddItem appends a new line to an existing PENDING order, reserving stock
// for it and bumping the order total.
func (s *orderItemService) AddItem(ctx context.Context, orderID uuid.UUID, req models.OrderItemRequest) (*models.OrderItem, error) {
	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != models.StatusPending {
		return nil, common.NewBadRequest("items can only be added to PENDING orders, current status is %s", order.Status)
	}
	if req.ProductID == uuid.Nil {
		return nil, common.NewBadRequest("product id is required")
	}
	if req.Quantity <= 0 {
		return nil, common.NewBadRequest("item quantity must be greater than zero")
	}

	product, err := s.productRepo.GetProductByID(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.NewNotFound("Product", "id", req.ProductID)
		}
		return nil, err
	}
	if product.StockQuantity < req.Quantity {
		return nil, common.NewBadRequest("insufficient stock for product %s: available %d, requested %d",
			product.Name, product.StockQuantity, req.Quantity)
	}

	item := &models.OrderItem{ID: uuid.New(), OrderID: orderID}
	item.SetQuantity(req.Quantity)
	item.SetProduct(product)

	newTotal := order.TotalValue + item.TotalValue
	if err := s.itemRepo.InsertItemWithStock(ctx, item, newTotal); err != nil {
		if errors.Is(err, common.ErrInsufficientStock) {
			return nil, common.NewBadRequest("insufficient stock for product %s", product.Name)
		}
		return nil, err
	}
	return item, nil
}

// UpdateItemQuantity changes a line's quantity on a PENDING order. Lowering
// the quantity releases stock back to the product; raising it reserves more
// and fails when the product cannot cover the increase. The line keeps the
// unit price snapshotted when it was created.
func (s *orderItemService) UpdateItemQuantity(ctx context.Context, id uuid.UUID, quantity int) (*models.OrderItem, error) {
	if quantity <= 0 {
		return nil, common.NewBadRequest("item quantity must be greater than zero")
	}

	item, err := s.GetItemByID(ctx, id)
	if err != nil {
		return nil, err
	}
	order, err := s.loadOrder(ctx, item.OrderID)
	if err != nil {
		return nil, err
	}
	if order.Status != models.StatusPending {
		return nil, common.NewBadRequest("items can only be changed on PENDING orders, current status is %s", order.Status)
	}

	increase := quantity - item.Quantity
	if increase > 0 {
		product, err := s.productRepo.GetProductByID(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, common.NewNotFound("Product", "id", item.ProductID)
			}
			return nil, err
		}
		if product.StockQuantity < increase {
			return nil, common.NewBadRequest("insufficient stock for product %s: available %d, requested %d more",
				product.Name, product.StockQuantity, increase)
		}
	}

	previousTotal := item.TotalValue
	item.SetQuantity(quantity)
	newOrderTotal := order.TotalValue - previousTotal + item.TotalValue

	if err := s.itemRepo.UpdateItemWithStock(ctx, item, -increase, newOrderTotal); err != nil {
		if errors.Is(err, common.ErrInsufficientStock) {
			return nil, common.NewBadRequest("insufficient stock for the requested quantity")
		}
		return nil, err
	}
	return item, nil
}

// DeleteItem removes a line from a PENDING order, releasing its stock and
// lowering the order total.
func (s *orderItemService) DeleteItem(ctx context.Context, id uuid.UUID) error {
	item, err := s.GetItemByID(ctx, id)
	if err != nil {
		return err
	}
	order, err := s.loadOrder(ctx, item.OrderID)
	if err != nil {
		return err
	}
	if order.Status != models.StatusPending {
		return common.NewBadRequest("items can only be removed from PENDING orders, current status is %s", order.Status)
	}

	newTotal := order.TotalValue - item.TotalValue
	return s.itemRepo.DeleteItemWithStock(ctx, item, newTotal)
}

func (s *orderItemService) loadOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.orderRepo.GetOrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.NewNotFound("Order", "id", orderID)
		}
		return nil, err
	}
	return order, nil
}
