package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"pedidos/internal/common"
	"pedidos/internal/models"
	"pedidos/internal/repositories"
)

type OrderService interface {
	CreateOrder(ctx context.Context, req *models.OrderRequest) (*models.Order, error)
	GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	UpdateOrder(ctx context.Context, id uuid.UUID, req *models.OrderRequest) (*models.Order, error)
	UpdateOrderStatus(ctx context.Context, id uuid.UUID, status string) (*models.Order, error)
	DeleteOrder(ctx context.Context, id uuid.UUID) error
	ListOrders(ctx context.Context, limit, offset int) ([]*models.Order, error)
	SearchOrdersByCustomer(ctx context.Context, customer string, limit, offset int) ([]*models.Order, error)
	GetOrdersByStatus(ctx context.Context, status string, limit, offset int) ([]*models.Order, error)
	GetOrdersByDateRange(ctx context.Context, from, to time.Time, limit, offset int) ([]*models.Order, error)
}

type orderService struct {
	orderRepo   repositories.OrderRepository
	productRepo repositories.ProductRepository
}

func NewOrderService(orderRepo repositories.OrderRepository, productRepo repositories.ProductRepository) OrderService {
	return &orderService{orderRepo: orderRepo, productRepo: productRepo}
}

// CreateOrder validates the request, snapshots the current price of each
// requested product onto its line, and persists the order, items and stock
// decrements in one transaction. The status defaults to PENDING when the
// payload leaves it out.
func (s *orderService) CreateOrder(ctx context.Context, req *models.OrderRequest) (*models.Order, error) {
	if strings.TrimSpace(req.Customer) == "" {
		return nil, common.NewBadRequest("customer is required")
	}
	if len(req.Items) == 0 {
		return nil, common.NewBadRequest("order must have at least one item")
	}

	order := &models.Order{
		ID:       uuid.New(),
		Customer: strings.TrimSpace(req.Customer),
		Notes:    req.Notes,
		Status:   models.StatusPending,
	}
	if req.Status != "" {
		status, ok := models.ParseOrderStatus(strings.ToUpper(strings.TrimSpace(req.Status)))
		if !ok {
			return nil, common.NewBadRequest("invalid status: %s", req.Status)
		}
		order.Status = status
	}
	if req.OrderDate != nil {
		order.OrderDate = *req.OrderDate
	} else {
		order.OrderDate = time.Now()
	}

	for _, line := range req.Items {
		item, err := s.buildItem(ctx, line, nil)
		if err != nil {
			return nil, err
		}
		order.AddItem(item)
	}

	if err := s.orderRepo.CreateOrderWithItems(ctx, order); err != nil {
		if errors.Is(err, common.ErrInsufficientStock) {
			return nil, common.NewBadRequest("insufficient stock for one of the requested products")
		}
		return nil, err
	}
	return order, nil
}

func (s *orderService) GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, err := s.orderRepo.GetOrderByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.NewNotFound("Order", "id", id)
		}
		return nil, err
	}
	return order, nil
}

// UpdateOrder rewrites an order's fields. Only PENDING orders may be edited;
// a status carried in the payload must be a legal transition. When the
// request carries items, the previous lines are released and replaced by the
// new ones. An empty or omitted itens list keeps the existing lines untouched.
func (s *orderService) UpdateOrder(ctx context.Context, id uuid.UUID, req *models.OrderRequest) (*models.Order, error) {
	order, err := s.GetOrderByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.Status != models.StatusPending {
		return nil, common.NewBadRequest("only PENDING orders can be edited, current status is %s", order.Status)
	}
	if strings.TrimSpace(req.Customer) == "" {
		return nil, common.NewBadRequest("customer is required")
	}

	order.Customer = strings.TrimSpace(req.Customer)
	order.Notes = req.Notes
	if req.OrderDate != nil {
		order.OrderDate = *req.OrderDate
	}
	if req.Status != "" {
		next, ok := models.ParseOrderStatus(strings.ToUpper(strings.TrimSpace(req.Status)))
		if !ok {
			return nil, common.NewBadRequest("invalid status: %s", req.Status)
		}
		if next != order.Status {
			if !models.CanTransition(order.Status, next) {
				return nil, common.NewBadRequest("cannot change order status from %s to %s", order.Status, next)
			}
			order.Status = next
		}
	}

	if len(req.Items) == 0 {
		order.RecalculateTotal()
		if err := s.orderRepo.UpdateOrder(ctx, order); err != nil {
			return nil, err
		}
		return order, nil
	}

	// The previous lines are released inside the replacement transaction, so
	// their quantities count as available again when validating the new ones.
	previousItems := order.Items
	credits := make(map[uuid.UUID]int, len(previousItems))
	for _, item := range previousItems {
		credits[item.ProductID] += item.Quantity
	}

	order.ClearItems()
	for _, line := range req.Items {
		item, err := s.buildItem(ctx, line, credits)
		if err != nil {
			return nil, err
		}
		order.AddItem(item)
	}

	if err := s.orderRepo.UpdateOrderWithItems(ctx, order, previousItems); err != nil {
		if errors.Is(err, common.ErrInsufficientStock) {
			return nil, common.NewBadRequest("insufficient stock for one of the requested products")
		}
		return nil, err
	}
	return order, nil
}

// UpdateOrderStatus moves an order through its lifecycle. Transitions are
// restricted to PENDING -> APPROVED/CANCELLED and APPROVED ->
// DELIVERED/CANCELLED; CANCELLED and DELIVERED are terminal. Cancelling does
// not release reserved stock.
func (s *orderService) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status string) (*models.Order, error) {
	next, ok := models.ParseOrderStatus(strings.ToUpper(strings.TrimSpace(status)))
	if !ok {
		return nil, common.NewBadRequest("invalid status: %s", status)
	}

	order, err := s.GetOrderByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !models.CanTransition(order.Status, next) {
		allowed := models.AllowedTransitions(order.Status)
		if len(allowed) == 0 {
			return nil, common.NewBadRequest("order status %s is terminal", order.Status)
		}
		names := make([]string, len(allowed))
		for i, a := range allowed {
			names[i] = string(a)
		}
		return nil, common.NewBadRequest("cannot change order status from %s to %s, allowed: %s",
			order.Status, next, strings.Join(names, ", "))
	}

	order.Status = next
	if err := s.orderRepo.UpdateOrder(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// DeleteOrder removes a PENDING order and releases the stock its items
// reserved. Orders past PENDING keep their history and cannot be deleted.
func (s *orderService) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	order, err := s.GetOrderByID(ctx, id)
	if err != nil {
		return err
	}
	if order.Status != models.StatusPending {
		return common.NewBadRequest("only PENDING orders can be deleted, current status is %s", order.Status)
	}
	return s.orderRepo.DeleteOrderWithItems(ctx, order)
}

func (s *orderService) ListOrders(ctx context.Context, limit, offset int) ([]*models.Order, error) {
	limit, offset = normalizePage(limit, offset)
	return s.orderRepo.ListOrders(ctx, limit, offset)
}

func (s *orderService) SearchOrdersByCustomer(ctx context.Context, customer string, limit, offset int) ([]*models.Order, error) {
	customer = strings.TrimSpace(customer)
	if customer == "" {
		return nil, common.NewBadRequest("customer name is required")
	}
	limit, offset = normalizePage(limit, offset)
	return s.orderRepo.SearchOrdersByCustomer(ctx, customer, limit, offset)
}

func (s *orderService) GetOrdersByStatus(ctx context.Context, status string, limit, offset int) ([]*models.Order, error) {
	parsed, ok := models.ParseOrderStatus(strings.ToUpper(strings.TrimSpace(status)))
	if !ok {
		return nil, common.NewBadRequest("invalid status: %s", status)
	}
	limit, offset = normalizePage(limit, offset)
	return s.orderRepo.GetOrdersByStatus(ctx, parsed, limit, offset)
}

func (s *orderService) GetOrdersByDateRange(ctx context.Context, from, to time.Time, limit, offset int) ([]*models.Order, error) {
	if to.Before(from) {
		return nil, common.NewBadRequest("end of date range must not be before the start")
	}
	limit, offset = normalizePage(limit, offset)
	return s.orderRepo.GetOrdersByDateRange(ctx, from, to, limit, offset)
}

// buildItem validates one requested line against the product catalog and
// stock, then snapshots the product's price onto the new item. credits holds
// per-product quantities about to be released back (the order's own previous
// lines), so a replacement validates against post-restore stock.
func (s *orderService) buildItem(ctx context.Context, line models.OrderItemRequest, credits map[uuid.UUID]int) (*models.OrderItem, error) {
	if line.ProductID == uuid.Nil {
		return nil, common.NewBadRequest("product id is required for every item")
	}
	if line.Quantity <= 0 {
		return nil, common.NewBadRequest("item quantity must be greater than zero")
	}

	product, err := s.productRepo.GetProductByID(ctx, line.ProductID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.NewNotFound("Product", "id", line.ProductID)
		}
		return nil, err
	}
	available := product.StockQuantity + credits[line.ProductID]
	if available < line.Quantity {
		return nil, common.NewBadRequest("insufficient stock for product %s: available %d, requested %d",
			product.Name, available, line.Quantity)
	}

	item := &models.OrderItem{ID: uuid.New()}
	item.SetQuantity(line.Quantity)
	item.SetProduct(product)
	return item, nil
}
