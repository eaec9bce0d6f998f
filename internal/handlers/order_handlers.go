package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"pedidos/internal/common"
	"pedidos/internal/models"
	"pedidos/internal/services"
)

type OrderHandlers struct {
	orderService services.OrderService
	itemService  services.OrderItemService
}

func NewOrderHandlers(orderService services.OrderService, itemService services.OrderItemService) *OrderHandlers {
	return &OrderHandlers{orderService: orderService, itemService: itemService}
}

func (h *OrderHandlers) CreateOrder(c echo.Context) error {
	var req models.OrderRequest
	if err := c.Bind(&req); err != nil {
		return common.RespondError(c, common.NewBadRequest("invalid request body"))
	}
	order, err := h.orderService.CreateOrder(c.Request().Context(), &req)
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusCreated, order)
}

func (h *OrderHandlers) GetOrder(c echo.Context) error {
	id, err := common.ParseUUIDParam(c.Param("id"), "order id")
	if err != nil {
		return common.RespondError(c, err)
	}
	order, err := h.orderService.GetOrderByID(c.Request().Context(), id)
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, order)
}

// ListOrders returns a page of orders. cliente narrows by customer name,
// status by lifecycle state, and inicio/fim by order date range. The filters
// are mutually exclusive; the first one present wins.
func (h *OrderHandlers) ListOrders(c echo.Context) error {
	limit, offset := pageParams(c)
	ctx := c.Request().Context()

	var (
		orders []*models.Order
		err    error
	)
	switch {
	case c.QueryParam("cliente") != "":
		orders, err = h.orderService.SearchOrdersByCustomer(ctx, c.QueryParam("cliente"), limit, offset)
	case c.QueryParam("status") != "":
		orders, err = h.orderService.GetOrdersByStatus(ctx, c.QueryParam("status"), limit, offset)
	case c.QueryParam("inicio") != "" || c.QueryParam("fim") != "":
		from, perr := common.ParseDateTimeParam(c.QueryParam("inicio"), "inicio")
		if perr != nil {
			return common.RespondError(c, perr)
		}
		to, perr := common.ParseDateTimeParam(c.QueryParam("fim"), "fim")
		if perr != nil {
			return common.RespondError(c, perr)
		}
		orders, err = h.orderService.GetOrdersByDateRange(ctx, from, to, limit, offset)
	default:
		orders, err = h.orderService.ListOrders(ctx, limit, offset)
	}
	if err != nil {
		return common.RespondError(c, err)
	}
	if orders == nil {
		orders = []*models.Order{}
	}
	return c.JSON(http.StatusOK, orders)
}

// SearchOrdersByCustomer serves /api/pedidos/cliente?cliente=.
func (h *OrderHandlers) SearchOrdersByCustomer(c echo.Context) error {
	limit, offset := pageParams(c)
	orders, err := h.orderService.SearchOrdersByCustomer(c.Request().Context(), c.QueryParam("cliente"), limit, offset)
	if err != nil {
		return common.RespondError(c, err)
	}
	if orders == nil {
		orders = []*models.Order{}
	}
	return c.JSON(http.StatusOK, orders)
}

// SearchOrdersByPeriod serves /api/pedidos/periodo?inicio=&fim= with ISO-8601
// bounds.
func (h *OrderHandlers) SearchOrdersByPeriod(c echo.Context) error {
	limit, offset := pageParams(c)
	from, err := common.ParseDateTimeParam(c.QueryParam("inicio"), "inicio")
	if err != nil {
		return common.RespondError(c, err)
	}
	to, err := common.ParseDateTimeParam(c.QueryParam("fim"), "fim")
	if err != nil {
		return common.RespondError(c, err)
	}
	orders, err := h.orderService.GetOrdersByDateRange(c.Request().Context(), from, to, limit, offset)
	if err != nil {
		return common.RespondError(c, err)
	}
	if orders == nil {
		orders = []*models.Order{}
	}
	return c.JSON(http.StatusOK, orders)
}

// GetOrdersByStatus serves /api/pedidos/status/:status.
func (h *OrderHandlers) GetOrdersByStatus(c echo.Context) error {
	limit, offset := pageParams(c)
	orders, err := h.orderService.GetOrdersByStatus(c.Request().Context(), c.Param("status"), limit, offset)
	if err != nil {
		return common.RespondError(c, err)
	}
	if orders == nil {
		orders = []*models.Order{}
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHandlers) UpdateOrder(c echo.Context) error {
	id, err := common.ParseUUIDParam(c.Param("id"), "order id")
	if err != nil {
		return common.RespondError(c, err)
	}
	var req models.OrderRequest
	if err := c.Bind(&req); err != nil {
		return common.RespondError(c, common.NewBadRequest("invalid request body"))
	}
	order, err := h.orderService.UpdateOrder(c.Request().Context(), id, &req)
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, order)
}

// UpdateOrderStatus reads the target status from the status query parameter,
// falling back to a {"status": ...} body.
func (h *OrderHandlers) UpdateOrderStatus(c echo.Context) error {
	id, err := common.ParseUUIDParam(c.Param("id"), "order id")
	if err != nil {
		return common.RespondError(c, err)
	}
	status := c.QueryParam("status")
	if status == "" {
		var req struct {
			Status string `json:"status"`
		}
		if err := c.Bind(&req); err != nil {
			return common.RespondError(c, common.NewBadRequest("invalid request body"))
		}
		status = req.Status
	}
	order, err := h.orderService.UpdateOrderStatus(c.Request().Context(), id, status)
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHandlers) DeleteOrder(c echo.Context) error {
	id, err := common.ParseUUIDParam(c.Param("id"), "order id")
	if err != nil {
		return common.RespondError(c, err)
	}
	if err := h.orderService.DeleteOrder(c.Request().Context(), id); err != nil {
		return common.RespondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *OrderHandlers) ListOrderItems(c echo.Context) error {
	id, err := common.ParseUUIDParam(c.Param("id"), "order id")
	if err != nil {
		return common.RespondError(c, err)
	}
	items, err := h.itemService.ListItemsByOrder(c.Request().Context(), id)
	if err != nil {
		return common.RespondError(c, err)
	}
	if items == nil {
		items = []*models.OrderItem{}
	}
	return c.JSON(http.StatusOK, items)
}

func (h *OrderHandlers) AddOrderItem(c echo.Context) error {
	id, err := common.ParseUUIDParam(c.Param("id"), "order id")
	if err != nil {
		return common.RespondError(c, err)
	}
	var req models.OrderItemRequest
	if err := c.Bind(&req); err != nil {
		return common.RespondError(c, common.NewBadRequest("invalid request body"))
	}
	item, err := h.itemService.AddItem(c.Request().Context(), id, req)
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusCreated, item)
}
