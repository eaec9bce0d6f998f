package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"pedidos/internal/common"
	"pedidos/internal/models"
	"pedidos/internal/services"
)

type OrderItemHandlers struct {
	itemService services.OrderItemService
}

func NewOrderItemHandlers(itemService services.OrderItemService) *OrderItemHandlers {
	return &OrderItemHandlers{itemService: itemService}
}

func (h *OrderItemHandlers) GetItem(c echo.Context) error {
	id, err := common.ParseUUIDParam(c.Param("id"), "item id")
	if err != nil {
		return common.RespondError(c, err)
	}
	item, err := h.itemService.GetItemByID(c.Request().Context(), id)
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, item)
}

// ListItems returns a page of order lines. A produtoId query parameter
// narrows the page to lines referencing that product.
func (h *OrderItemHandlers) ListItems(c echo.Context) error {
	limit, offset := pageParams(c)
	ctx := c.Request().Context()

	var (
		items []*models.OrderItem
		err   error
	)
	if raw := c.QueryParam("produtoId"); raw != "" {
		productID, perr := common.ParseUUIDParam(raw, "produtoId")
		if perr != nil {
			return common.RespondError(c, perr)
		}
		items, err = h.itemService.ListItemsByProduct(ctx, productID, limit, offset)
	} else {
		items, err = h.itemService.ListItems(ctx, limit, offset)
	}
	if err != nil {
		return common.RespondError(c, err)
	}
	if items == nil {
		items = []*models.OrderItem{}
	}
	return c.JSON(http.StatusOK, items)
}

// CreateItem adds a line to an existing order: POST /api/itens with
// {pedidoId, produtoId, quantidade}.
func (h *OrderItemHandlers) CreateItem(c echo.Context) error {
	var req struct {
		OrderID   uuid.UUID `json:"pedidoId"`
		ProductID uuid.UUID `json:"produtoId"`
		Quantity  int       `json:"quantidade"`
	}
	if err := c.Bind(&req); err != nil {
		return common.RespondError(c, common.NewBadRequest("invalid request body"))
	}
	if req.OrderID == uuid.Nil {
		return common.RespondError(c, common.NewBadRequest("pedidoId is required"))
	}
	item, err := h.itemService.AddItem(c.Request().Context(), req.OrderID,
		models.OrderItemRequest{ProductID: req.ProductID, Quantity: req.Quantity})
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusCreated, item)
}

// ListItemsByOrder serves /api/itens/pedido/:pedidoId.
func (h *OrderItemHandlers) ListItemsByOrder(c echo.Context) error {
	orderID, err := common.ParseUUIDParam(c.Param("pedidoId"), "pedidoId")
	if err != nil {
		return common.RespondError(c, err)
	}
	items, err := h.itemService.ListItemsByOrder(c.Request().Context(), orderID)
	if err != nil {
		return common.RespondError(c, err)
	}
	if items == nil {
		items = []*models.OrderItem{}
	}
	return c.JSON(http.StatusOK, items)
}

// ListItemsByProduct serves /api/itens/produto/:produtoId.
func (h *OrderItemHandlers) ListItemsByProduct(c echo.Context) error {
	productID, err := common.ParseUUIDParam(c.Param("produtoId"), "produtoId")
	if err != nil {
		return common.RespondError(c, err)
	}
	limit, offset := pageParams(c)
	items, err := h.itemService.ListItemsByProduct(c.Request().Context(), productID, limit, offset)
	if err != nil {
		return common.RespondError(c, err)
	}
	if items == nil {
		items = []*models.OrderItem{}
	}
	return c.JSON(http.StatusOK, items)
}

func (h *OrderItemHandlers) UpdateItem(c echo.Context) error {
	id, err := common.ParseUUIDParam(c.Param("id"), "item id")
	if err != nil {
		return common.RespondError(c, err)
	}
	var req struct {
		Quantity int `json:"quantidade"`
	}
	if err := c.Bind(&req); err != nil {
		return common.RespondError(c, common.NewBadRequest("invalid request body"))
	}
	item, err := h.itemService.UpdateItemQuantity(c.Request().Context(), id, req.Quantity)
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, item)
}

func (h *OrderItemHandlers) DeleteItem(c echo.Context) error {
	id, err := common.ParseUUIDParam(c.Param("id"), "item id")
	if err != nil {
		return common.RespondError(c, err)
	}
	if err := h.itemService.DeleteItem(c.Request().Context(), id); err != nil {
		return common.RespondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
