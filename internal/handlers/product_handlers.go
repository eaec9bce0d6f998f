package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"pedidos/internal/common"
	"pedidos/internal/models"
	"pedidos/internal/services"
)

type ProductHandlers struct {
	productService services.ProductService
}

func NewProductHandlers(productService services.ProductService) *ProductHandlers {
	return &ProductHandlers{productService: productService}
}

func (h *ProductHandlers) CreateProduct(c echo.Context) error {
	var product models.Product
	if err := c.Bind(&product); err != nil {
		return common.RespondError(c, common.NewBadRequest("invalid request body"))
	}
	if err := h.productService.CreateProduct(c.Request().Context(), &product); err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusCreated, product)
}

func (h *ProductHandlers) GetProduct(c echo.Context) error {
	id, err := common.ParseUUIDParam(c.Param("id"), "product id")
	if err != nil {
		return common.RespondError(c, err)
	}
	product, err := h.productService.GetProductByID(c.Request().Context(), id)
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, product)
}

// ListProducts returns a page of the catalog. A nome query parameter narrows
// the page to products whose name contains the given text.
func (h *ProductHandlers) ListProducts(c echo.Context) error {
	limit, offset := pageParams(c)
	name := c.QueryParam("nome")

	var (
		products []*models.Product
		err      error
	)
	if name != "" {
		products, err = h.productService.SearchProductsByName(c.Request().Context(), name, limit, offset)
	} else {
		products, err = h.productService.ListProducts(c.Request().Context(), limit, offset)
	}
	if err != nil {
		return common.RespondError(c, err)
	}
	if products == nil {
		products = []*models.Product{}
	}
	return c.JSON(http.StatusOK, products)
}

// SearchProducts serves /api/produtos/buscar?nome=. An empty nome falls back
// to the plain listing.
func (h *ProductHandlers) SearchProducts(c echo.Context) error {
	return h.ListProducts(c)
}

func (h *ProductHandlers) UpdateProduct(c echo.Context) error {
	id, err := common.ParseUUIDParam(c.Param("id"), "product id")
	if err != nil {
		return common.RespondError(c, err)
	}
	var product models.Product
	if err := c.Bind(&product); err != nil {
		return common.RespondError(c, common.NewBadRequest("invalid request body"))
	}
	product.ID = id
	if err := h.productService.UpdateProduct(c.Request().Context(), &product); err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, product)
}

// AdjustStock serves PATCH /api/produtos/:id/estoque with a signed
// {"quantidade": n}: negative values reserve stock, positive values restock.
func (h *ProductHandlers) AdjustStock(c echo.Context) error {
	id, err := common.ParseUUIDParam(c.Param("id"), "product id")
	if err != nil {
		return common.RespondError(c, err)
	}
	var req struct {
		Quantity int `json:"quantidade"`
	}
	if err := c.Bind(&req); err != nil {
		return common.RespondError(c, common.NewBadRequest("invalid request body"))
	}
	if req.Quantity == 0 {
		return common.RespondError(c, common.NewBadRequest("quantidade must not be zero"))
	}

	ctx := c.Request().Context()
	if req.Quantity < 0 {
		err = h.productService.DecrementStock(ctx, id, -req.Quantity)
	} else {
		err = h.productService.RestoreStock(ctx, id, req.Quantity)
	}
	if err != nil {
		return common.RespondError(c, err)
	}

	product, err := h.productService.GetProductByID(ctx, id)
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, product)
}

func (h *ProductHandlers) DeleteProduct(c echo.Context) error {
	id, err := common.ParseUUIDParam(c.Param("id"), "product id")
	if err != nil {
		return common.RespondError(c, err)
	}
	if err := h.productService.DeleteProduct(c.Request().Context(), id); err != nil {
		return common.RespondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *ProductHandlers) ListLowStock(c echo.Context) error {
	threshold := 10
	if raw := c.QueryParam("limite"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return common.RespondError(c, common.NewBadRequest("limite must be an integer"))
		}
		threshold = parsed
	}
	products, err := h.productService.ListLowStock(c.Request().Context(), threshold)
	if err != nil {
		return common.RespondError(c, err)
	}
	if products == nil {
		products = []*models.Product{}
	}
	return c.JSON(http.StatusOK, products)
}

func pageParams(c echo.Context) (int, int) {
	limit := 50
	offset := 0
	if raw := c.QueryParam("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}
	if raw := c.QueryParam("offset"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			offset = parsed
		}
	}
	return limit, offset
}
