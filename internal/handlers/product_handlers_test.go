package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"pedidos/internal/common"
	"pedidos/internal/models"
)

type MockProductService struct {
	mock.Mock
}

func (m *MockProductService) CreateProduct(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductService) GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductService) UpdateProduct(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductService) ListProducts(ctx context.Context, limit, offset int) ([]*models.Product, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]*models.Product), args.Error(1)
}

func (m *MockProductService) SearchProductsByName(ctx context.Context, name string, limit, offset int) ([]*models.Product, error) {
	args := m.Called(ctx, name, limit, offset)
	return args.Get(0).([]*models.Product), args.Error(1)
}

func (m *MockProductService) ListLowStock(ctx context.Context, threshold int) ([]*models.Product, error) {
	args := m.Called(ctx, threshold)
	return args.Get(0).([]*models.Product), args.Error(1)
}

func (m *MockProductService) DecrementStock(ctx context.Context, id uuid.UUID, quantity int) error {
	args := m.Called(ctx, id, quantity)
	return args.Error(0)
}

func (m *MockProductService) RestoreStock(ctx context.Context, id uuid.UUID, quantity int) error {
	args := m.Called(ctx, id, quantity)
	return args.Error(0)
}

type ProductHandlersTestSuite struct {
	suite.Suite
	mockService *MockProductService
	handlers    *ProductHandlers
	echo        *echo.Echo
	productID   uuid.UUID
}

func (suite *ProductHandlersTestSuite) SetupTest() {
	suite.mockService = &MockProductService{}
	suite.handlers = NewProductHandlers(suite.mockService)
	suite.echo = echo.New()
	suite.productID = uuid.New()
}

func (suite *ProductHandlersTestSuite) TearDownTest() {
	suite.mockService.AssertExpectations(suite.T())
}

func TestProductHandlersTestSuite(t *testing.T) {
	suite.Run(t, new(ProductHandlersTestSuite))
}

func (suite *ProductHandlersTestSuite) TestCreateProduct_Success() {
	body := `{"nome":"Teclado Mecânico","preco":250.0,"quantidadeEstoque":30}`
	req := httptest.NewRequest(http.MethodPost, "/api/produtos", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := suite.echo.NewContext(req, rec)

	suite.mockService.On("CreateProduct", mock.Anything, mock.AnythingOfType("*models.Product")).
		Return(nil).
		Run(func(args mock.Arguments) {
			product := args.Get(1).(*models.Product)
			assert.Equal(suite.T(), "Teclado Mecânico", product.Name)
			assert.Equal(suite.T(), 250.0, product.Price)
			assert.Equal(suite.T(), 30, product.StockQuantity)
		}).Once()

	err := suite.handlers.CreateProduct(c)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), http.StatusCreated, rec.Code)
}

func (suite *ProductHandlersTestSuite) TestCreateProduct_ValidationError() {
	body := `{"preco":250.0}`
	req := httptest.NewRequest(http.MethodPost, "/api/produtos", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := suite.echo.NewContext(req, rec)

	suite.mockService.On("CreateProduct", mock.Anything, mock.AnythingOfType("*models.Product")).
		Return(common.NewBadRequest("product name is required")).Once()

	err := suite.handlers.CreateProduct(c)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), http.StatusBadRequest, rec.Code)

	var errBody common.ErrorBody
	assert.NoError(suite.T(), json.Unmarshal(rec.Body.Bytes(), &errBody))
	assert.Equal(suite.T(), "product name is required", errBody.Message)
	assert.Equal(suite.T(), http.StatusBadRequest, errBody.Status)
}

func (suite *ProductHandlersTestSuite) TestGetProduct_Success() {
	expected := &models.Product{ID: suite.productID, Name: "Monitor", Price: 1200.0, StockQuantity: 5}

	req := httptest.NewRequest(http.MethodGet, "/api/produtos/"+suite.productID.String(), nil)
	rec := httptest.NewRecorder()
	c := suite.echo.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(suite.productID.String())

	suite.mockService.On("GetProductByID", mock.Anything, suite.productID).Return(expected, nil).Once()

	err := suite.handlers.GetProduct(c)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), http.StatusOK, rec.Code)

	var product models.Product
	assert.NoError(suite.T(), json.Unmarshal(rec.Body.Bytes(), &product))
	assert.Equal(suite.T(), "Monitor", product.Name)
	assert.Equal(suite.T(), 5, product.StockQuantity)
}

func (suite *ProductHandlersTestSuite) TestGetProduct_NotFound() {
	req := httptest.NewRequest(http.MethodGet, "/api/produtos/"+suite.productID.String(), nil)
	rec := httptest.NewRecorder()
	c := suite.echo.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(suite.productID.String())

	suite.mockService.On("GetProductByID", mock.Anything, suite.productID).
		Return(nil, common.NewNotFound("Product", "id", suite.productID)).Once()

	err := suite.handlers.GetProduct(c)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), http.StatusNotFound, rec.Code)
}

func (suite *ProductHandlersTestSuite) TestGetProduct_InvalidUUID() {
	req := httptest.NewRequest(http.MethodGet, "/api/produtos/abc", nil)
	rec := httptest.NewRecorder()
	c := suite.echo.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("abc")

	err := suite.handlers.GetProduct(c)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), http.StatusBadRequest, rec.Code)
}

func (suite *ProductHandlersTestSuite) TestListProducts_SearchByName() {
	expected := []*models.Product{{ID: uuid.New(), Name: "Monitor"}}

	req := httptest.NewRequest(http.MethodGet, "/api/produtos?nome=monitor&limit=10", nil)
	rec := httptest.NewRecorder()
	c := suite.echo.NewContext(req, rec)

	suite.mockService.On("SearchProductsByName", mock.Anything, "monitor", 10, 0).Return(expected, nil).Once()

	err := suite.handlers.ListProducts(c)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), http.StatusOK, rec.Code)
}

func (suite *ProductHandlersTestSuite) TestListProducts_EmptyResultIsJSONArray() {
	req := httptest.NewRequest(http.MethodGet, "/api/produtos", nil)
	rec := httptest.NewRecorder()
	c := suite.echo.NewContext(req, rec)

	suite.mockService.On("ListProducts", mock.Anything, 50, 0).Return([]*models.Product(nil), nil).Once()

	err := suite.handlers.ListProducts(c)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), http.StatusOK, rec.Code)
	assert.Equal(suite.T(), "[]\n", rec.Body.String())
}

func (suite *ProductHandlersTestSuite) TestDeleteProduct_Success() {
	req := httptest.NewRequest(http.MethodDelete, "/api/produtos/"+suite.productID.String(), nil)
	rec := httptest.NewRecorder()
	c := suite.echo.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(suite.productID.String())

	suite.mockService.On("DeleteProduct", mock.Anything, suite.productID).Return(nil).Once()

	err := suite.handlers.DeleteProduct(c)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), http.StatusNoContent, rec.Code)
}

func (suite *ProductHandlersTestSuite) TestAdjustStock_Decrement() {
	body := `{"quantidade":-2}`
	req := httptest.NewRequest(http.MethodPatch, "/api/produtos/"+suite.productID.String()+"/estoque", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := suite.echo.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(suite.productID.String())

	updated := &models.Product{ID: suite.productID, Name: "Monitor", Price: 1200.0, StockQuantity: 3}
	suite.mockService.On("DecrementStock", mock.Anything, suite.productID, 2).Return(nil).Once()
	suite.mockService.On("GetProductByID", mock.Anything, suite.productID).Return(updated, nil).Once()

	err := suite.handlers.AdjustStock(c)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), http.StatusOK, rec.Code)

	var product models.Product
	assert.NoError(suite.T(), json.Unmarshal(rec.Body.Bytes(), &product))
	assert.Equal(suite.T(), 3, product.StockQuantity)
}

func (suite *ProductHandlersTestSuite) TestAdjustStock_Restock() {
	body := `{"quantidade":4}`
	req := httptest.NewRequest(http.MethodPatch, "/api/produtos/"+suite.productID.String()+"/estoque", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := suite.echo.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(suite.productID.String())

	updated := &models.Product{ID: suite.productID, Name: "Monitor", Price: 1200.0, StockQuantity: 9}
	suite.mockService.On("RestoreStock", mock.Anything, suite.productID, 4).Return(nil).Once()
	suite.mockService.On("GetProductByID", mock.Anything, suite.productID).Return(updated, nil).Once()

	err := suite.handlers.AdjustStock(c)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), http.StatusOK, rec.Code)
}

func (suite *ProductHandlersTestSuite) TestAdjustStock_ZeroQuantity() {
	body := `{"quantidade":0}`
	req := httptest.NewRequest(http.MethodPatch, "/api/produtos/"+suite.productID.String()+"/estoque", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := suite.echo.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(suite.productID.String())

	err := suite.handlers.AdjustStock(c)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), http.StatusBadRequest, rec.Code)
}

func (suite *ProductHandlersTestSuite) TestAdjustStock_InsufficientStock() {
	body := `{"quantidade":-15}`
	req := httptest.NewRequest(http.MethodPatch, "/api/produtos/"+suite.productID.String()+"/estoque", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := suite.echo.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(suite.productID.String())

	suite.mockService.On("DecrementStock", mock.Anything, suite.productID, 15).
		Return(common.NewBadRequest("insufficient stock for product Monitor: available 10, requested 15")).Once()

	err := suite.handlers.AdjustStock(c)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), http.StatusBadRequest, rec.Code)
}

func (suite *ProductHandlersTestSuite) TestListLowStock_InvalidThreshold() {
	req := httptest.NewRequest(http.MethodGet, "/api/produtos/estoque-baixo?limite=abc", nil)
	rec := httptest.NewRecorder()
	c := suite.echo.NewContext(req, rec)

	err := suite.handlers.ListLowStock(c)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), http.StatusBadRequest, rec.Code)
}
