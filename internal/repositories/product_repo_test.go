package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	pgx "github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"pedidos/internal/common"
	"pedidos/internal/models"
)

type ProductRepoTestSuite struct {
	suite.Suite
	mock      pgxmock.PgxPoolIface
	repo      ProductRepository
	productID uuid.UUID
	context   context.Context
}

func (suite *ProductRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock

	suite.repo = NewProductRepo(mock)
	suite.productID = uuid.New()
	suite.context = context.Background()
}

func (suite *ProductRepoTestSuite) TearDownTest() {
	suite.mock.Close()
}

func TestProductRepoTestSuite(t *testing.T) {
	suite.Run(t, new(ProductRepoTestSuite))
}

func productRow(id uuid.UUID, name string, price float64, stock int) *pgxmock.Rows {
	now := time.Now()
	return pgxmock.NewRows([]string{"id", "name", "description", "price", "stock_quantity", "created_at", "updated_at"}).
		AddRow(id, name, nil, price, stock, now, now)
}

func (suite *ProductRepoTestSuite) TestCreateProduct_Success() {
	product := &models.Product{
		ID:            suite.productID,
		Name:          "Teclado Mecânico",
		Price:         250.0,
		StockQuantity: 30,
	}

	now := time.Now()
	suite.mock.ExpectQuery(`
		INSERT INTO products \(id, name, description, price, stock_quantity, created_at, updated_at\)
		VALUES \(\$1, \$2, \$3, \$4, \$5, NOW\(\), NOW\(\)\)
		RETURNING created_at, updated_at
	`).WithArgs(product.ID, product.Name, product.Description, product.Price, product.StockQuantity).
		WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	err := suite.repo.CreateProduct(suite.context, product)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), now, product.CreatedAt)
}

func (suite *ProductRepoTestSuite) TestCreateProduct_DatabaseError() {
	product := &models.Product{ID: suite.productID, Name: "Mouse", Price: 80.0, StockQuantity: 10}

	suite.mock.ExpectQuery(`INSERT INTO products`).
		WithArgs(product.ID, product.Name, product.Description, product.Price, product.StockQuantity).
		WillReturnError(errors.New("database connection failed"))

	err := suite.repo.CreateProduct(suite.context, product)
	assert.Error(suite.T(), err)
	assert.Contains(suite.T(), err.Error(), "database connection failed")
}

func (suite *ProductRepoTestSuite) TestGetProductByID_Success() {
	suite.mock.ExpectQuery(`
		SELECT id, name, description, price, stock_quantity, created_at, updated_at FROM products WHERE id = \$1
	`).WithArgs(suite.productID).
		WillReturnRows(productRow(suite.productID, "Monitor", 1200.0, 5))

	product, err := suite.repo.GetProductByID(suite.context, suite.productID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), suite.productID, product.ID)
	assert.Equal(suite.T(), "Monitor", product.Name)
	assert.Equal(suite.T(), 5, product.StockQuantity)
}

func (suite *ProductRepoTestSuite) TestGetProductByID_NotFound() {
	suite.mock.ExpectQuery(`SELECT id, name, description, price, stock_quantity, created_at, updated_at FROM products WHERE id = \$1`).
		WithArgs(suite.productID).
		WillReturnError(pgx.ErrNoRows)

	product, err := suite.repo.GetProductByID(suite.context, suite.productID)
	assert.Error(suite.T(), err)
	assert.ErrorIs(suite.T(), err, pgx.ErrNoRows)
	assert.Nil(suite.T(), product)
}

func (suite *ProductRepoTestSuite) TestUpdateProduct_Success() {
	product := &models.Product{ID: suite.productID, Name: "Monitor 27", Price: 1400.0, StockQuantity: 8}

	suite.mock.ExpectExec(`
		UPDATE products
		SET name = \$2, description = \$3, price = \$4, stock_quantity = \$5, updated_at = NOW\(\)
		WHERE id = \$1
	`).WithArgs(product.ID, product.Name, product.Description, product.Price, product.StockQuantity).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := suite.repo.UpdateProduct(suite.context, product)
	assert.NoError(suite.T(), err)
}

func (suite *ProductRepoTestSuite) TestUpdateProduct_NotFound() {
	product := &models.Product{ID: suite.productID, Name: "Ghost", Price: 1.0, StockQuantity: 0}

	suite.mock.ExpectExec(`UPDATE products`).
		WithArgs(product.ID, product.Name, product.Description, product.Price, product.StockQuantity).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := suite.repo.UpdateProduct(suite.context, product)
	assert.Error(suite.T(), err)
	assert.True(suite.T(), common.IsNotFound(err))
}

func (suite *ProductRepoTestSuite) TestDeleteProduct_Success() {
	suite.mock.ExpectExec(`DELETE FROM products WHERE id = \$1`).
		WithArgs(suite.productID).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	err := suite.repo.DeleteProduct(suite.context, suite.productID)
	assert.NoError(suite.T(), err)
}

func (suite *ProductRepoTestSuite) TestDeleteProduct_NotFound() {
	suite.mock.ExpectExec(`DELETE FROM products WHERE id = \$1`).
		WithArgs(suite.productID).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := suite.repo.DeleteProduct(suite.context, suite.productID)
	assert.Error(suite.T(), err)
	assert.True(suite.T(), common.IsNotFound(err))
}

func (suite *ProductRepoTestSuite) TestListProducts_Success() {
	now := time.Now()
	rows := pgxmock.NewRows([]string{"id", "name", "description", "price", "stock_quantity", "created_at", "updated_at"}).
		AddRow(uuid.New(), "Cabo HDMI", nil, 35.0, 100, now, now).
		AddRow(uuid.New(), "Webcam", nil, 220.0, 12, now, now)

	suite.mock.ExpectQuery(`SELECT id, name, description, price, stock_quantity, created_at, updated_at FROM products ORDER BY name LIMIT \$1 OFFSET \$2`).
		WithArgs(10, 0).
		WillReturnRows(rows)

	products, err := suite.repo.ListProducts(suite.context, 10, 0)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), products, 2)
	assert.Equal(suite.T(), "Cabo HDMI", products[0].Name)
}

func (suite *ProductRepoTestSuite) TestSearchProductsByName_Success() {
	suite.mock.ExpectQuery(`
		SELECT id, name, description, price, stock_quantity, created_at, updated_at FROM products
		WHERE name ILIKE '%' \|\| \$1 \|\| '%'
		ORDER BY name LIMIT \$2 OFFSET \$3
	`).WithArgs("monitor", 10, 0).
		WillReturnRows(productRow(suite.productID, "Monitor", 1200.0, 5))

	products, err := suite.repo.SearchProductsByName(suite.context, "monitor", 10, 0)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), products, 1)
}

func (suite *ProductRepoTestSuite) TestListLowStock_Success() {
	suite.mock.ExpectQuery(`
		SELECT id, name, description, price, stock_quantity, created_at, updated_at FROM products
		WHERE stock_quantity <= \$1 ORDER BY stock_quantity ASC
	`).WithArgs(10).
		WillReturnRows(productRow(suite.productID, "Webcam", 220.0, 3))

	products, err := suite.repo.ListLowStock(suite.context, 10)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), products, 1)
	assert.Equal(suite.T(), 3, products[0].StockQuantity)
}

func (suite *ProductRepoTestSuite) TestAdjustStock_DecrementSuccess() {
	suite.mock.ExpectExec(`
		UPDATE products
		SET stock_quantity = stock_quantity - \$2, updated_at = NOW\(\)
		WHERE id = \$1 AND stock_quantity >= \$2
	`).WithArgs(suite.productID, 3).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := suite.repo.AdjustStock(suite.context, suite.productID, -3)
	assert.NoError(suite.T(), err)
}

func (suite *ProductRepoTestSuite) TestAdjustStock_InsufficientStock() {
	suite.mock.ExpectExec(`
		UPDATE products
		SET stock_quantity = stock_quantity - \$2, updated_at = NOW\(\)
		WHERE id = \$1 AND stock_quantity >= \$2
	`).WithArgs(suite.productID, 50).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := suite.repo.AdjustStock(suite.context, suite.productID, -50)
	assert.Error(suite.T(), err)
	assert.ErrorIs(suite.T(), err, common.ErrInsufficientStock)
}

func (suite *ProductRepoTestSuite) TestAdjustStock_RestoreSuccess() {
	suite.mock.ExpectExec(`
		UPDATE products
		SET stock_quantity = stock_quantity \+ \$2, updated_at = NOW\(\)
		WHERE id = \$1
	`).WithArgs(suite.productID, 3).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := suite.repo.AdjustStock(suite.context, suite.productID, 3)
	assert.NoError(suite.T(), err)
}

func (suite *ProductRepoTestSuite) TestAdjustStock_RestoreUnknownProduct() {
	suite.mock.ExpectExec(`UPDATE products`).
		WithArgs(suite.productID, 3).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := suite.repo.AdjustStock(suite.context, suite.productID, 3)
	assert.Error(suite.T(), err)
	assert.True(suite.T(), common.IsNotFound(err))
}
