package main

import (
	"context"
	"log"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"pedidos/internal/config"
	"pedidos/internal/handlers"
	"pedidos/internal/jobs/background"
	"pedidos/internal/ratelimit"
	"pedidos/internal/repositories"
	"pedidos/internal/services"
	"pedidos/pkg/database"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	pool, err := database.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer pool.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer redisClient.Close()

	productRepo := repositories.NewProductRepo(pool)
	orderRepo := repositories.NewOrderRepo(pool)
	itemRepo := repositories.NewOrderItemRepo(pool)

	productService := services.NewProductService(productRepo)
	orderService := services.NewOrderService(orderRepo, productRepo)
	itemService := services.NewOrderItemService(itemRepo, orderRepo, productRepo)

	limiter := ratelimit.NewLimiter(redisClient, cfg.RateLimitRequests, cfg.RateLimitWindow)

	productHandlers := handlers.NewProductHandlers(productService)
	orderHandlers := handlers.NewOrderHandlers(orderService, itemService)
	itemHandlers := handlers.NewOrderItemHandlers(itemService)
	healthHandlers := handlers.NewHealthHandlers(pool, limiter)

	scheduler, err := background.NewScheduler(productService, cfg.LowStockThreshold, cfg.LowStockInterval)
	if err != nil {
		log.Fatalf("scheduler: %v", err)
	}
	if err := scheduler.Start(); err != nil {
		log.Fatalf("scheduler: %v", err)
	}
	defer scheduler.Shutdown()

	e := echo.New()
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(limiter.Middleware())

	e.GET("/health", healthHandlers.Health)
	e.GET("/health/ready", healthHandlers.Ready)

	produtos := e.Group("/api/produtos")
	produtos.POST("", productHandlers.CreateProduct)
	produtos.GET("", productHandlers.ListProducts)
	produtos.GET("/buscar", productHandlers.SearchProducts)
	produtos.GET("/estoque-baixo", productHandlers.ListLowStock)
	produtos.GET("/:id", productHandlers.GetProduct)
	produtos.PUT("/:id", productHandlers.UpdateProduct)
	produtos.PATCH("/:id/estoque", productHandlers.AdjustStock)
	produtos.DELETE("/:id", productHandlers.DeleteProduct)

	pedidos := e.Group("/api/pedidos")
	pedidos.POST("", orderHandlers.CreateOrder)
	pedidos.GET("", orderHandlers.ListOrders)
	pedidos.GET("/cliente", orderHandlers.SearchOrdersByCustomer)
	pedidos.GET("/periodo", orderHandlers.SearchOrdersByPeriod)
	pedidos.GET("/status/:status", orderHandlers.GetOrdersByStatus)
	pedidos.GET("/:id", orderHandlers.GetOrder)
	pedidos.PUT("/:id", orderHandlers.UpdateOrder)
	pedidos.PATCH("/:id/status", orderHandlers.UpdateOrderStatus)
	pedidos.DELETE("/:id", orderHandlers.DeleteOrder)
	pedidos.GET("/:id/itens", orderHandlers.ListOrderItems)
	pedidos.POST("/:id/itens", orderHandlers.AddOrderItem)

	itens := e.Group("/api/itens")
	itens.POST("", itemHandlers.CreateItem)
	itens.GET("", itemHandlers.ListItems)
	itens.GET("/pedido/:pedidoId", itemHandlers.ListItemsByOrder)
	itens.GET("/produto/:produtoId", itemHandlers.ListItemsByProduct)
	itens.GET("/:id", itemHandlers.GetItem)
	itens.PUT("/:id", itemHandlers.UpdateItem)
	itens.DELETE("/:id", itemHandlers.DeleteItem)

	e.Logger.Fatal(e.Start(cfg.HTTPAddr))
}
