package background

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"

	"pedidos/internal/services"
)

// Scheduler runs the periodic background jobs of the service.
type Scheduler struct {
	scheduler         gocron.Scheduler
	productService    services.ProductService
	lowStockThreshold int
	sweepInterval     time.Duration
}

func NewScheduler(productService services.ProductService, lowStockThreshold int, sweepInterval time.Duration) (*Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}
	return &Scheduler{
		scheduler:         s,
		productService:    productService,
		lowStockThreshold: lowStockThreshold,
		sweepInterval:     sweepInterval,
	}, nil
}

// Start registers the jobs and begins running them.
func (s *Scheduler) Start() error {
	_, err := s.scheduler.NewJob(
		gocron.DurationJob(s.sweepInterval),
		gocron.NewTask(s.sweepLowStock),
		gocron.WithName("low-stock-sweep"),
	)
	if err != nil {
		return err
	}
	s.scheduler.Start()
	return nil
}

// Shutdown stops the scheduler and waits for running jobs to finish.
func (s *Scheduler) Shutdown() error {
	return s.scheduler.Shutdown()
}

// sweepLowStock logs every product at or below the configured threshold so
// operators can restock before orders start failing.
func (s *Scheduler) sweepLowStock() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	products, err := s.productService.ListLowStock(ctx, s.lowStockThreshold)
	if err != nil {
		log.Printf("low-stock sweep failed: %v", err)
		return
	}
	for _, p := range products {
		log.Printf("low stock: product %s (%s) has %d units left", p.Name, p.ID, p.StockQuantity)
	}
}
