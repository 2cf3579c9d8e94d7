package main

import (
	"context"
	"flag"
	"log"
	"math/rand"
	"time"

	"crm-service/internal/config"
	"crm-service/internal/repository/postgres"
	"crm-service/internal/seed"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	customers := flag.Int("customers", seed.DefaultOptions.Customers, "number of customers to generate")
	priceDrift := flag.Bool("price-drift", seed.DefaultOptions.PriceDrift, "vary item prices up to 10% around the base price")
	randSeed := flag.Int64("seed", 0, "random seed (0 = time-based)")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("[SEED] No .env file found, relying on system env vars")
	}
	cfg := config.Load()

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	ctx := context.Background()
	pool, err := postgres.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to PostgreSQL: %v", err)
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatalf("failed to apply schema: %v", err)
	}

	if *randSeed == 0 {
		*randSeed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(*randSeed))

	s := seed.New(pool, rng, logger, seed.Options{
		Customers:  *customers,
		PriceDrift: *priceDrift,
	})
	if err := s.Run(ctx); err != nil {
		log.Fatalf("seeding failed: %v", err)
	}
}
