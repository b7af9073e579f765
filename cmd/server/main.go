package main

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"

	"github.com/example/kiri/internal/catalog"
	"github.com/example/kiri/internal/config"
	"github.com/example/kiri/internal/database"
	"github.com/example/kiri/internal/money"
	"github.com/example/kiri/internal/routes"
	"github.com/example/kiri/internal/session"
)

func main() {
	cfg := config.Load()
	money.SetExchangeRate(cfg.ExchangeRateKHR)

	db := database.Connect(cfg.DatabaseURL)

	if err := catalog.Seed(db); err != nil {
		log.Printf("Catalog seed failed: %v", err)
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatalf("redis.ParseURL error: %v", err)
	}
	sess := session.NewStore(redis.NewClient(opts), cfg.SessionTTL)
	if err := sess.Ping(context.Background()); err != nil {
		log.Printf("Redis warm-up failed: %v", err)
	}

	app := fiber.New(fiber.Config{
		AppName: "Kiri Coffee Backend",
	})

	app.Use(recover.New())
	app.Use(logger.New())

	routes.Register(app, db, sess, cfg)

	log.Printf("Starting server on :%s", cfg.AppPort)
	if err := app.Listen(":" + cfg.AppPort); err != nil {
		log.Fatalf("fiber.Listen error: %v", err)
	}
}
