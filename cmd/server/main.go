package main

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"

	"github.com/example/bazaar/internal/cache"
	"github.com/example/bazaar/internal/config"
	"github.com/example/bazaar/internal/database"
	"github.com/example/bazaar/internal/handlers"
	"github.com/example/bazaar/internal/routes"
)

func main() {
	cfg := config.Load()
	db := database.Connect(cfg.DatabaseURL)

	store, err := cache.NewRedis(cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		logrus.Fatalf("failed to connect to redis: %v", err)
	}

	app := fiber.New(fiber.Config{
		AppName:      "Bazaar Backend",
		ErrorHandler: handlers.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New())

	routes.Register(app, db, store, cfg)

	logrus.Infof("starting server on :%s", cfg.AppPort)
	if err := app.Listen(":" + cfg.AppPort); err != nil {
		logrus.Fatalf("fiber.Listen error: %v", err)
	}
}
