package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/bazaar/internal/cache"
	"github.com/example/bazaar/internal/config"
	"github.com/example/bazaar/internal/handlers"
	"github.com/example/bazaar/internal/middleware"
	"github.com/example/bazaar/internal/verification"
)

// Register wires up all HTTP routes.
func Register(app *fiber.App, db *gorm.DB, store cache.Cache, cfg *config.Config) {
	codes := verification.NewStore(store)

	authHandler := handlers.NewAuthHandler(db, cfg, codes)
	oauthHandler := handlers.NewOAuthHandler(db, cfg)
	catalogHandler := handlers.NewCatalogHandler(db)
	productHandler := handlers.NewProductHandler(db, store)
	reviewHandler := handlers.NewReviewHandler(db)

	api := app.Group("/api/v1", middleware.Authenticate(db, cfg))

	// User routes
	users := api.Group("/users")
	users.Post("/registration", authHandler.Register)
	users.Post("/authorization", authHandler.Authorize)
	users.Post("/confirm", authHandler.Confirm)
	users.Post("/token", authHandler.TokenPair)
	users.Post("/token/refresh", authHandler.TokenRefresh)
	users.Post("/google-login", oauthHandler.GoogleLogin)

	// Product routes. Static segments before the id parameter.
	products := api.Group("/products")
	products.Get("/categories", catalogHandler.ListCategories)
	products.Post("/categories", catalogHandler.CreateCategory)
	products.Get("/categories/:id", catalogHandler.GetCategory)
	products.Put("/categories/:id", catalogHandler.UpdateCategory)
	products.Delete("/categories/:id", catalogHandler.DeleteCategory)
	products.Get("/reviews", productHandler.ListProductsWithReviews)
	products.Get("/my", productHandler.ListMyProducts)
	products.Get("/", productHandler.ListProducts)
	products.Post("/", productHandler.CreateProduct)
	products.Get("/:id", productHandler.GetProduct)
	products.Put("/:id", productHandler.UpdateProduct)
	products.Delete("/:id", productHandler.DeleteProduct)

	// Review routes
	reviews := api.Group("/reviews")
	reviews.Get("/", reviewHandler.ListReviews)
	reviews.Post("/", reviewHandler.CreateReview)
	reviews.Get("/:id", reviewHandler.GetReview)
	reviews.Put("/:id", reviewHandler.UpdateReview)
	reviews.Delete("/:id", reviewHandler.DeleteReview)
}
