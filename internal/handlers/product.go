package handlers

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/bazaar/internal/cache"
	"github.com/example/bazaar/internal/middleware"
	"github.com/example/bazaar/internal/models"
	"github.com/example/bazaar/internal/policy"
	"github.com/example/bazaar/internal/utils"
)

const (
	productListCacheKey = "product_list"
	productListCacheTTL = 15 * time.Minute
)

var (
	productPolicy       = policy.Any(policy.Owner, policy.AnonymousReadOnly, policy.Staff)
	productMutatePolicy = policy.Any(policy.Owner, policy.Staff)
)

// ProductHandler manages product listings.
type ProductHandler struct {
	db    *gorm.DB
	cache cache.Cache
}

// NewProductHandler constructs ProductHandler.
func NewProductHandler(db *gorm.DB, c cache.Cache) *ProductHandler {
	return &ProductHandler{db: db, cache: c}
}

// ListProducts returns one page of products.
//
// The response is cached under a single fixed key for 15 minutes. The key is
// not parameterized by page and no mutation invalidates it, so within the
// TTL every request gets whatever page was cached first.
func (h *ProductHandler) ListProducts(c *fiber.Ctx) error {
	if cached, err := h.cache.Get(c.Context(), productListCacheKey); err == nil {
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.SendString(cached)
	} else if !errors.Is(err, cache.ErrMiss) {
		return err
	}

	page := utils.ParsePage(c)

	var total int64
	if err := h.db.Model(&models.Product{}).Count(&total).Error; err != nil {
		return err
	}

	var products []models.Product
	if err := h.db.Preload("Category").Preload("Reviews").
		Limit(utils.PageSize).Offset(utils.Offset(page)).
		Order("created_at desc").
		Find(&products).Error; err != nil {
		return err
	}

	envelope := utils.NewPage(c, page, total, products)
	body, err := json.Marshal(envelope)
	if err != nil {
		return err
	}

	if err := h.cache.Set(c.Context(), productListCacheKey, string(body), productListCacheTTL); err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(body)
}

// GetProduct loads a product with its category and reviews.
func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var product models.Product
	if err := h.db.Preload("Category").Preload("Reviews").
		First(&product, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "product not found")
		}
		return err
	}

	return c.JSON(product)
}

type productRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	CategoryID  string  `json:"category_id"`
}

// CreateProduct creates a listing owned by the acting user.
func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	if err := authorize(c, productPolicy, nil); err != nil {
		return err
	}

	var req productRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	categoryID, err := h.resolveCategory(req)
	if err != nil {
		return err
	}

	actor := middleware.CurrentUser(c)
	product := models.Product{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		CategoryID:  categoryID,
		OwnerID:     actor.ID,
	}

	if err := h.db.Create(&product).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(product)
}

// UpdateProduct updates a listing. The owner is never reassigned.
func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	product, err := h.loadProduct(c)
	if err != nil {
		return err
	}

	if err := authorize(c, productMutatePolicy, &product.OwnerID); err != nil {
		return err
	}

	var req productRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	categoryID, err := h.resolveCategory(req)
	if err != nil {
		return err
	}

	updates := map[string]interface{}{
		"title":       req.Title,
		"description": req.Description,
		"price":       req.Price,
		"category_id": categoryID,
	}
	if err := h.db.Model(product).Updates(updates).Error; err != nil {
		return err
	}

	return c.JSON(product)
}

// DeleteProduct removes a listing and its reviews.
func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	product, err := h.loadProduct(c)
	if err != nil {
		return err
	}

	if err := authorize(c, productMutatePolicy, &product.OwnerID); err != nil {
		return err
	}

	if err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", product.ID).Delete(&models.Review{}).Error; err != nil {
			return err
		}
		return tx.Delete(product).Error
	}); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// ListMyProducts returns the acting user's own listings.
func (h *ProductHandler) ListMyProducts(c *fiber.Ctx) error {
	if err := authorize(c, productMutatePolicy, nil); err != nil {
		return err
	}

	actor := middleware.CurrentUser(c)
	page := utils.ParsePage(c)

	var total int64
	if err := h.db.Model(&models.Product{}).Where("owner_id = ?", actor.ID).
		Count(&total).Error; err != nil {
		return err
	}

	var products []models.Product
	if err := h.db.Where("owner_id = ?", actor.ID).Preload("Category").
		Limit(utils.PageSize).Offset(utils.Offset(page)).
		Order("created_at desc").
		Find(&products).Error; err != nil {
		return err
	}

	return c.JSON(utils.NewPage(c, page, total, products))
}

// ListProductsWithReviews returns one page of products with their reviews
// nested. Unlike ListProducts this path is never cached.
func (h *ProductHandler) ListProductsWithReviews(c *fiber.Ctx) error {
	page := utils.ParsePage(c)

	var total int64
	if err := h.db.Model(&models.Product{}).Count(&total).Error; err != nil {
		return err
	}

	var products []models.Product
	if err := h.db.Preload("Category").Preload("Reviews").
		Limit(utils.PageSize).Offset(utils.Offset(page)).
		Order("created_at desc").
		Find(&products).Error; err != nil {
		return err
	}

	return c.JSON(utils.NewPage(c, page, total, products))
}

func (h *ProductHandler) loadProduct(c *fiber.Ctx) (*models.Product, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var product models.Product
	if err := h.db.First(&product, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fiber.NewError(fiber.StatusNotFound, "product not found")
		}
		return nil, err
	}

	return &product, nil
}

func (h *ProductHandler) resolveCategory(req productRequest) (uuid.UUID, error) {
	if req.Title == "" {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "title is required")
	}

	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "invalid category_id")
	}

	var category models.Category
	if err := h.db.First(&category, "id = ?", categoryID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "invalid category_id")
		}
		return uuid.Nil, err
	}

	return categoryID, nil
}
