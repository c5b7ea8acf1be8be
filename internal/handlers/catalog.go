package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/bazaar/internal/models"
	"github.com/example/bazaar/internal/policy"
	"github.com/example/bazaar/internal/utils"
)

// CatalogHandler manages categories. Categories are platform-owned:
// listing is public, everything else requires a superuser.
type CatalogHandler struct {
	db *gorm.DB
}

// NewCatalogHandler constructs CatalogHandler.
func NewCatalogHandler(db *gorm.DB) *CatalogHandler {
	return &CatalogHandler{db: db}
}

var categoryListPolicy = policy.Any(policy.AnonymousReadOnly, policy.Superuser)

// ListCategories returns paginated categories.
func (h *CatalogHandler) ListCategories(c *fiber.Ctx) error {
	if err := authorize(c, categoryListPolicy, nil); err != nil {
		return err
	}

	page := utils.ParsePage(c)

	var total int64
	if err := h.db.Model(&models.Category{}).Count(&total).Error; err != nil {
		return err
	}

	var categories []models.Category
	if err := h.db.Limit(utils.PageSize).Offset(utils.Offset(page)).
		Order("created_at desc").
		Find(&categories).Error; err != nil {
		return err
	}

	return c.JSON(utils.NewPage(c, page, total, categories))
}

type categoryRequest struct {
	Name string `json:"name"`
}

// CreateCategory persists a new category.
func (h *CatalogHandler) CreateCategory(c *fiber.Ctx) error {
	if err := authorize(c, policy.Superuser, nil); err != nil {
		return err
	}

	var req categoryRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Name == "" {
		return fiber.NewError(fiber.StatusBadRequest, "name is required")
	}

	category := models.Category{Name: req.Name}
	if err := h.db.Create(&category).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(category)
}

// GetCategory returns a single category by ID.
func (h *CatalogHandler) GetCategory(c *fiber.Ctx) error {
	if err := authorize(c, policy.Superuser, nil); err != nil {
		return err
	}

	category, err := h.loadCategory(c)
	if err != nil {
		return err
	}

	return c.JSON(category)
}

// UpdateCategory renames an existing category.
func (h *CatalogHandler) UpdateCategory(c *fiber.Ctx) error {
	if err := authorize(c, policy.Superuser, nil); err != nil {
		return err
	}

	category, err := h.loadCategory(c)
	if err != nil {
		return err
	}

	var req categoryRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Name == "" {
		return fiber.NewError(fiber.StatusBadRequest, "name is required")
	}

	if err := h.db.Model(category).Update("name", req.Name).Error; err != nil {
		return err
	}

	return c.JSON(category)
}

// DeleteCategory removes a category by ID.
func (h *CatalogHandler) DeleteCategory(c *fiber.Ctx) error {
	if err := authorize(c, policy.Superuser, nil); err != nil {
		return err
	}

	category, err := h.loadCategory(c)
	if err != nil {
		return err
	}

	if err := h.db.Delete(category).Error; err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *CatalogHandler) loadCategory(c *fiber.Ctx) (*models.Category, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var category models.Category
	if err := h.db.First(&category, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fiber.NewError(fiber.StatusNotFound, "category not found")
		}
		return nil, err
	}

	return &category, nil
}
