package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/bazaar/internal/middleware"
	"github.com/example/bazaar/internal/models"
	"github.com/example/bazaar/internal/policy"
	"github.com/example/bazaar/internal/utils"
)

var (
	reviewPolicy       = policy.Any(policy.Owner, policy.AnonymousReadOnly, policy.Staff)
	reviewMutatePolicy = policy.Any(policy.Owner, policy.Staff)
)

// ReviewHandler manages product reviews.
type ReviewHandler struct {
	db *gorm.DB
}

// NewReviewHandler constructs ReviewHandler.
func NewReviewHandler(db *gorm.DB) *ReviewHandler {
	return &ReviewHandler{db: db}
}

// ListReviews returns paginated reviews.
func (h *ReviewHandler) ListReviews(c *fiber.Ctx) error {
	page := utils.ParsePage(c)

	var total int64
	if err := h.db.Model(&models.Review{}).Count(&total).Error; err != nil {
		return err
	}

	var reviews []models.Review
	if err := h.db.Limit(utils.PageSize).Offset(utils.Offset(page)).
		Order("created_at desc").
		Find(&reviews).Error; err != nil {
		return err
	}

	return c.JSON(utils.NewPage(c, page, total, reviews))
}

// GetReview returns a single review by ID.
func (h *ReviewHandler) GetReview(c *fiber.Ctx) error {
	review, err := h.loadReview(c)
	if err != nil {
		return err
	}
	return c.JSON(review)
}

type reviewRequest struct {
	Text      string `json:"text"`
	Stars     int    `json:"stars"`
	ProductID string `json:"product_id"`
}

// CreateReview creates a review authored by the acting user.
func (h *ReviewHandler) CreateReview(c *fiber.Ctx) error {
	if err := authorize(c, reviewPolicy, nil); err != nil {
		return err
	}

	var req reviewRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	productID, err := h.validateReview(req)
	if err != nil {
		return err
	}

	actor := middleware.CurrentUser(c)
	review := models.Review{
		Text:      req.Text,
		Stars:     req.Stars,
		ProductID: productID,
		OwnerID:   actor.ID,
	}

	if err := h.db.Create(&review).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(review)
}

// UpdateReview updates a review's text, stars and product. The author is
// never reassigned.
func (h *ReviewHandler) UpdateReview(c *fiber.Ctx) error {
	review, err := h.loadReview(c)
	if err != nil {
		return err
	}

	if err := authorize(c, reviewMutatePolicy, &review.OwnerID); err != nil {
		return err
	}

	var req reviewRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	productID, err := h.validateReview(req)
	if err != nil {
		return err
	}

	updates := map[string]interface{}{
		"text":       req.Text,
		"stars":      req.Stars,
		"product_id": productID,
	}
	if err := h.db.Model(review).Updates(updates).Error; err != nil {
		return err
	}

	return c.JSON(review)
}

// DeleteReview removes a review by ID.
func (h *ReviewHandler) DeleteReview(c *fiber.Ctx) error {
	review, err := h.loadReview(c)
	if err != nil {
		return err
	}

	if err := authorize(c, reviewMutatePolicy, &review.OwnerID); err != nil {
		return err
	}

	if err := h.db.Delete(review).Error; err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *ReviewHandler) loadReview(c *fiber.Ctx) (*models.Review, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var review models.Review
	if err := h.db.First(&review, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fiber.NewError(fiber.StatusNotFound, "review not found")
		}
		return nil, err
	}

	return &review, nil
}

func (h *ReviewHandler) validateReview(req reviewRequest) (uuid.UUID, error) {
	if req.Text == "" {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "text is required")
	}

	if req.Stars < 1 || req.Stars > 5 {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "stars must be between 1 and 5")
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "invalid product_id")
	}

	var product models.Product
	if err := h.db.First(&product, "id = ?", productID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "invalid product_id")
		}
		return uuid.Nil, err
	}

	return productID, nil
}
