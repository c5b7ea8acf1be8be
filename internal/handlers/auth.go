package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/bazaar/internal/config"
	"github.com/example/bazaar/internal/models"
	"github.com/example/bazaar/internal/utils"
	"github.com/example/bazaar/internal/verification"
)

// AuthHandler bundles dependencies for registration and token endpoints.
type AuthHandler struct {
	db    *gorm.DB
	cfg   *config.Config
	codes *verification.Store
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(db *gorm.DB, cfg *config.Config, codes *verification.Store) *AuthHandler {
	return &AuthHandler{db: db, cfg: cfg, codes: codes}
}

type registerRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
	Birthday string `json:"birthday"`
}

// Register creates a pending account and issues its confirmation code.
//
// The code is returned in the response body; a production deployment would
// deliver it out-of-band instead.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Email == "" || req.Username == "" || req.Password == "" || req.Birthday == "" {
		return fiber.NewError(fiber.StatusBadRequest, "missing required fields")
	}

	birthday, err := time.Parse("2006-01-02", req.Birthday)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid birthday, expected YYYY-MM-DD")
	}

	// Check-then-create is not atomic against concurrent duplicate
	// registrations; the unique indexes are the backstop.
	var existing models.User
	if err := h.db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		return fiber.NewError(fiber.StatusBadRequest, "email is already in use")
	} else if err != gorm.ErrRecordNotFound {
		return err
	}

	if err := h.db.Where("username = ?", req.Username).First(&existing).Error; err == nil {
		return fiber.NewError(fiber.StatusBadRequest, "user already exists")
	} else if err != gorm.ErrRecordNotFound {
		return err
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to hash password")
	}

	code, err := h.codes.Issue(c.Context(), req.Email)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to issue confirmation code")
	}

	user := models.User{
		Email:        req.Email,
		Username:     &req.Username,
		PasswordHash: passwordHash,
		Birthday:     &birthday,
		IsActive:     false,
	}

	if err := h.db.Create(&user).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"user_id":           user.ID,
		"confirmation_code": code,
	})
}

type confirmRequest struct {
	UserID string `json:"user_id"`
	Code   string `json:"code"`
}

// Confirm validates the verification code and activates the account. The
// activation and the opaque token issuance happen in one transaction so a
// failure rolls back both.
func (h *AuthHandler) Confirm(c *fiber.Ctx) error {
	var req confirmRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "user does not exist")
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusBadRequest, "user does not exist")
		}
		return err
	}

	stored, err := h.codes.Lookup(c.Context(), user.Email)
	if err != nil {
		return err
	}
	if stored == "" || stored != req.Code {
		return fiber.NewError(fiber.StatusBadRequest, "invalid confirmation code")
	}

	var token models.AuthToken
	if err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&user).Update("is_active", true).Error; err != nil {
			return err
		}

		var txErr error
		token, txErr = getOrCreateAuthToken(tx, user.ID)
		return txErr
	}); err != nil {
		return err
	}

	if err := h.codes.Revoke(c.Context(), user.Email); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": "user account activated successfully",
		"key":     token.Key,
	})
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Authorize issues the persistent opaque token for valid credentials.
func (h *AuthHandler) Authorize(c *fiber.Ctx) error {
	var req credentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	user, errResp := h.authenticate(req)
	if errResp != nil {
		return errResp
	}

	token, err := getOrCreateAuthToken(h.db, user.ID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"key": token.Key})
}

// TokenPair issues a signed access/refresh pair. This path additionally
// enforces the age gate: the user must have a birthday set and be at least
// 18 years old.
func (h *AuthHandler) TokenPair(c *fiber.Ctx) error {
	var req credentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	user, errResp := h.authenticate(req)
	if errResp != nil {
		return errResp
	}

	if user.Birthday == nil {
		return fiber.NewError(fiber.StatusBadRequest, "user birthday is not set")
	}

	if utils.AgeYears(*user.Birthday, time.Now()) < 18 {
		return fiber.NewError(fiber.StatusBadRequest, "user must be at least 18 years old")
	}

	pair, err := utils.GenerateTokenPair(h.cfg.JWTSecret, user, h.cfg.AccessTokenTTL, h.cfg.RefreshTokenTTL)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to generate tokens")
	}

	return c.JSON(pair)
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

// TokenRefresh exchanges a valid refresh token for a fresh access token.
// The user is re-read so the embedded claims are current.
func (h *AuthHandler) TokenRefresh(c *fiber.Ctx) error {
	var req refreshRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	userID, err := utils.ParseRefreshToken(h.cfg.JWTSecret, req.Refresh)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid refresh token")
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", userID).Error; err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid refresh token")
	}

	pair, err := utils.GenerateTokenPair(h.cfg.JWTSecret, &user, h.cfg.AccessTokenTTL, h.cfg.RefreshTokenTTL)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to generate tokens")
	}

	return c.JSON(fiber.Map{"access": pair.Access})
}

// authenticate checks credentials and the activation flag. Failures render
// as 401 {"error": ...} through the app error handler.
func (h *AuthHandler) authenticate(req credentialsRequest) (*models.User, error) {
	var user models.User
	if err := h.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "user credentials are wrong")
		}
		return nil, err
	}

	if !utils.CheckPassword(user.PasswordHash, req.Password) {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "user credentials are wrong")
	}

	if !user.IsActive {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "user account is not activated yet")
	}

	return &user, nil
}

func getOrCreateAuthToken(db *gorm.DB, userID uuid.UUID) (models.AuthToken, error) {
	var token models.AuthToken
	err := db.Where("user_id = ?", userID).First(&token).Error
	if err == nil {
		return token, nil
	}
	if err != gorm.ErrRecordNotFound {
		return token, err
	}

	key, err := utils.GenerateOpaqueKey()
	if err != nil {
		return token, err
	}

	token = models.AuthToken{UserID: userID, Key: key}
	if err := db.Create(&token).Error; err != nil {
		return token, err
	}
	return token, nil
}
