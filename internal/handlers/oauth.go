package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/bazaar/internal/config"
	"github.com/example/bazaar/internal/models"
	"github.com/example/bazaar/internal/services"
	"github.com/example/bazaar/internal/utils"
)

// OAuthHandler implements the Google login bridge.
type OAuthHandler struct {
	db  *gorm.DB
	cfg *config.Config
}

// NewOAuthHandler constructs an OAuthHandler.
func NewOAuthHandler(db *gorm.DB, cfg *config.Config) *OAuthHandler {
	return &OAuthHandler{db: db, cfg: cfg}
}

type googleLoginRequest struct {
	Code string `json:"code"`
}

// GoogleLogin exchanges an authorization code for Google profile info,
// upserts the matching local account and issues a signed token pair.
// Accounts created here are active immediately and the age gate does not
// apply on this path.
func (h *OAuthHandler) GoogleLogin(c *fiber.Ctx) error {
	var req googleLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Code == "" {
		return fiber.NewError(fiber.StatusBadRequest, "code is required")
	}

	accessToken, err := services.ExchangeGoogleCode(req.Code, h.cfg.GoogleClientID, h.cfg.GoogleClientSecret)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "failed to obtain access token")
	}

	info, err := services.FetchGoogleUserInfo(accessToken)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "failed to fetch user info")
	}

	if info.Email == "" {
		return fiber.NewError(fiber.StatusBadRequest, "google profile has no email")
	}

	user, err := h.upsertUser(info)
	if err != nil {
		return err
	}

	pair, err := utils.GenerateTokenPair(h.cfg.JWTSecret, user, h.cfg.AccessTokenTTL, h.cfg.RefreshTokenTTL)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to generate tokens")
	}

	return c.JSON(pair)
}

// upsertUser finds the account by email or creates an active one from the
// Google profile: username is the local part of the email, the display name
// splits into first token and remainder.
func (h *OAuthHandler) upsertUser(info services.GoogleUserInfo) (*models.User, error) {
	var user models.User
	err := h.db.Where("email = ?", info.Email).First(&user).Error
	if err == nil {
		return &user, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	username := strings.SplitN(info.Email, "@", 2)[0]
	firstName, lastName := splitName(info.Name)

	user = models.User{
		Email:     info.Email,
		Username:  &username,
		FirstName: firstName,
		LastName:  lastName,
		IsActive:  true,
	}

	if err := h.db.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func splitName(name string) (string, string) {
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}
