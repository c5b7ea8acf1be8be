package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/example/bazaar/internal/cache"
	"github.com/example/bazaar/internal/config"
	"github.com/example/bazaar/internal/database"
	"github.com/example/bazaar/internal/handlers"
	"github.com/example/bazaar/internal/models"
	"github.com/example/bazaar/internal/routes"
	"github.com/example/bazaar/internal/utils"
)

// Handler tests run against a live Postgres named by TEST_DATABASE_URL and
// are skipped when it is not set. The cache is the in-memory implementation
// so no Redis is needed.
func setupApp(t *testing.T) (*fiber.App, *gorm.DB, *cache.Memory) {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL is not set")
	}

	db := database.Connect(dsn)
	for _, table := range []string{"reviews", "products", "categories", "auth_tokens", "users"} {
		db.Exec("DELETE FROM " + table)
	}

	cfg := &config.Config{
		JWTSecret:       "handler-test-secret",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 24 * time.Hour,
	}

	mem := cache.NewMemory()
	app := fiber.New(fiber.Config{ErrorHandler: handlers.ErrorHandler})
	routes.Register(app, db, mem, cfg)

	return app, db, mem
}

type userOpts struct {
	staff     bool
	superuser bool
	inactive  bool
	birthday  *time.Time
}

func createUser(t *testing.T, db *gorm.DB, email, username, password string, opts userOpts) *models.User {
	t.Helper()

	hash, err := utils.HashPassword(password)
	require.NoError(t, err)

	user := &models.User{
		Email:        email,
		Username:     &username,
		PasswordHash: hash,
		IsActive:     !opts.inactive,
		IsStaff:      opts.staff,
		IsSuperuser:  opts.superuser,
		Birthday:     opts.birthday,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createAuthToken(t *testing.T, db *gorm.DB, userID uuid.UUID) string {
	t.Helper()

	key, err := utils.GenerateOpaqueKey()
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.AuthToken{UserID: userID, Key: key}).Error)
	return key
}

func createCategory(t *testing.T, db *gorm.DB, name string) *models.Category {
	t.Helper()

	category := &models.Category{Name: name}
	require.NoError(t, db.Create(category).Error)
	return category
}

func createProduct(t *testing.T, db *gorm.DB, title string, categoryID, ownerID uuid.UUID) *models.Product {
	t.Helper()

	product := &models.Product{
		Title:      title,
		Price:      9.99,
		CategoryID: categoryID,
		OwnerID:    ownerID,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

// doJSON performs a request and decodes the JSON response body.
func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}, token string) (int, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded map[string]interface{}
	if len(raw) > 0 && resp.StatusCode != http.StatusNoContent {
		require.NoError(t, json.Unmarshal(raw, &decoded), "body: %s", string(raw))
	}

	return resp.StatusCode, decoded
}

// doRaw performs a request and returns the raw response body.
func doRaw(t *testing.T, app *fiber.App, method, path, token string) (int, []byte) {
	t.Helper()

	req, err := http.NewRequest(method, path, nil)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, raw
}

func birthdayYearsAgo(years int, extraDays int) *time.Time {
	birthday := time.Now().AddDate(-years, 0, extraDays)
	return &birthday
}
