package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"loyalty/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func sign(t *testing.T, claims models.UserClaims, key string) string {
	t.Helper()
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(time.Hour))
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
	require.NoError(t, err)
	return token
}

func newApp() *fiber.App {
	app := fiber.New()
	auth := NewAuthMiddleware(secret)
	app.Get("/me", auth.Handler, func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"user_id": Claims(c).UserID})
	})
	app.Get("/coupons", auth.Handler, HasPermission(models.PermissionCouponManage), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	app.Get("/merchant", auth.Handler, MerchantOnly, func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	app.Get("/admin", auth.Handler, AdminOnly, func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func do(t *testing.T, app *fiber.App, path, token string) int {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestAuthMiddleware(t *testing.T) {
	app := newApp()
	user := sign(t, models.UserClaims{UserID: 1, Role: models.RoleUser}, secret)
	merchant := sign(t, models.UserClaims{UserID: 2, MerchantID: 9, Role: models.RoleMerchant}, secret)
	admin := sign(t, models.UserClaims{UserID: 3, Role: models.RoleAdmin}, secret)
	forged := sign(t, models.UserClaims{UserID: 1, Role: models.RoleAdmin}, "other-secret")

	tests := []struct {
		name  string
		path  string
		token string
		want  int
	}{
		{name: "missing token", path: "/me", want: fiber.StatusUnauthorized},
		{name: "forged token", path: "/me", token: forged, want: fiber.StatusUnauthorized},
		{name: "valid token", path: "/me", token: user, want: fiber.StatusOK},
		{name: "user lacks coupon manage", path: "/coupons", token: user, want: fiber.StatusForbidden},
		{name: "merchant has coupon manage", path: "/coupons", token: merchant, want: fiber.StatusOK},
		{name: "admin passes permission checks", path: "/coupons", token: admin, want: fiber.StatusOK},
		{name: "user is not a merchant", path: "/merchant", token: user, want: fiber.StatusForbidden},
		{name: "merchant route", path: "/merchant", token: merchant, want: fiber.StatusOK},
		{name: "merchant is not admin", path: "/admin", token: merchant, want: fiber.StatusForbidden},
		{name: "admin route", path: "/admin", token: admin, want: fiber.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, do(t, app, tt.path, tt.token))
		})
	}
}

func TestAuthMiddleware_MalformedHeader(t *testing.T) {
	app := newApp()
	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Token abc")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
