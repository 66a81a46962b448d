package response

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	apperrors "loyalty/internal/errors"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", apperrors.ErrCouponNotFound, fiber.StatusNotFound, "COUPON_NOT_FOUND"},
		{"insufficient balance", apperrors.ErrInsufficientBalance, fiber.StatusPaymentRequired, "INSUFFICIENT_BALANCE"},
		{"cap reached", apperrors.ErrRedemptionCapReached, fiber.StatusUnprocessableEntity, "REDEMPTION_CAP_REACHED"},
		{"finalized", apperrors.ErrRedemptionFinalized, fiber.StatusConflict, "REDEMPTION_FINALIZED"},
		{"unauthorized", apperrors.ErrUnauthorized, fiber.StatusForbidden, "UNAUTHORIZED"},
		{"store failure", apperrors.StoreFailure("get wallet", errors.New("conn refused")), fiber.StatusServiceUnavailable, "STORE_FAILURE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error { return DomainError(c, tt.err) })

			resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			var body map[string]string
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tt.wantCode, body["code"])
		})
	}
}

func TestDomainError_HidesStoreCause(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return DomainError(c, apperrors.StoreFailure("debit wallet", errors.New("pq: password authentication failed")))
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, apperrors.ErrStoreFailure.Message, body["error"])
}

func TestDomainError_PlainError(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error { return DomainError(c, errors.New("boom")) })

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}
