package handlers

import (
	"loyalty/internal/models"
	"loyalty/internal/services/coupon"
	"loyalty/internal/services/redemption"
	"loyalty/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type RedemptionHandler struct {
	redemptionService redemption.Service
	couponService     coupon.Service
}

func NewRedemptionHandler(redemptionService redemption.Service, couponService coupon.Service) *RedemptionHandler {
	return &RedemptionHandler{
		redemptionService: redemptionService,
		couponService:     couponService,
	}
}

func (h *RedemptionHandler) Redeem(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}

	var input struct {
		CouponID       uint   `json:"coupon_id"`
		Code           string `json:"code"`
		PurchaseAmount int64  `json:"purchase_amount"`
		IdempotencyKey string `json:"idempotency_key"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}

	couponID := input.CouponID
	if couponID == 0 {
		if input.Code == "" {
			return response.BadRequest(c, "coupon_id or code is required")
		}
		found, err := h.couponService.GetCouponByCode(c.Context(), input.Code)
		if err != nil {
			return response.DomainError(c, err)
		}
		couponID = found.ID
	}

	r, err := h.redemptionService.Redeem(c.Context(), redemption.RedeemRequest{
		UserID:         claims.UserID,
		CouponID:       couponID,
		PurchaseAmount: input.PurchaseAmount,
		IdempotencyKey: idempotencyKey(c, input.IdempotencyKey),
	})
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Created(c, "Coupon redeemed", r)
}

// GetRedemption is visible to the redeeming user and to the coupon's merchant.
func (h *RedemptionHandler) GetRedemption(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid redemption id")
	}

	r, err := h.redemptionService.GetRedemption(c.Context(), id)
	if err != nil {
		return response.DomainError(c, err)
	}
	if r.UserID == claims.UserID || claims.Role == models.RoleAdmin {
		return response.Success(c, "Redemption retrieved", r)
	}
	if claims.MerchantID != 0 {
		owned, err := h.couponService.GetCoupon(c.Context(), r.CouponID)
		if err != nil {
			return response.DomainError(c, err)
		}
		if owned.MerchantID == claims.MerchantID {
			return response.Success(c, "Redemption retrieved", r)
		}
	}
	return response.Error(c, fiber.StatusNotFound, "redemption not found")
}

func (h *RedemptionHandler) ListMine(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}

	list, err := h.redemptionService.ListUserRedemptions(c.Context(), claims.UserID)
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "Redemptions retrieved", list)
}

func (h *RedemptionHandler) ListByCoupon(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid coupon id")
	}

	list, err := h.redemptionService.ListCouponRedemptions(c.Context(), id, claims.MerchantID)
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "Redemptions retrieved", list)
}

func (h *RedemptionHandler) UpdateStatus(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid redemption id")
	}

	var input struct {
		Status models.RedemptionStatus `json:"status"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}

	r, err := h.redemptionService.UpdateRedemptionStatus(c.Context(), id, input.Status, claims.MerchantID)
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "Redemption updated", r)
}
