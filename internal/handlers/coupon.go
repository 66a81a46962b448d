package handlers

import (
	"loyalty/internal/models"
	"loyalty/internal/services/coupon"
	"loyalty/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

// couponView adds the remaining slots to a coupon; uncapped coupons omit it.
type couponView struct {
	*models.Coupon
	RemainingRedemptions *int64 `json:"remaining_redemptions,omitempty"`
}

func newCouponView(c *models.Coupon) couponView {
	view := couponView{Coupon: c}
	if left := c.RemainingRedemptions(); left >= 0 {
		view.RemainingRedemptions = &left
	}
	return view
}

func newCouponViews(coupons []models.Coupon) []couponView {
	views := make([]couponView, 0, len(coupons))
	for i := range coupons {
		views = append(views, newCouponView(&coupons[i]))
	}
	return views
}

type CouponHandler struct {
	couponService coupon.Service
}

func NewCouponHandler(couponService coupon.Service) *CouponHandler {
	return &CouponHandler{couponService: couponService}
}

// CreateCoupon registers a coupon owned by the calling merchant.
func (h *CouponHandler) CreateCoupon(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}

	var input coupon.CreateCouponInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}
	input.MerchantID = claims.MerchantID

	created, err := h.couponService.CreateCoupon(c.Context(), input)
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Created(c, "Coupon created", newCouponView(created))
}

func (h *CouponHandler) GetCoupon(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid coupon id")
	}

	found, err := h.couponService.GetCoupon(c.Context(), id)
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "Coupon retrieved", newCouponView(found))
}

func (h *CouponHandler) GetCouponByCode(c *fiber.Ctx) error {
	found, err := h.couponService.GetCouponByCode(c.Context(), c.Params("code"))
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "Coupon retrieved", newCouponView(found))
}

func (h *CouponHandler) ListActive(c *fiber.Ctx) error {
	coupons, err := h.couponService.ListActive(c.Context())
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "Coupons retrieved", newCouponViews(coupons))
}

func (h *CouponHandler) ListByCategory(c *fiber.Ctx) error {
	coupons, err := h.couponService.ListByCategory(c.Context(), c.Params("category"))
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "Coupons retrieved", newCouponViews(coupons))
}

func (h *CouponHandler) ListByMerchant(c *fiber.Ctx) error {
	merchantID, ok := paramID(c, "merchantID")
	if !ok {
		return response.BadRequest(c, "Invalid merchant id")
	}

	coupons, err := h.couponService.ListByMerchant(c.Context(), merchantID)
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "Coupons retrieved", newCouponViews(coupons))
}

// ListMine lists the calling merchant's coupons.
func (h *CouponHandler) ListMine(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}

	coupons, err := h.couponService.ListByMerchant(c.Context(), claims.MerchantID)
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "Coupons retrieved", newCouponViews(coupons))
}

func (h *CouponHandler) SetActive(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid coupon id")
	}

	var input struct {
		Active *bool `json:"is_active"`
	}
	if err := c.BodyParser(&input); err != nil || input.Active == nil {
		return response.BadRequest(c, "is_active is required")
	}

	updated, err := h.couponService.SetActive(c.Context(), id, claims.MerchantID, *input.Active)
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "Coupon updated", newCouponView(updated))
}
