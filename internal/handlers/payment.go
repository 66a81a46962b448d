package handlers

import (
	"loyalty/internal/models"
	"loyalty/internal/services/payment"
	"loyalty/internal/utils/pagination"
	"loyalty/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type PaymentHandler struct {
	paymentService payment.Service
}

func NewPaymentHandler(paymentService payment.Service) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

func (h *PaymentHandler) Pay(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}

	var input struct {
		MerchantID     uint   `json:"merchant_id"`
		BillAmount     int64  `json:"bill_amount"`
		CouponID       *uint  `json:"coupon_id"`
		Description    string `json:"description"`
		IdempotencyKey string `json:"idempotency_key"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}
	if input.MerchantID == 0 {
		return response.BadRequest(c, "merchant_id is required")
	}

	tx, err := h.paymentService.Pay(c.Context(), payment.PayRequest{
		UserID:         claims.UserID,
		MerchantID:     input.MerchantID,
		BillAmount:     input.BillAmount,
		CouponID:       input.CouponID,
		Description:    input.Description,
		IdempotencyKey: idempotencyKey(c, input.IdempotencyKey),
	})
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Created(c, "Payment completed", tx)
}

func (h *PaymentHandler) Reverse(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid transaction id")
	}

	reversal, err := h.paymentService.Reverse(c.Context(), id, claims.MerchantID)
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "Payment reversed", reversal)
}

// GetPayment is visible to the paying user and to the receiving merchant.
func (h *PaymentHandler) GetPayment(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid transaction id")
	}

	tx, err := h.paymentService.GetPayment(c.Context(), id)
	if err != nil {
		return response.DomainError(c, err)
	}
	if tx.UserID != claims.UserID && claims.Role != models.RoleAdmin &&
		(claims.MerchantID == 0 || tx.MerchantID != claims.MerchantID) {
		return response.Error(c, fiber.StatusNotFound, "transaction not found")
	}
	return response.Success(c, "Payment retrieved", tx)
}

func (h *PaymentHandler) ListMine(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}

	p := pagination.ParseFromRequest(c)
	list, err := h.paymentService.ListUserPayments(c.Context(), claims.UserID, p.Limit, p.Offset)
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "Payments retrieved", list)
}

func (h *PaymentHandler) ListMerchant(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}

	p := pagination.ParseFromRequest(c)
	list, total, err := h.paymentService.ListMerchantPayments(c.Context(), claims.MerchantID, p.Limit, p.Offset)
	if err != nil {
		return response.DomainError(c, err)
	}
	p.Total = total
	return c.JSON(pagination.Response(p, list))
}
