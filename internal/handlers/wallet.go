package handlers

import (
	"loyalty/internal/services/wallet"
	"loyalty/internal/utils/pagination"
	"loyalty/internal/utils/response"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type WalletHandler struct {
	walletService wallet.Service
}

func NewWalletHandler(walletService wallet.Service) *WalletHandler {
	return &WalletHandler{
		walletService: walletService,
	}
}

func (h *WalletHandler) CreateWallet(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}

	w, err := h.walletService.CreateWallet(c.Context(), claims.UserID)
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Created(c, "Wallet created", w)
}

func (h *WalletHandler) GetWallet(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}

	w, err := h.walletService.GetWallet(c.Context(), claims.UserID)
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "Wallet retrieved", w)
}

func (h *WalletHandler) GetBalance(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}

	balance, err := h.walletService.GetBalance(c.Context(), claims.UserID)
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "Balance retrieved", balance)
}

// Credit is called by the payment backend once a coin purchase settled.
func (h *WalletHandler) Credit(c *fiber.Ctx) error {
	var input struct {
		UserID     uint            `json:"user_id"`
		Coins      int64           `json:"coins"`
		Amount     decimal.Decimal `json:"amount"`
		PaymentRef string          `json:"payment_ref"`
		Reason     string          `json:"reason"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}
	if input.UserID == 0 {
		return response.BadRequest(c, "user_id is required")
	}

	entry, err := h.walletService.Credit(c.Context(), wallet.CreditRequest{
		UserID:     input.UserID,
		Coins:      input.Coins,
		Amount:     input.Amount,
		PaymentRef: input.PaymentRef,
		Reason:     input.Reason,
	})
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "Wallet credited", entry)
}

func (h *WalletHandler) Debit(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}

	var input struct {
		Coins     int64  `json:"coins"`
		Reference string `json:"reference"`
		Reason    string `json:"reason"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}

	entry, err := h.walletService.Debit(c.Context(), wallet.DebitRequest{
		UserID:    claims.UserID,
		Coins:     input.Coins,
		Reference: idempotencyKey(c, input.Reference),
		Reason:    input.Reason,
	})
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "Wallet debited", entry)
}

func (h *WalletHandler) ListTransactions(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}

	p := pagination.ParseFromRequest(c)
	entries, err := h.walletService.ListTransactions(c.Context(), claims.UserID, p.Limit, p.Offset)
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "Transactions retrieved", entries)
}
