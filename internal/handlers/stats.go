package handlers

import (
	"loyalty/internal/services/stats"
	"loyalty/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type StatsHandler struct {
	statsService stats.Service
}

func NewStatsHandler(statsService stats.Service) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

func (h *StatsHandler) UserStats(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}

	s, err := h.statsService.GetRedemptionStats(c.Context(), claims.UserID)
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "Stats retrieved", s)
}

func (h *StatsHandler) MerchantStats(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}

	s, err := h.statsService.GetMerchantStats(c.Context(), claims.MerchantID)
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "Stats retrieved", s)
}
