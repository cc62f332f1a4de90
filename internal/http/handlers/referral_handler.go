package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/swalehazarekarindss/Crypto-Miner-App/internal/http/dto"
	"github.com/swalehazarekarindss/Crypto-Miner-App/internal/middleware"
	"github.com/swalehazarekarindss/Crypto-Miner-App/internal/services"
	"go.uber.org/zap"
)

type ReferralHandler struct {
	referralService *services.ReferralService
	log             *zap.Logger
}

func NewReferralHandler(referralService *services.ReferralService, log *zap.Logger) *ReferralHandler {
	return &ReferralHandler{referralService: referralService, log: log}
}

func (h *ReferralHandler) Submit(c *fiber.Ctx) error {
	var req dto.SubmitReferralRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}
	if req.Code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "code is required"})
	}

	walletID := middleware.GetWalletID(c)
	result, err := h.referralService.Redeem(c.Context(), walletID, req.Code)
	if err != nil {
		return respondErr(c, h.log, err)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse{OK: true, Data: result})
}

func (h *ReferralHandler) Status(c *fiber.Ctx) error {
	walletID := middleware.GetWalletID(c)

	redeemed, referrer, err := h.referralService.Status(c.Context(), walletID)
	if err != nil {
		return respondErr(c, h.log, err)
	}

	return c.JSON(dto.SuccessResponse{OK: true, Data: dto.ReferralStatusResponse{
		Redeemed: redeemed,
		Referrer: referrer,
	}})
}
