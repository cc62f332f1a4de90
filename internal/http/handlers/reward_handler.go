package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/swalehazarekarindss/Crypto-Miner-App/internal/http/dto"
	"github.com/swalehazarekarindss/Crypto-Miner-App/internal/middleware"
	"github.com/swalehazarekarindss/Crypto-Miner-App/internal/services"
	"go.uber.org/zap"
)

type RewardHandler struct {
	rewardService *services.RewardService
	log           *zap.Logger
}

func NewRewardHandler(rewardService *services.RewardService, log *zap.Logger) *RewardHandler {
	return &RewardHandler{rewardService: rewardService, log: log}
}

func (h *RewardHandler) WatchAd(c *fiber.Ctx) error {
	var req dto.WatchAdRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}

	walletID := middleware.GetWalletID(c)
	claimed := req.WalletID
	if claimed == "" {
		claimed = walletID
	}

	reward, user, err := h.rewardService.WatchAd(c.Context(), walletID, claimed)
	if err != nil {
		return respondErr(c, h.log, err)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse{OK: true, Data: fiber.Map{
		"reward": reward,
		"user":   user,
	}})
}
