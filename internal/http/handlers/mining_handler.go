package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/swalehazarekarindss/Crypto-Miner-App/internal/http/dto"
	"github.com/swalehazarekarindss/Crypto-Miner-App/internal/middleware"
	"github.com/swalehazarekarindss/Crypto-Miner-App/internal/services"
	"go.uber.org/zap"
)

type MiningHandler struct {
	miningService *services.MiningService
	log           *zap.Logger
}

func NewMiningHandler(miningService *services.MiningService, log *zap.Logger) *MiningHandler {
	return &MiningHandler{miningService: miningService, log: log}
}

func (h *MiningHandler) Start(c *fiber.Ctx) error {
	var req dto.StartMiningRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}

	walletID := middleware.GetWalletID(c)
	session, err := h.miningService.Start(c.Context(), walletID, req.SelectedHour)
	if err != nil {
		return respondErr(c, h.log, err)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse{OK: true, Data: session})
}

func (h *MiningHandler) Status(c *fiber.Ctx) error {
	walletID := middleware.GetWalletID(c)

	session, computed, err := h.miningService.Status(c.Context(), walletID)
	if err != nil {
		return respondErr(c, h.log, err)
	}

	return c.JSON(dto.SuccessResponse{OK: true, Data: dto.MiningStatusResponse{
		Session: session,
		Accrual: computed,
	}})
}

func (h *MiningHandler) Upgrade(c *fiber.Ctx) error {
	sessionID, err := uuid.Parse(c.Params("sessionId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid session id"})
	}

	walletID := middleware.GetWalletID(c)
	session, err := h.miningService.Upgrade(c.Context(), walletID, sessionID)
	if err != nil {
		return respondErr(c, h.log, err)
	}

	return c.JSON(dto.SuccessResponse{OK: true, Data: session})
}

func (h *MiningHandler) Claim(c *fiber.Ctx) error {
	sessionID, err := uuid.Parse(c.Params("sessionId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid session id"})
	}

	walletID := middleware.GetWalletID(c)
	result, err := h.miningService.Claim(c.Context(), walletID, sessionID)
	if err != nil {
		return respondErr(c, h.log, err)
	}

	return c.JSON(dto.SuccessResponse{OK: true, Data: result})
}
