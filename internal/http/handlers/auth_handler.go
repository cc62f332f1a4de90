package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/swalehazarekarindss/Crypto-Miner-App/internal/auth"
	"github.com/swalehazarekarindss/Crypto-Miner-App/internal/config"
	"github.com/swalehazarekarindss/Crypto-Miner-App/internal/http/dto"
	"github.com/swalehazarekarindss/Crypto-Miner-App/internal/models"
	"github.com/swalehazarekarindss/Crypto-Miner-App/internal/repositories"
	"github.com/swalehazarekarindss/Crypto-Miner-App/internal/wallet"
	"go.uber.org/zap"
)

// AuthHandler implements passwordless auth: possession of a wallet ID
// is the whole identity, so register/login only differ in whether the
// row may already exist.
type AuthHandler struct {
	userRepo  *repositories.UserRepo
	auditRepo *repositories.AuditRepo
	cfg       *config.Config
	log       *zap.Logger
}

func NewAuthHandler(userRepo *repositories.UserRepo, auditRepo *repositories.AuditRepo, cfg *config.Config, log *zap.Logger) *AuthHandler {
	return &AuthHandler{userRepo: userRepo, auditRepo: auditRepo, cfg: cfg, log: log}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}

	walletID := wallet.Normalize(req.WalletID)
	if walletID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "wallet_id is required"})
	}

	user, err := h.userRepo.Create(c.Context(), walletID)
	if err != nil {
		return respondErr(c, h.log, err)
	}

	_ = h.auditRepo.Log(c.Context(), models.AuditLog{
		ActorWallet: &walletID,
		ActorType:   "user",
		Action:      "user_registered",
		EntityType:  "user",
		EntityID:    &user.ID,
	})

	token, err := auth.GenerateJWT(h.cfg.JWTSecret, user.ID, user.WalletID, h.cfg.JWTExpiration)
	if err != nil {
		h.log.Error("failed to generate jwt", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal server error"})
	}

	h.log.Info("user registered", zap.String("wallet_id", walletID))
	return c.Status(fiber.StatusCreated).JSON(dto.AuthResponse{Token: token, User: user})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}

	walletID := wallet.Normalize(req.WalletID)
	if walletID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "wallet_id is required"})
	}

	// Мобильный клиент при 404 показывает экран регистрации.
	user, err := h.userRepo.GetByWallet(c.Context(), walletID)
	if err != nil {
		return respondErr(c, h.log, err)
	}

	if err := h.userRepo.UpdateLastActive(c.Context(), walletID); err != nil {
		h.log.Warn("failed to touch last_active_at", zap.Error(err))
	}

	token, err := auth.GenerateJWT(h.cfg.JWTSecret, user.ID, user.WalletID, h.cfg.JWTExpiration)
	if err != nil {
		h.log.Error("failed to generate jwt", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal server error"})
	}

	return c.JSON(dto.AuthResponse{Token: token, User: user})
}
