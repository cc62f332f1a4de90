package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/swalehazarekarindss/Crypto-Miner-App/internal/config"
	"github.com/swalehazarekarindss/Crypto-Miner-App/internal/http/dto"
	"github.com/swalehazarekarindss/Crypto-Miner-App/internal/middleware"
	"github.com/swalehazarekarindss/Crypto-Miner-App/internal/repositories"
	"go.uber.org/zap"
)

type UserHandler struct {
	userRepo *repositories.UserRepo
	cfg      *config.Config
	log      *zap.Logger
}

func NewUserHandler(userRepo *repositories.UserRepo, cfg *config.Config, log *zap.Logger) *UserHandler {
	return &UserHandler{userRepo: userRepo, cfg: cfg, log: log}
}

func (h *UserHandler) GetMe(c *fiber.Ctx) error {
	walletID := middleware.GetWalletID(c)

	user, err := h.userRepo.GetByWallet(c.Context(), walletID)
	if err != nil {
		return respondErr(c, h.log, err)
	}

	return c.JSON(dto.SuccessResponse{OK: true, Data: user})
}

// Leaderboard is public: top wallets by current balance.
func (h *UserHandler) Leaderboard(c *fiber.Ctx) error {
	limit := h.cfg.LeaderboardLimit
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= h.cfg.LeaderboardLimit {
			limit = n
		}
	}

	entries, err := h.userRepo.Leaderboard(c.Context(), limit)
	if err != nil {
		return respondErr(c, h.log, err)
	}

	return c.JSON(dto.SuccessResponse{OK: true, Data: dto.LeaderboardResponse{Entries: entries}})
}
