package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/swalehazarekarindss/Crypto-Miner-App/internal/http/dto"
	"github.com/swalehazarekarindss/Crypto-Miner-App/internal/models"
	"go.uber.org/zap"
)

// errStatus maps the domain error taxonomy onto HTTP codes. Anything
// not in the taxonomy is a storage/internal failure.
func errStatus(err error) int {
	switch {
	case errors.Is(err, models.ErrUserNotFound),
		errors.Is(err, models.ErrSessionNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, models.ErrWalletExists),
		errors.Is(err, models.ErrActiveSession),
		errors.Is(err, models.ErrAlreadyClaimed),
		errors.Is(err, models.ErrAlreadyRedeemed):
		return fiber.StatusConflict
	case errors.Is(err, models.ErrWalletMismatch):
		return fiber.StatusForbidden
	case errors.Is(err, models.ErrInvalidState),
		errors.Is(err, models.ErrMultiplierLimit),
		errors.Is(err, models.ErrInvalidDuration),
		errors.Is(err, models.ErrSelfReferral),
		errors.Is(err, models.ErrInvalidReferralCode),
		errors.Is(err, models.ErrInvalidAmount):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

func respondErr(c *fiber.Ctx, log *zap.Logger, err error) error {
	status := errStatus(err)
	if status == fiber.StatusInternalServerError {
		log.Error("request failed",
			zap.String("path", c.Path()),
			zap.Error(err),
		)
		return c.Status(status).JSON(dto.ErrorResponse{Error: "internal server error"})
	}
	return c.Status(status).JSON(dto.ErrorResponse{Error: err.Error()})
}
