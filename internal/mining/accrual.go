// Package mining is the accrual engine: pure time→tokens math with no
// storage access, safe to run on every polling tick.
package mining

import (
	"time"

	"github.com/swalehazarekarindss/Crypto-Miner-App/internal/models"
)

const (
	// BaseRatePerSecond is the CMT emission rate at multiplier 1.
	BaseRatePerSecond = 0.01

	MinMultiplier = 1
	MaxMultiplier = 6
)

// Computed is the derived view of a session at a given instant.
type Computed struct {
	ElapsedSeconds   int64   `json:"elapsed_seconds"`
	EffectiveSeconds int64   `json:"effective_seconds"`
	RemainingSeconds int64   `json:"remaining_seconds"`
	CurrentEarned    float64 `json:"current_earned"`
	IsComplete       bool    `json:"is_complete"`
}

// PlannedSeconds converts the selected duration to seconds,
// clamping non-positive values to one hour.
func PlannedSeconds(selectedHour int) int64 {
	if selectedHour < 1 {
		selectedHour = 1
	}
	return int64(selectedHour) * 3600
}

func clampMultiplier(m int) int {
	if m < MinMultiplier {
		return MinMultiplier
	}
	if m > MaxMultiplier {
		return MaxMultiplier
	}
	return m
}

// Compute derives elapsed/remaining/earned for a session started at
// start with the given duration and multiplier. It never fails:
// a clock that ran backwards clamps elapsed to zero, and earnings are
// capped at the planned window however late the caller polls.
//
// The whole elapsed window is priced at the current multiplier, so an
// upgrade mid-session repays past seconds at the new rate. That is the
// intended simplification; a per-segment ledger would price each
// multiplier's own window instead.
func Compute(start time.Time, selectedHour, multiplier int, now time.Time) Computed {
	planned := PlannedSeconds(selectedHour)
	m := clampMultiplier(multiplier)

	elapsed := int64(now.Sub(start) / time.Second)
	if elapsed < 0 {
		elapsed = 0
	}

	effective := elapsed
	if effective > planned {
		effective = planned
	}

	remaining := planned - elapsed
	if remaining < 0 {
		remaining = 0
	}

	return Computed{
		ElapsedSeconds:   elapsed,
		EffectiveSeconds: effective,
		RemainingSeconds: remaining,
		CurrentEarned:    float64(effective) * BaseRatePerSecond * float64(m),
		IsComplete:       remaining == 0,
	}
}

// ComputeSession applies the miningStartTime→createdAt fallback.
func ComputeSession(s *models.MiningSession, now time.Time) Computed {
	return Compute(s.StartedAt(), s.SelectedHour, s.Multiplier, now)
}

// PlannedEarnings is the payout as if the full selected duration had
// elapsed, used by the "planned" claim payout policy.
func PlannedEarnings(selectedHour, multiplier int) float64 {
	return float64(PlannedSeconds(selectedHour)) * BaseRatePerSecond * float64(clampMultiplier(multiplier))
}
