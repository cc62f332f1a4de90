package models

import "errors"

// Domain errors. Repositories translate constraint violations into
// these, services return them as-is, handlers map them to HTTP codes
// with errors.Is. Anything else bubbling up is an infrastructure
// failure and becomes a 500.
var (
	// users / auth
	ErrUserNotFound = errors.New("user not found")
	ErrWalletExists = errors.New("wallet already registered")

	// mining lifecycle
	ErrSessionNotFound = errors.New("mining session not found")
	ErrActiveSession   = errors.New("an active mining session already exists")
	ErrInvalidState    = errors.New("operation not valid for current session status")
	ErrMultiplierLimit = errors.New("already at max multiplier")
	ErrAlreadyClaimed  = errors.New("session already claimed")
	ErrInvalidDuration = errors.New("selected hour must be a positive integer")

	// referral
	ErrSelfReferral        = errors.New("cannot use your own referral code")
	ErrInvalidReferralCode = errors.New("invalid referral code")
	ErrAlreadyRedeemed     = errors.New("referral code already used")

	// balance ledger
	ErrInvalidAmount = errors.New("credit amount must be a non-negative finite number")

	// ad rewards
	ErrWalletMismatch = errors.New("wallet does not match authenticated user")
)
