package dto

type RegisterRequest struct {
	WalletID string `json:"wallet_id"`
}

type LoginRequest struct {
	WalletID string `json:"wallet_id"`
}

type StartMiningRequest struct {
	SelectedHour int `json:"selected_hour"`
}

type SubmitReferralRequest struct {
	Code string `json:"code"`
}

type WatchAdRequest struct {
	// WalletID is optional; when set it must match the authenticated
	// wallet (the mobile SDK echoes it back in the reward callback).
	WalletID string `json:"wallet_id"`
}
