package dto

import authdomain "github.com/wsabol/psychic-chat-poc-sub000/internal/auth/domain"

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name" binding:"required"`
	Timezone string `json:"timezone"`
}

type TrialRequest struct {
	Name     string `json:"name"`
	Timezone string `json:"timezone"`
}

type GoogleSignInRequest struct {
	Token string `json:"token" binding:"required"`
}

type VerifyTwoFactorRequest struct {
	PreAuthToken string `json:"pre_auth_token" binding:"required"`
	Code         string `json:"code" binding:"required,len=6"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type RegisterDeviceTokenRequest struct {
	Token      string `json:"token" binding:"required"`
	DeviceInfo string `json:"device_info"`
}

type TokenResponse struct {
	AccessToken  string           `json:"access_token"`
	RefreshToken string           `json:"refresh_token"`
	User         *authdomain.User `json:"user"`
}

// TwoFactorChallengeResponse is returned by login when the account has 2FA
// enabled: the client must come back with the code before receiving tokens.
type TwoFactorChallengeResponse struct {
	TwoFactorRequired bool   `json:"two_factor_required"`
	PreAuthToken      string `json:"pre_auth_token"`
}
