package usecase

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"math/big"
	"net/http"
	"time"

	authdomain "github.com/wsabol/psychic-chat-poc-sub000/internal/auth/domain"
	authdto "github.com/wsabol/psychic-chat-poc-sub000/internal/auth/dto"
	"github.com/wsabol/psychic-chat-poc-sub000/internal/auth/repository"
	"github.com/wsabol/psychic-chat-poc-sub000/pkg/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AuthUsecase defines auth operations used by delivery and middleware
type AuthUsecase interface {
	Login(req *authdto.LoginRequest) (*authdto.TokenResponse, *authdto.TwoFactorChallengeResponse, error)
	Register(req *authdto.RegisterRequest) (*authdto.TokenResponse, *authdto.TwoFactorChallengeResponse, error)
	CreateTrialAccount(req *authdto.TrialRequest) (*authdto.TokenResponse, error)
	GoogleSignIn(idToken string) (*authdto.TokenResponse, error)
	VerifyTwoFactor(req *authdto.VerifyTwoFactorRequest) (*authdto.TokenResponse, error)
	RefreshToken(refreshToken string) (*authdto.TokenResponse, error)
	Logout(refreshToken string) error
	DeleteAccount(userID string) error
	ValidateToken(tokenString string) (*authdomain.User, error)
	RegisterDeviceToken(userID, token, deviceInfo string) error
	UnregisterDeviceToken(token string) error
	SetCodeDelivery(deliver func(email, code string) error)
	AddCleanupHook(cleanup func(userID string) error)
}

// authUsecase implements AuthUsecase interface
type authUsecase struct {
	userRepo      repository.UserRepository
	deviceRepo    repository.DeviceTokenRepository
	twoFactorRepo repository.TwoFactorRepository
	config        *config.Config
	deliverCode   func(email, code string) error
	cleanupHooks  []func(userID string) error
}

// NewAuthUsecase creates a new instance of authUsecase
func NewAuthUsecase(userRepo repository.UserRepository, deviceRepo repository.DeviceTokenRepository, twoFactorRepo repository.TwoFactorRepository, cfg *config.Config) AuthUsecase {
	return &authUsecase{
		userRepo:      userRepo,
		deviceRepo:    deviceRepo,
		twoFactorRepo: twoFactorRepo,
		config:        cfg,
		deliverCode: func(email, code string) error {
			// Code delivery (email/SMS) is an external concern; without a
			// configured sender the code only lands in the server log.
			log.Printf("[Auth] 2FA code issued for %s", email)
			return nil
		},
	}
}

// SetCodeDelivery replaces the 2FA code delivery hook (email sender, tests).
func (u *authUsecase) SetCodeDelivery(deliver func(email, code string) error) {
	u.deliverCode = deliver
}

// AddCleanupHook registers a callback run before the user row is deleted,
// so other features can purge their data for the account.
func (u *authUsecase) AddCleanupHook(cleanup func(userID string) error) {
	u.cleanupHooks = append(u.cleanupHooks, cleanup)
}

func (u *authUsecase) Login(req *authdto.LoginRequest) (*authdto.TokenResponse, *authdto.TwoFactorChallengeResponse, error) {
	user, err := u.userRepo.FindByEmail(req.Email)
	if err != nil {
		return nil, nil, err
	}

	if user == nil {
		return nil, nil, errors.New("invalid email or password")
	}

	if user.Provider != "email" {
		return nil, nil, errors.New("please use Google Sign-In for this account")
	}

	if !repository.CheckPasswordHash(req.Password, user.Password) {
		return nil, nil, errors.New("invalid email or password")
	}

	if user.TwoFactorEnabled {
		challenge, err := u.issueTwoFactorChallenge(user)
		if err != nil {
			return nil, nil, err
		}
		return nil, challenge, nil
	}

	tokens, err := u.generateTokens(user)
	return tokens, nil, err
}

func (u *authUsecase) Register(req *authdto.RegisterRequest) (*authdto.TokenResponse, *authdto.TwoFactorChallengeResponse, error) {
	existing, err := u.userRepo.FindByEmail(req.Email)
	if err != nil {
		return nil, nil, err
	}

	if existing != nil {
		return nil, nil, errors.New("email already registered")
	}

	hashedPassword, err := repository.HashPassword(req.Password)
	if err != nil {
		return nil, nil, err
	}

	user := &authdomain.User{
		Email:            req.Email,
		Password:         hashedPassword,
		Name:             req.Name,
		Provider:         "email",
		Timezone:         req.Timezone,
		TwoFactorEnabled: true,
	}

	if err := u.userRepo.Create(user); err != nil {
		return nil, nil, err
	}

	challenge, err := u.issueTwoFactorChallenge(user)
	if err != nil {
		return nil, nil, err
	}
	return nil, challenge, nil
}

// CreateTrialAccount creates a temporary account with no registration.
// Trial users skip 2FA; their horoscope is generated once, ever.
func (u *authUsecase) CreateTrialAccount(req *authdto.TrialRequest) (*authdto.TokenResponse, error) {
	name := req.Name
	if name == "" {
		name = "Seeker"
	}

	user := &authdomain.User{
		Email:       fmt.Sprintf("trial-%s@oracle.invalid", uuid.New().String()),
		Name:        name,
		Provider:    "trial",
		IsTemporary: true,
		Timezone:    req.Timezone,
	}

	if err := u.userRepo.Create(user); err != nil {
		return nil, err
	}

	return u.generateTokens(user)
}

// GoogleTokenInfo represents the response from Google's tokeninfo endpoint
type GoogleTokenInfo struct {
	Email         string `json:"email"`
	Name          string `json:"name"`
	EmailVerified string `json:"email_verified"` // Google returns this as string "true" or "false"
	Sub           string `json:"sub"`
}

func (u *authUsecase) GoogleSignIn(idToken string) (*authdto.TokenResponse, error) {
	// Verify ID token by calling Google's tokeninfo endpoint
	url := fmt.Sprintf("https://oauth2.googleapis.com/tokeninfo?id_token=%s", idToken)

	resp, err := http.Get(url)
	if err != nil {
		return nil, errors.New("failed to verify Google token: " + err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("failed to verify Google token: status %d, body: %s", resp.StatusCode, string(body))
	}

	var tokenInfo GoogleTokenInfo
	if err := json.NewDecoder(resp.Body).Decode(&tokenInfo); err != nil {
		return nil, errors.New("failed to decode Google token info: " + err.Error())
	}

	if tokenInfo.EmailVerified != "true" {
		return nil, errors.New("google email is not verified")
	}

	// Find or create user
	user, err := u.userRepo.FindByEmail(tokenInfo.Email)
	if err != nil {
		return nil, err
	}

	if user == nil {
		user = &authdomain.User{
			Email:    tokenInfo.Email,
			Name:     tokenInfo.Name,
			Provider: "google",
		}
		if err := u.userRepo.Create(user); err != nil {
			return nil, err
		}
	} else {
		user.Name = tokenInfo.Name
		if err := u.userRepo.Update(user); err != nil {
			return nil, err
		}
	}

	return u.generateTokens(user)
}

func (u *authUsecase) issueTwoFactorChallenge(user *authdomain.User) (*authdto.TwoFactorChallengeResponse, error) {
	code, err := randomCode()
	if err != nil {
		return nil, err
	}

	codeHash, err := repository.HashPassword(code)
	if err != nil {
		return nil, err
	}

	if err := u.twoFactorRepo.SaveCode(user.ID, codeHash, time.Now().Add(u.config.TwoFactorExpiry)); err != nil {
		return nil, err
	}

	if err := u.deliverCode(user.Email, code); err != nil {
		log.Printf("[Auth] Failed to deliver 2FA code to %s: %v", user.Email, err)
		return nil, errors.New("failed to deliver verification code")
	}

	preAuth, err := u.generatePreAuthToken(user)
	if err != nil {
		return nil, err
	}

	return &authdto.TwoFactorChallengeResponse{
		TwoFactorRequired: true,
		PreAuthToken:      preAuth,
	}, nil
}

func (u *authUsecase) VerifyTwoFactor(req *authdto.VerifyTwoFactorRequest) (*authdto.TokenResponse, error) {
	userID, err := u.parseToken(req.PreAuthToken, "preauth")
	if err != nil {
		return nil, errors.New("invalid pre-auth token")
	}

	code, err := u.twoFactorRepo.FindActiveCode(userID)
	if err != nil {
		return nil, err
	}
	if code == nil {
		return nil, errors.New("verification code expired, please log in again")
	}

	if !repository.CheckPasswordHash(req.Code, code.CodeHash) {
		return nil, errors.New("incorrect verification code")
	}

	if err := u.twoFactorRepo.ConsumeCode(code.ID); err != nil {
		return nil, err
	}

	user, err := u.userRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New("user not found")
	}

	return u.generateTokens(user)
}

func (u *authUsecase) RefreshToken(refreshToken string) (*authdto.TokenResponse, error) {
	userID, err := u.parseToken(refreshToken, "refresh")
	if err != nil {
		return nil, errors.New("invalid refresh token")
	}

	// Check if token exists in repository
	storedToken, err := u.userRepo.FindRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	if storedToken == nil || storedToken.ExpiresAt.Before(time.Now()) {
		return nil, errors.New("refresh token expired")
	}

	user, err := u.userRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}

	if user == nil {
		return nil, errors.New("user not found")
	}

	return u.generateTokens(user)
}

func (u *authUsecase) Logout(refreshToken string) error {
	return u.userRepo.DeleteRefreshToken(refreshToken)
}

func (u *authUsecase) RegisterDeviceToken(userID, token, deviceInfo string) error {
	return u.deviceRepo.SaveToken(userID, token, deviceInfo)
}

func (u *authUsecase) UnregisterDeviceToken(token string) error {
	return u.deviceRepo.DeleteToken(token)
}

// DeleteAccount removes a user and everything attached to them. Cleanup
// hooks run first so feature data is gone before the user row disappears.
func (u *authUsecase) DeleteAccount(userID string) error {
	for _, cleanup := range u.cleanupHooks {
		if err := cleanup(userID); err != nil {
			return fmt.Errorf("account cleanup failed: %w", err)
		}
	}
	if err := u.userRepo.DeleteRefreshTokensByUser(userID); err != nil {
		return err
	}
	if err := u.deviceRepo.DeleteTokensByUserID(userID); err != nil {
		return err
	}
	return u.userRepo.Delete(userID)
}

func (u *authUsecase) generateTokens(user *authdomain.User) (*authdto.TokenResponse, error) {
	accessToken, err := u.generateAccessToken(user)
	if err != nil {
		return nil, err
	}

	refreshToken, err := u.generateRefreshToken(user)
	if err != nil {
		return nil, err
	}

	refreshTokenEntity := &authdomain.RefreshToken{
		Token:     refreshToken,
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(u.config.JWTRefreshExpiry),
	}
	if err := u.userRepo.SaveRefreshToken(refreshTokenEntity); err != nil {
		return nil, err
	}

	return &authdto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	}, nil
}

func (u *authUsecase) generateAccessToken(user *authdomain.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"scope":   "access",
		"exp":     time.Now().Add(u.config.JWTAccessExpiry).Unix(),
		"iat":     time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(u.config.JWTSecret))
}

func (u *authUsecase) generateRefreshToken(user *authdomain.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  user.ID,
		"token_id": uuid.New().String(),
		"scope":    "refresh",
		"exp":      time.Now().Add(u.config.JWTRefreshExpiry).Unix(),
		"iat":      time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(u.config.JWTSecret))
}

// generatePreAuthToken issues the short-lived token that carries a login
// between password check and 2FA verification. Its scope is rejected by
// the protected-route middleware.
func (u *authUsecase) generatePreAuthToken(user *authdomain.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"scope":   "preauth",
		"exp":     time.Now().Add(u.config.TwoFactorExpiry).Unix(),
		"iat":     time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(u.config.JWTSecret))
}

// parseToken validates a token and its scope claim, returning the user id.
func (u *authUsecase) parseToken(tokenString, wantScope string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte(u.config.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return "", errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("invalid token claims")
	}

	if scope, _ := claims["scope"].(string); scope != wantScope {
		return "", errors.New("invalid token scope")
	}

	userID, ok := claims["user_id"].(string)
	if !ok {
		return "", errors.New("invalid token claims")
	}
	return userID, nil
}

func (u *authUsecase) ValidateToken(tokenString string) (*authdomain.User, error) {
	userID, err := u.parseToken(tokenString, "access")
	if err != nil {
		return nil, err
	}

	user, err := u.userRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}

	if user == nil {
		return nil, errors.New("user not found")
	}

	return user, nil
}

func randomCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
