package delivery

import (
	"net/http"

	authdomain "github.com/wsabol/psychic-chat-poc-sub000/internal/auth/domain"
	authdto "github.com/wsabol/psychic-chat-poc-sub000/internal/auth/dto"
	"github.com/wsabol/psychic-chat-poc-sub000/internal/auth/usecase"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authUsecase usecase.AuthUsecase
}

func NewAuthHandler(authUsecase usecase.AuthUsecase) *AuthHandler {
	return &AuthHandler{
		authUsecase: authUsecase,
	}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req authdto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, err.Error())
		return
	}

	tokens, challenge, err := h.authUsecase.Login(&req)
	if err != nil {
		errorJSON(c, http.StatusUnauthorized, err.Error())
		return
	}

	if challenge != nil {
		c.JSON(http.StatusOK, challenge)
		return
	}
	c.JSON(http.StatusOK, tokens)
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req authdto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, err.Error())
		return
	}

	tokens, challenge, err := h.authUsecase.Register(&req)
	if err != nil {
		errorJSON(c, http.StatusBadRequest, err.Error())
		return
	}

	if challenge != nil {
		c.JSON(http.StatusCreated, challenge)
		return
	}
	c.JSON(http.StatusCreated, tokens)
}

func (h *AuthHandler) Trial(c *gin.Context) {
	// Body is optional; every field has a default
	var req authdto.TrialRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		errorJSON(c, http.StatusBadRequest, err.Error())
		return
	}

	tokens, err := h.authUsecase.CreateTrialAccount(&req)
	if err != nil {
		errorJSON(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusCreated, tokens)
}

func (h *AuthHandler) GoogleSignIn(c *gin.Context) {
	var req authdto.GoogleSignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, err.Error())
		return
	}

	tokens, err := h.authUsecase.GoogleSignIn(req.Token)
	if err != nil {
		errorJSON(c, http.StatusUnauthorized, err.Error())
		return
	}
	c.JSON(http.StatusOK, tokens)
}

func (h *AuthHandler) VerifyTwoFactor(c *gin.Context) {
	var req authdto.VerifyTwoFactorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, err.Error())
		return
	}

	tokens, err := h.authUsecase.VerifyTwoFactor(&req)
	if err != nil {
		errorJSON(c, http.StatusUnauthorized, err.Error())
		return
	}
	c.JSON(http.StatusOK, tokens)
}

func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req authdto.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, err.Error())
		return
	}

	tokens, err := h.authUsecase.RefreshToken(req.RefreshToken)
	if err != nil {
		errorJSON(c, http.StatusUnauthorized, err.Error())
		return
	}
	c.JSON(http.StatusOK, tokens)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	var req authdto.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.authUsecase.Logout(req.RefreshToken); err != nil {
		errorJSON(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *AuthHandler) Me(c *gin.Context) {
	user, ok := c.Get("user")
	if !ok {
		errorJSON(c, http.StatusUnauthorized, "not authenticated")
		return
	}
	c.JSON(http.StatusOK, user.(*authdomain.User))
}

func (h *AuthHandler) DeleteMe(c *gin.Context) {
	userID := c.GetString("userID")
	if userID == "" {
		errorJSON(c, http.StatusUnauthorized, "not authenticated")
		return
	}
	if err := h.authUsecase.DeleteAccount(userID); err != nil {
		errorJSON(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *AuthHandler) RegisterDeviceToken(c *gin.Context) {
	var req authdto.RegisterDeviceTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, err.Error())
		return
	}

	userID := c.GetString("userID")
	if err := h.authUsecase.RegisterDeviceToken(userID, req.Token, req.DeviceInfo); err != nil {
		errorJSON(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *AuthHandler) UnregisterDeviceToken(c *gin.Context) {
	token := c.Param("token")
	if err := h.authUsecase.UnregisterDeviceToken(token); err != nil {
		errorJSON(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
