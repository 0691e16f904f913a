package delivery

import (
	"net/http"

	authdomain "github.com/wsabol/psychic-chat-poc-sub000/internal/auth/domain"
	profiledto "github.com/wsabol/psychic-chat-poc-sub000/internal/profile/dto"
	"github.com/wsabol/psychic-chat-poc-sub000/internal/profile/usecase"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	profileUsecase usecase.ProfileUsecase
}

func NewProfileHandler(profileUsecase usecase.ProfileUsecase) *ProfileHandler {
	return &ProfileHandler{
		profileUsecase: profileUsecase,
	}
}

func (h *ProfileHandler) GetProfile(c *gin.Context) {
	user, _ := c.Get("user")
	c.JSON(http.StatusOK, user.(*authdomain.User))
}

func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	var req profiledto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, err.Error())
		return
	}

	userID := c.GetString("userID")
	if err := h.profileUsecase.UpdateProfile(userID, &req); err != nil {
		errorJSON(c, http.StatusBadRequest, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *ProfileHandler) GetBirthChart(c *gin.Context) {
	userID := c.GetString("userID")

	chart, err := h.profileUsecase.GetBirthChart(userID)
	if err != nil {
		errorJSON(c, http.StatusInternalServerError, err.Error())
		return
	}
	if chart == nil {
		errorJSON(c, http.StatusNotFound, "birth chart not set up")
		return
	}
	c.JSON(http.StatusOK, chart)
}

func (h *ProfileHandler) SetBirthChart(c *gin.Context) {
	var req profiledto.SetBirthChartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, err.Error())
		return
	}

	userID := c.GetString("userID")
	chart, err := h.profileUsecase.SetBirthChart(userID, &req)
	if err != nil {
		errorJSON(c, http.StatusBadRequest, err.Error())
		return
	}
	c.JSON(http.StatusOK, chart)
}
