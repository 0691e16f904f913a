package delivery

import (
	"errors"
	"net/http"
	"strconv"

	authdomain "github.com/wsabol/psychic-chat-poc-sub000/internal/auth/domain"
	oracledomain "github.com/wsabol/psychic-chat-poc-sub000/internal/oracle/domain"
	oracledto "github.com/wsabol/psychic-chat-poc-sub000/internal/oracle/dto"
	"github.com/wsabol/psychic-chat-poc-sub000/internal/oracle/usecase"

	"github.com/gin-gonic/gin"
)

type OracleHandler struct {
	oracleUsecase usecase.OracleUsecase
}

func NewOracleHandler(oracleUsecase usecase.OracleUsecase) *OracleHandler {
	return &OracleHandler{
		oracleUsecase: oracleUsecase,
	}
}

func (h *OracleHandler) Chat(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	var req oracledto.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.oracleUsecase.Chat(c.Request.Context(), user, req.Message)
	if err != nil {
		errorJSON(c, http.StatusBadGateway, err.Error())
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *OracleHandler) Horoscope(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	// Body is optional; an empty request means a daily horoscope
	var req oracledto.HoroscopeRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		errorJSON(c, http.StatusBadRequest, err.Error())
		return
	}

	rng := oracledomain.RangeDaily
	if req.Range == "weekly" {
		rng = oracledomain.RangeWeekly
	}

	resp, err := h.oracleUsecase.GenerateHoroscope(c.Request.Context(), user, rng)
	h.respond(c, resp, err)
}

func (h *OracleHandler) MoonPhase(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}
	resp, err := h.oracleUsecase.GenerateMoonPhase(c.Request.Context(), user)
	h.respond(c, resp, err)
}

func (h *OracleHandler) CosmicWeather(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}
	resp, err := h.oracleUsecase.GenerateCosmicWeather(c.Request.Context(), user)
	h.respond(c, resp, err)
}

func (h *OracleHandler) VoidOfCourse(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}
	resp, err := h.oracleUsecase.GenerateVoidOfCourse(c.Request.Context(), user)
	h.respond(c, resp, err)
}

func (h *OracleHandler) History(c *gin.Context) {
	userID := c.GetString("userID")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	query := c.Query("q")

	resp, err := h.oracleUsecase.History(userID, limit, query)
	if err != nil {
		errorJSON(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *OracleHandler) Search(c *gin.Context) {
	userID := c.GetString("userID")
	query := c.Query("q")
	if query == "" {
		errorJSON(c, http.StatusBadRequest, "query parameter q is required")
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	resp, err := h.oracleUsecase.SearchReadings(c.Request.Context(), userID, query, limit)
	if err != nil {
		errorJSON(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *OracleHandler) respond(c *gin.Context, resp *oracledto.ContentResponse, err error) {
	if err != nil {
		if errors.Is(err, usecase.ErrChartRequired) {
			errorJSON(c, http.StatusConflict, err.Error())
			return
		}
		errorJSON(c, http.StatusBadGateway, err.Error())
		return
	}
	c.JSON(http.StatusOK, resp)
}

func currentUser(c *gin.Context) *authdomain.User {
	val, exists := c.Get("user")
	if !exists {
		errorJSON(c, http.StatusUnauthorized, "unauthorized")
		c.Abort()
		return nil
	}
	user, ok := val.(*authdomain.User)
	if !ok {
		errorJSON(c, http.StatusUnauthorized, "unauthorized")
		c.Abort()
		return nil
	}
	return user
}
