package delivery

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authdomain "github.com/wsabol/psychic-chat-poc-sub000/internal/auth/domain"
	oracledomain "github.com/wsabol/psychic-chat-poc-sub000/internal/oracle/domain"
	oracledto "github.com/wsabol/psychic-chat-poc-sub000/internal/oracle/dto"
	"github.com/wsabol/psychic-chat-poc-sub000/internal/oracle/usecase"
	"github.com/wsabol/psychic-chat-poc-sub000/pkg/ai"

	"github.com/gin-gonic/gin"
)

type fakeOracleUsecase struct {
	err  error
	resp *oracledto.ContentResponse
}

func (f *fakeOracleUsecase) Chat(ctx context.Context, user *authdomain.User, message string) (*oracledto.ContentResponse, error) {
	return f.resp, f.err
}

func (f *fakeOracleUsecase) GenerateHoroscope(ctx context.Context, user *authdomain.User, rng oracledomain.HoroscopeRange) (*oracledto.ContentResponse, error) {
	return f.resp, f.err
}

func (f *fakeOracleUsecase) GenerateMoonPhase(ctx context.Context, user *authdomain.User) (*oracledto.ContentResponse, error) {
	return f.resp, f.err
}

func (f *fakeOracleUsecase) GenerateCosmicWeather(ctx context.Context, user *authdomain.User) (*oracledto.ContentResponse, error) {
	return f.resp, f.err
}

func (f *fakeOracleUsecase) GenerateVoidOfCourse(ctx context.Context, user *authdomain.User) (*oracledto.ContentResponse, error) {
	return f.resp, f.err
}

func (f *fakeOracleUsecase) History(userID string, limit int, query string) (*oracledto.HistoryResponse, error) {
	return nil, f.err
}

func (f *fakeOracleUsecase) SearchReadings(ctx context.Context, userID, query string, limit int) (*oracledto.SearchResponse, error) {
	return nil, f.err
}

func (f *fakeOracleUsecase) PurgeUserData(ctx context.Context, userID string) error { return f.err }

func (f *fakeOracleUsecase) SetOracleService(ai.OracleService)                  {}
func (f *fakeOracleUsecase) SetNotifier(usecase.Notifier)                       {}
func (f *fakeOracleUsecase) SetVectorSearchService(usecase.VectorSearchService) {}

func doRequest(t *testing.T, handle gin.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Set("user", &authdomain.User{ID: "u1", Timezone: "UTC"})
	c.Set("userID", "u1")

	handle(c)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestChat_UsecaseErrorUsesEnvelope(t *testing.T) {
	h := NewOracleHandler(&fakeOracleUsecase{err: errors.New("model overloaded")})

	w := doRequest(t, h.Chat, `{"message":"hello"}`)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "model overloaded", body["error"])
}

func TestChat_BadRequestUsesEnvelope(t *testing.T) {
	h := NewOracleHandler(&fakeOracleUsecase{})

	w := doRequest(t, h.Chat, `{"not":"valid"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, false, body["success"])
	assert.NotEmpty(t, body["error"])
}

func TestHoroscope_ChartRequiredMapsToConflict(t *testing.T) {
	h := NewOracleHandler(&fakeOracleUsecase{err: usecase.ErrChartRequired})

	w := doRequest(t, h.Horoscope, "")

	assert.Equal(t, http.StatusConflict, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, false, body["success"])
	assert.NotEmpty(t, body["error"])
}

func TestHoroscope_EmptyBodyDefaultsToDaily(t *testing.T) {
	h := NewOracleHandler(&fakeOracleUsecase{resp: &oracledto.ContentResponse{Success: true, ResponseType: "horoscope"}})

	w := doRequest(t, h.Horoscope, "")

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
}
