package delivery

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authdomain "github.com/wsabol/psychic-chat-poc-sub000/internal/auth/domain"
	authdto "github.com/wsabol/psychic-chat-poc-sub000/internal/auth/dto"

	"github.com/gin-gonic/gin"
)

type fakeAuthUsecase struct {
	err       error
	trialReqs []*authdto.TrialRequest
}

func (f *fakeAuthUsecase) Login(*authdto.LoginRequest) (*authdto.TokenResponse, *authdto.TwoFactorChallengeResponse, error) {
	return nil, nil, f.err
}

func (f *fakeAuthUsecase) Register(*authdto.RegisterRequest) (*authdto.TokenResponse, *authdto.TwoFactorChallengeResponse, error) {
	return nil, nil, f.err
}

func (f *fakeAuthUsecase) CreateTrialAccount(req *authdto.TrialRequest) (*authdto.TokenResponse, error) {
	f.trialReqs = append(f.trialReqs, req)
	if f.err != nil {
		return nil, f.err
	}
	return &authdto.TokenResponse{AccessToken: "access", RefreshToken: "refresh"}, nil
}

func (f *fakeAuthUsecase) GoogleSignIn(string) (*authdto.TokenResponse, error) { return nil, f.err }

func (f *fakeAuthUsecase) VerifyTwoFactor(*authdto.VerifyTwoFactorRequest) (*authdto.TokenResponse, error) {
	return nil, f.err
}

func (f *fakeAuthUsecase) RefreshToken(string) (*authdto.TokenResponse, error) { return nil, f.err }
func (f *fakeAuthUsecase) Logout(string) error                                 { return f.err }
func (f *fakeAuthUsecase) DeleteAccount(string) error                          { return f.err }
func (f *fakeAuthUsecase) ValidateToken(string) (*authdomain.User, error)      { return nil, f.err }
func (f *fakeAuthUsecase) RegisterDeviceToken(string, string, string) error    { return f.err }
func (f *fakeAuthUsecase) UnregisterDeviceToken(string) error                  { return f.err }
func (f *fakeAuthUsecase) SetCodeDelivery(func(email, code string) error)      {}
func (f *fakeAuthUsecase) AddCleanupHook(func(userID string) error)            {}

func postJSON(t *testing.T, handle gin.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handle(c)
	return w
}

func TestTrial_EmptyBodySucceeds(t *testing.T) {
	fake := &fakeAuthUsecase{}
	h := NewAuthHandler(fake)

	w := postJSON(t, h.Trial, "")

	assert.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, fake.trialReqs, 1)
	assert.Equal(t, &authdto.TrialRequest{}, fake.trialReqs[0])
}

func TestTrial_BodyFieldsArePassedThrough(t *testing.T) {
	fake := &fakeAuthUsecase{}
	h := NewAuthHandler(fake)

	w := postJSON(t, h.Trial, `{"name":"Curious","timezone":"Asia/Tokyo"}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, fake.trialReqs, 1)
	assert.Equal(t, "Curious", fake.trialReqs[0].Name)
	assert.Equal(t, "Asia/Tokyo", fake.trialReqs[0].Timezone)
}

func TestTrial_MalformedBodyStillRejected(t *testing.T) {
	fake := &fakeAuthUsecase{}
	h := NewAuthHandler(fake)

	w := postJSON(t, h.Trial, `{"name":`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, fake.trialReqs)
}

func TestLogin_FailureUsesEnvelope(t *testing.T) {
	h := NewAuthHandler(&fakeAuthUsecase{err: errors.New("invalid credentials")})

	w := postJSON(t, h.Login, `{"email":"vera@example.com","password":"wrong"}`)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "invalid credentials", body["error"])
}
