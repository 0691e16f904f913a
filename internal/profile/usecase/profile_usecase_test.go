package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authdomain "github.com/wsabol/psychic-chat-poc-sub000/internal/auth/domain"
	profiledomain "github.com/wsabol/psychic-chat-poc-sub000/internal/profile/domain"
	profiledto "github.com/wsabol/psychic-chat-poc-sub000/internal/profile/dto"
)

type fakeUserRepo struct {
	users map[string]*authdomain.User
}

func (f *fakeUserRepo) Create(user *authdomain.User) error {
	f.users[user.ID] = user
	return nil
}
func (f *fakeUserRepo) FindByEmail(email string) (*authdomain.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}
func (f *fakeUserRepo) FindByID(id string) (*authdomain.User, error) { return f.users[id], nil }
func (f *fakeUserRepo) Update(user *authdomain.User) error {
	f.users[user.ID] = user
	return nil
}
func (f *fakeUserRepo) SaveRefreshToken(*authdomain.RefreshToken) error { return nil }
func (f *fakeUserRepo) FindRefreshToken(string) (*authdomain.RefreshToken, error) {
	return nil, nil
}
func (f *fakeUserRepo) DeleteRefreshToken(string) error        { return nil }
func (f *fakeUserRepo) DeleteRefreshTokensByUser(string) error { return nil }
func (f *fakeUserRepo) Delete(id string) error {
	delete(f.users, id)
	return nil
}

type fakeChartRepo struct {
	charts map[string]*profiledomain.BirthChart
}

func (f *fakeChartRepo) GetByUserID(userID string) (*profiledomain.BirthChart, error) {
	return f.charts[userID], nil
}
func (f *fakeChartRepo) Save(chart *profiledomain.BirthChart) error {
	f.charts[chart.UserID] = chart
	return nil
}
func (f *fakeChartRepo) DeleteByUserID(userID string) error {
	delete(f.charts, userID)
	return nil
}

func newTestProfileUsecase() (ProfileUsecase, *fakeUserRepo, *fakeChartRepo) {
	userRepo := &fakeUserRepo{users: make(map[string]*authdomain.User)}
	chartRepo := &fakeChartRepo{charts: make(map[string]*profiledomain.BirthChart)}
	return NewProfileUsecase(userRepo, chartRepo), userRepo, chartRepo
}

func TestUpdateProfile_ValidatesTimezone(t *testing.T) {
	uc, userRepo, _ := newTestProfileUsecase()
	userRepo.users["u1"] = &authdomain.User{ID: "u1", Name: "Vera", Timezone: "UTC"}

	err := uc.UpdateProfile("u1", &profiledto.UpdateProfileRequest{Timezone: "Nowhere/Special"})
	assert.Error(t, err)
	assert.Equal(t, "UTC", userRepo.users["u1"].Timezone)

	err = uc.UpdateProfile("u1", &profiledto.UpdateProfileRequest{Timezone: "Asia/Tokyo", Name: "V"})
	require.NoError(t, err)
	assert.Equal(t, "Asia/Tokyo", userRepo.users["u1"].Timezone)
	assert.Equal(t, "V", userRepo.users["u1"].Name)
}

func TestSetBirthChart_DerivesPlacements(t *testing.T) {
	uc, _, chartRepo := newTestProfileUsecase()

	chart, err := uc.SetBirthChart("u1", &profiledto.SetBirthChartRequest{
		BirthDate:  "1990-08-10",
		BirthTime:  "14:30",
		BirthPlace: "Lisbon, Portugal",
	})
	require.NoError(t, err)
	assert.Equal(t, "Leo", chart.SunSign)
	assert.NotEmpty(t, chart.MoonSign)
	assert.NotEmpty(t, chart.RisingSign)
	assert.Equal(t, chart, chartRepo.charts["u1"])
}

func TestSetBirthChart_UnknownBirthTime(t *testing.T) {
	uc, _, _ := newTestProfileUsecase()

	chart, err := uc.SetBirthChart("u1", &profiledto.SetBirthChartRequest{
		BirthDate:  "1990-01-20",
		BirthPlace: "Oslo, Norway",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, chart.SunSign)
	assert.Empty(t, chart.RisingSign, "rising sign needs a birth time")
	assert.Empty(t, chart.BirthTime)
}

func TestSetBirthChart_RejectsBadDate(t *testing.T) {
	uc, _, _ := newTestProfileUsecase()

	_, err := uc.SetBirthChart("u1", &profiledto.SetBirthChartRequest{
		BirthDate:  "not-a-date",
		BirthPlace: "Anywhere",
	})
	assert.Error(t, err)
}
