package usecase

import (
	"errors"
	"fmt"
	"time"

	authrepo "github.com/wsabol/psychic-chat-poc-sub000/internal/auth/repository"
	profiledomain "github.com/wsabol/psychic-chat-poc-sub000/internal/profile/domain"
	profiledto "github.com/wsabol/psychic-chat-poc-sub000/internal/profile/dto"
	"github.com/wsabol/psychic-chat-poc-sub000/internal/profile/repository"
	"github.com/wsabol/psychic-chat-poc-sub000/pkg/astro"
)

// ProfileUsecase defines profile and birth-chart operations
type ProfileUsecase interface {
	UpdateProfile(userID string, req *profiledto.UpdateProfileRequest) error
	GetBirthChart(userID string) (*profiledomain.BirthChart, error)
	SetBirthChart(userID string, req *profiledto.SetBirthChartRequest) (*profiledomain.BirthChart, error)
	DeleteBirthChart(userID string) error
}

type profileUsecase struct {
	userRepo  authrepo.UserRepository
	chartRepo repository.BirthChartRepository
}

// NewProfileUsecase creates a new instance of profileUsecase
func NewProfileUsecase(userRepo authrepo.UserRepository, chartRepo repository.BirthChartRepository) ProfileUsecase {
	return &profileUsecase{
		userRepo:  userRepo,
		chartRepo: chartRepo,
	}
}

func (u *profileUsecase) UpdateProfile(userID string, req *profiledto.UpdateProfileRequest) error {
	user, err := u.userRepo.FindByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return errors.New("user not found")
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Timezone != "" {
		if _, err := time.LoadLocation(req.Timezone); err != nil {
			return fmt.Errorf("unrecognized timezone %q", req.Timezone)
		}
		user.Timezone = req.Timezone
	}

	return u.userRepo.Update(user)
}

func (u *profileUsecase) GetBirthChart(userID string) (*profiledomain.BirthChart, error) {
	return u.chartRepo.GetByUserID(userID)
}

func (u *profileUsecase) DeleteBirthChart(userID string) error {
	return u.chartRepo.DeleteByUserID(userID)
}

// SetBirthChart stores the birth data and derives the big-three placements
// from the birth instant.
func (u *profileUsecase) SetBirthChart(userID string, req *profiledto.SetBirthChartRequest) (*profiledomain.BirthChart, error) {
	birthTime := req.BirthTime
	if birthTime == "" {
		// Unknown birth time: use solar noon, rising sign stays unknown
		birthTime = "12:00"
	}

	instant, err := time.Parse("2006-01-02 15:04", req.BirthDate+" "+birthTime)
	if err != nil {
		return nil, fmt.Errorf("invalid birth date/time: %w", err)
	}

	chart := &profiledomain.BirthChart{
		UserID:     userID,
		BirthDate:  req.BirthDate,
		BirthTime:  req.BirthTime,
		BirthPlace: req.BirthPlace,
		SunSign:    astro.ZodiacSign(astro.SunLongitude(instant)),
		MoonSign:   astro.ZodiacSign(astro.MoonLongitude(instant)),
	}
	if req.BirthTime != "" {
		// Crude ascendant: the sign rising roughly two hours per sign
		// from the sun's position at local birth time
		hourOffset := float64(instant.Hour()*60+instant.Minute())/60 - 6
		chart.RisingSign = astro.ZodiacSign(astro.SunLongitude(instant) + hourOffset*15)
	}

	if err := u.chartRepo.Save(chart); err != nil {
		return nil, err
	}
	return chart, nil
}
