package repository

import (
	"errors"
	"time"

	profiledomain "github.com/wsabol/psychic-chat-poc-sub000/internal/profile/domain"
	"github.com/wsabol/psychic-chat-poc-sub000/pkg/crypto"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BirthChartRepository defines the interface for birth chart storage
type BirthChartRepository interface {
	// GetByUserID returns the user's chart, nil when astrology is not set up
	GetByUserID(userID string) (*profiledomain.BirthChart, error)
	// Save creates or replaces the user's chart
	Save(chart *profiledomain.BirthChart) error
	// DeleteByUserID removes the user's chart
	DeleteByUserID(userID string) error
}

// birthChartRepository implements BirthChartRepository; birth data columns
// go through the cipher on the way in and out
type birthChartRepository struct {
	db     *gorm.DB
	cipher *crypto.Cipher
}

// NewBirthChartRepository creates a new instance of birthChartRepository
func NewBirthChartRepository(db *gorm.DB, cipher *crypto.Cipher) BirthChartRepository {
	return &birthChartRepository{
		db:     db,
		cipher: cipher,
	}
}

func (r *birthChartRepository) GetByUserID(userID string) (*profiledomain.BirthChart, error) {
	var chart profiledomain.BirthChart
	err := r.db.Where("user_id = ?", userID).First(&chart).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	if err := r.decrypt(&chart); err != nil {
		return nil, err
	}
	return &chart, nil
}

func (r *birthChartRepository) Save(chart *profiledomain.BirthChart) error {
	stored := *chart
	if err := r.encrypt(&stored); err != nil {
		return err
	}
	stored.UpdatedAt = time.Now()

	return r.db.Transaction(func(tx *gorm.DB) error {
		var existing profiledomain.BirthChart
		err := tx.Where("user_id = ?", stored.UserID).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			stored.ID = uuid.New().String()
			stored.CreatedAt = time.Now()
			chart.ID = stored.ID
			return tx.Create(&stored).Error
		} else if err != nil {
			return err
		}

		stored.ID = existing.ID
		stored.CreatedAt = existing.CreatedAt
		chart.ID = existing.ID
		return tx.Save(&stored).Error
	})
}

func (r *birthChartRepository) DeleteByUserID(userID string) error {
	return r.db.Where("user_id = ?", userID).Delete(&profiledomain.BirthChart{}).Error
}

func (r *birthChartRepository) encrypt(chart *profiledomain.BirthChart) error {
	var err error
	if chart.BirthDate, err = r.cipher.EncryptString(chart.BirthDate); err != nil {
		return err
	}
	if chart.BirthTime, err = r.cipher.EncryptString(chart.BirthTime); err != nil {
		return err
	}
	if chart.BirthPlace, err = r.cipher.EncryptString(chart.BirthPlace); err != nil {
		return err
	}
	return nil
}

func (r *birthChartRepository) decrypt(chart *profiledomain.BirthChart) error {
	var err error
	if chart.BirthDate, err = r.cipher.DecryptString(chart.BirthDate); err != nil {
		return err
	}
	if chart.BirthTime, err = r.cipher.DecryptString(chart.BirthTime); err != nil {
		return err
	}
	if chart.BirthPlace, err = r.cipher.DecryptString(chart.BirthPlace); err != nil {
		return err
	}
	return nil
}
