package repository

import (
	"errors"
	"time"

	authdomain "github.com/wsabol/psychic-chat-poc-sub000/internal/auth/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TwoFactorRepository defines the interface for one-time login codes
type TwoFactorRepository interface {
	// SaveCode replaces any outstanding code for the user
	SaveCode(userID, codeHash string, expiresAt time.Time) error
	// FindActiveCode returns the user's unexpired code, nil when none
	FindActiveCode(userID string) (*authdomain.TwoFactorCode, error)
	// ConsumeCode deletes the code after successful verification
	ConsumeCode(id string) error
}

// twoFactorRepository implements TwoFactorRepository interface
type twoFactorRepository struct {
	db *gorm.DB
}

// NewTwoFactorRepository creates a new instance of twoFactorRepository
func NewTwoFactorRepository(db *gorm.DB) TwoFactorRepository {
	return &twoFactorRepository{
		db: db,
	}
}

func (r *twoFactorRepository) SaveCode(userID, codeHash string, expiresAt time.Time) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		// One outstanding code per user
		if err := tx.Where("user_id = ?", userID).Delete(&authdomain.TwoFactorCode{}).Error; err != nil {
			return err
		}
		code := &authdomain.TwoFactorCode{
			ID:        uuid.New().String(),
			UserID:    userID,
			CodeHash:  codeHash,
			ExpiresAt: expiresAt,
			CreatedAt: time.Now(),
		}
		return tx.Create(code).Error
	})
}

func (r *twoFactorRepository) FindActiveCode(userID string) (*authdomain.TwoFactorCode, error) {
	var code authdomain.TwoFactorCode
	err := r.db.Where("user_id = ? AND expires_at > ?", userID, time.Now()).First(&code).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &code, nil
}

func (r *twoFactorRepository) ConsumeCode(id string) error {
	return r.db.Where("id = ?", id).Delete(&authdomain.TwoFactorCode{}).Error
}
