package repository

import (
	"errors"
	"fmt"
	"time"

	oracledomain "github.com/wsabol/psychic-chat-poc-sub000/internal/oracle/domain"
	"github.com/wsabol/psychic-chat-poc-sub000/pkg/crypto"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReadingRecord is the persisted shape of a reading. The domain's tagged
// union is flattened into (kind, sub_key) columns here and rebuilt on the
// way out; content columns are encrypted.
type ReadingRecord struct {
	ID                 string    `gorm:"primaryKey"`
	UserIDHash         string    `gorm:"index:idx_reading_key,priority:1;not null"`
	Kind               string    `gorm:"index:idx_reading_key,priority:2;not null"`
	SubKey             string    `gorm:"index:idx_reading_key,priority:3"`
	CreatedAtLocalDate string    `gorm:"type:varchar(10);not null"`
	CreatedAtLocal     string    `gorm:"type:varchar(32);not null"` // ISO-8601 with numeric offset
	ContentFull        string    `gorm:"type:text"`
	ContentBrief       string    `gorm:"type:text"`
	CreatedAt          time.Time // server insert time, not used by the freshness rule
}

func (ReadingRecord) TableName() string {
	return "readings"
}

// ReadingRepository defines reading storage. Insert-only by design.
type ReadingRepository interface {
	// Insert persists a new reading and assigns its ID
	Insert(reading *oracledomain.Reading) error
	// LatestByKey returns the most recent reading for the key, nil when none
	LatestByKey(userIDHash string, key oracledomain.RecordKey) (*oracledomain.Reading, error)
	// ListByUser returns the user's most recent readings, newest first
	ListByUser(userIDHash string, limit int) ([]*oracledomain.Reading, error)
	// GetByIDs returns readings by ID, restricted to the given user
	GetByIDs(userIDHash string, ids []string) ([]*oracledomain.Reading, error)
	// DeleteByUser removes all of the user's readings and returns the
	// deleted IDs so callers can clean up derived stores
	DeleteByUser(userIDHash string) ([]string, error)
}

// readingRepository implements ReadingRepository interface
type readingRepository struct {
	db     *gorm.DB
	cipher *crypto.Cipher
}

// NewReadingRepository creates a new instance of readingRepository
func NewReadingRepository(db *gorm.DB, cipher *crypto.Cipher) ReadingRepository {
	return &readingRepository{
		db:     db,
		cipher: cipher,
	}
}

func (r *readingRepository) Insert(reading *oracledomain.Reading) error {
	if reading.ID == "" {
		reading.ID = uuid.New().String()
	}

	full, err := r.cipher.EncryptString(reading.Content.Full)
	if err != nil {
		return err
	}
	brief, err := r.cipher.EncryptString(reading.Content.Brief)
	if err != nil {
		return err
	}

	record := &ReadingRecord{
		ID:                 reading.ID,
		UserIDHash:         reading.UserIDHash,
		Kind:               string(reading.Variant.Kind()),
		SubKey:             reading.Variant.SubKey(),
		CreatedAtLocalDate: reading.Stamp.LocalDate,
		CreatedAtLocal:     reading.Stamp.LocalTimestamp,
		ContentFull:        full,
		ContentBrief:       brief,
		CreatedAt:          time.Now(),
	}
	return r.db.Create(record).Error
}

func (r *readingRepository) LatestByKey(userIDHash string, key oracledomain.RecordKey) (*oracledomain.Reading, error) {
	var record ReadingRecord
	err := r.db.
		Where("user_id_hash = ? AND kind = ? AND sub_key = ?", userIDHash, string(key.Kind), key.SubKey).
		Order("created_at DESC").
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.toDomain(&record)
}

func (r *readingRepository) ListByUser(userIDHash string, limit int) ([]*oracledomain.Reading, error) {
	if limit <= 0 {
		limit = 50
	}

	var records []ReadingRecord
	err := r.db.
		Where("user_id_hash = ?", userIDHash).
		Order("created_at DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	readings := make([]*oracledomain.Reading, 0, len(records))
	for i := range records {
		reading, err := r.toDomain(&records[i])
		if err != nil {
			return nil, err
		}
		readings = append(readings, reading)
	}
	return readings, nil
}

func (r *readingRepository) GetByIDs(userIDHash string, ids []string) ([]*oracledomain.Reading, error) {
	if len(ids) == 0 {
		return []*oracledomain.Reading{}, nil
	}

	var records []ReadingRecord
	err := r.db.
		Where("user_id_hash = ? AND id IN ?", userIDHash, ids).
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	readings := make([]*oracledomain.Reading, 0, len(records))
	for i := range records {
		reading, err := r.toDomain(&records[i])
		if err != nil {
			return nil, err
		}
		readings = append(readings, reading)
	}
	return readings, nil
}

func (r *readingRepository) DeleteByUser(userIDHash string) ([]string, error) {
	var ids []string
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&ReadingRecord{}).
			Where("user_id_hash = ?", userIDHash).
			Pluck("id", &ids).Error; err != nil {
			return err
		}
		return tx.Where("user_id_hash = ?", userIDHash).Delete(&ReadingRecord{}).Error
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *readingRepository) toDomain(record *ReadingRecord) (*oracledomain.Reading, error) {
	variant, err := variantFromColumns(record.Kind, record.SubKey)
	if err != nil {
		return nil, err
	}

	full, err := r.cipher.DecryptString(record.ContentFull)
	if err != nil {
		return nil, err
	}
	brief, err := r.cipher.DecryptString(record.ContentBrief)
	if err != nil {
		return nil, err
	}

	return &oracledomain.Reading{
		ID:         record.ID,
		UserIDHash: record.UserIDHash,
		Variant:    variant,
		Content:    oracledomain.Content{Full: full, Brief: brief},
		Stamp: oracledomain.Stamp{
			LocalDate:      record.CreatedAtLocalDate,
			LocalTimestamp: record.CreatedAtLocal,
		},
	}, nil
}

func variantFromColumns(kind, subKey string) (oracledomain.Variant, error) {
	switch oracledomain.ContentKind(kind) {
	case oracledomain.KindHoroscope:
		return oracledomain.Horoscope{Range: oracledomain.HoroscopeRange(subKey)}, nil
	case oracledomain.KindMoonPhase:
		return oracledomain.MoonPhase{Phase: subKey}, nil
	case oracledomain.KindCosmicWeather:
		return oracledomain.CosmicWeather{}, nil
	case oracledomain.KindVoidOfCourse:
		return oracledomain.VoidOfCourse{}, nil
	default:
		return nil, fmt.Errorf("unknown content kind %q", kind)
	}
}
