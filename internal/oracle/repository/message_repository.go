package repository

import (
	"time"

	oracledomain "github.com/wsabol/psychic-chat-poc-sub000/internal/oracle/domain"
	"github.com/wsabol/psychic-chat-poc-sub000/pkg/crypto"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MessageRecord is the persisted shape of one chat turn; content columns
// are encrypted.
type MessageRecord struct {
	ID                 string    `gorm:"primaryKey"`
	UserIDHash         string    `gorm:"index;not null"`
	Role               string    `gorm:"type:varchar(16);not null"`
	Content            string    `gorm:"type:text"`
	ContentBrief       string    `gorm:"type:text"`
	CreatedAtLocalDate string    `gorm:"type:varchar(10)"`
	CreatedAtLocal     string    `gorm:"type:varchar(32)"`
	CreatedAt          time.Time
}

func (MessageRecord) TableName() string {
	return "messages"
}

// MessageRepository defines chat message storage
type MessageRepository interface {
	Insert(msg *oracledomain.Message) error
	// ListRecent returns the user's latest messages, oldest first, for
	// prompt history
	ListRecent(userIDHash string, limit int) ([]*oracledomain.Message, error)
	// DeleteByUser removes the user's entire conversation
	DeleteByUser(userIDHash string) error
}

// messageRepository implements MessageRepository interface
type messageRepository struct {
	db     *gorm.DB
	cipher *crypto.Cipher
}

// NewMessageRepository creates a new instance of messageRepository
func NewMessageRepository(db *gorm.DB, cipher *crypto.Cipher) MessageRepository {
	return &messageRepository{
		db:     db,
		cipher: cipher,
	}
}

func (r *messageRepository) Insert(msg *oracledomain.Message) error {
	if msg.ID == "" {
		msg.ID = uuid.New().String()
	}

	content, err := r.cipher.EncryptString(msg.Content)
	if err != nil {
		return err
	}
	brief, err := r.cipher.EncryptString(msg.ContentBrief)
	if err != nil {
		return err
	}

	record := &MessageRecord{
		ID:                 msg.ID,
		UserIDHash:         msg.UserIDHash,
		Role:               msg.Role,
		Content:            content,
		ContentBrief:       brief,
		CreatedAtLocalDate: msg.Stamp.LocalDate,
		CreatedAtLocal:     msg.Stamp.LocalTimestamp,
		CreatedAt:          time.Now(),
	}
	return r.db.Create(record).Error
}

func (r *messageRepository) ListRecent(userIDHash string, limit int) ([]*oracledomain.Message, error) {
	if limit <= 0 {
		limit = 20
	}

	var records []MessageRecord
	err := r.db.
		Where("user_id_hash = ?", userIDHash).
		Order("created_at DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	// Reverse to chronological order for prompt history
	messages := make([]*oracledomain.Message, 0, len(records))
	for i := len(records) - 1; i >= 0; i-- {
		msg, err := r.toDomain(&records[i])
		if err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, nil
}

func (r *messageRepository) DeleteByUser(userIDHash string) error {
	return r.db.Where("user_id_hash = ?", userIDHash).Delete(&MessageRecord{}).Error
}

func (r *messageRepository) toDomain(record *MessageRecord) (*oracledomain.Message, error) {
	content, err := r.cipher.DecryptString(record.Content)
	if err != nil {
		return nil, err
	}
	brief, err := r.cipher.DecryptString(record.ContentBrief)
	if err != nil {
		return nil, err
	}

	return &oracledomain.Message{
		ID:           record.ID,
		UserIDHash:   record.UserIDHash,
		Role:         record.Role,
		Content:      content,
		ContentBrief: brief,
		Stamp: oracledomain.Stamp{
			LocalDate:      record.CreatedAtLocalDate,
			LocalTimestamp: record.CreatedAtLocal,
		},
	}, nil
}
