package domain

import "time"

type User struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Password string `json:"-"` // Never return password in JSON
	Name     string `json:"name"`
	Provider string `json:"provider"` // "email", "google" or "trial"

	// Trial accounts have no full registration; their horoscope is
	// generated once and never regenerated.
	IsTemporary bool `json:"is_temporary"`

	// IANA timezone identifier ("America/Chicago"); empty means UTC
	Timezone string `json:"timezone"`

	TwoFactorEnabled bool      `json:"two_factor_enabled"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type RefreshToken struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// TwoFactorCode is a short-lived one-time code issued at login. Only the
// bcrypt hash is stored.
type TwoFactorCode struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	UserID    string    `json:"user_id" gorm:"index;not null"`
	CodeHash  string    `json:"-" gorm:"not null"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}
