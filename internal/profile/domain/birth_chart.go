package domain

import "time"

// BirthChart is the user's astrology setup. A user with no BirthChart row
// has "not set up" semantics: horoscopes refuse to generate, moon-phase
// and cosmic-weather readings silently no-op.
//
// Birth data is sensitive; the repository encrypts those columns before
// they reach Postgres.
type BirthChart struct {
	ID     string `json:"id" gorm:"primaryKey"`
	UserID string `json:"user_id" gorm:"uniqueIndex;not null"`

	// Encrypted at rest
	BirthDate  string `json:"birth_date"` // YYYY-MM-DD
	BirthTime  string `json:"birth_time"` // HH:MM, may be empty
	BirthPlace string `json:"birth_place"`

	// Derived placements, computed at save time
	SunSign    string `json:"sun_sign"`
	MoonSign   string `json:"moon_sign"`
	RisingSign string `json:"rising_sign"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (BirthChart) TableName() string {
	return "birth_charts"
}
