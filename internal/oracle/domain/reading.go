package domain

// ContentKind identifies which type of generated artifact a reading is.
type ContentKind string

const (
	KindHoroscope     ContentKind = "horoscope"
	KindMoonPhase     ContentKind = "moon_phase"
	KindCosmicWeather ContentKind = "cosmic_weather"
	KindVoidOfCourse  ContentKind = "void_of_course"
)

// HoroscopeRange is the horoscope sub-discriminator.
type HoroscopeRange string

const (
	RangeDaily  HoroscopeRange = "daily"
	RangeWeekly HoroscopeRange = "weekly"
)

// Variant is the per-kind half of a reading. One implementation per
// content kind, each carrying only the fields that kind needs, instead of
// nullable shared columns on one table.
type Variant interface {
	Kind() ContentKind
	// SubKey is the secondary discriminator for the regeneration key;
	// empty for kinds that have none.
	SubKey() string
}

type Horoscope struct {
	Range HoroscopeRange `json:"range"`
}

func (h Horoscope) Kind() ContentKind { return KindHoroscope }
func (h Horoscope) SubKey() string    { return string(h.Range) }

type MoonPhase struct {
	Phase string `json:"phase"`
}

func (m MoonPhase) Kind() ContentKind { return KindMoonPhase }
func (m MoonPhase) SubKey() string    { return m.Phase }

type CosmicWeather struct{}

func (CosmicWeather) Kind() ContentKind { return KindCosmicWeather }
func (CosmicWeather) SubKey() string    { return "" }

type VoidOfCourse struct{}

func (VoidOfCourse) Kind() ContentKind { return KindVoidOfCourse }
func (VoidOfCourse) SubKey() string    { return "" }

// RecordKey is the triple half relevant to the regeneration rule: at most
// one fresh reading exists per (user, key) per user-local calendar day.
type RecordKey struct {
	Kind   ContentKind
	SubKey string
}

// Stamp is the generation moment expressed in the user's timezone, taken
// before the LLM call and reused verbatim on the persisted record.
type Stamp struct {
	// LocalDate is the YYYY-MM-DD calendar date in the user's zone.
	// Freshness is exact string equality on this value.
	LocalDate string `json:"local_date"`
	// LocalTimestamp is ISO-8601 with an explicit numeric UTC offset.
	LocalTimestamp string `json:"local_timestamp"`
}

// Content is the generated full/brief text pair.
type Content struct {
	Full  string `json:"full"`
	Brief string `json:"brief"`
}

// Reading is one generated content item for one user. Insert-only: a
// regeneration inserts a new row, never updates an old one.
type Reading struct {
	ID         string  `json:"id"`
	UserIDHash string  `json:"-"`
	Variant    Variant `json:"variant"`
	Content    Content `json:"content"`
	Stamp      Stamp   `json:"stamp"`
}

// Key returns the regeneration key of this reading.
func (r *Reading) Key() RecordKey {
	return RecordKey{Kind: r.Variant.Kind(), SubKey: r.Variant.SubKey()}
}
