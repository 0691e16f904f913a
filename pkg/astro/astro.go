package astro

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Snapshot is the server-computed view of the sky that content prompts
// embed. Low-precision mean-element ephemeris: plenty for prose, not for
// navigation.
type Snapshot struct {
	Timestamp        time.Time
	SunSign          string
	MoonSign         string
	MoonPhase        string
	MoonIllumination float64 // 0..1
	VoidOfCourse     bool
	Planets          []PlanetPosition
}

type PlanetPosition struct {
	Name      string
	Sign      string
	Degree    float64 // degrees into the sign, 0..30
	Longitude float64 // ecliptic longitude, 0..360
}

var zodiacSigns = []string{
	"Aries", "Taurus", "Gemini", "Cancer", "Leo", "Virgo",
	"Libra", "Scorpio", "Sagittarius", "Capricorn", "Aquarius", "Pisces",
}

var moonPhaseNames = []string{
	"New Moon", "Waxing Crescent", "First Quarter", "Waxing Gibbous",
	"Full Moon", "Waning Gibbous", "Last Quarter", "Waning Crescent",
}

// mean orbital elements at J2000: longitude at epoch and daily motion
var planetElements = []struct {
	name   string
	l0     float64
	motion float64
}{
	{"Mercury", 252.251, 4.092339},
	{"Venus", 181.980, 1.602130},
	{"Mars", 355.433, 0.524039},
	{"Jupiter", 34.351, 0.083056},
	{"Saturn", 50.077, 0.033371},
}

// ComputeSnapshot computes the sky snapshot for a given instant.
// Deterministic; no network.
func ComputeSnapshot(t time.Time) Snapshot {
	d := daysSinceJ2000(t)

	sunLon := SunLongitude(t)
	moonLon := MoonLongitude(t)

	phaseAngle := normalizeDegrees(moonLon - sunLon)
	illumination := (1 - math.Cos(phaseAngle*math.Pi/180)) / 2

	planets := make([]PlanetPosition, 0, len(planetElements))
	for _, p := range planetElements {
		lon := normalizeDegrees(p.l0 + p.motion*d)
		planets = append(planets, PlanetPosition{
			Name:      p.name,
			Sign:      ZodiacSign(lon),
			Degree:    math.Mod(lon, 30),
			Longitude: lon,
		})
	}

	return Snapshot{
		Timestamp:        t,
		SunSign:          ZodiacSign(sunLon),
		MoonSign:         ZodiacSign(moonLon),
		MoonPhase:        moonPhaseName(phaseAngle),
		MoonIllumination: illumination,
		VoidOfCourse:     isVoidOfCourse(moonLon),
		Planets:          planets,
	}
}

// SunLongitude returns the sun's apparent ecliptic longitude in degrees.
func SunLongitude(t time.Time) float64 {
	d := daysSinceJ2000(t)
	meanLon := normalizeDegrees(280.460 + 0.9856474*d)
	meanAnomaly := (357.528 + 0.9856003*d) * math.Pi / 180
	return normalizeDegrees(meanLon + 1.915*math.Sin(meanAnomaly) + 0.020*math.Sin(2*meanAnomaly))
}

// MoonLongitude returns the moon's ecliptic longitude in degrees.
func MoonLongitude(t time.Time) float64 {
	d := daysSinceJ2000(t)
	meanLon := normalizeDegrees(218.316 + 13.176396*d)
	meanAnomaly := (134.963 + 13.064993*d) * math.Pi / 180
	return normalizeDegrees(meanLon + 6.289*math.Sin(meanAnomaly))
}

// ZodiacSign maps an ecliptic longitude to its zodiac sign.
func ZodiacSign(longitude float64) string {
	idx := int(normalizeDegrees(longitude)/30) % 12
	return zodiacSigns[idx]
}

func moonPhaseName(phaseAngle float64) string {
	// 8 phases, each 45 degrees wide, centered on the cardinal angles
	idx := int(math.Floor((normalizeDegrees(phaseAngle)+22.5)/45)) % 8
	return moonPhaseNames[idx]
}

// isVoidOfCourse approximates the void-of-course window as the moon
// sitting in the final degrees of a sign, where it typically makes no
// further major aspects before ingress.
func isVoidOfCourse(moonLon float64) bool {
	return math.Mod(normalizeDegrees(moonLon), 30) >= 27
}

// Describe renders the snapshot as prompt-ready prose.
func (s Snapshot) Describe() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Sun in %s. Moon in %s, %s (%.0f%% illuminated).",
		s.SunSign, s.MoonSign, s.MoonPhase, s.MoonIllumination*100)
	if s.VoidOfCourse {
		b.WriteString(" The Moon is void of course.")
	}
	for _, p := range s.Planets {
		fmt.Fprintf(&b, " %s at %.0f° %s.", p.Name, p.Degree, p.Sign)
	}
	return b.String()
}

func daysSinceJ2000(t time.Time) float64 {
	j2000 := time.Date(2000, time.January, 1, 12, 0, 0, 0, time.UTC)
	return t.Sub(j2000).Hours() / 24
}

func normalizeDegrees(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}
