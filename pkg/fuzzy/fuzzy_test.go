package fuzzy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevenshteinDistance(t *testing.T) {
	assert.Equal(t, 0, LevenshteinDistance("moon", "moon"))
	assert.Equal(t, 1, LevenshteinDistance("moon", "moan"))
	assert.Equal(t, 4, LevenshteinDistance("", "moon"))
	assert.Equal(t, 3, LevenshteinDistance("kitten", "sitting"))
}

func TestFuzzyMatch(t *testing.T) {
	assert.True(t, FuzzyMatch("moon", "The moon is waxing tonight", 2))
	assert.True(t, FuzzyMatch("mon", "moon phase report", 2), "typo within threshold")
	assert.True(t, FuzzyMatch("horo", "horoscope", 2), "prefix match")
	assert.False(t, FuzzyMatch("jupiter", "The moon is waxing tonight", 2))
}

func TestFuzzyMatchReading(t *testing.T) {
	assert.True(t, FuzzyMatchReading("void", "void_of_course", "", ""), "matches kind label")
	assert.True(t, FuzzyMatchReading("career", "horoscope", "Career breakthrough ahead", ""))
	assert.True(t, FuzzyMatchReading("retrograde", "cosmic_weather", "", "Mercury retrograde clouds communication."))
	assert.False(t, FuzzyMatchReading("swimming", "horoscope", "Career breakthrough ahead", "Mars enters your tenth house."))
}

func TestCalculateRelevanceScore_Ordering(t *testing.T) {
	kindHit := CalculateRelevanceScore("horoscope", "horoscope", "", "")
	briefHit := CalculateRelevanceScore("career", "horoscope", "Career breakthrough", "")
	fullHit := CalculateRelevanceScore("career", "horoscope", "Stars align", "A career change approaches.")
	miss := CalculateRelevanceScore("swimming", "horoscope", "Stars align", "Mars is busy.")

	assert.Greater(t, kindHit, 0.0)
	assert.Greater(t, briefHit, fullHit, "brief matches outrank full-text matches")
	assert.Greater(t, fullHit, 0.0)
	assert.Equal(t, 0.0, miss)
}
