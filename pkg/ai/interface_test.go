package ai

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestParseVariants_WellFormed(t *testing.T) {
	raw := "FULL:\nThe stars favor bold moves today.\nBRIEF:\nBold moves pay off."

	resp := ParseVariants(raw)
	assert.Equal(t, "The stars favor bold moves today.", resp.Full)
	assert.Equal(t, "Bold moves pay off.", resp.Brief)
}

func TestParseVariants_MissingMarkers(t *testing.T) {
	resp := ParseVariants("Just one plain paragraph.")
	assert.Equal(t, "Just one plain paragraph.", resp.Full)
	assert.Equal(t, "Just one plain paragraph.", resp.Brief)
}

func TestParseVariants_LongResponseTruncatesBrief(t *testing.T) {
	raw := strings.Repeat("All signs point to change. ", 30)

	resp := ParseVariants(raw)
	assert.Equal(t, strings.TrimSpace(raw), resp.Full)
	assert.LessOrEqual(t, len(resp.Brief), 210)
	assert.True(t, strings.HasSuffix(resp.Brief, "…"))
}

func TestParseVariants_TruncationKeepsValidUTF8(t *testing.T) {
	// Each rune is three bytes, so a byte-indexed cut would land mid-rune
	raw := strings.Repeat("星", 120)

	resp := ParseVariants(raw)
	assert.True(t, utf8.ValidString(resp.Brief))
	assert.True(t, strings.HasSuffix(resp.Brief, "…"))
	assert.LessOrEqual(t, len(resp.Brief), 200+len("…"))
}

func TestParseVariants_BriefOnlyMarker(t *testing.T) {
	resp := ParseVariants("The long form text.\nBRIEF:\nShort form.")
	assert.Equal(t, "The long form text.", resp.Full)
	assert.Equal(t, "Short form.", resp.Brief)
}
