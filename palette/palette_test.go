package palette

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeColor(t *testing.T) {
	assert.Equal(t, "Royal Blue", NormalizeColor("  royal blue "))
	assert.Equal(t, "Black", NormalizeColor("BLACK"))
}

func TestItemCompatibility(t *testing.T) {
	seasons := SeedSeasons()
	w := seasons[0]
	require.Equal(t, "Winter", w.Name)

	assert.Equal(t, CompatibilityExcellent, ItemCompatibility("black", w))
	// partial matches work both ways
	assert.Equal(t, CompatibilityExcellent, ItemCompatibility("blue", w))
	assert.Equal(t, CompatibilityPoor, ItemCompatibility("warm brown", w))
	assert.Equal(t, CompatibilityNeutral, ItemCompatibility("chartreuse", w))
	assert.Equal(t, CompatibilityNeutral, ItemCompatibility("", w))
}

func TestOutfitHarmony(t *testing.T) {
	w := SeedSeasons()[0]

	h := OutfitHarmony([]string{"Black", "White", "Navy"}, w)
	assert.Equal(t, 3, h.Excellent)
	assert.InDelta(t, 100.0, h.Score, 0.01)
	assert.Equal(t, "Excellent", h.Level)

	h = OutfitHarmony([]string{"Black", "Chartreuse"}, w)
	assert.InDelta(t, 75.0, h.Score, 0.01)
	assert.Equal(t, "Good", h.Level)

	h = OutfitHarmony([]string{"Orange", "Gold"}, w)
	assert.Equal(t, "Poor", h.Level)

	h = OutfitHarmony(nil, w)
	assert.Equal(t, "N/A", h.Level)
	assert.Zero(t, h.Score)
}

func TestValidSeasonName(t *testing.T) {
	assert.True(t, ValidSeasonName("Autumn"))
	assert.False(t, ValidSeasonName("Fall"))
	assert.False(t, ValidSeasonName("winter"))
}
