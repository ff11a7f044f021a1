// Package palette implements personal color season analysis for wardrobe
// items and outfits.
package palette

import (
	"fmt"
	"strings"

	"closetapi/models"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// NormalizeColor canonicalizes free-text color names ("royal blue" ->
// "Royal Blue") so distribution buckets line up.
func NormalizeColor(color string) string {
	return titleCaser.String(strings.ToLower(strings.TrimSpace(color)))
}

// SeedSeasons returns the four canonical color seasons; dbhelper inserts
// them at migration time.
func SeedSeasons() []models.ColorSeason {
	return []models.ColorSeason{
		{
			Name:            "Winter",
			Description:     "Clear, cool, and high-contrast colors",
			Characteristics: "High contrast between skin, hair, and eyes. Often has cool undertones.",
			BestColors:      []string{"Black", "White", "Navy", "Royal Blue", "Ice Blue", "Purple", "Magenta", "Red", "Emerald Green"},
			AvoidColors:     []string{"Orange", "Warm Brown", "Gold", "Olive Green", "Beige", "Ivory"},
		},
		{
			Name:            "Summer",
			Description:     "Soft, cool, and muted colors",
			Characteristics: "Low to medium contrast between skin, hair, and eyes. Cool undertones with soft appearance.",
			BestColors:      []string{"Lavender", "Mauve", "Powder Blue", "Slate Blue", "Rose Pink", "Soft Fuchsia", "Periwinkle", "Sage Green"},
			AvoidColors:     []string{"Black", "Orange", "Bright Yellow", "Tomato Red", "Bright Gold"},
		},
		{
			Name:            "Spring",
			Description:     "Warm, clear, and bright colors",
			Characteristics: "Low to medium contrast with warm, golden undertones. Often has golden highlights in hair.",
			BestColors:      []string{"Peach", "Coral", "Golden Yellow", "Warm Green", "Aqua", "Light Turquoise", "Ivory", "Camel"},
			AvoidColors:     []string{"Black", "Navy", "Burgundy", "Gray", "Plum"},
		},
		{
			Name:            "Autumn",
			Description:     "Warm, muted, and rich colors",
			Characteristics: "Medium contrast with warm, earthy undertones. Often has golden or reddish tones in hair.",
			BestColors:      []string{"Olive Green", "Rust", "Terracotta", "Warm Brown", "Gold", "Mustard Yellow", "Teal", "Warm Burgundy"},
			AvoidColors:     []string{"Black", "Fuchsia", "Icy Blue", "Bright White", "Cool Pink"},
		},
	}
}

func ValidSeasonName(name string) bool {
	switch name {
	case "Winter", "Summer", "Spring", "Autumn":
		return true
	}
	return false
}

const (
	CompatibilityExcellent = "Excellent"
	CompatibilityNeutral   = "Neutral"
	CompatibilityPoor      = "Poor"
)

// ItemCompatibility rates a single color against a color season. Colors
// match loosely in both directions ("blue" matches "Royal Blue").
func ItemCompatibility(color string, season models.ColorSeason) string {
	c := strings.ToLower(strings.TrimSpace(color))
	if c == "" {
		return CompatibilityNeutral
	}
	if matchesAny(c, season.BestColors) {
		return CompatibilityExcellent
	}
	if matchesAny(c, season.AvoidColors) {
		return CompatibilityPoor
	}
	return CompatibilityNeutral
}

func CompatibilityMessage(color, seasonName, verdict string) string {
	c := strings.ToLower(color)
	switch verdict {
	case CompatibilityExcellent:
		return fmt.Sprintf("This %s item is an excellent match for your %s color palette!", c, seasonName)
	case CompatibilityPoor:
		return fmt.Sprintf("This %s item may not be the best match for your %s color palette.", c, seasonName)
	default:
		return fmt.Sprintf("This %s item is a neutral match for your %s color palette.", c, seasonName)
	}
}

type Harmony struct {
	Score     float64 `json:"harmony_score"`
	Level     string  `json:"harmony_level"`
	Excellent int     `json:"excellent_count"`
	Neutral   int     `json:"neutral_count"`
	Poor      int     `json:"poor_count"`
	Total     int     `json:"total_items"`
}

// OutfitHarmony scores a set of item colors against a color season:
// excellent picks are worth 100, neutral 50, poor 0, averaged over the
// outfit.
func OutfitHarmony(colors []string, season models.ColorSeason) Harmony {
	h := Harmony{Total: len(colors), Level: "N/A"}
	if h.Total == 0 {
		return h
	}
	for _, color := range colors {
		switch ItemCompatibility(color, season) {
		case CompatibilityExcellent:
			h.Excellent++
		case CompatibilityPoor:
			h.Poor++
		default:
			h.Neutral++
		}
	}
	h.Score = float64(h.Excellent*100+h.Neutral*50) / float64(h.Total)
	switch {
	case h.Score >= 80:
		h.Level = "Excellent"
	case h.Score >= 60:
		h.Level = "Good"
	case h.Score >= 40:
		h.Level = "Fair"
	default:
		h.Level = "Poor"
	}
	return h
}

func matchesAny(color string, list []string) bool {
	for _, candidate := range list {
		cl := strings.ToLower(candidate)
		if strings.Contains(cl, color) || strings.Contains(color, cl) {
			return true
		}
	}
	return false
}
