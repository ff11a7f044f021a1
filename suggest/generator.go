// Package suggest builds outfit proposals from the wardrobe catalog and
// powers the conversational outfit assistant.
package suggest

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"closetapi/models"
)

// Catalog is the wardrobe view the generator works against.
type Catalog interface {
	ListItems() ([]models.ClothingItem, error)
}

// accessory types get one optional pick each, with this probability
var accessoryTypes = []string{"Accessory", "Jewelry", "Hat", "Scarf", "Belt"}

const accessoryChance = 0.7

type PickedItem struct {
	ItemID uint   `json:"item_id"`
	Name   string `json:"name"`
	Type   string `json:"type"`
	Color  string `json:"color"`
}

// Proposal is a generated outfit candidate, not yet persisted.
type Proposal struct {
	Name     string       `json:"name"`
	Items    []PickedItem `json:"items"`
	Style    string       `json:"style,omitempty"`
	Occasion string       `json:"occasion,omitempty"`
	Season   string       `json:"season,omitempty"`
}

// Result reports success or a soft failure with a displayable message.
type Result struct {
	Success  bool      `json:"success"`
	Message  string    `json:"message"`
	Intent   string    `json:"intent,omitempty"`
	Proposal *Proposal `json:"outfit,omitempty"`
}

type Generator struct {
	Catalog Catalog
	Rand    *rand.Rand
}

// NewGenerator builds a generator over catalog. Pass a seeded rnd for
// deterministic picks, nil for time-seeded behavior.
func NewGenerator(catalog Catalog, rnd *rand.Rand) *Generator {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Generator{Catalog: catalog, Rand: rnd}
}

// Generate assembles an outfit honoring the optional style, occasion and
// season hints. Empty string means no preference on that axis. Season and
// occasion filters are advisory: when they would leave nothing to pick
// from, the unfiltered catalog is used instead.
func (g *Generator) Generate(style, occasion, season string) (Result, error) {
	items, err := g.Catalog.ListItems()
	if err != nil {
		return Result{}, fmt.Errorf("list wardrobe items: %w", err)
	}
	if len(items) == 0 {
		return Result{
			Success: false,
			Message: "No clothing items found in your wardrobe. Please add some items first.",
		}, nil
	}

	if season != "" {
		filtered := filterItems(items, func(it models.ClothingItem) bool {
			if it.Season == nil {
				return false
			}
			s := strings.ToLower(*it.Season)
			return strings.Contains(s, strings.ToLower(season)) || strings.Contains(s, "all-season")
		})
		if len(filtered) > 0 {
			items = filtered
		}
	}

	if occasion != "" {
		filtered := filterItems(items, func(it models.ClothingItem) bool {
			return it.Occasion != nil &&
				strings.Contains(strings.ToLower(*it.Occasion), strings.ToLower(occasion))
		})
		if len(filtered) > 0 {
			items = filtered
		}
	}

	byType := map[string][]models.ClothingItem{}
	for _, it := range items {
		byType[it.ClothingType] = append(byType[it.ClothingType], it)
	}

	var picked []PickedItem
	var described []string
	for _, slot := range slotTable(style) {
		for _, alias := range slot {
			bucket := byType[alias]
			if len(bucket) == 0 {
				continue
			}
			it := bucket[g.Rand.Intn(len(bucket))]
			picked = append(picked, PickedItem{ItemID: it.ID, Name: it.Name, Type: it.ClothingType, Color: it.Color})
			described = append(described, fmt.Sprintf("%s (%s)", it.Name, it.Color))
			break
		}
	}

	for _, accType := range accessoryTypes {
		bucket := byType[accType]
		if len(bucket) == 0 {
			continue
		}
		if g.Rand.Float64() < accessoryChance {
			it := bucket[g.Rand.Intn(len(bucket))]
			picked = append(picked, PickedItem{ItemID: it.ID, Name: it.Name, Type: it.ClothingType, Color: it.Color})
			described = append(described, fmt.Sprintf("%s (%s)", it.Name, it.Color))
		}
	}

	if len(picked) == 0 {
		return Result{
			Success: false,
			Message: "Could not create an outfit with your current clothing items. Please add more items to your wardrobe.",
		}, nil
	}

	name := outfitName(style, occasion, season)

	var msg strings.Builder
	fmt.Fprintf(&msg, "I've created a %s for you with:\n", strings.ToLower(name))
	for _, desc := range described {
		fmt.Fprintf(&msg, "- %s\n", desc)
	}
	if style != "" || occasion != "" || season != "" {
		msg.WriteString("\nThis outfit is suitable for ")
		if style != "" {
			fmt.Fprintf(&msg, "a %s style", strings.ToLower(style))
			if occasion != "" || season != "" {
				msg.WriteString(", ")
			}
		}
		if occasion != "" {
			msg.WriteString(strings.ToLower(occasion))
			if season != "" {
				msg.WriteString(", ")
			}
		}
		if season != "" {
			fmt.Fprintf(&msg, "during %s", strings.ToLower(season))
		}
		msg.WriteString(".")
	}
	msg.WriteString("\n\nYou can save this outfit or generate a new one.")

	return Result{
		Success: true,
		Message: msg.String(),
		Proposal: &Proposal{
			Name:     name,
			Items:    picked,
			Style:    style,
			Occasion: occasion,
			Season:   season,
		},
	}, nil
}

// GenerateFromMessage extracts style/occasion/season hints from free text
// and generates against them.
func (g *Generator) GenerateFromMessage(message string) (Result, error) {
	style, occasion, season := ExtractKeywords(message)
	return g.Generate(style, occasion, season)
}

// slotTable returns the ordered slot groups for a style; each group lists
// acceptable clothing types in preference order. The requested style is
// matched by lowercase substring, unknown styles fall back to casual.
func slotTable(style string) [][]string {
	s := strings.ToLower(style)
	switch {
	case strings.Contains(s, "formal"):
		return [][]string{
			{"Dress Shirt", "Blouse", "Shirt"},
			{"Dress Pants", "Skirt", "Suit Pants"},
			{"Dress Shoes", "Heels"},
			{"Jacket", "Blazer", "Suit Jacket"},
		}
	case strings.Contains(s, "business"):
		return [][]string{
			{"Dress Shirt", "Blouse", "Shirt"},
			{"Dress Pants", "Skirt", "Suit Pants"},
			{"Dress Shoes", "Heels", "Loafers"},
			{"Blazer", "Jacket"},
		}
	case strings.Contains(s, "sporty"), strings.Contains(s, "athletic"):
		return [][]string{
			{"T-shirt", "Tank Top", "Sports Bra"},
			{"Shorts", "Leggings", "Track Pants"},
			{"Sneakers", "Athletic Shoes"},
		}
	case strings.Contains(s, "bohemian"), strings.Contains(s, "boho"):
		return [][]string{
			{"Blouse", "Tunic", "Top"},
			{"Maxi Skirt", "Flowy Pants", "Jeans"},
			{"Sandals", "Boots", "Flats"},
		}
	case strings.Contains(s, "vintage"), strings.Contains(s, "retro"):
		return [][]string{
			{"Blouse", "Shirt", "Top"},
			{"High-Waisted Pants", "Skirt", "Jeans"},
			{"Loafers", "Heels", "Boots"},
		}
	case strings.Contains(s, "minimalist"):
		return [][]string{
			{"Shirt", "T-shirt", "Blouse"},
			{"Pants", "Skirt", "Jeans"},
			{"Sneakers", "Flats", "Boots"},
		}
	default:
		return [][]string{
			{"Shirt", "T-shirt", "Blouse", "Top"},
			{"Pants", "Jeans", "Shorts", "Skirt"},
			{"Shoes", "Sneakers", "Sandals", "Boots"},
		}
	}
}

func outfitName(style, occasion, season string) string {
	var parts []string
	for _, p := range []string{style, occasion, season} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		parts = append(parts, "Everyday")
	}
	parts = append(parts, "Outfit")
	return strings.Join(parts, " ")
}

func filterItems(items []models.ClothingItem, keep func(models.ClothingItem) bool) []models.ClothingItem {
	var out []models.ClothingItem
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}
