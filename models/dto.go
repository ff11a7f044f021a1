package models

type CreateItemIn struct {
	Name          string  `json:"name" validate:"required"`
	ClothingType  string  `json:"type" validate:"required"`
	Color         string  `json:"color"`
	Brand         *string `json:"brand"`
	Size          *string `json:"size"`
	Material      *string `json:"material"`
	Season        *string `json:"season"`
	Occasion      *string `json:"occasion"`
	PurchaseDate  *string `json:"purchase_date"`
	Notes         *string `json:"notes"`
	PhotoFileName *string `json:"photo_file_name"`
}

type UpdateItemIn struct {
	Name         *string `json:"name"`
	ClothingType *string `json:"type"`
	Color        *string `json:"color"`
	Brand        *string `json:"brand"`
	Size         *string `json:"size"`
	Material     *string `json:"material"`
	Season       *string `json:"season"`
	Occasion     *string `json:"occasion"`
	PurchaseDate *string `json:"purchase_date"`
	Notes        *string `json:"notes"`
}

type ItemOut struct {
	ClothingItem
	PhotoURL *string `json:"photo_url"`
}

type CreateItemOut struct {
	ItemOut
	PhotoUploadURL *string `json:"photo_upload_url"`
}

type ItemGroupOut struct {
	Tops        []ItemOut `json:"tops"`
	Bottoms     []ItemOut `json:"bottoms"`
	Shoes       []ItemOut `json:"shoes"`
	Outerwear   []ItemOut `json:"outerwear"`
	Accessories []ItemOut `json:"accessories"`
	Other       []ItemOut `json:"other"`
}

type LaundryOut struct {
	DirtyItems   []ItemOut `json:"dirty_items"`
	TotalCount   int64     `json:"total_count"`
	CleanCount   int64     `json:"clean_count"`
	DirtyCount   int64     `json:"dirty_count"`
	CleanPercent float64   `json:"clean_percent"`
	DirtyPercent float64   `json:"dirty_percent"`
}

type CreateOutfitIn struct {
	Name        string  `json:"name" validate:"required"`
	Description *string `json:"description"`
	ItemIds     []uint  `json:"item_ids"`
	TagIds      []uint  `json:"tag_ids"`
}

type UpdateOutfitIn struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Rating      *int    `json:"rating"`
}

type CreateTagIn struct {
	Name     string  `json:"name" validate:"required"`
	Category *string `json:"category"`
}

type AssistantMessageIn struct {
	Message string `json:"message" validate:"required"`
}

type AssistantReplyOut struct {
	Reply    string             `json:"reply"`
	Success  bool               `json:"success"`
	Intent   string             `json:"intent"`
	Proposal *OutfitProposalOut `json:"proposal"`
}

type OutfitProposalOut struct {
	Name     string    `json:"name"`
	Style    string    `json:"style,omitempty"`
	Occasion string    `json:"occasion,omitempty"`
	Season   string    `json:"season,omitempty"`
	Items    []ItemOut `json:"items"`
}

type AssistantHistoryOut struct {
	Turns []ChatTurnOut `json:"turns"`
}

type ChatTurnOut struct {
	Role    string `json:"role"`
	Message string `json:"message"`
}

type ScheduleOutfitIn struct {
	OutfitId uint    `json:"outfit_id" validate:"required"`
	Date     string  `json:"date" validate:"required"` // YYYY-MM-DD
	Notes    *string `json:"notes"`
}

type WearCountOut struct {
	Id        uint   `json:"id"`
	Name      string `json:"name"`
	WearCount int64  `json:"wear_count"`
}

type StatsSummaryOut struct {
	TotalItems       int64 `json:"total_items"`
	TotalOutfits     int64 `json:"total_outfits"`
	TotalWears       int64 `json:"total_wears"`
	NeverWornItems   int64 `json:"never_worn_items"`
	NeverWornOutfits int64 `json:"never_worn_outfits"`
}

type SeasonalOut struct {
	CurrentSeason   string    `json:"current_season"`
	UpcomingSeason  string    `json:"upcoming_season"`
	DaysUntilChange int       `json:"days_until_change"`
	BringOut        []ItemOut `json:"bring_out"`
	StoreAway       []ItemOut `json:"store_away"`
}

type ColorCountOut struct {
	Color string `json:"color"`
	Count int64  `json:"count"`
}

type ColorAnalysisOut struct {
	Distribution []ColorCountOut `json:"distribution"`
	Season       *ColorSeason    `json:"season"`
	Compatible   []ItemOut       `json:"compatible"`
	Clashing     []ItemOut       `json:"clashing"`
}
