package models

import "github.com/lib/pq"

const (
	LaundryClean = "clean"
	LaundryDirty = "dirty"
)

type ClothingItem struct {
	JsonModel
	Name         string      `json:"name"`
	ClothingType string      `json:"type"` // e.g. Shirt, Jeans, Sneakers
	Color        string      `json:"color"`
	Brand        *string     `json:"brand"`
	Size         *string     `json:"size"`
	Material     *string     `json:"material"`
	Season       *string     `json:"season"`   // Summer, Winter, ... or "All-Season"
	Occasion     *string     `json:"occasion"` // Casual, Work, Formal, ...
	PurchaseDate *string     `json:"purchase_date"`
	Notes        *string     `gorm:"type:text" json:"notes"`
	Owner        UserAccount `json:"-"`
	OwnerID      uint        `json:"-"`

	LaundryStatus string `gorm:"default:clean" json:"laundry_status"`

	// photo pipeline
	PhotoKey         *string `json:"-"`
	PhotoStatus      string  `json:"photo_status"`      // draft, uploaded
	ProcessingStatus string  `json:"processing_status"` // idle, analyzing, completed, failed
	AnalysisRetries  int     `json:"-"`

	// filled by the photo analysis worker
	SuggestedName  *string `json:"suggested_name"`
	SuggestedType  *string `json:"suggested_type"`
	SuggestedColor *string `json:"suggested_color"`
}

type Outfit struct {
	JsonModel
	Name        string         `json:"name"`
	Description *string        `gorm:"type:text" json:"description"`
	Rating      *int           `json:"rating"` // 1..5
	Owner       UserAccount    `json:"-"`
	OwnerID     uint           `json:"-"`
	Items       []ClothingItem `gorm:"many2many:outfit_items;" json:"items"`
	Tags        []Tag          `gorm:"many2many:outfit_tags;" json:"tags"`
}

type TagCategory struct {
	JsonModel
	Name string `gorm:"unique" json:"name"` // Style, Occasion, Season
	Tags []Tag  `json:"tags"`
}

type Tag struct {
	JsonModel
	Name          string       `json:"name"`
	TagCategoryID *uint        `json:"category_id"`
	TagCategory   *TagCategory `json:"-"`
}

// CalendarEntry schedules an outfit for a calendar day. Date is YYYY-MM-DD.
type CalendarEntry struct {
	JsonModel
	OutfitID uint        `json:"outfit_id"`
	Outfit   Outfit      `json:"outfit"`
	OwnerID  uint        `json:"-"`
	Owner    UserAccount `json:"-"`
	Date     string      `gorm:"index" json:"date"`
	Notes    *string     `json:"notes"`
}

type WearRecord struct {
	JsonModel
	OutfitID uint   `json:"outfit_id"`
	Outfit   Outfit `json:"outfit"`
	OwnerID  uint   `json:"-"`
	Date     string `json:"date"`
}

type ItemWearRecord struct {
	JsonModel
	ClothingItemID uint         `json:"item_id"`
	ClothingItem   ClothingItem `json:"item"`
	OutfitID       uint         `json:"outfit_id"`
	OwnerID        uint         `json:"-"`
	Date           string       `json:"date"`
}

// ColorSeason rows are seeded at migration and shared by all users.
type ColorSeason struct {
	JsonModel
	Name            string         `gorm:"unique" json:"name"`
	Description     string         `json:"description"`
	Characteristics string         `json:"characteristics"`
	BestColors      pq.StringArray `gorm:"type:text[]" json:"best_colors"`
	AvoidColors     pq.StringArray `gorm:"type:text[]" json:"avoid_colors"`
}

// SeasonalNotice marks a transition alert as sent so the scheduler
// does not notify twice for the same season.
type SeasonalNotice struct {
	JsonModel
	Season string `json:"season"`
	Year   int    `json:"year"`
}
