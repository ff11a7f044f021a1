package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"time"

	"closetapi/models"
	"closetapi/palette"
	"closetapi/services"
	"closetapi/tasks"

	firebase "firebase.google.com/go/v4"
	"github.com/getsentry/sentry-go"
	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type FeaturesController struct {
	FirebaseApp *firebase.App
	AWSService  services.AWSServiceProvider
	URLCache    services.URLCacheServiceProvider
}

func (controller *FeaturesController) FeatureRoutes(g *echo.Group) {
	g.POST("/calendar", controller.ScheduleOutfit)
	g.GET("/calendar/today", controller.TodayOutfits)
	g.GET("/calendar/upcoming", controller.UpcomingOutfits)
	g.DELETE("/calendar/:id", controller.UnscheduleOutfit)
	g.POST("/outfits/:id/wear", controller.RecordWear)

	g.GET("/stats/summary", controller.StatsSummary)
	g.GET("/stats/most-worn-items", controller.MostWornItems)
	g.GET("/stats/least-worn-items", controller.LeastWornItems)
	g.GET("/stats/most-worn-outfits", controller.MostWornOutfits)
	g.GET("/stats/top-rated-outfits", controller.TopRatedOutfits)

	g.GET("/seasonal", controller.SeasonalRotation)

	g.GET("/colors/distribution", controller.ColorDistribution)
	g.GET("/colors/seasons", controller.ListColorSeasons)
	g.GET("/colors/analysis", controller.ColorAnalysis)
}

func (controller *FeaturesController) itemsHelper() ItemsController {
	return ItemsController{AWSService: controller.AWSService, URLCache: controller.URLCache}
}

func validDate(date string) bool {
	_, err := time.Parse("2006-01-02", date)
	return err == nil
}

func (controller *FeaturesController) ScheduleOutfit(c echo.Context) error {
	var req models.ScheduleOutfitIn
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	if !validDate(req.Date) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Date must be in YYYY-MM-DD format"})
	}

	user := c.Get("currentUser").(models.UserAccount)
	db := c.Get("__db").(*gorm.DB)

	var outfit models.Outfit
	result := db.Where("id = ? AND owner_id = ?", req.OutfitId, user.ID).Take(&outfit)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Outfit not found"})
	}
	if result.Error != nil {
		sentry.CaptureException(result.Error)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch outfit"})
	}

	entry := models.CalendarEntry{
		OutfitID: outfit.ID,
		OwnerID:  user.ID,
		Date:     req.Date,
		Notes:    req.Notes,
	}
	if err := db.Create(&entry).Error; err != nil {
		sentry.CaptureException(err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to schedule outfit"})
	}
	entry.Outfit = outfit
	return c.JSON(http.StatusCreated, entry)
}

func (controller *FeaturesController) TodayOutfits(c echo.Context) error {
	user := c.Get("currentUser").(models.UserAccount)
	db := c.Get("__db").(*gorm.DB)

	today := time.Now().Format("2006-01-02")
	var entries []models.CalendarEntry
	if err := db.Where("owner_id = ? AND date = ?", user.ID, today).
		Preload("Outfit.Items").Preload("Outfit.Tags").
		Order("id").Find(&entries).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch calendar"})
	}
	return c.JSON(http.StatusOK, entries)
}

func (controller *FeaturesController) UpcomingOutfits(c echo.Context) error {
	user := c.Get("currentUser").(models.UserAccount)
	db := c.Get("__db").(*gorm.DB)

	days := 7
	if raw := c.QueryParam("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid days"})
		}
		days = parsed
	}
	now := time.Now()
	from := now.Format("2006-01-02")
	to := now.AddDate(0, 0, days).Format("2006-01-02")

	var entries []models.CalendarEntry
	if err := db.Where("owner_id = ? AND date >= ? AND date <= ?", user.ID, from, to).
		Preload("Outfit.Items").Preload("Outfit.Tags").
		Order("date").Find(&entries).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch calendar"})
	}
	return c.JSON(http.StatusOK, entries)
}

func (controller *FeaturesController) UnscheduleOutfit(c echo.Context) error {
	user := c.Get("currentUser").(models.UserAccount)
	db := c.Get("__db").(*gorm.DB)

	var entry models.CalendarEntry
	result := db.Where("id = ? AND owner_id = ?", c.Param("id"), user.ID).Take(&entry)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Calendar entry not found"})
	}
	if result.Error != nil {
		sentry.CaptureException(result.Error)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch calendar entry"})
	}
	if err := db.Delete(&entry).Error; err != nil {
		sentry.CaptureException(err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to delete calendar entry"})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "deleted"})
}

// RecordWear stores a wear record and hands the laundry bookkeeping to the
// worker queue.
func (controller *FeaturesController) RecordWear(c echo.Context) error {
	user := c.Get("currentUser").(models.UserAccount)
	db := c.Get("__db").(*gorm.DB)
	asynqClient, ok := c.Get("__asynqclient").(*asynq.Client)
	if !ok {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Service is not available, please try again a bit later"})
	}

	var outfit models.Outfit
	result := db.Where("id = ? AND owner_id = ?", c.Param("id"), user.ID).Take(&outfit)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Outfit not found"})
	}
	if result.Error != nil {
		sentry.CaptureException(result.Error)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch outfit"})
	}

	date := c.QueryParam("date")
	if date == "" {
		date = time.Now().Format("2006-01-02")
	} else if !validDate(date) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Date must be in YYYY-MM-DD format"})
	}

	record := models.WearRecord{OutfitID: outfit.ID, OwnerID: user.ID, Date: date}
	if err := db.Create(&record).Error; err != nil {
		sentry.CaptureException(err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to record wear"})
	}

	task, err := tasks.NewWearRecordedTask(outfit.ID, user.ID, date)
	if err != nil {
		sentry.CaptureException(err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Sorry, could not process wear, please try again"})
	}
	info, err := asynqClient.Enqueue(task, asynq.MaxRetry(3), asynq.Queue("generate"))
	if err != nil {
		sentry.CaptureException(err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Sorry, could not process wear, please try again"})
	}
	fmt.Println("[Queue] Wear recorded task submitted, Outfit ID: ", outfit.ID, " Task ID: ", info.ID)

	return c.JSON(http.StatusCreated, record)
}

func (controller *FeaturesController) StatsSummary(c echo.Context) error {
	user := c.Get("currentUser").(models.UserAccount)
	db := c.Get("__db").(*gorm.DB)

	var out models.StatsSummaryOut
	if err := db.Model(&models.ClothingItem{}).Where("owner_id = ?", user.ID).Count(&out.TotalItems).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch stats"})
	}
	if err := db.Model(&models.Outfit{}).Where("owner_id = ?", user.ID).Count(&out.TotalOutfits).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch stats"})
	}
	if err := db.Model(&models.WearRecord{}).Where("owner_id = ?", user.ID).Count(&out.TotalWears).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch stats"})
	}
	if err := db.Model(&models.ClothingItem{}).
		Where("owner_id = ? AND id NOT IN (?)", user.ID,
			db.Model(&models.ItemWearRecord{}).Select("clothing_item_id").Where("owner_id = ?", user.ID)).
		Count(&out.NeverWornItems).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch stats"})
	}
	if err := db.Model(&models.Outfit{}).
		Where("owner_id = ? AND id NOT IN (?)", user.ID,
			db.Model(&models.WearRecord{}).Select("outfit_id").Where("owner_id = ?", user.ID)).
		Count(&out.NeverWornOutfits).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch stats"})
	}
	return c.JSON(http.StatusOK, out)
}

func statsLimit(c echo.Context) int {
	limit := 5
	if raw := c.QueryParam("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	return limit
}

func (controller *FeaturesController) MostWornItems(c echo.Context) error {
	return controller.itemWearRanking(c, "DESC")
}

func (controller *FeaturesController) LeastWornItems(c echo.Context) error {
	return controller.itemWearRanking(c, "ASC")
}

func (controller *FeaturesController) itemWearRanking(c echo.Context, direction string) error {
	user := c.Get("currentUser").(models.UserAccount)
	db := c.Get("__db").(*gorm.DB)

	var rows []models.WearCountOut
	err := db.Model(&models.ClothingItem{}).
		Select("clothing_items.id as id, clothing_items.name as name, COUNT(item_wear_records.id) as wear_count").
		Joins("LEFT JOIN item_wear_records ON item_wear_records.clothing_item_id = clothing_items.id").
		Where("clothing_items.owner_id = ?", user.ID).
		Group("clothing_items.id").
		Order("wear_count " + direction).
		Limit(statsLimit(c)).
		Scan(&rows).Error
	if err != nil {
		sentry.CaptureException(err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch stats"})
	}
	return c.JSON(http.StatusOK, rows)
}

func (controller *FeaturesController) MostWornOutfits(c echo.Context) error {
	user := c.Get("currentUser").(models.UserAccount)
	db := c.Get("__db").(*gorm.DB)

	var rows []models.WearCountOut
	err := db.Model(&models.Outfit{}).
		Select("outfits.id as id, outfits.name as name, COUNT(wear_records.id) as wear_count").
		Joins("LEFT JOIN wear_records ON wear_records.outfit_id = outfits.id").
		Where("outfits.owner_id = ?", user.ID).
		Group("outfits.id").
		Order("wear_count DESC").
		Limit(statsLimit(c)).
		Scan(&rows).Error
	if err != nil {
		sentry.CaptureException(err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch stats"})
	}
	return c.JSON(http.StatusOK, rows)
}

func (controller *FeaturesController) TopRatedOutfits(c echo.Context) error {
	user := c.Get("currentUser").(models.UserAccount)
	db := c.Get("__db").(*gorm.DB)

	var outfits []models.Outfit
	if err := db.Where("owner_id = ? AND rating IS NOT NULL", user.ID).
		Preload("Items").Preload("Tags").
		Order("rating DESC, id").
		Limit(statsLimit(c)).Find(&outfits).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch stats"})
	}
	return c.JSON(http.StatusOK, outfits)
}

// SeasonalRotation reports the upcoming season change and which items to
// bring out of or move into storage.
func (controller *FeaturesController) SeasonalRotation(c echo.Context) error {
	user := c.Get("currentUser").(models.UserAccount)
	db := c.Get("__db").(*gorm.DB)

	now := time.Now()
	current := services.CurrentSeason(now)
	upcoming, _, daysUntil := services.UpcomingSeason(now)

	var bringOut []models.ClothingItem
	if err := db.Where("owner_id = ? AND season ILIKE ?", user.ID, "%"+upcoming+"%").
		Order("id").Find(&bringOut).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch items"})
	}
	var storeAway []models.ClothingItem
	if err := db.Where("owner_id = ? AND season ILIKE ? AND season NOT ILIKE ? AND season NOT ILIKE ?",
		user.ID, "%"+current+"%", "%"+upcoming+"%", "%all-season%").
		Order("id").Find(&storeAway).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch items"})
	}

	items := controller.itemsHelper()
	return c.JSON(http.StatusOK, models.SeasonalOut{
		CurrentSeason:   current,
		UpcomingSeason:  upcoming,
		DaysUntilChange: daysUntil,
		BringOut:        items.populatePresignedItemPhotos(c.Request().Context(), bringOut),
		StoreAway:       items.populatePresignedItemPhotos(c.Request().Context(), storeAway),
	})
}

func (controller *FeaturesController) colorDistribution(db *gorm.DB, userID uint) ([]models.ColorCountOut, error) {
	var items []models.ClothingItem
	if err := db.Where("owner_id = ?", userID).Find(&items).Error; err != nil {
		return nil, err
	}
	counts := map[string]int64{}
	for _, item := range items {
		if item.Color == "" {
			continue
		}
		counts[palette.NormalizeColor(item.Color)]++
	}
	out := []models.ColorCountOut{}
	for color, count := range counts {
		out = append(out, models.ColorCountOut{Color: color, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Color < out[j].Color
	})
	return out, nil
}

func (controller *FeaturesController) ColorDistribution(c echo.Context) error {
	user := c.Get("currentUser").(models.UserAccount)
	db := c.Get("__db").(*gorm.DB)

	distribution, err := controller.colorDistribution(db, user.ID)
	if err != nil {
		sentry.CaptureException(err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch items"})
	}
	return c.JSON(http.StatusOK, distribution)
}

func (controller *FeaturesController) ListColorSeasons(c echo.Context) error {
	db := c.Get("__db").(*gorm.DB)

	var seasons []models.ColorSeason
	if err := db.Order("id").Find(&seasons).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch color seasons"})
	}
	return c.JSON(http.StatusOK, seasons)
}

// ColorAnalysis matches the wardrobe against the user's color season.
func (controller *FeaturesController) ColorAnalysis(c echo.Context) error {
	user := c.Get("currentUser").(models.UserAccount)
	db := c.Get("__db").(*gorm.DB)

	distribution, err := controller.colorDistribution(db, user.ID)
	if err != nil {
		sentry.CaptureException(err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch items"})
	}

	out := models.ColorAnalysisOut{
		Distribution: distribution,
		Compatible:   []models.ItemOut{},
		Clashing:     []models.ItemOut{},
	}
	if user.ColorSeason == nil {
		return c.JSON(http.StatusOK, out)
	}

	var season models.ColorSeason
	result := db.Where("name = ?", *user.ColorSeason).Take(&season)
	if result.Error != nil {
		sentry.CaptureException(result.Error)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to load color season"})
	}
	out.Season = &season

	var wardrobe []models.ClothingItem
	if err := db.Where("owner_id = ?", user.ID).Order("id").Find(&wardrobe).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch items"})
	}

	var compatible, clashing []models.ClothingItem
	for _, item := range wardrobe {
		switch palette.ItemCompatibility(item.Color, season) {
		case palette.CompatibilityExcellent:
			compatible = append(compatible, item)
		case palette.CompatibilityPoor:
			clashing = append(clashing, item)
		}
	}

	items := controller.itemsHelper()
	out.Compatible = items.populatePresignedItemPhotos(c.Request().Context(), compatible)
	out.Clashing = items.populatePresignedItemPhotos(c.Request().Context(), clashing)
	return c.JSON(http.StatusOK, out)
}
