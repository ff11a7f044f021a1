package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"closetapi/models"
	"closetapi/services"

	firebase "firebase.google.com/go/v4"
	"github.com/getsentry/sentry-go"
	"github.com/hibiken/asynq"
	"gorm.io/gorm"
)

const (
	TypeWearRecorded  = "wear:recorded"
	TypeAnalyzePhoto  = "items:analyze_photo"
	TypeSeasonalAlert = "seasonal:alert"
)

type WearRecordedPayload struct {
	OutfitID uint   `json:"outfit_id"`
	OwnerID  uint   `json:"owner_id"`
	Date     string `json:"date"`
}

type ItemPhotoAnalysisPayload struct {
	ItemID uint `json:"item_id"`
}

func NewWearRecordedTask(outfitID uint, ownerID uint, date string) (*asynq.Task, error) {
	payload, err := json.Marshal(WearRecordedPayload{OutfitID: outfitID, OwnerID: ownerID, Date: date})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeWearRecorded, payload), nil
}

func NewItemPhotoAnalysisTask(itemID uint) (*asynq.Task, error) {
	payload, err := json.Marshal(ItemPhotoAnalysisPayload{ItemID: itemID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeAnalyzePhoto, payload), nil
}

func NewSeasonalAlertTask() (*asynq.Task, error) {
	return asynq.NewTask(TypeSeasonalAlert, nil), nil
}

// HandleWearRecordedTask fans a worn outfit out to per item wear records and
// marks every piece dirty for the laundry view.
func HandleWearRecordedTask(ctx context.Context, t *asynq.Task, db *gorm.DB) error {
	var payload WearRecordedPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return err
	}
	fmt.Printf("[Wear: outfit %v] Processing wear on %s\n", payload.OutfitID, payload.Date)

	var outfit models.Outfit
	res := db.Preload("Items").First(&outfit, payload.OutfitID)
	if res.Error != nil {
		sentry.CaptureException(fmt.Errorf("[QUEUE] Error on retrieving outfit for wear %v", payload.OutfitID))
		return res.Error
	}

	var records []models.ItemWearRecord
	var itemIds []uint
	for _, item := range outfit.Items {
		records = append(records, models.ItemWearRecord{
			ClothingItemID: item.ID,
			OutfitID:       outfit.ID,
			OwnerID:        payload.OwnerID,
			Date:           payload.Date,
		})
		itemIds = append(itemIds, item.ID)
	}
	if len(records) == 0 {
		fmt.Printf("[Wear: outfit %v] Outfit has no items, nothing to record\n", payload.OutfitID)
		return nil
	}
	if err := db.CreateInBatches(records, 100).Error; err != nil {
		sentry.CaptureException(fmt.Errorf("[Wear: outfit %v] Error on saving item wear records: %v", payload.OutfitID, err))
		return err
	}
	if err := db.Model(&models.ClothingItem{}).Where("id IN ?", itemIds).
		Update("laundry_status", models.LaundryDirty).Error; err != nil {
		sentry.CaptureException(fmt.Errorf("[Wear: outfit %v] Error on marking items dirty: %v", payload.OutfitID, err))
		return err
	}
	fmt.Printf("[Wear: outfit %v] Recorded %d item wears\n", payload.OutfitID, len(records))
	return nil
}

// HandleItemPhotoAnalysisTask downloads the uploaded clothing photo and asks
// the vision model for a name, type and color suggestion.
func HandleItemPhotoAnalysisTask(
	ctx context.Context, t *asynq.Task, db *gorm.DB, vision services.VisionProcessor,
	awsService services.AWSServiceProvider, fbApp *firebase.App) error {
	googleKey := os.Getenv("GOOGLE_API_KEY")
	if googleKey == "" {
		sentry.CaptureException(fmt.Errorf("[QUEUE] %s Google API key is not set", string(t.Payload())))
		return fmt.Errorf("[QUEUE] %s Google API key is not set", string(t.Payload()))
	}
	var payload ItemPhotoAnalysisPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return err
	}
	fmt.Printf("[Item: %v] Start photo analysis\n", payload.ItemID)

	var item models.ClothingItem
	res := db.First(&item, payload.ItemID)
	if res.Error != nil {
		sentry.CaptureException(fmt.Errorf("[QUEUE] Error on retrieving item for analysis %v", payload.ItemID))
		return res.Error
	}
	if item.PhotoKey == nil {
		saveAnalysisFail(db, item, false)
		sentry.CaptureException(fmt.Errorf("[Item: %v] Photo key is nil, cannot analyze", payload.ItemID))
		return nil
	}

	bucketName := os.Getenv("R2_BUCKET_NAME")
	fileUrl, err := awsService.PresignReadURL(context.TODO(), bucketName, *item.PhotoKey)
	if err != nil {
		saveAnalysisFail(db, item, true)
		sentry.CaptureException(fmt.Errorf("[Item: %v] Error on getting presigned URL for photo %s: %v", payload.ItemID, *item.PhotoKey, err))
		return err
	}
	fileBytes, err := services.ReadFileFromUrl(fileUrl)
	if err != nil {
		saveAnalysisFail(db, item, true)
		sentry.CaptureException(fmt.Errorf("[Item: %v] Error on downloading photo %s: %v", payload.ItemID, *item.PhotoKey, err))
		return err
	}
	fmt.Printf("[Item: %v] Downloaded photo size: %d bytes\n", payload.ItemID, len(fileBytes))

	filePath, err := services.CreateTempFile(fileBytes, filepath.Base(*item.PhotoKey))
	if err != nil {
		saveAnalysisFail(db, item, true)
		sentry.CaptureException(fmt.Errorf("[Item: %v] Error on creating temp file: %v", payload.ItemID, err))
		return err
	}
	defer os.Remove(filePath)

	analysis, err := vision.AnalyzeClothingPhoto(filePath, services.Flash25)
	if err != nil {
		saveAnalysisFail(db, item, true)
		sentry.CaptureException(fmt.Errorf("[Item: %v] Error on analyzing photo %s: %v", payload.ItemID, *item.PhotoKey, err))
		return err
	}
	if analysis == nil {
		saveAnalysisFail(db, item, true)
		sentry.CaptureException(fmt.Errorf("[Item: %v] Analysis is nil but no error provided for %s", payload.ItemID, *item.PhotoKey))
		return fmt.Errorf("[Item: %v] Analysis is nil but no error provided", payload.ItemID)
	}

	item.SuggestedName = services.StrPointer(analysis.Name)
	item.SuggestedType = services.StrPointer(analysis.Type)
	item.SuggestedColor = services.StrPointer(analysis.Color)
	if item.Material == nil && analysis.Material != "" {
		item.Material = services.StrPointer(analysis.Material)
	}
	item.ProcessingStatus = "completed"
	if err := db.Save(&item).Error; err != nil {
		sentry.CaptureException(fmt.Errorf("[Item: %v] Error on saving analysis result: %v", payload.ItemID, err))
		return err
	}
	fmt.Printf("[Item: %v] Photo analysis finished: %s / %s / %s\n", payload.ItemID, analysis.Name, analysis.Type, analysis.Color)

	var owner models.UserAccount
	if db.First(&owner, item.OwnerID).Error == nil && owner.ReceiveNotifications {
		services.SendNotification(fbApp, db, item.OwnerID, "Photo Analyzed",
			fmt.Sprintf("We recognized your %s, review the suggested details", analysis.Name),
			map[string]string{"item_id": fmt.Sprintf("%d", item.ID), "type": "item_analyzed"})
	}
	return nil
}

func saveAnalysisFail(db *gorm.DB, item models.ClothingItem, shouldRetry bool) error {
	item.AnalysisRetries = item.AnalysisRetries + 1
	if !shouldRetry || item.AnalysisRetries >= 3 {
		item.ProcessingStatus = "failed"
	}
	tx := db.Save(&item)
	if tx.Error != nil {
		sentry.CaptureException(fmt.Errorf("[Fail Item %v] Error on saving item for failed status", item.ID))
		return tx.Error
	}
	return nil
}

// HandleSeasonalAlertTask runs on a daily schedule. Within two weeks of a
// season change it notifies opted in users once per season and year.
func HandleSeasonalAlertTask(ctx context.Context, t *asynq.Task, db *gorm.DB, fbApp *firebase.App) error {
	now := time.Now()
	season, start, daysUntil := services.UpcomingSeason(now)
	fmt.Printf("[Seasonal Alert] Upcoming season %s in %d days\n", season, daysUntil)
	if daysUntil > 14 {
		return nil
	}

	var notice models.SeasonalNotice
	r := db.Where("season = ? AND year = ?", season, start.Year()).Limit(1).Find(&notice)
	if r.Error != nil {
		sentry.CaptureException(fmt.Errorf("[Seasonal Alert] Error checking notice for %s %d: %v", season, start.Year(), r.Error))
		return r.Error
	}
	if r.RowsAffected > 0 {
		fmt.Printf("[Seasonal Alert] Already notified for %s %d\n", season, start.Year())
		return nil
	}

	var users []models.UserAccount
	result := db.Where("banned = ? AND receive_notifications = ?", false, true).Find(&users)
	if result.Error != nil {
		sentry.CaptureException(fmt.Errorf("[Seasonal Alert] Error fetching users: %v", result.Error))
		return result.Error
	}
	fmt.Printf("[Seasonal Alert] Found %d users to send notifications\n", len(users))

	title := fmt.Sprintf("%s is coming!", season)
	message := fmt.Sprintf("%s starts in %d days. Time to rotate your wardrobe.", season, daysUntil)
	for _, user := range users {
		services.SendNotification(fbApp, db, user.ID, title, message,
			map[string]string{"season": season, "type": "seasonal_alert"})
		time.Sleep(1 * time.Second) // To avoid hitting rate limits
	}

	if err := db.Create(&models.SeasonalNotice{Season: season, Year: start.Year()}).Error; err != nil {
		sentry.CaptureException(fmt.Errorf("[Seasonal Alert] Error saving notice for %s %d: %v", season, start.Year(), err))
		return err
	}
	return nil
}
