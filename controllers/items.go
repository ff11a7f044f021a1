package controllers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"

	"closetapi/models"
	"closetapi/services"
	"closetapi/tasks"

	"github.com/getsentry/sentry-go"
	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type ItemsController struct {
	AWSService services.AWSServiceProvider
	URLCache   services.URLCacheServiceProvider
}

func (controller *ItemsController) ItemRoutes(g *echo.Group) {
	g.POST("/items", controller.CreateItem)
	g.GET("/items", controller.ListItems)
	g.GET("/items/search", controller.SearchItems)
	g.GET("/items/:id", controller.GetItem)
	g.PATCH("/items/:id", controller.UpdateItem)
	g.DELETE("/items/:id", controller.DeleteItem)
	g.POST("/items/:id/laundry", controller.MarkItemDirty)
	g.POST("/items/:id/clean", controller.MarkItemClean)
	g.GET("/laundry", controller.LaundryOverview)
}

var itemGroupTypes = map[string]string{
	"Shirt": "tops", "T-shirt": "tops", "Blouse": "tops", "Top": "tops",
	"Dress Shirt": "tops", "Tank Top": "tops", "Sports Bra": "tops", "Tunic": "tops",
	"Sweater": "tops", "Dress": "tops",

	"Pants": "bottoms", "Jeans": "bottoms", "Shorts": "bottoms", "Skirt": "bottoms",
	"Dress Pants": "bottoms", "Suit Pants": "bottoms", "Leggings": "bottoms",
	"Track Pants": "bottoms", "Maxi Skirt": "bottoms", "Flowy Pants": "bottoms",
	"High-Waisted Pants": "bottoms",

	"Shoes": "shoes", "Sneakers": "shoes", "Sandals": "shoes", "Boots": "shoes",
	"Dress Shoes": "shoes", "Heels": "shoes", "Loafers": "shoes", "Flats": "shoes",
	"Athletic Shoes": "shoes",

	"Jacket": "outerwear", "Blazer": "outerwear", "Suit Jacket": "outerwear",
	"Coat": "outerwear", "Cardigan": "outerwear",

	"Accessory": "accessories", "Jewelry": "accessories", "Hat": "accessories",
	"Scarf": "accessories", "Belt": "accessories",
}

func (controller *ItemsController) CreateItem(c echo.Context) error {
	var req models.CreateItemIn
	if err := c.Bind(&req); err != nil {
		fmt.Println(err)
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	user, ok := c.Get("currentUser").(models.UserAccount)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}
	db, ok := c.Get("__db").(*gorm.DB)
	if !ok {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Database connection error"})
	}

	item := models.ClothingItem{
		Name:          req.Name,
		ClothingType:  req.ClothingType,
		Color:         req.Color,
		Brand:         req.Brand,
		Size:          req.Size,
		Material:      req.Material,
		Season:        req.Season,
		Occasion:      req.Occasion,
		PurchaseDate:  req.PurchaseDate,
		Notes:         req.Notes,
		OwnerID:       user.ID,
		LaundryStatus: models.LaundryClean,
	}

	var uploadUrl *string
	if req.PhotoFileName != nil && *req.PhotoFileName != "" {
		if !services.IsAllowedPhotoName(*req.PhotoFileName) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Unsupported photo file type"})
		}
		bucketName := services.GetEnv("R2_BUCKET_NAME", "")
		safeFileName := fmt.Sprintf("photos/%s", *req.PhotoFileName)
		url, presignErr := controller.AWSService.PresignUploadURL(context.Background(), bucketName, safeFileName)
		if presignErr != nil {
			log.Printf("Unable to presign upload for %s!, %s", item.Name, presignErr)
			return c.JSON(http.StatusInternalServerError, echo.Map{
				"message": "Error while creating item with photo",
			})
		}
		uploadUrl = &url
		item.PhotoKey = &safeFileName
		item.PhotoStatus = "draft"
		item.ProcessingStatus = "pending"
	}

	if err := db.Create(&item).Error; err != nil {
		sentry.CaptureException(err)
		return err
	}

	if item.PhotoKey != nil {
		asynqClient, ok := c.Get("__asynqclient").(*asynq.Client)
		if !ok {
			return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Service is not available, please try again a bit later"})
		}
		task, err := tasks.NewItemPhotoAnalysisTask(item.ID)
		if err != nil {
			sentry.CaptureException(err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Sorry, could not process the photo, please try again"})
		}
		info, err := asynqClient.Enqueue(task, asynq.MaxRetry(3), asynq.Queue("generate"))
		if err != nil {
			sentry.CaptureException(err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Sorry, could not process the photo, please try again"})
		}
		fmt.Println("[Queue] Photo analysis task submitted, Item ID: ", item.ID, " Task ID: ", info.ID)
	}

	return c.JSON(http.StatusCreated, models.CreateItemOut{
		ItemOut:        models.ItemOut{ClothingItem: item},
		PhotoUploadURL: uploadUrl,
	})
}

// populatePresignedItemPhotos enriches raw items with presigned photo URLs
// concurrently. Includes a failsafe for when the cache system itself fails.
func (controller *ItemsController) populatePresignedItemPhotos(ctx context.Context, items []models.ClothingItem) []models.ItemOut {
	if len(items) == 0 {
		return []models.ItemOut{}
	}

	var wg sync.WaitGroup
	processed := make([]models.ItemOut, len(items))
	bucketName := services.GetEnv("R2_BUCKET_NAME", "")

	for i, clothingItem := range items {
		wg.Add(1)
		go func(index int, item models.ClothingItem) {
			defer wg.Done()

			var photoUrl *string
			if item.PhotoKey != nil && *item.PhotoKey != "" {
				objectKey := *item.PhotoKey

				url, err := controller.URLCache.GetReadURL(ctx, objectKey)
				if err == nil {
					photoUrl = &url
				} else {
					log.Printf("CACHE WARNING: Cache system failed for key '%s': %v. Triggering manual R2 fallback.", objectKey, err)
					sentry.WithScope(func(scope *sentry.Scope) {
						scope.SetTag("failure_type", "cache_system")
						scope.SetExtra("objectKey", objectKey)
						sentry.CaptureException(err)
					})

					fallbackUrl, fallbackErr := controller.AWSService.PresignReadURL(ctx, bucketName, objectKey)
					if fallbackErr != nil {
						log.Printf("CRITICAL: Manual R2 fallback also failed for key '%s': %v", objectKey, fallbackErr)
						sentry.CaptureException(fallbackErr)
						// photoUrl stays nil, the request itself still succeeds
					} else {
						photoUrl = &fallbackUrl
					}
				}
			}
			processed[index] = models.ItemOut{ClothingItem: item, PhotoURL: photoUrl}
		}(i, clothingItem)
	}

	wg.Wait()
	return processed
}

func (controller *ItemsController) ListItems(c echo.Context) error {
	user, ok := c.Get("currentUser").(models.UserAccount)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}
	db, ok := c.Get("__db").(*gorm.DB)
	if !ok {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Database connection error"})
	}

	query := db.Where("owner_id = ?", user.ID)
	if clothingType := c.QueryParam("type"); clothingType != "" {
		query = query.Where("clothing_type = ?", clothingType)
	}
	if season := c.QueryParam("season"); season != "" {
		query = query.Where("season ILIKE ?", "%"+season+"%")
	}
	if occasion := c.QueryParam("occasion"); occasion != "" {
		query = query.Where("occasion ILIKE ?", "%"+occasion+"%")
	}
	if laundry := c.QueryParam("laundry"); laundry != "" {
		query = query.Where("laundry_status = ?", laundry)
	}

	var items []models.ClothingItem
	if err := query.Order("id").Find(&items).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch items"})
	}
	processed := controller.populatePresignedItemPhotos(c.Request().Context(), items)

	response := models.ItemGroupOut{
		Tops:        []models.ItemOut{},
		Bottoms:     []models.ItemOut{},
		Shoes:       []models.ItemOut{},
		Outerwear:   []models.ItemOut{},
		Accessories: []models.ItemOut{},
		Other:       []models.ItemOut{},
	}
	for _, resp := range processed {
		switch itemGroupTypes[resp.ClothingType] {
		case "tops":
			response.Tops = append(response.Tops, resp)
		case "bottoms":
			response.Bottoms = append(response.Bottoms, resp)
		case "shoes":
			response.Shoes = append(response.Shoes, resp)
		case "outerwear":
			response.Outerwear = append(response.Outerwear, resp)
		case "accessories":
			response.Accessories = append(response.Accessories, resp)
		default:
			response.Other = append(response.Other, resp)
		}
	}

	return c.JSON(http.StatusOK, response)
}

func (controller *ItemsController) SearchItems(c echo.Context) error {
	user, ok := c.Get("currentUser").(models.UserAccount)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}
	db, ok := c.Get("__db").(*gorm.DB)
	if !ok {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Database connection error"})
	}

	q := c.QueryParam("q")
	if q == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Query parameter 'q' is required"})
	}

	var items []models.ClothingItem
	like := "%" + q + "%"
	if err := db.Where("owner_id = ?", user.ID).
		Where("name ILIKE ? OR brand ILIKE ? OR color ILIKE ? OR notes ILIKE ?", like, like, like, like).
		Order("id").Find(&items).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to search items"})
	}

	return c.JSON(http.StatusOK, controller.populatePresignedItemPhotos(c.Request().Context(), items))
}

func (controller *ItemsController) GetItem(c echo.Context) error {
	user := c.Get("currentUser").(models.UserAccount)
	db := c.Get("__db").(*gorm.DB)

	var item models.ClothingItem
	result := db.Where("id = ? AND owner_id = ?", c.Param("id"), user.ID).Take(&item)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Item not found"})
	}
	if result.Error != nil {
		sentry.CaptureException(result.Error)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch item"})
	}
	processed := controller.populatePresignedItemPhotos(c.Request().Context(), []models.ClothingItem{item})
	return c.JSON(http.StatusOK, processed[0])
}

func (controller *ItemsController) UpdateItem(c echo.Context) error {
	user := c.Get("currentUser").(models.UserAccount)
	db := c.Get("__db").(*gorm.DB)

	var req models.UpdateItemIn
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	var item models.ClothingItem
	result := db.Where("id = ? AND owner_id = ?", c.Param("id"), user.ID).Take(&item)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Item not found"})
	}
	if result.Error != nil {
		sentry.CaptureException(result.Error)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch item"})
	}

	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.ClothingType != nil {
		item.ClothingType = *req.ClothingType
	}
	if req.Color != nil {
		item.Color = *req.Color
	}
	if req.Brand != nil {
		item.Brand = req.Brand
	}
	if req.Size != nil {
		item.Size = req.Size
	}
	if req.Material != nil {
		item.Material = req.Material
	}
	if req.Season != nil {
		item.Season = req.Season
	}
	if req.Occasion != nil {
		item.Occasion = req.Occasion
	}
	if req.PurchaseDate != nil {
		item.PurchaseDate = req.PurchaseDate
	}
	if req.Notes != nil {
		item.Notes = req.Notes
	}

	if err := db.Save(&item).Error; err != nil {
		sentry.CaptureException(err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update item"})
	}
	processed := controller.populatePresignedItemPhotos(c.Request().Context(), []models.ClothingItem{item})
	return c.JSON(http.StatusOK, processed[0])
}

func (controller *ItemsController) DeleteItem(c echo.Context) error {
	user := c.Get("currentUser").(models.UserAccount)
	db := c.Get("__db").(*gorm.DB)

	var item models.ClothingItem
	result := db.Where("id = ? AND owner_id = ?", c.Param("id"), user.ID).Take(&item)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Item not found"})
	}
	if result.Error != nil {
		sentry.CaptureException(result.Error)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch item"})
	}

	db.Exec("DELETE FROM outfit_items WHERE clothing_item_id = ?", item.ID)
	if err := db.Delete(&item).Error; err != nil {
		sentry.CaptureException(err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to delete item"})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "deleted"})
}

func (controller *ItemsController) MarkItemDirty(c echo.Context) error {
	return controller.setLaundryStatus(c, models.LaundryDirty)
}

func (controller *ItemsController) MarkItemClean(c echo.Context) error {
	return controller.setLaundryStatus(c, models.LaundryClean)
}

func (controller *ItemsController) setLaundryStatus(c echo.Context, status string) error {
	user := c.Get("currentUser").(models.UserAccount)
	db := c.Get("__db").(*gorm.DB)

	var item models.ClothingItem
	result := db.Where("id = ? AND owner_id = ?", c.Param("id"), user.ID).Take(&item)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Item not found"})
	}
	if result.Error != nil {
		sentry.CaptureException(result.Error)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch item"})
	}

	item.LaundryStatus = status
	if err := db.Save(&item).Error; err != nil {
		sentry.CaptureException(err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update laundry status"})
	}
	return c.JSON(http.StatusOK, models.ItemOut{ClothingItem: item})
}

func (controller *ItemsController) LaundryOverview(c echo.Context) error {
	user := c.Get("currentUser").(models.UserAccount)
	db := c.Get("__db").(*gorm.DB)

	var total, dirty int64
	if err := db.Model(&models.ClothingItem{}).Where("owner_id = ?", user.ID).Count(&total).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch laundry data"})
	}
	if err := db.Model(&models.ClothingItem{}).Where("owner_id = ? AND laundry_status = ?", user.ID, models.LaundryDirty).Count(&dirty).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch laundry data"})
	}

	var dirtyItems []models.ClothingItem
	if err := db.Where("owner_id = ? AND laundry_status = ?", user.ID, models.LaundryDirty).Order("id").Find(&dirtyItems).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch laundry data"})
	}

	out := models.LaundryOut{
		DirtyItems: controller.populatePresignedItemPhotos(c.Request().Context(), dirtyItems),
		TotalCount: total,
		CleanCount: total - dirty,
		DirtyCount: dirty,
	}
	if total > 0 {
		out.DirtyPercent = float64(dirty) / float64(total) * 100
		out.CleanPercent = float64(total-dirty) / float64(total) * 100
	}
	return c.JSON(http.StatusOK, out)
}
