package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"closetapi/models"
	"closetapi/palette"
	"closetapi/services"

	"github.com/getsentry/sentry-go"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type OutfitsController struct {
	URLCache   services.URLCacheServiceProvider
	AWSService services.AWSServiceProvider
}

func (controller *OutfitsController) OutfitRoutes(g *echo.Group) {
	g.POST("/outfits", controller.CreateOutfit)
	g.GET("/outfits", controller.ListOutfits)
	g.GET("/outfits/search", controller.SearchOutfits)
	g.GET("/outfits/:id", controller.GetOutfit)
	g.PATCH("/outfits/:id", controller.UpdateOutfit)
	g.DELETE("/outfits/:id", controller.DeleteOutfit)
	g.POST("/outfits/:id/items/:itemId", controller.AddItem)
	g.DELETE("/outfits/:id/items/:itemId", controller.RemoveItem)
	g.POST("/outfits/:id/tags/:tagId", controller.AddTag)
	g.DELETE("/outfits/:id/tags/:tagId", controller.RemoveTag)
	g.GET("/outfits/:id/harmony", controller.OutfitHarmony)
	g.GET("/tags", controller.ListTags)
	g.POST("/tags", controller.CreateTag)
}

func (controller *OutfitsController) getUserOutfit(c echo.Context, preload bool) (*models.Outfit, error) {
	user := c.Get("currentUser").(models.UserAccount)
	db := c.Get("__db").(*gorm.DB)

	query := db.Where("id = ? AND owner_id = ?", c.Param("id"), user.ID)
	if preload {
		query = query.Preload("Items").Preload("Tags")
	}
	var outfit models.Outfit
	result := query.Take(&outfit)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, c.JSON(http.StatusNotFound, map[string]string{"error": "Outfit not found"})
	}
	if result.Error != nil {
		sentry.CaptureException(result.Error)
		return nil, c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch outfit"})
	}
	return &outfit, nil
}

func (controller *OutfitsController) CreateOutfit(c echo.Context) error {
	var req models.CreateOutfitIn
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

	outfit := models.Outfit{
		Name:        req.Name,
		Description: req.Description,
		OwnerID:     user.ID,
	}

	if len(req.ItemIds) > 0 {
		var items []models.ClothingItem
		if err := db.Where("owner_id = ? AND id IN ?", user.ID, req.ItemIds).Find(&items).Error; err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch items"})
		}
		if len(items) != len(req.ItemIds) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Some items were not found in your wardrobe"})
		}
		outfit.Items = items
	}
	if len(req.TagIds) > 0 {
		var tags []models.Tag
		if err := db.Where("id IN ?", req.TagIds).Find(&tags).Error; err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch tags"})
		}
		outfit.Tags = tags
	}

	if err := db.Create(&outfit).Error; err != nil {
		sentry.CaptureException(err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to create outfit"})
	}
	return c.JSON(http.StatusCreated, outfit)
}

func (controller *OutfitsController) ListOutfits(c echo.Context) error {
	user, ok := c.Get("currentUser").(models.UserAccount)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}
	db, ok := c.Get("__db").(*gorm.DB)
	if !ok {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Database connection error"})
	}

	query := db.Where("owner_id = ?", user.ID).Preload("Items").Preload("Tags")
	if tag := c.QueryParam("tag"); tag != "" {
		query = query.Joins("JOIN outfit_tags ON outfit_tags.outfit_id = outfits.id").
			Joins("JOIN tags ON tags.id = outfit_tags.tag_id").
			Where("tags.name = ?", tag)
	}

	var outfits []models.Outfit
	if err := query.Order("outfits.id").Find(&outfits).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch outfits"})
	}
	return c.JSON(http.StatusOK, outfits)
}

func (controller *OutfitsController) SearchOutfits(c echo.Context) error {
	user := c.Get("currentUser").(models.UserAccount)
	db := c.Get("__db").(*gorm.DB)

	q := c.QueryParam("q")
	if q == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Query parameter 'q' is required"})
	}

	var outfits []models.Outfit
	like := "%" + q + "%"
	if err := db.Where("owner_id = ?", user.ID).
		Where("name ILIKE ? OR description ILIKE ?", like, like).
		Preload("Items").Preload("Tags").
		Order("id").Find(&outfits).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to search outfits"})
	}
	return c.JSON(http.StatusOK, outfits)
}

func (controller *OutfitsController) GetOutfit(c echo.Context) error {
	outfit, err := controller.getUserOutfit(c, true)
	if outfit == nil {
		return err
	}
	return c.JSON(http.StatusOK, outfit)
}

func (controller *OutfitsController) UpdateOutfit(c echo.Context) error {
	var req models.UpdateOutfitIn
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if req.Rating != nil && (*req.Rating < 1 || *req.Rating > 5) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Rating must be between 1 and 5"})
	}

	outfit, err := controller.getUserOutfit(c, true)
	if outfit == nil {
		return err
	}
	db := c.Get("__db").(*gorm.DB)

	if req.Name != nil {
		outfit.Name = *req.Name
	}
	if req.Description != nil {
		outfit.Description = req.Description
	}
	if req.Rating != nil {
		outfit.Rating = req.Rating
	}
	if err := db.Save(&outfit).Error; err != nil {
		sentry.CaptureException(err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update outfit"})
	}
	return c.JSON(http.StatusOK, outfit)
}

func (controller *OutfitsController) DeleteOutfit(c echo.Context) error {
	outfit, err := controller.getUserOutfit(c, false)
	if outfit == nil {
		return err
	}
	db := c.Get("__db").(*gorm.DB)

	db.Exec("DELETE FROM outfit_items WHERE outfit_id = ?", outfit.ID)
	db.Exec("DELETE FROM outfit_tags WHERE outfit_id = ?", outfit.ID)
	if err := db.Delete(&outfit).Error; err != nil {
		sentry.CaptureException(err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to delete outfit"})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "deleted"})
}

func (controller *OutfitsController) AddItem(c echo.Context) error {
	outfit, err := controller.getUserOutfit(c, false)
	if outfit == nil {
		return err
	}
	user := c.Get("currentUser").(models.UserAccount)
	db := c.Get("__db").(*gorm.DB)

	var item models.ClothingItem
	result := db.Where("id = ? AND owner_id = ?", c.Param("itemId"), user.ID).Take(&item)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Item not found"})
	}
	if result.Error != nil {
		sentry.CaptureException(result.Error)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch item"})
	}

	if err := db.Model(&outfit).Association("Items").Append(&item); err != nil {
		sentry.CaptureException(err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to add item to outfit"})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (controller *OutfitsController) RemoveItem(c echo.Context) error {
	outfit, err := controller.getUserOutfit(c, false)
	if outfit == nil {
		return err
	}
	db := c.Get("__db").(*gorm.DB)

	var item models.ClothingItem
	if err := db.First(&item, c.Param("itemId")).Error; err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Item not found"})
	}
	if err := db.Model(&outfit).Association("Items").Delete(&item); err != nil {
		sentry.CaptureException(err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to remove item from outfit"})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (controller *OutfitsController) AddTag(c echo.Context) error {
	outfit, err := controller.getUserOutfit(c, false)
	if outfit == nil {
		return err
	}
	db := c.Get("__db").(*gorm.DB)

	var tag models.Tag
	if err := db.First(&tag, c.Param("tagId")).Error; err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Tag not found"})
	}
	if err := db.Model(&outfit).Association("Tags").Append(&tag); err != nil {
		sentry.CaptureException(err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to add tag to outfit"})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (controller *OutfitsController) RemoveTag(c echo.Context) error {
	outfit, err := controller.getUserOutfit(c, false)
	if outfit == nil {
		return err
	}
	db := c.Get("__db").(*gorm.DB)

	var tag models.Tag
	if err := db.First(&tag, c.Param("tagId")).Error; err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Tag not found"})
	}
	if err := db.Model(&outfit).Association("Tags").Delete(&tag); err != nil {
		sentry.CaptureException(err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to remove tag from outfit"})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// OutfitHarmony scores the outfit's colors against the user's color season.
func (controller *OutfitsController) OutfitHarmony(c echo.Context) error {
	user := c.Get("currentUser").(models.UserAccount)
	if user.ColorSeason == nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Set your color season first to analyze outfit harmony"})
	}

	outfit, err := controller.getUserOutfit(c, true)
	if outfit == nil {
		return err
	}
	db := c.Get("__db").(*gorm.DB)

	var season models.ColorSeason
	result := db.Where("name = ?", *user.ColorSeason).Take(&season)
	if result.Error != nil {
		sentry.CaptureException(result.Error)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to load color season"})
	}

	var colors []string
	for _, item := range outfit.Items {
		colors = append(colors, item.Color)
	}
	return c.JSON(http.StatusOK, palette.OutfitHarmony(colors, season))
}

func (controller *OutfitsController) ListTags(c echo.Context) error {
	db := c.Get("__db").(*gorm.DB)

	var categories []models.TagCategory
	if err := db.Preload("Tags").Order("id").Find(&categories).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch tags"})
	}
	return c.JSON(http.StatusOK, categories)
}

func (controller *OutfitsController) CreateTag(c echo.Context) error {
	var req models.CreateTagIn
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	db := c.Get("__db").(*gorm.DB)

	tag := models.Tag{Name: req.Name}
	if req.Category != nil && *req.Category != "" {
		var category models.TagCategory
		if err := db.Where(models.TagCategory{Name: *req.Category}).FirstOrCreate(&category).Error; err != nil {
			sentry.CaptureException(err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to create tag category"})
		}
		tag.TagCategoryID = &category.ID
	}

	var existing models.Tag
	r := db.Where("name = ?", req.Name).Limit(1).Find(&existing)
	if r.Error == nil && r.RowsAffected > 0 {
		return c.JSON(http.StatusOK, existing)
	}
	if err := db.Create(&tag).Error; err != nil {
		sentry.CaptureException(err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to create tag"})
	}
	return c.JSON(http.StatusCreated, tag)
}
