package controllers

import (
	"net/http"
	"strconv"
	"sync"

	"closetapi/models"
	"closetapi/services"
	"closetapi/suggest"

	"github.com/getsentry/sentry-go"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// dbCatalog exposes one user's wardrobe to the suggestion engine.
type dbCatalog struct {
	db      *gorm.DB
	ownerID uint
}

func (cat dbCatalog) ListItems() ([]models.ClothingItem, error) {
	var items []models.ClothingItem
	if err := cat.db.Where("owner_id = ?", cat.ownerID).Order("id").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// AssistantController keeps one in-memory chat session per user. Sessions
// live for the process lifetime; a restart simply starts a fresh
// conversation.
type AssistantController struct {
	items    ItemsController
	mu       sync.Mutex
	sessions map[uint]*suggest.Session
}

func NewAssistantController(awsService services.AWSServiceProvider, urlCache services.URLCacheServiceProvider) *AssistantController {
	return &AssistantController{
		items:    ItemsController{AWSService: awsService, URLCache: urlCache},
		sessions: make(map[uint]*suggest.Session),
	}
}

func (controller *AssistantController) AssistantRoutes(g *echo.Group) {
	g.POST("/assistant/message", controller.Message)
	g.POST("/assistant/new", controller.NewSuggestion)
	g.POST("/assistant/save", controller.SaveSuggestion)
	g.GET("/assistant/history", controller.History)
}

func (controller *AssistantController) sessionFor(userID uint, db *gorm.DB) *suggest.Session {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	session, ok := controller.sessions[userID]
	if !ok {
		gen := suggest.NewGenerator(dbCatalog{db: db, ownerID: userID}, nil)
		session = suggest.NewSession(gen)
		controller.sessions[userID] = session
	}
	return session
}

func (controller *AssistantController) replyOut(c echo.Context, result suggest.Result) models.AssistantReplyOut {
	out := models.AssistantReplyOut{
		Reply:   result.Message,
		Success: result.Success,
		Intent:  result.Intent,
	}
	if result.Proposal != nil {
		db := c.Get("__db").(*gorm.DB)
		user := c.Get("currentUser").(models.UserAccount)

		var itemIds []uint
		for _, picked := range result.Proposal.Items {
			itemIds = append(itemIds, picked.ItemID)
		}
		var items []models.ClothingItem
		if err := db.Where("owner_id = ? AND id IN ?", user.ID, itemIds).Find(&items).Error; err != nil {
			sentry.CaptureException(err)
		}
		out.Proposal = &models.OutfitProposalOut{
			Name:     result.Proposal.Name,
			Style:    result.Proposal.Style,
			Occasion: result.Proposal.Occasion,
			Season:   result.Proposal.Season,
			Items:    controller.items.populatePresignedItemPhotos(c.Request().Context(), items),
		}
	}
	return out
}

func (controller *AssistantController) Message(c echo.Context) error {
	var req models.AssistantMessageIn
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	user := c.Get("currentUser").(models.UserAccount)
	db := c.Get("__db").(*gorm.DB)

	session := controller.sessionFor(user.ID, db)
	controller.mu.Lock()
	result, err := session.ProcessMessage(req.Message)
	controller.mu.Unlock()
	if err != nil {
		sentry.CaptureException(err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to process message"})
	}
	return c.JSON(http.StatusOK, controller.replyOut(c, result))
}

func (controller *AssistantController) NewSuggestion(c echo.Context) error {
	user := c.Get("currentUser").(models.UserAccount)
	db := c.Get("__db").(*gorm.DB)

	session := controller.sessionFor(user.ID, db)
	controller.mu.Lock()
	result, err := session.GenerateNew()
	controller.mu.Unlock()
	if err != nil {
		sentry.CaptureException(err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to generate outfit"})
	}
	return c.JSON(http.StatusOK, controller.replyOut(c, result))
}

// SaveSuggestion persists the latest successful proposal as an outfit and
// tags it with the style, occasion and season hints where those tags exist.
func (controller *AssistantController) SaveSuggestion(c echo.Context) error {
	user := c.Get("currentUser").(models.UserAccount)
	db := c.Get("__db").(*gorm.DB)

	session := controller.sessionFor(user.ID, db)
	controller.mu.Lock()
	result := session.SaveCurrent()
	controller.mu.Unlock()
	if !result.Success {
		return c.JSON(http.StatusBadRequest, models.AssistantReplyOut{
			Reply:   result.Message,
			Success: false,
		})
	}

	proposal := result.Proposal
	var itemIds []uint
	for _, picked := range proposal.Items {
		itemIds = append(itemIds, picked.ItemID)
	}
	var items []models.ClothingItem
	if err := db.Where("owner_id = ? AND id IN ?", user.ID, itemIds).Find(&items).Error; err != nil {
		sentry.CaptureException(err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch outfit items"})
	}

	outfit := models.Outfit{
		Name:        proposal.Name,
		Description: StrPointer("Generated by Outfit Assistant"),
		OwnerID:     user.ID,
		Items:       items,
	}

	// hints resolve to tags by exact name, missing tags are skipped
	for _, hint := range []string{proposal.Style, proposal.Occasion, proposal.Season} {
		if hint == "" {
			continue
		}
		var tag models.Tag
		r := db.Where("name = ?", hint).Limit(1).Find(&tag)
		if r.Error == nil && r.RowsAffected > 0 {
			outfit.Tags = append(outfit.Tags, tag)
		}
	}

	if err := db.Create(&outfit).Error; err != nil {
		sentry.CaptureException(err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to save outfit"})
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"reply":  result.Message,
		"outfit": outfit,
	})
}

func (controller *AssistantController) History(c echo.Context) error {
	user := c.Get("currentUser").(models.UserAccount)
	db := c.Get("__db").(*gorm.DB)

	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid limit"})
		}
		limit = parsed
	}

	session := controller.sessionFor(user.ID, db)
	controller.mu.Lock()
	turns := session.History(limit)
	controller.mu.Unlock()

	out := models.AssistantHistoryOut{Turns: []models.ChatTurnOut{}}
	for _, turn := range turns {
		out.Turns = append(out.Turns, models.ChatTurnOut{Role: turn.Role, Message: turn.Content})
	}
	return c.JSON(http.StatusOK, out)
}
