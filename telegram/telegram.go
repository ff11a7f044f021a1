package telegram

import (
	"fmt"
	"log"
	"os"
	"strings"

	"closetapi/models"
	"closetapi/suggest"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"gorm.io/gorm"
)

func EscapeMessage(message string) string {
	r := strings.NewReplacer(
		"_", "\\_",
		"*", "\\*",
		"[", "\\[",
		"`", "\\`",
	)
	return r.Replace(message)
}

type chatCatalog struct {
	db      *gorm.DB
	ownerID uint
}

func (cat chatCatalog) ListItems() ([]models.ClothingItem, error) {
	var items []models.ClothingItem
	if err := cat.db.Where("owner_id = ?", cat.ownerID).Order("id").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// RunAssistantBot bridges Telegram chats to the outfit assistant. A chat is
// linked to an account through the telegram_username column; unknown users
// get a hint and nothing else.
func RunAssistantBot(db *gorm.DB) {

	bot, err := tgbotapi.NewBotAPI(os.Getenv("TG_TOKEN"))
	if err != nil {
		println("Error tg bot init")
		log.Panic(err)
	}

	log.Printf("Authorized on account %s", bot.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := bot.GetUpdatesChan(u)

	sessions := map[int64]*suggest.Session{}
	sessionUsers := map[int64]uint{}

	for update := range updates {
		if update.Message == nil {
			continue
		}
		log.Printf("[%s] %s", update.Message.From.UserName, update.Message.Text)
		chatID := update.Message.Chat.ID

		session, ok := sessions[chatID]
		if !ok {
			var user models.UserAccount
			r := db.Where("telegram_username = ?", update.Message.From.UserName).Limit(1).Find(&user)
			if r.Error != nil || r.RowsAffected == 0 {
				msg := tgbotapi.NewMessage(chatID, "I don't recognize this Telegram account. Link your username in the app settings first.")
				bot.Send(msg)
				continue
			}
			gen := suggest.NewGenerator(chatCatalog{db: db, ownerID: user.ID}, nil)
			session = suggest.NewSession(gen)
			sessions[chatID] = session
			sessionUsers[chatID] = user.ID
		}

		var reply string
		switch update.Message.Command() {
		case "start":
			reply = "Hello! I'm your Outfit Assistant. Ask me for an outfit, or use /new for a random one and /save to keep the last suggestion."
		case "new":
			result, err := session.GenerateNew()
			if err != nil {
				log.Println("Error generating outfit:", err)
				reply = "Something went wrong, please try again."
			} else {
				reply = result.Message
			}
		case "save":
			result := session.SaveCurrent()
			reply = result.Message
			if result.Success {
				outfit := models.Outfit{
					Name:        result.Proposal.Name,
					Description: strPointer("Generated by Outfit Assistant"),
					OwnerID:     sessionUsers[chatID],
				}
				for _, picked := range result.Proposal.Items {
					outfit.Items = append(outfit.Items, models.ClothingItem{JsonModel: models.JsonModel{ID: picked.ItemID}})
				}
				if err := db.Create(&outfit).Error; err != nil {
					log.Println("Error saving outfit from telegram:", err)
					reply = "Could not save the outfit, please try again."
				} else {
					reply = fmt.Sprintf("Saved '%s' to your wardrobe.", outfit.Name)
				}
			}
		default:
			result, err := session.ProcessMessage(update.Message.Text)
			if err != nil {
				log.Println("Error processing message:", err)
				reply = "Something went wrong, please try again."
			} else {
				reply = result.Message
			}
		}

		msg := tgbotapi.NewMessage(chatID, EscapeMessage(reply))
		msg.ReplyToMessageID = update.Message.MessageID
		msg.ParseMode = "markdown"
		bot.Send(msg)
	}
}

func strPointer(s string) *string {
	return &s
}
