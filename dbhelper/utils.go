package dbhelper

import (
	"closetapi/models"
	"log"

	"gorm.io/gorm"
)

func SetupCleaner(db *gorm.DB) func() {

	return func() {

		db.Exec("DELETE FROM outfit_items")
		db.Exec("DELETE FROM outfit_tags")
		db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.ItemWearRecord{})
		db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.WearRecord{})
		db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.CalendarEntry{})
		db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Outfit{})
		db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.ClothingItem{})
		db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.SeasonalNotice{})
		db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.UserPushToken{})
		db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.UserAccount{})

	}
}

func Migrate(db *gorm.DB, model interface{}) {
	err := db.AutoMigrate(model)
	if err != nil {
		log.Printf("Error while migrating %s", model)
		log.Fatal(err)
	}
}
