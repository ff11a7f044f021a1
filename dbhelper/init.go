package dbhelper

import (
	"fmt"
	"os"
	"time"

	"closetapi/models"
	"closetapi/palette"
	"closetapi/services"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func SetupDB() *gorm.DB {

	db, err := gorm.Open(postgres.Open(
		fmt.Sprintf(
			"postgres://%s:%s@%s:%s/%s",
			services.GetEnv("DB_USERNAME", ""),
			services.GetEnv("DB_PASSWORD", ""),
			services.GetEnv("DB_HOST", ""),
			services.GetEnv("DB_PORT", ""),
			services.GetEnv("DB_NAME", ""),
		),
	), &gorm.Config{})
	if err != nil {
		panic(err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		panic(err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(300)
	sqlDB.SetConnMaxLifetime(time.Minute * 5)
	db.Logger.LogMode(logger.LogLevel(logger.Info))
	db.Raw("CREATE EXTENSION if not exists pgcrypto;")
	Migrate(db, &models.UserAccount{})
	Migrate(db, &models.UserPushToken{})
	Migrate(db, &models.ClothingItem{})
	Migrate(db, &models.TagCategory{})
	Migrate(db, &models.Tag{})
	Migrate(db, &models.Outfit{})
	Migrate(db, &models.CalendarEntry{})
	Migrate(db, &models.WearRecord{})
	Migrate(db, &models.ItemWearRecord{})
	Migrate(db, &models.ColorSeason{})
	Migrate(db, &models.SeasonalNotice{})

	seedColorSeasons(db)
	seedTags(db)

	return db
}

func SetupTestDB() *gorm.DB {
	os.Setenv("DB_USERNAME", "closet")
	os.Setenv("DB_PASSWORD", "closet")
	os.Setenv("DB_HOST", "localhost")
	os.Setenv("DB_NAME", "closet")
	os.Setenv("DB_PORT", "5432")
	os.Setenv("JWT_SECRET", "test-secret")
	return SetupDB()
}

func seedColorSeasons(db *gorm.DB) {
	for _, season := range palette.SeedSeasons() {
		db.Where(models.ColorSeason{Name: season.Name}).FirstOrCreate(&season)
	}
}

// Canonical tag vocabulary matches what the suggestion engine produces, so
// saving an assistant proposal can resolve its hints to tags by name.
var seedTagNames = map[string][]string{
	"Style":    {"Casual", "Formal", "Business", "Bohemian", "Minimalist", "Vintage", "Sporty"},
	"Occasion": {"Work", "Date Night", "Party", "Weekend", "Casual Outing", "Vacation", "Travel", "Interview", "Meeting", "Special Occasion", "Wedding", "Dinner"},
	"Season":   {"Summer", "Winter", "Fall", "Spring"},
}

func seedTags(db *gorm.DB) {
	for categoryName, tagNames := range seedTagNames {
		var category models.TagCategory
		db.Where(models.TagCategory{Name: categoryName}).FirstOrCreate(&category)
		for _, tagName := range tagNames {
			var tag models.Tag
			db.Where(models.Tag{Name: tagName, TagCategoryID: &category.ID}).FirstOrCreate(&tag)
		}
	}
}
