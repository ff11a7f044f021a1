package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"closetapi/dbhelper"
	"closetapi/models"
	"closetapi/test"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduleOutfitOk(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, nil, nil, nil, test.URLCacheMock{})
	user := test.FakeUser(db, "")

	outfit := models.Outfit{Name: "Everyday", OwnerID: user.ID}
	db.Create(&outfit)

	req := test.NewJSONAuthRequest("POST", "/api/calendar", userPk(user), models.ScheduleOutfitIn{
		OutfitId: outfit.ID,
		Date:     "2026-09-15",
		Notes:    StrPointer("Team offsite"),
	})
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	var entry models.CalendarEntry
	result := db.Where("owner_id = ? AND date = ?", user.ID, "2026-09-15").Take(&entry)
	require.NoError(t, result.Error)
	assert.Equal(t, outfit.ID, entry.OutfitID)
}

func TestScheduleOutfitBadDate(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, nil, nil, nil, test.URLCacheMock{})
	user := test.FakeUser(db, "")

	outfit := models.Outfit{Name: "Everyday", OwnerID: user.ID}
	db.Create(&outfit)

	req := test.NewJSONAuthRequest("POST", "/api/calendar", userPk(user), models.ScheduleOutfitIn{
		OutfitId: outfit.ID,
		Date:     "15/09/2026",
	})
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestScheduleForeignOutfitRejected(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, nil, nil, nil, test.URLCacheMock{})
	user := test.FakeUser(db, "")
	other := test.FakeUser(db, "other@example.com")

	outfit := models.Outfit{Name: "Not Yours", OwnerID: other.ID}
	db.Create(&outfit)

	req := test.NewJSONAuthRequest("POST", "/api/calendar", userPk(user), models.ScheduleOutfitIn{
		OutfitId: outfit.ID,
		Date:     "2026-09-15",
	})
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTodayAndUpcomingOutfits(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, nil, nil, nil, test.URLCacheMock{})
	user := test.FakeUser(db, "")

	outfit := models.Outfit{Name: "Everyday", OwnerID: user.ID}
	db.Create(&outfit)

	today := time.Now().Format("2006-01-02")
	inThreeDays := time.Now().AddDate(0, 0, 3).Format("2006-01-02")
	farFuture := time.Now().AddDate(0, 0, 30).Format("2006-01-02")
	db.Create(&models.CalendarEntry{OutfitID: outfit.ID, OwnerID: user.ID, Date: today})
	db.Create(&models.CalendarEntry{OutfitID: outfit.ID, OwnerID: user.ID, Date: inThreeDays})
	db.Create(&models.CalendarEntry{OutfitID: outfit.ID, OwnerID: user.ID, Date: farFuture})

	req := test.NewJSONAuthRequest("GET", "/api/calendar/today", userPk(user), "")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var entries []models.CalendarEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	assert.Len(t, entries, 1)

	req = test.NewJSONAuthRequest("GET", "/api/calendar/upcoming", userPk(user), "")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	entries = nil
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	assert.Len(t, entries, 2)

	req = test.NewJSONAuthRequest("GET", "/api/calendar/upcoming?days=40", userPk(user), "")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	entries = nil
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	assert.Len(t, entries, 3)
}

func TestUnscheduleOutfit(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, nil, nil, nil, test.URLCacheMock{})
	user := test.FakeUser(db, "")

	outfit := models.Outfit{Name: "Everyday", OwnerID: user.ID}
	db.Create(&outfit)
	entry := models.CalendarEntry{OutfitID: outfit.ID, OwnerID: user.ID, Date: "2026-09-15"}
	db.Create(&entry)

	req := test.NewJSONAuthRequest("DELETE", "/api/calendar/"+UIntToStr(entry.ID), userPk(user), "")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var count int64
	db.Model(&models.CalendarEntry{}).Where("id = ?", entry.ID).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestStatsSummary(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, nil, nil, nil, test.URLCacheMock{})
	user := test.FakeUser(db, "")

	worn := test.FakeItem(db, user.ID, "Tee", "T-shirt", "White", "")
	test.FakeItem(db, user.ID, "Jeans", "Jeans", "Blue", "")

	outfit := models.Outfit{Name: "Everyday", OwnerID: user.ID}
	db.Create(&outfit)
	unworn := models.Outfit{Name: "Fancy", OwnerID: user.ID}
	db.Create(&unworn)

	db.Create(&models.WearRecord{OutfitID: outfit.ID, OwnerID: user.ID, Date: "2026-08-20"})
	db.Create(&models.ItemWearRecord{ClothingItemID: worn.ID, OutfitID: outfit.ID, OwnerID: user.ID, Date: "2026-08-20"})

	req := test.NewJSONAuthRequest("GET", "/api/stats/summary", userPk(user), "")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var summary models.StatsSummaryOut
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, int64(2), summary.TotalItems)
	assert.Equal(t, int64(2), summary.TotalOutfits)
	assert.Equal(t, int64(1), summary.TotalWears)
	assert.Equal(t, int64(1), summary.NeverWornItems)
	assert.Equal(t, int64(1), summary.NeverWornOutfits)
}

func TestItemWearRankings(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, nil, nil, nil, test.URLCacheMock{})
	user := test.FakeUser(db, "")

	favorite := test.FakeItem(db, user.ID, "Tee", "T-shirt", "White", "")
	forgotten := test.FakeItem(db, user.ID, "Jeans", "Jeans", "Blue", "")

	outfit := models.Outfit{Name: "Everyday", OwnerID: user.ID}
	db.Create(&outfit)
	for _, date := range []string{"2026-08-18", "2026-08-19", "2026-08-20"} {
		db.Create(&models.ItemWearRecord{ClothingItemID: favorite.ID, OutfitID: outfit.ID, OwnerID: user.ID, Date: date})
	}

	req := test.NewJSONAuthRequest("GET", "/api/stats/most-worn-items", userPk(user), "")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var rows []models.WearCountOut
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, favorite.ID, rows[0].Id)
	assert.Equal(t, int64(3), rows[0].WearCount)

	req = test.NewJSONAuthRequest("GET", "/api/stats/least-worn-items", userPk(user), "")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	rows = nil
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, forgotten.ID, rows[0].Id)
	assert.Equal(t, int64(0), rows[0].WearCount)
}

func TestMostWornOutfits(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, nil, nil, nil, test.URLCacheMock{})
	user := test.FakeUser(db, "")

	daily := models.Outfit{Name: "Daily", OwnerID: user.ID}
	db.Create(&daily)
	rare := models.Outfit{Name: "Rare", OwnerID: user.ID}
	db.Create(&rare)

	db.Create(&models.WearRecord{OutfitID: daily.ID, OwnerID: user.ID, Date: "2026-08-19"})
	db.Create(&models.WearRecord{OutfitID: daily.ID, OwnerID: user.ID, Date: "2026-08-20"})
	db.Create(&models.WearRecord{OutfitID: rare.ID, OwnerID: user.ID, Date: "2026-08-20"})

	req := test.NewJSONAuthRequest("GET", "/api/stats/most-worn-outfits", userPk(user), "")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var rows []models.WearCountOut
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, daily.ID, rows[0].Id)
	assert.Equal(t, int64(2), rows[0].WearCount)
}

func TestTopRatedOutfits(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, nil, nil, nil, test.URLCacheMock{})
	user := test.FakeUser(db, "")

	best := models.Outfit{Name: "Best", OwnerID: user.ID, Rating: IntPointer(5)}
	db.Create(&best)
	decent := models.Outfit{Name: "Decent", OwnerID: user.ID, Rating: IntPointer(3)}
	db.Create(&decent)
	unrated := models.Outfit{Name: "Unrated", OwnerID: user.ID}
	db.Create(&unrated)

	req := test.NewJSONAuthRequest("GET", "/api/stats/top-rated-outfits?limit=1", userPk(user), "")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var outfits []models.Outfit
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &outfits))
	require.Len(t, outfits, 1)
	assert.Equal(t, "Best", outfits[0].Name)
}

func TestSeasonalRotation(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, nil, nil, nil, test.URLCacheMock{})
	user := test.FakeUser(db, "")

	test.FakeItem(db, user.ID, "Tee", "T-shirt", "White", "Summer")
	test.FakeItem(db, user.ID, "Parka", "Jacket", "Green", "Winter")
	test.FakeItem(db, user.ID, "Jeans", "Jeans", "Blue", "All-Season")

	req := test.NewJSONAuthRequest("GET", "/api/seasonal", userPk(user), "")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var payload models.SeasonalOut
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.NotEmpty(t, payload.CurrentSeason)
	assert.NotEmpty(t, payload.UpcomingSeason)
	assert.NotEqual(t, payload.CurrentSeason, payload.UpcomingSeason)
	assert.GreaterOrEqual(t, payload.DaysUntilChange, 0)
	// all-season items never go into storage
	for _, item := range payload.StoreAway {
		assert.NotEqual(t, "Jeans", item.Name)
	}
}

func TestColorDistribution(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, nil, nil, nil, test.URLCacheMock{})
	user := test.FakeUser(db, "")

	test.FakeItem(db, user.ID, "Tee", "T-shirt", "blue", "")
	test.FakeItem(db, user.ID, "Jeans", "Jeans", "BLUE", "")
	test.FakeItem(db, user.ID, "Boots", "Boots", "Black", "")

	req := test.NewJSONAuthRequest("GET", "/api/colors/distribution", userPk(user), "")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var rows []models.ColorCountOut
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "Blue", rows[0].Color)
	assert.Equal(t, int64(2), rows[0].Count)
	assert.Equal(t, "Black", rows[1].Color)
}

func TestListColorSeasons(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, nil, nil, nil, test.URLCacheMock{})
	user := test.FakeUser(db, "")

	req := test.NewJSONAuthRequest("GET", "/api/colors/seasons", userPk(user), "")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var seasons []models.ColorSeason
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &seasons))
	require.Len(t, seasons, 4)
	assert.Equal(t, "Winter", seasons[0].Name)
	assert.NotEmpty(t, seasons[0].BestColors)
}

func TestColorAnalysis(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, nil, nil, nil, test.URLCacheMock{})
	user := test.FakeUser(db, "")
	db.Model(&models.UserAccount{}).Where("id = ?", user.ID).Update("color_season", "Winter")

	test.FakeItem(db, user.ID, "Black Coat", "Coat", "Black", "")
	test.FakeItem(db, user.ID, "Orange Scarf", "Scarf", "Orange", "")

	req := test.NewJSONAuthRequest("GET", "/api/colors/analysis", userPk(user), "")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var payload models.ColorAnalysisOut
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.NotNil(t, payload.Season)
	assert.Equal(t, "Winter", payload.Season.Name)
	require.Len(t, payload.Compatible, 1)
	assert.Equal(t, "Black Coat", payload.Compatible[0].Name)
	require.Len(t, payload.Clashing, 1)
	assert.Equal(t, "Orange Scarf", payload.Clashing[0].Name)
	assert.Len(t, payload.Distribution, 2)
}

func TestColorAnalysisWithoutSeason(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, nil, nil, nil, test.URLCacheMock{})
	user := test.FakeUser(db, "")

	test.FakeItem(db, user.ID, "Tee", "T-shirt", "White", "")

	req := test.NewJSONAuthRequest("GET", "/api/colors/analysis", userPk(user), "")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var payload models.ColorAnalysisOut
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Nil(t, payload.Season)
	assert.Empty(t, payload.Compatible)
	assert.Empty(t, payload.Clashing)
}
