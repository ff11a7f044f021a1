package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"closetapi/dbhelper"
	"closetapi/models"
	"closetapi/test"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateItemOk(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, nil, nil, nil, test.URLCacheMock{})
	user := test.FakeUser(db, "")

	req := test.NewJSONAuthRequest("POST", "/api/items", userPk(user), models.CreateItemIn{
		Name:         "Blue Oxford",
		ClothingType: "Shirt",
		Color:        "Blue",
	})
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	var item models.ClothingItem
	result := db.Where("owner_id = ? AND name = ?", user.ID, "Blue Oxford").Take(&item)
	require.NoError(t, result.Error)
	assert.Equal(t, models.LaundryClean, item.LaundryStatus)
	assert.Equal(t, "Shirt", item.ClothingType)
}

func TestCreateItemMissingTypeRejected(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, nil, nil, nil, test.URLCacheMock{})
	user := test.FakeUser(db, "")

	req := test.NewJSONAuthRequestRaw("POST", "/api/items", userPk(user), `{"name": "Nameless"}`)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListItemsGrouped(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, nil, nil, nil, test.URLCacheMock{})
	user := test.FakeUser(db, "")

	test.FakeItem(db, user.ID, "Tee", "T-shirt", "White", "Summer")
	test.FakeItem(db, user.ID, "Jeans", "Jeans", "Black", "All-Season")
	test.FakeItem(db, user.ID, "Runners", "Sneakers", "White", "")
	test.FakeItem(db, user.ID, "Fedora", "Hat", "Brown", "")
	test.FakeItem(db, user.ID, "Lava Lamp", "Decoration", "Red", "")

	req := test.NewJSONAuthRequest("GET", "/api/items", userPk(user), "")
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var payload models.ItemGroupOut
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Len(t, payload.Tops, 1)
	assert.Len(t, payload.Bottoms, 1)
	assert.Len(t, payload.Shoes, 1)
	assert.Len(t, payload.Accessories, 1)
	assert.Len(t, payload.Other, 1)
	assert.Empty(t, payload.Outerwear)
}

func TestListItemsSeasonFilter(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, nil, nil, nil, test.URLCacheMock{})
	user := test.FakeUser(db, "")

	test.FakeItem(db, user.ID, "Tee", "T-shirt", "White", "Summer")
	test.FakeItem(db, user.ID, "Parka", "Jacket", "Green", "Winter")

	req := test.NewJSONAuthRequest("GET", "/api/items?season=summer", userPk(user), "")
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var payload models.ItemGroupOut
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Len(t, payload.Tops, 1)
	assert.Empty(t, payload.Outerwear)
}

func TestItemsAreScopedToOwner(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, nil, nil, nil, test.URLCacheMock{})
	owner := test.FakeUser(db, "owner@example.com")
	intruder := test.FakeUser(db, "intruder@example.com")

	item := test.FakeItem(db, owner.ID, "Tee", "T-shirt", "White", "")

	req := test.NewJSONAuthRequest("GET", "/api/items/"+UIntToStr(item.ID), userPk(intruder), "")
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateItemOk(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, nil, nil, nil, test.URLCacheMock{})
	user := test.FakeUser(db, "")
	item := test.FakeItem(db, user.ID, "Tee", "T-shirt", "White", "")

	req := test.NewJSONAuthRequest("PATCH", "/api/items/"+UIntToStr(item.ID), userPk(user), models.UpdateItemIn{
		Color: test.NewRefString("Navy"),
	})
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var stored models.ClothingItem
	db.First(&stored, item.ID)
	assert.Equal(t, "Navy", stored.Color)
	assert.Equal(t, "Tee", stored.Name)
}

func TestDeleteItemOk(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, nil, nil, nil, test.URLCacheMock{})
	user := test.FakeUser(db, "")
	item := test.FakeItem(db, user.ID, "Tee", "T-shirt", "White", "")

	req := test.NewJSONAuthRequest("DELETE", "/api/items/"+UIntToStr(item.ID), userPk(user), "")
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var count int64
	db.Model(&models.ClothingItem{}).Where("id = ?", item.ID).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestSearchItems(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, nil, nil, nil, test.URLCacheMock{})
	user := test.FakeUser(db, "")

	test.FakeItem(db, user.ID, "Denim Jacket", "Jacket", "Blue", "")
	test.FakeItem(db, user.ID, "Silk Scarf", "Scarf", "Red", "")

	req := test.NewJSONAuthRequest("GET", "/api/items/search?q=denim", userPk(user), "")
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var payload []models.ItemOut
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.Len(t, payload, 1)
	assert.Equal(t, "Denim Jacket", payload[0].Name)
}

func TestLaundryFlow(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, nil, nil, nil, test.URLCacheMock{})
	user := test.FakeUser(db, "")

	dirtyOne := test.FakeItem(db, user.ID, "Tee", "T-shirt", "White", "")
	test.FakeItem(db, user.ID, "Jeans", "Jeans", "Black", "")
	test.FakeItem(db, user.ID, "Runners", "Sneakers", "White", "")
	test.FakeItem(db, user.ID, "Hoodie", "Sweater", "Gray", "")

	req := test.NewJSONAuthRequest("POST", "/api/items/"+UIntToStr(dirtyOne.ID)+"/laundry", userPk(user), "")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = test.NewJSONAuthRequest("GET", "/api/laundry", userPk(user), "")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var payload models.LaundryOut
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, int64(4), payload.TotalCount)
	assert.Equal(t, int64(1), payload.DirtyCount)
	assert.Equal(t, int64(3), payload.CleanCount)
	assert.InDelta(t, 25.0, payload.DirtyPercent, 0.01)
	assert.InDelta(t, 75.0, payload.CleanPercent, 0.01)
	require.Len(t, payload.DirtyItems, 1)
	assert.Equal(t, "Tee", payload.DirtyItems[0].Name)

	req = test.NewJSONAuthRequest("POST", "/api/items/"+UIntToStr(dirtyOne.ID)+"/clean", userPk(user), "")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	var stored models.ClothingItem
	db.First(&stored, dirtyOne.ID)
	assert.Equal(t, models.LaundryClean, stored.LaundryStatus)
}
