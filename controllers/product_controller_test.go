package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/sellport/sellport-api/config"
	"github.com/sellport/sellport-api/models"
	"github.com/sellport/sellport-api/services"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func setupProductTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := db.AutoMigrate(&models.User{}, &models.Product{}, &models.UserSettings{}); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

func createTestSeller(t *testing.T, db *gorm.DB, authID, username string) *models.User {
	t.Helper()
	seller := models.User{
		AuthID:   authID,
		Name:     "Seller " + username,
		Email:    username + "@example.com",
		Username: username,
		Role:     models.RoleSeller,
	}
	if err := db.Create(&seller).Error; err != nil {
		t.Fatalf("Failed to create test seller: %v", err)
	}
	return &seller
}

func TestCreateProduct(t *testing.T) {
	db := setupProductTestDB(t)
	config.SetDB(db)

	seller := createTestSeller(t, db, "auth0|seller1", "janedoe")

	eurSeller := createTestSeller(t, db, "auth0|seller2", "eurseller")
	db.Create(&models.UserSettings{UserID: eurSeller.ID, Currency: "EUR"})

	tests := []struct {
		name           string
		authID         string
		requestBody    map[string]interface{}
		expectedStatus int
		expectedError  string
		checkResponse  func(t *testing.T, data map[string]interface{})
	}{
		{
			name:   "create draft product with default currency",
			authID: seller.AuthID,
			requestBody: map[string]interface{}{
				"title": "Premium E-Book",
				"price": "49.99",
			},
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, data map[string]interface{}) {
				assert.Equal(t, "draft", data["status"])
				assert.Equal(t, "USD", data["currency"])
				assert.Equal(t, "49.99", data["price"])
			},
		},
		{
			name:   "currency follows seller settings",
			authID: eurSeller.AuthID,
			requestBody: map[string]interface{}{
				"title": "EUR Product",
				"price": "10.00",
			},
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, data map[string]interface{}) {
				assert.Equal(t, "EUR", data["currency"])
			},
		},
		{
			name:   "active status and custom fields accepted",
			authID: seller.AuthID,
			requestBody: map[string]interface{}{
				"title":  "Course",
				"price":  "99.00",
				"status": "active",
				"custom_fields": []map[string]interface{}{
					{"id": 1, "name": "Company", "type": "text", "required": true},
				},
			},
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, data map[string]interface{}) {
				assert.Equal(t, "active", data["status"])
				fields := data["custom_fields"].([]interface{})
				assert.Len(t, fields, 1)
			},
		},
		{
			name:   "missing title rejected",
			authID: seller.AuthID,
			requestBody: map[string]interface{}{
				"price": "49.99",
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "VALIDATION_ERROR",
		},
		{
			name:   "negative price rejected",
			authID: seller.AuthID,
			requestBody: map[string]interface{}{
				"title": "Broken",
				"price": "-1.00",
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "VALIDATION_ERROR",
		},
		{
			name:   "unknown status rejected",
			authID: seller.AuthID,
			requestBody: map[string]interface{}{
				"title":  "Broken",
				"price":  "10.00",
				"status": "archived",
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "VALIDATION_ERROR",
		},
		{
			name:   "user without profile rejected",
			authID: "auth0|ghost",
			requestBody: map[string]interface{}{
				"title": "Ghost Product",
				"price": "10.00",
			},
			expectedStatus: http.StatusNotFound,
			expectedError:  "USER_NOT_FOUND",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupTestRouter()
			router.POST("/products", mockAuthMiddleware(tt.authID, "seller", ""), CreateProduct)

			body, _ := json.Marshal(tt.requestBody)
			req, _ := http.NewRequest(http.MethodPost, "/products", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			var response map[string]interface{}
			assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

			if tt.expectedError != "" {
				errorData := response["error"].(map[string]interface{})
				assert.Equal(t, tt.expectedError, errorData["code"])
				return
			}

			if tt.checkResponse != nil {
				tt.checkResponse(t, response["data"].(map[string]interface{}))
			}
		})
	}
}

func TestGetProducts_ScopedToSeller(t *testing.T) {
	db := setupProductTestDB(t)
	config.SetDB(db)

	seller := createTestSeller(t, db, "auth0|seller1", "janedoe")
	other := createTestSeller(t, db, "auth0|seller2", "otherseller")

	db.Create(&models.Product{UserID: seller.ID, Title: "Mine", Price: d("10"), Currency: "USD", Status: models.ProductStatusActive})
	db.Create(&models.Product{UserID: other.ID, Title: "Theirs", Price: d("20"), Currency: "USD", Status: models.ProductStatusActive})

	router := setupTestRouter()
	router.GET("/products", mockAuthMiddleware(seller.AuthID, "seller", ""), GetProducts)

	req, _ := http.NewRequest(http.MethodGet, "/products", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	data := response["data"].([]interface{})
	assert.Len(t, data, 1)
	assert.Equal(t, "Mine", data[0].(map[string]interface{})["title"])
}

func TestUpdateProduct(t *testing.T) {
	db := setupProductTestDB(t)
	config.SetDB(db)

	seller := createTestSeller(t, db, "auth0|seller1", "janedoe")
	other := createTestSeller(t, db, "auth0|seller2", "otherseller")

	product := models.Product{
		UserID:   seller.ID,
		Title:    "Old Title",
		Price:    d("10.00"),
		Currency: "USD",
		Status:   models.ProductStatusDraft,
	}
	db.Create(&product)

	t.Run("replaces editable fields", func(t *testing.T) {
		router := setupTestRouter()
		router.PUT("/products/:id", mockAuthMiddleware(seller.AuthID, "seller", ""), UpdateProduct)

		body, _ := json.Marshal(map[string]interface{}{
			"title":  "New Title",
			"price":  "25.00",
			"status": "active",
		})
		req, _ := http.NewRequest(http.MethodPut, "/products/"+product.ID.String(), bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var saved models.Product
		db.First(&saved, "id = ?", product.ID)
		assert.Equal(t, "New Title", saved.Title)
		assert.Equal(t, models.ProductStatusActive, saved.Status)
	})

	t.Run("cannot update another seller's product", func(t *testing.T) {
		router := setupTestRouter()
		router.PUT("/products/:id", mockAuthMiddleware(other.AuthID, "seller", ""), UpdateProduct)

		body, _ := json.Marshal(map[string]interface{}{
			"title": "Hijacked",
			"price": "1.00",
		})
		req, _ := http.NewRequest(http.MethodPut, "/products/"+product.ID.String(), bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestToggleProductStatus(t *testing.T) {
	db := setupProductTestDB(t)
	config.SetDB(db)

	seller := createTestSeller(t, db, "auth0|seller1", "janedoe")

	toggle := func(t *testing.T, productID string) string {
		router := setupTestRouter()
		router.PATCH("/products/:id/toggle", mockAuthMiddleware(seller.AuthID, "seller", ""), ToggleProductStatus)

		req, _ := http.NewRequest(http.MethodPatch, "/products/"+productID+"/toggle", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response map[string]interface{}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		return response["data"].(map[string]interface{})["status"].(string)
	}

	t.Run("active toggles to inactive and back", func(t *testing.T) {
		product := models.Product{UserID: seller.ID, Title: "Active", Price: d("10"), Currency: "USD", Status: models.ProductStatusActive}
		db.Create(&product)

		assert.Equal(t, "inactive", toggle(t, product.ID.String()))
		assert.Equal(t, "active", toggle(t, product.ID.String()))
	})

	t.Run("draft activates on first toggle", func(t *testing.T) {
		product := models.Product{UserID: seller.ID, Title: "Draft", Price: d("10"), Currency: "USD", Status: models.ProductStatusDraft}
		db.Create(&product)

		assert.Equal(t, "active", toggle(t, product.ID.String()))
	})
}

func TestDeleteProduct(t *testing.T) {
	db := setupProductTestDB(t)
	config.SetDB(db)

	seller := createTestSeller(t, db, "auth0|seller1", "janedoe")

	mockImages := services.NewMockImageService()
	mockImages.SetAsMockForTesting()
	defer services.SetImageService(nil)

	product := models.Product{
		UserID:   seller.ID,
		Title:    "With Images",
		Price:    d("10"),
		Currency: "USD",
		Status:   models.ProductStatusActive,
		Images:   []string{"products/mock_cover.png"},
	}
	db.Create(&product)
	mockImages.AddImage("products/mock_cover.png", []byte("png-bytes"))

	router := setupTestRouter()
	router.DELETE("/products/:id", mockAuthMiddleware(seller.AuthID, "seller", ""), DeleteProduct)

	req, _ := http.NewRequest(http.MethodDelete, "/products/"+product.ID.String(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var gone models.Product
	err := db.First(&gone, "id = ?", product.ID).Error
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	assert.False(t, mockImages.ImageExists("products/mock_cover.png"))
}
