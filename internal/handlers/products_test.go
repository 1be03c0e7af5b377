package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"lingerie-shop-server/internal/models"
)

func newProductRouter(t *testing.T, db *gorm.DB) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	h := NewProductHandler(db)

	router := gin.New()
	router.GET("/products", h.GetProducts)
	router.GET("/products/:productId", h.GetProductDetail)
	return router
}

func TestGetProductDetail(t *testing.T) {
	db := newHandlerTestDB(t)
	router := newProductRouter(t, db)

	variant := seedVariant(t, db, "BRA-BLK-34B", "1299.50", 5)

	req := httptest.NewRequest(http.MethodGet, "/products/"+variant.ProductID, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, "body: %s", w.Body.String())

	var resp struct {
		Data models.Product `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, variant.ProductID, resp.Data.ID)
	require.Len(t, resp.Data.Variants, 1)
	assert.Equal(t, "BRA-BLK-34B", resp.Data.Variants[0].SKU)
}

func TestGetProductDetailNotFound(t *testing.T) {
	db := newHandlerTestDB(t)
	router := newProductRouter(t, db)

	req := httptest.NewRequest(http.MethodGet, "/products/no-such-product", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetProductsCategoryNameFilter(t *testing.T) {
	db := newHandlerTestDB(t)
	router := newProductRouter(t, db)

	category := models.Category{Name: "Bras"}
	require.NoError(t, db.Create(&category).Error)
	inCategory := models.Product{Name: "Everyday T-Shirt Bra", CategoryID: &category.ID}
	require.NoError(t, db.Create(&inCategory).Error)
	require.NoError(t, db.Create(&models.Product{Name: "Silk Robe"}).Error)

	req := httptest.NewRequest(http.MethodGet, "/products?category_id=bras", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []models.Product `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, inCategory.ID, resp.Data[0].ID)
}
