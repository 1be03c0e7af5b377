package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"lingerie-shop-server/internal/models"
)

func newCommerceRouter(t *testing.T, db *gorm.DB, userID string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	h := NewCommerceHandler(db, nil, nil, nil)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("userID", userID)
		c.Set("userRole", models.RoleCustomer)
	})
	router.GET("/cart", h.GetCart)
	router.POST("/cart/items", h.AddCartItem)
	router.DELETE("/cart/items/:itemId", h.RemoveCartItem)
	return router
}

func seedVariant(t *testing.T, db *gorm.DB, sku string, price string, stock int) models.ProductVariant {
	t.Helper()
	product := models.Product{Name: "Everyday T-Shirt Bra"}
	require.NoError(t, db.Create(&product).Error)

	variant := models.ProductVariant{
		ProductID: product.ID,
		SKU:       sku,
		Color:     "Black",
		Size:      "34B",
		Price:     decimal.RequireFromString(price),
	}
	require.NoError(t, db.Create(&variant).Error)

	location := models.Location{Name: "Main Warehouse"}
	require.NoError(t, db.Create(&location).Error)
	require.NoError(t, db.Create(&models.Inventory{
		VariantID:  variant.ID,
		LocationID: location.ID,
		Quantity:   stock,
	}).Error)
	return variant
}

func TestCartTotals(t *testing.T) {
	db := newHandlerTestDB(t)
	router := newCommerceRouter(t, db, "user-a")

	v1 := seedVariant(t, db, "BRA-BLK-34B", "1299.50", 10)
	v2 := seedVariant(t, db, "BRA-BLK-36C", "899.00", 10)

	w := postJSON(t, router, "/cart/items", gin.H{"variantId": v1.ID, "quantity": 2})
	require.Equal(t, http.StatusOK, w.Code)
	w = postJSON(t, router, "/cart/items", gin.H{"variantId": v2.ID, "quantity": 1})
	require.Equal(t, http.StatusOK, w.Code)

	// Adding the same variant again merges into one line.
	w = postJSON(t, router, "/cart/items", gin.H{"variantId": v1.ID, "quantity": 1})
	require.Equal(t, http.StatusOK, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data CartResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data.Items, 2)

	// 3 x 1299.50 + 1 x 899.00, computed in decimal so no float drift.
	assert.True(t, resp.Data.TotalPrice.Equal(decimal.RequireFromString("4797.50")),
		"got total %s", resp.Data.TotalPrice)
}

func TestAddCartItemStockCheck(t *testing.T) {
	db := newHandlerTestDB(t)
	router := newCommerceRouter(t, db, "user-a")

	v := seedVariant(t, db, "BRA-RED-32A", "999.00", 2)

	w := postJSON(t, router, "/cart/items", gin.H{"variantId": v.ID, "quantity": 3})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postJSON(t, router, "/cart/items", gin.H{"variantId": v.ID, "quantity": 2})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRemoveCartItemOwnership(t *testing.T) {
	db := newHandlerTestDB(t)
	routerA := newCommerceRouter(t, db, "user-a")
	routerB := newCommerceRouter(t, db, "user-b")

	v := seedVariant(t, db, "BRA-NVY-34C", "1099.00", 5)

	w := postJSON(t, routerA, "/cart/items", gin.H{"variantId": v.ID, "quantity": 1})
	require.Equal(t, http.StatusOK, w.Code)

	var item models.CartItem
	require.NoError(t, db.First(&item).Error)

	itemPath := "/cart/items/" + strconv.FormatUint(uint64(item.ID), 10)

	// Another user cannot delete a line from someone else's cart.
	req := httptest.NewRequest(http.MethodDelete, itemPath, nil)
	rec := httptest.NewRecorder()
	routerB.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// The owner can.
	req = httptest.NewRequest(http.MethodDelete, itemPath, nil)
	rec = httptest.NewRecorder()
	routerA.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
