package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"lingerie-shop-server/internal/middleware"
	"lingerie-shop-server/internal/models"
	"lingerie-shop-server/internal/utils"
)

// WishlistHandler handles saved-product requests.
type WishlistHandler struct {
	DB *gorm.DB
}

// NewWishlistHandler creates a new WishlistHandler.
func NewWishlistHandler(db *gorm.DB) *WishlistHandler {
	return &WishlistHandler{DB: db}
}

// ToggleWishlistRequest represents the request body for toggling a
// product on the wishlist.
type ToggleWishlistRequest struct {
	ProductID string `json:"productId" binding:"required,uuid"`
}

// ToggleWishlist adds the product if absent, removes it if present.
func (h *WishlistHandler) ToggleWishlist(c *gin.Context) {
	var req ToggleWishlistRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var entry models.Wishlist
	err := h.DB.Where("user_id = ? AND product_id = ?", userID, req.ProductID).First(&entry).Error
	switch {
	case err == nil:
		if err := h.DB.Delete(&entry).Error; err != nil {
			utils.InternalServerError(c, "Failed to update wishlist: "+err.Error())
			return
		}
		utils.Success(c, "Removed from wishlist", gin.H{"wishlisted": false})
	case err == gorm.ErrRecordNotFound:
		var product models.Product
		if err := h.DB.First(&product, "id = ?", req.ProductID).Error; err != nil {
			utils.NotFound(c, "Product not found")
			return
		}
		entry = models.Wishlist{UserID: userID, ProductID: req.ProductID}
		if err := h.DB.Create(&entry).Error; err != nil {
			utils.InternalServerError(c, "Failed to update wishlist: "+err.Error())
			return
		}
		utils.Success(c, "Added to wishlist", gin.H{"wishlisted": true})
	default:
		utils.InternalServerError(c, "Database error: "+err.Error())
	}
}

// GetWishlist lists the caller's saved products.
func (h *WishlistHandler) GetWishlist(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var entries []models.Wishlist
	err := h.DB.Where("user_id = ?", userID).
		Preload("Product").
		Preload("Product.Variants").
		Preload("Product.Variants.Images").
		Order("created_at desc").
		Find(&entries).Error
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch wishlist: "+err.Error())
		return
	}

	// Flatten to the products themselves; the join row is an
	// implementation detail.
	products := make([]models.Product, 0, len(entries))
	for _, entry := range entries {
		if entry.Product != nil {
			products = append(products, *entry.Product)
		}
	}

	utils.Success(c, "Wishlist fetched successfully", products)
}
