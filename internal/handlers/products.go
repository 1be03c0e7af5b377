package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"lingerie-shop-server/internal/models"
	"lingerie-shop-server/internal/utils"
)

// ProductHandler handles catalog browsing requests.
type ProductHandler struct {
	DB *gorm.DB
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(db *gorm.DB) *ProductHandler {
	return &ProductHandler{DB: db}
}

// GetProducts lists catalog products with optional brand/category
// filters and offset/limit paging. The category filter accepts either
// a numeric id or a category name (the navbar sends names).
func (h *ProductHandler) GetProducts(c *gin.Context) {
	skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "12"))
	if limit <= 0 || limit > 100 {
		limit = 12
	}

	query := h.DB.Model(&models.Product{})

	if brandID := c.Query("brand_id"); brandID != "" {
		query = query.Where("brand_id = ?", brandID)
	}

	if category := c.Query("category_id"); category != "" {
		if id, err := strconv.Atoi(category); err == nil {
			query = query.Where("category_id = ?", id)
		} else {
			query = query.Joins("JOIN categories ON categories.id = products.category_id").
				Where("LOWER(categories.name) = LOWER(?)", category)
		}
	}

	var products []models.Product
	err := query.
		Preload("Brand").
		Preload("Category").
		Preload("Variants").
		Preload("Variants.Images").
		Preload("Variants.InventoryItems").
		Offset(skip).Limit(limit).
		Find(&products).Error
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch products: "+err.Error())
		return
	}

	utils.Success(c, "Products fetched successfully", products)
}

// GetProductDetail returns the full product page payload, reviews included.
func (h *ProductHandler) GetProductDetail(c *gin.Context) {
	productID := c.Param("productId")

	var product models.Product
	err := h.DB.
		Preload("Brand").
		Preload("Category").
		Preload("Variants").
		Preload("Variants.Images").
		Preload("Variants.InventoryItems").
		Preload("Reviews").
		First(&product, "id = ?", productID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Product not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	utils.Success(c, "Product fetched successfully", product)
}

// GetBrands returns all brands for the filter menu.
func (h *ProductHandler) GetBrands(c *gin.Context) {
	var brands []models.Brand
	if err := h.DB.Find(&brands).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch brands: "+err.Error())
		return
	}
	utils.Success(c, "Brands fetched successfully", brands)
}

// GetCategories returns all categories for the navbar.
func (h *ProductHandler) GetCategories(c *gin.Context) {
	var categories []models.Category
	if err := h.DB.Find(&categories).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch categories: "+err.Error())
		return
	}
	utils.Success(c, "Categories fetched successfully", categories)
}
