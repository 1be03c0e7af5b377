package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"lingerie-shop-server/internal/models"
	"lingerie-shop-server/internal/utils"
)

// CouponHandler handles discount code lookups.
type CouponHandler struct {
	DB *gorm.DB
}

// NewCouponHandler creates a new CouponHandler.
func NewCouponHandler(db *gorm.DB) *CouponHandler {
	return &CouponHandler{DB: db}
}

// VerifyCoupon checks a code and returns its discount. Codes are
// stored uppercase.
func (h *CouponHandler) VerifyCoupon(c *gin.Context) {
	code := strings.ToUpper(strings.TrimSpace(c.Param("code")))
	if code == "" {
		utils.BadRequest(c, "Coupon code is required")
		return
	}

	var coupon models.Coupon
	err := h.DB.Where("code = ? AND is_active = ?", code, true).First(&coupon).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Invalid or expired coupon code")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	utils.Success(c, "Coupon applied", gin.H{
		"code":            coupon.Code,
		"discountPercent": coupon.DiscountPercent,
	})
}
