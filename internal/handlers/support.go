package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"lingerie-shop-server/internal/middleware"
	"lingerie-shop-server/internal/models"
	"lingerie-shop-server/internal/utils"
)

// SupportHandler handles after-sales requests.
type SupportHandler struct {
	DB *gorm.DB
}

// NewSupportHandler creates a new SupportHandler.
func NewSupportHandler(db *gorm.DB) *SupportHandler {
	return &SupportHandler{DB: db}
}

// ReturnRequestBody represents the request body for a return request.
type ReturnRequestBody struct {
	OrderItemID string `json:"orderItemId" binding:"required,uuid"`
	Reason      string `json:"reason"`
}

// RequestReturn opens a return request on one item of a delivered
// order. Non-returnable products and already-requested items are
// refused.
func (h *SupportHandler) RequestReturn(c *gin.Context) {
	var req ReturnRequestBody
	if !utils.BindAndValidate(c, &req) {
		return
	}

	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var item models.OrderItem
	err := h.DB.Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("order_items.id = ? AND orders.user_id = ?", req.OrderItemID, userID).
		Preload("Order").
		Preload("Variant").
		Preload("Variant.Product").
		First(&item).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Order item not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	if item.Order == nil || item.Order.Status != models.OrderDelivered {
		utils.BadRequest(c, "Returns are only accepted on delivered orders")
		return
	}
	if item.Variant != nil && item.Variant.Product != nil &&
		item.Variant.Product.ReturnPolicyType != "returnable" {
		utils.BadRequest(c, "This product is not eligible for return")
		return
	}
	if item.ReturnRequestStatus != models.ReturnNone {
		utils.Conflict(c, "A return has already been requested for this item")
		return
	}

	item.ReturnRequestStatus = models.ReturnRequested
	if err := h.DB.Save(&item).Error; err != nil {
		utils.InternalServerError(c, "Failed to submit return request: "+err.Error())
		return
	}

	utils.Success(c, "Return request submitted", item)
}
