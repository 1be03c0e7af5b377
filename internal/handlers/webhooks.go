package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"lingerie-shop-server/internal/models"
	"lingerie-shop-server/internal/utils"
)

// WebhookHandler receives courier status callbacks.
type WebhookHandler struct {
	DB     *gorm.DB
	Logger *zap.Logger
}

// NewWebhookHandler creates a new WebhookHandler.
func NewWebhookHandler(db *gorm.DB, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{DB: db, Logger: logger}
}

// ShiprocketWebhookPayload is the subset of the courier callback we
// act on.
type ShiprocketWebhookPayload struct {
	AWB           string `json:"awb"`
	CurrentStatus string `json:"current_status"`
}

// ShiprocketWebhook updates order status from courier tracking events.
// Unknown AWBs and statuses we don't track are acknowledged with 200
// so the courier stops retrying.
func (h *WebhookHandler) ShiprocketWebhook(c *gin.Context) {
	var payload ShiprocketWebhookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.BadRequest(c, "Invalid webhook payload")
		return
	}

	if payload.AWB == "" {
		utils.Success(c, "Webhook received", nil)
		return
	}

	var newStatus models.OrderStatus
	switch strings.ToUpper(payload.CurrentStatus) {
	case "DELIVERED":
		newStatus = models.OrderDelivered
	case "RTO INITIATED", "RTO DELIVERED":
		newStatus = models.OrderCancelled
	default:
		utils.Success(c, "Webhook received", nil)
		return
	}

	var order models.Order
	err := h.DB.Where("tracking_number = ?", payload.AWB).First(&order).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			h.Logger.Warn("courier webhook for unknown awb", zap.String("awb", payload.AWB))
			utils.Success(c, "Webhook received", nil)
			return
		}
		utils.InternalServerError(c, "Database error: "+err.Error())
		return
	}

	order.Status = newStatus
	if err := h.DB.Save(&order).Error; err != nil {
		utils.InternalServerError(c, "Failed to update order: "+err.Error())
		return
	}

	h.Logger.Info("order status updated from courier webhook",
		zap.String("orderId", order.ID),
		zap.String("awb", payload.AWB),
		zap.String("status", string(newStatus)))

	utils.Success(c, "Webhook processed", nil)
}
