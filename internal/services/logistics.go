package services

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"lingerie-shop-server/internal/config"
	"lingerie-shop-server/internal/models"
)

// ShipmentInfo is what Shiprocket hands back for a created shipment.
type ShipmentInfo struct {
	ShipmentID int64  `json:"shipment_id"`
	AWBCode    string `json:"awb_code"`
}

// LogisticsService pushes paid orders to Shiprocket so they show up on
// the fulfilment dashboard, and keeps the auth token across calls.
type LogisticsService struct {
	cfg    config.ShiprocketConfig
	client *resty.Client
	logger *zap.Logger

	mu    sync.Mutex
	token string
}

// NewLogisticsService creates a Shiprocket client.
func NewLogisticsService(cfg config.ShiprocketConfig, logger *zap.Logger) *LogisticsService {
	return &LogisticsService{
		cfg:    cfg,
		client: resty.New().SetBaseURL(cfg.BaseURL),
		logger: logger,
	}
}

func (s *LogisticsService) login() error {
	var result struct {
		Token string `json:"token"`
	}
	resp, err := s.client.R().
		SetBody(map[string]string{
			"email":    s.cfg.Email,
			"password": s.cfg.Password,
		}).
		SetResult(&result).
		Post("/auth/login")
	if err != nil {
		return fmt.Errorf("shiprocket login: %w", err)
	}
	if resp.IsError() || result.Token == "" {
		return fmt.Errorf("shiprocket login failed: status %d", resp.StatusCode())
	}
	s.token = result.Token
	return nil
}

// CreateShipment pushes the order to Shiprocket. Order.Items must be
// preloaded with their variants and products. Returns nil info (no
// error) when the push fails, so checkout can proceed without tracking
// rather than failing a paid order.
func (s *LogisticsService) CreateShipment(order *models.Order, user *models.User) *ShipmentInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token == "" {
		if err := s.login(); err != nil {
			s.logger.Warn("shiprocket unavailable, skipping shipment", zap.Error(err))
			return nil
		}
	}

	var address models.AddressSnapshot
	if err := json.Unmarshal(order.ShippingAddressSnapshot, &address); err != nil {
		s.logger.Warn("order has malformed address snapshot",
			zap.String("order_id", order.ID), zap.Error(err))
		return nil
	}

	orderItems := make([]map[string]interface{}, 0, len(order.Items))
	for _, item := range order.Items {
		name, sku := "Unknown Product", "Unknown SKU"
		if item.Variant != nil {
			sku = item.Variant.SKU
			if item.Variant.Product != nil {
				name = item.Variant.Product.Name
			}
		}
		orderItems = append(orderItems, map[string]interface{}{
			"name":          name,
			"sku":           sku,
			"units":         item.Quantity,
			"selling_price": item.PriceAtPurchase.InexactFloat64(),
		})
	}

	payload := map[string]interface{}{
		"order_id":              order.ID,
		"order_date":            order.CreatedAt.Format("2006-01-02 15:04"),
		"pickup_location":       s.cfg.PickupLocation,
		"billing_customer_name": user.FullName,
		"billing_last_name":     "",
		"billing_address":       address.Street,
		"billing_city":          address.City,
		"billing_pincode":       address.Pincode,
		"billing_state":         address.State,
		"billing_country":       "India",
		"billing_email":         user.Email,
		"billing_phone":         user.PhoneNumber,
		"shipping_is_billing":   true,
		"order_items":           orderItems,
		"payment_method":        "Prepaid",
		"sub_total":             order.TotalAmount.InexactFloat64(),
		// Default box size until per-product dimensions exist.
		"length": 10, "breadth": 10, "height": 10, "weight": 0.5,
	}

	var info ShipmentInfo
	resp, err := s.client.R().
		SetAuthToken(s.token).
		SetBody(payload).
		SetResult(&info).
		Post("/orders/create/adhoc")
	if err != nil {
		s.logger.Warn("shiprocket shipment creation failed", zap.Error(err))
		return nil
	}
	if resp.IsError() {
		s.logger.Warn("shiprocket rejected shipment",
			zap.Int("status", resp.StatusCode()),
			zap.String("body", resp.String()))
		// Token may have expired; force re-login on the next call.
		if resp.StatusCode() == 401 {
			s.token = ""
		}
		return nil
	}

	s.logger.Info("shipment created",
		zap.String("order_id", order.ID),
		zap.String("awb", info.AWBCode))
	return &info
}
