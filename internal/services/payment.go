package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	razorpay "github.com/razorpay/razorpay-go"
	"go.uber.org/zap"

	"lingerie-shop-server/internal/config"
)

// ErrInvalidPaymentSignature means the checkout callback failed the
// HMAC check, i.e. the frontend response was tampered with.
var ErrInvalidPaymentSignature = errors.New("invalid payment signature")

// PaymentService wraps the Razorpay gateway: order creation before
// checkout and signature verification after it.
type PaymentService struct {
	client    *razorpay.Client
	keySecret string
	logger    *zap.Logger
}

// NewPaymentService creates a Razorpay-backed payment service.
func NewPaymentService(cfg config.RazorpayConfig, logger *zap.Logger) *PaymentService {
	return &PaymentService{
		client:    razorpay.NewClient(cfg.KeyID, cfg.KeySecret),
		keySecret: cfg.KeySecret,
		logger:    logger,
	}
}

// CreateOrder registers an order with Razorpay and returns the gateway
// order id the frontend needs to open checkout. Amount is in rupees;
// Razorpay wants paise.
func (s *PaymentService) CreateOrder(amountRupees float64, receipt string, notes map[string]interface{}) (string, error) {
	data := map[string]interface{}{
		"amount":          int(amountRupees * 100),
		"currency":        "INR",
		"receipt":         receipt,
		"payment_capture": 1,
	}
	if len(notes) > 0 {
		data["notes"] = notes
	}

	order, err := s.client.Order.Create(data, nil)
	if err != nil {
		s.logger.Error("razorpay order creation failed", zap.Error(err))
		return "", fmt.Errorf("create razorpay order: %w", err)
	}

	orderID, ok := order["id"].(string)
	if !ok {
		return "", fmt.Errorf("razorpay order response missing id")
	}
	return orderID, nil
}

// VerifySignature checks the Razorpay callback signature:
// HMAC-SHA256(order_id + "|" + payment_id) keyed with the secret.
func (s *PaymentService) VerifySignature(orderID, paymentID, signature string) error {
	msg := orderID + "|" + paymentID

	mac := hmac.New(sha256.New, []byte(s.keySecret))
	mac.Write([]byte(msg))
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return ErrInvalidPaymentSignature
	}
	return nil
}
