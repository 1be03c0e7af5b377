package services

import (
	"fmt"
	"strings"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"

	"lingerie-shop-server/internal/config"
)

// WhatsAppService sends booking and order notifications over WhatsApp
// via Twilio. With no credentials configured it runs in simulation
// mode and only logs the message, so local development never needs a
// Twilio account. Delivery failures are logged and swallowed: a missed
// notification must never roll back a paid order or a booking.
type WhatsAppService struct {
	client     *twilio.RestClient
	fromNumber string
	logger     *zap.Logger
}

// NewWhatsAppService creates the Twilio-backed notifier.
func NewWhatsAppService(cfg config.TwilioConfig, logger *zap.Logger) *WhatsAppService {
	var client *twilio.RestClient
	if cfg.AccountSID != "" && cfg.AuthToken != "" {
		client = twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: cfg.AccountSID,
			Password: cfg.AuthToken,
		})
	} else {
		logger.Warn("twilio credentials missing, whatsapp messages will only be logged")
	}
	return &WhatsAppService{
		client:     client,
		fromNumber: cfg.WhatsAppNumber,
		logger:     logger,
	}
}

// send normalizes the number ("9999999999" becomes
// "whatsapp:+919999999999") and dispatches the message.
func (s *WhatsAppService) send(toNumber, body string) {
	if !strings.HasPrefix(toNumber, "whatsapp:") {
		if !strings.HasPrefix(toNumber, "+") {
			toNumber = "+91" + toNumber
		}
		toNumber = "whatsapp:" + toNumber
	}

	if s.client == nil {
		s.logger.Info("simulated whatsapp message",
			zap.String("to", toNumber), zap.String("body", body))
		return
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetFrom(s.fromNumber)
	params.SetTo(toNumber)
	params.SetBody(body)

	msg, err := s.client.Api.CreateMessage(params)
	if err != nil {
		s.logger.Warn("whatsapp delivery failed",
			zap.String("to", toNumber), zap.Error(err))
		return
	}
	sid := ""
	if msg.Sid != nil {
		sid = *msg.Sid
	}
	s.logger.Info("whatsapp message sent",
		zap.String("to", toNumber), zap.String("sid", sid))
}

// NotifyOrderConfirmed tells the customer their payment went through.
func (s *WhatsAppService) NotifyOrderConfirmed(userName, phone, orderID string, amount float64) {
	shortID := orderID
	if len(shortID) > 8 {
		shortID = shortID[:8]
	}
	msg := fmt.Sprintf(
		"Hello %s!\nThank you for shopping with Kiraka.\n\nOrder Confirmed: #%s\nAmount: ₹%.2f\n\nWe will notify you when it ships!",
		userName, shortID, amount)
	s.send(phone, msg)
}

// NotifyConsultationBooked sends the fitting confirmation with the
// meeting link.
func (s *WhatsAppService) NotifyConsultationBooked(userName, phone, timeStr, meetLink string) {
	msg := fmt.Sprintf(
		"Hi %s, your fitting is confirmed!\n\nTime: %s\nJoin Link: %s\n\nPlease have a measuring tape ready. See you soon!",
		userName, timeStr, meetLink)
	s.send(phone, msg)
}
