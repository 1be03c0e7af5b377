package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"lingerie-shop-server/internal/booking"
	"lingerie-shop-server/internal/config"
	"lingerie-shop-server/internal/middleware"
	"lingerie-shop-server/internal/models"
	"lingerie-shop-server/internal/services"
	"lingerie-shop-server/internal/utils"
)

// ConsultationHandler handles the fitting consultation booking flow:
// calendar, intake questions, slot locking, payment order and the
// final booking.
type ConsultationHandler struct {
	DB       *gorm.DB
	Cfg      *config.Config
	Booking  *booking.Service
	Payment  *services.PaymentService
	WhatsApp *services.WhatsAppService
}

// NewConsultationHandler creates a new ConsultationHandler.
func NewConsultationHandler(db *gorm.DB, cfg *config.Config, bookingSvc *booking.Service,
	payment *services.PaymentService, whatsapp *services.WhatsAppService) *ConsultationHandler {
	return &ConsultationHandler{
		DB:       db,
		Cfg:      cfg,
		Booking:  bookingSvc,
		Payment:  payment,
		WhatsApp: whatsapp,
	}
}

// SlotResponse is the calendar view of one slot. Lock internals are
// not exposed; the frontend only needs to grey out unavailable slots.
type SlotResponse struct {
	ID        uint      `json:"id"`
	StartTime time.Time `json:"startTime"`
	IsBooked  bool      `json:"isBooked"`
	IsLocked  bool      `json:"isLocked"`
}

// GetSlots returns slots in a date range.
// Frontend sends: ?start_date=2026-03-01T00:00:00Z&end_date=2026-03-07T00:00:00Z
func (h *ConsultationHandler) GetSlots(c *gin.Context) {
	startDate, err := time.Parse(time.RFC3339, c.Query("start_date"))
	if err != nil {
		utils.BadRequest(c, "Invalid or missing start_date (RFC3339 expected)")
		return
	}
	endDate, err := time.Parse(time.RFC3339, c.Query("end_date"))
	if err != nil {
		utils.BadRequest(c, "Invalid or missing end_date (RFC3339 expected)")
		return
	}

	slots, err := h.Booking.SlotsBetween(startDate, endDate)
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch slots: "+err.Error())
		return
	}

	resp := make([]SlotResponse, 0, len(slots))
	for _, s := range slots {
		resp = append(resp, SlotResponse{
			ID:        s.ID,
			StartTime: s.StartTime,
			IsBooked:  s.IsBooked,
			IsLocked:  s.IsLocked,
		})
	}
	utils.Success(c, "Slots fetched successfully", resp)
}

// GetQuestions returns the active intake questions for the diagnosis step.
func (h *ConsultationHandler) GetQuestions(c *gin.Context) {
	var questions []models.ConsultationQuestion
	if err := h.DB.Where("is_active = ?", true).Order("sort_order asc").Find(&questions).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch questions: "+err.Error())
		return
	}
	utils.Success(c, "Questions fetched successfully", questions)
}

// LockSlotRequest represents the request body for locking a slot.
type LockSlotRequest struct {
	SlotID uint `json:"slotId" binding:"required"`
}

// LockSlot grants the caller a temporary exclusive reservation of a
// slot so the questionnaire-and-pay flow cannot race another user.
func (h *ConsultationHandler) LockSlot(c *gin.Context) {
	var req LockSlotRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	expiresAt, err := h.Booking.Acquire(req.SlotID, userID)
	if err != nil {
		switch {
		case errors.Is(err, booking.ErrSlotNotFound):
			utils.NotFound(c, "Slot not found")
		case errors.Is(err, booking.ErrSlotConflict):
			utils.Conflict(c, "Slot is currently being booked by someone else")
		default:
			utils.InternalServerError(c, "Failed to lock slot: "+err.Error())
		}
		return
	}

	utils.Success(c, fmt.Sprintf("Slot locked for %d minutes", int(h.Cfg.Booking.LockTTL.Minutes())), gin.H{
		"expiresAt": expiresAt,
	})
}

// CreateOrder creates a Razorpay order for the fixed consultation fee.
func (h *ConsultationHandler) CreateOrder(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	// Razorpay caps receipts at 40 chars; a user-id tail plus a
	// timestamp keeps it unique and short.
	shortUserID := userID
	if len(shortUserID) > 12 {
		shortUserID = shortUserID[len(shortUserID)-12:]
	}
	receipt := fmt.Sprintf("rcpt_%s_%d", shortUserID, time.Now().Unix())
	if len(receipt) > 40 {
		receipt = receipt[:40]
	}

	orderID, err := h.Payment.CreateOrder(h.Cfg.Booking.ConsultationFee, receipt,
		map[string]interface{}{"type": "consultation"})
	if err != nil {
		utils.InternalServerError(c, "Payment gateway error: "+err.Error())
		return
	}

	utils.Success(c, "Payment order created", gin.H{
		"orderId":  orderID,
		"amount":   int(h.Cfg.Booking.ConsultationFee * 100),
		"currency": "INR",
	})
}

// BookConsultationRequest represents the request body for finalizing a booking.
type BookConsultationRequest struct {
	SlotID    uint                   `json:"slotId" binding:"required"`
	PaymentID string                 `json:"paymentId" binding:"required"`
	Answers   map[string]interface{} `json:"answers"`
}

// ConsultationResponse is what the client sees after booking.
type ConsultationResponse struct {
	ID          string                    `json:"id"`
	BookingDate time.Time                 `json:"bookingDate"`
	Status      models.ConsultationStatus `json:"status"`
	MeetingLink string                    `json:"meetingLink"`
	AmountPaid  float64                   `json:"amountPaid"`
	ExpertNotes string                    `json:"expertNotes,omitempty"`
}

// BookConsultation finalizes the booking after payment: marks the slot
// booked and creates the Consultation record in one transaction, then
// notifies the client over WhatsApp. Payment must already have been
// collected through the gateway; the payment id is stored as reference.
func (h *ConsultationHandler) BookConsultation(c *gin.Context) {
	var req BookConsultationRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	answersJSON, err := json.Marshal(req.Answers)
	if err != nil {
		utils.BadRequest(c, "Invalid answers payload")
		return
	}

	result, err := h.Booking.Finalize(req.SlotID, userID, req.PaymentID, answersJSON)
	if err != nil {
		switch {
		case errors.Is(err, booking.ErrSlotNotFound):
			utils.NotFound(c, "Slot not found")
		case errors.Is(err, booking.ErrSlotConflict):
			utils.Conflict(c, "Slot is no longer available")
		default:
			utils.InternalServerError(c, "Failed to book consultation: "+err.Error())
		}
		return
	}

	// Notification failure must not undo the booking.
	var user models.User
	if err := h.DB.First(&user, "id = ?", userID).Error; err == nil {
		h.WhatsApp.NotifyConsultationBooked(
			user.FullName,
			user.PhoneNumber,
			result.BookingDate.Format("Mon, 02 Jan 2006 15:04 MST"),
			result.MeetingLink,
		)
	}

	utils.Created(c, "Consultation booked successfully", ConsultationResponse{
		ID:          result.Consultation.ID,
		BookingDate: result.BookingDate,
		Status:      result.Consultation.Status,
		MeetingLink: result.MeetingLink,
		AmountPaid:  result.Consultation.AmountPaid,
		ExpertNotes: result.Consultation.ExpertNotes,
	})
}

// GenerateSlotsRequest represents the admin request for bulk slot creation.
type GenerateSlotsRequest struct {
	ConsultantID string `json:"consultantId" binding:"required,uuid"`
	HorizonDays  int    `json:"horizonDays"`
}

// GenerateSlots bulk-creates future slots for a consultant. Admin only.
func (h *ConsultationHandler) GenerateSlots(c *gin.Context) {
	var req GenerateSlotsRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var consultant models.User
	if err := h.DB.First(&consultant, "id = ?", req.ConsultantID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Consultant not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	created, err := h.Booking.GenerateSlots(req.ConsultantID, req.HorizonDays)
	if err != nil {
		utils.InternalServerError(c, "Failed to generate slots: "+err.Error())
		return
	}

	utils.Created(c, "Slots generated successfully", gin.H{"created": created})
}
