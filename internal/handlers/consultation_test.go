package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"lingerie-shop-server/internal/booking"
	"lingerie-shop-server/internal/config"
	"lingerie-shop-server/internal/models"
	"lingerie-shop-server/internal/services"
)

func newHandlerTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, models.Migrate(db))
	return db
}

// newConsultationRouter wires a consultation handler behind a router
// that authenticates every request as the given user.
func newConsultationRouter(t *testing.T, db *gorm.DB, userID string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Booking: config.BookingConfig{
			LockTTL:         10 * time.Minute,
			SweepInterval:   time.Minute,
			MeetingLink:     "https://meet.example.com/fitting",
			ConsultationFee: 500,
			SlotTimesOfDay:  []string{"10:00", "12:00", "14:00", "16:00"},
			SlotHorizonDays: 30,
		},
	}
	log := zap.NewNop()
	bookingSvc := booking.NewService(db, cfg.Booking, log)
	whatsapp := services.NewWhatsAppService(config.TwilioConfig{}, log)
	h := NewConsultationHandler(db, cfg, bookingSvc, nil, whatsapp)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("userID", userID)
		c.Set("userRole", models.RoleCustomer)
	})
	router.GET("/consultations/slots", h.GetSlots)
	router.POST("/consultations/lock-slot", h.LockSlot)
	router.POST("/consultations/book", h.BookConsultation)
	return router
}

func postJSON(t *testing.T, router *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestLockSlotEndpoint(t *testing.T) {
	db := newHandlerTestDB(t)
	slot := models.ConsultationSlot{StartTime: time.Now().UTC().Add(48 * time.Hour)}
	require.NoError(t, db.Create(&slot).Error)

	routerA := newConsultationRouter(t, db, "user-a")
	routerB := newConsultationRouter(t, db, "user-b")

	w := postJSON(t, routerA, "/consultations/lock-slot", gin.H{"slotId": slot.ID})
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			ExpiresAt time.Time `json:"expiresAt"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Data.ExpiresAt.IsZero())

	// A second user hitting the same slot inside the TTL is refused.
	w = postJSON(t, routerB, "/consultations/lock-slot", gin.H{"slotId": slot.ID})
	assert.Equal(t, http.StatusConflict, w.Code)

	// The holder may refresh their own lock.
	w = postJSON(t, routerA, "/consultations/lock-slot", gin.H{"slotId": slot.ID})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLockSlotEndpointNotFound(t *testing.T) {
	db := newHandlerTestDB(t)
	router := newConsultationRouter(t, db, "user-a")

	w := postJSON(t, router, "/consultations/lock-slot", gin.H{"slotId": 12345})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBookConsultationEndpoint(t *testing.T) {
	db := newHandlerTestDB(t)
	user := models.User{FullName: "Asha", Email: "asha@example.com", PhoneNumber: "9876543210"}
	require.NoError(t, user.SetPassword("password123"))
	require.NoError(t, db.Create(&user).Error)

	slot := models.ConsultationSlot{StartTime: time.Now().UTC().Add(48 * time.Hour)}
	require.NoError(t, db.Create(&slot).Error)

	router := newConsultationRouter(t, db, user.ID)

	w := postJSON(t, router, "/consultations/lock-slot", gin.H{"slotId": slot.ID})
	require.Equal(t, http.StatusOK, w.Code)

	w = postJSON(t, router, "/consultations/book", gin.H{
		"slotId":    slot.ID,
		"paymentId": "pay_test123",
		"answers":   gin.H{"fit_issue": "band rides up"},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Data ConsultationResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, models.ConsultationConfirmed, resp.Data.Status)
	assert.Equal(t, "https://meet.example.com/fitting", resp.Data.MeetingLink)
	assert.InDelta(t, 500, resp.Data.AmountPaid, 0.001)

	// Slot is terminal now: relocking must fail for everyone.
	w = postJSON(t, router, "/consultations/lock-slot", gin.H{"slotId": slot.ID})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestGetSlotsEndpoint(t *testing.T) {
	db := newHandlerTestDB(t)
	base := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		slot := models.ConsultationSlot{StartTime: base.Add(time.Duration(i) * 2 * time.Hour)}
		require.NoError(t, db.Create(&slot).Error)
	}
	outside := models.ConsultationSlot{StartTime: base.Add(72 * time.Hour)}
	require.NoError(t, db.Create(&outside).Error)

	router := newConsultationRouter(t, db, "user-a")

	url := fmt.Sprintf("/consultations/slots?start_date=%s&end_date=%s",
		base.Add(-time.Hour).Format(time.RFC3339),
		base.Add(24*time.Hour).Format(time.RFC3339))
	req := httptest.NewRequest(http.MethodGet, url, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []SlotResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Data, 3)
}
