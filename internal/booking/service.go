package booking

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"lingerie-shop-server/internal/config"
	"lingerie-shop-server/internal/models"
)

// Service implements the consultation slot reservation protocol: a
// time-bounded optimistic lock on a slot, and the finalization of a
// held slot into a permanent Consultation once payment is confirmed.
//
// All state transitions are single conditional UPDATEs so that two
// concurrent requests observing the same slot cannot both win; the row
// qualification re-checks bookedness and lock freshness inside the
// statement itself.
type Service struct {
	db  *gorm.DB
	cfg config.BookingConfig
	log *zap.Logger

	// now is swapped out by tests to exercise TTL boundaries.
	now func() time.Time
}

// NewService creates a booking service.
func NewService(db *gorm.DB, cfg config.BookingConfig, log *zap.Logger) *Service {
	return &Service{
		db:  db,
		cfg: cfg,
		log: log,
		now: time.Now,
	}
}

// Acquire grants the requesting user a temporary exclusive reservation
// of the slot. It succeeds when the slot is unlocked, stale-locked, or
// already locked by the same user (re-entrant refresh), and returns the
// moment the lock expires so the caller can show a countdown.
//
// Returns ErrSlotNotFound for a missing slot and ErrSlotConflict when
// the slot is booked or freshly locked by someone else.
func (s *Service) Acquire(slotID uint, userID string) (time.Time, error) {
	now := s.now().UTC()
	cutoff := now.Add(-s.cfg.LockTTL)

	// Compare-and-swap: the freshness check lives inside the UPDATE so
	// two concurrent acquires cannot both observe "unlocked" and both
	// succeed. A lock is fresh only strictly inside the TTL, so at
	// exactly lockedAt+TTL it is already takeable. A NULL locked_at
	// fails the cutoff comparison and is covered by the
	// is_locked = false arm.
	res := s.db.Model(&models.ConsultationSlot{}).
		Where("id = ? AND is_booked = ?", slotID, false).
		Where("is_locked = ? OR locked_at <= ? OR locked_by_user_id = ?", false, cutoff, userID).
		Updates(map[string]interface{}{
			"is_locked":         true,
			"locked_at":         now,
			"locked_by_user_id": userID,
		})
	if res.Error != nil {
		return time.Time{}, fmt.Errorf("acquire slot lock: %w", res.Error)
	}

	if res.RowsAffected == 0 {
		var count int64
		if err := s.db.Model(&models.ConsultationSlot{}).Where("id = ?", slotID).Count(&count).Error; err != nil {
			return time.Time{}, fmt.Errorf("acquire slot lock: %w", err)
		}
		if count == 0 {
			return time.Time{}, ErrSlotNotFound
		}
		return time.Time{}, ErrSlotConflict
	}

	return now.Add(s.cfg.LockTTL), nil
}

// FinalizeResult is what the booking flow reports back to the client.
type FinalizeResult struct {
	Consultation models.Consultation
	BookingDate  time.Time
	MeetingLink  string
}

// Finalize converts a paid-for slot into a confirmed Consultation.
// Payment must already have been verified by the caller. The slot
// update and the consultation insert happen in one transaction: either
// both land or neither does.
//
// A slot already booked, or freshly locked by a different user, is
// refused with ErrSlotConflict. The caller is not required to hold a
// lock themselves; an unlocked slot may be finalized directly.
func (s *Service) Finalize(slotID uint, userID, paymentRef string, answers datatypes.JSON) (*FinalizeResult, error) {
	now := s.now().UTC()
	cutoff := now.Add(-s.cfg.LockTTL)

	var result FinalizeResult
	err := s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.ConsultationSlot{}).
			Where("id = ? AND is_booked = ?", slotID, false).
			Where("is_locked = ? OR locked_at <= ? OR locked_by_user_id = ?", false, cutoff, userID).
			Update("is_booked", true)
		if res.Error != nil {
			return fmt.Errorf("mark slot booked: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&models.ConsultationSlot{}).Where("id = ?", slotID).Count(&count).Error; err != nil {
				return fmt.Errorf("mark slot booked: %w", err)
			}
			if count == 0 {
				return ErrSlotNotFound
			}
			return ErrSlotConflict
		}

		var slot models.ConsultationSlot
		if err := tx.First(&slot, "id = ?", slotID).Error; err != nil {
			return fmt.Errorf("load booked slot: %w", err)
		}

		consultation := models.Consultation{
			UserID:        userID,
			SlotID:        slot.ID,
			Status:        models.ConsultationConfirmed,
			PaymentID:     paymentRef,
			AmountPaid:    s.cfg.ConsultationFee,
			ClientAnswers: answers,
			MeetingLink:   s.cfg.MeetingLink,
		}
		if err := tx.Create(&consultation).Error; err != nil {
			return fmt.Errorf("create consultation: %w", err)
		}

		result = FinalizeResult{
			Consultation: consultation,
			BookingDate:  slot.StartTime,
			MeetingLink:  consultation.MeetingLink,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("consultation booked",
		zap.String("consultation_id", result.Consultation.ID),
		zap.Uint("slot_id", slotID),
		zap.String("user_id", userID),
	)
	return &result, nil
}

// ReclaimStaleLocks clears every lock whose TTL has elapsed without the
// slot being booked, and reports how many were released. It is
// idempotent: a second pass with no intervening acquires is a no-op.
func (s *Service) ReclaimStaleLocks() (int64, error) {
	cutoff := s.now().UTC().Add(-s.cfg.LockTTL)

	res := s.db.Model(&models.ConsultationSlot{}).
		Where("is_locked = ? AND is_booked = ? AND locked_at < ?", true, false, cutoff).
		Updates(map[string]interface{}{
			"is_locked":         false,
			"locked_at":         nil,
			"locked_by_user_id": nil,
		})
	if res.Error != nil {
		return 0, fmt.Errorf("reclaim stale locks: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// SlotsBetween lists slots whose window starts inside [from, to],
// ordered by start time. Booked and locked slots are included so the
// calendar can grey them out.
func (s *Service) SlotsBetween(from, to time.Time) ([]models.ConsultationSlot, error) {
	var slots []models.ConsultationSlot
	err := s.db.
		Where("start_time >= ? AND start_time <= ?", from, to).
		Order("start_time asc").
		Find(&slots).Error
	if err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	return slots, nil
}

// GenerateSlots bulk-creates future slots for a consultant: the
// configured times of day for each of the next horizonDays days,
// skipping Sundays. Existing slots at the same start time are left
// alone, so the operation can be re-run as the horizon advances.
func (s *Service) GenerateSlots(consultantID string, horizonDays int) (int, error) {
	if horizonDays <= 0 {
		horizonDays = s.cfg.SlotHorizonDays
	}

	today := s.now().UTC().Truncate(24 * time.Hour)
	created := 0

	for dayOffset := 0; dayOffset < horizonDays; dayOffset++ {
		day := today.AddDate(0, 0, dayOffset)
		if day.Weekday() == time.Sunday {
			continue
		}

		for _, tod := range s.cfg.SlotTimesOfDay {
			clock, err := time.Parse("15:04", tod)
			if err != nil {
				return created, fmt.Errorf("parse slot time %q: %w", tod, err)
			}
			startTime := time.Date(day.Year(), day.Month(), day.Day(),
				clock.Hour(), clock.Minute(), 0, 0, time.UTC)

			slot := models.ConsultationSlot{
				StartTime:    startTime,
				ConsultantID: &consultantID,
			}
			res := s.db.Where("start_time = ?", startTime).FirstOrCreate(&slot)
			if res.Error != nil {
				return created, fmt.Errorf("create slot: %w", res.Error)
			}
			if res.RowsAffected > 0 {
				created++
			}
		}
	}

	s.log.Info("consultation slots generated",
		zap.String("consultant_id", consultantID),
		zap.Int("created", created),
		zap.Int("horizon_days", horizonDays),
	)
	return created, nil
}
