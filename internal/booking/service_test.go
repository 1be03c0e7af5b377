package booking

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"lingerie-shop-server/internal/config"
	"lingerie-shop-server/internal/models"
)

const testLockTTL = 10 * time.Minute

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, models.Migrate(db))
	return db
}

// newTestService returns a service whose clock is controlled by the
// returned setter, so TTL boundaries can be crossed without sleeping.
func newTestService(t *testing.T) (*Service, func(time.Time)) {
	t.Helper()
	db := newTestDB(t)
	svc := NewService(db, config.BookingConfig{
		LockTTL:         testLockTTL,
		SweepInterval:   time.Minute,
		MeetingLink:     "https://meet.example.com/fitting",
		ConsultationFee: 500,
		SlotTimesOfDay:  []string{"10:00", "12:00", "14:00", "16:00"},
		SlotHorizonDays: 30,
	}, zap.NewNop())

	current := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return current }
	return svc, func(tm time.Time) { current = tm }
}

func createSlot(t *testing.T, svc *Service, start time.Time) models.ConsultationSlot {
	t.Helper()
	slot := models.ConsultationSlot{StartTime: start}
	require.NoError(t, svc.db.Create(&slot).Error)
	return slot
}

func reloadSlot(t *testing.T, svc *Service, id uint) models.ConsultationSlot {
	t.Helper()
	var slot models.ConsultationSlot
	require.NoError(t, svc.db.First(&slot, "id = ?", id).Error)
	return slot
}

func TestAcquireMutualExclusion(t *testing.T) {
	svc, _ := newTestService(t)
	slot := createSlot(t, svc, svc.now().Add(48*time.Hour))

	expiresAt, err := svc.Acquire(slot.ID, "user-a")
	require.NoError(t, err)
	assert.Equal(t, svc.now().UTC().Add(testLockTTL), expiresAt)

	_, err = svc.Acquire(slot.ID, "user-b")
	assert.ErrorIs(t, err, ErrSlotConflict)

	got := reloadSlot(t, svc, slot.ID)
	assert.True(t, got.IsLocked)
	require.NotNil(t, got.LockedByUserID)
	assert.Equal(t, "user-a", *got.LockedByUserID)
}

func TestAcquireNotFound(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Acquire(9999, "user-a")
	assert.ErrorIs(t, err, ErrSlotNotFound)
}

func TestAcquireTTLExpiry(t *testing.T) {
	svc, setNow := newTestService(t)
	start := svc.now()
	slot := createSlot(t, svc, start.Add(48*time.Hour))

	_, err := svc.Acquire(slot.ID, "user-a")
	require.NoError(t, err)

	// 5 minutes in: the lock is still fresh, B is refused.
	setNow(start.Add(5 * time.Minute))
	_, err = svc.Acquire(slot.ID, "user-b")
	assert.ErrorIs(t, err, ErrSlotConflict)

	// 11 minutes in: the lock is stale, B takes it over.
	setNow(start.Add(11 * time.Minute))
	expiresAt, err := svc.Acquire(slot.ID, "user-b")
	require.NoError(t, err)
	assert.Equal(t, start.Add(11*time.Minute).UTC().Add(testLockTTL), expiresAt)

	got := reloadSlot(t, svc, slot.ID)
	require.NotNil(t, got.LockedByUserID)
	assert.Equal(t, "user-b", *got.LockedByUserID)
}

func TestAcquireTTLBoundary(t *testing.T) {
	svc, setNow := newTestService(t)
	start := svc.now()
	slot := createSlot(t, svc, start.Add(48*time.Hour))

	_, err := svc.Acquire(slot.ID, "user-a")
	require.NoError(t, err)

	// A lock is fresh strictly inside the TTL: one instant before the
	// boundary it still holds.
	setNow(start.Add(testLockTTL - time.Nanosecond))
	_, err = svc.Acquire(slot.ID, "user-b")
	assert.ErrorIs(t, err, ErrSlotConflict)

	// At exactly lockedAt+TTL the lock is takeable.
	setNow(start.Add(testLockTTL))
	_, err = svc.Acquire(slot.ID, "user-b")
	require.NoError(t, err)

	got := reloadSlot(t, svc, slot.ID)
	require.NotNil(t, got.LockedByUserID)
	assert.Equal(t, "user-b", *got.LockedByUserID)
}

func TestAcquireReentrant(t *testing.T) {
	svc, setNow := newTestService(t)
	start := svc.now()
	slot := createSlot(t, svc, start.Add(48*time.Hour))

	_, err := svc.Acquire(slot.ID, "user-a")
	require.NoError(t, err)

	// Same user retries within the TTL: the lock refreshes, no error.
	setNow(start.Add(3 * time.Minute))
	expiresAt, err := svc.Acquire(slot.ID, "user-a")
	require.NoError(t, err)
	assert.Equal(t, start.Add(3*time.Minute).UTC().Add(testLockTTL), expiresAt)
}

func TestBookedSlotIsTerminal(t *testing.T) {
	svc, _ := newTestService(t)
	slot := createSlot(t, svc, svc.now().Add(48*time.Hour))

	_, err := svc.Acquire(slot.ID, "user-a")
	require.NoError(t, err)

	_, err = svc.Finalize(slot.ID, "user-a", "pay_123", datatypes.JSON([]byte(`{"fit":"34B"}`)))
	require.NoError(t, err)

	// Once booked, no acquire ever succeeds again, lock holder included.
	_, err = svc.Acquire(slot.ID, "user-a")
	assert.ErrorIs(t, err, ErrSlotConflict)
	_, err = svc.Acquire(slot.ID, "user-b")
	assert.ErrorIs(t, err, ErrSlotConflict)
}

func TestFinalizeCreatesConsultation(t *testing.T) {
	svc, _ := newTestService(t)
	startTime := svc.now().Add(48 * time.Hour)
	slot := createSlot(t, svc, startTime)

	_, err := svc.Acquire(slot.ID, "user-a")
	require.NoError(t, err)

	answers := datatypes.JSON([]byte(`{"band":"34","cup":"B"}`))
	result, err := svc.Finalize(slot.ID, "user-a", "pay_123", answers)
	require.NoError(t, err)

	assert.NotEmpty(t, result.Consultation.ID)
	assert.Equal(t, startTime.UTC().Truncate(time.Second), result.BookingDate.UTC().Truncate(time.Second))
	assert.Equal(t, "https://meet.example.com/fitting", result.MeetingLink)
	assert.Equal(t, models.ConsultationConfirmed, result.Consultation.Status)
	assert.Equal(t, "pay_123", result.Consultation.PaymentID)
	assert.Equal(t, 500.0, result.Consultation.AmountPaid)

	got := reloadSlot(t, svc, slot.ID)
	assert.True(t, got.IsBooked)

	var consultation models.Consultation
	require.NoError(t, svc.db.First(&consultation, "slot_id = ?", slot.ID).Error)
	assert.Equal(t, "user-a", consultation.UserID)
}

func TestFinalizeMissingSlot(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Finalize(9999, "user-a", "pay_123", nil)
	assert.ErrorIs(t, err, ErrSlotNotFound)
}

func TestFinalizeRefusesForeignFreshLock(t *testing.T) {
	svc, setNow := newTestService(t)
	start := svc.now()
	slot := createSlot(t, svc, start.Add(48*time.Hour))

	_, err := svc.Acquire(slot.ID, "user-a")
	require.NoError(t, err)

	// B cannot book out from under A's fresh lock.
	_, err = svc.Finalize(slot.ID, "user-b", "pay_456", nil)
	assert.ErrorIs(t, err, ErrSlotConflict)

	// No consultation row may exist without the slot being booked.
	var count int64
	require.NoError(t, svc.db.Model(&models.Consultation{}).Count(&count).Error)
	assert.Zero(t, count)
	assert.False(t, reloadSlot(t, svc, slot.ID).IsBooked)

	// Once A's lock goes stale, B may finalize.
	setNow(start.Add(11 * time.Minute))
	_, err = svc.Finalize(slot.ID, "user-b", "pay_456", nil)
	assert.NoError(t, err)
}

func TestFinalizeUnlockedSlot(t *testing.T) {
	svc, _ := newTestService(t)
	slot := createSlot(t, svc, svc.now().Add(48*time.Hour))

	// Holding a lock is not a precondition of finalize.
	result, err := svc.Finalize(slot.ID, "user-a", "pay_789", nil)
	require.NoError(t, err)
	assert.NotEmpty(t, result.Consultation.ID)
	assert.True(t, reloadSlot(t, svc, slot.ID).IsBooked)
}

func TestReclaimStaleLocksIdempotent(t *testing.T) {
	svc, setNow := newTestService(t)
	start := svc.now()
	slot := createSlot(t, svc, start.Add(48*time.Hour))

	_, err := svc.Acquire(slot.ID, "user-a")
	require.NoError(t, err)

	setNow(start.Add(11 * time.Minute))

	released, err := svc.ReclaimStaleLocks()
	require.NoError(t, err)
	assert.Equal(t, int64(1), released)

	got := reloadSlot(t, svc, slot.ID)
	assert.False(t, got.IsLocked)
	assert.Nil(t, got.LockedAt)
	assert.Nil(t, got.LockedByUserID)

	// Second pass with no intervening acquires is a no-op.
	released, err = svc.ReclaimStaleLocks()
	require.NoError(t, err)
	assert.Zero(t, released)
}

func TestReclaimSkipsFreshAndBookedSlots(t *testing.T) {
	svc, setNow := newTestService(t)
	start := svc.now()

	fresh := createSlot(t, svc, start.Add(48*time.Hour))
	booked := createSlot(t, svc, start.Add(72*time.Hour))

	_, err := svc.Acquire(fresh.ID, "user-a")
	require.NoError(t, err)
	_, err = svc.Acquire(booked.ID, "user-b")
	require.NoError(t, err)
	_, err = svc.Finalize(booked.ID, "user-b", "pay_123", nil)
	require.NoError(t, err)

	// Only 5 minutes have passed: the fresh lock stays, and the booked
	// slot is out of the reclaimer's reach entirely.
	setNow(start.Add(5 * time.Minute))
	released, err := svc.ReclaimStaleLocks()
	require.NoError(t, err)
	assert.Zero(t, released)
	assert.True(t, reloadSlot(t, svc, fresh.ID).IsLocked)
}

// TestBookingScenario walks the full timeline from the booking flow:
// acquire, contention, a harmless sweep, finalize, and the terminal
// conflict afterwards.
func TestBookingScenario(t *testing.T) {
	svc, setNow := newTestService(t)
	t0 := svc.now()
	slot := createSlot(t, svc, t0.Add(48*time.Hour))

	// T=0: A acquires, expiry ten minutes out.
	expiresAt, err := svc.Acquire(slot.ID, "user-a")
	require.NoError(t, err)
	assert.Equal(t, t0.UTC().Add(10*time.Minute), expiresAt)

	// T=2m: B is refused while A's lock is fresh.
	setNow(t0.Add(2 * time.Minute))
	_, err = svc.Acquire(slot.ID, "user-b")
	assert.ErrorIs(t, err, ErrSlotConflict)

	// T=3m: the reclaimer finds nothing stale.
	setNow(t0.Add(3 * time.Minute))
	released, err := svc.ReclaimStaleLocks()
	require.NoError(t, err)
	assert.Zero(t, released)

	// T=4m: A pays and finalizes.
	setNow(t0.Add(4 * time.Minute))
	result, err := svc.Finalize(slot.ID, "user-a", "pay_xyz", datatypes.JSON([]byte(`{"q1":"yes"}`)))
	require.NoError(t, err)
	assert.True(t, reloadSlot(t, svc, slot.ID).IsBooked)
	assert.NotEmpty(t, result.Consultation.ID)

	// T=5m: B is refused again, now because the slot is booked for good.
	setNow(t0.Add(5 * time.Minute))
	_, err = svc.Acquire(slot.ID, "user-b")
	assert.ErrorIs(t, err, ErrSlotConflict)
	assert.True(t, reloadSlot(t, svc, slot.ID).IsBooked)
}

func TestGenerateSlots(t *testing.T) {
	svc, _ := newTestService(t)

	// Clock starts Monday 2026-03-02; a 7-day horizon spans one Sunday.
	created, err := svc.GenerateSlots("consultant-1", 7)
	require.NoError(t, err)
	assert.Equal(t, 6*4, created)

	var sunday int64
	require.NoError(t, svc.db.Model(&models.ConsultationSlot{}).
		Where("start_time >= ? AND start_time < ?",
			time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC),
			time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)).
		Count(&sunday).Error)
	assert.Zero(t, sunday)

	// Re-running over the same horizon creates nothing new.
	created, err = svc.GenerateSlots("consultant-1", 7)
	require.NoError(t, err)
	assert.Zero(t, created)
}
