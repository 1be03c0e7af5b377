package models

import (
	"time"
)

// ConsultationSlot is one bookable consultant time window. Slots are
// generated in bulk ahead of time and move through
// unlocked -> locked -> (booked | unlocked) until a consultation is
// finalized against them, after which IsBooked never reverts.
//
// A lock is only meaningful while LockedAt is within the configured TTL
// of the current time; past that the lock is stale no matter what the
// flags say, and the reclaimer (or the next acquire) clears it.
type ConsultationSlot struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	StartTime time.Time `gorm:"not null;index" json:"startTime"`
	IsBooked  bool      `gorm:"default:false" json:"isBooked"`
	IsLocked  bool      `gorm:"default:false" json:"isLocked"`

	LockedAt       *time.Time `json:"-"`
	LockedByUserID *string    `gorm:"size:36" json:"-"`

	// ConsultantID is set at creation and immutable thereafter.
	ConsultantID *string `gorm:"size:36" json:"consultantId,omitempty"`

	Consultant   *User         `gorm:"foreignKey:ConsultantID" json:"-"`
	Consultation *Consultation `gorm:"foreignKey:SlotID" json:"-"`
}
