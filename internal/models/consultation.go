package models

import (
	"gorm.io/datatypes"
)

// ConsultationStatus represents the status of a consultation
type ConsultationStatus string

const (
	ConsultationScheduled ConsultationStatus = "scheduled"
	ConsultationConfirmed ConsultationStatus = "confirmed"
	ConsultationCompleted ConsultationStatus = "completed"
	ConsultationCancelled ConsultationStatus = "cancelled"
)

// Consultation is the terminal record of a paid, confirmed fitting
// session. It binds exactly one user to exactly one slot and is never
// migrated to a different slot once created.
type Consultation struct {
	BaseModel
	UserID string `gorm:"size:36;index" json:"userId"`
	SlotID uint   `gorm:"uniqueIndex" json:"slotId"`

	Status     ConsultationStatus `gorm:"size:20;default:'scheduled'" json:"status"`
	PaymentID  string             `gorm:"size:255" json:"paymentId"`
	AmountPaid float64            `json:"amountPaid"`

	// ClientAnswers stores the intake questionnaire answers as JSON.
	ClientAnswers datatypes.JSON `json:"clientAnswers"`

	MeetingLink string `gorm:"size:500" json:"meetingLink"`
	ExpertNotes string `gorm:"type:text" json:"expertNotes"`

	User User             `gorm:"foreignKey:UserID" json:"-"`
	Slot ConsultationSlot `gorm:"foreignKey:SlotID" json:"-"`
}

// ConsultationQuestion is one intake question shown during the
// diagnosis step before booking.
type ConsultationQuestion struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	QuestionText string         `gorm:"size:500;not null" json:"questionText"`
	QuestionType string         `gorm:"size:50" json:"questionType"`
	Options      datatypes.JSON `json:"options"`
	IsActive     bool           `gorm:"default:true" json:"isActive"`
	SortOrder    int            `gorm:"default:0" json:"sortOrder"`
}
