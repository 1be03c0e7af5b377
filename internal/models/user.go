package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Role enum
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleStaff    Role = "staff"
	RoleCustomer Role = "customer"
)

// User represents a user in the system
type User struct {
	BaseModel
	FullName     string `gorm:"size:255;not null" json:"fullName"`
	Email        string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PhoneNumber  string `gorm:"uniqueIndex;size:20" json:"phoneNumber"`
	PasswordHash string `gorm:"size:255;not null" json:"-"` // Never send password in JSON
	Role         Role   `gorm:"size:20;default:'customer'" json:"role"`
	IsVerified   bool   `gorm:"default:false" json:"isVerified"`

	// Relations (not always preloaded)
	Addresses     []UserAddress  `gorm:"foreignKey:UserID" json:"-"`
	Consultations []Consultation `gorm:"foreignKey:UserID" json:"-"`
	Orders        []Order        `gorm:"foreignKey:UserID" json:"-"`
	Reviews       []Review       `gorm:"foreignKey:UserID" json:"-"`
}

// UserAddress is a saved shipping address for checkout
type UserAddress struct {
	BaseModel
	UserID        string `gorm:"size:36;index" json:"userId"`
	RecipientName string `gorm:"size:255" json:"recipientName"`
	PhoneNumber   string `gorm:"size:20" json:"phoneNumber"`
	StreetAddress string `gorm:"size:500" json:"streetAddress"`
	City          string `gorm:"size:100" json:"city"`
	State         string `gorm:"size:100" json:"state"`
	Pincode       string `gorm:"size:10" json:"pincode"`
	Country       string `gorm:"size:100;default:'India'" json:"country"`
	IsDefault     bool   `gorm:"default:false" json:"isDefault"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

// UserSanitized represents the user data that is safe to send in API responses.
type UserSanitized struct {
	ID          string    `json:"id"`
	FullName    string    `json:"fullName"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phoneNumber"`
	Role        Role      `json:"role"`
	IsVerified  bool      `json:"isVerified"`
	CreatedAt   time.Time `json:"createdAt"`
}

// SetPassword hashes a password and sets it on the user
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

// CheckPassword compares a password with the user's hashed password
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}

// Sanitize creates a UserSanitized struct from a User model, excluding sensitive data.
func (u *User) Sanitize() UserSanitized {
	return UserSanitized{
		ID:          u.ID,
		FullName:    u.FullName,
		Email:       u.Email,
		PhoneNumber: u.PhoneNumber,
		Role:        u.Role,
		IsVerified:  u.IsVerified,
		CreatedAt:   u.CreatedAt,
	}
}
