package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"lingerie-shop-server/internal/middleware"
	"lingerie-shop-server/internal/models"
	"lingerie-shop-server/internal/utils"
)

// UserHandler handles profile and saved-address requests.
type UserHandler struct {
	DB *gorm.DB
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{DB: db}
}

// UpdateProfileRequest represents the request body for updating the
// caller's own profile. All fields are optional.
type UpdateProfileRequest struct {
	FullName    string `json:"fullName"`
	PhoneNumber string `json:"phoneNumber"`
}

// UpdateProfile updates the caller's name or phone number.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var user models.User
	if err := h.DB.First(&user, "id = ?", userID).Error; err != nil {
		utils.NotFound(c, "User not found")
		return
	}

	if req.FullName != "" {
		user.FullName = req.FullName
	}
	if req.PhoneNumber != "" && req.PhoneNumber != user.PhoneNumber {
		var count int64
		h.DB.Model(&models.User{}).
			Where("phone_number = ? AND id != ?", req.PhoneNumber, userID).
			Count(&count)
		if count > 0 {
			utils.Conflict(c, "Phone number already in use")
			return
		}
		user.PhoneNumber = req.PhoneNumber
	}

	if err := h.DB.Save(&user).Error; err != nil {
		utils.InternalServerError(c, "Failed to update profile: "+err.Error())
		return
	}

	utils.Success(c, "Profile updated successfully", user.Sanitize())
}

// AddressRequest represents the request body for creating an address.
type AddressRequest struct {
	RecipientName string `json:"recipientName" binding:"required"`
	PhoneNumber   string `json:"phoneNumber" binding:"required"`
	StreetAddress string `json:"streetAddress" binding:"required"`
	City          string `json:"city" binding:"required"`
	State         string `json:"state" binding:"required"`
	Pincode       string `json:"pincode" binding:"required"`
	IsDefault     bool   `json:"isDefault"`
}

// GetAddresses lists the caller's saved addresses, default first.
func (h *UserHandler) GetAddresses(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var addresses []models.UserAddress
	err := h.DB.Where("user_id = ?", userID).
		Order("is_default desc, created_at desc").
		Find(&addresses).Error
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch addresses: "+err.Error())
		return
	}

	utils.Success(c, "Addresses fetched successfully", addresses)
}

// CreateAddress saves a new shipping address. The first address a user
// saves becomes the default automatically; marking a later one default
// demotes the previous default.
func (h *UserHandler) CreateAddress(c *gin.Context) {
	var req AddressRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var count int64
	if err := h.DB.Model(&models.UserAddress{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		utils.InternalServerError(c, "Database error: "+err.Error())
		return
	}

	address := models.UserAddress{
		UserID:        userID,
		RecipientName: req.RecipientName,
		PhoneNumber:   req.PhoneNumber,
		StreetAddress: req.StreetAddress,
		City:          req.City,
		State:         req.State,
		Pincode:       req.Pincode,
		IsDefault:     req.IsDefault || count == 0,
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if address.IsDefault {
			if err := tx.Model(&models.UserAddress{}).
				Where("user_id = ?", userID).
				Update("is_default", false).Error; err != nil {
				return err
			}
		}
		return tx.Create(&address).Error
	})
	if err != nil {
		utils.InternalServerError(c, "Failed to save address: "+err.Error())
		return
	}

	utils.Created(c, "Address saved successfully", address)
}

// DeleteAddress removes one of the caller's own addresses.
func (h *UserHandler) DeleteAddress(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	addressID := c.Param("addressId")

	var address models.UserAddress
	err := h.DB.Where("id = ? AND user_id = ?", addressID, userID).First(&address).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Address not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	if err := h.DB.Delete(&address).Error; err != nil {
		utils.InternalServerError(c, "Failed to delete address: "+err.Error())
		return
	}

	utils.Success(c, "Address deleted successfully", nil)
}
