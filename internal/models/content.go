package models

import (
	"time"
)

// BlogPost is a client story. User-submitted stories start unpublished
// until an admin approves them.
type BlogPost struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Slug          string    `gorm:"uniqueIndex;size:255" json:"slug"`
	Title         string    `gorm:"size:255;not null" json:"title"`
	Content       string    `gorm:"type:text" json:"content"`
	FeaturedImage string    `gorm:"size:500" json:"featuredImage,omitempty"`
	PublishedAt   time.Time `json:"publishedAt"`
	IsPublished   bool      `gorm:"default:false" json:"isPublished"`
	AuthorID      *string   `gorm:"size:36" json:"authorId,omitempty"`

	Author *User `gorm:"foreignKey:AuthorID" json:"-"`
}

// Review is a product review; one per user per product
type Review struct {
	BaseModel
	ProductID      string `gorm:"size:36;index" json:"productId"`
	UserID         string `gorm:"size:36;index" json:"userId"`
	Rating         int    `json:"rating"`
	Comment        string `gorm:"type:text" json:"comment,omitempty"`
	ReviewImageURL string `gorm:"size:500" json:"reviewImageUrl,omitempty"`

	Product *Product `gorm:"foreignKey:ProductID" json:"-"`
	User    *User    `gorm:"foreignKey:UserID" json:"-"`
}

// Wishlist links a user to a saved product
type Wishlist struct {
	BaseModel
	UserID    string `gorm:"size:36;index" json:"userId"`
	ProductID string `gorm:"size:36" json:"productId"`

	User    *User    `gorm:"foreignKey:UserID" json:"-"`
	Product *Product `gorm:"foreignKey:ProductID" json:"-"`
}

// Coupon is a flat-percent discount code
type Coupon struct {
	ID              uint   `gorm:"primaryKey" json:"id"`
	Code            string `gorm:"uniqueIndex;size:50" json:"code"`
	DiscountPercent int    `json:"discountPercent"`
	IsActive        bool   `gorm:"default:true" json:"isActive"`
}
