package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Brand of a product, e.g. a lingerie label carried by the store
type Brand struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Name    string `gorm:"uniqueIndex;size:255" json:"name"`
	LogoURL string `gorm:"size:500" json:"logoUrl,omitempty"`

	Products []Product `gorm:"foreignKey:BrandID" json:"-"`
}

// Category groups products for the navbar and filter menu
type Category struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"uniqueIndex;size:255" json:"name"`
	Description string `gorm:"size:500" json:"description,omitempty"`

	Products []Product `gorm:"foreignKey:CategoryID" json:"-"`
}

// Product is the catalog entry shown on listing pages. Sellable units
// are its variants; rating fields are denormalized and updated when a
// review is added.
type Product struct {
	BaseModel
	Name        string `gorm:"size:255;index;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	BrandID     *uint  `json:"brandId,omitempty"`
	CategoryID  *uint  `json:"categoryId,omitempty"`

	IsBundle         bool           `gorm:"default:false" json:"isBundle"`
	Attributes       datatypes.JSON `json:"attributes"`
	AverageRating    float64        `gorm:"default:0" json:"averageRating"`
	ReviewCount      int            `gorm:"default:0" json:"reviewCount"`
	ShippingInfo     string         `gorm:"size:255;default:'Standard Delivery (3-5 Days)'" json:"shippingInfo"`
	ReturnPolicyType string         `gorm:"size:50;default:'returnable'" json:"returnPolicyType"`

	Brand       *Brand            `gorm:"foreignKey:BrandID" json:"brand,omitempty"`
	Category    *Category         `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Variants    []ProductVariant  `gorm:"foreignKey:ProductID" json:"variants,omitempty"`
	Reviews     []Review          `gorm:"foreignKey:ProductID" json:"reviews,omitempty"`
	BundleLinks []BundleComponent `gorm:"foreignKey:ParentProductID" json:"-"`
}

// ProductVariant is a sellable SKU: one color/size combination with its
// own price, images and stock.
type ProductVariant struct {
	BaseModel
	ProductID string          `gorm:"size:36;index" json:"productId"`
	SKU       string          `gorm:"uniqueIndex;size:100" json:"sku"`
	Color     string          `gorm:"size:50" json:"color"`
	Size      string          `gorm:"size:20" json:"size"`
	Price     decimal.Decimal `gorm:"type:decimal(10,2)" json:"price"`

	Product        *Product       `gorm:"foreignKey:ProductID" json:"-"`
	Images         []ProductImage `gorm:"foreignKey:VariantID" json:"images,omitempty"`
	InventoryItems []Inventory    `gorm:"foreignKey:VariantID" json:"-"`
}

// TotalStockAvailable sums stock across all locations holding this
// variant. InventoryItems must be preloaded.
func (v *ProductVariant) TotalStockAvailable() int {
	total := 0
	for _, item := range v.InventoryItems {
		total += item.Quantity
	}
	return total
}

// ProductImage belongs to a variant; IsPrimary marks the lead image
type ProductImage struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	VariantID    string `gorm:"size:36;index" json:"variantId"`
	ImageURL     string `gorm:"size:500;not null" json:"imageUrl"`
	AltText      string `gorm:"size:255" json:"altText,omitempty"`
	IsPrimary    bool   `gorm:"default:false" json:"isPrimary"`
	DisplayOrder int    `gorm:"default:0" json:"displayOrder"`

	Variant *ProductVariant `gorm:"foreignKey:VariantID" json:"-"`
}

// BundleComponent links a bundle product to its component products
type BundleComponent struct {
	ID                 uint   `gorm:"primaryKey" json:"id"`
	ParentProductID    string `gorm:"size:36;index" json:"parentProductId"`
	ComponentProductID string `gorm:"size:36" json:"componentProductId"`
	QuantityNeeded     int    `gorm:"default:1" json:"quantityNeeded"`

	ParentProduct    *Product `gorm:"foreignKey:ParentProductID" json:"-"`
	ComponentProduct *Product `gorm:"foreignKey:ComponentProductID" json:"-"`
}
