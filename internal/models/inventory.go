package models

// Location is a stock-holding site (warehouse or store)
type Location struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:255" json:"name"`
}

// Inventory tracks how many units of a variant a location holds
type Inventory struct {
	BaseModel
	VariantID  string `gorm:"size:36;index" json:"variantId"`
	LocationID uint   `json:"locationId"`
	Quantity   int    `gorm:"default:0" json:"quantity"`

	Variant  *ProductVariant `gorm:"foreignKey:VariantID" json:"-"`
	Location *Location       `gorm:"foreignKey:LocationID" json:"-"`
}
