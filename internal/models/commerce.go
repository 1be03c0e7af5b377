package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// OrderStatus represents the status of an order
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderPaid      OrderStatus = "paid"
	OrderShipped   OrderStatus = "shipped"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
)

// ReturnStatus tracks a return request on a single order item
type ReturnStatus string

const (
	ReturnNone      ReturnStatus = "none"
	ReturnRequested ReturnStatus = "requested"
	ReturnApproved  ReturnStatus = "approved"
	ReturnRejected  ReturnStatus = "rejected"
)

// Cart holds a user's in-progress shopping session
type Cart struct {
	BaseModel
	UserID string `gorm:"size:36;uniqueIndex" json:"userId"`

	Items []CartItem `gorm:"foreignKey:CartID" json:"items,omitempty"`
	User  User       `gorm:"foreignKey:UserID" json:"-"`
}

// CartItem is one variant line in a cart
type CartItem struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	CartID    string `gorm:"size:36;index" json:"cartId"`
	VariantID string `gorm:"size:36" json:"variantId"`
	Quantity  int    `gorm:"default:1" json:"quantity"`

	Cart    *Cart           `gorm:"foreignKey:CartID" json:"-"`
	Variant *ProductVariant `gorm:"foreignKey:VariantID" json:"-"`
}

// Order is a checkout snapshot of a cart. The shipping address is
// frozen as JSON so later address edits don't rewrite order history.
type Order struct {
	BaseModel
	UserID            string          `gorm:"size:36;index" json:"userId"`
	Status            OrderStatus     `gorm:"size:20;default:'pending'" json:"status"`
	TotalAmount       decimal.Decimal `gorm:"type:decimal(10,2)" json:"totalAmount"`
	PaymentMethod     string          `gorm:"size:50;default:'razorpay'" json:"paymentMethod"`
	RazorpayOrderID   string          `gorm:"size:255" json:"razorpayOrderId,omitempty"`
	RazorpayPaymentID string          `gorm:"size:255" json:"razorpayPaymentId,omitempty"`
	TrackingNumber    string          `gorm:"size:100;index" json:"trackingNumber,omitempty"`

	ShippingAddressSnapshot datatypes.JSON `json:"shippingAddressSnapshot"`

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
	User  User        `gorm:"foreignKey:UserID" json:"-"`
}

// AddressSnapshot is the JSON shape frozen onto an order at checkout
type AddressSnapshot struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	Pincode string `json:"pincode"`
	Phone   string `json:"phone"`
}

// OrderItem is one purchased line with the price frozen at checkout
type OrderItem struct {
	BaseModel
	OrderID   string `gorm:"size:36;index" json:"orderId"`
	VariantID string `gorm:"size:36" json:"variantId"`

	PriceAtPurchase     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"priceAtPurchase"`
	Quantity            int             `gorm:"not null" json:"quantity"`
	ReturnRequestStatus ReturnStatus    `gorm:"size:20;default:'none'" json:"returnRequestStatus"`

	Order   *Order          `gorm:"foreignKey:OrderID" json:"-"`
	Variant *ProductVariant `gorm:"foreignKey:VariantID" json:"-"`
}
