package handlers

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"lingerie-shop-server/internal/middleware"
	"lingerie-shop-server/internal/models"
	"lingerie-shop-server/internal/services"
	"lingerie-shop-server/internal/utils"
)

// CommerceHandler handles cart and order requests.
type CommerceHandler struct {
	DB        *gorm.DB
	Payment   *services.PaymentService
	Logistics *services.LogisticsService
	WhatsApp  *services.WhatsAppService
}

// NewCommerceHandler creates a new CommerceHandler.
func NewCommerceHandler(db *gorm.DB, payment *services.PaymentService,
	logistics *services.LogisticsService, whatsapp *services.WhatsAppService) *CommerceHandler {
	return &CommerceHandler{
		DB:        db,
		Payment:   payment,
		Logistics: logistics,
		WhatsApp:  whatsapp,
	}
}

func (h *CommerceHandler) getOrCreateCart(userID string) (*models.Cart, error) {
	var cart models.Cart
	err := h.DB.Where("user_id = ?", userID).First(&cart).Error
	if err == gorm.ErrRecordNotFound {
		cart = models.Cart{UserID: userID}
		if err := h.DB.Create(&cart).Error; err != nil {
			return nil, err
		}
		return &cart, nil
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// CartItemResponse is a flattened cart line for the frontend.
type CartItemResponse struct {
	ID          uint            `json:"id"`
	VariantID   string          `json:"variantId"`
	ProductName string          `json:"productName"`
	VariantSKU  string          `json:"variantSku"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	ImageURL    string          `json:"imageUrl"`
}

// CartResponse is the cart with its computed total.
type CartResponse struct {
	ID         string             `json:"id"`
	Items      []CartItemResponse `json:"items"`
	TotalPrice decimal.Decimal    `json:"totalPrice"`
}

// GetCart returns the current user's active cart, creating an empty
// one on first use.
func (h *CommerceHandler) GetCart(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	cart, err := h.getOrCreateCart(userID)
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch cart: "+err.Error())
		return
	}

	var items []models.CartItem
	err = h.DB.Where("cart_id = ?", cart.ID).
		Preload("Variant").
		Preload("Variant.Product").
		Preload("Variant.Images").
		Find(&items).Error
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch cart items: "+err.Error())
		return
	}

	resp := CartResponse{ID: cart.ID, Items: make([]CartItemResponse, 0, len(items))}
	total := decimal.Zero
	for _, item := range items {
		if item.Variant == nil {
			continue
		}
		linePrice := item.Variant.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		total = total.Add(linePrice)

		// Best display image: first variant image, placeholder otherwise.
		imageURL := "https://placehold.co"
		if len(item.Variant.Images) > 0 {
			imageURL = item.Variant.Images[0].ImageURL
		}

		productName := ""
		if item.Variant.Product != nil {
			productName = item.Variant.Product.Name
		}

		resp.Items = append(resp.Items, CartItemResponse{
			ID:          item.ID,
			VariantID:   item.VariantID,
			ProductName: productName,
			VariantSKU:  item.Variant.SKU,
			Price:       item.Variant.Price,
			Quantity:    item.Quantity,
			ImageURL:    imageURL,
		})
	}
	resp.TotalPrice = total

	utils.Success(c, "Cart fetched successfully", resp)
}

// AddCartItemRequest represents the request body for adding to cart.
type AddCartItemRequest struct {
	VariantID string `json:"variantId" binding:"required,uuid"`
	Quantity  int    `json:"quantity" binding:"required,gt=0"`
}

// AddCartItem adds a variant to the cart, merging quantity if the line
// already exists, after a stock check.
func (h *CommerceHandler) AddCartItem(c *gin.Context) {
	var req AddCartItemRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	cart, err := h.getOrCreateCart(userID)
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch cart: "+err.Error())
		return
	}

	var variant models.ProductVariant
	if err := h.DB.Preload("InventoryItems").First(&variant, "id = ?", req.VariantID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Product variant not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	if stock := variant.TotalStockAvailable(); stock < req.Quantity {
		utils.BadRequest(c, fmt.Sprintf("Only %d items left in stock", stock))
		return
	}

	var existing models.CartItem
	err = h.DB.Where("cart_id = ? AND variant_id = ?", cart.ID, req.VariantID).First(&existing).Error
	switch {
	case err == nil:
		existing.Quantity += req.Quantity
		if err := h.DB.Save(&existing).Error; err != nil {
			utils.InternalServerError(c, "Failed to update cart item: "+err.Error())
			return
		}
	case err == gorm.ErrRecordNotFound:
		newItem := models.CartItem{
			CartID:    cart.ID,
			VariantID: req.VariantID,
			Quantity:  req.Quantity,
		}
		if err := h.DB.Create(&newItem).Error; err != nil {
			utils.InternalServerError(c, "Failed to add cart item: "+err.Error())
			return
		}
	default:
		utils.InternalServerError(c, "Database error: "+err.Error())
		return
	}

	utils.Success(c, "Item added to cart", nil)
}

// RemoveCartItem removes one line from the caller's own cart.
func (h *CommerceHandler) RemoveCartItem(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	itemID := c.Param("itemId")

	// Join through the cart so users can only delete their own lines.
	var item models.CartItem
	err := h.DB.Joins("JOIN carts ON carts.id = cart_items.cart_id").
		Where("cart_items.id = ? AND carts.user_id = ?", itemID, userID).
		First(&item).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Item not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	if err := h.DB.Delete(&item).Error; err != nil {
		utils.InternalServerError(c, "Failed to remove item: "+err.Error())
		return
	}

	utils.Success(c, "Item removed", nil)
}

// CreateOrderRequest represents the checkout request body.
type CreateOrderRequest struct {
	ShippingAddressID string `json:"shippingAddressId" binding:"required,uuid"`
	PaymentMethod     string `json:"paymentMethod"`
	CouponCode        string `json:"couponCode"`
}

// CreateOrder is step 1 of checkout: it turns the cart into a pending
// order with an address snapshot, coupon discount applied, price
// snapshots per line, and a Razorpay order to pay against. The cart is
// cleared once the order exists.
func (h *CommerceHandler) CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	if req.PaymentMethod == "" {
		req.PaymentMethod = "razorpay"
	}

	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var cart models.Cart
	if err := h.DB.Where("user_id = ?", userID).First(&cart).Error; err != nil {
		utils.BadRequest(c, "Cart is empty")
		return
	}

	var cartItems []models.CartItem
	if err := h.DB.Where("cart_id = ?", cart.ID).Preload("Variant").Find(&cartItems).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch cart items: "+err.Error())
		return
	}
	if len(cartItems) == 0 {
		utils.BadRequest(c, "Cart is empty")
		return
	}

	totalAmount := decimal.Zero
	for _, item := range cartItems {
		if item.Variant == nil {
			continue
		}
		totalAmount = totalAmount.Add(item.Variant.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	if req.CouponCode != "" {
		var coupon models.Coupon
		err := h.DB.Where("code = ? AND is_active = ?", req.CouponCode, true).First(&coupon).Error
		if err != nil {
			utils.BadRequest(c, "Invalid or expired coupon code")
			return
		}
		discount := totalAmount.Mul(decimal.NewFromInt(int64(coupon.DiscountPercent))).Div(decimal.NewFromInt(100))
		totalAmount = totalAmount.Sub(discount)
		if totalAmount.IsNegative() {
			totalAmount = decimal.Zero
		}
	}

	// Snapshot the address so later edits don't rewrite order history.
	var address models.UserAddress
	if err := h.DB.Where("id = ? AND user_id = ?", req.ShippingAddressID, userID).First(&address).Error; err != nil {
		utils.NotFound(c, "Address not found")
		return
	}
	snapshot, err := json.Marshal(models.AddressSnapshot{
		Street:  address.StreetAddress,
		City:    address.City,
		State:   address.State,
		Pincode: address.Pincode,
		Phone:   address.PhoneNumber,
	})
	if err != nil {
		utils.InternalServerError(c, "Failed to snapshot address: "+err.Error())
		return
	}

	receipt := fmt.Sprintf("rcpt_%s", cart.ID)
	if len(receipt) > 40 {
		receipt = receipt[:40]
	}
	razorpayOrderID, err := h.Payment.CreateOrder(totalAmount.InexactFloat64(), receipt,
		map[string]interface{}{"type": "shop_order"})
	if err != nil {
		utils.InternalServerError(c, "Payment gateway error: "+err.Error())
		return
	}

	order := models.Order{
		UserID:                  userID,
		Status:                  models.OrderPending,
		TotalAmount:             totalAmount,
		PaymentMethod:           req.PaymentMethod,
		RazorpayOrderID:         razorpayOrderID,
		ShippingAddressSnapshot: snapshot,
	}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		for _, cartItem := range cartItems {
			if cartItem.Variant == nil {
				continue
			}
			orderItem := models.OrderItem{
				OrderID:         order.ID,
				VariantID:       cartItem.VariantID,
				Quantity:        cartItem.Quantity,
				PriceAtPurchase: cartItem.Variant.Price,
			}
			if err := tx.Create(&orderItem).Error; err != nil {
				return err
			}
		}
		// Shopping is done, clear the cart.
		return tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error
	})
	if err != nil {
		utils.InternalServerError(c, "Failed to create order: "+err.Error())
		return
	}

	utils.Created(c, "Order created successfully", order)
}

// VerifyPaymentRequest carries the Razorpay checkout callback fields.
type VerifyPaymentRequest struct {
	PaymentID string `json:"paymentId" binding:"required"`
	Signature string `json:"signature" binding:"required"`
}

// VerifyPayment is step 2 of checkout: it checks the gateway
// signature, marks the order paid, deducts stock, pushes the shipment
// to logistics and notifies the customer. A failed shipment push or
// notification leaves the order paid; only a bad signature aborts.
func (h *CommerceHandler) VerifyPayment(c *gin.Context) {
	var req VerifyPaymentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	orderID := c.Param("orderId")

	var order models.Order
	err := h.DB.Where("id = ? AND user_id = ?", orderID, userID).
		Preload("Items").
		Preload("Items.Variant").
		Preload("Items.Variant.Product").
		Preload("Items.Variant.InventoryItems").
		First(&order).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Order not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	if order.Status != models.OrderPending {
		utils.Success(c, "Order already paid", gin.H{"status": order.Status})
		return
	}

	if err := h.Payment.VerifySignature(order.RazorpayOrderID, req.PaymentID, req.Signature); err != nil {
		if errors.Is(err, services.ErrInvalidPaymentSignature) {
			utils.BadRequest(c, "Invalid payment signature")
		} else {
			utils.InternalServerError(c, "Payment verification failed: "+err.Error())
		}
		return
	}

	order.Status = models.OrderPaid
	order.RazorpayPaymentID = req.PaymentID

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		for _, item := range order.Items {
			if item.Variant == nil || len(item.Variant.InventoryItems) == 0 {
				continue
			}
			inventory := item.Variant.InventoryItems[0]
			if err := tx.Model(&models.Inventory{}).
				Where("id = ?", inventory.ID).
				Update("quantity", gorm.Expr("quantity - ?", item.Quantity)).Error; err != nil {
				return err
			}
		}
		return tx.Save(&order).Error
	})
	if err != nil {
		utils.InternalServerError(c, "Failed to update order: "+err.Error())
		return
	}

	var user models.User
	if err := h.DB.First(&user, "id = ?", userID).Error; err != nil {
		utils.InternalServerError(c, "Database error: "+err.Error())
		return
	}

	// Auto-ship: push to logistics and move straight to "shipped" when
	// the push succeeds.
	if info := h.Logistics.CreateShipment(&order, &user); info != nil {
		order.Status = models.OrderShipped
		order.TrackingNumber = info.AWBCode
		if err := h.DB.Save(&order).Error; err != nil {
			utils.InternalServerError(c, "Failed to record shipment: "+err.Error())
			return
		}
	}

	h.WhatsApp.NotifyOrderConfirmed(user.FullName, user.PhoneNumber, order.ID,
		order.TotalAmount.InexactFloat64())

	utils.Success(c, "Payment successful", gin.H{
		"trackingNumber": order.TrackingNumber,
		"status":         order.Status,
	})
}

// GetMyOrders lists the caller's orders, newest first.
func (h *CommerceHandler) GetMyOrders(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var orders []models.Order
	err := h.DB.Where("user_id = ?", userID).
		Preload("Items").
		Preload("Items.Variant").
		Preload("Items.Variant.Product").
		Order("created_at desc").
		Find(&orders).Error
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch orders: "+err.Error())
		return
	}

	utils.Success(c, "Orders fetched successfully", orders)
}
