package dto

import "github.com/SoftEngMuhammadAli/shop-nexus/internal/domain"

// CartItemRequest payload for POST /api/cart/items.
type CartItemRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,min=1,max=999"`
}

// CartQuantityRequest payload for PUT /api/cart/items/:productId. Zero
// removes the line.
type CartQuantityRequest struct {
	Quantity int `json:"quantity" validate:"min=0,max=999"`
}

// AddressRequest is a shipping address.
type AddressRequest struct {
	Line1      string `json:"line1" validate:"required,max=200"`
	Line2      string `json:"line2" validate:"max=200"`
	City       string `json:"city" validate:"required,max=100"`
	PostalCode string `json:"postalCode" validate:"required,max=20"`
	Country    string `json:"country" validate:"required,max=100"`
}

// CheckoutRequest payload for POST /api/orders.
type CheckoutRequest struct {
	ShippingAddress AddressRequest `json:"shippingAddress"`
}

// ToAddress converts the payload into the stored address.
func (r CheckoutRequest) ToAddress() domain.ShippingAddress {
	a := r.ShippingAddress
	return domain.ShippingAddress{
		Line1:      a.Line1,
		Line2:      a.Line2,
		City:       a.City,
		PostalCode: a.PostalCode,
		Country:    a.Country,
	}
}

// OrderStatusRequest payload for PUT /api/orders/:id/status.
type OrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending processing shipped delivered cancelled"`
}
