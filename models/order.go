package models

import "time"

// Address is the shipping address collected at checkout. Ten fields are
// required; addressLine2 is optional and addressLine is derived by joining
// the two lines.
type Address struct {
	Name         string `json:"name" validate:"required"`
	Email        string `json:"email" validate:"required,email"`
	Phone        string `json:"phone" validate:"required"`
	DoorNo       string `json:"doorNo" validate:"required"`
	Landmark     string `json:"landmark" validate:"required"`
	Pincode      string `json:"pincode" validate:"required"`
	AddressLine1 string `json:"addressLine1" validate:"required"`
	AddressLine2 string `json:"addressLine2"`
	AddressLine  string `json:"addressLine"`
	City         string `json:"city" validate:"required"`
	State        string `json:"state" validate:"required"`
	Country      string `json:"country" validate:"required"`
}

// Payment methods accepted at checkout.
const (
	PaymentMethodCard = "card"
	PaymentMethodCOD  = "cod"
)

// Payment statuses attached to placed orders.
const (
	PaymentStatusPaid    = "paid"
	PaymentStatusPending = "pending"
)

type Payment struct {
	Method    string `json:"method"`
	Status    string `json:"status"`
	Reference string `json:"reference,omitempty"`
}

// Order is created once at checkout and immutable afterward. The storefront
// returns it to the caller for the confirmation view; it is not re-fetched.
type Order struct {
	ID        string     `json:"id"`
	UserEmail string     `json:"userEmail"`
	Address   Address    `json:"address"`
	Payment   Payment    `json:"payment"`
	Items     []CartItem `json:"items"`
	Total     float64    `json:"total"`
	CreatedAt time.Time  `json:"createdAt"`
}
