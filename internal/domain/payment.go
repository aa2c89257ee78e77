package domain

import "context"

// PaymentMethod carries the card details for a paid booking.
type PaymentMethod struct {
	CardNumber string `json:"cardNumber"`
	ExpiryDate string `json:"expiryDate"`
	CVV        string `json:"cvv"`
}

// PaymentResult is returned by the gateway on a successful charge.
type PaymentResult struct {
	Reference string
}

// PaymentGateway charges a customer. The booking service only commits a
// booking after a successful charge; a declined charge surfaces as
// ErrPaymentFailed and leaves no state behind.
type PaymentGateway interface {
	Charge(ctx context.Context, amount int64, method PaymentMethod) (*PaymentResult, error)
}
