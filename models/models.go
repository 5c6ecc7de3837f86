package models

import (
	"time"

	"github.com/shopspring/decimal"

	"checkout-service/onepay"
)

// Session is a single checkout attempt for a cart total
type Session struct {
	ID        string          `json:"id"`
	PaymentID string          `json:"paymentId"`
	URL       string          `json:"url"`
	Recipient string          `json:"recipient"`
	Total     decimal.Decimal `json:"total"`
	Amount    string          `json:"amount"`
	Status    onepay.Status   `json:"status"`
	Payment   *onepay.Payment `json:"payment,omitempty"`
	Error     string          `json:"error,omitempty"`
	ClearCart bool            `json:"clearCart"`
	Closed    bool            `json:"closed"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// CreateCheckoutRequest represents a request to start a checkout
type CreateCheckoutRequest struct {
	Total decimal.Decimal `json:"total"`
}

// CheckoutResponse represents a checkout session as returned to the storefront
type CheckoutResponse struct {
	ID              string        `json:"id"`
	PaymentID       string        `json:"payment_id"`
	URL             string        `json:"url"`
	Amount          string        `json:"amount"`
	Status          onepay.Status `json:"status"`
	TransactionHash string        `json:"transaction_hash,omitempty"`
	Error           string        `json:"error,omitempty"`
	ClearCart       bool          `json:"clear_cart"`
}

// NewCheckoutResponse builds the storefront view of a session
func NewCheckoutResponse(s *Session) *CheckoutResponse {
	resp := &CheckoutResponse{
		ID:        s.ID,
		PaymentID: s.PaymentID,
		URL:       s.URL,
		Amount:    s.Amount,
		Status:    s.Status,
		Error:     s.Error,
		ClearCart: s.ClearCart,
	}
	if s.Payment != nil {
		resp.TransactionHash = s.Payment.TransactionHash
	}
	return resp
}
