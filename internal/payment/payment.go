package payment

import (
	"context"
	"errors"
)

const (
	EventCheckoutCompleted = "checkout.session.completed"
	EventCheckoutExpired   = "checkout.session.expired"
)

var ErrInvalidSignature = errors.New("invalid webhook signature")

type CheckoutRequest struct {
	Kind          string
	ReferenceID   uint
	UserID        uint
	CustomerEmail string
	ProductName   string
	Description   string
	AmountCents   int64
	Currency      string
}

type CheckoutSession struct {
	ID  string
	URL string
}

// Event is the subset of a provider webhook event the usecases act on.
type Event struct {
	ID              string
	Type            string
	SessionID       string
	PaymentStatus   string
	PaymentIntentID string
	AmountTotal     int64
	Currency        string
	Kind            string
	ReferenceID     uint
	UserID          uint
}

type Gateway interface {
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error)
	ParseWebhook(payload []byte, signature string) (*Event, error)
}
