package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"zamar-backend/internal/payment"
)

const validSignature = "sig-ok"

// fakeGateway hands out sequential session ids and accepts any JSON encoded
// payment.Event carrying validSignature.
type fakeGateway struct {
	requests []payment.CheckoutRequest
	fail     error
}

func (g *fakeGateway) CreateCheckoutSession(_ context.Context, req payment.CheckoutRequest) (*payment.CheckoutSession, error) {
	if g.fail != nil {
		return nil, g.fail
	}
	g.requests = append(g.requests, req)
	id := fmt.Sprintf("cs_test_%d", len(g.requests))
	return &payment.CheckoutSession{ID: id, URL: "https://checkout.example/" + id}, nil
}

func (g *fakeGateway) ParseWebhook(payload []byte, signature string) (*payment.Event, error) {
	if signature != validSignature {
		return nil, payment.ErrInvalidSignature
	}
	var evt payment.Event
	if err := json.Unmarshal(payload, &evt); err != nil {
		return nil, errors.New("bad payload")
	}
	return &evt, nil
}

func eventPayload(evt payment.Event) []byte {
	b, _ := json.Marshal(evt)
	return b
}
