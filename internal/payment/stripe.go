package payment

import (
	"context"
	"fmt"
	"strconv"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"
	"github.com/tidwall/gjson"
)

type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
	SuccessURL    string
	CancelURL     string
}

type stripeGateway struct {
	api *client.API
	cfg StripeConfig
}

func NewStripeGateway(cfg StripeConfig) Gateway {
	api := &client.API{}
	api.Init(cfg.SecretKey, nil)
	return &stripeGateway{api: api, cfg: cfg}
}

func (g *stripeGateway) CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:        stripe.String(g.cfg.SuccessURL),
		CancelURL:         stripe.String(g.cfg.CancelURL),
		ClientReferenceID: stripe.String(strconv.FormatUint(uint64(req.UserID), 10)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Quantity: stripe.Int64(1),
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(req.Currency),
					UnitAmount: stripe.Int64(req.AmountCents),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripe.String(req.ProductName),
						Description: stripe.String(req.Description),
					},
				},
			},
		},
	}
	if req.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(req.CustomerEmail)
	}
	params.Context = ctx
	params.AddMetadata("kind", req.Kind)
	params.AddMetadata("reference_id", strconv.FormatUint(uint64(req.ReferenceID), 10))
	params.AddMetadata("user_id", strconv.FormatUint(uint64(req.UserID), 10))

	sess, err := g.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("create checkout session: %w", err)
	}
	return &CheckoutSession{ID: sess.ID, URL: sess.URL}, nil
}

func (g *stripeGateway) ParseWebhook(payload []byte, signature string) (*Event, error) {
	evt, err := webhook.ConstructEventWithOptions(payload, signature, g.cfg.WebhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	return eventFromStripe(evt), nil
}

// eventFromStripe pulls the checkout session fields out of the raw event
// object. Non-session events only carry ID and Type.
func eventFromStripe(evt stripe.Event) *Event {
	out := &Event{ID: evt.ID, Type: string(evt.Type)}
	if evt.Data == nil || len(evt.Data.Raw) == 0 {
		return out
	}

	obj := gjson.ParseBytes(evt.Data.Raw)
	if obj.Get("object").String() != "checkout.session" {
		return out
	}
	out.SessionID = obj.Get("id").String()
	out.PaymentStatus = obj.Get("payment_status").String()
	out.PaymentIntentID = obj.Get("payment_intent").String()
	out.AmountTotal = obj.Get("amount_total").Int()
	out.Currency = obj.Get("currency").String()
	out.Kind = obj.Get("metadata.kind").String()
	out.ReferenceID = uint(obj.Get("metadata.reference_id").Uint())
	out.UserID = uint(obj.Get("metadata.user_id").Uint())
	return out
}
