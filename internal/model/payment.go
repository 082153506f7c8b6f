package model

import (
	"time"

	"gorm.io/gorm"
)

const (
	PaymentKindCustomSong  = "custom_song"
	PaymentKindAdvertising = "advertising"
)

const (
	EarningPending = "PENDING"
	EarningPaid    = "PAID"
)

type Payment struct {
	gorm.Model
	UserID          uint   `json:"user_id" gorm:"index"`
	Kind            string `json:"kind" gorm:"index"`
	ReferenceID     uint   `json:"reference_id"`
	StripeSessionID string `json:"stripe_session_id" gorm:"unique;not null"`
	PaymentIntentID string `json:"payment_intent_id"`
	AmountCents     int64  `json:"amount_cents"`
	Currency        string `json:"currency"`
}

// ReferralEarning is one commission credited to an ancestor of the payer.
// Level 1 is the direct referrer, level 2 the referrer's referrer.
type ReferralEarning struct {
	gorm.Model
	EarnerID     uint       `json:"earner_id" gorm:"index"`
	SourceUserID uint       `json:"source_user_id"`
	PaymentID    uint       `json:"payment_id" gorm:"uniqueIndex:idx_earning_payment_level"`
	Level        int        `json:"level" gorm:"uniqueIndex:idx_earning_payment_level"`
	RateBPS      int64      `json:"rate_bps"`
	AmountCents  int64      `json:"amount_cents"`
	Status       string     `json:"status" gorm:"default:PENDING;index"`
	PaidAt       *time.Time `json:"paid_at"`
}

type WebhookEvent struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	EventID   string    `json:"event_id" gorm:"unique;not null"`
	Type      string    `json:"type"`
	Result    string    `json:"result"`
	CreatedAt time.Time `json:"created_at"`
}
