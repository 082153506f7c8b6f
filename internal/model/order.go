package model

import (
	"time"

	"gorm.io/gorm"
)

const (
	OrderPendingPayment = "PENDING_PAYMENT"
	OrderPaid           = "PAID"
	OrderInProduction   = "IN_PRODUCTION"
	OrderDelivered      = "DELIVERED"
	OrderCancelled      = "CANCELLED"
	OrderExpired        = "EXPIRED"
)

// SongTier is a fixed commissioning package. Prices are in minor units.
type SongTier struct {
	Code         string `json:"code"`
	Name         string `json:"name"`
	PriceCents   int64  `json:"price_cents"`
	DeliveryDays int    `json:"delivery_days"`
}

var SongTiers = []SongTier{
	{Code: "basic", Name: "Basic Song", PriceCents: 4900, DeliveryDays: 14},
	{Code: "premium", Name: "Premium Song", PriceCents: 9900, DeliveryDays: 10},
	{Code: "express", Name: "Express Song", PriceCents: 14900, DeliveryDays: 3},
}

func FindSongTier(code string) (SongTier, bool) {
	for _, t := range SongTiers {
		if t.Code == code {
			return t, true
		}
	}
	return SongTier{}, false
}

type CustomSongOrder struct {
	gorm.Model
	UserID          uint       `json:"user_id" gorm:"index"`
	Recipient       string     `json:"recipient"`
	Occasion        string     `json:"occasion"`
	Style           string     `json:"style"`
	Story           string     `json:"story" gorm:"type:text"`
	Tier            string     `json:"tier"`
	AmountCents     int64      `json:"amount_cents"`
	Currency        string     `json:"currency"`
	Status          string     `json:"status" gorm:"default:PENDING_PAYMENT;index"`
	StripeSessionID string     `json:"-" gorm:"index"`
	PaidAt          *time.Time `json:"paid_at"`
	DueAt           *time.Time `json:"due_at"`
	DeliveredSongID *uint      `json:"delivered_song_id"`

	User User `json:"-" gorm:"foreignKey:UserID"`
}
