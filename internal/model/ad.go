package model

import (
	"time"

	"gorm.io/gorm"
)

const (
	PlacementBanner  = "banner"
	PlacementAudio   = "audio"
	PlacementSidebar = "sidebar"
)

const (
	CampaignPendingPayment = "PENDING_PAYMENT"
	CampaignActive         = "ACTIVE"
	CampaignPaused         = "PAUSED"
	CampaignExpired        = "EXPIRED"
)

type AdPackage struct {
	gorm.Model
	Name         string `json:"name" gorm:"unique;not null"`
	Placement    string `json:"placement"`
	DurationDays int    `json:"duration_days"`
	PriceCents   int64  `json:"price_cents"`
	IsActive     bool   `json:"is_active" gorm:"default:true"`
}

type AdCampaign struct {
	gorm.Model
	AdvertiserID    uint       `json:"advertiser_id" gorm:"index"`
	PackageID       uint       `json:"package_id"`
	Title           string     `json:"title"`
	ImageKey        string     `json:"-"`
	TargetURL       string     `json:"target_url"`
	Placement       string     `json:"placement" gorm:"index"`
	Status          string     `json:"status" gorm:"default:PENDING_PAYMENT;index"`
	AmountCents     int64      `json:"amount_cents"`
	StripeSessionID string     `json:"-" gorm:"index"`
	StartsAt        *time.Time `json:"starts_at"`
	EndsAt          *time.Time `json:"ends_at"`
	Impressions     int64      `json:"impressions" gorm:"default:0"`
	Clicks          int64      `json:"clicks" gorm:"default:0"`

	ImageURL string    `json:"image_url" gorm:"-"`
	Package  AdPackage `json:"package" gorm:"foreignKey:PackageID"`
}

// LiveAt reports whether the campaign is active and inside its paid window.
func (c *AdCampaign) LiveAt(now time.Time) bool {
	return c.Status == CampaignActive &&
		c.StartsAt != nil && !c.StartsAt.After(now) &&
		c.EndsAt != nil && c.EndsAt.After(now)
}
