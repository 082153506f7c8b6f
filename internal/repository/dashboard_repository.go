package repository

import (
	"time"

	"zamar-backend/internal/model"

	"gorm.io/gorm"
)

type DashboardRepository interface {
	GetDashboardStats(now time.Time) (map[string]interface{}, error)
}

type dashboardRepository struct {
	db *gorm.DB
}

func NewDashboardRepository(db *gorm.DB) DashboardRepository {
	return &dashboardRepository{db}
}

func (r *dashboardRepository) GetDashboardStats(now time.Time) (map[string]interface{}, error) {
	stats := make(map[string]interface{})

	users := NewUserRepository(r.db)
	songs := NewSongRepository(r.db)
	testimonies := NewTestimonyRepository(r.db)
	orders := NewOrderRepository(r.db)
	ads := NewAdRepository(r.db)
	payments := NewPaymentRepository(r.db)
	earnings := NewEarningRepository(r.db)

	// 1. Catalogue and audience
	totalUsers, err := users.Count()
	if err != nil {
		return nil, err
	}
	stats["total_users"] = totalUsers

	totalSongs, err := songs.Count()
	if err != nil {
		return nil, err
	}
	stats["total_songs"] = totalSongs

	totalPlays, err := songs.TotalPlays()
	if err != nil {
		return nil, err
	}
	stats["total_plays"] = totalPlays

	// 2. Moderation queue
	pending, err := testimonies.CountByStatus(model.TestimonyPending)
	if err != nil {
		return nil, err
	}
	stats["pending_testimonies"] = pending

	// 3. Sales
	orderCounts, err := orders.CountByStatus()
	if err != nil {
		return nil, err
	}
	stats["orders"] = orderCounts

	activeAds, err := ads.CountActive(now)
	if err != nil {
		return nil, err
	}
	stats["active_campaigns"] = activeAds

	revenue, err := payments.RevenueByKind()
	if err != nil {
		return nil, err
	}
	stats["revenue_cents"] = revenue

	// 4. Referral liabilities
	pendingCommission, err := earnings.SumPending()
	if err != nil {
		return nil, err
	}
	stats["pending_commission_cents"] = pendingCommission

	return stats, nil
}
