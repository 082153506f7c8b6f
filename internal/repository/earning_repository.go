package repository

import (
	"time"

	"zamar-backend/internal/model"

	"gorm.io/gorm"
)

type EarningTotals struct {
	PendingCents int64 `json:"pending_cents"`
	PaidCents    int64 `json:"paid_cents"`
}

type EarningRepository interface {
	CreateMany(earnings []model.ReferralEarning) error
	GetByID(id uint) (*model.ReferralEarning, error)
	ListByEarner(earnerID uint) ([]model.ReferralEarning, error)
	ListByStatus(status string) ([]model.ReferralEarning, error)
	TotalsByEarner(earnerID uint) (EarningTotals, error)
	MarkPaid(id uint, paidAt time.Time) (bool, error)
	SumPending() (int64, error)
	SumCreatedBetween(from, to time.Time) (int64, error)
}

type earningRepository struct {
	db *gorm.DB
}

func NewEarningRepository(db *gorm.DB) EarningRepository {
	return &earningRepository{db}
}

func (r *earningRepository) CreateMany(earnings []model.ReferralEarning) error {
	if len(earnings) == 0 {
		return nil
	}
	return r.db.Create(&earnings).Error
}

func (r *earningRepository) GetByID(id uint) (*model.ReferralEarning, error) {
	var e model.ReferralEarning
	err := r.db.First(&e, id).Error
	return &e, err
}

func (r *earningRepository) ListByEarner(earnerID uint) ([]model.ReferralEarning, error) {
	var list []model.ReferralEarning
	err := r.db.Where("earner_id = ?", earnerID).Order("created_at desc").Order("level asc").Find(&list).Error
	return list, err
}

func (r *earningRepository) ListByStatus(status string) ([]model.ReferralEarning, error) {
	var list []model.ReferralEarning
	query := r.db.Order("created_at asc")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	err := query.Find(&list).Error
	return list, err
}

func (r *earningRepository) TotalsByEarner(earnerID uint) (EarningTotals, error) {
	var rows []struct {
		Status string
		Total  int64
	}
	var totals EarningTotals
	err := r.db.Model(&model.ReferralEarning{}).
		Where("earner_id = ?", earnerID).
		Group("status").Select("status, COALESCE(SUM(amount_cents), 0) as total").Scan(&rows).Error
	if err != nil {
		return totals, err
	}
	for _, row := range rows {
		switch row.Status {
		case model.EarningPending:
			totals.PendingCents = row.Total
		case model.EarningPaid:
			totals.PaidCents = row.Total
		}
	}
	return totals, nil
}

// MarkPaid flips a pending earning to paid. It reports false when the row was
// not pending.
func (r *earningRepository) MarkPaid(id uint, paidAt time.Time) (bool, error) {
	res := r.db.Model(&model.ReferralEarning{}).
		Where("id = ? AND status = ?", id, model.EarningPending).
		Updates(map[string]interface{}{"status": model.EarningPaid, "paid_at": paidAt})
	return res.RowsAffected == 1, res.Error
}

func (r *earningRepository) SumPending() (int64, error) {
	var total int64
	err := r.db.Model(&model.ReferralEarning{}).
		Where("status = ?", model.EarningPending).
		Select("COALESCE(SUM(amount_cents), 0)").Scan(&total).Error
	return total, err
}

func (r *earningRepository) SumCreatedBetween(from, to time.Time) (int64, error) {
	var total int64
	err := r.db.Model(&model.ReferralEarning{}).
		Where("created_at >= ? AND created_at < ?", from, to).
		Select("COALESCE(SUM(amount_cents), 0)").Scan(&total).Error
	return total, err
}
