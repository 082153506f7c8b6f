package repository

import (
	"time"

	"zamar-backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PaymentRepository interface {
	Create(p *model.Payment) error
	FindBySessionID(sessionID string) (*model.Payment, error)
	RevenueByKind() (map[string]int64, error)
	ListBetween(from, to time.Time) ([]model.Payment, error)
	// RecordEvent stores a webhook event id. It returns false when the id was
	// already recorded.
	RecordEvent(evt *model.WebhookEvent) (bool, error)
}

type paymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db}
}

func (r *paymentRepository) Create(p *model.Payment) error {
	return r.db.Create(p).Error
}

func (r *paymentRepository) FindBySessionID(sessionID string) (*model.Payment, error) {
	var p model.Payment
	// Find + Limit(1) so a miss is not logged as an error by GORM
	err := r.db.Where("stripe_session_id = ?", sessionID).Limit(1).Find(&p).Error
	if err != nil {
		return nil, err
	}
	if p.ID == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &p, nil
}

func (r *paymentRepository) RevenueByKind() (map[string]int64, error) {
	var rows []struct {
		Kind  string
		Total int64
	}
	err := r.db.Model(&model.Payment{}).
		Group("kind").Select("kind, COALESCE(SUM(amount_cents), 0) as total").Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	revenue := map[string]int64{model.PaymentKindCustomSong: 0, model.PaymentKindAdvertising: 0}
	for _, row := range rows {
		revenue[row.Kind] = row.Total
	}
	return revenue, nil
}

func (r *paymentRepository) RecordEvent(evt *model.WebhookEvent) (bool, error) {
	res := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "event_id"}},
		DoNothing: true,
	}).Create(evt)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// ListBetween returns payments created in [from, to), oldest first.
func (r *paymentRepository) ListBetween(from, to time.Time) ([]model.Payment, error) {
	var list []model.Payment
	err := r.db.Where("created_at >= ? AND created_at < ?", from, to).Order("created_at asc").Find(&list).Error
	return list, err
}
