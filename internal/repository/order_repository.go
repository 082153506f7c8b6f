package repository

import (
	"time"

	"zamar-backend/internal/model"

	"gorm.io/gorm"
)

type OrderRepository interface {
	Create(order *model.CustomSongOrder) error
	GetByID(id uint) (*model.CustomSongOrder, error)
	ListByUser(userID uint) ([]model.CustomSongOrder, error)
	ListByStatus(status string) ([]model.CustomSongOrder, error)
	Update(order *model.CustomSongOrder) error
	CancelPending(id, userID uint) (int64, error)
	ExpirePending(createdBefore time.Time) (int64, error)
	CountByStatus() (map[string]int64, error)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db}
}

func (r *orderRepository) Create(order *model.CustomSongOrder) error {
	return r.db.Create(order).Error
}

func (r *orderRepository) GetByID(id uint) (*model.CustomSongOrder, error) {
	var order model.CustomSongOrder
	err := r.db.Preload("User").First(&order, id).Error
	return &order, err
}

func (r *orderRepository) ListByUser(userID uint) ([]model.CustomSongOrder, error) {
	var orders []model.CustomSongOrder
	err := r.db.Where("user_id = ?", userID).Order("created_at desc").Find(&orders).Error
	return orders, err
}

func (r *orderRepository) ListByStatus(status string) ([]model.CustomSongOrder, error) {
	var orders []model.CustomSongOrder
	query := r.db.Order("created_at asc")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	err := query.Find(&orders).Error
	return orders, err
}

func (r *orderRepository) Update(order *model.CustomSongOrder) error {
	return r.db.Omit("User").Save(order).Error
}

// CancelPending cancels the order only while it is still unpaid, so a payment
// committed after the caller read the row is never overwritten.
func (r *orderRepository) CancelPending(id, userID uint) (int64, error) {
	res := r.db.Model(&model.CustomSongOrder{}).
		Where("id = ? AND user_id = ? AND status = ?", id, userID, model.OrderPendingPayment).
		Update("status", model.OrderCancelled)
	return res.RowsAffected, res.Error
}

func (r *orderRepository) ExpirePending(createdBefore time.Time) (int64, error) {
	res := r.db.Model(&model.CustomSongOrder{}).
		Where("status = ? AND created_at < ?", model.OrderPendingPayment, createdBefore).
		Update("status", model.OrderExpired)
	return res.RowsAffected, res.Error
}

func (r *orderRepository) CountByStatus() (map[string]int64, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	err := r.db.Model(&model.CustomSongOrder{}).
		Group("status").Select("status, count(*) as count").Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := map[string]int64{
		model.OrderPendingPayment: 0, model.OrderPaid: 0, model.OrderInProduction: 0, model.OrderDelivered: 0,
	}
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}
