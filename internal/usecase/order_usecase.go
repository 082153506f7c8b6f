package usecase

import (
	"errors"
	"fmt"
	"strings"

	"zamar-backend/internal/model"
	"zamar-backend/internal/repository"

	"gorm.io/gorm"
)

type OrderInput struct {
	Recipient string
	Occasion  string
	Style     string
	Story     string
	Tier      string
}

type OrderUsecase struct {
	orders   repository.OrderRepository
	songs    repository.SongRepository
	currency string
}

func NewOrderUsecase(orders repository.OrderRepository, songs repository.SongRepository, currency string) *OrderUsecase {
	return &OrderUsecase{orders: orders, songs: songs, currency: currency}
}

func (u *OrderUsecase) Create(userID uint, in OrderInput) (*model.CustomSongOrder, error) {
	tier, ok := model.FindSongTier(strings.ToLower(in.Tier))
	if !ok {
		return nil, fmt.Errorf("%w: unknown tier %q", ErrValidation, in.Tier)
	}

	order := &model.CustomSongOrder{
		UserID:      userID,
		Recipient:   in.Recipient,
		Occasion:    in.Occasion,
		Style:       in.Style,
		Story:       in.Story,
		Tier:        tier.Code,
		AmountCents: tier.PriceCents,
		Currency:    u.currency,
		Status:      model.OrderPendingPayment,
	}
	if err := u.orders.Create(order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	return order, nil
}

// GetOwned returns the order when userID owns it.
func (u *OrderUsecase) GetOwned(userID, orderID uint) (*model.CustomSongOrder, error) {
	order, err := u.orders.GetByID(orderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, ErrForbidden
	}
	return order, nil
}

func (u *OrderUsecase) Cancel(userID, orderID uint) (*model.CustomSongOrder, error) {
	order, err := u.GetOwned(userID, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != model.OrderPendingPayment {
		return nil, fmt.Errorf("%w: only unpaid orders can be cancelled", ErrInvalidState)
	}
	cancelled, err := u.orders.CancelPending(order.ID, userID)
	if err != nil {
		return nil, err
	}
	if cancelled == 0 {
		return nil, fmt.Errorf("%w: order was updated meanwhile", ErrInvalidState)
	}
	order.Status = model.OrderCancelled
	return order, nil
}

var orderTransitions = map[string]string{
	model.OrderPaid:         model.OrderInProduction,
	model.OrderInProduction: model.OrderDelivered,
}

// Advance moves a paid order through production. Delivering requires the id
// of the finished song.
func (u *OrderUsecase) Advance(orderID uint, status string, songID *uint) (*model.CustomSongOrder, error) {
	order, err := u.orders.GetByID(orderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if next, ok := orderTransitions[order.Status]; !ok || next != status {
		return nil, fmt.Errorf("%w: cannot move order from %s to %s", ErrInvalidState, order.Status, status)
	}

	if status == model.OrderDelivered {
		if songID == nil {
			return nil, fmt.Errorf("%w: song_id is required to deliver", ErrValidation)
		}
		if _, err := u.songs.GetByID(*songID); err != nil {
			return nil, fmt.Errorf("%w: song %d does not exist", ErrValidation, *songID)
		}
		order.DeliveredSongID = songID
	}

	order.Status = status
	if err := u.orders.Update(order); err != nil {
		return nil, err
	}
	return order, nil
}
