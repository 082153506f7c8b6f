package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"zamar-backend/internal/mail"
	"zamar-backend/internal/metrics"
	"zamar-backend/internal/model"
	"zamar-backend/internal/payment"
	"zamar-backend/internal/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	ResultProcessed = "processed"
	ResultDuplicate = "duplicate"
	ResultIgnored   = "ignored"
	ResultUnpaid    = "unpaid"
	ResultMismatch  = "mismatch"
	ResultExpired   = "expired"
)

type CheckoutUsecase struct {
	db       *gorm.DB
	gateway  payment.Gateway
	policy   CommissionPolicy
	currency string
	mailer   mail.Mailer
	log      *logrus.Logger
	now      func() time.Time
}

func NewCheckoutUsecase(db *gorm.DB, gateway payment.Gateway, policy CommissionPolicy, currency string, mailer mail.Mailer, log *logrus.Logger) *CheckoutUsecase {
	return &CheckoutUsecase{
		db:       db,
		gateway:  gateway,
		policy:   policy,
		currency: currency,
		mailer:   mailer,
		log:      log,
		now:      time.Now,
	}
}

// StartOrderCheckout opens a payment session for an unpaid custom song order
// and stores the session id on it.
func (u *CheckoutUsecase) StartOrderCheckout(ctx context.Context, userID, orderID uint) (*payment.CheckoutSession, error) {
	orders := repository.NewOrderRepository(u.db.WithContext(ctx))

	order, err := orders.GetByID(orderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, ErrForbidden
	}
	if order.Status != model.OrderPendingPayment {
		return nil, fmt.Errorf("%w: order is %s", ErrInvalidState, order.Status)
	}

	tier, _ := model.FindSongTier(order.Tier)
	sess, err := u.gateway.CreateCheckoutSession(ctx, payment.CheckoutRequest{
		Kind:          model.PaymentKindCustomSong,
		ReferenceID:   order.ID,
		UserID:        userID,
		CustomerEmail: order.User.Email,
		ProductName:   tier.Name,
		Description:   fmt.Sprintf("Custom song for %s (%s)", order.Recipient, order.Occasion),
		AmountCents:   order.AmountCents,
		Currency:      order.Currency,
	})
	if err != nil {
		return nil, err
	}

	order.StripeSessionID = sess.ID
	if err := orders.Update(order); err != nil {
		return nil, fmt.Errorf("store session id: %w", err)
	}

	metrics.RecordCheckoutSession(model.PaymentKindCustomSong)
	u.log.WithFields(logrus.Fields{"order_id": order.ID, "session_id": sess.ID}).Info("checkout session created")
	return sess, nil
}

// StartCampaignCheckout is StartOrderCheckout for advertising campaigns.
func (u *CheckoutUsecase) StartCampaignCheckout(ctx context.Context, userID, campaignID uint) (*payment.CheckoutSession, error) {
	db := u.db.WithContext(ctx)
	ads := repository.NewAdRepository(db)

	campaign, err := ads.GetCampaign(campaignID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if campaign.AdvertiserID != userID {
		return nil, ErrForbidden
	}
	if campaign.Status != model.CampaignPendingPayment {
		return nil, fmt.Errorf("%w: campaign is %s", ErrInvalidState, campaign.Status)
	}

	advertiser, err := repository.NewUserRepository(db).FindByID(userID)
	if err != nil {
		return nil, err
	}

	sess, err := u.gateway.CreateCheckoutSession(ctx, payment.CheckoutRequest{
		Kind:          model.PaymentKindAdvertising,
		ReferenceID:   campaign.ID,
		UserID:        userID,
		CustomerEmail: advertiser.Email,
		ProductName:   campaign.Package.Name,
		Description:   fmt.Sprintf("%s ad \"%s\" for %d days", campaign.Placement, campaign.Title, campaign.Package.DurationDays),
		AmountCents:   campaign.AmountCents,
		Currency:      u.currency,
	})
	if err != nil {
		return nil, err
	}

	campaign.StripeSessionID = sess.ID
	if err := ads.UpdateCampaign(campaign); err != nil {
		return nil, fmt.Errorf("store session id: %w", err)
	}

	metrics.RecordCheckoutSession(model.PaymentKindAdvertising)
	u.log.WithFields(logrus.Fields{"campaign_id": campaign.ID, "session_id": sess.ID}).Info("checkout session created")
	return sess, nil
}

// HandleWebhook verifies and applies one payment provider event. Each event
// id is applied at most once; the event record and its effects commit
// together, so a failed event is retried by the provider from scratch.
func (u *CheckoutUsecase) HandleWebhook(ctx context.Context, payload []byte, signature string) (string, error) {
	evt, err := u.gateway.ParseWebhook(payload, signature)
	if err != nil {
		metrics.RecordWebhookEvent("unknown", "invalid_signature")
		return "", fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	var (
		result   string
		outgoing []mail.Message
	)
	err = u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		fresh, err := repository.NewPaymentRepository(tx).RecordEvent(&model.WebhookEvent{EventID: evt.ID, Type: evt.Type})
		if err != nil {
			return fmt.Errorf("record event: %w", err)
		}
		if !fresh {
			result = ResultDuplicate
			return nil
		}

		switch evt.Type {
		case payment.EventCheckoutCompleted:
			result, outgoing, err = u.completeCheckout(tx, evt)
		case payment.EventCheckoutExpired:
			result, err = u.expireCheckout(tx, evt)
		default:
			result = ResultIgnored
		}
		if err != nil {
			return err
		}
		return tx.Model(&model.WebhookEvent{}).Where("event_id = ?", evt.ID).Update("result", result).Error
	})
	if err != nil {
		metrics.RecordWebhookEvent(evt.Type, "error")
		u.log.WithError(err).WithFields(logrus.Fields{"event_id": evt.ID, "type": evt.Type}).Error("webhook processing failed")
		return "", err
	}

	metrics.RecordWebhookEvent(evt.Type, result)
	u.log.WithFields(logrus.Fields{"event_id": evt.ID, "type": evt.Type, "result": result}).Info("webhook processed")

	for _, msg := range outgoing {
		mail.SendAsync(u.mailer, u.log, msg)
	}
	return result, nil
}

func (u *CheckoutUsecase) completeCheckout(tx *gorm.DB, evt *payment.Event) (string, []mail.Message, error) {
	if evt.PaymentStatus != "paid" {
		return ResultUnpaid, nil, nil
	}

	payments := repository.NewPaymentRepository(tx)
	if _, err := payments.FindBySessionID(evt.SessionID); err == nil {
		return ResultDuplicate, nil, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil, err
	}

	now := u.now()
	var (
		ownerID  uint
		amount   int64
		currency = evt.Currency
		outgoing []mail.Message
	)

	switch evt.Kind {
	case model.PaymentKindCustomSong:
		orders := repository.NewOrderRepository(tx)
		order, err := orders.GetByID(evt.ReferenceID)
		if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && order.StripeSessionID != evt.SessionID) {
			return ResultMismatch, nil, nil
		}
		if err != nil {
			return "", nil, err
		}

		// A cancelled or expired order whose session was still paid is
		// honoured: the money has been taken.
		switch order.Status {
		case model.OrderPendingPayment, model.OrderCancelled, model.OrderExpired:
		default:
			return ResultDuplicate, nil, nil
		}

		tier, _ := model.FindSongTier(order.Tier)
		due := now.AddDate(0, 0, tier.DeliveryDays)
		order.Status = model.OrderPaid
		order.PaidAt = &now
		order.DueAt = &due
		if err := orders.Update(order); err != nil {
			return "", nil, fmt.Errorf("mark order paid: %w", err)
		}

		ownerID, amount = order.UserID, order.AmountCents
		if currency == "" {
			currency = order.Currency
		}
		outgoing = append(outgoing, mail.OrderPaid(order.User.Email, order.User.Name, order.ID, tier.Name))

	case model.PaymentKindAdvertising:
		ads := repository.NewAdRepository(tx)
		campaign, err := ads.GetCampaign(evt.ReferenceID)
		if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && campaign.StripeSessionID != evt.SessionID) {
			return ResultMismatch, nil, nil
		}
		if err != nil {
			return "", nil, err
		}
		if campaign.Status != model.CampaignPendingPayment && campaign.Status != model.CampaignExpired {
			return ResultDuplicate, nil, nil
		}

		ends := now.AddDate(0, 0, campaign.Package.DurationDays)
		campaign.Status = model.CampaignActive
		campaign.StartsAt = &now
		campaign.EndsAt = &ends
		if err := ads.UpdateCampaign(campaign); err != nil {
			return "", nil, fmt.Errorf("activate campaign: %w", err)
		}

		advertiser, err := repository.NewUserRepository(tx).FindByID(campaign.AdvertiserID)
		if err != nil {
			return "", nil, err
		}
		ownerID, amount = campaign.AdvertiserID, campaign.AmountCents
		if currency == "" {
			currency = u.currency
		}
		outgoing = append(outgoing, mail.CampaignActive(advertiser.Email, advertiser.Name, campaign.Title))

	default:
		return ResultIgnored, nil, nil
	}

	// The provider's total wins over our stored price, e.g. after a coupon.
	if evt.AmountTotal > 0 {
		amount = evt.AmountTotal
	}

	p := &model.Payment{
		UserID:          ownerID,
		Kind:            evt.Kind,
		ReferenceID:     evt.ReferenceID,
		StripeSessionID: evt.SessionID,
		PaymentIntentID: evt.PaymentIntentID,
		AmountCents:     amount,
		Currency:        currency,
	}
	if err := payments.Create(p); err != nil {
		return "", nil, fmt.Errorf("record payment: %w", err)
	}

	commissionMail, err := u.creditReferrers(tx, p)
	if err != nil {
		return "", nil, err
	}
	return ResultProcessed, append(outgoing, commissionMail...), nil
}

func (u *CheckoutUsecase) creditReferrers(tx *gorm.DB, p *model.Payment) ([]mail.Message, error) {
	chain, err := repository.NewUserRepository(tx).ReferrerChain(p.UserID, 2)
	if err != nil {
		return nil, fmt.Errorf("load referrer chain: %w", err)
	}

	ids := make([]uint, len(chain))
	byID := make(map[uint]model.User, len(chain))
	for i, ref := range chain {
		ids[i] = ref.ID
		byID[ref.ID] = ref
	}

	shares := u.policy.Calculate(p.UserID, p.AmountCents, ids)
	if len(shares) == 0 {
		return nil, nil
	}

	earnings := make([]model.ReferralEarning, 0, len(shares))
	var outgoing []mail.Message
	for _, s := range shares {
		earnings = append(earnings, model.ReferralEarning{
			EarnerID:     s.EarnerID,
			SourceUserID: p.UserID,
			PaymentID:    p.ID,
			Level:        s.Level,
			RateBPS:      s.RateBPS,
			AmountCents:  s.AmountCents,
			Status:       model.EarningPending,
		})
		earner := byID[s.EarnerID]
		outgoing = append(outgoing, mail.CommissionEarned(earner.Email, earner.Name, s.AmountCents, p.Currency))
	}
	if err := repository.NewEarningRepository(tx).CreateMany(earnings); err != nil {
		return nil, fmt.Errorf("credit referral earnings: %w", err)
	}

	for _, s := range shares {
		metrics.RecordCommission(s.Level, s.AmountCents)
		u.log.WithFields(logrus.Fields{
			"payment_id": p.ID, "earner_id": s.EarnerID, "level": s.Level, "amount_cents": s.AmountCents,
		}).Info("referral commission credited")
	}
	return outgoing, nil
}

func (u *CheckoutUsecase) expireCheckout(tx *gorm.DB, evt *payment.Event) (string, error) {
	var res *gorm.DB
	switch evt.Kind {
	case model.PaymentKindCustomSong:
		res = tx.Model(&model.CustomSongOrder{}).
			Where("id = ? AND stripe_session_id = ? AND status = ?", evt.ReferenceID, evt.SessionID, model.OrderPendingPayment).
			Update("status", model.OrderExpired)
	case model.PaymentKindAdvertising:
		res = tx.Model(&model.AdCampaign{}).
			Where("id = ? AND stripe_session_id = ? AND status = ?", evt.ReferenceID, evt.SessionID, model.CampaignPendingPayment).
			Update("status", model.CampaignExpired)
	default:
		return ResultIgnored, nil
	}
	if res.Error != nil {
		return "", res.Error
	}
	if res.RowsAffected == 0 {
		return ResultIgnored, nil
	}
	return ResultExpired, nil
}
