// Package scheduler runs the periodic clean-up jobs.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"zamar-backend/internal/repository"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	unpaidSpec = "@every 5m"
	endedSpec  = "@every 15m"
)

type Scheduler struct {
	cron       *cron.Cron
	orders     repository.OrderRepository
	ads        repository.AdRepository
	paymentTTL time.Duration
	log        *logrus.Logger
	now        func() time.Time
}

func New(db *gorm.DB, paymentTTL time.Duration, log *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:       cron.New(),
		orders:     repository.NewOrderRepository(db),
		ads:        repository.NewAdRepository(db),
		paymentTTL: paymentTTL,
		log:        log,
		now:        time.Now,
	}
}

// Start registers the jobs and starts the cron loop in its own goroutine.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(unpaidSpec, s.ExpireUnpaid); err != nil {
		return fmt.Errorf("schedule unpaid expiry: %w", err)
	}
	if _, err := s.cron.AddFunc(endedSpec, s.ExpireEndedCampaigns); err != nil {
		return fmt.Errorf("schedule campaign expiry: %w", err)
	}
	s.cron.Start()
	s.log.WithFields(logrus.Fields{"unpaid": unpaidSpec, "ended": endedSpec}).Info("scheduler started")
	return nil
}

// Stop stops scheduling and returns a context done when running jobs finish.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

// ExpireUnpaid closes orders and campaigns left in PENDING_PAYMENT longer
// than the payment TTL.
func (s *Scheduler) ExpireUnpaid() {
	cutoff := s.now().Add(-s.paymentTTL)

	orders, err := s.orders.ExpirePending(cutoff)
	if err != nil {
		s.log.WithError(err).Error("expire unpaid orders failed")
	}
	campaigns, err := s.ads.ExpirePending(cutoff)
	if err != nil {
		s.log.WithError(err).Error("expire unpaid campaigns failed")
	}

	if orders > 0 || campaigns > 0 {
		s.log.WithFields(logrus.Fields{"orders": orders, "campaigns": campaigns}).Info("expired unpaid checkouts")
	}
}

// ExpireEndedCampaigns closes campaigns whose paid window is over.
func (s *Scheduler) ExpireEndedCampaigns() {
	n, err := s.ads.ExpireEnded(s.now())
	if err != nil {
		s.log.WithError(err).Error("expire ended campaigns failed")
		return
	}
	if n > 0 {
		s.log.WithField("campaigns", n).Info("expired ended campaigns")
	}
}
