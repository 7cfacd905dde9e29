// Package scheduler runs the nightly unpaid-orders digest.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/ycfang/orderbot/internal/bot"
	"github.com/ycfang/orderbot/internal/line"
)

// Scheduler pushes the daily digest to the configured group at a fixed
// local time.
type Scheduler struct {
	cron      *cron.Cron
	bot       *bot.OrderBot
	messenger line.Messenger
	groupID   string
	logger    *zap.Logger
}

// New creates the scheduler with the digest job registered at
// hour:minute in loc.
func New(
	b *bot.OrderBot,
	messenger line.Messenger,
	groupID string,
	hour, minute int,
	loc *time.Location,
	logger *zap.Logger,
) (*Scheduler, error) {
	s := &Scheduler{
		cron:      cron.New(cron.WithLocation(loc)),
		bot:       b,
		messenger: messenger,
		groupID:   groupID,
		logger:    logger,
	}

	spec := fmt.Sprintf("%d %d * * *", minute, hour)
	if _, err := s.cron.AddFunc(spec, s.sendDigest); err != nil {
		return nil, fmt.Errorf("failed to register digest job: %w", err)
	}
	return s, nil
}

// Start begins running jobs.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("Daily digest scheduled")
}

// Stop waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// sendDigest pushes the reminder. Nothing is sent when nobody owes
// anything or no group is configured.
func (s *Scheduler) sendDigest() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	summary, ok, err := s.bot.DailyUnpaidSummary(ctx)
	if err != nil {
		s.logger.Error("Failed to build daily digest", zap.Error(err))
		return
	}
	if !ok {
		s.logger.Info("No unpaid orders, skipping daily digest")
		return
	}
	if s.groupID == "" {
		s.logger.Warn("No group configured, skipping daily digest push")
		return
	}

	if err := s.messenger.Push(ctx, s.groupID, summary); err != nil {
		s.logger.Error("Failed to push daily digest", zap.Error(err))
		return
	}
	s.logger.Info("Daily digest sent")
}
