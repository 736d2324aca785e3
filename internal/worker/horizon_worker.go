package worker

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/spec-kit/oncall-service/internal/config"
	"github.com/spec-kit/oncall-service/internal/events"
	"github.com/spec-kit/oncall-service/internal/service"
)

// HorizonWorker periodically measures how much base rotation remains and
// raises a horizon-low event when the fleet is about to run out of scheduled
// coverage. Generation itself stays a deliberate admin action; the worker
// only watches and warns.
type HorizonWorker struct {
	planner    *service.PlannerService
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.RotationConfig
	cron       *cron.Cron
}

// NewHorizonWorker constructs the worker.
func NewHorizonWorker(planner *service.PlannerService, dispatcher events.Dispatcher, logger *zap.Logger, cfg config.RotationConfig) *HorizonWorker {
	return &HorizonWorker{
		planner:    planner,
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
		cron:       cron.New(),
	}
}

// Start schedules the periodic check.
func (w *HorizonWorker) Start() error {
	if _, err := w.cron.AddFunc(w.cfg.TopUpCron, w.runOnce); err != nil {
		return err
	}
	w.cron.Start()
	w.logger.Info("horizon worker started", zap.String("cron", w.cfg.TopUpCron))
	return nil
}

// Stop halts the cron scheduler and waits for a running check to finish.
func (w *HorizonWorker) Stop() {
	ctx := w.cron.Stop()
	<-ctx.Done()
}

func (w *HorizonWorker) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	days, err := w.planner.DaysRemaining(ctx, time.Now())
	if err != nil {
		w.logger.Error("horizon check failed", zap.Error(err))
		return
	}
	w.logger.Info("rotation horizon", zap.Int("days_remaining", days))

	if days >= w.cfg.WarnBelowDays {
		return
	}
	w.logger.Warn("rotation horizon below threshold",
		zap.Int("days_remaining", days),
		zap.Int("warn_below_days", w.cfg.WarnBelowDays))
	if w.dispatcher != nil {
		_ = w.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventHorizonLow,
			Timestamp: time.Now(),
			Payload: events.HorizonLowPayload{
				DaysRemaining: days,
				WarnBelowDays: w.cfg.WarnBelowDays,
			},
		})
	}
}
