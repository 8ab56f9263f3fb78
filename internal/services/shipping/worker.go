package shipping

import (
	"context"
	"sync/atomic"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// PendingProcessor sends queued shipments
type PendingProcessor interface {
	ProcessPendingShipments(ctx context.Context) error
}

// Worker periodically sends pending shipments on a cron schedule
type Worker struct {
	processor PendingProcessor
	schedule  string
	logger    *zap.Logger
	running   atomic.Bool
}

// NewWorker creates a worker for a cron spec such as "@every 1m"
func NewWorker(processor PendingProcessor, schedule string, logger *zap.Logger) *Worker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Worker{processor: processor, schedule: schedule, logger: logger}
}

// Start schedules the worker; the returned cron must be stopped on shutdown
func (w *Worker) Start(ctx context.Context) (*cron.Cron, error) {
	c := cron.New()
	if _, err := c.AddFunc(w.schedule, func() { w.Run(ctx) }); err != nil {
		return nil, err
	}
	c.Start()
	w.logger.Info("Dispatch worker started", zap.String("schedule", w.schedule))
	return c, nil
}

// Run processes pending shipments once; overlapping runs are skipped
func (w *Worker) Run(ctx context.Context) {
	if !w.running.CompareAndSwap(false, true) {
		w.logger.Debug("Previous dispatch run still in progress, skipping")
		return
	}
	defer w.running.Store(false)

	if err := w.processor.ProcessPendingShipments(ctx); err != nil {
		w.logger.Error("Failed to process pending shipments", zap.Error(err))
	}
}
