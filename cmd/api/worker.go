package main

import (
	"context"

	"github.com/robfig/cron/v3"

	"github.com/xelth-com/eckwms-mondialrelay/internal/services/shipping"
)

// startWorker schedules the dispatch worker; a nil worker means it is disabled
func startWorker(ctx context.Context, worker *shipping.Worker) (*cron.Cron, error) {
	if worker == nil {
		return nil, nil
	}
	return worker.Start(ctx)
}
