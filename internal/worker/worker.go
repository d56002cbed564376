package worker

import (
	"context"
	"sync"
	"time"

	"github.com/joshu-sajeev/stepform/internal/webhook"
	"go.uber.org/zap"
)

// Worker runs the webhook queue processor on a fixed interval. Passes run on
// a single goroutine, so one pass never overlaps the next. A pass that
// outlasts the interval delays the following tick instead of stacking up.
type Worker struct {
	processor webhook.QueueProcessor
	interval  time.Duration
	log       *zap.Logger
	wg        sync.WaitGroup
	cancel    context.CancelFunc
}

func NewWorker(p webhook.QueueProcessor, interval time.Duration, log *zap.Logger) *Worker {
	if log == nil {
		log = zap.NewNop()
	}
	return &Worker{processor: p, interval: interval, log: log}
}

// Start runs a pass right away and then one per interval until Stop is
// called or ctx is done.
func (w *Worker) Start(ctx context.Context) {
	ctx, w.cancel = context.WithCancel(ctx)

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()

		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		for {
			w.RunOnce(ctx)

			select {
			case <-ticker.C:
			case <-ctx.Done():
				return
			}
		}
	}()
}

// RunOnce runs a single pass and logs the outcome. Errors never stop the
// loop; the next tick retries.
func (w *Worker) RunOnce(ctx context.Context) {
	start := time.Now()
	result, err := w.processor.ProcessQueue(ctx)
	if err != nil {
		if ctx.Err() != nil {
			w.log.Info("queue pass canceled", zap.Error(err))
			return
		}
		w.log.Error("queue pass failed", zap.Error(err))
		return
	}

	if result.Total > 0 {
		w.log.Info("queue pass finished",
			zap.Int("processed", result.Processed),
			zap.Int("skipped", result.Skipped),
			zap.Int("total", result.Total),
			zap.Duration("took", time.Since(start)),
		)
	}
}

// Stop cancels the loop and waits for the running pass to return.
func (w *Worker) Stop() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}
