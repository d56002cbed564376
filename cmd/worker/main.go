package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joshu-sajeev/stepform/internal/app"
	"github.com/joshu-sajeev/stepform/internal/metrics"
	"github.com/joshu-sajeev/stepform/internal/worker"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt, err := app.Bootstrap(ctx)
	if err != nil {
		log.Fatalf("startup failed: %v", err)
	}
	defer rt.Close()

	metrics.MustRegister(prometheus.DefaultRegisterer)

	processor := app.NewProcessor(rt.Config, rt.DB, rt.Log)
	w := worker.NewWorker(processor, rt.Config.ProcessInterval, rt.Log.Named("worker"))

	w.Start(ctx)
	rt.Log.Info("webhook worker active",
		zap.Duration("interval", rt.Config.ProcessInterval),
		zap.String("backoff", rt.Config.WebhookBackoff),
	)

	<-ctx.Done()
	w.Stop()
	rt.Log.Info("shutdown complete")
}
