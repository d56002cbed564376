package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joshu-sajeev/stepform/internal/app"
	"github.com/joshu-sajeev/stepform/internal/httpapi"
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

	if rt.Config.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	rdb := app.NewRedis(rt.Config)
	if rdb != nil {
		defer rdb.Close()
	} else {
		rt.Log.Info("REDIS_ADDR not set, lead rate limiting disabled")
	}
	if rt.Config.AdminToken == "" {
		rt.Log.Warn("ADMIN_TOKEN not set, admin routes disabled")
	}

	notifiers := app.NewNotifiers(rt.Config, rt.Log)

	router := httpapi.NewRouter(httpapi.Deps{
		Config:    rt.Config,
		DB:        rt.DB,
		Redis:     rdb,
		Log:       rt.Log,
		Notifier:  notifiers,
		Processor: app.NewProcessor(rt.Config, rt.DB, rt.Log),
	})

	srv := &http.Server{
		Addr:              rt.Config.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		rt.Log.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			rt.Log.Fatal("http server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	rt.Log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		rt.Log.Error("http shutdown", zap.Error(err))
	}
	notifiers.Wait()
	rt.Log.Info("shutdown complete")
}
