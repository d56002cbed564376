package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/joshu-sajeev/stepform/internal/config"
	"github.com/joshu-sajeev/stepform/internal/logger"
	"github.com/joshu-sajeev/stepform/internal/notify"
	"github.com/joshu-sajeev/stepform/internal/storage/postgres"
	"github.com/joshu-sajeev/stepform/internal/webhook"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Runtime is what every binary needs before it can do work.
type Runtime struct {
	Config *config.Config
	Log    *zap.Logger
	DB     *gorm.DB
}

// Bootstrap loads the app and database config, builds the logger and
// connects to Postgres.
func Bootstrap(ctx context.Context) (*Runtime, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	dbCfg, err := postgres.LoadConfigFromEnv(ctx)
	if err != nil {
		return nil, fmt.Errorf("load database config: %w", err)
	}

	db, err := postgres.ConnectDB(ctx, dbCfg, log)
	if err != nil {
		return nil, err
	}

	return &Runtime{Config: cfg, Log: log, DB: db}, nil
}

// Close flushes the logger and closes the database pool.
func (r *Runtime) Close() {
	if sqlDB, err := r.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
	_ = r.Log.Sync()
}

// NewProcessor wires the queue processor from config.
func NewProcessor(cfg *config.Config, db *gorm.DB, log *zap.Logger) *webhook.Processor {
	return webhook.NewProcessor(
		postgres.NewWebhookRepository(db),
		webhook.NewHTTPSender(&http.Client{}, cfg.WebhookTimeout),
		webhook.WithBackoff(webhook.NewBackoff(cfg.WebhookBackoff, config.RetryBackoffStep)),
		webhook.WithLogger(log.Named("webhook")),
	)
}

// NewRedis returns nil when REDIS_ADDR is unset.
func NewRedis(cfg *config.Config) *redis.Client {
	if cfg.RedisAddr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
}

// Notifiers holds the best-effort lead notifiers so shutdown can wait for
// in-flight posts.
type Notifiers struct {
	notify.Notifier
	senders []*notify.HTTPNotifier
}

// Wait blocks until every queued notification finished.
func (n *Notifiers) Wait() {
	for _, s := range n.senders {
		s.Wait()
	}
}

// NewNotifiers builds the email and tracking notifiers that are configured.
// Each is wrapped in its own dedupe so a retried submission with the same
// event id reaches a destination once.
func NewNotifiers(cfg *config.Config, log *zap.Logger) *Notifiers {
	registry := notify.NewRegistry(0)
	client := &http.Client{}

	out := &Notifiers{}
	var chain notify.Multi
	for _, target := range []struct{ name, endpoint string }{
		{"email", cfg.EmailEndpoint},
		{"tracking", cfg.TrackingEndpoint},
	} {
		if target.endpoint == "" {
			continue
		}
		n := notify.NewHTTPNotifier(target.name, target.endpoint, client, log.Named("notify"))
		out.senders = append(out.senders, n)
		chain = append(chain, notify.Dedupe(n, registry, target.name))
	}

	if len(chain) == 0 {
		out.Notifier = notify.Noop{}
	} else {
		out.Notifier = chain
	}
	return out
}
