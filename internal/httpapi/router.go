package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joshu-sajeev/stepform/internal/config"
	"github.com/joshu-sajeev/stepform/internal/lead"
	"github.com/joshu-sajeev/stepform/internal/metrics"
	"github.com/joshu-sajeev/stepform/internal/notify"
	"github.com/joshu-sajeev/stepform/internal/settings"
	"github.com/joshu-sajeev/stepform/internal/storage/postgres"
	"github.com/joshu-sajeev/stepform/internal/webhook"
	"github.com/joshu-sajeev/stepform/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const requestTimeout = 10 * time.Second

// Deps are the collaborators the router needs. Redis and Notifier are
// optional.
type Deps struct {
	Config    *config.Config
	DB        *gorm.DB
	Redis     *redis.Client
	Log       *zap.Logger
	Notifier  notify.Notifier
	Processor webhook.QueueProcessor
}

// NewRouter builds the gin engine with every route mounted.
func NewRouter(d Deps) *gin.Engine {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	if d.Notifier == nil {
		d.Notifier = notify.Noop{}
	}

	settingRepo := postgres.NewSettingRepository(d.DB)
	webhookRepo := postgres.NewWebhookRepository(d.DB)
	leadRepo := postgres.NewLeadRepository(d.DB)

	settingService := settings.NewService(settingRepo)
	webhookService := webhook.NewService(webhookRepo, d.Processor)
	leadService := lead.NewService(leadRepo, settingService, d.Notifier, d.Log.Named("lead"))

	settingHandler := settings.NewHandler(settingService)
	webhookHandler := webhook.NewHandler(webhookService)
	leadHandler := lead.NewHandler(leadService)

	metrics.MustRegister(prometheus.DefaultRegisterer)

	r := gin.New()
	r.Use(
		middleware.RequestLogger(d.Log.Named("http")),
		gin.Recovery(),
		middleware.ErrorHandler(),
	)

	r.GET("/healthz", healthz(d.DB))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	var counter middleware.WindowCounter
	if d.Redis != nil {
		counter = middleware.RedisCounter{Client: d.Redis}
	}
	limit := middleware.RateLimit(middleware.RateLimitConfig{
		Counter:   counter,
		Limit:     d.Config.LeadRateLimit,
		Window:    d.Config.LeadRateWindow,
		KeyPrefix: "rl:lead:",
		Log:       d.Log.Named("ratelimit"),
	})
	timeout := middleware.TimeoutMiddleware(requestTimeout)
	admin := middleware.AdminToken(d.Config.AdminToken)

	api := r.Group("/api")
	{
		api.POST("/leads", limit, timeout, leadHandler.Create)
		api.POST("/webhooks/inbound/:source", limit, timeout, leadHandler.Inbound)
		api.POST("/phone/normalize", leadHandler.NormalizePhone)
	}

	protected := api.Group("", admin)
	{
		protected.GET("/leads/:id", timeout, leadHandler.Get)

		protected.GET("/webhooks/queue", timeout, webhookHandler.List)
		protected.GET("/webhooks/queue/:id", timeout, webhookHandler.Get)
		// a pass may run for several outbound calls; no request timeout
		protected.POST("/webhooks/queue/process", webhookHandler.Process)

		protected.GET("/settings/:key", timeout, settingHandler.Get)
		protected.PUT("/settings/:key", timeout, settingHandler.Put)
	}

	return r
}

func healthz(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
