package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joshu-sajeev/stepform/common"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// WindowCounter increments the hit count stored under key and returns it.
type WindowCounter interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

// RedisCounter counts hits in Redis with INCR + EXPIRE.
type RedisCounter struct {
	Client *redis.Client
}

func (r RedisCounter) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	// expiry 2*window (safety)
	pipe := r.Client.Pipeline()
	cnt := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, window*2)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return cnt.Val(), nil
}

// RateLimitConfig config for the per-client fixed-window limiter.
type RateLimitConfig struct {
	Counter   WindowCounter // nil disables limiting
	Limit     int           // requests per window; <= 0 disables limiting
	Window    time.Duration
	KeyPrefix string // e.g. "rl:lead:"
	Log       *zap.Logger
	Now       func() time.Time
}

// RateLimit applies a fixed-window limit per client IP. Counter errors let
// the request through.
func RateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = "rl:ip:"
	}
	if cfg.Log == nil {
		cfg.Log = zap.NewNop()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return func(c *gin.Context) {
		if cfg.Counter == nil || cfg.Limit <= 0 {
			c.Next()
			return
		}

		// fixed-window key: rl:ip:{ip}:{window start}
		now := cfg.Now()
		bucket := now.UnixNano() / int64(cfg.Window)
		key := cfg.KeyPrefix + c.ClientIP() + ":" + strconv.FormatInt(bucket, 10)

		cnt, err := cfg.Counter.Incr(c.Request.Context(), key, cfg.Window)
		if err != nil {
			cfg.Log.Warn("rate limiter unavailable", zap.Error(err))
			c.Next()
			return
		}

		if cnt > int64(cfg.Limit) {
			remain := cfg.Window - time.Duration(now.UnixNano()%int64(cfg.Window))
			c.Header("Retry-After", strconv.Itoa(int((remain+time.Second-1)/time.Second)))
			c.Error(common.Errf(http.StatusTooManyRequests, "rate limited"))
			c.Abort()
			return
		}

		c.Next()
	}
}
