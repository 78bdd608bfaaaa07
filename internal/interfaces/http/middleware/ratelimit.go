package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"

	"humanizer-api/pkg/logger"
)

// RateLimitConfig 限流配置
type RateLimitConfig struct {
	// Enabled 是否启用限流
	Enabled bool
	// RequestsPerSecond 每秒请求数
	RequestsPerSecond int
	// Burst 突发容量，仅进程内限流器使用
	Burst int
}

// RateLimiter 限流器接口
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
	BuildRateLimitKey(clientID, endpoint string) string
}

// RateLimit 限流中间件，按客户端 IP 与路由计数
func RateLimit(cfg RateLimitConfig, limiter RateLimiter) gin.HandlerFunc {
	if !cfg.Enabled || limiter == nil {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 100
	}

	return func(c *gin.Context) {
		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = c.Request.URL.Path
		}
		key := limiter.BuildRateLimitKey(c.ClientIP(), endpoint)

		allowed, err := limiter.Allow(c.Request.Context(), key, cfg.RequestsPerSecond, time.Second)
		if err != nil {
			// 限流器故障时放行
			logger.Warn(c.Request.Context(), "rate limiter unavailable", "error", err)
			c.Next()
			return
		}

		if !allowed {
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"code":     http.StatusTooManyRequests,
				"message":  "rate limit exceeded",
				"trace_id": c.GetString("trace_id"),
			})
			return
		}

		c.Next()
	}
}

const localLimiterCapacity = 10000

// LocalRateLimiter 进程内令牌桶限流器，Redis 未启用时使用
type LocalRateLimiter struct {
	burst    int
	mu       sync.Mutex
	limiters *expirable.LRU[string, *rate.Limiter]
}

// NewLocalRateLimiter 创建进程内限流器
func NewLocalRateLimiter(burst int) *LocalRateLimiter {
	return &LocalRateLimiter{
		burst:    burst,
		limiters: expirable.NewLRU[string, *rate.Limiter](localLimiterCapacity, nil, 10*time.Minute),
	}
}

// Allow 以 limit/window 为速率消耗一个令牌
func (l *LocalRateLimiter) Allow(_ context.Context, key string, limit int, window time.Duration) (bool, error) {
	l.mu.Lock()
	lim, ok := l.limiters.Get(key)
	if !ok {
		burst := l.burst
		if burst <= 0 {
			burst = limit
		}
		lim = rate.NewLimiter(rate.Limit(float64(limit)/window.Seconds()), burst)
		l.limiters.Add(key, lim)
	}
	l.mu.Unlock()
	return lim.Allow(), nil
}

// BuildRateLimitKey 构建限流键
func (l *LocalRateLimiter) BuildRateLimitKey(clientID, endpoint string) string {
	return "ratelimit:" + clientID + ":" + endpoint
}

