// Package resultcache 提供带 TTL 的有界结果缓存，可选二级存储
package resultcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"

	"humanizer-api/pkg/logger"
	"humanizer-api/pkg/metrics"
)

// 默认参数
const (
	DefaultTTL         = 5 * time.Minute
	DefaultMaxSize     = 100
	DefaultPrefixRunes = 100
)

// Store 二级存储，失败只记录日志，不影响调用结果
type Store[V any] interface {
	Get(ctx context.Context, key string) (V, bool, error)
	Set(ctx context.Context, key string, value V, ttl time.Duration) error
}

// Config 缓存配置
type Config struct {
	TTL         time.Duration
	MaxSize     int
	PrefixRunes int
}

// DefaultConfig 默认缓存配置
func DefaultConfig() Config {
	return Config{TTL: DefaultTTL, MaxSize: DefaultMaxSize, PrefixRunes: DefaultPrefixRunes}
}

func (c Config) normalize() Config {
	if c.TTL <= 0 {
		c.TTL = DefaultTTL
	}
	if c.MaxSize <= 0 {
		c.MaxSize = DefaultMaxSize
	}
	if c.PrefixRunes <= 0 {
		c.PrefixRunes = DefaultPrefixRunes
	}
	return c
}

// Cache 内存一级缓存，淘汰顺序为插入顺序
type Cache[V any] struct {
	name  string
	cfg   Config
	lru   *expirable.LRU[string, V]
	group singleflight.Group
	store Store[V]
}

// Option 缓存选项
type Option[V any] func(*Cache[V])

// WithStore 启用二级存储
func WithStore[V any](s Store[V]) Option[V] {
	return func(c *Cache[V]) {
		c.store = s
	}
}

// New 创建缓存，name 用作指标标签
func New[V any](name string, cfg Config, opts ...Option[V]) *Cache[V] {
	cfg = cfg.normalize()
	c := &Cache[V]{
		name: name,
		cfg:  cfg,
		lru:  expirable.NewLRU[string, V](cfg.MaxSize, nil, cfg.TTL),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Key 生成缓存键：文本前缀 + "|" + 参数 JSON
func Key(text string, settings any, prefixRunes int) string {
	prefix := text
	if prefixRunes > 0 {
		runes := []rune(text)
		if len(runes) > prefixRunes {
			prefix = string(runes[:prefixRunes])
		}
	}
	if settings == nil {
		return prefix
	}
	raw, err := json.Marshal(settings)
	if err != nil {
		return prefix
	}
	return prefix + "|" + string(raw)
}

// Digest 返回全文的 sha256 摘要，用作不截断文本时的定长键
func Digest(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// Key 使用当前配置的前缀长度生成缓存键
func (c *Cache[V]) Key(text string, settings any) string {
	return Key(text, settings, c.cfg.PrefixRunes)
}

// Config 返回生效配置
func (c *Cache[V]) Config() Config {
	return c.cfg
}

// Get 只读内存缓存，不刷新淘汰顺序
func (c *Cache[V]) Get(key string) (V, bool) {
	v, ok := c.lru.Peek(key)
	if !ok {
		// 过期条目惰性删除
		c.lru.Remove(key)
	}
	return v, ok
}

// Set 写入内存缓存
func (c *Cache[V]) Set(key string, value V) {
	c.lru.Add(key, value)
}

// Len 当前条目数
func (c *Cache[V]) Len() int {
	return c.lru.Len()
}

// Purge 清空内存缓存
func (c *Cache[V]) Purge() {
	c.lru.Purge()
}

// GetOrCompute 读取缓存，未命中时计算并写入；并发未命中只计算一次。
// 共享的计算不受任何调用方取消的影响，每个调用方只按自己的 ctx 放弃等待。
// hit 表示结果不是由本次调用计算得到的
func (c *Cache[V]) GetOrCompute(ctx context.Context, key string, compute func(context.Context) (V, error)) (value V, hit bool, err error) {
	var zero V
	if v, ok := c.Get(key); ok {
		metrics.CacheRequestsTotal.WithLabelValues(c.name, "hit").Inc()
		return v, true, nil
	}
	if err := ctx.Err(); err != nil {
		return zero, false, err
	}

	computed := false
	ch := c.group.DoChan(key, func() (any, error) {
		shared := context.WithoutCancel(ctx)
		if v, ok := c.Get(key); ok {
			return v, nil
		}
		if v, ok := c.loadFromStore(shared, key); ok {
			c.Set(key, v)
			return v, nil
		}

		v, err := compute(shared)
		if err != nil {
			return v, err
		}
		computed = true
		c.Set(key, v)
		c.saveToStore(shared, key, v)
		return v, nil
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return zero, false, ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		return zero, false, res.Err
	}

	switch {
	case res.Shared && !computed:
		metrics.CacheRequestsTotal.WithLabelValues(c.name, "shared").Inc()
	case computed:
		metrics.CacheRequestsTotal.WithLabelValues(c.name, "miss").Inc()
	}
	return res.Val.(V), !computed, nil
}

func (c *Cache[V]) loadFromStore(ctx context.Context, key string) (V, bool) {
	var zero V
	if c.store == nil {
		return zero, false
	}
	v, ok, err := c.store.Get(ctx, key)
	if err != nil {
		metrics.CacheStoreErrors.WithLabelValues(c.name, "get").Inc()
		logger.Warn(ctx, "result store get failed", "cache", c.name, "error", err.Error())
		return zero, false
	}
	if ok {
		metrics.CacheRequestsTotal.WithLabelValues(c.name, "store_hit").Inc()
	}
	return v, ok
}

func (c *Cache[V]) saveToStore(ctx context.Context, key string, v V) {
	if c.store == nil {
		return
	}
	if err := c.store.Set(ctx, key, v, c.cfg.TTL); err != nil {
		metrics.CacheStoreErrors.WithLabelValues(c.name, "set").Inc()
		logger.Warn(ctx, "result store set failed", "cache", c.name, "error", err.Error())
	}
}
