package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"humanizer-api/internal/infrastructure/resilience"
)

// ResultStore 结果缓存的二级存储，调用经过重试与熔断保护
type ResultStore[V any] struct {
	client    *Client
	exec      *resilience.Executor
	namespace string
}

// NewResultStore 创建二级结果存储，namespace 区分不同结果类型
func NewResultStore[V any](client *Client, exec *resilience.Executor, namespace string) *ResultStore[V] {
	return &ResultStore[V]{client: client, exec: exec, namespace: namespace}
}

// storeKey 缓存键可能很长，存储时取摘要
func (s *ResultStore[V]) storeKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return s.client.Key("result", s.namespace, hex.EncodeToString(sum[:16]))
}

// Get 读取结果，未命中返回 ok=false
func (s *ResultStore[V]) Get(ctx context.Context, key string) (V, bool, error) {
	var zero V
	var raw []byte
	err := s.exec.Execute(ctx, "redis.result.get", func(ctx context.Context) error {
		b, err := s.client.Get(ctx, s.storeKey(key))
		if err != nil {
			return err
		}
		raw = b
		return nil
	}, resilience.RedisClassifier)
	if errors.Is(err, redis.Nil) {
		return zero, false, nil
	}
	if err != nil {
		return zero, false, fmt.Errorf("result store get: %w", err)
	}

	var v V
	if err := json.Unmarshal(raw, &v); err != nil {
		return zero, false, fmt.Errorf("result store decode: %w", err)
	}
	return v, true, nil
}

// Set 写入结果
func (s *ResultStore[V]) Set(ctx context.Context, key string, value V, ttl time.Duration) error {
	if s.client.config.TTL > 0 {
		ttl = s.client.config.TTL
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("result store encode: %w", err)
	}
	err = s.exec.Execute(ctx, "redis.result.set", func(ctx context.Context) error {
		return s.client.Set(ctx, s.storeKey(key), raw, ttl)
	}, resilience.RedisClassifier)
	if err != nil {
		return fmt.Errorf("result store set: %w", err)
	}
	return nil
}
