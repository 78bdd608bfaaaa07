// Package config 提供配置加载和管理功能
package config

import (
	"time"
)

// Config 应用配置根结构
type Config struct {
	App           AppConfig           `yaml:"app" mapstructure:"app"`
	Server        ServerConfig        `yaml:"server" mapstructure:"server"`
	Cache         CacheConfig         `yaml:"cache" mapstructure:"cache"`
	Humanizer     HumanizerConfig     `yaml:"humanizer" mapstructure:"humanizer"`
	Scheduler     SchedulerConfig     `yaml:"scheduler" mapstructure:"scheduler"`
	Detection     DetectionConfig     `yaml:"detection" mapstructure:"detection"`
	Messaging     MessagingConfig     `yaml:"messaging" mapstructure:"messaging"`
	Observability ObservabilityConfig `yaml:"observability" mapstructure:"observability"`
	Security      SecurityConfig      `yaml:"security" mapstructure:"security"`
	Resilience    ResilienceConfig    `yaml:"resilience" mapstructure:"resilience"`
}

// AppConfig 应用基础配置
type AppConfig struct {
	Name    string `yaml:"name" mapstructure:"name"`
	Version string `yaml:"version" mapstructure:"version"`
	Env     string `yaml:"env" mapstructure:"env"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	HTTP HTTPServerConfig `yaml:"http" mapstructure:"http"`
}

// HTTPServerConfig HTTP 服务器配置
type HTTPServerConfig struct {
	Host         string        `yaml:"host" mapstructure:"host"`
	Port         int           `yaml:"port" mapstructure:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" mapstructure:"idle_timeout"`
	MaxBodyBytes int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	MaxBatchSize int           `yaml:"max_batch_size" mapstructure:"max_batch_size"`
}

// CacheConfig 缓存配置
type CacheConfig struct {
	Memory MemoryCacheConfig `yaml:"memory" mapstructure:"memory"`
	Redis  RedisConfig       `yaml:"redis" mapstructure:"redis"`
}

// MemoryCacheConfig 进程内结果缓存
type MemoryCacheConfig struct {
	TTL            time.Duration `yaml:"ttl" mapstructure:"ttl"`
	MaxSize        int           `yaml:"max_size" mapstructure:"max_size"`
	KeyPrefixRunes int           `yaml:"key_prefix_runes" mapstructure:"key_prefix_runes"`
}

// RedisConfig Redis 配置；Enabled 为 false 时结果缓存仅在进程内，限流退回本地令牌桶，异步任务不可用
type RedisConfig struct {
	Enabled      bool          `yaml:"enabled" mapstructure:"enabled"`
	Host         string        `yaml:"host" mapstructure:"host"`
	Port         int           `yaml:"port" mapstructure:"port"`
	Password     string        `yaml:"password" mapstructure:"password"`
	DB           int           `yaml:"db" mapstructure:"db"`
	PoolSize     int           `yaml:"pool_size" mapstructure:"pool_size"`
	MinIdleConns int           `yaml:"min_idle_conns" mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `yaml:"dial_timeout" mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
	TTL          time.Duration `yaml:"ttl" mapstructure:"ttl"`
	KeyPrefix    string        `yaml:"key_prefix" mapstructure:"key_prefix"`
}

// HumanizerConfig 改写流水线配置
type HumanizerConfig struct {
	// DefaultSeed 非 0 时固定随机种子
	DefaultSeed uint64 `yaml:"default_seed" mapstructure:"default_seed"`
	// RulesFile 规则表覆盖文件，为空使用内置规则
	RulesFile string `yaml:"rules_file" mapstructure:"rules_file"`
}

// SchedulerConfig 批量与队列调度配置
type SchedulerConfig struct {
	BatchSize    int           `yaml:"batch_size" mapstructure:"batch_size"`
	Debounce     time.Duration `yaml:"debounce" mapstructure:"debounce"`
	BatchTimeout time.Duration `yaml:"batch_timeout" mapstructure:"batch_timeout"`
	QueueTimeout time.Duration `yaml:"queue_timeout" mapstructure:"queue_timeout"`
}

// DetectionConfig 检测阈值覆盖，0 值使用默认
type DetectionConfig struct {
	HighRisk                   float64 `yaml:"high_risk" mapstructure:"high_risk"`
	MediumRisk                 float64 `yaml:"medium_risk" mapstructure:"medium_risk"`
	PatternMatchPoints         float64 `yaml:"pattern_match_points" mapstructure:"pattern_match_points"`
	FormalDensity              float64 `yaml:"formal_density" mapstructure:"formal_density"`
	HumanSignatureMin          int     `yaml:"human_signature_min" mapstructure:"human_signature_min"`
	HumanSignatureMinSentences int     `yaml:"human_signature_min_sentences" mapstructure:"human_signature_min_sentences"`
	NGramSize                  int     `yaml:"ngram_size" mapstructure:"ngram_size"`
}

// MessagingConfig 消息队列配置
type MessagingConfig struct {
	RedisStream RedisStreamConfig `yaml:"redis_stream" mapstructure:"redis_stream"`
	Jobs        JobsConfig        `yaml:"jobs" mapstructure:"jobs"`
}

// RedisStreamConfig Redis Stream 配置
type RedisStreamConfig struct {
	MaxLen              int           `yaml:"max_len" mapstructure:"max_len"`
	ConsumerGroupPrefix string        `yaml:"consumer_group_prefix" mapstructure:"consumer_group_prefix"`
	BlockTimeout        time.Duration `yaml:"block_timeout" mapstructure:"block_timeout"`
	ClaimInterval       time.Duration `yaml:"claim_interval" mapstructure:"claim_interval"`
	RetryLimit          int           `yaml:"retry_limit" mapstructure:"retry_limit"`
	RetryBackoff        BackoffConfig `yaml:"retry_backoff" mapstructure:"retry_backoff"`
}

// BackoffConfig 退避配置
type BackoffConfig struct {
	Initial    time.Duration `yaml:"initial" mapstructure:"initial"`
	Max        time.Duration `yaml:"max" mapstructure:"max"`
	Multiplier float64       `yaml:"multiplier" mapstructure:"multiplier"`
}

// JobsConfig 异步任务配置
type JobsConfig struct {
	Stream       string        `yaml:"stream" mapstructure:"stream"`
	Group        string        `yaml:"group" mapstructure:"group"`
	ResultTTL    time.Duration `yaml:"result_ttl" mapstructure:"result_ttl"`
	Workers      int           `yaml:"workers" mapstructure:"workers"`
	ProcessLimit time.Duration `yaml:"process_limit" mapstructure:"process_limit"`
}

// ObservabilityConfig 可观测性配置
type ObservabilityConfig struct {
	Logging LoggingConfig `yaml:"logging" mapstructure:"logging"`
	Tracing TracingConfig `yaml:"tracing" mapstructure:"tracing"`
	Metrics MetricsConfig `yaml:"metrics" mapstructure:"metrics"`
}

// LoggingConfig 日志配置
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// TracingConfig 追踪配置
type TracingConfig struct {
	Enabled    bool    `yaml:"enabled" mapstructure:"enabled"`
	Endpoint   string  `yaml:"endpoint" mapstructure:"endpoint"`
	SampleRate float64 `yaml:"sample_rate" mapstructure:"sample_rate"`
}

// MetricsConfig 指标配置
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Path    string `yaml:"path" mapstructure:"path"`
}

// SecurityConfig 安全配置
type SecurityConfig struct {
	RateLimit RateLimitConfig `yaml:"rate_limit" mapstructure:"rate_limit"`
	CORS      CORSConfig      `yaml:"cors" mapstructure:"cors"`
}

// RateLimitConfig 限流配置
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled" mapstructure:"enabled"`
	RequestsPerSecond int  `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int  `yaml:"burst" mapstructure:"burst"`
}

// CORSConfig CORS 配置
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
	AllowedMethods []string `yaml:"allowed_methods" mapstructure:"allowed_methods"`
	AllowedHeaders []string `yaml:"allowed_headers" mapstructure:"allowed_headers"`
}

// ResilienceConfig Redis 调用的重试与熔断配置
type ResilienceConfig struct {
	RetryMaxAttempts    int           `yaml:"retry_max_attempts" mapstructure:"retry_max_attempts"`
	RetryInitialBackoff time.Duration `yaml:"retry_initial_backoff" mapstructure:"retry_initial_backoff"`
	RetryMaxBackoff     time.Duration `yaml:"retry_max_backoff" mapstructure:"retry_max_backoff"`
	BreakerEnabled      bool          `yaml:"breaker_enabled" mapstructure:"breaker_enabled"`
	BreakerMinRequests  uint32        `yaml:"breaker_min_requests" mapstructure:"breaker_min_requests"`
	BreakerFailureRatio float64       `yaml:"breaker_failure_ratio" mapstructure:"breaker_failure_ratio"`
	BreakerOpenTimeout  time.Duration `yaml:"breaker_open_timeout" mapstructure:"breaker_open_timeout"`
}
