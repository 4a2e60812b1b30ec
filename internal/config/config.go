// Package config loads the rescache CLI configuration from a file and
// RESCACHE_* environment variables and builds the pieces it describes.
package config

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const EnvPrefix = "RESCACHE"

// Backend names accepted in store.backend.
const (
	BackendMemory    = "memory"
	BackendRedis     = "redis"
	BackendRistretto = "ristretto"
	BackendBigCache  = "bigcache"
	BackendSturdyc   = "sturdyc"
)

type Config struct {
	Remote RemoteConfig `mapstructure:"remote"`
	Cache  CacheConfig  `mapstructure:"cache"`
	Store  StoreConfig  `mapstructure:"store"`
	Log    LogConfig    `mapstructure:"log"`
}

// RemoteConfig describes the HTTP resource API.
type RemoteConfig struct {
	BaseURL string            `mapstructure:"base_url"`
	Timeout time.Duration     `mapstructure:"timeout"`
	Headers map[string]string `mapstructure:"headers"`
}

// CacheConfig mirrors rescache.Options.
type CacheConfig struct {
	Enabled               bool          `mapstructure:"enabled"`
	CacheCollections      bool          `mapstructure:"cache_collections"`
	CollectionSynchronize bool          `mapstructure:"collection_synchronize"`
	CollectionArguments   []string      `mapstructure:"collection_arguments"`
	TTL                   time.Duration `mapstructure:"ttl"`
	TTLRandomization      bool          `mapstructure:"ttl_randomization"`
	TTLScaleMin           float64       `mapstructure:"ttl_scale_min"`
	TTLScaleMax           float64       `mapstructure:"ttl_scale_max"`
	RaceConditionTTL      time.Duration `mapstructure:"race_condition_ttl"`
	Codec                 string        `mapstructure:"codec"`
}

type StoreConfig struct {
	Backend   string          `mapstructure:"backend"`
	Memory    MemoryConfig    `mapstructure:"memory"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Ristretto RistrettoConfig `mapstructure:"ristretto"`
	BigCache  BigCacheConfig  `mapstructure:"bigcache"`
	Sturdyc   SturdycConfig   `mapstructure:"sturdyc"`
}

type MemoryConfig struct {
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

type RedisConfig struct {
	Addr      string `mapstructure:"addr"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

type RistrettoConfig struct {
	NumCounters int64 `mapstructure:"num_counters"`
	MaxCostMB   int64 `mapstructure:"max_cost_mb"`
	BufferItems int64 `mapstructure:"buffer_items"`
}

type BigCacheConfig struct {
	LifeWindow         time.Duration `mapstructure:"life_window"`
	MaxEntriesInWindow int           `mapstructure:"max_entries_in_window"`
	HardMaxCacheSizeMB int           `mapstructure:"hard_max_cache_size_mb"`
}

type SturdycConfig struct {
	Capacity  int           `mapstructure:"capacity"`
	NumShards int           `mapstructure:"num_shards"`
	TTL       time.Duration `mapstructure:"ttl"`
}

// LogConfig selects the logging backend: logrus, zap or slog.
type LogConfig struct {
	Backend string `mapstructure:"backend"`
	Level   string `mapstructure:"level"`
	Format  string `mapstructure:"format"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("remote.base_url", "")
	v.SetDefault("remote.timeout", 10*time.Second)

	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.cache_collections", true)
	v.SetDefault("cache.collection_synchronize", false)
	v.SetDefault("cache.collection_arguments", []string{"all"})
	v.SetDefault("cache.ttl", 7*24*time.Hour)
	v.SetDefault("cache.ttl_randomization", false)
	v.SetDefault("cache.ttl_scale_min", 0.5)
	v.SetDefault("cache.ttl_scale_max", 1.5)
	v.SetDefault("cache.race_condition_ttl", 24*time.Hour)
	v.SetDefault("cache.codec", "json")

	v.SetDefault("store.backend", BackendMemory)
	v.SetDefault("store.memory.cleanup_interval", time.Minute)
	v.SetDefault("store.redis.addr", "localhost:6379")
	v.SetDefault("store.redis.password", "")
	v.SetDefault("store.redis.db", 0)
	v.SetDefault("store.redis.key_prefix", "rescache:")
	v.SetDefault("store.ristretto.num_counters", 1_000_000)
	v.SetDefault("store.ristretto.max_cost_mb", 64)
	v.SetDefault("store.ristretto.buffer_items", 64)
	v.SetDefault("store.bigcache.life_window", 8*24*time.Hour)
	v.SetDefault("store.bigcache.max_entries_in_window", 10_000)
	v.SetDefault("store.bigcache.hard_max_cache_size_mb", 0)
	v.SetDefault("store.sturdyc.capacity", 10_000)
	v.SetDefault("store.sturdyc.num_shards", 64)
	v.SetDefault("store.sturdyc.ttl", 8*24*time.Hour)

	v.SetDefault("log.backend", "slog")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// Load reads path (any format viper understands; "" skips the file) and
// overlays RESCACHE_* variables, e.g. RESCACHE_STORE_BACKEND=redis.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "read config %s", path)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return &cfg, nil
}

func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Remote),
		validation.Field(&c.Cache),
		validation.Field(&c.Store),
		validation.Field(&c.Log),
	)
}

func (r RemoteConfig) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.BaseURL, is.URL),
		validation.Field(&r.Timeout, validation.Min(time.Duration(0))),
	)
}

func (c CacheConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.CollectionArguments, validation.Required),
		validation.Field(&c.Codec, validation.In("json", "msgpack", "cbor")),
		validation.Field(&c.TTLScaleMin, validation.Min(0.0)),
		validation.Field(&c.TTLScaleMax, validation.Min(c.TTLScaleMin)),
	)
}

func (s StoreConfig) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Backend, validation.Required,
			validation.In(BackendMemory, BackendRedis, BackendRistretto, BackendBigCache, BackendSturdyc)),
		validation.Field(&s.Redis, validation.Skip.When(s.Backend != BackendRedis)),
	)
}

func (r RedisConfig) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Addr, validation.Required),
		validation.Field(&r.DB, validation.Min(0)),
	)
}

func (l LogConfig) Validate() error {
	return validation.ValidateStruct(&l,
		validation.Field(&l.Backend, validation.In("logrus", "zap", "slog")),
		validation.Field(&l.Level, validation.In("debug", "info", "warn", "error")),
		validation.Field(&l.Format, validation.In("text", "json")),
	)
}
