package config

import (
	"fmt"
	stdslog "log/slog"
	"os"

	"github.com/pkg/errors"
	goredis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/unkn0wn-root/rescache"
	"github.com/unkn0wn-root/rescache/codec"
	logruslog "github.com/unkn0wn-root/rescache/log/logrus"
	slogger "github.com/unkn0wn-root/rescache/log/slog"
	zaplog "github.com/unkn0wn-root/rescache/log/zap"
	pr "github.com/unkn0wn-root/rescache/provider"
	"github.com/unkn0wn-root/rescache/provider/bigcache"
	"github.com/unkn0wn-root/rescache/provider/memory"
	"github.com/unkn0wn-root/rescache/provider/redis"
	"github.com/unkn0wn-root/rescache/provider/ristretto"
	"github.com/unkn0wn-root/rescache/provider/sturdyc"
)

const mb = 1 << 20

// OpenProvider builds the configured byte backend.
func (s StoreConfig) OpenProvider() (pr.Provider, error) {
	switch s.Backend {
	case BackendMemory, "":
		return memory.New(memory.Config{CleanupInterval: s.Memory.CleanupInterval}), nil
	case BackendRedis:
		rdb := goredis.NewClient(&goredis.Options{
			Addr:     s.Redis.Addr,
			Password: s.Redis.Password,
			DB:       s.Redis.DB,
		})
		return redis.New(redis.Config{Client: rdb, KeyPrefix: s.Redis.KeyPrefix, CloseClient: true})
	case BackendRistretto:
		return ristretto.New(ristretto.Config{
			NumCounters: s.Ristretto.NumCounters,
			MaxCost:     s.Ristretto.MaxCostMB * mb,
			BufferItems: s.Ristretto.BufferItems,
		})
	case BackendBigCache:
		return bigcache.New(bigcache.Config{
			LifeWindow:         s.BigCache.LifeWindow,
			MaxEntriesInWindow: s.BigCache.MaxEntriesInWindow,
			HardMaxCacheSizeMB: s.BigCache.HardMaxCacheSizeMB,
		})
	case BackendSturdyc:
		return sturdyc.New(sturdyc.Config{
			Capacity:  s.Sturdyc.Capacity,
			NumShards: s.Sturdyc.NumShards,
			TTL:       s.Sturdyc.TTL,
		})
	}
	return nil, fmt.Errorf("config: unknown store backend %q", s.Backend)
}

// OpenStore wraps the configured backend in a provider.Store. Ristretto
// writes are costed by size so max_cost_mb is a memory bound.
func (s StoreConfig) OpenStore() (*pr.Store, error) {
	p, err := s.OpenProvider()
	if err != nil {
		return nil, errors.Wrapf(err, "open %s store", s.Backend)
	}
	var opts []pr.StoreOption
	if s.Backend == BackendRistretto {
		opts = append(opts, pr.WithCost(func(_ string, v []byte) int64 { return int64(len(v)) }))
	}
	return pr.NewStore(p, opts...), nil
}

// Apply copies the cache settings onto o.
func Apply[R rescache.Record](c CacheConfig, o *rescache.Options[R]) error {
	cd, err := codec.Lookup[R](c.Codec)
	if err != nil {
		return err
	}
	o.Codec = cd
	o.Disabled = !c.Enabled
	o.DisableCollectionCache = !c.CacheCollections
	o.CollectionSynchronize = c.CollectionSynchronize
	o.CollectionArgs = make(rescache.Args, len(c.CollectionArguments))
	for i, a := range c.CollectionArguments {
		o.CollectionArgs[i] = a
	}
	o.TTL = c.TTL
	if c.TTLRandomization {
		o.TTLFunc = rescache.RandomTTL(c.TTL, c.TTLScaleMin, c.TTLScaleMax)
	}
	o.RaceConditionTTL = c.RaceConditionTTL
	return nil
}

// Logger builds the configured logging backend. The returned func flushes it.
func (l LogConfig) Logger() (rescache.Logger, func(), error) {
	switch l.Backend {
	case "logrus":
		lg := logrus.New()
		lg.SetOutput(os.Stderr)
		lvl, err := logrus.ParseLevel(l.Level)
		if err != nil {
			return nil, nil, err
		}
		lg.SetLevel(lvl)
		if l.Format == "json" {
			lg.SetFormatter(&logrus.JSONFormatter{})
		}
		return logruslog.Logger{E: logrus.NewEntry(lg)}, func() {}, nil

	case "zap":
		lvl, err := zapcore.ParseLevel(l.Level)
		if err != nil {
			return nil, nil, err
		}
		zc := zap.NewProductionConfig()
		zc.Level = zap.NewAtomicLevelAt(lvl)
		zc.Encoding = "console"
		if l.Format == "json" {
			zc.Encoding = "json"
		}
		zl, err := zc.Build()
		if err != nil {
			return nil, nil, err
		}
		return zaplog.Logger{L: zl}, func() { _ = zl.Sync() }, nil

	case "slog", "":
		var lvl stdslog.Level
		if err := lvl.UnmarshalText([]byte(l.Level)); err != nil {
			return nil, nil, err
		}
		hopts := &stdslog.HandlerOptions{Level: lvl}
		var h stdslog.Handler = stdslog.NewTextHandler(os.Stderr, hopts)
		if l.Format == "json" {
			h = stdslog.NewJSONHandler(os.Stderr, hopts)
		}
		return slogger.Logger{L: stdslog.New(h)}, func() {}, nil
	}
	return nil, nil, fmt.Errorf("config: unknown log backend %q", l.Backend)
}
