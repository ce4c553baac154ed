// Package snapcache adapts sturdyc into the snapshot service backing the
// enumeration caches. Each entry is one immutable full-class snapshot, so a
// replacement is always observed wholesale and in-flight loads for the same
// class are deduplicated by the client.
package snapcache

import (
	"context"
	"reflect"
	"time"

	"github.com/viccon/sturdyc"
)

// Config holds the settings for the snapshot service.
type Config struct {
	// Capacity is the maximum number of snapshots held at once, i.e. the
	// number of enumeration classes the process works with. Must be > 0.
	Capacity int

	// NumShards controls lock sharding inside sturdyc. Enumeration workloads
	// touch few distinct keys, so this stays small. Must be > 0.
	NumShards int

	// TTL bounds how long a snapshot is served before the next read refetches
	// it from the store. Reference data changes rarely; the default is long
	// and explicit Reload is the primary invalidation path.
	TTL time.Duration

	// EvictionPercentage is the share of entries evicted when the cache is
	// full, between 1 and 100.
	EvictionPercentage int

	// RefreshAhead, when set, refreshes hot snapshots in the background
	// before the TTL lapses so readers never block on a refetch.
	RefreshAhead *RefreshAheadConfig

	// EvictionInterval overrides how often expired snapshots are collected.
	// Zero keeps the sturdyc default.
	EvictionInterval time.Duration
}

// RefreshAheadConfig mirrors the sturdyc early-refresh options.
type RefreshAheadConfig struct {
	MinAsyncRefreshTime time.Duration
	MaxAsyncRefreshTime time.Duration
	SyncRefreshTime     time.Duration
	RetryBaseDelay      time.Duration
}

// DefaultConfig returns settings sized for read-mostly reference tables.
func DefaultConfig() Config {
	return Config{
		Capacity:           64,
		NumShards:          16,
		TTL:                12 * time.Hour,
		EvictionPercentage: 10,
	}
}

// Validate checks the configuration values.
func (c Config) Validate() error {
	if c.Capacity <= 0 {
		return &ConfigError{Field: "Capacity", Message: "must be greater than 0"}
	}
	if c.NumShards <= 0 {
		return &ConfigError{Field: "NumShards", Message: "must be greater than 0"}
	}
	if c.TTL <= 0 {
		return &ConfigError{Field: "TTL", Message: "must be greater than 0"}
	}
	if c.EvictionPercentage < 1 || c.EvictionPercentage > 100 {
		return &ConfigError{Field: "EvictionPercentage", Message: "must be between 1 and 100"}
	}
	if r := c.RefreshAhead; r != nil {
		if r.MinAsyncRefreshTime < 0 {
			return &ConfigError{Field: "RefreshAhead.MinAsyncRefreshTime", Message: "must be non-negative"}
		}
		if r.MaxAsyncRefreshTime < 0 {
			return &ConfigError{Field: "RefreshAhead.MaxAsyncRefreshTime", Message: "must be non-negative"}
		}
		if r.SyncRefreshTime < 0 {
			return &ConfigError{Field: "RefreshAhead.SyncRefreshTime", Message: "must be non-negative"}
		}
		if r.RetryBaseDelay < 0 {
			return &ConfigError{Field: "RefreshAhead.RetryBaseDelay", Message: "must be non-negative"}
		}
	}
	return nil
}

// toOptions maps the optional settings onto sturdyc options. Capacity,
// NumShards, TTL and EvictionPercentage go to the constructor directly.
func (c Config) toOptions() []sturdyc.Option {
	var options []sturdyc.Option
	if r := c.RefreshAhead; r != nil {
		options = append(options, sturdyc.WithEarlyRefreshes(
			r.MinAsyncRefreshTime,
			r.MaxAsyncRefreshTime,
			r.SyncRefreshTime,
			r.RetryBaseDelay,
		))
	}
	if c.EvictionInterval > 0 {
		options = append(options, sturdyc.WithEvictionInterval(c.EvictionInterval))
	}
	return options
}

// ConfigError reports an invalid configuration field.
type ConfigError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "snapcache: invalid " + e.Field + ": " + e.Message
}

// Service wraps a sturdyc client holding class snapshots.
type Service struct {
	client *sturdyc.Client[any]
}

// NewService validates the configuration and builds the snapshot service.
func NewService(cfg Config) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	client := sturdyc.New[any](
		cfg.Capacity,
		cfg.NumShards,
		cfg.TTL,
		cfg.EvictionPercentage,
		cfg.toOptions()...,
	)
	return &Service{client: client}, nil
}

// GetOrFetch returns the snapshot stored under key, loading it through
// fetchFn when absent or expired. fetchFn must have the shape
// func(context.Context) (T, error); the shape is checked up front so a
// mis-wired caller fails with a clear error instead of a sturdyc type error.
func (s *Service) GetOrFetch(ctx context.Context, key string, fetchFn any) (any, error) {
	if err := checkFetchFn(fetchFn); err != nil {
		return nil, err
	}
	return s.client.GetOrFetch(ctx, key, func(ctx context.Context) (any, error) {
		return callFetchFn(ctx, fetchFn)
	})
}

// Delete drops the snapshot stored under key so the next read refetches.
func (s *Service) Delete(ctx context.Context, key string) error {
	s.client.Delete(key)
	return nil
}

func checkFetchFn(fetchFn any) error {
	if fetchFn == nil {
		return &ConfigError{Field: "fetchFn", Message: "cannot be nil"}
	}
	t := reflect.TypeOf(fetchFn)
	if t.Kind() != reflect.Func || t.NumIn() != 1 || t.NumOut() != 2 {
		return &ConfigError{Field: "fetchFn", Message: "must have signature func(context.Context) (T, error)"}
	}
	ctxType := reflect.TypeOf((*context.Context)(nil)).Elem()
	if !t.In(0).Implements(ctxType) {
		return &ConfigError{Field: "fetchFn", Message: "first parameter must be context.Context"}
	}
	errType := reflect.TypeOf((*error)(nil)).Elem()
	if !t.Out(1).Implements(errType) {
		return &ConfigError{Field: "fetchFn", Message: "second return value must be error"}
	}
	return nil
}

// callFetchFn invokes a pre-validated fetch function, erasing its result
// type. The direct assertion covers the common non-generic shape.
func callFetchFn(ctx context.Context, fetchFn any) (any, error) {
	if fn, ok := fetchFn.(func(context.Context) (any, error)); ok {
		return fn(ctx)
	}

	results := reflect.ValueOf(fetchFn).Call([]reflect.Value{reflect.ValueOf(ctx)})

	var result any
	if rv := results[0]; rv.IsValid() && rv.CanInterface() {
		result = rv.Interface()
	}
	var err error
	if ev := results[1]; ev.IsValid() && !ev.IsNil() {
		err = ev.Interface().(error)
	}
	return result, err
}
