package enum

import (
	"time"

	"github.com/goliatone/go-enumerated/internal/snapcache"
)

// Config exposes the snapshot-service settings to consumers of the enum
// package.
type Config struct {
	Capacity           int
	NumShards          int
	TTL                time.Duration
	EvictionPercentage int
	RefreshAhead       *RefreshAheadConfig
	EvictionInterval   time.Duration
}

// RefreshAheadConfig mirrors the underlying refresh-ahead options: hot
// snapshots are refetched in the background before their TTL lapses.
type RefreshAheadConfig struct {
	MinAsyncRefreshTime time.Duration
	MaxAsyncRefreshTime time.Duration
	SyncRefreshTime     time.Duration
	RetryBaseDelay      time.Duration
}

// DefaultConfig returns a Config sized for read-mostly reference tables.
func DefaultConfig() Config {
	return convertFromInternal(snapcache.DefaultConfig())
}

// Validate checks whether the configuration values are valid.
func (c Config) Validate() error {
	return c.toInternal().Validate()
}

// NewSnapshotService constructs the default snapshot service implementation
// using the provided configuration.
func NewSnapshotService(cfg Config) (SnapshotService, error) {
	return snapcache.NewService(cfg.toInternal())
}

func (c Config) toInternal() snapcache.Config {
	var refresh *snapcache.RefreshAheadConfig
	if c.RefreshAhead != nil {
		refresh = &snapcache.RefreshAheadConfig{
			MinAsyncRefreshTime: c.RefreshAhead.MinAsyncRefreshTime,
			MaxAsyncRefreshTime: c.RefreshAhead.MaxAsyncRefreshTime,
			SyncRefreshTime:     c.RefreshAhead.SyncRefreshTime,
			RetryBaseDelay:      c.RefreshAhead.RetryBaseDelay,
		}
	}

	return snapcache.Config{
		Capacity:           c.Capacity,
		NumShards:          c.NumShards,
		TTL:                c.TTL,
		EvictionPercentage: c.EvictionPercentage,
		RefreshAhead:       refresh,
		EvictionInterval:   c.EvictionInterval,
	}
}

func convertFromInternal(cfg snapcache.Config) Config {
	var refresh *RefreshAheadConfig
	if cfg.RefreshAhead != nil {
		refresh = &RefreshAheadConfig{
			MinAsyncRefreshTime: cfg.RefreshAhead.MinAsyncRefreshTime,
			MaxAsyncRefreshTime: cfg.RefreshAhead.MaxAsyncRefreshTime,
			SyncRefreshTime:     cfg.RefreshAhead.SyncRefreshTime,
			RetryBaseDelay:      cfg.RefreshAhead.RetryBaseDelay,
		}
	}

	return Config{
		Capacity:           cfg.Capacity,
		NumShards:          cfg.NumShards,
		TTL:                cfg.TTL,
		EvictionPercentage: cfg.EvictionPercentage,
		RefreshAhead:       refresh,
		EvictionInterval:   cfg.EvictionInterval,
	}
}
