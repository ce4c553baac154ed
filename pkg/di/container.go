package di

import (
	"github.com/puzpuzpuz/xsync/v3"

	"github.com/goliatone/go-enumerated/enum"
)

// Container wires the enumeration components together. It holds one
// snapshot service shared by every cache and memoizes one cache per
// enumeration class, so all declarations referring to the same class share a
// snapshot.
type Container struct {
	service enum.SnapshotService
	config  enum.Config
	caches  *xsync.MapOf[string, any]
}

// NewContainer creates a container around the provided snapshot
// configuration.
func NewContainer(config enum.Config) (*Container, error) {
	service, err := enum.NewSnapshotService(config)
	if err != nil {
		return nil, err
	}
	return &Container{
		service: service,
		config:  config,
		caches:  xsync.NewMapOf[string, any](),
	}, nil
}

// NewContainerWithDefaults creates a container with the default snapshot
// configuration; the common path for processes that just consume reference
// data.
func NewContainerWithDefaults() (*Container, error) {
	return NewContainer(enum.DefaultConfig())
}

// SnapshotService returns the shared snapshot service instance.
func (c *Container) SnapshotService() enum.SnapshotService {
	return c.service
}

// Config returns a copy of the snapshot configuration in use.
func (c *Container) Config() enum.Config {
	return c.config
}

// NewEnumCache returns the cache for one enumeration class, creating it on
// first use. Registering the same class name with a different record type is
// a ConfigError.
//
// Go methods cannot have type parameters, so this is a package-level
// function: NewEnumCache[Country](container, "countries", store).
func NewEnumCache[T enum.Record](c *Container, name string, store enum.Store[T]) (*enum.Cache[T], error) {
	if existing, ok := c.caches.Load(name); ok {
		return typedCache[T](name, existing)
	}

	cache, err := enum.NewCache(name, store, c.service)
	if err != nil {
		return nil, err
	}
	actual, _ := c.caches.LoadOrStore(name, cache)
	return typedCache[T](name, actual)
}

func typedCache[T enum.Record](name string, v any) (*enum.Cache[T], error) {
	cache, ok := v.(*enum.Cache[T])
	if !ok {
		return nil, &enum.ConfigError{
			Option:  "class",
			Message: "already registered with a different record type: " + name,
		}
	}
	return cache, nil
}
