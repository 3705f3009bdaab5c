package di

import (
	"log/slog"

	"github.com/buildops/go-portfolio-cache/cache"
	"github.com/buildops/go-portfolio-cache/portfoliocache"
	"github.com/buildops/go-portfolio-cache/query"
	"github.com/buildops/go-portfolio-cache/source"
	"github.com/buildops/go-portfolio-cache/weather"
)

// Container provides dependency injection for the caching components.
// It manages the singleton cache store shared by every loader and provides
// factory methods for sessions and the weather cache.
type Container struct {
	store  *cache.Store
	engine *query.Engine
	logger *slog.Logger
	config cache.Config
}

// Option customizes the container.
type Option func(*Container)

// WithLogger sets the logger handed to every session the container builds.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Container) { c.logger = logger }
}

// WithQueryEngine overrides the query engine, for example to sort client
// names under a non-English collation.
func WithQueryEngine(engine *query.Engine) Option {
	return func(c *Container) { c.engine = engine }
}

// NewContainer creates a new DI container with the provided cache
// configuration. It initializes the shared cache store and the default
// query engine.
func NewContainer(config cache.Config, opts ...Option) (*Container, error) {
	store, err := cache.NewStore(config)
	if err != nil {
		return nil, err
	}

	c := &Container{
		store:  store,
		engine: query.NewEngine(),
		config: config,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// NewContainerWithDefaults creates a new DI container using default
// configuration. This is a convenience constructor for typical use cases
// where custom configuration is not required.
func NewContainerWithDefaults(opts ...Option) (*Container, error) {
	return NewContainer(cache.DefaultConfig(), opts...)
}

// Store returns the singleton cache store instance. This allows direct
// invalidation and inspection for advanced use cases.
func (c *Container) Store() *cache.Store {
	return c.store
}

// Config returns a copy of the cache configuration used by this container.
func (c *Container) Config() cache.Config {
	return c.config
}

// NewSession builds a portfolio session over the given collaborator, backed
// by the container's shared store, engine, and logger. Sessions built from
// the same container share cached data.
func (c *Container) NewSession(src source.Source) *portfoliocache.Session {
	opts := []portfoliocache.Option{portfoliocache.WithQueryEngine(c.engine)}
	if c.logger != nil {
		opts = append(opts, portfoliocache.WithLogger(c.logger))
	}
	return portfoliocache.NewSession(src, c.store, opts...)
}

// NewWeatherCache builds a weather cache over the given provider, backed by
// the container's shared store.
func (c *Container) NewWeatherCache(src weather.Source) *weather.Cache {
	return weather.NewCache(src, c.store)
}
