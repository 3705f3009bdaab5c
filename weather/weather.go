// Package weather is the second, smaller instance of the TTL-cache pattern:
// the same read-through shape as the portfolio loaders, but scoped by
// geographic coordinates instead of project ID and with a two-entry key
// space (current conditions and forecast) per location.
package weather

import (
	"context"
	"strconv"
	"time"

	"github.com/buildops/go-portfolio-cache/cache"
)

// Coordinates identifies a location. Values are rounded to four decimal
// places when building keys, so nearby readings within ~11m share an entry.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Current is the present-conditions reading for a location.
type Current struct {
	TempC      float64   `json:"tempC"`
	WindKph    float64   `json:"windKph"`
	Condition  string    `json:"condition"`
	ObservedAt time.Time `json:"observedAt"`
}

// ForecastDay is one day of the forecast.
type ForecastDay struct {
	Date      time.Time `json:"date"`
	MinC      float64   `json:"minC"`
	MaxC      float64   `json:"maxC"`
	Condition string    `json:"condition"`
}

// Forecast is the multi-day outlook for a location.
type Forecast struct {
	Days []ForecastDay `json:"days"`
}

// Source supplies weather readings from the upstream provider.
type Source interface {
	FetchCurrent(ctx context.Context, at Coordinates) (Current, error)
	FetchForecast(ctx context.Context, at Coordinates) (Forecast, error)
}

// Cache is the read-through weather cache. It shares the Store abstraction
// with the portfolio loaders and may share the store instance itself; the
// weather namespace keeps its keys disjoint from project keys.
type Cache struct {
	src   Source
	store *cache.Store
}

// NewCache wires a weather cache onto the provided store.
func NewCache(src Source, store *cache.Store) *Cache {
	return &Cache{src: src, store: store}
}

// Current returns present conditions for the location, fetching on a miss.
// On failure any previous reading is returned alongside the error.
func (c *Cache) Current(ctx context.Context, at Coordinates, force bool) (Current, error) {
	return cache.GetOrFetch(ctx, c.store, currentKey(at), force,
		func(ctx context.Context) (Current, error) {
			return c.src.FetchCurrent(ctx, at)
		})
}

// Forecast returns the outlook for the location, fetching on a miss. On
// failure any previous reading is returned alongside the error.
func (c *Cache) Forecast(ctx context.Context, at Coordinates, force bool) (Forecast, error) {
	return cache.GetOrFetch(ctx, c.store, forecastKey(at), force,
		func(ctx context.Context) (Forecast, error) {
			return c.src.FetchForecast(ctx, at)
		})
}

func currentKey(at Coordinates) string {
	return cache.Key("weather", "current", coordSegment(at))
}

func forecastKey(at Coordinates) string {
	return cache.Key("weather", "forecast", coordSegment(at))
}

func coordSegment(at Coordinates) string {
	return strconv.FormatFloat(at.Lat, 'f', 4, 64) + "," + strconv.FormatFloat(at.Lon, 'f', 4, 64)
}
