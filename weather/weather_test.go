package weather

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/buildops/go-portfolio-cache/cache"
)

type fakeWeatherSource struct {
	mu       sync.Mutex
	current  map[Coordinates]Current
	forecast map[Coordinates]Forecast
	fail     error
	calls    int
}

func (f *fakeWeatherSource) FetchCurrent(ctx context.Context, at Coordinates) (Current, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.fail != nil {
		return Current{}, f.fail
	}
	return f.current[at], nil
}

func (f *fakeWeatherSource) FetchForecast(ctx context.Context, at Coordinates) (Forecast, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.fail != nil {
		return Forecast{}, f.fail
	}
	return f.forecast[at], nil
}

func newWeatherFixture(t *testing.T) (*fakeWeatherSource, *Cache, func(time.Duration)) {
	t.Helper()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}
	advance := func(d time.Duration) {
		mu.Lock()
		now = now.Add(d)
		mu.Unlock()
	}

	store, err := cache.NewStore(cache.Config{TTL: 10 * time.Minute, Clock: clock})
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	src := &fakeWeatherSource{
		current:  make(map[Coordinates]Current),
		forecast: make(map[Coordinates]Forecast),
	}
	return src, NewCache(src, store), advance
}

func TestCache_CurrentReadThrough(t *testing.T) {
	src, wc, _ := newWeatherFixture(t)
	site := Coordinates{Lat: -41.2866, Lon: 174.7756}
	src.current[site] = Current{TempC: 11.5, Condition: "southerly"}
	ctx := context.Background()

	first, err := wc.Current(ctx, site, false)
	if err != nil {
		t.Fatalf("expected no error but got: %v", err)
	}
	second, err := wc.Current(ctx, site, false)
	if err != nil {
		t.Fatalf("expected no error but got: %v", err)
	}
	if first != second {
		t.Errorf("expected identical readings, got %+v vs %+v", first, second)
	}
	if src.calls != 1 {
		t.Errorf("expected exactly one upstream call, got %d", src.calls)
	}
}

func TestCache_KeysIsolatedByCoordinatesAndKind(t *testing.T) {
	src, wc, _ := newWeatherFixture(t)
	wellington := Coordinates{Lat: -41.2866, Lon: 174.7756}
	auckland := Coordinates{Lat: -36.8485, Lon: 174.7633}
	src.current[wellington] = Current{TempC: 11}
	src.current[auckland] = Current{TempC: 18}
	src.forecast[wellington] = Forecast{Days: []ForecastDay{{Condition: "rain"}}}
	ctx := context.Background()

	w, _ := wc.Current(ctx, wellington, false)
	a, _ := wc.Current(ctx, auckland, false)
	if w.TempC == a.TempC {
		t.Error("expected different locations to cache independently")
	}

	f, err := wc.Forecast(ctx, wellington, false)
	if err != nil {
		t.Fatalf("expected no error but got: %v", err)
	}
	if len(f.Days) != 1 {
		t.Errorf("expected forecast entry to be distinct from current, got %+v", f)
	}
}

func TestCache_StaleFallbackOnFailure(t *testing.T) {
	src, wc, advance := newWeatherFixture(t)
	site := Coordinates{Lat: -41.2866, Lon: 174.7756}
	src.current[site] = Current{TempC: 11.5}
	ctx := context.Background()

	if _, err := wc.Current(ctx, site, false); err != nil {
		t.Fatalf("expected no error but got: %v", err)
	}

	advance(11 * time.Minute)
	upstream := errors.New("provider down")
	src.mu.Lock()
	src.fail = upstream
	src.mu.Unlock()

	got, err := wc.Current(ctx, site, false)
	if !errors.Is(err, upstream) {
		t.Fatalf("expected upstream error, got: %v", err)
	}
	if got.TempC != 11.5 {
		t.Errorf("expected stale reading alongside the error, got %+v", got)
	}
}
