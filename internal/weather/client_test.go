package weather

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Subasree2717/agropredictor/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, cache redis.Cmdable) *Client {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	return NewClient(&config.Config{
		OpenWeatherAPIKey: "test-key",
		OpenWeatherURL:    ts.URL,
		WeatherCacheTTL:   time.Minute,
	}, cache)
}

func TestCurrent(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Pune", r.URL.Query().Get("q"))
		assert.Equal(t, "test-key", r.URL.Query().Get("appid"))
		assert.Equal(t, "metric", r.URL.Query().Get("units"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"main":{"temp":29.4,"humidity":71},"weather":[{"description":"light RAIN"}]}`))
	}, nil)

	got, err := client.Current(context.Background(), "Pune")
	require.NoError(t, err)
	assert.Equal(t, &Conditions{Temperature: 29.4, Humidity: 71, Description: "Light rain"}, got)
}

func TestCurrentCityNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"cod":"404","message":"city not found"}`, http.StatusNotFound)
	}, nil)

	_, err := client.Current(context.Background(), "Atlantis")
	assert.ErrorIs(t, err, ErrCityNotFound)
}

func TestCurrentNotConfigured(t *testing.T) {
	client := NewClient(&config.Config{}, nil)
	_, err := client.Current(context.Background(), "Pune")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "Overcast clouds", capitalize("overcast clouds"))
	assert.Equal(t, "", capitalize(""))
	assert.Equal(t, "Éclair", capitalize("ÉCLAIR"))
}

func TestCurrentUsesRedisCache(t *testing.T) {
	// Skip this test if no Redis is available
	if os.Getenv("REDIS_HOST") == "" {
		t.Skip("Skipping Redis-dependent test - REDIS_HOST not set")
	}
	rdb := redis.NewClient(&redis.Options{Addr: os.Getenv("REDIS_HOST") + ":6379"})
	t.Cleanup(func() { _ = rdb.Close() })
	ctx := context.Background()
	require.NoError(t, rdb.Del(ctx, cacheKey("Nagpur")).Err())

	calls := 0
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		_, _ = w.Write([]byte(`{"main":{"temp":35,"humidity":20},"weather":[{"description":"clear sky"}]}`))
	}, rdb)

	first, err := client.Current(ctx, "Nagpur")
	require.NoError(t, err)
	second, err := client.Current(ctx, " nagpur ")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls)
}
