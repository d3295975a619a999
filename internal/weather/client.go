package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode"

	"github.com/redis/go-redis/v9"

	"github.com/Subasree2717/agropredictor/config"
)

var (
	ErrNotConfigured = errors.New("OpenWeather API key not configured")
	ErrCityNotFound  = errors.New("city not found or API error")
)

// Conditions is the current weather for a city
type Conditions struct {
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	Description string  `json:"description"`
}

// Provider looks up current conditions
type Provider interface {
	Current(ctx context.Context, city string) (*Conditions, error)
}

// Client calls the OpenWeather current-weather endpoint. Results are cached
// in Redis when a cache is supplied.
type Client struct {
	apiKey string
	apiURL string
	client *http.Client
	cache  redis.Cmdable
	ttl    time.Duration
}

// NewClient builds a client from configuration. cache may be nil.
func NewClient(cfg *config.Config, cache redis.Cmdable) *Client {
	return &Client{
		apiKey: cfg.OpenWeatherAPIKey,
		apiURL: cfg.OpenWeatherURL,
		client: &http.Client{Timeout: 10 * time.Second},
		cache:  cache,
		ttl:    cfg.WeatherCacheTTL,
	}
}

// openWeatherResponse holds the fields we read from the API
type openWeatherResponse struct {
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity float64 `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
}

func cacheKey(city string) string {
	return "weather:current:" + strings.ToLower(strings.TrimSpace(city))
}

// Current returns temperature in Celsius, humidity percent and a
// capitalized description for city
func (c *Client) Current(ctx context.Context, city string) (*Conditions, error) {
	if c.apiKey == "" {
		return nil, ErrNotConfigured
	}

	if cached, ok := c.fromCache(ctx, city); ok {
		return cached, nil
	}

	q := url.Values{}
	q.Set("q", city)
	q.Set("appid", c.apiKey)
	q.Set("units", "metric")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("[Weather] OpenWeather returned status %d for %q", resp.StatusCode, city)
		return nil, ErrCityNotFound
	}

	var body openWeatherResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	out := &Conditions{
		Temperature: body.Main.Temp,
		Humidity:    body.Main.Humidity,
	}
	if len(body.Weather) > 0 {
		out.Description = capitalize(body.Weather[0].Description)
	}

	c.toCache(ctx, city, out)
	return out, nil
}

func (c *Client) fromCache(ctx context.Context, city string) (*Conditions, bool) {
	if c.cache == nil {
		return nil, false
	}
	data, err := c.cache.Get(ctx, cacheKey(city)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("[Weather] Cache read failed: %v", err)
		}
		return nil, false
	}
	var out Conditions
	if err := json.Unmarshal(data, &out); err != nil {
		log.Printf("[Weather] Discarding unreadable cache entry for %q: %v", city, err)
		return nil, false
	}
	return &out, true
}

func (c *Client) toCache(ctx context.Context, city string, cond *Conditions) {
	if c.cache == nil || c.ttl <= 0 {
		return
	}
	data, err := json.Marshal(cond)
	if err != nil {
		return
	}
	if err := c.cache.Set(ctx, cacheKey(city), data, c.ttl).Err(); err != nil {
		log.Printf("[Weather] Cache write failed: %v", err)
	}
}

// capitalize upper-cases the first letter and lower-cases the rest
func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(strings.ToLower(s))
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
