package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Subasree2717/agropredictor/internal/types"
	"github.com/Subasree2717/agropredictor/internal/weather"
)

// WeatherHandler handles current weather lookups
type WeatherHandler struct {
	provider weather.Provider
}

func NewWeatherHandler(provider weather.Provider) *WeatherHandler {
	return &WeatherHandler{provider: provider}
}

// GetWeather reads the city from the query string
func (h *WeatherHandler) GetWeather(c *gin.Context) {
	h.lookup(c, c.Query("city"))
}

// PostWeather reads the city from a JSON body
func (h *WeatherHandler) PostWeather(c *gin.Context) {
	var req types.WeatherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, "City parameter is required")
		return
	}
	h.lookup(c, req.City)
}

func (h *WeatherHandler) lookup(c *gin.Context, city string) {
	city = strings.TrimSpace(city)
	if city == "" {
		errorJSON(c, http.StatusBadRequest, "City parameter is required")
		return
	}

	cond, err := h.provider.Current(c.Request.Context(), city)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, cond)
	case errors.Is(err, weather.ErrCityNotFound):
		errorJSON(c, http.StatusNotFound, "City not found or API error")
	case errors.Is(err, weather.ErrNotConfigured):
		errorJSON(c, http.StatusServiceUnavailable, "OpenWeather API key not configured")
	default:
		_ = c.Error(err)
		errorJSON(c, http.StatusBadGateway, "weather service unavailable")
	}
}
