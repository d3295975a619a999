package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Subasree2717/agropredictor/internal/database"
	"github.com/Subasree2717/agropredictor/internal/service"
	"github.com/Subasree2717/agropredictor/internal/weather"
)

// Dependencies are the services behind the HTTP API. DB may be nil.
type Dependencies struct {
	Predictions service.IPredictionService
	Forecasts   service.IForecastService
	Chat        service.IChatService
	Weather     weather.Provider
	DB          *gorm.DB
}

// Home is the liveness message the frontend polls
func Home(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "AgroPredictor API is running"})
}

// HealthHandler reports API and database health
type HealthHandler struct {
	db *gorm.DB
}

func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// HealthCheck returns the health status of the API
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	resp := gin.H{
		"status":  "healthy",
		"message": "AgroPredictor API is running",
	}
	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := database.HealthCheck(ctx, h.db); err != nil {
			resp["status"] = "degraded"
			resp["database"] = "unavailable"
		} else {
			resp["database"] = "ok"
		}
	}
	c.JSON(http.StatusOK, resp)
}

// RegisterRoutes registers all API routes. limit guards the inference and
// chat endpoints and may be nil.
func RegisterRoutes(router *gin.Engine, deps Dependencies, limit gin.HandlerFunc) {
	with := func(h gin.HandlerFunc) []gin.HandlerFunc {
		if limit == nil {
			return []gin.HandlerFunc{h}
		}
		return []gin.HandlerFunc{limit, h}
	}

	router.GET("/", Home)
	router.GET("/health", NewHealthHandler(deps.DB).HealthCheck)

	predictions := NewPredictionHandler(deps.Predictions)
	router.POST("/predict", with(predictions.Predict)...)

	weatherHandler := NewWeatherHandler(deps.Weather)
	router.GET("/weather", weatherHandler.GetWeather)
	router.POST("/weather", weatherHandler.PostWeather)

	forecasts := NewForecastHandler(deps.Forecasts)
	router.GET("/forecast", with(forecasts.Forecast)...)

	chat := NewChatHandler(deps.Chat)
	router.POST("/chat", with(chat.Chat)...)

	history := router.Group("/history")
	{
		history.GET("/predictions", predictions.History)
		history.GET("/chats", chat.History)
		history.GET("/forecasts", forecasts.History)
	}
}

func errorJSON(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"error": msg})
}
