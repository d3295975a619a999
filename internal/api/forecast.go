package api

import (
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Subasree2717/agropredictor/internal/middleware"
	"github.com/Subasree2717/agropredictor/internal/models"
	"github.com/Subasree2717/agropredictor/internal/service"
	"github.com/Subasree2717/agropredictor/internal/types"
)

// ForecastHandler handles 7-day temperature forecasts
type ForecastHandler struct {
	svc service.IForecastService
}

func NewForecastHandler(svc service.IForecastService) *ForecastHandler {
	return &ForecastHandler{svc: svc}
}

func parseQueryFloat(c *gin.Context, key string) (float64, bool) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// Forecast reads temperature and humidity from the query string
func (h *ForecastHandler) Forecast(c *gin.Context) {
	temperature, ok := parseQueryFloat(c, "temperature")
	if !ok {
		errorJSON(c, http.StatusBadRequest, "Invalid or missing temperature/humidity")
		return
	}
	humidity, ok := parseQueryFloat(c, "humidity")
	if !ok {
		errorJSON(c, http.StatusBadRequest, "Invalid or missing temperature/humidity")
		return
	}

	steps, err := h.svc.Forecast(c.Request.Context(), middleware.GetRequestID(c), temperature, humidity)
	if err != nil {
		_ = c.Error(err)
		errorJSON(c, statusForInference(err), err.Error())
		return
	}

	c.JSON(http.StatusOK, types.ForecastResponse{Forecast: steps})
}

// History lists recorded forecast runs
func (h *ForecastHandler) History(c *gin.Context) {
	var filter models.HistoryFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		errorJSON(c, http.StatusBadRequest, err.Error())
		return
	}

	runs, err := h.svc.History(c.Request.Context(), filter)
	if err != nil {
		_ = c.Error(err)
		errorJSON(c, http.StatusInternalServerError, "failed to load forecast history")
		return
	}
	c.JSON(http.StatusOK, types.ForecastHistoryResponse{Forecasts: runs})
}
