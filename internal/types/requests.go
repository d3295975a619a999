package types

import (
	"github.com/Subasree2717/agropredictor/internal/inference"
	"github.com/Subasree2717/agropredictor/internal/models"
	"github.com/Subasree2717/agropredictor/internal/repository"
)

// WeatherRequest represents the request body for POST /weather
type WeatherRequest struct {
	City string `json:"city"`
}

// ChatRequest represents the request body for POST /chat
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse is the assistant's answer
type ChatResponse struct {
	Response string `json:"response"`
}

// ForecastResponse wraps the 7 daily steps
type ForecastResponse struct {
	Forecast []inference.ForecastStep `json:"forecast"`
}

// PredictionHistoryResponse lists stored recommendations
type PredictionHistoryResponse struct {
	Predictions []models.Prediction `json:"predictions"`
}

// ChatHistoryResponse lists stored chat exchanges
type ChatHistoryResponse struct {
	Chats []models.ChatMessage `json:"chats"`
}

// ForecastHistoryResponse lists recorded forecast runs
type ForecastHistoryResponse struct {
	Forecasts []repository.ForecastRun `json:"forecasts"`
}
