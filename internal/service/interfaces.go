package service

import (
	"context"

	"github.com/Subasree2717/agropredictor/internal/inference"
	"github.com/Subasree2717/agropredictor/internal/models"
	"github.com/Subasree2717/agropredictor/internal/repository"
)

// TextGenerator produces a free-text answer for a prompt
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// IPredictionService defines the crop and fertilizer recommendation operations
type IPredictionService interface {
	Predict(ctx context.Context, fields map[string]any) (*inference.Recommendation, error)
	History(ctx context.Context, filter models.HistoryFilter) ([]models.Prediction, error)
}

// IForecastService defines the 7-day temperature forecast operations
type IForecastService interface {
	Forecast(ctx context.Context, requestID string, temperature, humidity float64) ([]inference.ForecastStep, error)
	History(ctx context.Context, filter models.HistoryFilter) ([]repository.ForecastRun, error)
}

// IChatService defines the farming assistant operations
type IChatService interface {
	Reply(ctx context.Context, message string) (*models.ChatMessage, error)
	History(ctx context.Context, filter models.HistoryFilter) ([]models.ChatMessage, error)
}
