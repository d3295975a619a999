package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/Subasree2717/agropredictor/internal/inference"
	"github.com/Subasree2717/agropredictor/internal/models"
	"github.com/Subasree2717/agropredictor/internal/repository"
	"github.com/Subasree2717/agropredictor/internal/weather"
)

// MockHistoryStore is a mock implementation of repository.HistoryStore
type MockHistoryStore struct {
	mock.Mock
}

func (m *MockHistoryStore) SavePrediction(ctx context.Context, p *models.Prediction) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockHistoryStore) ListPredictions(ctx context.Context, filter models.HistoryFilter) ([]models.Prediction, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Prediction), args.Error(1)
}

func (m *MockHistoryStore) SaveChat(ctx context.Context, msg *models.ChatMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MockHistoryStore) ListChats(ctx context.Context, filter models.HistoryFilter) ([]models.ChatMessage, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ChatMessage), args.Error(1)
}

// MockForecastRecorder is a mock implementation of repository.ForecastRecorder
type MockForecastRecorder struct {
	mock.Mock
}

func (m *MockForecastRecorder) RecordForecast(ctx context.Context, requestID string, obs inference.Observation, steps []inference.ForecastStep) error {
	args := m.Called(ctx, requestID, obs, steps)
	return args.Error(0)
}

func (m *MockForecastRecorder) RecentRuns(ctx context.Context, filter models.HistoryFilter) ([]repository.ForecastRun, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.ForecastRun), args.Error(1)
}

// MockTextGenerator is a mock implementation of service.TextGenerator
type MockTextGenerator struct {
	mock.Mock
}

func (m *MockTextGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

// MockWeatherProvider is a mock implementation of weather.Provider
type MockWeatherProvider struct {
	mock.Mock
}

func (m *MockWeatherProvider) Current(ctx context.Context, city string) (*weather.Conditions, error) {
	args := m.Called(ctx, city)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*weather.Conditions), args.Error(1)
}

// MockChatService is a mock implementation of service.IChatService
type MockChatService struct {
	mock.Mock
}

func (m *MockChatService) Reply(ctx context.Context, message string) (*models.ChatMessage, error) {
	args := m.Called(ctx, message)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ChatMessage), args.Error(1)
}

func (m *MockChatService) History(ctx context.Context, filter models.HistoryFilter) ([]models.ChatMessage, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ChatMessage), args.Error(1)
}
