package service

import (
	"context"
	"log"

	"github.com/Subasree2717/agropredictor/internal/inference"
	"github.com/Subasree2717/agropredictor/internal/models"
	"github.com/Subasree2717/agropredictor/internal/repository"
)

// ForecastService builds the model input from the two measured values and
// runs the 7-day forecaster
type ForecastService struct {
	forecaster *inference.Forecaster
	defaults   inference.ObservationDefaults
	recorder   repository.ForecastRecorder
}

// NewForecastService creates a new ForecastService. recorder may be nil.
func NewForecastService(forecaster *inference.Forecaster, defaults inference.ObservationDefaults, recorder repository.ForecastRecorder) *ForecastService {
	return &ForecastService{forecaster: forecaster, defaults: defaults, recorder: recorder}
}

func (s *ForecastService) Forecast(ctx context.Context, requestID string, temperature, humidity float64) ([]inference.ForecastStep, error) {
	obs := inference.NewObservation(temperature, humidity, s.defaults)
	steps, err := s.forecaster.Forecast(obs.Vector())
	if err != nil {
		return nil, err
	}

	if s.recorder != nil {
		if err := s.recorder.RecordForecast(ctx, requestID, obs, steps); err != nil {
			log.Printf("[Forecast] Failed to record forecast %s: %v", requestID, err)
		}
	}
	return steps, nil
}

// History lists recorded forecast runs, newest first. Without a recorder
// nothing is kept and the list is empty.
func (s *ForecastService) History(ctx context.Context, filter models.HistoryFilter) ([]repository.ForecastRun, error) {
	if s.recorder == nil {
		return []repository.ForecastRun{}, nil
	}
	return s.recorder.RecentRuns(ctx, filter)
}
