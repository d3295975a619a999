package service

import (
	"context"
	"log"

	"github.com/Subasree2717/agropredictor/internal/inference"
	"github.com/Subasree2717/agropredictor/internal/models"
	"github.com/Subasree2717/agropredictor/internal/repository"
)

// PredictionService runs the crop and fertilizer chain and records results
type PredictionService struct {
	recommender *inference.Recommender
	history     repository.HistoryStore
}

// NewPredictionService creates a new PredictionService. history may be nil.
func NewPredictionService(recommender *inference.Recommender, history repository.HistoryStore) *PredictionService {
	return &PredictionService{recommender: recommender, history: history}
}

// Predict validates fields, runs the chain and stores the result. A storage
// failure is logged and the recommendation is still returned.
func (s *PredictionService) Predict(ctx context.Context, fields map[string]any) (*inference.Recommendation, error) {
	sample, err := inference.ParseSoilSample(fields)
	if err != nil {
		return nil, err
	}
	rec, err := s.recommender.Recommend(sample)
	if err != nil {
		return nil, err
	}

	if s.history != nil {
		p := &models.Prediction{
			Temperature:         sample.Temperature,
			Humidity:            sample.Humidity,
			Moisture:            sample.Moisture,
			SoilType:            sample.SoilType,
			Nitrogen:            sample.Nitrogen,
			Potassium:           sample.Potassium,
			Phosphorous:         sample.Phosphorous,
			PredictedCrop:       rec.PredictedCrop,
			PredictedFertilizer: rec.PredictedFertilizer,
		}
		if err := s.history.SavePrediction(ctx, p); err != nil {
			log.Printf("[Prediction] Failed to save prediction: %v", err)
		}
	}
	return rec, nil
}

// History lists stored predictions, newest first
func (s *PredictionService) History(ctx context.Context, filter models.HistoryFilter) ([]models.Prediction, error) {
	if s.history == nil {
		return []models.Prediction{}, nil
	}
	return s.history.ListPredictions(ctx, filter)
}
