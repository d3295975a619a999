package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Subasree2717/agropredictor/internal/inference"
	"github.com/Subasree2717/agropredictor/internal/mocks"
	"github.com/Subasree2717/agropredictor/internal/models"
	"github.com/Subasree2717/agropredictor/internal/testhelpers"
)

func TestPredictionService_Predict(t *testing.T) {
	ctx := context.Background()
	reg := testhelpers.NewRegistry(t)
	history := &mocks.MockHistoryStore{}
	history.On("SavePrediction", mock.Anything, mock.MatchedBy(func(p *models.Prediction) bool {
		return p.SoilType == "Loamy" && p.Moisture == 40 && p.PredictedCrop == "Maize" && p.PredictedFertilizer == "Urea"
	})).Return(nil)

	svc := NewPredictionService(inference.NewRecommender(reg.Registry), history)
	got, err := svc.Predict(ctx, testhelpers.SoilPayload())
	require.NoError(t, err)
	assert.Equal(t, &inference.Recommendation{PredictedCrop: "Maize", PredictedFertilizer: "Urea"}, got)
	history.AssertExpectations(t)
}

func TestPredictionService_SaveFailureStillAnswers(t *testing.T) {
	reg := testhelpers.NewRegistry(t)
	history := &mocks.MockHistoryStore{}
	history.On("SavePrediction", mock.Anything, mock.Anything).Return(errors.New("connection refused"))

	svc := NewPredictionService(inference.NewRecommender(reg.Registry), history)
	got, err := svc.Predict(context.Background(), testhelpers.SoilPayload())
	require.NoError(t, err)
	assert.Equal(t, "Maize", got.PredictedCrop)
}

func TestPredictionService_InvalidInputNotSaved(t *testing.T) {
	reg := testhelpers.NewRegistry(t)
	history := &mocks.MockHistoryStore{}

	payload := testhelpers.SoilPayload()
	payload["soil_type"] = "Peaty"

	svc := NewPredictionService(inference.NewRecommender(reg.Registry), history)
	_, err := svc.Predict(context.Background(), payload)
	assert.ErrorIs(t, err, inference.ErrUnknownCategory)
	history.AssertNotCalled(t, "SavePrediction", mock.Anything, mock.Anything)
	assert.Empty(t, reg.Crop.Rows())
}

func TestPredictionService_History(t *testing.T) {
	reg := testhelpers.NewRegistry(t)
	history := &mocks.MockHistoryStore{}
	filter := models.HistoryFilter{Limit: 10}
	history.On("ListPredictions", mock.Anything, filter).Return([]models.Prediction{{PredictedCrop: "Paddy"}}, nil)

	got, err := NewPredictionService(inference.NewRecommender(reg.Registry), history).History(context.Background(), filter)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Paddy", got[0].PredictedCrop)
}
