package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/Subasree2717/agropredictor/internal/inference"
	"github.com/Subasree2717/agropredictor/internal/models"
)

// ForecastRecorder keeps completed forecasts for later comparison with
// observed weather
type ForecastRecorder interface {
	RecordForecast(ctx context.Context, requestID string, observation inference.Observation, steps []inference.ForecastStep) error
	RecentRuns(ctx context.Context, filter models.HistoryFilter) ([]ForecastRun, error)
}

// PostgresForecastRecorder appends to the forecast_runs table
type PostgresForecastRecorder struct {
	db *sqlx.DB
}

func NewPostgresForecastRecorder(db *sqlx.DB) *PostgresForecastRecorder {
	return &PostgresForecastRecorder{db: db}
}

// observationRecord is the JSON stored in forecast_runs.observation
type observationRecord struct {
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	Pressure    float64 `json:"pressure"`
	WindSpeed   float64 `json:"wind_speed"`
	Visibility  float64 `json:"visibility"`
	CloudCover  float64 `json:"cloud_cover"`
}

// ForecastRun is one recorded forecast. Observation and Steps hold the
// stored JSONB documents.
type ForecastRun struct {
	ID          int64           `json:"id"`
	RequestID   string          `json:"request_id"`
	Observation json.RawMessage `json:"observation"`
	Steps       json.RawMessage `json:"steps"`
	RecordedAt  time.Time       `json:"recorded_at"`
}

// forecastRunRow scans JSONB as text so the driver buffer is never aliased
type forecastRunRow struct {
	ID          int64     `db:"id"`
	RequestID   string    `db:"request_id"`
	Observation string    `db:"observation"`
	Steps       string    `db:"steps"`
	RecordedAt  time.Time `db:"recorded_at"`
}

func (r *PostgresForecastRecorder) RecordForecast(
	ctx context.Context,
	requestID string,
	observation inference.Observation,
	steps []inference.ForecastStep,
) error {
	const query = `
		INSERT INTO forecast_runs (request_id, observation, steps, recorded_at)
		VALUES ($1, $2, $3, NOW())`

	obsJSON, err := json.Marshal(observationRecord{
		Temperature: observation.Temperature,
		Humidity:    observation.Humidity,
		Pressure:    observation.Pressure,
		WindSpeed:   observation.WindSpeed,
		Visibility:  observation.Visibility,
		CloudCover:  observation.CloudCover,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal observation: %w", err)
	}
	stepsJSON, err := json.Marshal(steps)
	if err != nil {
		return fmt.Errorf("failed to marshal steps: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, requestID, obsJSON, stepsJSON); err != nil {
		return fmt.Errorf("failed to record forecast: %w", err)
	}
	return nil
}

// RecentRuns returns recorded runs newest first, paged like the other
// history lists
func (r *PostgresForecastRecorder) RecentRuns(ctx context.Context, filter models.HistoryFilter) ([]ForecastRun, error) {
	const query = `
		SELECT id, request_id, observation::text AS observation, steps::text AS steps, recorded_at
		FROM forecast_runs
		ORDER BY id DESC
		LIMIT $1 OFFSET $2`

	limit, offset := bounds(filter)
	var rows []forecastRunRow
	if err := r.db.SelectContext(ctx, &rows, query, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to list forecast runs: %w", err)
	}

	runs := make([]ForecastRun, len(rows))
	for i, row := range rows {
		runs[i] = ForecastRun{
			ID:          row.ID,
			RequestID:   row.RequestID,
			Observation: json.RawMessage(row.Observation),
			Steps:       json.RawMessage(row.Steps),
			RecordedAt:  row.RecordedAt,
		}
	}
	return runs, nil
}
