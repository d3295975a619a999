package inference

import (
	"fmt"
	"math"
)

// ForecastDays is the number of daily steps produced per forecast.
const ForecastDays = 7

// temperatureColumn is the scaler column and state slot holding temperature.
const temperatureColumn = 0

// ForecastStep is one day of a forecast.
type ForecastStep struct {
	Day         int       `json:"day"`
	Temperature float64   `json:"temperature"`
	Condition   Condition `json:"condition"`
}

// ObservationDefaults fills the features clients do not send. The values
// are the training dataset means.
type ObservationDefaults struct {
	Pressure   float64
	WindSpeed  float64
	Visibility float64
	CloudCover float64
}

// DefaultObservationDefaults are the means used when nothing is configured.
var DefaultObservationDefaults = ObservationDefaults{
	Pressure:   1010,
	WindSpeed:  2.5,
	Visibility: 8000,
	CloudCover: 40,
}

// Observation is the current weather in training column order.
type Observation struct {
	Temperature float64
	Humidity    float64
	Pressure    float64
	WindSpeed   float64
	Visibility  float64
	CloudCover  float64
}

// NewObservation combines measured temperature and humidity with defaults
// for the remaining columns.
func NewObservation(temperature, humidity float64, d ObservationDefaults) Observation {
	return Observation{
		Temperature: temperature,
		Humidity:    humidity,
		Pressure:    d.Pressure,
		WindSpeed:   d.WindSpeed,
		Visibility:  d.Visibility,
		CloudCover:  d.CloudCover,
	}
}

// Vector returns the observation as a model input row.
func (o Observation) Vector() []float64 {
	return []float64{o.Temperature, o.Humidity, o.Pressure, o.WindSpeed, o.Visibility, o.CloudCover}
}

// CarryPolicy builds the next model input from the previous step's raw
// scaled prediction.
type CarryPolicy func(width int, scaledPrediction float64) []float64

// ZeroedCarryState resets every feature to zero and places the unclipped
// scaled prediction in the temperature slot. Humidity, pressure and the
// other columns are not carried forward.
func ZeroedCarryState(width int, scaledPrediction float64) []float64 {
	state := make([]float64, width)
	state[temperatureColumn] = scaledPrediction
	return state
}

// Forecaster runs the sequence model autoregressively.
type Forecaster struct {
	model  Regressor
	scaler Scaler
	carry  CarryPolicy
}

// NewForecaster wires a forecaster from a validated registry using
// ZeroedCarryState.
func NewForecaster(reg *Registry) *Forecaster {
	return &Forecaster{
		model:  reg.WeatherModel,
		scaler: reg.WeatherScaler,
		carry:  ZeroedCarryState,
	}
}

// FeatureCount is the input width the scaler was fit on.
func (f *Forecaster) FeatureCount() int {
	return f.scaler.FeatureCount()
}

// Forecast returns exactly ForecastDays steps, or an error and no steps.
func (f *Forecaster) Forecast(current []float64) ([]ForecastStep, error) {
	width := f.scaler.FeatureCount()
	if len(current) != width {
		return nil, fmt.Errorf("%w: expected %d, got %d", ErrFeatureCountMismatch, width, len(current))
	}

	dataMin, dataMax := f.scaler.DataMin(), f.scaler.DataMax()
	if len(dataMin) <= temperatureColumn || len(dataMax) <= temperatureColumn {
		return nil, fmt.Errorf("%w: scaler has no temperature bounds", ErrInferenceFailure)
	}
	tempMin, tempMax := dataMin[temperatureColumn], dataMax[temperatureColumn]

	scaled, err := f.scaler.Transform(current)
	if err != nil {
		return nil, fmt.Errorf("%w: scaling input: %v", ErrInferenceFailure, err)
	}
	state := shape(scaled)

	steps := make([]ForecastStep, 0, ForecastDays)
	for i := 0; i < ForecastDays; i++ {
		pred, err := f.model.Predict(state)
		if err != nil {
			return nil, fmt.Errorf("%w: day %d: %v", ErrInferenceFailure, i+1, err)
		}
		if math.IsNaN(pred) || math.IsInf(pred, 0) {
			return nil, fmt.Errorf("%w: day %d: non-finite prediction", ErrInferenceFailure, i+1)
		}

		clipped := math.Min(math.Max(pred, 0), 1)
		temperature := tempMin + clipped*(tempMax-tempMin)

		steps = append(steps, ForecastStep{
			Day:         i + 1,
			Temperature: round2(temperature),
			Condition:   ClassifyCondition(temperature),
		})

		state = shape(f.carry(width, pred))
	}

	return steps, nil
}

// shape wraps a row as a single-sample, single-timestep sequence.
func shape(row []float64) [][][]float64 {
	return [][][]float64{{row}}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
