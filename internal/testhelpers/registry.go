package testhelpers

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Subasree2717/agropredictor/internal/artifacts"
	"github.com/Subasree2717/agropredictor/internal/inference"
)

var (
	SoilTypes   = []string{"Black", "Clayey", "Loamy", "Red", "Sandy"}
	Crops       = []string{"Cotton", "Ground Nuts", "Maize", "Paddy", "Sugarcane", "Wheat"}
	Fertilizers = []string{"DAP", "Urea", "14-35-14", "28-28"}

	// Weather scaler bounds in training column order
	WeatherMin = []float64{20, 0, 990, 0, 0, 0}
	WeatherMax = []float64{40, 100, 1030, 10, 10000, 100}
)

// FixedClassifier always returns Index and records every feature row
type FixedClassifier struct {
	Index int
	Err   error

	mu   sync.Mutex
	rows [][]float64
}

func (c *FixedClassifier) Predict(features []float64) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rows = append(c.rows, append([]float64(nil), features...))
	return c.Index, c.Err
}

// Rows returns the feature rows seen so far
func (c *FixedClassifier) Rows() [][]float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rows
}

// FixedRegressor always returns Output
type FixedRegressor struct {
	Output float64
	Err    error
}

func (r *FixedRegressor) Predict([][][]float64) (float64, error) {
	return r.Output, r.Err
}

// Registry bundles a validated inference.Registry with its stub models so
// tests can adjust outputs and inspect inputs
type Registry struct {
	*inference.Registry
	Crop       *FixedClassifier
	Fertilizer *FixedClassifier
	Weather    *FixedRegressor
}

// NewRegistry predicts Maize with Urea and a scaled temperature of 0.5
// (30 degrees) for every forecast day
func NewRegistry(t *testing.T) *Registry {
	t.Helper()

	soil, err := inference.NewCodec("soil type", SoilTypes)
	require.NoError(t, err)
	crop, err := inference.NewCodec("crop", Crops)
	require.NoError(t, err)
	fert, err := inference.NewCodec("fertilizer", Fertilizers)
	require.NoError(t, err)
	scaler, err := artifacts.NewMinMaxScaler(WeatherMin, WeatherMax, 0, 1)
	require.NoError(t, err)

	r := &Registry{
		Crop:       &FixedClassifier{Index: 2},
		Fertilizer: &FixedClassifier{Index: 1},
		Weather:    &FixedRegressor{Output: 0.5},
	}
	r.Registry = &inference.Registry{
		CropModel:       r.Crop,
		FertilizerModel: r.Fertilizer,
		SoilCodec:       soil,
		CropCodec:       crop,
		FertilizerCodec: fert,
		WeatherModel:    r.Weather,
		WeatherScaler:   scaler,
	}
	require.NoError(t, r.Validate())
	return r
}

// SoilPayload is a complete, valid /predict body
func SoilPayload() map[string]any {
	return map[string]any{
		"temperature": 30.0,
		"humidity":    60.0,
		"moisture":    40.0,
		"soil_type":   "Loamy",
		"nitrogen":    10.0,
		"potassium":   10.0,
		"phosphorous": 10.0,
	}
}
