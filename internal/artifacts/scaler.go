package artifacts

import (
	"fmt"
)

type minMaxScalerFile struct {
	DataMin      []float64  `json:"data_min"`
	DataMax      []float64  `json:"data_max"`
	FeatureRange [2]float64 `json:"feature_range"`
}

// MinMaxScaler reproduces a fitted MinMaxScaler transform.
type MinMaxScaler struct {
	dataMin []float64
	dataMax []float64
	scale   []float64
	offset  []float64
}

// NewMinMaxScaler builds a scaler from per-column bounds. Columns with a
// zero range get scale 1 so constant features do not divide by zero.
func NewMinMaxScaler(dataMin, dataMax []float64, lo, hi float64) (*MinMaxScaler, error) {
	if len(dataMin) == 0 || len(dataMin) != len(dataMax) {
		return nil, fmt.Errorf("scaler bounds must be non-empty and equal length (got %d and %d)", len(dataMin), len(dataMax))
	}
	if hi <= lo {
		return nil, fmt.Errorf("invalid feature range [%v, %v]", lo, hi)
	}

	s := &MinMaxScaler{
		dataMin: append([]float64(nil), dataMin...),
		dataMax: append([]float64(nil), dataMax...),
		scale:   make([]float64, len(dataMin)),
		offset:  make([]float64, len(dataMin)),
	}
	for i := range dataMin {
		span := dataMax[i] - dataMin[i]
		if span == 0 {
			span = 1
		}
		s.scale[i] = (hi - lo) / span
		s.offset[i] = lo - dataMin[i]*s.scale[i]
	}
	return s, nil
}

// LoadMinMaxScaler reads a scaler export.
func LoadMinMaxScaler(path string) (*MinMaxScaler, error) {
	f := minMaxScalerFile{FeatureRange: [2]float64{0, 1}}
	if err := readJSON(path, &f); err != nil {
		return nil, err
	}
	s, err := NewMinMaxScaler(f.DataMin, f.DataMax, f.FeatureRange[0], f.FeatureRange[1])
	if err != nil {
		return nil, fmt.Errorf("invalid scaler %s: %w", path, err)
	}
	return s, nil
}

func (s *MinMaxScaler) Transform(row []float64) ([]float64, error) {
	if len(row) != len(s.scale) {
		return nil, fmt.Errorf("expected %d features, got %d", len(s.scale), len(row))
	}
	out := make([]float64, len(row))
	for i, v := range row {
		out[i] = v*s.scale[i] + s.offset[i]
	}
	return out, nil
}

func (s *MinMaxScaler) DataMin() []float64 { return append([]float64(nil), s.dataMin...) }

func (s *MinMaxScaler) DataMax() []float64 { return append([]float64(nil), s.dataMax...) }

func (s *MinMaxScaler) FeatureCount() int { return len(s.scale) }
