package inference

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubClassifier returns a fixed index and records the rows it was given.
type stubClassifier struct {
	index int
	err   error
	rows  [][]float64
}

func (s *stubClassifier) Predict(features []float64) (int, error) {
	s.rows = append(s.rows, append([]float64(nil), features...))
	return s.index, s.err
}

// stubRegressor returns its outputs in order and records every input row.
type stubRegressor struct {
	outputs []float64
	failAt  int
	inputs  [][]float64
}

func (s *stubRegressor) Predict(input [][][]float64) (float64, error) {
	call := len(s.inputs)
	s.inputs = append(s.inputs, append([]float64(nil), input[0][0]...))
	if s.failAt > 0 && call+1 == s.failAt {
		return 0, errors.New("tensor shape error")
	}
	if call < len(s.outputs) {
		return s.outputs[call], nil
	}
	return s.outputs[len(s.outputs)-1], nil
}

// stubScaler is a min-max scaler over fixed bounds.
type stubScaler struct {
	min, max []float64
}

func (s *stubScaler) Transform(row []float64) ([]float64, error) {
	out := make([]float64, len(row))
	for i, v := range row {
		out[i] = (v - s.min[i]) / (s.max[i] - s.min[i])
	}
	return out, nil
}

func (s *stubScaler) DataMin() []float64 { return s.min }
func (s *stubScaler) DataMax() []float64 { return s.max }
func (s *stubScaler) FeatureCount() int  { return len(s.min) }

func weatherScaler() *stubScaler {
	return &stubScaler{
		min: []float64{20, 0, 990, 0, 0, 0},
		max: []float64{40, 100, 1030, 10, 10000, 100},
	}
}

func mustCodec(t *testing.T, name string, labels ...string) *Codec {
	t.Helper()
	c, err := NewCodec(name, labels)
	require.NoError(t, err)
	return c
}

func testRegistry(t *testing.T, crop, fert Classifier, model Regressor, scaler Scaler) *Registry {
	t.Helper()
	reg := &Registry{
		CropModel:       crop,
		FertilizerModel: fert,
		SoilCodec:       mustCodec(t, "soil", "Black", "Clayey", "Loamy", "Red", "Sandy"),
		CropCodec:       mustCodec(t, "crop", "Cotton", "Ground Nuts", "Maize", "Paddy", "Sugarcane", "Wheat"),
		FertilizerCodec: mustCodec(t, "fertilizer", "DAP", "Urea", "14-35-14", "28-28"),
		WeatherModel:    model,
		WeatherScaler:   scaler,
	}
	require.NoError(t, reg.Validate())
	return reg
}

func samplePayload() map[string]any {
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

func TestCodec(t *testing.T) {
	c := mustCodec(t, "soil", "Black", "Clayey", "Loamy", "Red", "Sandy")

	t.Run("round trip", func(t *testing.T) {
		for _, label := range c.Labels() {
			idx, err := c.Encode(label)
			require.NoError(t, err)
			got, err := c.Decode(idx)
			require.NoError(t, err)
			assert.Equal(t, label, got)
		}
	})

	t.Run("unknown label does not default to zero", func(t *testing.T) {
		_, err := c.Encode("Peaty")
		assert.ErrorIs(t, err, ErrUnknownCategory)
	})

	t.Run("index out of range", func(t *testing.T) {
		_, err := c.Decode(5)
		assert.ErrorIs(t, err, ErrInvalidIndex)
		_, err = c.Decode(-1)
		assert.ErrorIs(t, err, ErrInvalidIndex)
	})

	t.Run("vocabulary is copied", func(t *testing.T) {
		labels := []string{"a", "b"}
		c := mustCodec(t, "x", labels...)
		labels[0] = "z"
		got, err := c.Decode(0)
		require.NoError(t, err)
		assert.Equal(t, "a", got)
	})

	t.Run("duplicates rejected", func(t *testing.T) {
		_, err := NewCodec("dup", []string{"a", "a"})
		assert.Error(t, err)
	})
}

// recommendPayload mirrors how the prediction service drives the chain.
func recommendPayload(r *Recommender, fields map[string]any) (*Recommendation, error) {
	sample, err := ParseSoilSample(fields)
	if err != nil {
		return nil, err
	}
	return r.Recommend(sample)
}

func TestRecommend(t *testing.T) {
	t.Run("chains crop index into fertilizer row", func(t *testing.T) {
		crop := &stubClassifier{index: 2}
		fert := &stubClassifier{index: 1}
		r := NewRecommender(testRegistry(t, crop, fert, &stubRegressor{outputs: []float64{0}}, weatherScaler()))

		rec, err := recommendPayload(r, samplePayload())
		require.NoError(t, err)
		assert.Equal(t, &Recommendation{PredictedCrop: "Maize", PredictedFertilizer: "Urea"}, rec)

		require.Len(t, crop.rows, 1)
		assert.Equal(t, []float64{30, 60, 40, 2, 10, 10, 10}, crop.rows[0])
		require.Len(t, fert.rows, 1)
		assert.Equal(t, []float64{30, 60, 40, 2, 2, 10, 10, 10}, fert.rows[0])
	})

	t.Run("numeric strings are accepted", func(t *testing.T) {
		r := NewRecommender(testRegistry(t, &stubClassifier{index: 0}, &stubClassifier{index: 0}, &stubRegressor{outputs: []float64{0}}, weatherScaler()))
		payload := samplePayload()
		payload["temperature"] = "30"
		payload["nitrogen"] = " 12.5 "

		rec, err := recommendPayload(r, payload)
		require.NoError(t, err)
		assert.Equal(t, "Cotton", rec.PredictedCrop)
	})

	t.Run("unknown soil aborts before any model call", func(t *testing.T) {
		crop := &stubClassifier{index: 2}
		fert := &stubClassifier{index: 1}
		r := NewRecommender(testRegistry(t, crop, fert, &stubRegressor{outputs: []float64{0}}, weatherScaler()))
		payload := samplePayload()
		payload["soil_type"] = "Peaty"

		rec, err := recommendPayload(r, payload)
		assert.ErrorIs(t, err, ErrUnknownCategory)
		assert.Nil(t, rec)
		assert.Empty(t, crop.rows)
		assert.Empty(t, fert.rows)
	})

	t.Run("missing field", func(t *testing.T) {
		r := NewRecommender(testRegistry(t, &stubClassifier{}, &stubClassifier{}, &stubRegressor{outputs: []float64{0}}, weatherScaler()))
		payload := samplePayload()
		delete(payload, "moisture")

		_, err := recommendPayload(r, payload)
		assert.ErrorIs(t, err, ErrMissingField)
		var fe *FieldError
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, "moisture", fe.Field)
	})

	t.Run("invalid types", func(t *testing.T) {
		r := NewRecommender(testRegistry(t, &stubClassifier{}, &stubClassifier{}, &stubRegressor{outputs: []float64{0}}, weatherScaler()))
		for field, value := range map[string]any{
			"humidity":  "wet",
			"nitrogen":  true,
			"soil_type": 3.0,
			"potassium": "NaN",
		} {
			payload := samplePayload()
			payload[field] = value
			_, err := recommendPayload(r, payload)
			assert.ErrorIs(t, err, ErrInvalidType, field)
		}
	})

	t.Run("fertilizer failure yields no partial result", func(t *testing.T) {
		fert := &stubClassifier{err: errors.New("boom")}
		r := NewRecommender(testRegistry(t, &stubClassifier{index: 2}, fert, &stubRegressor{outputs: []float64{0}}, weatherScaler()))

		rec, err := recommendPayload(r, samplePayload())
		assert.ErrorIs(t, err, ErrInferenceFailure)
		assert.Nil(t, rec)
	})

	t.Run("crop index outside vocabulary", func(t *testing.T) {
		r := NewRecommender(testRegistry(t, &stubClassifier{index: 42}, &stubClassifier{}, &stubRegressor{outputs: []float64{0}}, weatherScaler()))

		_, err := recommendPayload(r, samplePayload())
		assert.ErrorIs(t, err, ErrInvalidIndex)
	})
}

func TestClassifyCondition(t *testing.T) {
	cases := []struct {
		temp float64
		want Condition
	}{
		{40, Sunny},
		{32.1, Sunny},
		{32.0, PartlyCloudy},
		{28.1, PartlyCloudy},
		{28.0, Rain},
		{-5, Rain},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ClassifyCondition(tc.temp), "temperature %v", tc.temp)
	}
}

func TestForecast(t *testing.T) {
	current := NewObservation(30, 60, DefaultObservationDefaults).Vector()

	t.Run("saturated model", func(t *testing.T) {
		f := NewForecaster(testRegistry(t, &stubClassifier{}, &stubClassifier{}, &stubRegressor{outputs: []float64{1.0}}, weatherScaler()))

		steps, err := f.Forecast(current)
		require.NoError(t, err)
		require.Len(t, steps, ForecastDays)
		for i, s := range steps {
			assert.Equal(t, i+1, s.Day)
			assert.Equal(t, 40.0, s.Temperature)
			assert.Equal(t, Sunny, s.Condition)
		}
	})

	t.Run("clips overshoot but carries raw prediction", func(t *testing.T) {
		model := &stubRegressor{outputs: []float64{1.3, -0.2, 0.4567}}
		f := NewForecaster(testRegistry(t, &stubClassifier{}, &stubClassifier{}, model, weatherScaler()))

		steps, err := f.Forecast(current)
		require.NoError(t, err)
		assert.Equal(t, 40.0, steps[0].Temperature)
		assert.Equal(t, 20.0, steps[1].Temperature)
		assert.Equal(t, Rain, steps[1].Condition)
		assert.Equal(t, 29.13, steps[2].Temperature)
		assert.Equal(t, PartlyCloudy, steps[2].Condition)

		require.Len(t, model.inputs, ForecastDays)
		assert.InDeltaSlice(t, []float64{0.5, 0.6, 0.5, 0.25, 0.8, 0.4}, model.inputs[0], 1e-9)
		assert.Equal(t, []float64{1.3, 0, 0, 0, 0, 0}, model.inputs[1])
		assert.Equal(t, []float64{-0.2, 0, 0, 0, 0, 0}, model.inputs[2])
		assert.Equal(t, []float64{0.4567, 0, 0, 0, 0, 0}, model.inputs[3])
	})

	t.Run("feature count mismatch", func(t *testing.T) {
		model := &stubRegressor{outputs: []float64{0.5}}
		f := NewForecaster(testRegistry(t, &stubClassifier{}, &stubClassifier{}, model, weatherScaler()))

		steps, err := f.Forecast([]float64{30, 60, 1010, 2.5})
		assert.ErrorIs(t, err, ErrFeatureCountMismatch)
		assert.Nil(t, steps)
		assert.Empty(t, model.inputs)
	})

	t.Run("failure mid sequence returns nothing", func(t *testing.T) {
		model := &stubRegressor{outputs: []float64{0.5}, failAt: 4}
		f := NewForecaster(testRegistry(t, &stubClassifier{}, &stubClassifier{}, model, weatherScaler()))

		steps, err := f.Forecast(current)
		assert.ErrorIs(t, err, ErrInferenceFailure)
		assert.Nil(t, steps)
	})
}

func TestZeroedCarryState(t *testing.T) {
	assert.Equal(t, []float64{0.73, 0, 0, 0}, ZeroedCarryState(4, 0.73))
}

func TestRegistryValidate(t *testing.T) {
	err := (&Registry{}).Validate()
	assert.ErrorIs(t, err, ErrIncompleteRegistry)
	assert.Contains(t, err.Error(), "weather scaler")
}

func TestSynchronizedRegressor(t *testing.T) {
	s := NewSynchronizedRegressor(&stubRegressor{outputs: []float64{0.5}})
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := s.Predict([][][]float64{{{1}}})
			assert.NoError(t, err)
			assert.Equal(t, 0.5, v)
		}()
	}
	wg.Wait()
}
