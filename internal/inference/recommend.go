package inference

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Input field names, as sent by clients.
const (
	FieldTemperature = "temperature"
	FieldHumidity    = "humidity"
	FieldMoisture    = "moisture"
	FieldSoilType    = "soil_type"
	FieldNitrogen    = "nitrogen"
	FieldPotassium   = "potassium"
	FieldPhosphorous = "phosphorous"
)

// fertilizerCropSlot is the position of the crop index in the fertilizer
// feature row. Both row layouts must match the column order the models
// were fit with.
const fertilizerCropSlot = 4

// SoilSample is one validated set of agronomic measurements.
type SoilSample struct {
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	Moisture    float64 `json:"moisture"`
	SoilType    string  `json:"soil_type"`
	Nitrogen    float64 `json:"nitrogen"`
	Potassium   float64 `json:"potassium"`
	Phosphorous float64 `json:"phosphorous"`
}

// Recommendation is the result of the crop then fertilizer chain.
type Recommendation struct {
	PredictedCrop       string `json:"predicted_crop"`
	PredictedFertilizer string `json:"predicted_fertilizer"`
}

// ParseSoilSample validates a decoded JSON payload. Numeric fields accept
// JSON numbers and numeric strings; soil_type must be a string.
func ParseSoilSample(fields map[string]any) (SoilSample, error) {
	var s SoilSample
	numeric := []struct {
		name string
		dst  *float64
	}{
		{FieldTemperature, &s.Temperature},
		{FieldHumidity, &s.Humidity},
		{FieldMoisture, &s.Moisture},
		{FieldNitrogen, &s.Nitrogen},
		{FieldPotassium, &s.Potassium},
		{FieldPhosphorous, &s.Phosphorous},
	}

	// Presence first, in payload order, so the first missing field wins
	// over a type error further down.
	for _, name := range []string{FieldTemperature, FieldHumidity, FieldMoisture, FieldSoilType, FieldNitrogen, FieldPotassium, FieldPhosphorous} {
		if v, ok := fields[name]; !ok || v == nil {
			return SoilSample{}, &FieldError{Field: name, Err: ErrMissingField}
		}
	}

	for _, f := range numeric {
		v, err := toFloat(fields[f.name])
		if err != nil {
			return SoilSample{}, &FieldError{Field: f.name, Err: ErrInvalidType}
		}
		*f.dst = v
	}

	soil, ok := fields[FieldSoilType].(string)
	if !ok {
		return SoilSample{}, &FieldError{Field: FieldSoilType, Err: ErrInvalidType}
	}
	s.SoilType = soil

	return s, nil
}

func toFloat(v any) (float64, error) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, err
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, err
		}
		f = parsed
	default:
		return 0, fmt.Errorf("unsupported type %T", v)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("non-finite value")
	}
	return f, nil
}

// Recommender chains the crop classifier into the fertilizer classifier.
type Recommender struct {
	crop            Classifier
	fertilizer      Classifier
	soilCodec       *Codec
	cropCodec       *Codec
	fertilizerCodec *Codec
}

// NewRecommender wires a recommender from a validated registry.
func NewRecommender(reg *Registry) *Recommender {
	return &Recommender{
		crop:            reg.CropModel,
		fertilizer:      reg.FertilizerModel,
		soilCodec:       reg.SoilCodec,
		cropCodec:       reg.CropCodec,
		fertilizerCodec: reg.FertilizerCodec,
	}
}

// Recommend predicts a crop, then a fertilizer conditioned on the raw crop
// index. Any failure aborts the whole chain.
func (r *Recommender) Recommend(s SoilSample) (*Recommendation, error) {
	soil, err := r.soilCodec.Encode(s.SoilType)
	if err != nil {
		return nil, err
	}

	cropRow := CropFeatures(s, soil)
	cropIdx, err := r.crop.Predict(cropRow)
	if err != nil {
		return nil, fmt.Errorf("%w: crop model: %v", ErrInferenceFailure, err)
	}
	cropName, err := r.cropCodec.Decode(cropIdx)
	if err != nil {
		return nil, err
	}

	fertRow := FertilizerFeatures(s, soil, cropIdx)
	fertIdx, err := r.fertilizer.Predict(fertRow)
	if err != nil {
		return nil, fmt.Errorf("%w: fertilizer model: %v", ErrInferenceFailure, err)
	}
	fertName, err := r.fertilizerCodec.Decode(fertIdx)
	if err != nil {
		return nil, err
	}

	return &Recommendation{
		PredictedCrop:       cropName,
		PredictedFertilizer: fertName,
	}, nil
}

// CropFeatures builds the crop model row: temperature, humidity, moisture,
// soil, nitrogen, potassium, phosphorous.
func CropFeatures(s SoilSample, soil int) []float64 {
	return []float64{
		s.Temperature,
		s.Humidity,
		s.Moisture,
		float64(soil),
		s.Nitrogen,
		s.Potassium,
		s.Phosphorous,
	}
}

// FertilizerFeatures builds the fertilizer model row: the crop row with the
// crop index inserted after soil.
func FertilizerFeatures(s SoilSample, soil, crop int) []float64 {
	row := make([]float64, 0, 8)
	row = append(row, CropFeatures(s, soil)[:fertilizerCropSlot]...)
	row = append(row, float64(crop))
	row = append(row, s.Nitrogen, s.Potassium, s.Phosphorous)
	return row
}
