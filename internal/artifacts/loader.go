package artifacts

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/Subasree2717/agropredictor/internal/inference"
)

// Artifact file names inside the model directory.
const (
	CropModelFile         = "crop_model.json"
	FertilizerModelFile   = "fertilizer_model.json"
	CropEncoderFile       = "crop_label_encoder.json"
	FertilizerEncoderFile = "fertilizer_label_encoder.json"
	SoilEncoderFile       = "soil_label_encoder.json"
	ScalerFile            = "minmax_scaler.json"
	WeatherModelFile      = "lstm_weather_model.json"
)

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read artifact: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode artifact %s: %w", path, err)
	}
	return nil
}

// LoadRegistry loads every model and encoder from dir and validates the
// result. It is called once at startup.
func LoadRegistry(dir string) (*inference.Registry, error) {
	path := func(name string) string { return filepath.Join(dir, name) }

	crop, err := LoadForest(path(CropModelFile))
	if err != nil {
		return nil, err
	}
	fertilizer, err := LoadForest(path(FertilizerModelFile))
	if err != nil {
		return nil, err
	}
	soilCodec, err := LoadCodec(path(SoilEncoderFile), "soil type")
	if err != nil {
		return nil, err
	}
	cropCodec, err := LoadCodec(path(CropEncoderFile), "crop")
	if err != nil {
		return nil, err
	}
	fertilizerCodec, err := LoadCodec(path(FertilizerEncoderFile), "fertilizer")
	if err != nil {
		return nil, err
	}
	scaler, err := LoadMinMaxScaler(path(ScalerFile))
	if err != nil {
		return nil, err
	}
	weather, err := LoadSequenceModel(path(WeatherModelFile))
	if err != nil {
		return nil, err
	}
	if weather.inputDim != scaler.FeatureCount() {
		return nil, fmt.Errorf("weather model expects %d features but scaler was fit on %d", weather.inputDim, scaler.FeatureCount())
	}

	reg := &inference.Registry{
		CropModel:       crop,
		FertilizerModel: fertilizer,
		SoilCodec:       soilCodec,
		CropCodec:       cropCodec,
		FertilizerCodec: fertilizerCodec,
		WeatherModel:    weather,
		WeatherScaler:   scaler,
	}
	if err := reg.Validate(); err != nil {
		return nil, err
	}

	log.Printf("[Artifacts] Loaded models from %s (%d soil types, %d crops, %d fertilizers, %d weather features)",
		dir, soilCodec.Len(), cropCodec.Len(), fertilizerCodec.Len(), scaler.FeatureCount())
	return reg, nil
}
