package inference

import (
	"fmt"
	"strings"
)

// Registry holds the models and vocabularies loaded at startup. It is
// read-only once validated and shared by every request.
type Registry struct {
	CropModel       Classifier
	FertilizerModel Classifier
	SoilCodec       *Codec
	CropCodec       *Codec
	FertilizerCodec *Codec
	WeatherModel    Regressor
	WeatherScaler   Scaler
}

// Validate checks that every component is present.
func (r *Registry) Validate() error {
	var missing []string
	if r.CropModel == nil {
		missing = append(missing, "crop model")
	}
	if r.FertilizerModel == nil {
		missing = append(missing, "fertilizer model")
	}
	if r.SoilCodec == nil {
		missing = append(missing, "soil codec")
	}
	if r.CropCodec == nil {
		missing = append(missing, "crop codec")
	}
	if r.FertilizerCodec == nil {
		missing = append(missing, "fertilizer codec")
	}
	if r.WeatherModel == nil {
		missing = append(missing, "weather model")
	}
	if r.WeatherScaler == nil {
		missing = append(missing, "weather scaler")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrIncompleteRegistry, strings.Join(missing, ", "))
	}
	return nil
}
