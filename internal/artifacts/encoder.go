package artifacts

import (
	"fmt"

	"github.com/Subasree2717/agropredictor/internal/inference"
)

// labelEncoderFile is a fitted LabelEncoder: classes in index order.
type labelEncoderFile struct {
	Classes []string `json:"classes"`
}

// LoadCodec reads a label encoder export into a codec named name.
func LoadCodec(path, name string) (*inference.Codec, error) {
	var f labelEncoderFile
	if err := readJSON(path, &f); err != nil {
		return nil, err
	}
	codec, err := inference.NewCodec(name, f.Classes)
	if err != nil {
		return nil, fmt.Errorf("invalid label encoder %s: %w", path, err)
	}
	return codec, nil
}
