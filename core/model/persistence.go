package model

import (
	"encoding/gob"
	"io"
	"os"

	"github.com/elmgo-ml/elmgo/pkg/errors"
)

// Gob persistence for fitted estimators. The elm estimators implement
// GobEncoder/GobDecoder over their NetworkWeights snapshot, so the payload
// written here is the JSON weight dump framed by gob. Loading requires the
// same concrete type that was saved.

// SaveModel writes a fitted model to the file at filename.
//
//	reg, _ := elm.NewELMRegressor()
//	// ... fit ...
//	err := model.SaveModel(reg, "model.gob")
func SaveModel(model interface{}, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return errors.Wrapf(err, "creating model file %s", filename)
	}
	defer file.Close()

	return SaveModelToWriter(model, file)
}

// LoadModel reads a model saved with SaveModel into model, which must be a
// pointer to the concrete estimator type that was saved.
func LoadModel(model interface{}, filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return errors.Wrapf(err, "opening model file %s", filename)
	}
	defer file.Close()

	return LoadModelFromReader(model, file)
}

// SaveModelToWriter gob-encodes a model to w.
func SaveModelToWriter(model interface{}, w io.Writer) error {
	if err := gob.NewEncoder(w).Encode(model); err != nil {
		return errors.Wrap(err, "encoding model")
	}
	return nil
}

// LoadModelFromReader gob-decodes a model from r.
func LoadModelFromReader(model interface{}, r io.Reader) error {
	if err := gob.NewDecoder(r).Decode(model); err != nil {
		return errors.Wrap(err, "decoding model")
	}
	return nil
}
