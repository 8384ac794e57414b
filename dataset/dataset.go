// Package dataset provides CSV loading and train/test splitting for the ELM
// estimators: a thin layer that produces gonum matrices plus the bookkeeping
// (feature names, target column) the CLI needs.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"gonum.org/v1/gonum/mat"

	"github.com/elmgo-ml/elmgo/pkg/errors"
)

// Dataset bundles a feature matrix with its target column.
type Dataset struct {
	// X is the n×d feature matrix.
	X *mat.Dense

	// Y is the n×1 target column.
	Y *mat.Dense

	// FeatureNames holds the header names of the feature columns,
	// or generated names ("x0", "x1", ...) when the CSV has no header.
	FeatureNames []string

	// TargetName is the header name of the target column.
	TargetName string
}

// CSVOptions controls CSV parsing.
type CSVOptions struct {
	// HasHeader indicates the first row contains column names.
	HasHeader bool

	// TargetColumn selects the target by header name. When empty, the last
	// column is used.
	TargetColumn string

	// Comma is the field delimiter. Zero means ','.
	Comma rune
}

// NSamples returns the number of rows in the dataset.
func (d *Dataset) NSamples() int {
	r, _ := d.X.Dims()
	return r
}

// NFeatures returns the number of feature columns.
func (d *Dataset) NFeatures() int {
	_, c := d.X.Dims()
	return c
}

// Labels returns the target column as integer class labels.
// Values are required to be whole numbers; anything else indicates the file
// holds regression targets, which is an error for classification use.
func (d *Dataset) Labels() ([]int, error) {
	r, _ := d.Y.Dims()
	labels := make([]int, r)
	for i := 0; i < r; i++ {
		v := d.Y.At(i, 0)
		if v != math.Trunc(v) {
			return nil, errors.NewValueError("Dataset.Labels",
				fmt.Sprintf("target value %g at row %d is not an integer class label", v, i))
		}
		labels[i] = int(v)
	}
	return labels, nil
}

// LoadCSV reads a dataset from the CSV file at path.
func LoadCSV(path string, opts CSVOptions) (*Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	defer file.Close()

	ds, err := LoadCSVFromReader(file, opts)
	if err != nil {
		return nil, errors.Wrapf(err, "loading %s", path)
	}
	return ds, nil
}

// LoadCSVFromReader reads a dataset from r.
func LoadCSVFromReader(r io.Reader, opts CSVOptions) (*Dataset, error) {
	reader := csv.NewReader(r)
	if opts.Comma != 0 {
		reader.Comma = opts.Comma
	}
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "parsing csv")
	}
	if len(records) == 0 {
		return nil, errors.NewModelError("dataset.LoadCSV", "empty file", errors.ErrEmptyData)
	}

	var header []string
	rows := records
	if opts.HasHeader {
		header = records[0]
		rows = records[1:]
		if len(rows) == 0 {
			return nil, errors.NewModelError("dataset.LoadCSV", "header only, no data rows", errors.ErrEmptyData)
		}
	} else {
		header = make([]string, len(records[0]))
		for j := range header {
			header[j] = fmt.Sprintf("x%d", j)
		}
	}

	nCols := len(header)
	if nCols < 2 {
		return nil, errors.NewValueError("dataset.LoadCSV", "need at least one feature column and one target column")
	}

	targetIdx := nCols - 1
	if opts.TargetColumn != "" {
		targetIdx = -1
		for j, name := range header {
			if name == opts.TargetColumn {
				targetIdx = j
				break
			}
		}
		if targetIdx < 0 {
			return nil, errors.NewValueError("dataset.LoadCSV",
				fmt.Sprintf("target column %q not found in header", opts.TargetColumn))
		}
	}

	nRows := len(rows)
	X := mat.NewDense(nRows, nCols-1, nil)
	Y := mat.NewDense(nRows, 1, nil)

	for i, row := range rows {
		if len(row) != nCols {
			return nil, errors.NewDimensionError(fmt.Sprintf("dataset.LoadCSV row %d", i+1), nCols, len(row), 1)
		}
		fj := 0
		for j, cell := range row {
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, errors.Wrapf(err, "row %d, column %q: cannot parse %q as float", i+1, header[j], cell)
			}
			if j == targetIdx {
				Y.Set(i, 0, v)
				continue
			}
			X.Set(i, fj, v)
			fj++
		}
	}

	featureNames := make([]string, 0, nCols-1)
	for j, name := range header {
		if j != targetIdx {
			featureNames = append(featureNames, name)
		}
	}

	return &Dataset{
		X:            X,
		Y:            Y,
		FeatureNames: featureNames,
		TargetName:   header[targetIdx],
	}, nil
}

// LoadFeaturesCSV reads a CSV without a target column, for prediction input.
func LoadFeaturesCSV(path string, opts CSVOptions) (*mat.Dense, []string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "opening %s", path)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	if opts.Comma != 0 {
		reader.Comma = opts.Comma
	}
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, errors.Wrapf(err, "parsing %s", path)
	}
	if len(records) == 0 {
		return nil, nil, errors.NewModelError("dataset.LoadFeaturesCSV", "empty file", errors.ErrEmptyData)
	}

	var header []string
	rows := records
	if opts.HasHeader {
		header = records[0]
		rows = records[1:]
		if len(rows) == 0 {
			return nil, nil, errors.NewModelError("dataset.LoadFeaturesCSV", "header only, no data rows", errors.ErrEmptyData)
		}
	} else {
		header = make([]string, len(records[0]))
		for j := range header {
			header[j] = fmt.Sprintf("x%d", j)
		}
	}

	nCols := len(header)
	X := mat.NewDense(len(rows), nCols, nil)
	for i, row := range rows {
		if len(row) != nCols {
			return nil, nil, errors.NewDimensionError(fmt.Sprintf("dataset.LoadFeaturesCSV row %d", i+1), nCols, len(row), 1)
		}
		for j, cell := range row {
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, nil, errors.Wrapf(err, "row %d, column %q: cannot parse %q as float", i+1, header[j], cell)
			}
			X.Set(i, j, v)
		}
	}
	return X, header, nil
}
