package elm

import (
	"encoding/csv"
	"os"
	"sort"
	"strconv"

	"github.com/elmgo-ml/elmgo/pkg/errors"
)

// SaveLossCSV writes a loss curve as "epoch,loss" rows to path.
// Epochs are numbered from 1.
func SaveLossCSV(path string, history []float64) error {
	if len(history) == 0 {
		return errors.NewModelError("SaveLossCSV", "empty history", errors.ErrEmptyData)
	}

	file, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating %s", path)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write([]string{"epoch", "loss"}); err != nil {
		return errors.Wrap(err, "writing header")
	}
	for i, loss := range history {
		row := []string{
			strconv.Itoa(i + 1),
			strconv.FormatFloat(loss, 'g', -1, 64),
		}
		if err := w.Write(row); err != nil {
			return errors.Wrapf(err, "writing epoch %d", i+1)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return errors.Wrapf(err, "flushing %s", path)
	}
	return nil
}

// SaveMetricsCSV writes a metric table as "metric,value" rows to path,
// with metrics sorted by name for stable output.
func SaveMetricsCSV(path string, results map[string]float64) error {
	if len(results) == 0 {
		return errors.NewModelError("SaveMetricsCSV", "empty results", errors.ErrEmptyData)
	}

	names := make([]string, 0, len(results))
	for name := range results {
		names = append(names, name)
	}
	sort.Strings(names)

	file, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating %s", path)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write([]string{"metric", "value"}); err != nil {
		return errors.Wrap(err, "writing header")
	}
	for _, name := range names {
		row := []string{name, strconv.FormatFloat(results[name], 'g', -1, 64)}
		if err := w.Write(row); err != nil {
			return errors.Wrapf(err, "writing metric %s", name)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return errors.Wrapf(err, "flushing %s", path)
	}
	return nil
}
