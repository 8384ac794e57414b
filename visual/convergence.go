// Package visual renders training diagnostics as image files.
package visual

import (
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/elmgo-ml/elmgo/pkg/errors"
)

// ConvergenceOptions customizes the convergence chart.
type ConvergenceOptions struct {
	// Title of the chart. Empty defaults to "Convergence".
	Title string

	// YLabel labels the objective axis. Empty defaults to "Objective".
	YLabel string
}

// SaveConvergencePNG renders the per-epoch global best history of a
// metaheuristic run as a line chart and writes it to path. The image format
// follows the file extension (.png, .svg, .pdf).
func SaveConvergencePNG(path string, history []float64, opts ConvergenceOptions) error {
	if len(history) == 0 {
		return errors.NewModelError("SaveConvergencePNG", "empty history", errors.ErrEmptyData)
	}

	p := plot.New()
	p.Title.Text = opts.Title
	if p.Title.Text == "" {
		p.Title.Text = "Convergence"
	}
	p.X.Label.Text = "Epoch"
	p.Y.Label.Text = opts.YLabel
	if p.Y.Label.Text == "" {
		p.Y.Label.Text = "Objective"
	}

	points := make(plotter.XYs, len(history))
	for i, v := range history {
		points[i].X = float64(i + 1)
		points[i].Y = v
	}

	line, err := plotter.NewLine(points)
	if err != nil {
		return errors.Wrap(err, "building line plot")
	}
	p.Add(line)
	p.Add(plotter.NewGrid())

	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return errors.Wrapf(err, "saving chart to %s", path)
	}
	return nil
}
