package plot

import (
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"

	"i94cli/internal/errors"
)

// WriteHistogram renders the frequency distribution of values
func WriteHistogram(path, title, xLabel string, values []float64, bins int) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = "Frequency"
	p.Add(plotter.NewGrid())

	hist, err := plotter.NewHist(plotter.Values(values), bins)
	if err != nil {
		return errors.NewRenderError("build histogram "+path, err)
	}
	hist.FillColor = colorPrimary
	p.Add(hist)

	if err := p.Save(defaultWidth, defaultHeight, path); err != nil {
		return errors.NewRenderError("save histogram "+path, err)
	}
	return nil
}
