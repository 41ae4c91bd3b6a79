package plot

import (
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"i94cli/internal/errors"
)

// WriteBarH renders a horizontal bar chart. When highlight is a valid
// index into values, that bar is drawn in the highlight color, matching
// the "peak category" emphasis of the summary charts.
func WriteBarH(path, title, xLabel string, labels []string, values []float64, highlight int) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Add(plotter.NewGrid())

	base := make(plotter.Values, len(values))
	peak := make(plotter.Values, len(values))
	for i, v := range values {
		if i == highlight {
			peak[i] = v
		} else {
			base[i] = v
		}
	}

	baseBars, err := plotter.NewBarChart(base, vg.Points(12))
	if err != nil {
		return errors.NewRenderError("build bar chart "+path, err)
	}
	baseBars.Horizontal = true
	baseBars.Color = colorPrimary
	baseBars.LineStyle.Width = 0
	p.Add(baseBars)

	if highlight >= 0 && highlight < len(values) {
		peakBars, err := plotter.NewBarChart(peak, vg.Points(12))
		if err != nil {
			return errors.NewRenderError("build highlight bar "+path, err)
		}
		peakBars.Horizontal = true
		peakBars.Color = colorHighlight
		peakBars.LineStyle.Width = 0
		p.Add(peakBars)
	}

	p.NominalY(labels...)

	height := defaultHeight
	if n := len(labels); n > 12 {
		height = vg.Length(n) * 0.4 * vg.Inch
	}
	if err := p.Save(defaultWidth, height, path); err != nil {
		return errors.NewRenderError("save bar chart "+path, err)
	}
	return nil
}
