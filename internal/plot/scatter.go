package plot

import (
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"i94cli/internal/errors"
)

// WriteScatter renders an x/y point cloud
func WriteScatter(path, title, xLabel, yLabel string, xs, ys []float64) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	p.Add(plotter.NewGrid())

	xys := make(plotter.XYs, len(xs))
	for i := range xs {
		xys[i].X = xs[i]
		xys[i].Y = ys[i]
	}

	scatter, err := plotter.NewScatter(xys)
	if err != nil {
		return errors.NewRenderError("build scatter "+path, err)
	}
	scatter.Color = colorPrimary
	scatter.Radius = vg.Points(1.5)
	p.Add(scatter)

	if err := p.Save(defaultWidth, defaultHeight, path); err != nil {
		return errors.NewRenderError("save scatter "+path, err)
	}
	return nil
}
