package plot

import (
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"i94cli/internal/errors"
)

var lineColors = []color.RGBA{colorPrimary, colorSecondary, colorMuted, colorHighlight}

// WriteLine renders one or more numeric series as a line chart
func WriteLine(path, title, xLabel, yLabel string, series ...Series) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	p.Add(plotter.NewGrid())

	if err := addLines(p, series); err != nil {
		return err
	}

	if err := p.Save(defaultWidth, defaultHeight, path); err != nil {
		return errors.NewRenderError("save line chart "+path, err)
	}
	return nil
}

// WriteCategoryLine renders series over a nominal (labelled) x axis,
// e.g. weekday names. Series x values are indexes into labels.
func WriteCategoryLine(path, title, xLabel, yLabel string, labels []string, series ...Series) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	p.Add(plotter.NewGrid())
	p.NominalX(labels...)

	if err := addLines(p, series); err != nil {
		return err
	}

	if err := p.Save(defaultWidth, defaultHeight, path); err != nil {
		return errors.NewRenderError("save category line chart "+path, err)
	}
	return nil
}

func addLines(p *plot.Plot, series []Series) error {
	for i, s := range series {
		xys := make(plotter.XYs, len(s.XS))
		for j := range s.XS {
			xys[j].X = s.XS[j]
			xys[j].Y = s.YS[j]
		}

		line, points, err := plotter.NewLinePoints(xys)
		if err != nil {
			return errors.NewRenderError("build line series "+s.Name, err)
		}
		c := lineColors[i%len(lineColors)]
		line.Color = c
		line.Width = vg.Points(1.5)
		points.Color = c
		points.Radius = vg.Points(2)

		p.Add(line, points)
		if s.Name != "" {
			p.Legend.Add(s.Name, line, points)
		}
	}
	p.Legend.Top = true
	return nil
}
