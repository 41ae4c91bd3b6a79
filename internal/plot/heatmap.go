package plot

import (
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"

	"i94cli/internal/analysis"
	"i94cli/internal/errors"
)

// monthHourGrid adapts a HeatmapGrid to plotter.GridXYZ.
// Columns are hours, rows are months.
type monthHourGrid struct {
	g analysis.HeatmapGrid
}

func (m monthHourGrid) Dims() (c, r int) { return len(m.g.Hours), len(m.g.Months) }
func (m monthHourGrid) X(c int) float64  { return float64(m.g.Hours[c]) }
func (m monthHourGrid) Y(r int) float64  { return float64(m.g.Months[r]) }

func (m monthHourGrid) Z(c, r int) float64 {
	v := m.g.Rel[r][c]
	if math.IsNaN(v) {
		return 0
	}
	return v
}

// WriteHeatmap renders a month-by-hour relative-frequency grid
func WriteHeatmap(path, title string, grid analysis.HeatmapGrid) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Hour of Day"
	p.Y.Label.Text = "Month"

	pal := moreland.SmoothBlueRed().Palette(64)
	hm := plotter.NewHeatMap(monthHourGrid{grid}, pal)
	p.Add(hm)

	if err := p.Save(defaultWidth, defaultHeight, path); err != nil {
		return errors.NewRenderError("save heatmap "+path, err)
	}
	return nil
}
