// Package plot renders aggregate tables as PNG charts. Rendering is
// pure: every filter and aggregation has already happened upstream, and
// nothing here touches observation data beyond drawing it.
package plot

import (
	"image/color"

	"gonum.org/v1/plot/vg"
)

const (
	defaultWidth  = 8 * vg.Inch
	defaultHeight = 5 * vg.Inch
)

var (
	colorPrimary   = color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff}
	colorSecondary = color.RGBA{R: 0xff, G: 0x7f, B: 0x0e, A: 0xff}
	colorHighlight = color.RGBA{R: 0xd6, G: 0x27, B: 0x28, A: 0xff}
	colorMuted     = color.RGBA{R: 0x2c, G: 0xa0, B: 0x2c, A: 0xff}
)

// Series is one named line or point set
type Series struct {
	Name string
	XS   []float64
	YS   []float64
}
