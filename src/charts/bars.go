package charts

import (
	"image/color"
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// ErrBars draws one column of a grouped bar chart: a bar per category index
// with an error whisker at its top. Offset shifts the bars sideways in
// drawing units so several ErrBars rendered side by side form groups, the
// same layout plotter.BarChart uses.
type ErrBars struct {
	Values []float64
	Errs   []float64

	Width  vg.Length
	Offset vg.Length

	Color      color.Color
	LineStyle  draw.LineStyle
	ErrorStyle draw.LineStyle
	CapWidth   vg.Length
}

// NewErrBars builds the plotter for one series of values with symmetric
// error heights. Error heights must be non-negative.
func NewErrBars(values, errs []float64, width vg.Length) (*ErrBars, error) {
	if len(values) != len(errs) {
		return nil, errors.Errorf("values (%d) and errors (%d) length mismatch", len(values), len(errs))
	}
	for i, e := range errs {
		if e < 0 || math.IsNaN(e) {
			return nil, errors.Errorf("error bar %d has invalid height %v", i, e)
		}
	}
	ls := plotter.DefaultLineStyle
	ls.Width = 0
	return &ErrBars{
		Values:     values,
		Errs:       errs,
		Width:      width,
		Color:      color.Gray{Y: 0x80},
		LineStyle:  ls,
		ErrorStyle: draw.LineStyle{Color: color.Gray{Y: 0x30}, Width: vg.Points(1)},
		CapWidth:   vg.Points(3),
	}, nil
}

// Plot implements plot.Plotter.
func (b *ErrBars) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)
	for i, v := range b.Values {
		x := trX(float64(i)) + b.Offset
		if !c.ContainsX(x) {
			continue
		}
		y0 := trY(0)
		y1 := trY(v)
		bar := []vg.Point{
			{X: x - b.Width/2, Y: y0},
			{X: x + b.Width/2, Y: y0},
			{X: x + b.Width/2, Y: y1},
			{X: x - b.Width/2, Y: y1},
		}
		c.FillPolygon(b.Color, c.ClipPolygonXY(bar))
		if b.LineStyle.Width > 0 {
			c.StrokeLines(b.LineStyle, c.ClipLinesXY(append(bar, bar[0]))...)
		}
		if e := b.Errs[i]; e > 0 {
			yLo := trY(v - e)
			yHi := trY(v + e)
			c.StrokeLine2(b.ErrorStyle, x, yLo, x, yHi)
			c.StrokeLine2(b.ErrorStyle, x-b.CapWidth, yHi, x+b.CapWidth, yHi)
			c.StrokeLine2(b.ErrorStyle, x-b.CapWidth, yLo, x+b.CapWidth, yLo)
		}
	}
}

// DataRange implements plot.DataRanger. Bars sit at integer category
// positions; the vertical range covers every whisker.
func (b *ErrBars) DataRange() (xmin, xmax, ymin, ymax float64) {
	xmin, xmax = -0.5, float64(len(b.Values))-0.5
	ymin, ymax = 0, 0
	for i, v := range b.Values {
		if v+b.Errs[i] > ymax {
			ymax = v + b.Errs[i]
		}
		if v-b.Errs[i] < ymin {
			ymin = v - b.Errs[i]
		}
	}
	return xmin, xmax, ymin, ymax
}

// GlyphBoxes implements plot.GlyphBoxer, reserving room for the offset
// bars so a group's outer bars are not clipped at the plot edge.
func (b *ErrBars) GlyphBoxes(plt *plot.Plot) []plot.GlyphBox {
	boxes := make([]plot.GlyphBox, len(b.Values))
	for i := range b.Values {
		boxes[i].X = plt.X.Norm(float64(i))
		boxes[i].Y = plt.Y.Norm(b.Values[i])
		boxes[i].Rectangle = vg.Rectangle{
			Min: vg.Point{X: b.Offset - b.Width/2},
			Max: vg.Point{X: b.Offset + b.Width/2},
		}
	}
	return boxes
}

// Thumbnail implements plot.Thumbnailer for the legend swatch.
func (b *ErrBars) Thumbnail(c *draw.Canvas) {
	pts := []vg.Point{
		{X: c.Min.X, Y: c.Min.Y},
		{X: c.Min.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Min.Y},
	}
	c.FillPolygon(b.Color, pts)
}
