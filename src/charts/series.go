package charts

import (
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/ChaseAug0/babble-ssb-simulator/src/analysis"
)

// errPoints satisfies both plotter.XYer and plotter.YErrorer for
// plotter.NewYErrorBars.
type errPoints struct {
	plotter.XYs
	plotter.YErrors
}

func seriesXYs(pts []analysis.Point) (plotter.XYs, plotter.YErrors) {
	xys := make(plotter.XYs, len(pts))
	yerrs := make(plotter.YErrors, len(pts))
	for i, pt := range pts {
		xys[i].X = float64(pt.Nodes)
		xys[i].Y = pt.Mean
		yerrs[i].Low = pt.Std
		yerrs[i].High = pt.Std
	}
	return xys, yerrs
}

// addErrorLine adds a line with cycling marker glyphs and symmetric error
// bars. idx selects the color/marker pair; label "" suppresses the legend
// entry (the combined view labels only its first panel).
func addErrorLine(p *plot.Plot, pts []analysis.Point, idx int, label string) error {
	xys, yerrs := seriesXYs(pts)

	line, err := plotter.NewLine(xys)
	if err != nil {
		return err
	}
	line.Color = plotutil.Color(idx)
	line.Width = vg.Points(2)

	scatter, err := plotter.NewScatter(xys)
	if err != nil {
		return err
	}
	scatter.GlyphStyle.Color = plotutil.Color(idx)
	scatter.GlyphStyle.Shape = plotutil.Shape(idx)
	scatter.GlyphStyle.Radius = vg.Points(3)

	bars, err := plotter.NewYErrorBars(errPoints{xys, yerrs})
	if err != nil {
		return err
	}
	bars.LineStyle.Color = plotutil.Color(idx)
	bars.CapWidth = vg.Points(5)

	p.Add(line, scatter, bars)
	if label != "" {
		p.Legend.Add(label, line, scatter)
	}
	return nil
}

// addLine adds a plain marker line without error bars.
func addLine(p *plot.Plot, xys plotter.XYs, idx int, label string) error {
	line, err := plotter.NewLine(xys)
	if err != nil {
		return err
	}
	line.Color = plotutil.Color(idx)
	line.Width = vg.Points(2)

	scatter, err := plotter.NewScatter(xys)
	if err != nil {
		return err
	}
	scatter.GlyphStyle.Color = plotutil.Color(idx)
	scatter.GlyphStyle.Shape = plotutil.Shape(idx)
	scatter.GlyphStyle.Radius = vg.Points(3)

	p.Add(line, scatter)
	if label != "" {
		p.Legend.Add(label, line, scatter)
	}
	return nil
}

// referenceLine builds a dashed line for legend-only entries and reference
// curves.
func referenceLine(xys plotter.XYs, c vg.Length) (*plotter.Line, error) {
	line, err := plotter.NewLine(xys)
	if err != nil {
		return nil, err
	}
	line.Width = vg.Points(1.5)
	line.Dashes = []vg.Length{c, c}
	return line, nil
}
