package charts

import (
	"fmt"
	"image/color"
	"math"
	"path/filepath"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"

	"github.com/ChaseAug0/babble-ssb-simulator/src/analysis"
	"github.com/ChaseAug0/babble-ssb-simulator/src/results"
)

// proj3 maps a normalized (x, y, z) point onto the drawing plane with a
// fixed isometric camera, x and y receding along the two diagonals and z
// going straight up.
func proj3(x, y, z float64) plotter.XY {
	const (
		cos30 = 0.8660254037844387
		sin30 = 0.5
	)
	return plotter.XY{
		X: (x - y) * cos30,
		Y: (x+y)*sin30*0.6 + z,
	}
}

// Scatter3D renders the (node count, Byzantine %, mean time) cloud for all
// profiles as an isometric projection: color per profile, glyph per
// percentage, points of one series connected.
func Scatter3D(t results.Table, outDir string) error {
	profiles := analysis.Profiles(t)
	if len(profiles) == 0 {
		log.Warn("no data, skipping 3d visualization")
		return nil
	}
	maxNodes := float64(analysis.MaxNodeCount(t))
	maxTime := analysis.MaxMeanTime(t)
	if maxNodes == 0 || maxTime == 0 {
		log.Warn("no data, skipping 3d visualization")
		return nil
	}
	pcts := analysis.Percentages(t)
	maxPct := pcts[len(pcts)-1]
	if maxPct == 0 {
		maxPct = 1
	}

	p := newPlot(
		"3D View: Impact of Node Count, Byzantine Percentage, and Network Conditions",
		"", "",
	)
	p.HideAxes()
	p.X.Min, p.X.Max = -1.1, 1.1
	p.Y.Min, p.Y.Max = -0.1, 1.8

	if err := addAxisFrame(p, maxNodes, maxPct, maxTime); err != nil {
		return err
	}

	for i, profile := range profiles {
		pt := analysis.ByProfile(t, profile)
		for j, pct := range pcts {
			pts := analysis.Series(pt, pct)
			if len(pts) == 0 {
				continue
			}
			xys := make(plotter.XYs, len(pts))
			for k, s := range pts {
				xys[k] = proj3(float64(s.Nodes)/maxNodes, pct/maxPct, s.Mean/maxTime)
			}

			line, err := plotter.NewLine(xys)
			if err != nil {
				return errors.Wrapf(err, "3d line %s %g%%", profile, pct)
			}
			line.Color = lighten(profileColor(i))
			line.Width = vg.Points(1.5)

			scatter, err := plotter.NewScatter(xys)
			if err != nil {
				return errors.Wrapf(err, "3d scatter %s %g%%", profile, pct)
			}
			scatter.GlyphStyle.Color = profileColor(i)
			scatter.GlyphStyle.Shape = plotutil.Shape(j)
			scatter.GlyphStyle.Radius = vg.Points(4)

			p.Add(line, scatter)
			if j == 0 {
				p.Legend.Add(fmt.Sprintf("%s, %g%% Byzantine", profile, pct), scatter)
			}
		}
	}

	return savePlot(p, 15*vg.Inch, 10*vg.Inch, filepath.Join(outDir, "3d_visualization.png"))
}

// addAxisFrame draws the three axis edges of the unit cube with end labels
// carrying the real data ranges.
func addAxisFrame(p *plot.Plot, maxNodes, maxPct, maxTime float64) error {
	origin := proj3(0, 0, 0)
	axes := []struct {
		end   plotter.XY
		label string
	}{
		{proj3(1, 0, 0), fmt.Sprintf("Total Number of Nodes (max %g)", maxNodes)},
		{proj3(0, 1, 0), fmt.Sprintf("Byzantine Nodes (max %g%%)", maxPct)},
		{proj3(0, 0, 1), fmt.Sprintf("Consensus Time (max %s ms)", trimFloat(maxTime))},
	}
	var labelXYs plotter.XYs
	var labelText []string
	for _, a := range axes {
		line, err := plotter.NewLine(plotter.XYs{origin, a.end})
		if err != nil {
			return errors.Wrap(err, "axis frame")
		}
		line.Color = color.Gray{Y: 0x60}
		line.Width = vg.Points(1)
		p.Add(line)
		labelXYs = append(labelXYs, a.end)
		labelText = append(labelText, a.label)
	}
	labels, err := plotter.NewLabels(plotter.XYLabels{XYs: labelXYs, Labels: labelText})
	if err != nil {
		return errors.Wrap(err, "axis labels")
	}
	for i := range labels.TextStyle {
		labels.TextStyle[i].XAlign = text.XCenter
	}
	p.Add(labels)
	return nil
}

func trimFloat(v float64) string {
	if v >= 100 {
		return fmt.Sprintf("%.0f", math.Round(v))
	}
	return fmt.Sprintf("%g", v)
}
