package charts

import (
	"fmt"
	"image/color"
	"math"
	"path/filepath"
	"sort"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/ChaseAug0/babble-ssb-simulator/src/analysis"
	"github.com/ChaseAug0/babble-ssb-simulator/src/results"
)

const (
	chartWidth  = 12 * vg.Inch
	chartHeight = 8 * vg.Inch
	panelWidth  = 14 * vg.Inch
	panelHeight = 6 * vg.Inch
)

// delaySuffix formats the simulated network delay for chart titles, or
// "Unknown" when the table carries no delay columns.
func delaySuffix(t results.Table) string {
	if mean, std, ok := analysis.NetworkDelay(t); ok {
		return fmt.Sprintf("Mean=%gs, Std=%gs", mean, std)
	}
	return "Mean=Unknown, Std=Unknown"
}

// ByzantineImpact renders consensus time vs node count for one network
// profile, one error-bar line per Byzantine percentage. The table must
// already be failure-filtered and hold a single profile.
func ByzantineImpact(t results.Table, profile, outDir string) error {
	if len(t) == 0 {
		log.Warnf("no data for profile %s, skipping byzantine impact plot", profile)
		return nil
	}
	p := newPlot(
		fmt.Sprintf("Byzantine Impact: Consensus Time vs. Node Count\nNetwork: %s (%s)", profile, delaySuffix(t)),
		"Total Number of Nodes",
		"Consensus Time (ms)",
	)
	for i, pct := range analysis.Percentages(t) {
		pts := analysis.Series(t, pct)
		if len(pts) == 0 {
			continue
		}
		label := fmt.Sprintf("Byzantine nodes: %g%%", pct)
		if err := addErrorLine(p, pts, i, label); err != nil {
			return errors.Wrapf(err, "series %g%%", pct)
		}
	}
	// The n/3 tolerance bound has no y values to draw, so it appears as a
	// legend entry only, matching the red dashed convention.
	limit, err := referenceLine(plotter.XYs{}, vg.Points(4))
	if err != nil {
		return err
	}
	limit.Color = colorQuaternary
	p.Legend.Add("Theoretical BFT limit (33.3%)", limit)

	path := filepath.Join(outDir, profile+"_byzantine_impact.png")
	return savePlot(p, chartWidth, chartHeight, path)
}

// CombinedProfiles stacks one panel per network profile into a single
// image, sharing the x axis and the y range so profiles compare directly.
// Only the first panel carries the legend.
func CombinedProfiles(t results.Table, outDir string) error {
	profiles := analysis.Profiles(t)
	if len(profiles) == 0 {
		log.Warn("no data, skipping combined profile plot")
		return nil
	}
	yMax := analysis.MaxMeanTime(t) * 1.1
	pcts := analysis.Percentages(t)

	panels := make([]*vgPanel, 0, len(profiles))
	for i, profile := range profiles {
		pt := analysis.ByProfile(t, profile)
		p := newPlot(
			fmt.Sprintf("Network: %s (%s)", profile, delaySuffix(pt)),
			"",
			"Consensus Time (ms)",
		)
		if i == 0 {
			p.Title.Text = "Comparison of Consensus Time Across Network Conditions\n" + p.Title.Text
		}
		if i == len(profiles)-1 {
			p.X.Label.Text = "Total Number of Nodes"
		}
		p.Y.Min, p.Y.Max = 0, yMax
		for j, pct := range pcts {
			pts := analysis.Series(pt, pct)
			if len(pts) == 0 {
				continue
			}
			label := ""
			if i == 0 {
				label = fmt.Sprintf("Byzantine nodes: %g%%", pct)
			}
			if err := addErrorLine(p, pts, j, label); err != nil {
				return errors.Wrapf(err, "profile %s series %g%%", profile, pct)
			}
		}
		panels = append(panels, &vgPanel{plot: p, w: panelWidth, h: panelHeight})
	}

	img, err := tileVertical(panels)
	if err != nil {
		return errors.Wrap(err, "combined profiles")
	}
	return writePNG(img, filepath.Join(outDir, "combined_network_profiles.png"))
}

// NormalizedScaling renders consensus time per node on a log y axis for
// the fastest network profile (first in sort order), with O(1) and
// O(log n) reference curves.
func NormalizedScaling(t results.Table, outDir string) error {
	profiles := analysis.Profiles(t)
	if len(profiles) == 0 {
		log.Warn("no data, skipping normalized scaling plot")
		return nil
	}
	fastest := profiles[0]
	pt := analysis.ByProfile(t, fastest)

	p := newPlot(
		fmt.Sprintf("Normalized Scaling: Consensus Time per Node vs. Node Count\nNetwork: %s", fastest),
		"Total Number of Nodes",
		"Consensus Time per Node (ms/node)",
	)
	p.Y.Scale = plot.LogScale{}
	p.Y.Tick.Marker = plot.LogTicks{Prec: -1}

	var norms []analysis.Point
	for i, pct := range analysis.Percentages(pt) {
		pts := analysis.TimePerNode(analysis.Series(pt, pct))
		if len(pts) == 0 {
			continue
		}
		norms = append(norms, pts...)
		xys, _ := seriesXYs(pts)
		label := fmt.Sprintf("Byzantine nodes: %g%%", pct)
		if err := addLine(p, xys, i, label); err != nil {
			return errors.Wrapf(err, "series %g%%", pct)
		}
	}
	if len(norms) == 0 {
		log.Warnf("no data for profile %s, skipping normalized scaling plot", fastest)
		return nil
	}

	scale := scalingFactor(norms)
	maxNodes := analysis.MaxNodeCount(t)
	for _, ref := range []struct {
		label string
		f     func(x float64) float64
		dash  vg.Length
	}{
		{"O(1) scaling", func(x float64) float64 { return scale * 10 }, vg.Points(1)},
		{"O(log n) scaling", func(x float64) float64 { return scale * math.Log(x) }, vg.Points(4)},
	} {
		xys := sampleCurve(4, float64(maxNodes), 100, ref.f)
		line, err := referenceLine(xys, ref.dash)
		if err != nil {
			return err
		}
		line.Color = color.Gray{Y: 0x40}
		p.Add(line)
		p.Legend.Add(ref.label, line)
	}

	return savePlot(p, chartWidth, chartHeight, filepath.Join(outDir, "normalized_scaling.png"))
}

// scalingFactor anchors the reference curves near the data: median
// time-per-node over median node count.
func scalingFactor(pts []analysis.Point) float64 {
	times := make([]float64, len(pts))
	nodes := make([]float64, len(pts))
	for i, p := range pts {
		times[i] = p.Mean
		nodes[i] = float64(p.Nodes)
	}
	n := median(nodes)
	if n == 0 {
		return 1
	}
	return median(times) / n
}

func median(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	s := make([]float64, len(vals))
	copy(s, vals)
	sort.Float64s(s)
	mid := len(s) / 2
	if len(s)%2 == 0 {
		return (s[mid-1] + s[mid]) / 2
	}
	return s[mid]
}

func sampleCurve(x0, x1 float64, n int, f func(float64) float64) plotter.XYs {
	if x1 <= x0 {
		x1 = x0 + 1
	}
	xys := make(plotter.XYs, n)
	step := (x1 - x0) / float64(n-1)
	for i := range xys {
		x := x0 + step*float64(i)
		xys[i].X = x
		xys[i].Y = f(x)
	}
	return xys
}
