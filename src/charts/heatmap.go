package charts

import (
	"fmt"
	"math"
	"path/filepath"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/brewer"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"

	"github.com/ChaseAug0/babble-ssb-simulator/src/analysis"
	"github.com/ChaseAug0/babble-ssb-simulator/src/results"
)

// heatGrid adapts an analysis.Pivot to plotter.GridXYZ. Cells without
// data report NaN, which the heat map leaves blank.
type heatGrid struct {
	pivot *analysis.Pivot
}

func (g heatGrid) Dims() (c, r int) { return len(g.pivot.Pcts), len(g.pivot.Nodes) }
func (g heatGrid) X(c int) float64  { return float64(c) }
func (g heatGrid) Y(r int) float64  { return float64(r) }

func (g heatGrid) Z(c, r int) float64 {
	v, ok := g.pivot.Value(g.pivot.Nodes[r], g.pivot.Pcts[c])
	if !ok {
		return math.NaN()
	}
	return v
}

// Heatmap renders the node-count × Byzantine-percentage pivot of one
// network profile as an annotated heat map.
func Heatmap(t results.Table, profile, outDir string) error {
	if len(t) == 0 {
		log.Warnf("no data for profile %s, skipping heatmap", profile)
		return nil
	}
	pivot := analysis.NewPivot(t)
	if len(pivot.Nodes) == 0 || len(pivot.Pcts) == 0 {
		log.Warnf("no data for profile %s, skipping heatmap", profile)
		return nil
	}

	pal, err := brewer.GetPalette(brewer.TypeSequential, "YlGnBu", 9)
	if err != nil {
		return errors.Wrap(err, "heatmap palette")
	}
	hm := plotter.NewHeatMap(heatGrid{pivot}, pal)

	p := newPlot(
		fmt.Sprintf("Heatmap: Node Count vs. Byzantine Percentage\nNetwork: %s (%s)", profile, delaySuffix(t)),
		"Byzantine Nodes (%)",
		"Total Number of Nodes",
	)
	p.Add(hm)
	p.X.Tick.Marker = indexTicks(floatLabels(pivot.Pcts))
	p.Y.Tick.Marker = indexTicks(intLabels(pivot.Nodes))

	if labels, err := cellAnnotations(pivot); err == nil {
		p.Add(labels)
	}

	path := filepath.Join(outDir, profile+"_heatmap.png")
	return savePlot(p, chartWidth, chartHeight, path)
}

// cellAnnotations puts the rounded mean time at the center of each
// populated cell.
func cellAnnotations(pivot *analysis.Pivot) (*plotter.Labels, error) {
	var xys plotter.XYs
	var texts []string
	for r, nodes := range pivot.Nodes {
		for c, pct := range pivot.Pcts {
			v, ok := pivot.Value(nodes, pct)
			if !ok {
				continue
			}
			xys = append(xys, plotter.XY{X: float64(c), Y: float64(r)})
			texts = append(texts, fmt.Sprintf("%.0f", v))
		}
	}
	labels, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: texts})
	if err != nil {
		return nil, err
	}
	for i := range labels.TextStyle {
		labels.TextStyle[i].XAlign = text.XCenter
		labels.TextStyle[i].YAlign = text.YCenter
	}
	return labels, nil
}

func indexTicks(labels []string) plot.ConstantTicks {
	ticks := make(plot.ConstantTicks, len(labels))
	for i, l := range labels {
		ticks[i] = plot.Tick{Value: float64(i), Label: l}
	}
	return ticks
}

func floatLabels(vals []float64) []string {
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = fmt.Sprintf("%g", v)
	}
	return out
}

func intLabels(vals []int) []string {
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = fmt.Sprintf("%d", v)
	}
	return out
}
