package charts

import (
	"fmt"
	"path/filepath"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/ChaseAug0/babble-ssb-simulator/src/analysis"
	"github.com/ChaseAug0/babble-ssb-simulator/src/results"
)

const (
	cellWidth  = 5 * vg.Inch
	cellHeight = 3.75 * vg.Inch
)

// Comprehensive renders the full profile × Byzantine-percentage grid, one
// error-bar line per cell with a shared y range. Combinations without rows
// get a "No Data" cell instead of being dropped, so the grid shape stays
// regular.
func Comprehensive(t results.Table, outDir string) error {
	profiles := analysis.Profiles(t)
	pcts := analysis.Percentages(t)
	if len(profiles) == 0 || len(pcts) == 0 {
		log.Warn("no data, skipping comprehensive plot")
		return nil
	}
	yMax := analysis.MaxMeanTime(t) * 1.1

	rows := make([][]*vgPanel, len(profiles))
	for i, profile := range profiles {
		pt := analysis.ByProfile(t, profile)
		rows[i] = make([]*vgPanel, len(pcts))
		for j, pct := range pcts {
			title := fmt.Sprintf("%s, %g%% Byzantine", profile, pct)
			if i == 0 && j == 0 {
				title = "Comprehensive View: Consensus Time Across All Configurations\n" + title
			}
			pts := analysis.Series(pt, pct)

			var p *plot.Plot
			if len(pts) == 0 {
				p = noDataPanel(title)
			} else {
				p = newPlot(title, "", "")
				p.Y.Min, p.Y.Max = 0, yMax
				if j == 0 {
					p.Y.Label.Text = "Consensus Time (ms)"
				}
				if i == len(profiles)-1 {
					p.X.Label.Text = "Nodes"
				}
				if err := addErrorLine(p, pts, 0, ""); err != nil {
					return errors.Wrapf(err, "cell %s %g%%", profile, pct)
				}
			}
			rows[i][j] = &vgPanel{plot: p, w: cellWidth, h: cellHeight}
		}
	}

	img, err := tileGrid(rows)
	if err != nil {
		return errors.Wrap(err, "comprehensive grid")
	}
	return writePNG(img, filepath.Join(outDir, "comprehensive_visualization.png"))
}

func noDataPanel(title string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.HideAxes()
	p.X.Min, p.X.Max = 0, 1
	p.Y.Min, p.Y.Max = 0, 1
	labels, err := plotter.NewLabels(plotter.XYLabels{
		XYs:    plotter.XYs{{X: 0.5, Y: 0.5}},
		Labels: []string{"No Data"},
	})
	if err == nil {
		p.Add(labels)
	}
	return p
}
