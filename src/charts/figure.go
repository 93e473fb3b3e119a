package charts

import (
	"fmt"
	"path/filepath"

	"github.com/pkg/errors"
	"gonum.org/v1/plot/vg"
)

// StaticFigure is the embedded protocol-comparison dataset: per-protocol
// latency (seconds) and standard deviation over the fail-stop node counts
// 0 through 5.
type StaticFigure struct {
	Title     string
	Protocols []string
	Faults    []int
	Means     [][]float64 // [protocol][fault]
	Stds      [][]float64
	YMax      float64
}

// Fig7Data returns the protocol-latency comparison with the measured
// SSB-Babble results appended, values in seconds.
func Fig7Data() StaticFigure {
	ssbMeans := []float64{3341.91, 3413.89, 3576.63, 3742.82, 4002.25, 4423.41}
	ssbStds := []float64{115, 139, 178, 232, 246, 400}
	for i := range ssbMeans {
		ssbMeans[i] /= 1000
		ssbStds[i] /= 1000
	}
	return StaticFigure{
		Title: "Fig. 7: Time usage across different numbers of fail-stop nodes (λ = 1000; N = (1000, 300)).",
		Protocols: []string{
			"ADD+v1", "ADD+v2", "ADD+v3", "Algorand", "Async BA",
			"PBFT", "HotStuff+NSL", "LibraBFT", "SSB-Babble",
		},
		Faults: []int{0, 1, 2, 3, 4, 5},
		Means: [][]float64{
			{7, 7.1, 7.2, 7.3, 7.4, 7.5},
			{7, 7.1, 7.2, 7.3, 7.4, 7.5},
			{13.5, 13.7, 13.8, 14, 14.1, 14.2},
			{4.5, 4.6, 4.7, 4.8, 5, 5.8},
			{13, 13.2, 13.4, 13.6, 13.8, 12.2},
			{3.3, 3.5, 3.7, 3.9, 4.3, 5},
			{2.5, 3, 3.5, 4, 5, 25},
			{2.2, 2.5, 3.5, 3.7, 6, 6.3},
			ssbMeans,
		},
		Stds: [][]float64{
			{0.3, 0.3, 0.4, 0.4, 0.4, 0.4},
			{1, 1, 1, 1, 0.8, 0.8},
			{1.5, 1.5, 2, 2, 2, 2},
			{0.2, 0.2, 0.2, 0.2, 0.3, 1.5},
			{4, 4, 3.5, 3.5, 3, 3},
			{0.1, 0.1, 0.2, 0.3, 0.5, 0.8},
			{0.1, 0.1, 0.2, 0.3, 0.7, 1},
			{0.1, 0.1, 0.2, 0.2, 0.3, 0.3},
			ssbStds,
		},
		YMax: 25,
	}
}

// Validate checks that the mean and stddev tables are rectangular over
// protocols × fault counts.
func (f StaticFigure) Validate() error {
	if len(f.Means) != len(f.Protocols) || len(f.Stds) != len(f.Protocols) {
		return errors.Errorf("have %d protocols but %d mean rows and %d std rows",
			len(f.Protocols), len(f.Means), len(f.Stds))
	}
	for i := range f.Means {
		if len(f.Means[i]) != len(f.Faults) || len(f.Stds[i]) != len(f.Faults) {
			return errors.Errorf("protocol %s: expected %d fault columns", f.Protocols[i], len(f.Faults))
		}
	}
	return nil
}

// GroupedLatencyBars renders the figure as a grouped bar chart, one bar
// group per protocol, one color-ramped bar per fault count, error
// whiskers from the stddev table.
func GroupedLatencyBars(f StaticFigure, outDir string) error {
	if err := f.Validate(); err != nil {
		return errors.Wrap(err, "static figure")
	}

	p := newPlot(f.Title, "", "Latency (s)")
	p.Y.Min, p.Y.Max = 0, f.YMax
	p.NominalX(f.Protocols...)

	barWidth := vg.Points(9)
	groupWidth := barWidth * vg.Length(len(f.Faults))
	for i, fault := range f.Faults {
		values := make([]float64, len(f.Protocols))
		stds := make([]float64, len(f.Protocols))
		for j := range f.Protocols {
			values[j] = f.Means[j][i]
			stds[j] = f.Stds[j][i]
		}
		bars, err := NewErrBars(values, stds, barWidth)
		if err != nil {
			return errors.Wrapf(err, "bars f=%d", fault)
		}
		bars.Color = faultColors[i%len(faultColors)]
		bars.Offset = barWidth*vg.Length(i) - groupWidth/2 + barWidth/2
		p.Add(bars)
		p.Legend.Add(fmt.Sprintf("f = %d", fault), bars)
	}

	path := filepath.Join(outDir, "updated_fig7_with_ssb_babble.png")
	return savePlot(p, 14*vg.Inch, 8*vg.Inch, path)
}
