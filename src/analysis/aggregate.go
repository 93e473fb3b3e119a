// Package analysis reshapes experiment result tables for plotting:
// failure filtering, grouping by (profile, node count, Byzantine share),
// pivoting and derived metrics. It does no smoothing or interpolation.
package analysis

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/ChaseAug0/babble-ssb-simulator/src/results"
)

// Point is one aggregated sample of a series: consensus time statistics at
// a given cluster size.
type Point struct {
	Nodes int
	Mean  float64
	Std   float64
}

// ExcludeFailed returns the table without failure-flagged trials.
func ExcludeFailed(t results.Table) results.Table {
	out := make(results.Table, 0, len(t))
	for _, r := range t {
		if !r.Failure {
			out = append(out, r)
		}
	}
	return out
}

// ByProfile returns the rows belonging to one network profile.
func ByProfile(t results.Table, profile string) results.Table {
	var out results.Table
	for _, r := range t {
		if r.NetworkProfile == profile {
			out = append(out, r)
		}
	}
	return out
}

// Profiles returns the distinct network profiles, sorted.
func Profiles(t results.Table) []string {
	seen := map[string]bool{}
	var out []string
	for _, r := range t {
		if !seen[r.NetworkProfile] {
			seen[r.NetworkProfile] = true
			out = append(out, r.NetworkProfile)
		}
	}
	sort.Strings(out)
	return out
}

// Percentages returns the distinct Byzantine percentages, ascending.
func Percentages(t results.Table) []float64 {
	seen := map[float64]bool{}
	var out []float64
	for _, r := range t {
		if !seen[r.ByzantinePct] {
			seen[r.ByzantinePct] = true
			out = append(out, r.ByzantinePct)
		}
	}
	sort.Float64s(out)
	return out
}

// NodeCounts returns the distinct cluster sizes, ascending.
func NodeCounts(t results.Table) []int {
	seen := map[int]bool{}
	var out []int
	for _, r := range t {
		if !seen[r.NodeCount] {
			seen[r.NodeCount] = true
			out = append(out, r.NodeCount)
		}
	}
	sort.Ints(out)
	return out
}

// Series returns the rows at one Byzantine percentage as points sorted by
// node count ascending. Multiple trials at the same node count average
// their means and stddevs. The result is empty when no row matches.
func Series(t results.Table, pct float64) []Point {
	means := map[int][]float64{}
	stds := map[int][]float64{}
	for _, r := range t {
		if r.ByzantinePct == pct {
			means[r.NodeCount] = append(means[r.NodeCount], r.MeanTime)
			stds[r.NodeCount] = append(stds[r.NodeCount], r.StdTime)
		}
	}
	nodes := make([]int, 0, len(means))
	for n := range means {
		nodes = append(nodes, n)
	}
	sort.Ints(nodes)
	out := make([]Point, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, Point{
			Nodes: n,
			Mean:  stat.Mean(means[n], nil),
			Std:   stat.Mean(stds[n], nil),
		})
	}
	return out
}

// TimePerNode divides each point's consensus time by its cluster size,
// the normalized-scaling view. Std is scaled the same way.
func TimePerNode(series []Point) []Point {
	out := make([]Point, len(series))
	for i, p := range series {
		out[i] = Point{
			Nodes: p.Nodes,
			Mean:  p.Mean / float64(p.Nodes),
			Std:   p.Std / float64(p.Nodes),
		}
	}
	return out
}

// MaxMeanTime returns the largest per-trial mean consensus time, 0 for an
// empty table.
func MaxMeanTime(t results.Table) float64 {
	max := 0.0
	for _, r := range t {
		if r.MeanTime > max {
			max = r.MeanTime
		}
	}
	return max
}

// MaxNodeCount returns the largest cluster size, 0 for an empty table.
func MaxNodeCount(t results.Table) int {
	max := 0
	for _, r := range t {
		if r.NodeCount > max {
			max = r.NodeCount
		}
	}
	return max
}

// NetworkDelay reports the simulated delay characteristics recorded for the
// table, taken from the first row that carries them.
func NetworkDelay(t results.Table) (mean, std float64, ok bool) {
	for _, r := range t {
		if r.HasNetwork {
			return r.NetworkMean, r.NetworkStd, true
		}
	}
	return 0, 0, false
}

// Pivot is a node-count × Byzantine-percentage grid of mean consensus
// times, the input of the heatmap renderer.
type Pivot struct {
	Nodes []int
	Pcts  []float64
	cells map[string][]float64
}

func cellKey(nodes int, pct float64) string {
	return fmt.Sprintf("%d|%g", nodes, pct)
}

// NewPivot groups the table by (node count, Byzantine percentage). Cell
// values average MeanTime over exactly the matching rows.
func NewPivot(t results.Table) *Pivot {
	p := &Pivot{
		Nodes: NodeCounts(t),
		Pcts:  Percentages(t),
		cells: map[string][]float64{},
	}
	for _, r := range t {
		k := cellKey(r.NodeCount, r.ByzantinePct)
		p.cells[k] = append(p.cells[k], r.MeanTime)
	}
	return p
}

// Value returns the mean consensus time at a (node count, percentage) cell,
// ok=false when the combination has no rows.
func (p *Pivot) Value(nodes int, pct float64) (float64, bool) {
	vals, ok := p.cells[cellKey(nodes, pct)]
	if !ok {
		return 0, false
	}
	return stat.Mean(vals, nil), true
}
