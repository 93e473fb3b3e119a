package analysis

import (
	"reflect"
	"testing"

	"github.com/ChaseAug0/babble-ssb-simulator/src/results"
)

func sampleTable() results.Table {
	return results.Table{
		{NetworkProfile: "wan", NodeCount: 8, ByzantinePct: 0, MeanTime: 200, StdTime: 20},
		{NetworkProfile: "wan", NodeCount: 4, ByzantinePct: 0, MeanTime: 100, StdTime: 10},
		{NetworkProfile: "wan", NodeCount: 4, ByzantinePct: 25, MeanTime: 150, StdTime: 15},
		{NetworkProfile: "lan", NodeCount: 4, ByzantinePct: 0, MeanTime: 50, StdTime: 5, NetworkMean: 0.01, NetworkStd: 0.002, HasNetwork: true},
		{NetworkProfile: "lan", NodeCount: 8, ByzantinePct: 0, MeanTime: 80, StdTime: 8, Failure: true},
	}
}

func TestExcludeFailed(t *testing.T) {
	got := ExcludeFailed(sampleTable())
	if len(got) != 4 {
		t.Fatalf("expected 4 rows after filtering, got %d", len(got))
	}
	for _, r := range got {
		if r.Failure {
			t.Errorf("failed row survived the filter: %+v", r)
		}
	}
}

func TestProfilesSorted(t *testing.T) {
	got := Profiles(sampleTable())
	want := []string{"lan", "wan"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Profiles = %v, want %v", got, want)
	}
}

func TestPercentagesAndNodeCountsSorted(t *testing.T) {
	if got, want := Percentages(sampleTable()), []float64{0, 25}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Percentages = %v, want %v", got, want)
	}
	if got, want := NodeCounts(sampleTable()), []int{4, 8}; !reflect.DeepEqual(got, want) {
		t.Fatalf("NodeCounts = %v, want %v", got, want)
	}
}

func TestSeriesSortedByNodeCount(t *testing.T) {
	wan := ByProfile(sampleTable(), "wan")
	pts := Series(wan, 0)
	if len(pts) != 2 {
		t.Fatalf("expected 2 points, got %d", len(pts))
	}
	if pts[0].Nodes != 4 || pts[1].Nodes != 8 {
		t.Errorf("points not sorted by node count: %+v", pts)
	}
	if pts[0].Mean != 100 || pts[1].Mean != 200 {
		t.Errorf("unexpected means: %+v", pts)
	}
}

func TestSeriesAveragesDuplicateNodeCounts(t *testing.T) {
	tbl := results.Table{
		{NodeCount: 4, ByzantinePct: 0, MeanTime: 100, StdTime: 10},
		{NodeCount: 4, ByzantinePct: 0, MeanTime: 200, StdTime: 30},
	}
	pts := Series(tbl, 0)
	if len(pts) != 1 {
		t.Fatalf("expected 1 point, got %d", len(pts))
	}
	if pts[0].Mean != 150 || pts[0].Std != 20 {
		t.Errorf("expected averaged point {150 20}, got %+v", pts[0])
	}
}

func TestSeriesEmptyForUnknownPercentage(t *testing.T) {
	if pts := Series(sampleTable(), 99); len(pts) != 0 {
		t.Fatalf("expected empty series, got %+v", pts)
	}
}

func TestSeriesDeterministic(t *testing.T) {
	a := Series(sampleTable(), 0)
	b := Series(sampleTable(), 0)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("identical input produced different series: %v vs %v", a, b)
	}
}

func TestTimePerNode(t *testing.T) {
	pts := TimePerNode([]Point{{Nodes: 4, Mean: 100, Std: 10}, {Nodes: 8, Mean: 200, Std: 20}})
	if pts[0].Mean != 25 || pts[0].Std != 2.5 {
		t.Errorf("unexpected normalized point: %+v", pts[0])
	}
	if pts[1].Mean != 25 || pts[1].Std != 2.5 {
		t.Errorf("unexpected normalized point: %+v", pts[1])
	}
}

func TestMaxima(t *testing.T) {
	if got := MaxMeanTime(sampleTable()); got != 200 {
		t.Errorf("MaxMeanTime = %v, want 200", got)
	}
	if got := MaxNodeCount(sampleTable()); got != 8 {
		t.Errorf("MaxNodeCount = %v, want 8", got)
	}
	if MaxMeanTime(nil) != 0 || MaxNodeCount(nil) != 0 {
		t.Errorf("empty table maxima should be 0")
	}
}

func TestNetworkDelay(t *testing.T) {
	lan := ByProfile(sampleTable(), "lan")
	mean, std, ok := NetworkDelay(lan)
	if !ok || mean != 0.01 || std != 0.002 {
		t.Fatalf("NetworkDelay = %v %v %v", mean, std, ok)
	}
	wan := ByProfile(sampleTable(), "wan")
	if _, _, ok := NetworkDelay(wan); ok {
		t.Fatalf("wan rows carry no delay columns")
	}
}

func TestPivotValues(t *testing.T) {
	p := NewPivot(results.Table{
		{NodeCount: 4, ByzantinePct: 0, MeanTime: 100},
		{NodeCount: 4, ByzantinePct: 0, MeanTime: 200},
		{NodeCount: 8, ByzantinePct: 25, MeanTime: 300},
	})
	if !reflect.DeepEqual(p.Nodes, []int{4, 8}) {
		t.Fatalf("Pivot.Nodes = %v", p.Nodes)
	}
	if !reflect.DeepEqual(p.Pcts, []float64{0, 25}) {
		t.Fatalf("Pivot.Pcts = %v", p.Pcts)
	}
	if v, ok := p.Value(4, 0); !ok || v != 150 {
		t.Errorf("Value(4,0) = %v %v, want 150 true", v, ok)
	}
	if v, ok := p.Value(8, 25); !ok || v != 300 {
		t.Errorf("Value(8,25) = %v %v, want 300 true", v, ok)
	}
	if _, ok := p.Value(8, 0); ok {
		t.Errorf("empty cell should report ok=false")
	}
}
