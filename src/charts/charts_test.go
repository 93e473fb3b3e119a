package charts

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"gonum.org/v1/plot/vg"

	"github.com/ChaseAug0/babble-ssb-simulator/src/analysis"
	"github.com/ChaseAug0/babble-ssb-simulator/src/results"
	"github.com/ChaseAug0/babble-ssb-simulator/src/tracelog"
)

func testTable() results.Table {
	return results.Table{
		{NetworkProfile: "lan", NodeCount: 4, ByzantinePct: 0, MeanTime: 50, StdTime: 5, NetworkMean: 0.01, NetworkStd: 0.002, HasNetwork: true},
		{NetworkProfile: "lan", NodeCount: 8, ByzantinePct: 0, MeanTime: 90, StdTime: 9, NetworkMean: 0.01, NetworkStd: 0.002, HasNetwork: true},
		{NetworkProfile: "lan", NodeCount: 4, ByzantinePct: 25, MeanTime: 70, StdTime: 7, NetworkMean: 0.01, NetworkStd: 0.002, HasNetwork: true},
		{NetworkProfile: "lan", NodeCount: 8, ByzantinePct: 25, MeanTime: 130, StdTime: 13, NetworkMean: 0.01, NetworkStd: 0.002, HasNetwork: true},
		{NetworkProfile: "wan", NodeCount: 4, ByzantinePct: 0, MeanTime: 150, StdTime: 15},
		{NetworkProfile: "wan", NodeCount: 8, ByzantinePct: 0, MeanTime: 280, StdTime: 28},
	}
}

// requirePNG fails the test unless path exists and decodes as PNG.
func requirePNG(t *testing.T, path string) {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("expected chart file: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
	if img.Bounds().Dx() == 0 || img.Bounds().Dy() == 0 {
		t.Fatalf("%s decoded to an empty image", path)
	}
}

func TestByzantineImpactWritesPNG(t *testing.T) {
	dir := t.TempDir()
	lan := analysis.ByProfile(testTable(), "lan")
	if err := ByzantineImpact(lan, "lan", dir); err != nil {
		t.Fatalf("ByzantineImpact: %v", err)
	}
	requirePNG(t, filepath.Join(dir, "lan_byzantine_impact.png"))
}

func TestByzantineImpactSkipsEmptyTable(t *testing.T) {
	dir := t.TempDir()
	if err := ByzantineImpact(nil, "empty", dir); err != nil {
		t.Fatalf("empty table should not error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "empty_byzantine_impact.png")); !os.IsNotExist(err) {
		t.Fatalf("no chart expected for an empty table")
	}
}

func TestCombinedProfilesWritesPNG(t *testing.T) {
	dir := t.TempDir()
	if err := CombinedProfiles(testTable(), dir); err != nil {
		t.Fatalf("CombinedProfiles: %v", err)
	}
	requirePNG(t, filepath.Join(dir, "combined_network_profiles.png"))
}

func TestNormalizedScalingWritesPNG(t *testing.T) {
	dir := t.TempDir()
	if err := NormalizedScaling(testTable(), dir); err != nil {
		t.Fatalf("NormalizedScaling: %v", err)
	}
	requirePNG(t, filepath.Join(dir, "normalized_scaling.png"))
}

func TestScatter3DWritesPNG(t *testing.T) {
	dir := t.TempDir()
	if err := Scatter3D(testTable(), dir); err != nil {
		t.Fatalf("Scatter3D: %v", err)
	}
	requirePNG(t, filepath.Join(dir, "3d_visualization.png"))
}

func TestHeatmapWritesPNG(t *testing.T) {
	dir := t.TempDir()
	lan := analysis.ByProfile(testTable(), "lan")
	if err := Heatmap(lan, "lan", dir); err != nil {
		t.Fatalf("Heatmap: %v", err)
	}
	requirePNG(t, filepath.Join(dir, "lan_heatmap.png"))
}

func TestComprehensiveHandlesEmptyCells(t *testing.T) {
	// wan has no 25% rows, so the grid contains a "No Data" cell.
	dir := t.TempDir()
	if err := Comprehensive(testTable(), dir); err != nil {
		t.Fatalf("Comprehensive: %v", err)
	}
	requirePNG(t, filepath.Join(dir, "comprehensive_visualization.png"))
}

func TestEmptyTableRenderersAllSkip(t *testing.T) {
	dir := t.TempDir()
	for name, fn := range map[string]func() error{
		"combined":      func() error { return CombinedProfiles(nil, dir) },
		"normalized":    func() error { return NormalizedScaling(nil, dir) },
		"scatter3d":     func() error { return Scatter3D(nil, dir) },
		"comprehensive": func() error { return Comprehensive(nil, dir) },
	} {
		if err := fn(); err != nil {
			t.Errorf("%s: empty table should not error: %v", name, err)
		}
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("no files expected, found %d", len(entries))
	}
}

func TestFig7DataShape(t *testing.T) {
	f := Fig7Data()
	if err := f.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if len(f.Protocols) != 9 || len(f.Faults) != 6 {
		t.Fatalf("expected 9 protocols x 6 fault counts, got %d x %d", len(f.Protocols), len(f.Faults))
	}
	bars := 0
	for i := range f.Means {
		for j := range f.Means[i] {
			bars++
			if f.Stds[i][j] < 0 {
				t.Errorf("negative stddev for %s f=%d", f.Protocols[i], f.Faults[j])
			}
			if f.Means[i][j] <= 0 {
				t.Errorf("non-positive latency for %s f=%d", f.Protocols[i], f.Faults[j])
			}
		}
	}
	if bars != 54 {
		t.Fatalf("expected 54 bars, got %d", bars)
	}
	if f.Protocols[len(f.Protocols)-1] != "SSB-Babble" {
		t.Errorf("SSB-Babble should be the last protocol")
	}
}

func TestGroupedLatencyBarsWritesPNG(t *testing.T) {
	dir := t.TempDir()
	if err := GroupedLatencyBars(Fig7Data(), dir); err != nil {
		t.Fatalf("GroupedLatencyBars: %v", err)
	}
	requirePNG(t, filepath.Join(dir, "updated_fig7_with_ssb_babble.png"))
}

func TestGroupedLatencyBarsRejectsRaggedData(t *testing.T) {
	f := Fig7Data()
	f.Means = f.Means[:len(f.Means)-1]
	if err := GroupedLatencyBars(f, t.TempDir()); err == nil {
		t.Fatalf("expected validation error for ragged data")
	}
}

func TestNewErrBarsValidation(t *testing.T) {
	if _, err := NewErrBars([]float64{1, 2}, []float64{0.1}, vg.Points(9)); err == nil {
		t.Errorf("expected length mismatch error")
	}
	if _, err := NewErrBars([]float64{1}, []float64{-0.5}, vg.Points(9)); err == nil {
		t.Errorf("expected negative error height error")
	}
}

func TestErrBarsDataRangeCoversWhiskers(t *testing.T) {
	b, err := NewErrBars([]float64{2, 5}, []float64{1, 2}, vg.Points(9))
	if err != nil {
		t.Fatalf("NewErrBars: %v", err)
	}
	xmin, xmax, ymin, ymax := b.DataRange()
	if xmin != -0.5 || xmax != 1.5 {
		t.Errorf("x range = [%v, %v]", xmin, xmax)
	}
	if ymin != 0 || ymax != 7 {
		t.Errorf("y range = [%v, %v], want [0, 7]", ymin, ymax)
	}
}

func TestTraceTimelineWritesPNG(t *testing.T) {
	tr := &tracelog.Trace{
		Nodes: 3,
		Packets: []tracelog.Packet{
			{SendTime: 0, RecvTime: 10, Src: 1, Dst: 2, Request: "r1", Type: "prepare"},
			{SendTime: 0, RecvTime: 12, Src: 1, Dst: 3, Request: "r1", Type: "prepare"},
			{SendTime: 15, RecvTime: 22, Src: 2, Dst: 1, Request: "r1", Type: "vote"},
		},
		Events: []tracelog.Event{
			{Node: 1, Type: "new-view", Timestamp: 25, View: 2},
		},
	}
	path := filepath.Join(t.TempDir(), "trace_timeline.png")
	if err := TraceTimeline(tr, path); err != nil {
		t.Fatalf("TraceTimeline: %v", err)
	}
	requirePNG(t, path)
}

func TestTraceTimelineSkipsEmptyTrace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace_timeline.png")
	if err := TraceTimeline(&tracelog.Trace{Nodes: 2}, path); err != nil {
		t.Fatalf("empty trace should not error: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("no file expected for an empty trace")
	}
}
