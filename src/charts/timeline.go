package charts

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/ChaseAug0/babble-ssb-simulator/src/tracelog"
)

// pointStyle renders markers only, no connecting line.
func pointStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: 0,
		DotWidth:    5,
		DotColor:    col,
	}
}

// TraceTimeline renders a message-flow timeline: one horizontal lane per
// node, each delivered packet a segment from (send time, src lane) to
// (recv time, dst lane) colored by message type, consensus events as
// markers on their node's lane.
func TraceTimeline(tr *tracelog.Trace, outPath string) error {
	if len(tr.Packets) == 0 && len(tr.Events) == 0 {
		log.Warn("empty trace, skipping timeline")
		return nil
	}

	var series []chart.Series

	// Stable color per message type, legend entry on the first segment.
	types := packetTypes(tr.Packets)
	typeColor := map[string]drawing.Color{}
	for i, t := range types {
		typeColor[t] = chart.GetDefaultColor(i)
	}
	seen := map[string]bool{}
	for _, p := range tr.Packets {
		name := ""
		if !seen[p.Type] {
			seen[p.Type] = true
			name = p.Type
		}
		series = append(series, chart.ContinuousSeries{
			Name:    name,
			XValues: []float64{float64(p.SendTime), float64(p.RecvTime)},
			YValues: []float64{float64(p.Src), float64(p.Dst)},
			Style: chart.Style{
				StrokeWidth: 1.5,
				StrokeColor: typeColor[p.Type].WithAlpha(160),
			},
		})
	}

	for i, evType := range eventTypes(tr.Events) {
		var xs, ys []float64
		for _, ev := range tr.Events {
			if ev.Type == evType {
				xs = append(xs, float64(ev.Timestamp))
				ys = append(ys, float64(ev.Node))
			}
		}
		series = append(series, chart.ContinuousSeries{
			Name:    evType,
			XValues: xs,
			YValues: ys,
			Style:   pointStyle(chart.GetDefaultColor(len(types) + i)),
		})
	}

	ticks := make([]chart.Tick, 0, tr.Nodes+2)
	for n := 0; n <= tr.Nodes+1; n++ {
		label := ""
		if n >= 1 && n <= tr.Nodes {
			label = fmt.Sprintf("Node %d", n)
		}
		ticks = append(ticks, chart.Tick{Value: float64(n), Label: label})
	}

	ch := chart.Chart{
		Title:      fmt.Sprintf("Message Timeline (%d nodes)", tr.Nodes),
		Width:      1600,
		Height:     900,
		Background: chart.Style{Padding: chart.Box{Top: 14, Left: 16, Right: 12, Bottom: 28}},
		XAxis:      chart.XAxis{Name: "Time (ms)"},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: float64(tr.Nodes + 1)},
			Ticks: ticks,
		},
		Series: series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return errors.Wrap(err, "render timeline")
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return errors.Wrapf(err, "create dir for %s", outPath)
	}
	if err := os.WriteFile(outPath, buf.Bytes(), 0o644); err != nil {
		return errors.Wrapf(err, "write %s", outPath)
	}
	log.Infof("plot saved: %s", filepath.Base(outPath))
	return nil
}

func packetTypes(pkts []tracelog.Packet) []string {
	seen := map[string]bool{}
	var out []string
	for _, p := range pkts {
		if !seen[p.Type] {
			seen[p.Type] = true
			out = append(out, p.Type)
		}
	}
	sort.Strings(out)
	return out
}

func eventTypes(events []tracelog.Event) []string {
	seen := map[string]bool{}
	var out []string
	for _, ev := range events {
		if !seen[ev.Type] {
			seen[ev.Type] = true
			out = append(out, ev.Type)
		}
	}
	sort.Strings(out)
	return out
}
