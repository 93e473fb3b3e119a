// Command traceviz parses per-node simulator logs and renders the
// message-flow timeline.
package main

import (
	"flag"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/ChaseAug0/babble-ssb-simulator/src/charts"
	"github.com/ChaseAug0/babble-ssb-simulator/src/tracelog"
)

func main() {
	var logDir string
	var outPath string
	flag.StringVar(&logDir, "logs", "log", "Directory holding per-node <id>.log files")
	flag.StringVar(&outPath, "out", "visualizations/trace_timeline.png", "Path of the timeline PNG")
	flag.Parse()

	tr, err := tracelog.ParseDir(logDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	log.Infof("parsed %d nodes, %d packets, %d events", tr.Nodes, len(tr.Packets), len(tr.Events))

	if err := charts.TraceTimeline(tr, outPath); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
