// Command staticfig renders the embedded protocol-latency comparison
// (eight published BFT protocols plus the measured SSB-Babble results)
// as a grouped bar chart with error bars.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/ChaseAug0/babble-ssb-simulator/src/charts"
)

func main() {
	var outDir string
	flag.StringVar(&outDir, "out", ".", "Directory to write the figure into")
	flag.Parse()

	if err := charts.GroupedLatencyBars(charts.Fig7Data(), outDir); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
