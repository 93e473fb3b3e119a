// Command resultviz turns BFT simulation result tables into charts. It
// reads CSVs from the results directory and writes every visualization
// as PNG into the output directory.
package main

import (
	"flag"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/ChaseAug0/babble-ssb-simulator/src/analysis"
	"github.com/ChaseAug0/babble-ssb-simulator/src/charts"
	"github.com/ChaseAug0/babble-ssb-simulator/src/results"
)

func main() {
	var resultsDir string
	var outDir string
	flag.StringVar(&resultsDir, "results", "results", "Directory holding experiment result CSVs")
	flag.StringVar(&outDir, "out", "visualizations", "Directory to write chart PNGs into")
	flag.Parse()

	if err := run(resultsDir, outDir); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(resultsDir, outDir string) error {
	log.Info("starting visualization generation")

	if err := byzantineImpactPlots(resultsDir, outDir); err != nil {
		return err
	}

	all, err := results.LoadAll(resultsDir)
	if err != nil {
		return err
	}
	if len(all) == 0 {
		log.Warn("no experiment data found, nothing more to do")
		return nil
	}
	filtered := analysis.ExcludeFailed(all)

	if err := charts.CombinedProfiles(filtered, outDir); err != nil {
		return err
	}
	if err := charts.NormalizedScaling(filtered, outDir); err != nil {
		return err
	}
	if err := charts.Scatter3D(filtered, outDir); err != nil {
		return err
	}
	for _, profile := range analysis.Profiles(filtered) {
		if err := charts.Heatmap(analysis.ByProfile(filtered, profile), profile, outDir); err != nil {
			return err
		}
	}
	if err := charts.Comprehensive(filtered, outDir); err != nil {
		return err
	}

	log.Infof("all visualizations complete, output saved to %s", outDir)
	return nil
}

// byzantineImpactPlots prefers the per-profile result files; when none
// exist it splits the aggregate file by profile instead.
func byzantineImpactPlots(resultsDir, outDir string) error {
	profiles, err := results.ProfileTables(resultsDir)
	if err != nil {
		return err
	}
	if len(profiles) == 0 {
		all, err := results.LoadAll(resultsDir)
		if err != nil {
			return err
		}
		if len(all) == 0 {
			log.Warn("no experiment data found, skipping byzantine impact plots")
			return nil
		}
		for _, profile := range analysis.Profiles(all) {
			profiles = append(profiles, results.ProfileTable{
				Profile: profile,
				Table:   analysis.ByProfile(all, profile),
			})
		}
	}
	for _, p := range profiles {
		t := analysis.ExcludeFailed(p.Table)
		if err := charts.ByzantineImpact(t, p.Profile, outDir); err != nil {
			return err
		}
	}
	return nil
}
