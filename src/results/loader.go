package results

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// AggregateFile is the combined results file the experiment runner writes
// next to the per-profile files.
const AggregateFile = "all-experiments.csv"

// Column names as written by the experiment runner. networkMean, networkStd
// and failure are optional.
const (
	colProfile = "networkProfile"
	colNodes   = "nodeNum"
	colByzPct  = "byzantinePercentage"
	colMean    = "meanTime"
	colStd     = "stdTime"
	colNetMean = "networkMean"
	colNetStd  = "networkStd"
	colFailure = "failure"
)

// Load reads one result CSV. A missing file is not an error: it logs a
// warning and returns a nil table so the caller can decide on a fallback.
// Malformed rows (bad numbers, Byzantine percentage outside [0,100]) are.
func Load(path string) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Warnf("file not found: %s", path)
			return nil, nil
		}
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	rows, err := r.ReadAll()
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	if len(rows) < 2 {
		log.Warnf("no data rows in %s", path)
		return Table{}, nil
	}

	cols := map[string]int{}
	for i, name := range rows[0] {
		cols[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{colNodes, colByzPct, colMean, colStd} {
		if _, ok := cols[required]; !ok {
			return nil, errors.Errorf("%s: missing column %q", path, required)
		}
	}
	_, hasProfile := cols[colProfile]
	_, hasNetMean := cols[colNetMean]
	_, hasNetStd := cols[colNetStd]
	_, hasFailure := cols[colFailure]

	field := func(row []string, name string) string {
		i := cols[name]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	tbl := make(Table, 0, len(rows)-1)
	for n, row := range rows[1:] {
		line := n + 2 // 1-based, after the header
		var rec Record
		if hasProfile {
			rec.NetworkProfile = field(row, colProfile)
		}
		rec.NodeCount, err = strconv.Atoi(field(row, colNodes))
		if err != nil {
			return nil, errors.Wrapf(err, "%s line %d: %s", path, line, colNodes)
		}
		rec.ByzantinePct, err = strconv.ParseFloat(field(row, colByzPct), 64)
		if err != nil {
			return nil, errors.Wrapf(err, "%s line %d: %s", path, line, colByzPct)
		}
		if rec.ByzantinePct < 0 || rec.ByzantinePct > 100 {
			return nil, errors.Errorf("%s line %d: byzantinePercentage %.2f outside [0,100]", path, line, rec.ByzantinePct)
		}
		rec.MeanTime, err = strconv.ParseFloat(field(row, colMean), 64)
		if err != nil {
			return nil, errors.Wrapf(err, "%s line %d: %s", path, line, colMean)
		}
		rec.StdTime, err = strconv.ParseFloat(field(row, colStd), 64)
		if err != nil {
			return nil, errors.Wrapf(err, "%s line %d: %s", path, line, colStd)
		}
		if hasNetMean && hasNetStd {
			m, errM := strconv.ParseFloat(field(row, colNetMean), 64)
			s, errS := strconv.ParseFloat(field(row, colNetStd), 64)
			if errM == nil && errS == nil {
				rec.NetworkMean, rec.NetworkStd, rec.HasNetwork = m, s, true
			}
		}
		if hasFailure {
			// Empty cells count as "did not fail", matching the runner's
			// habit of only writing the flag on failed trials.
			switch strings.ToLower(field(row, colFailure)) {
			case "true", "1", "yes":
				rec.Failure = true
			}
		}
		tbl = append(tbl, rec)
	}
	return tbl, nil
}

// ProfileName derives a network profile name from a result file path
// (base name without the .csv extension).
func ProfileName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), ".csv")
}

// ProfileTables loads every per-profile CSV in dir (all *.csv except the
// aggregate file), sorted by file name for deterministic output. Tables
// whose file lacks a profile column are tagged with the file-derived name.
func ProfileTables(dir string) ([]ProfileTable, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			log.Warnf("results directory not found: %s", dir)
			return nil, nil
		}
		return nil, errors.Wrapf(err, "read dir %s", dir)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(name, ".csv") || name == AggregateFile {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	var out []ProfileTable
	for _, name := range names {
		tbl, err := Load(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		if tbl == nil {
			continue
		}
		profile := ProfileName(name)
		for i := range tbl {
			if tbl[i].NetworkProfile == "" {
				tbl[i].NetworkProfile = profile
			}
		}
		out = append(out, ProfileTable{Profile: profile, Table: tbl})
	}
	return out, nil
}

// LoadAll returns a single table covering all profiles: the aggregate file
// when present, otherwise the concatenation of the per-profile files. When
// neither exists it warns and returns nil.
func LoadAll(dir string) (Table, error) {
	tbl, err := Load(filepath.Join(dir, AggregateFile))
	if err != nil {
		return nil, err
	}
	if tbl != nil {
		return tbl, nil
	}
	profiles, err := ProfileTables(dir)
	if err != nil {
		return nil, err
	}
	if len(profiles) == 0 {
		log.Warn("no experiment data found")
		return nil, nil
	}
	var all Table
	for _, p := range profiles {
		all = append(all, p.Table...)
	}
	return all, nil
}
