package results

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
}

func TestLoadParsesColumns(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "wan.csv")
	writeFile(t, path, `networkProfile,nodeNum,byzantinePercentage,meanTime,stdTime,networkMean,networkStd,failure
wan,4,0,120.5,10.2,0.05,0.01,
wan,8,25,340.0,22.8,0.05,0.01,true
`)
	tbl, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(tbl) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(tbl))
	}
	r := tbl[0]
	if r.NetworkProfile != "wan" || r.NodeCount != 4 || r.ByzantinePct != 0 {
		t.Errorf("unexpected first row: %+v", r)
	}
	if r.MeanTime != 120.5 || r.StdTime != 10.2 {
		t.Errorf("unexpected times: %+v", r)
	}
	if !r.HasNetwork || r.NetworkMean != 0.05 || r.NetworkStd != 0.01 {
		t.Errorf("network delay not parsed: %+v", r)
	}
	if r.Failure {
		t.Errorf("empty failure cell should mean no failure")
	}
	if !tbl[1].Failure {
		t.Errorf("failure=true not parsed")
	}
}

func TestLoadMissingFileIsNotAnError(t *testing.T) {
	tbl, err := Load(filepath.Join(t.TempDir(), "absent.csv"))
	if err != nil {
		t.Fatalf("missing file should not error, got %v", err)
	}
	if tbl != nil {
		t.Fatalf("expected nil table, got %d rows", len(tbl))
	}
}

func TestLoadOptionalColumnsMayBeAbsent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lan.csv")
	writeFile(t, path, "nodeNum,byzantinePercentage,meanTime,stdTime\n4,10,55.5,3.1\n")
	tbl, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(tbl) != 1 {
		t.Fatalf("expected 1 row, got %d", len(tbl))
	}
	r := tbl[0]
	if r.NetworkProfile != "" || r.HasNetwork || r.Failure {
		t.Errorf("optional fields should be zero: %+v", r)
	}
}

func TestLoadRejectsBadRows(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"pct_too_high": "nodeNum,byzantinePercentage,meanTime,stdTime\n4,150,10,1\n",
		"pct_negative": "nodeNum,byzantinePercentage,meanTime,stdTime\n4,-5,10,1\n",
		"bad_number":   "nodeNum,byzantinePercentage,meanTime,stdTime\nfour,0,10,1\n",
		"missing_col":  "nodeNum,meanTime,stdTime\n4,10,1\n",
	}
	for name, content := range cases {
		path := filepath.Join(dir, name+".csv")
		writeFile(t, path, content)
		if _, err := Load(path); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestProfileTablesTagsAndSorts(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "wan.csv"),
		"nodeNum,byzantinePercentage,meanTime,stdTime\n4,0,100,5\n")
	writeFile(t, filepath.Join(dir, "lan.csv"),
		"nodeNum,byzantinePercentage,meanTime,stdTime\n4,0,50,2\n")
	writeFile(t, filepath.Join(dir, AggregateFile),
		"networkProfile,nodeNum,byzantinePercentage,meanTime,stdTime\nwan,4,0,100,5\n")
	writeFile(t, filepath.Join(dir, "notes.txt"), "not a csv")

	profiles, err := ProfileTables(dir)
	if err != nil {
		t.Fatalf("ProfileTables: %v", err)
	}
	if len(profiles) != 2 {
		t.Fatalf("expected 2 profiles, got %d", len(profiles))
	}
	if profiles[0].Profile != "lan" || profiles[1].Profile != "wan" {
		t.Errorf("profiles not sorted by file name: %v, %v", profiles[0].Profile, profiles[1].Profile)
	}
	if got := profiles[0].Table[0].NetworkProfile; got != "lan" {
		t.Errorf("profile not tagged from file name, got %q", got)
	}
}

func TestLoadAllPrefersAggregate(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, AggregateFile),
		"networkProfile,nodeNum,byzantinePercentage,meanTime,stdTime\nwan,4,0,100,5\nlan,4,0,50,2\n")
	writeFile(t, filepath.Join(dir, "wan.csv"),
		"nodeNum,byzantinePercentage,meanTime,stdTime\n8,0,999,9\n")

	tbl, err := LoadAll(dir)
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(tbl) != 2 {
		t.Fatalf("expected aggregate rows only, got %d", len(tbl))
	}
}

func TestLoadAllFallsBackToProfileFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "wan.csv"),
		"nodeNum,byzantinePercentage,meanTime,stdTime\n4,0,100,5\n")
	writeFile(t, filepath.Join(dir, "lan.csv"),
		"nodeNum,byzantinePercentage,meanTime,stdTime\n4,0,50,2\n")

	tbl, err := LoadAll(dir)
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(tbl) != 2 {
		t.Fatalf("expected 2 combined rows, got %d", len(tbl))
	}
	for _, r := range tbl {
		if r.NetworkProfile == "" {
			t.Errorf("fallback row missing profile tag: %+v", r)
		}
	}
}

func TestLoadAllEmptyDir(t *testing.T) {
	tbl, err := LoadAll(t.TempDir())
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if tbl != nil {
		t.Fatalf("expected nil table for empty dir")
	}
}
