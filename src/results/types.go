package results

// Record is one simulation trial: a consensus run for a given network
// profile, cluster size and Byzantine node share. MeanTime/StdTime are the
// per-trial consensus completion statistics in milliseconds.
type Record struct {
	NetworkProfile string
	NodeCount      int
	ByzantinePct   float64
	MeanTime       float64
	StdTime        float64
	// Simulated network delay characteristics (seconds). HasNetwork reports
	// whether the source file carried these columns.
	NetworkMean float64
	NetworkStd  float64
	HasNetwork  bool
	// Failure marks a trial that did not reach consensus; failed trials are
	// excluded from every aggregated view.
	Failure bool
}

// Table is a flat list of trial records, usually one result file or the
// concatenation of several.
type Table []Record

// ProfileTable pairs a table with the network profile it was loaded for.
type ProfileTable struct {
	Profile string
	Table   Table
}
