package ingest

import "time"

// Report summarizes one import run.
type Report struct {
	StartedAt  time.Time
	FinishedAt time.Time
	Subjects   []string
	// Candidates is the number of distinct ISBN-13s discovered by search.
	Candidates int
	Fetched    int
	Created    int
	Conflicts  int
	// Rejected counts records the catalog refused as invalid, with the reason.
	Rejected map[string]int
	Failed   int
}

func newReport(subjects []string) *Report {
	return &Report{
		StartedAt: time.Now(),
		Subjects:  subjects,
		Rejected:  map[string]int{},
	}
}

// Skipped is every candidate that did not become a new book.
func (r *Report) Skipped() int {
	rejected := 0
	for _, n := range r.Rejected {
		rejected += n
	}
	return r.Conflicts + rejected + r.Failed
}
