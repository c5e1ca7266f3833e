package output

import (
	"hfscanner/internal/aggregate"
	"hfscanner/internal/risk"
)

// sampleReport builds a small two-project report with one awkward path.
func sampleReport(depth aggregate.Depth) *aggregate.Report {
	agg := aggregate.New(aggregate.Options{Depth: depth, KeepFiles: true})
	agg.Merge("acme/models/train.py", risk.Counts{Safe: 2})
	agg.Merge(`org, with comma/repo "x"/load.py`, risk.Counts{Partial: 1, Unsafe: 3})
	agg.Merge("acme/models/empty.py", risk.Counts{})
	r := agg.Snapshot()
	r.Root = "/repos"
	r.Complete = true
	return r
}
