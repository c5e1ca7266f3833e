package aggregate

import (
	"sort"
	"sync"

	"hfscanner/internal/risk"
)

// FileRow is the per-file record kept for file-level export.
type FileRow struct {
	Org    string      `json:"org"`
	Repo   string      `json:"repo"`
	File   string      `json:"file"`
	Counts risk.Counts `json:"counts"`
	Tier   risk.Tier   `json:"status"`
}

type Options struct {
	Depth Depth
	// KeepFiles enables the FileRow list.
	KeepFiles bool
}

// Aggregator folds per-file results into global totals and per-project status.
// It is safe for concurrent use; each Merge holds one lock for the whole update.
type Aggregator struct {
	opts Options

	mu       sync.Mutex
	totals   risk.Counts
	projects map[ProjectKey]risk.Tier
	files    []FileRow
	scanned  int
}

func New(opts Options) *Aggregator {
	if !opts.Depth.Valid() {
		opts.Depth = DepthOrgRepo
	}
	return &Aggregator{
		opts:     opts,
		projects: make(map[ProjectKey]risk.Tier),
	}
}

// Merge records the result of scanning the file at root-relative path rel.
// Zero results only count towards the number of scanned files.
func (a *Aggregator) Merge(rel string, c risk.Counts) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.scanned++
	if c.IsZero() {
		return
	}

	a.totals = a.totals.Add(c)

	tier := c.Worst()
	key := KeyFor(rel, a.opts.Depth)
	if cur, ok := a.projects[key]; ok {
		a.projects[key] = risk.Join(cur, tier)
	} else {
		a.projects[key] = tier
	}

	if a.opts.KeepFiles {
		fk := KeyFor(rel, DepthOrgRepo)
		a.files = append(a.files, FileRow{
			Org:    fk.Org,
			Repo:   fk.Repo,
			File:   rel,
			Counts: c,
			Tier:   tier,
		})
	}
}

// Snapshot returns an immutable copy of the current state.
func (a *Aggregator) Snapshot() *Report {
	a.mu.Lock()
	defer a.mu.Unlock()

	r := &Report{
		Depth:        a.opts.Depth,
		Totals:       a.totals,
		FilesScanned: a.scanned,
		Projects:     make([]ProjectStatus, 0, len(a.projects)),
	}
	for k, t := range a.projects {
		r.Projects = append(r.Projects, ProjectStatus{Key: k, Tier: t})
		r.ProjectCounts.Inc(t)
	}
	sort.Slice(r.Projects, func(i, j int) bool { return r.Projects[i].Key.less(r.Projects[j].Key) })

	if a.opts.KeepFiles {
		r.Files = make([]FileRow, len(a.files))
		copy(r.Files, a.files)
		sort.Slice(r.Files, func(i, j int) bool { return r.Files[i].File < r.Files[j].File })
	}
	return r
}
