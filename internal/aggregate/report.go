package aggregate

import "hfscanner/internal/risk"

// ProjectStatus is the final tier of one project.
type ProjectStatus struct {
	Key  ProjectKey `json:"project"`
	Tier risk.Tier  `json:"status"`
}

// Report is the frozen outcome of one scan. Projects are sorted by key and
// Files by path so that renderings are stable across runs.
type Report struct {
	Root  string `json:"root"`
	Depth Depth  `json:"depth"`

	// Totals are call-site counts summed over all files.
	Totals risk.Counts `json:"call_sites"`
	// ProjectCounts counts projects per final tier.
	ProjectCounts risk.Counts `json:"projects_by_status"`

	Projects []ProjectStatus `json:"projects"`
	// Files is only populated when file-level rows were requested.
	Files []FileRow `json:"files,omitempty"`

	FilesScanned int `json:"files_scanned"`
	// Complete is false when the scan was cut short (timeout or cancellation).
	Complete bool `json:"complete"`
}

// Status returns the tier recorded for key.
func (r *Report) Status(key ProjectKey) (risk.Tier, bool) {
	for _, p := range r.Projects {
		if p.Key == key {
			return p.Tier, true
		}
	}
	return risk.Safe, false
}

// Worst is the most severe project tier, or Safe when there are no projects.
func (r *Report) Worst() risk.Tier {
	w := risk.Safe
	for _, p := range r.Projects {
		w = risk.Join(w, p.Tier)
	}
	return w
}
