package aggregate

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Unknown is the sentinel used when a path is too shallow to name a project.
const Unknown = "unknown"

// Depth selects how a project is addressed below the scan root.
type Depth int

const (
	// DepthProject addresses a project by the first path component (root/project/...).
	DepthProject Depth = 1
	// DepthOrgRepo addresses a project by the first two components (root/org/repo/...).
	DepthOrgRepo Depth = 2
)

func (d Depth) Valid() bool {
	return d == DepthProject || d == DepthOrgRepo
}

// ProjectKey identifies a project. In DepthProject mode only Org is set and Repo
// is empty.
type ProjectKey struct {
	Org  string `json:"org"`
	Repo string `json:"repo,omitempty"`
}

func (k ProjectKey) String() string {
	if k.Repo == "" {
		return k.Org
	}
	return k.Org + "/" + k.Repo
}

func (k ProjectKey) less(o ProjectKey) bool {
	if k.Org != o.Org {
		return k.Org < o.Org
	}
	return k.Repo < o.Repo
}

// SplitRel splits a root-relative path into its components. Separators are the
// only delimiters; commas and other characters inside a segment are kept.
func SplitRel(rel string) []string {
	rel = filepath.ToSlash(filepath.Clean(rel))
	if rel == "." || rel == "" {
		return nil
	}
	var parts []string
	for _, p := range strings.Split(rel, "/") {
		if p != "" && p != "." {
			parts = append(parts, p)
		}
	}
	return parts
}

// KeyFor derives the project key for a root-relative file path. The file must
// sit below the project directory: DepthOrgRepo needs org/repo/file and
// DepthProject needs project/file, otherwise the key is the Unknown sentinel.
func KeyFor(rel string, depth Depth) ProjectKey {
	parts := SplitRel(rel)
	switch depth {
	case DepthProject:
		if len(parts) < 2 || strings.HasPrefix(parts[0], "..") {
			return ProjectKey{Org: Unknown}
		}
		return ProjectKey{Org: parts[0]}
	default:
		if len(parts) < 3 || strings.HasPrefix(parts[0], "..") {
			return ProjectKey{Org: Unknown, Repo: Unknown}
		}
		return ProjectKey{Org: parts[0], Repo: parts[1]}
	}
}

// RelPath returns path relative to root, or an error when path is not below root.
func RelPath(root, path string) (string, error) {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return "", err
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s is not below %s", path, root)
	}
	return rel, nil
}
