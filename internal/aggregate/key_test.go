package aggregate

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyFor_OrgRepo(t *testing.T) {
	root := filepath.FromSlash("/home/user/repos")
	path := filepath.FromSlash("/home/user/repos/microsoft/DialoGPT/src/model.py")

	rel, err := RelPath(root, path)
	require.NoError(t, err)
	assert.Equal(t, ProjectKey{Org: "microsoft", Repo: "DialoGPT"}, KeyFor(rel, DepthOrgRepo))
}

func TestKeyFor_CommaInsideSegment(t *testing.T) {
	root := filepath.FromSlash("/repos")
	path := filepath.FromSlash("/repos/org, with comma/repo-name/file.py")

	rel, err := RelPath(root, path)
	require.NoError(t, err)

	key := KeyFor(rel, DepthOrgRepo)
	assert.Equal(t, "org, with comma", key.Org)
	assert.Equal(t, "repo-name", key.Repo)
}

func TestKeyFor_Sentinels(t *testing.T) {
	tests := []struct {
		name  string
		rel   string
		depth Depth
		want  ProjectKey
	}{
		{name: "orgrepo_file_in_org", rel: "org/file.py", depth: DepthOrgRepo, want: ProjectKey{Org: Unknown, Repo: Unknown}},
		{name: "orgrepo_file_at_root", rel: "file.py", depth: DepthOrgRepo, want: ProjectKey{Org: Unknown, Repo: Unknown}},
		{name: "project_file_at_root", rel: "file.py", depth: DepthProject, want: ProjectKey{Org: Unknown}},
		{name: "project_nested", rel: "proj/a/b/c.py", depth: DepthProject, want: ProjectKey{Org: "proj"}},
		{name: "orgrepo_exact", rel: "org/repo/c.py", depth: DepthOrgRepo, want: ProjectKey{Org: "org", Repo: "repo"}},
		{name: "outside_root", rel: "../x/y/z.py", depth: DepthOrgRepo, want: ProjectKey{Org: Unknown, Repo: Unknown}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KeyFor(filepath.FromSlash(tt.rel), tt.depth))
		})
	}
}

func TestProjectKey_String(t *testing.T) {
	assert.Equal(t, "org/repo", ProjectKey{Org: "org", Repo: "repo"}.String())
	assert.Equal(t, "proj", ProjectKey{Org: "proj"}.String())
}

func TestRelPath_RejectsOutsideRoot(t *testing.T) {
	_, err := RelPath(filepath.FromSlash("/repos/a"), filepath.FromSlash("/repos/b/c.py"))
	assert.Error(t, err)
}
