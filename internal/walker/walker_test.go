package walker

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, rel, body string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
}

func relPaths(t *testing.T, root string, files []string) []string {
	t.Helper()
	out := make([]string, 0, len(files))
	for _, f := range files {
		rel, err := filepath.Rel(root, f)
		require.NoError(t, err)
		out = append(out, filepath.ToSlash(rel))
	}
	return out
}

func TestWalk_ExcludesDirsBySubstringAndFiltersExtension(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "org/repo/main.py", "")
	writeFile(t, root, "org/repo/README.md", "")
	writeFile(t, root, "org/repo/.git/hooks/pre-commit.py", "")
	writeFile(t, root, "org/repo/my-venv-old/lib.py", "")
	writeFile(t, root, "org/repo/node_modules/x/y.py", "")
	writeFile(t, root, "org/repo/pkg/__pycache__/m.py", "")
	writeFile(t, root, "org/repo/pkg/util.py", "")
	writeFile(t, root, "org/repo/.envrc", "")

	files, err := Walk(context.Background(), root, Options{
		ExcludeDirs: DefaultExcludeDirs,
		Extensions:  DefaultExtensions,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"org/repo/main.py", "org/repo/pkg/util.py"}, relPaths(t, root, files))
}

func TestWalk_RootIsNeverPruned(t *testing.T) {
	root := filepath.Join(t.TempDir(), "venv-projects")
	writeFile(t, root, "org/repo/a.py", "")

	files, err := Walk(context.Background(), root, Options{
		ExcludeDirs: DefaultExcludeDirs,
		Extensions:  DefaultExtensions,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"org/repo/a.py"}, relPaths(t, root, files))
}

func TestWalk_ExcludeGlobs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "org/repo/src/a.py", "")
	writeFile(t, root, "org/repo/tests/test_a.py", "")
	writeFile(t, root, "org/other/docs/conf.py", "")

	files, err := Walk(context.Background(), root, Options{
		Extensions:   DefaultExtensions,
		ExcludeGlobs: []string{"**/tests/**", "*/*/docs/conf.py"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"org/repo/src/a.py"}, relPaths(t, root, files))
}

func TestWalk_InvalidGlob(t *testing.T) {
	_, err := Walk(context.Background(), t.TempDir(), Options{ExcludeGlobs: []string{"[abc"}})
	assert.Error(t, err)
}

func TestWalk_MissingRoot(t *testing.T) {
	_, err := Walk(context.Background(), filepath.Join(t.TempDir(), "nope"), Options{})
	assert.Error(t, err)
}

func TestWalk_RootIsFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.py", "")
	_, err := Walk(context.Background(), filepath.Join(root, "a.py"), Options{})
	assert.Error(t, err)
}

func TestWalk_CanceledContext(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "org/repo/a.py", "")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Walk(ctx, root, Options{Extensions: DefaultExtensions})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDirs_SkipsPrunedDirectories(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "org/repo/pkg/util.py", "")
	writeFile(t, root, "org/repo/.git/HEAD", "")
	writeFile(t, root, "org/repo/vendor/lib/x.py", "")

	dirs, err := Dirs(context.Background(), root, Options{
		ExcludeDirs:  DefaultExcludeDirs,
		ExcludeGlobs: []string{"**/vendor"},
	})
	require.NoError(t, err)
	assert.Equal(t, root, dirs[0])
	assert.Equal(t, []string{"org", "org/repo", "org/repo/pkg"}, relPaths(t, root, dirs[1:]))
}

func TestPruned(t *testing.T) {
	root := filepath.FromSlash("/repos")
	opts := Options{ExcludeDirs: DefaultExcludeDirs, ExcludeGlobs: []string{"org/skip"}}

	tests := []struct {
		rel  string
		want bool
	}{
		{rel: ".", want: false},
		{rel: "org/repo", want: false},
		{rel: "org/repo/.git", want: true},
		{rel: "org/repo/.git/objects", want: true},
		{rel: "org/repo/site-venv/lib", want: true},
		{rel: "org/skip/pkg", want: true},
	}
	for _, tt := range tests {
		t.Run(tt.rel, func(t *testing.T) {
			assert.Equal(t, tt.want, Pruned(root, filepath.Join(root, filepath.FromSlash(tt.rel)), opts))
		})
	}
}
