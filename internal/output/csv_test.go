package output

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hfscanner/internal/aggregate"
	"hfscanner/internal/config"
)

func TestFormatCSVField(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "simple", want: "simple"},
		{in: "project, with comma", want: `"project, with comma"`},
		{in: `project "quoted"`, want: `"project ""quoted"""`},
		{in: `project, "with" both`, want: `"project, ""with"" both"`},
		{in: "line\nbreak", want: "\"line\nbreak\""},
		{in: " leading space", want: " leading space"},
		{in: "", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatCSVField(tt.in))
		})
	}
}

func TestFormatCSVField_RoundTrip(t *testing.T) {
	fields := []string{"plain", `project, "with" both`, "multi\nline", `"`, "a,b"}
	formatted := make([]string, len(fields))
	for i, f := range fields {
		formatted[i] = FormatCSVField(f)
	}

	rec, err := csv.NewReader(strings.NewReader(strings.Join(formatted, ",") + "\n")).Read()
	require.NoError(t, err)
	assert.Equal(t, fields, rec)
}

func TestWriteFileCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteFileCSV(&buf, sampleReport(aggregate.DepthOrgRepo)))

	want := "org,repo,file,safe_usages,partial_usages,unsafe_usages\n" +
		"acme,models,acme/models/train.py,2,0,0\n" +
		`"org, with comma","repo ""x""","org, with comma/repo ""x""/load.py",0,1,3` + "\n"
	assert.Equal(t, want, buf.String())

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"org, with comma", `repo "x"`, `org, with comma/repo "x"/load.py`, "0", "1", "3"}, records[2])
}

func TestWriteProjectCSV(t *testing.T) {
	t.Run("org_repo", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteProjectCSV(&buf, sampleReport(aggregate.DepthOrgRepo)))
		want := "org,repo,status\n" +
			"acme,models,safe\n" +
			`"org, with comma","repo ""x""",unsafe` + "\n"
		assert.Equal(t, want, buf.String())
	})

	t.Run("project", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteProjectCSV(&buf, sampleReport(aggregate.DepthProject)))
		want := "project,status\n" +
			"acme,safe\n" +
			`"org, with comma",unsafe` + "\n"
		assert.Equal(t, want, buf.String())
	})
}

func TestCSVSink_WritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.csv")
	s, err := NewCSVSink(path, "")
	require.NoError(t, err)
	assert.Equal(t, path, s.Path())

	require.NoError(t, s.Write(sampleReport(aggregate.DepthOrgRepo)))
	require.NoError(t, s.Close())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(b), "org,repo,file,"))
}

func TestCSVSink_IgnoresOtherValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	s, err := NewCSVSink(path, config.CSVLevelProject)
	require.NoError(t, err)
	require.NoError(t, s.Write("not a report"))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestCSVSink_UnwritablePath(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	s, err := NewCSVSink(filepath.Join(blocker, "out.csv"), config.CSVLevelFile)
	require.NoError(t, err)
	assert.Error(t, s.Write(sampleReport(aggregate.DepthOrgRepo)))
}

func TestNewCSVSink_AcceptsEveryValidatedLevel(t *testing.T) {
	for _, in := range []string{"", "file", " PROJECT "} {
		cfg := config.New()
		cfg.Targeting.Root = "repos"
		cfg.Output.CSVLevel = in
		require.NoError(t, cfg.Validate(), "level %q", in)

		s, err := NewCSVSink("out.csv", cfg.Output.CSVLevel)
		require.NoError(t, err, "level %q", in)
		assert.Equal(t, "out.csv", s.Path())
	}
}

func TestNewCSVSink_Validation(t *testing.T) {
	_, err := NewCSVSink("", config.CSVLevelFile)
	assert.Error(t, err)
	_, err = NewCSVSink("out.csv", "repo")
	assert.Error(t, err)
}
