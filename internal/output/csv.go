package output

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"hfscanner/internal/aggregate"
	"hfscanner/internal/config"
)

// FormatCSVField quotes field iff it contains a comma, a double quote or a
// newline. Inner double quotes are doubled.
func FormatCSVField(field string) string {
	if !strings.ContainsAny(field, ",\"\n") {
		return field
	}
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}

func writeCSVRow(w io.Writer, fields ...string) error {
	for i, f := range fields {
		fields[i] = FormatCSVField(f)
	}
	_, err := io.WriteString(w, strings.Join(fields, ",")+"\n")
	return err
}

// WriteFileCSV writes one row per file with at least one classified call site.
func WriteFileCSV(w io.Writer, r *aggregate.Report) error {
	if _, err := io.WriteString(w, "org,repo,file,safe_usages,partial_usages,unsafe_usages\n"); err != nil {
		return err
	}
	for _, f := range r.Files {
		// Counts are numeric and never quoted.
		line := fmt.Sprintf("%s,%s,%s,%d,%d,%d\n",
			FormatCSVField(f.Org), FormatCSVField(f.Repo), FormatCSVField(f.File),
			f.Counts.Safe, f.Counts.Partial, f.Counts.Unsafe)
		if _, err := io.WriteString(w, line); err != nil {
			return err
		}
	}
	return nil
}

// WriteProjectCSV writes one row per project. The header follows the report's
// project depth: org,repo,status or project,status.
func WriteProjectCSV(w io.Writer, r *aggregate.Report) error {
	twoSegment := r.Depth != aggregate.DepthProject
	var err error
	if twoSegment {
		err = writeCSVRow(w, "org", "repo", "status")
	} else {
		err = writeCSVRow(w, "project", "status")
	}
	if err != nil {
		return err
	}
	for _, p := range r.Projects {
		if twoSegment {
			err = writeCSVRow(w, p.Key.Org, p.Key.Repo, p.Tier.String())
		} else {
			err = writeCSVRow(w, p.Key.Org, p.Tier.String())
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// CSVSink writes the report to a CSV file. The file is (re)created on every
// Write so that an unusable path only fails the export, not the scan.
type CSVSink struct {
	path  string
	level string
}

func NewCSVSink(path, level string) (*CSVSink, error) {
	if path == "" {
		return nil, fmt.Errorf("csv path required")
	}
	if level == "" {
		level = config.CSVLevelFile
	}
	if level != config.CSVLevelFile && level != config.CSVLevelProject {
		return nil, fmt.Errorf("unsupported csv level: %s", level)
	}
	return &CSVSink{path: path, level: level}, nil
}

func (s *CSVSink) Path() string { return s.path }

func (s *CSVSink) Write(v any) error {
	r, ok := v.(*aggregate.Report)
	if !ok || r == nil {
		return nil
	}
	return writeFile(s.path, func(w io.Writer) error {
		if s.level == config.CSVLevelProject {
			return WriteProjectCSV(w, r)
		}
		return WriteFileCSV(w, r)
	})
}

func (s *CSVSink) Close() error {
	return nil
}

// writeFile creates path (and its directory) and hands a buffered writer to fn.
func writeFile(path string, fn func(w io.Writer) error) error {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	bw := bufio.NewWriter(f)
	err = fn(bw)
	if err == nil {
		err = flushOutput(bw)
	}
	if closeErr := f.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
