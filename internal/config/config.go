package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"hfscanner/internal/aggregate"
	"hfscanner/internal/risk"
	"hfscanner/internal/walker"
)

type Config struct {
	// MAINTAINER NOTE: If you add/change/remove config fields, keep these in sync:
	// - CLI flags in internal/cli/scan.go
	// - the YAML overlay in internal/config/file.go
	Targeting Targeting
	Output    Output
	Runtime   Runtime
}

type Targeting struct {
	// Root is the directory to scan (positional argument).
	Root string

	// ExcludeDirs prunes directories whose name contains any entry (see --exclude-dir).
	ExcludeDirs []string

	// Extensions selects source files by extension (see --ext). A missing leading
	// dot is added.
	Extensions []string

	// Exclude lists doublestar patterns matched against root-relative paths (see --exclude).
	Exclude []string

	// ProjectDepth is 1 (root/project/...) or 2 (root/org/repo/...) (see --project-depth).
	ProjectDepth int
}

type Output struct {
	// Detailed prints one line per project after the summary (see --detailed).
	Detailed bool

	// CSV writes a CSV export to this path (see --csv).
	CSV string

	// CSVLevel selects the CSV shape (see --csv-level).
	// Allowed values: file, project.
	CSVLevel string

	// Out writes the full report as JSON to this path (see --out).
	Out string

	// MetricsTextfile writes Prometheus text exposition to this path (see --metrics-textfile).
	MetricsTextfile string

	// Quiet suppresses progress lines on stderr (see --quiet).
	Quiet bool

	// NoColor disables colored tier labels (see --no-color).
	NoColor bool

	// FailOn makes the scan exit with code 1 when any project reaches this tier (see --fail-on).
	// Allowed values: none, partially_safe, unsafe.
	FailOn string
}

type Runtime struct {
	// Concurrency is the number of files scanned in parallel (see --concurrency).
	// Must be >= 1. Defaults to GOMAXPROCS.
	Concurrency int

	// Timeout bounds the whole scan (see --timeout). 0 means no timeout.
	Timeout time.Duration

	// MaxFileSize skips larger files as unreadable (see --max-file-size). 0 disables the bound.
	MaxFileSize int64

	// Debounce is the quiet period before a watch-mode rescan (see --debounce).
	Debounce time.Duration

	// ConfigFile is the YAML file overlaid onto the defaults (see --config).
	ConfigFile string

	// Verbose prints per-file diagnostics to stderr (see --verbose).
	Verbose bool
}

const (
	CSVLevelFile    = "file"
	CSVLevelProject = "project"

	FailOnNone = "none"
)

func New() *Config {
	return &Config{
		Targeting: Targeting{
			ExcludeDirs:  append([]string(nil), walker.DefaultExcludeDirs...),
			Extensions:   append([]string(nil), walker.DefaultExtensions...),
			ProjectDepth: int(aggregate.DepthOrgRepo),
		},
		Output: Output{
			CSVLevel: CSVLevelFile,
			FailOn:   FailOnNone,
		},
		Runtime: Runtime{
			Concurrency: runtime.GOMAXPROCS(0),
			MaxFileSize: 10 << 20,
			Debounce:    300 * time.Millisecond,
		},
	}
}

func (c *Config) Validate() error {
	// Normalize comma-delimited list inputs.
	c.Targeting.ExcludeDirs = splitCommaList(c.Targeting.ExcludeDirs)
	c.Targeting.Exclude = splitCommaList(c.Targeting.Exclude)
	c.Targeting.Extensions = normalizeExtensions(splitCommaList(c.Targeting.Extensions))

	c.Targeting.Root = strings.TrimSpace(c.Targeting.Root)
	if c.Targeting.Root == "" {
		return errors.New("a root directory must be provided")
	}
	c.Targeting.Root = filepath.Clean(c.Targeting.Root)

	if len(c.Targeting.Extensions) == 0 {
		return errors.New("--ext must name at least one file extension")
	}
	if !aggregate.Depth(c.Targeting.ProjectDepth).Valid() {
		return fmt.Errorf("unsupported --project-depth: %d (must be 1 or 2)", c.Targeting.ProjectDepth)
	}

	// Output validation
	c.Output.CSVLevel = normalizeEnumValue(c.Output.CSVLevel)
	if c.Output.CSVLevel == "" {
		c.Output.CSVLevel = CSVLevelFile
	}
	if c.Output.CSVLevel != CSVLevelFile && c.Output.CSVLevel != CSVLevelProject {
		return fmt.Errorf("unsupported --csv-level: %s (must be one of: file, project)", c.Output.CSVLevel)
	}

	c.Output.FailOn = normalizeEnumValue(c.Output.FailOn)
	if c.Output.FailOn == "" {
		c.Output.FailOn = FailOnNone
	}
	if c.Output.FailOn != FailOnNone {
		t, err := risk.ParseTier(c.Output.FailOn)
		if err != nil || t == risk.Safe {
			return fmt.Errorf("unsupported --fail-on: %s (must be one of: none, partially_safe, unsafe)", c.Output.FailOn)
		}
		c.Output.FailOn = t.String()
	}

	if c.Output.Out != "" {
		if ext := strings.ToLower(filepath.Ext(c.Output.Out)); ext != ".json" {
			return fmt.Errorf("--out must be a .json file, got %q", c.Output.Out)
		}
	}

	// Runtime validation
	if c.Runtime.Concurrency <= 0 {
		return errors.New("--concurrency must be >= 1")
	}
	if c.Runtime.Timeout < 0 {
		return errors.New("--timeout must be >= 0")
	}
	if c.Runtime.MaxFileSize < 0 {
		return errors.New("--max-file-size must be >= 0")
	}
	if c.Runtime.Debounce < 0 {
		return errors.New("--debounce must be >= 0")
	}

	return nil
}

// FailOnTier returns the configured threshold, or false when failing is disabled.
func (c *Config) FailOnTier() (risk.Tier, bool) {
	if c.Output.FailOn == "" || c.Output.FailOn == FailOnNone {
		return risk.Safe, false
	}
	t, err := risk.ParseTier(c.Output.FailOn)
	if err != nil {
		return risk.Safe, false
	}
	return t, true
}

// KeepFiles reports whether per-file rows are needed by any output.
func (c *Config) KeepFiles() bool {
	return (c.Output.CSV != "" && c.Output.CSVLevel == CSVLevelFile) || c.Output.Out != ""
}

func normalizeEnumValue(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

func normalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, e := range exts {
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		out = append(out, e)
	}
	return out
}

func splitCommaList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			p := strings.TrimSpace(part)
			if p == "" {
				continue
			}
			out = append(out, p)
		}
	}
	return out
}
