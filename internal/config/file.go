package config

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"hfscanner/internal/flags"
)

// EnvConfigFile names the environment variable consulted when --config is not set.
const EnvConfigFile = "HFSCANNER_CONFIG"

// File is the YAML config file. Unset keys leave the current value alone.
//
//	exclude_dirs: [".git", "node_modules", "third_party"]
//	extensions: [".py", ".ipynb"]
//	exclude: ["**/tests/**"]
//	project_depth: 2
//	csv_level: project
//	fail_on: unsafe
//	concurrency: 8
//	timeout: 10m
type File struct {
	ExcludeDirs  []string `yaml:"exclude_dirs"`
	Extensions   []string `yaml:"extensions"`
	Exclude      []string `yaml:"exclude"`
	ProjectDepth *int     `yaml:"project_depth"`

	Detailed        *bool   `yaml:"detailed"`
	CSV             *string `yaml:"csv"`
	CSVLevel        *string `yaml:"csv_level"`
	Out             *string `yaml:"out"`
	MetricsTextfile *string `yaml:"metrics_textfile"`
	FailOn          *string `yaml:"fail_on"`
	NoColor         *bool   `yaml:"no_color"`

	Concurrency *int      `yaml:"concurrency"`
	Timeout     *Duration `yaml:"timeout"`
	MaxFileSize *int64    `yaml:"max_file_size"`
	Debounce    *Duration `yaml:"debounce"`
}

// Duration accepts Go duration strings ("30s", "10m") in YAML.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(n *yaml.Node) error {
	var raw string
	if err := n.Decode(&raw); err != nil {
		return err
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("line %d: %w", n.Line, err)
	}
	*d = Duration(v)
	return nil
}

// LoadFile reads and strictly decodes a YAML config file; unknown keys are errors.
func LoadFile(path string) (*File, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		// An empty file decodes to io.EOF; treat it as "no overrides".
		if len(bytes.TrimSpace(b)) == 0 {
			return &f, nil
		}
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &f, nil
}

// Apply overlays f onto c. changed reports whether a flag was set explicitly on
// the command line; such values win over the file.
func (c *Config) Apply(f *File, changed func(flag string) bool) {
	if f == nil {
		return
	}
	if changed == nil {
		changed = func(string) bool { return false }
	}

	if f.ExcludeDirs != nil && !changed(flags.FlagExcludeDir) {
		c.Targeting.ExcludeDirs = f.ExcludeDirs
	}
	if f.Extensions != nil && !changed(flags.FlagExtension) {
		c.Targeting.Extensions = f.Extensions
	}
	if f.Exclude != nil && !changed(flags.FlagExclude) {
		c.Targeting.Exclude = f.Exclude
	}
	if f.ProjectDepth != nil && !changed(flags.FlagProjectDepth) {
		c.Targeting.ProjectDepth = *f.ProjectDepth
	}

	if f.Detailed != nil && !changed(flags.FlagDetailed) {
		c.Output.Detailed = *f.Detailed
	}
	if f.CSV != nil && !changed(flags.FlagCSV) {
		c.Output.CSV = *f.CSV
	}
	if f.CSVLevel != nil && !changed(flags.FlagCSVLevel) {
		c.Output.CSVLevel = *f.CSVLevel
	}
	if f.Out != nil && !changed(flags.FlagOut) {
		c.Output.Out = *f.Out
	}
	if f.MetricsTextfile != nil && !changed(flags.FlagMetricsTextfile) {
		c.Output.MetricsTextfile = *f.MetricsTextfile
	}
	if f.FailOn != nil && !changed(flags.FlagFailOn) {
		c.Output.FailOn = *f.FailOn
	}
	if f.NoColor != nil && !changed(flags.FlagNoColor) {
		c.Output.NoColor = *f.NoColor
	}

	if f.Concurrency != nil && !changed(flags.FlagConcurrency) {
		c.Runtime.Concurrency = *f.Concurrency
	}
	if f.Timeout != nil && !changed(flags.FlagTimeout) {
		c.Runtime.Timeout = time.Duration(*f.Timeout)
	}
	if f.MaxFileSize != nil && !changed(flags.FlagMaxFileSize) {
		c.Runtime.MaxFileSize = *f.MaxFileSize
	}
	if f.Debounce != nil && !changed(flags.FlagDebounce) {
		c.Runtime.Debounce = time.Duration(*f.Debounce)
	}
}
