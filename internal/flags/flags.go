package flags

// Package flags defines canonical CLI flag names shared across the CLI and the
// config file overlay, so a flag set on the command line can be told apart from
// a value loaded from the config file.
// IMPORTANT: These are flag *names* without leading dashes.
// Example usage:
//
//	cmd.Flags().BoolVar(&cfg.Output.Detailed, flags.FlagDetailed, false, "...")
//	arg := "--" + flags.FlagDetailed
const (
	// Targeting
	FlagExcludeDir   = "exclude-dir"
	FlagExtension    = "ext"
	FlagExclude      = "exclude"
	FlagProjectDepth = "project-depth"

	// Output
	FlagDetailed        = "detailed"
	FlagCSV             = "csv"
	FlagCSVLevel        = "csv-level"
	FlagOut             = "out"
	FlagMetricsTextfile = "metrics-textfile"
	FlagQuiet           = "quiet"
	FlagNoColor         = "no-color"
	FlagFailOn          = "fail-on"

	// Runtime
	FlagConcurrency = "concurrency"
	FlagTimeout     = "timeout"
	FlagMaxFileSize = "max-file-size"
	FlagDebounce    = "debounce"
	FlagConfig      = "config"
	FlagVerbose     = "verbose"
)
