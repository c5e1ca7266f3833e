package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"hfscanner/internal/config"
	"hfscanner/internal/engine"
	"hfscanner/internal/flags"
)

var cfg = config.New()

var scanCmd = &cobra.Command{
	Use:   "scan <root>",
	Short: "Scan a directory tree of projects",
	Long: `Scan every Python source file below <root> and report how Hugging Face
downloads are pinned.

Each call to AutoModel.from_pretrained, AutoTokenizer.from_pretrained,
load_dataset, hf_hub_download or snapshot_download is classified as:
	safe            pinned to a 40-character commit SHA, a local path, or
	                authenticated with use_auth_token=True
	partially_safe  pinned to a tag or branch (revision="main", "v1.0", ...)
	unsafe          no revision at all

A project is as unsafe as its worst call site. Projects are the first two
directory levels below <root> (org/repo) or, with --project-depth 1, the first.

Output:
	A summary is always printed to stdout; --detailed adds one line per project.
	Exports are written after the summary, so a failing export never hides it:
	- --csv: file-level rows (default) or project-level rows (--csv-level project)
	- --out: the whole report as a JSON document
	- --metrics-textfile: Prometheus text format for node_exporter

Exit codes:
	0 = scan completed (and --fail-on, if set, was not reached)
	1 = a project reached the --fail-on tier
	2 = scan completed but an export failed
	3 = fatal error (invalid flags, unreadable root, timeout)

Examples:
	hfscanner scan ./repos
	hfscanner scan ./repos --detailed --csv findings.csv
	hfscanner scan ./repos --project-depth 1 --csv projects.csv --csv-level project
	hfscanner scan ./repos --fail-on unsafe --quiet
`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		code := runScan(ctx, cmd, cfg, args, engine.NewEngine(), os.Stderr)
		stop()
		os.Exit(code)
	},
}

// prepareConfig applies the positional root and the config file, then
// validates. ok is false when no root was given and usage was printed instead.
func prepareConfig(cmd *cobra.Command, c *config.Config, args []string, stderr io.Writer) (ok bool, code int) {
	if len(args) == 0 {
		_ = cmd.Help()
		return false, 0
	}
	c.Targeting.Root = args[0]

	if err := applyConfigFile(cmd, c); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return false, 3
	}
	if err := c.Validate(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return false, 3
	}
	return true, 0
}

func runScan(ctx context.Context, cmd *cobra.Command, c *config.Config, args []string, eng *engine.Engine, stderr io.Writer) int {
	ok, code := prepareConfig(cmd, c, args, stderr)
	if !ok {
		return code
	}
	return eng.Run(ctx, c)
}

// bindScanFlags registers the flags shared by scan and watch.
func bindScanFlags(cmd *cobra.Command, c *config.Config) {
	// MAINTAINER NOTE: keep the YAML keys in internal/config/file.go in sync.

	// Targeting
	cmd.Flags().StringSliceVar(&c.Targeting.ExcludeDirs, flags.FlagExcludeDir, c.Targeting.ExcludeDirs, "Skip directories whose name contains any of these (repeatable; comma-separated accepted)")
	cmd.Flags().StringSliceVar(&c.Targeting.Extensions, flags.FlagExtension, c.Targeting.Extensions, "File extensions to scan (repeatable; comma-separated accepted)")
	cmd.Flags().StringSliceVar(&c.Targeting.Exclude, flags.FlagExclude, nil, "Exclude glob(s) matched against the path below <root>, e.g. '**/tests/**' (repeatable)")
	cmd.Flags().IntVar(&c.Targeting.ProjectDepth, flags.FlagProjectDepth, c.Targeting.ProjectDepth, "Directory levels naming a project: 1 (root/project) or 2 (root/org/repo)")

	// Output
	cmd.Flags().BoolVar(&c.Output.Detailed, flags.FlagDetailed, false, "Print one line per project after the summary")
	cmd.Flags().StringVar(&c.Output.CSV, flags.FlagCSV, "", "Write a CSV export to this path")
	cmd.Flags().StringVar(&c.Output.CSVLevel, flags.FlagCSVLevel, c.Output.CSVLevel, "CSV rows: file|project (default: file)")
	cmd.Flags().StringVar(&c.Output.Out, flags.FlagOut, "", "Write the full report as JSON to this path (.json)")
	cmd.Flags().StringVar(&c.Output.MetricsTextfile, flags.FlagMetricsTextfile, "", "Write Prometheus metrics in text format to this path")
	cmd.Flags().BoolVar(&c.Output.Quiet, flags.FlagQuiet, false, "Suppress progress lines on stderr")
	cmd.Flags().BoolVar(&c.Output.NoColor, flags.FlagNoColor, false, "Disable colored status labels")
	cmd.Flags().StringVar(&c.Output.FailOn, flags.FlagFailOn, c.Output.FailOn, "Exit 1 when a project reaches this status: none|partially_safe|unsafe")

	// Runtime
	cmd.Flags().IntVar(&c.Runtime.Concurrency, flags.FlagConcurrency, c.Runtime.Concurrency, "Files scanned in parallel (default: number of CPUs)")
	cmd.Flags().DurationVar(&c.Runtime.Timeout, flags.FlagTimeout, c.Runtime.Timeout, "Global timeout for one scan (0 = none)")
	cmd.Flags().Int64Var(&c.Runtime.MaxFileSize, flags.FlagMaxFileSize, c.Runtime.MaxFileSize, "Treat files larger than this many bytes as unreadable (0 = no limit)")
}

func init() {
	rootCmd.AddCommand(scanCmd)
	bindScanFlags(scanCmd, cfg)
}
