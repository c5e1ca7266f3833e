package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"hfscanner/internal/config"
	"hfscanner/internal/flags"
)

var (
	buildVersion = "dev"
	buildCommit  = "unknown"
	buildDate    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "hfscanner",
	Short: "Find Hugging Face downloads that are not pinned to a commit",
	Long: `hfscanner walks a tree of checked-out Python projects and reports which
Hugging Face download calls are pinned to an immutable commit, pinned to a
mutable tag or branch, or not pinned at all.

hfscanner is read-only: it never imports, executes or modifies scanned code.

Examples:
	# Scan every project under ./repos (laid out as repos/<org>/<repo>/...)
	hfscanner scan ./repos

	# Per-project listing and a file-level CSV
	hfscanner scan ./repos --detailed --csv findings.csv

	# Show each call site of one file
	hfscanner explain ./repos/acme/vision/train.py

	# List the recognized call shapes
	hfscanner shapes list

Configuration:
	Flags may also be set in a YAML file given by --config or the
	HFSCANNER_CONFIG environment variable. A .env file in the working
	directory is loaded first. Flags set on the command line win.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadDotEnv(".env")
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&cfg.Runtime.Verbose, flags.FlagVerbose, false, "Enable verbose logging (unreadable files, cache hits, watch events)")
	rootCmd.PersistentFlags().StringVar(&cfg.Runtime.ConfigFile, flags.FlagConfig, "", "YAML config file (default: $"+config.EnvConfigFile+")")
}

// loadDotEnv loads path into the environment without overriding variables
// that are already set. A missing file is not an error.
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// applyConfigFile overlays the YAML config file, if any, onto c. Flags the user
// set explicitly on cmd keep their values.
func applyConfigFile(cmd *cobra.Command, c *config.Config) error {
	path := c.Runtime.ConfigFile
	if path == "" {
		path = os.Getenv(config.EnvConfigFile)
	}
	if path == "" {
		return nil
	}
	f, err := config.LoadFile(path)
	if err != nil {
		return err
	}
	c.Apply(f, func(name string) bool {
		fl := cmd.Flags().Lookup(name)
		return fl != nil && fl.Changed
	})
	return nil
}

func SetBuildInfo(version, commit, date string) {
	if version != "" {
		buildVersion = version
	}
	if commit != "" {
		buildCommit = commit
	}
	if date != "" {
		buildDate = date
	}

	rootCmd.Version = fmt.Sprintf("%s (%s) %s", buildVersion, buildCommit, buildDate)
	rootCmd.SetVersionTemplate("{{.Version}}\n")
}

func BuildInfo() (version, commit, date string) {
	return buildVersion, buildCommit, buildDate
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
