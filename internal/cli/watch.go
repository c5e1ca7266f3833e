package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"hfscanner/internal/engine"
	"hfscanner/internal/flags"
)

var watchCmd = &cobra.Command{
	Use:   "watch <root>",
	Short: "Scan a directory tree and rescan it on every change",
	Long: `Scan <root> like "hfscanner scan", then keep watching it and print a fresh
report whenever files change. Unchanged files are not read again.

Changes are collected for --debounce before a rescan starts. Exports given
with --csv, --out or --metrics-textfile are rewritten after every rescan.

Stop with Ctrl+C.

Examples:
	hfscanner watch ./repos --detailed
	hfscanner watch ./repos --metrics-textfile /var/lib/node_exporter/hfscanner.prom --quiet
`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ok, code := prepareConfig(cmd, cfg, args, os.Stderr)
		if !ok {
			os.Exit(code)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := engine.NewEngine().Watch(ctx, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			stop()
			os.Exit(3)
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	bindScanFlags(watchCmd, cfg)
	watchCmd.Flags().DurationVar(&cfg.Runtime.Debounce, flags.FlagDebounce, cfg.Runtime.Debounce, "Quiet period before a rescan")
}
