package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"hfscanner/internal/classify"
	"hfscanner/internal/output"
	"hfscanner/internal/risk"
)

var explainJSON bool

var explainCmd = &cobra.Command{
	Use:   "explain <file>",
	Short: "Show how each download call in a file is classified",
	Long: `Classify every recognized download call in one file and print one line per
call site: line number, call shape, status and the reason for the status.

Examples:
	hfscanner explain ./repos/acme/vision/train.py
	hfscanner explain train.py --json
`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		sites := classify.Sites(string(b))
		if explainJSON {
			if sites == nil {
				sites = []classify.Site{}
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(sites)
		}
		printSites(cmd.OutOrStdout(), args[0], sites, output.UseColor(cmd.OutOrStdout(), false))
		return nil
	},
}

func printSites(w io.Writer, path string, sites []classify.Site, useColor bool) {
	labels := map[risk.Tier]*color.Color{
		risk.Safe:          color.New(color.FgGreen),
		risk.PartiallySafe: color.New(color.FgYellow),
		risk.Unsafe:        color.New(color.FgRed, color.Bold),
	}
	for _, c := range labels {
		if useColor {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	ordered := append([]classify.Site(nil), sites...)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Offset < ordered[j].Offset })

	var counts risk.Counts
	for _, s := range ordered {
		counts.Inc(s.Tier)
		reason := string(s.Reason)
		if s.Revision != "" {
			reason = fmt.Sprintf("%s (revision=%q)", reason, s.Revision)
		}
		// Pad before coloring so escapes do not skew the columns.
		label := labels[s.Tier].Sprint(fmt.Sprintf("%-14s", s.Tier))
		fmt.Fprintf(w, "%s:%d\t%-17s %s %s\n", path, s.Line, s.Shape, label, reason)
	}
	fmt.Fprintf(w, "%d call sites: %d safe, %d partially safe, %d unsafe\n",
		len(sites), counts.Safe, counts.Partial, counts.Unsafe)
}

func init() {
	rootCmd.AddCommand(explainCmd)
	explainCmd.Flags().BoolVar(&explainJSON, "json", false, "Print call sites as a JSON array")
}
