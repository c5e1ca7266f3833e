package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"hfscanner/internal/classify"
	"hfscanner/internal/walker"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version and recognizer information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		writeVersion(cmd.OutOrStdout())
	},
}

// writeVersion prints the build stamp plus what a default scan looks for.
func writeVersion(w io.Writer) {
	version, commit, date := BuildInfo()
	fmt.Fprintf(w, "hfscanner %s (commit %s, built %s)\n", version, commit, date)
	fmt.Fprintf(w, "call shapes: %d\n", len(classify.Shapes()))
	fmt.Fprintf(w, "extensions:  %s\n", strings.Join(walker.DefaultExtensions, ", "))
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
