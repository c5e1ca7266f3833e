package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"hfscanner/internal/classify"
)

var shapesListQuiet bool
var shapesCmd = &cobra.Command{
	Use:   "shapes",
	Short: "List the recognized download call shapes",
	Long: `List the download calls hfscanner recognizes.

Each shape is matched from its call name up to the first closing parenthesis.
Calls are classified during scans (see "hfscanner scan --help").

Examples:
  hfscanner shapes list
  hfscanner shapes show load_dataset
`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var shapesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List call shapes",
	Long: `List all call shapes in evaluation order.

Output:
  A vertical list of shapes:
    ----------------------------------------
    SHAPE: {ID}
    ----------------------------------------
    {TITLE} ({CALL})
    {DESCRIPTION}
`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, s := range classify.Shapes() {
			if shapesListQuiet {
				fmt.Fprintln(cmd.OutOrStdout(), s.ID)
			} else {
				printShape(cmd.OutOrStdout(), s)
			}
		}
		return nil
	},
}

var shapesShowCmd = &cobra.Command{
	Use:   "show [shape-id|call]",
	Short: "Show details of one call shape",
	Long: `Show one call shape by its ID or call name.

Examples:
  hfscanner shapes show hf-hub-download
  hfscanner shapes show AutoModel.from_pretrained
`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := classify.Lookup(args[0])
		if err != nil {
			return err
		}
		printShape(cmd.OutOrStdout(), s)
		return nil
	},
}

func printShape(w io.Writer, s classify.Shape) {
	bold := color.New(color.Bold)
	fmt.Fprintln(w, "----------------------------------------")
	bold.Fprintf(w, "SHAPE: %s\n", s.ID)
	fmt.Fprintln(w, "----------------------------------------")
	fmt.Fprintf(w, "%s (%s)\n", s.Title, s.Call)
	fmt.Fprintln(w, s.Description)
	fmt.Fprintln(w)
}

func init() {
	rootCmd.AddCommand(shapesCmd)
	shapesCmd.AddCommand(shapesListCmd)
	shapesListCmd.Flags().BoolVarP(&shapesListQuiet, "quiet", "q", false, "Only print shape IDs")
	shapesCmd.AddCommand(shapesShowCmd)
}
