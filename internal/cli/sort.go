package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/iogen/internal/engine"
	"github.com/roach88/iogen/internal/ir"
)

// SortResult is the JSON payload of the sort command.
type SortResult struct {
	Order  []string `json:"order"`
	Cyclic []string `json:"cyclic"`
}

// NewSortCommand creates the sort command.
func NewSortCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sort [paths...]",
		Short: "Print the emission order of declarations",
		Long: `Print declaration names in the order generate emits them.

Recursive declarations come first and are marked; the rest follow
dependency first.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSort(rootOpts, args, cmd)
		},
	}

	return cmd
}

func runSort(opts *RootOptions, args []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	cfg, err := loadConfig(opts, formatter)
	if err != nil {
		return err
	}
	loaded, err := loadDeclarations(cmd.Context(), formatter, specPaths(args, cfg))
	if err != nil {
		return err
	}

	sorted, result, err := engine.New().Order(loaded.Declarations)
	if err != nil {
		return outputGenerateError(formatter, err)
	}

	res := SortResult{Order: ir.Names(sorted), Cyclic: result.Cyclic}
	if res.Cyclic == nil {
		res.Cyclic = []string{}
	}
	if formatter.IsJSON() {
		return formatter.Success(res)
	}

	for i, name := range res.Order {
		line := fmt.Sprintf("%3d  %s", i+1, styleName.Render(name))
		if result.IsCyclic(name) {
			line += " " + styleDim.Render("(recursive)")
		}
		fmt.Fprintln(formatter.Writer, line)
	}
	return nil
}
