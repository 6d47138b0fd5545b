package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/iogen/internal/compiler"
	"github.com/roach88/iogen/internal/render"
)

// GraphOptions holds flags for the graph command.
type GraphOptions struct {
	*RootOptions
	Output     string
	SVG        bool
	Detailed   bool
	Unresolved bool
}

// GraphResult is the JSON payload of the graph command.
type GraphResult struct {
	DOT  string `json:"dot,omitempty"`
	File string `json:"file,omitempty"`
}

// NewGraphCommand creates the graph command.
func NewGraphCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GraphOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "graph [paths...]",
		Short: "Render the declaration dependency graph",
		Long: `Render the dependency graph of a declaration batch as Graphviz DOT,
or as SVG with --svg.

Recursive declarations are shaded; custom declarations have a double
border. With --detailed, nodes show their kind and emission position.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGraph(opts, args, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path (default stdout)")
	cmd.Flags().BoolVar(&opts.SVG, "svg", false, "render SVG instead of DOT")
	cmd.Flags().BoolVar(&opts.Detailed, "detailed", false, "show kind and emission position")
	cmd.Flags().BoolVar(&opts.Unresolved, "unresolved", false, "include names declared outside the batch")

	return cmd
}

func runGraph(opts *GraphOptions, args []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	ctx := cmd.Context()

	cfg, err := loadConfig(opts.RootOptions, formatter)
	if err != nil {
		return err
	}
	loaded, err := loadDeclarations(ctx, formatter, specPaths(args, cfg))
	if err != nil {
		return err
	}

	dot, err := render.ToDOT(loaded.Declarations, render.Options{
		Detailed:   opts.Detailed,
		Unresolved: opts.Unresolved,
	})
	if err != nil {
		var dup *compiler.DuplicateDeclarationError
		if errors.As(err, &dup) {
			return fail(formatter, ExitFailure, compiler.ErrDuplicateName, fmt.Sprintf("duplicate declaration %q", dup.Name), nil)
		}
		return fail(formatter, ExitCommandError, ErrCodeRenderFailed, "building graph", err)
	}

	content := dot
	if opts.SVG {
		svg, err := render.RenderSVG(ctx, dot)
		if err != nil {
			return fail(formatter, ExitCommandError, ErrCodeRenderFailed, "rendering SVG", err)
		}
		content = string(svg)
	}

	if opts.Output != "" {
		if err := writeFile(opts.Output, content); err != nil {
			return fail(formatter, ExitCommandError, ErrCodeWriteFailed, "writing output file", err)
		}
	}

	if formatter.IsJSON() {
		res := GraphResult{File: opts.Output}
		if opts.Output == "" {
			res.DOT = dot
		}
		return formatter.Success(res)
	}

	if opts.Output == "" {
		fmt.Fprint(formatter.Writer, content)
		return nil
	}
	fmt.Fprintf(formatter.Writer, "%s Wrote graph %s %s\n", markSuccess(), iconArrow, opts.Output)
	return nil
}
