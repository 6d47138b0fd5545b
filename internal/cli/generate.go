package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/iogen/internal/compiler"
	"github.com/roach88/iogen/internal/config"
	"github.com/roach88/iogen/internal/engine"
)

// GenerateOptions holds flags for the generate command.
type GenerateOptions struct {
	*RootOptions
	Output   string   // output file path; empty writes to stdout
	Static   bool     // emit static types
	Runtime  bool     // emit runtime codecs
	Header   []string // header lines
	Record   bool     // record the run in history
	Database string   // history database path
}

// GenerateResult is the JSON payload of the generate command.
type GenerateResult struct {
	*engine.Result
	File string `json:"file,omitempty"`
}

// NewGenerateCommand creates the generate command.
func NewGenerateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GenerateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "generate [paths...]",
		Short: "Generate io-ts codecs from declaration files",
		Long: `Generate io-ts codecs and static types from declaration files.

Paths may be files or directories; directories are scanned recursively
for .yaml, .yml, .cue, .hcl and .json files. Without paths, the specs
listed in the configuration file are used.

Declarations are emitted so that every declaration follows the ones it
references. Mutually recursive declarations become t.recursion codecs
and are emitted first.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(opts, args, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path (default stdout)")
	cmd.Flags().BoolVar(&opts.Static, "static", true, "emit static types")
	cmd.Flags().BoolVar(&opts.Runtime, "runtime", true, "emit runtime codecs")
	cmd.Flags().StringArrayVar(&opts.Header, "header", nil, "header line (repeatable)")
	cmd.Flags().BoolVar(&opts.Record, "record", false, "record the run in the history database")
	cmd.Flags().StringVar(&opts.Database, "db", "", "history database path")

	return cmd
}

// mergeFlags applies the flags given on the command line over cfg.
func (opts *GenerateOptions) mergeFlags(cmd *cobra.Command, cfg config.Config) (config.Config, error) {
	flags := cmd.Flags()
	if flags.Changed("output") {
		cfg.Output = opts.Output
	}
	if flags.Changed("static") {
		cfg.Emit.Static = opts.Static
	}
	if flags.Changed("runtime") {
		cfg.Emit.Runtime = opts.Runtime
	}
	if flags.Changed("header") {
		cfg.Header = opts.Header
	}
	if flags.Changed("record") {
		cfg.Record = opts.Record
	}
	if flags.Changed("db") {
		cfg.Database = opts.Database
	}
	return cfg, cfg.Validate()
}

func runGenerate(opts *GenerateOptions, args []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	ctx := cmd.Context()
	p := newProgress()

	cfg, err := loadConfig(opts.RootOptions, formatter)
	if err != nil {
		return err
	}
	cfg, err = opts.mergeFlags(cmd, cfg)
	if err != nil {
		return fail(formatter, ExitCommandError, ErrCodeConfig, "invalid options", err)
	}

	paths := specPaths(args, cfg)
	loaded, err := loadDeclarations(ctx, formatter, paths)
	if err != nil {
		return err
	}

	engineOpts := []engine.Option{engine.WithPrinterOptions(cfg.PrinterOptions())}
	if cfg.Record {
		s, err := openStore(cfg.Database)
		if err != nil {
			return fail(formatter, ExitCommandError, ErrCodeStore, "opening history database", err)
		}
		defer s.Close()
		engineOpts = append(engineOpts, engine.WithStore(s))
	}

	res, err := engine.New(engineOpts...).Generate(ctx, engine.Request{
		Declarations: loaded.Declarations,
		Source:       sourceLabel(paths),
		Record:       cfg.Record,
	})
	if err != nil {
		return outputGenerateError(formatter, err)
	}

	if cfg.Output != "" {
		if err := writeFile(cfg.Output, res.Output); err != nil {
			return fail(formatter, ExitCommandError, ErrCodeWriteFailed, "writing output file", err)
		}
	}
	p.done("Generated codecs", "declarations", len(res.Order), "recursive", len(res.Cyclic))

	return outputGenerateSuccess(formatter, res, cfg.Output)
}

// outputGenerateSuccess prints the document, or a summary when the
// document went to a file.
func outputGenerateSuccess(formatter *OutputFormatter, res *engine.Result, file string) error {
	if formatter.IsJSON() {
		return formatter.Success(GenerateResult{Result: res, File: file})
	}

	formatter.Warnings(res.Warnings)
	if file == "" {
		fmt.Fprint(formatter.Writer, res.Output)
		return nil
	}

	fmt.Fprintf(formatter.Writer, "%s Generated %d declaration(s) %s %s\n",
		markSuccess(), len(res.Order), iconArrow, file)
	if len(res.Cyclic) > 0 {
		fmt.Fprintf(formatter.Writer, "  recursive: %s\n", styleName.Render(fmt.Sprint(res.Cyclic)))
	}
	if res.Run != nil {
		switch {
		case res.Unchanged:
			fmt.Fprintf(formatter.Writer, "  %s\n", styleDim.Render(fmt.Sprintf("unchanged since run %d", res.Run.Seq)))
		case res.Changes != nil:
			fmt.Fprintf(formatter.Writer, "  recorded run %d: %d added, %d removed, %d changed\n",
				res.Run.Seq, len(res.Changes.Added), len(res.Changes.Removed), len(res.Changes.Changed))
		default:
			fmt.Fprintf(formatter.Writer, "  recorded run %d\n", res.Run.Seq)
		}
	}
	return nil
}

// outputGenerateError maps engine errors to CLI output and exit codes.
func outputGenerateError(formatter *OutputFormatter, err error) error {
	var ge *engine.GenerateError
	if !errors.As(err, &ge) {
		return fail(formatter, ExitCommandError, ErrCodeGenerate, "generation failed", err)
	}
	switch ge.Code {
	case engine.ErrCodeLintFailed:
		return outputValidationErrors(formatter, ge.Lint)
	case engine.ErrCodeDuplicateDeclaration:
		return fail(formatter, ExitFailure, compiler.ErrDuplicateName, ge.Message, nil)
	case engine.ErrCodeRecordFailed:
		return fail(formatter, ExitCommandError, ErrCodeStore, "recording run", ge.Err)
	default:
		return fail(formatter, ExitCommandError, ErrCodeGenerate, ge.Message, ge.Err)
	}
}
