package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/iogen/internal/compiler"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid        bool                       `json:"valid"`
	Declarations int                        `json:"declarations"`
	Errors       []compiler.ValidationError `json:"errors,omitempty"`
	Warnings     []compiler.Warning         `json:"warnings"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [paths...]",
		Short: "Lint declaration files without generating",
		Long: `Load and lint declaration files without printing codecs.

Reports every structural error (invalid names, duplicate declarations,
empty unions, malformed brands and so on) and the warnings generate
would print: reference cycles, names declared outside the batch, and
redundant optional markers. Faster than generate for development
feedback.`,
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args, cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, args []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	cfg, err := loadConfig(opts, formatter)
	if err != nil {
		return err
	}
	loaded, err := loadDeclarations(cmd.Context(), formatter, specPaths(args, cfg))
	if err != nil {
		return err
	}

	if errs := compiler.Validate(loaded.Declarations); len(errs) > 0 {
		return outputValidationErrors(formatter, errs)
	}

	warnings := compiler.Warnings(loaded.Declarations)
	if formatter.IsJSON() {
		return formatter.Success(ValidationResult{
			Valid:        true,
			Declarations: len(loaded.Declarations),
			Warnings:     warnings,
		})
	}

	formatter.Warnings(warnings)
	fmt.Fprintf(formatter.Writer, "%s All %d declaration(s) valid\n", markSuccess(), len(loaded.Declarations))
	return nil
}

// outputValidationErrors outputs multiple validation errors.
func outputValidationErrors(formatter *OutputFormatter, errs []compiler.ValidationError) error {
	if formatter.IsJSON() {
		response := CLIResponse{
			Status: "error",
			Data: ValidationResult{
				Valid:    false,
				Errors:   errs,
				Warnings: []compiler.Warning{},
			},
			Error: &CLIError{
				Code:    errs[0].Code,
				Message: errs[0].Message,
			},
		}
		if err := formatter.encode(response); err != nil {
			return err
		}

		// Validation failures = exit code 1
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
	}

	fmt.Fprintf(formatter.Writer, "%s Validation failed\n\n", markError())
	for _, err := range errs {
		fmt.Fprintf(formatter.Writer, "  %s\n", err)
	}

	// Validation failures = exit code 1
	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
}
