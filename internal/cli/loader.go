package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/iogen/internal/config"
	"github.com/roach88/iogen/internal/loader"
	"github.com/roach88/iogen/internal/store"
)

// newFormatter builds the formatter for cmd's writers.
func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Diagnostics go to stderr to avoid corrupting output
		Verbose:   opts.Verbose,
	}
}

// loadConfig loads the configuration or reports a command error.
func loadConfig(opts *RootOptions, formatter *OutputFormatter) (config.Config, error) {
	cfg, err := opts.Config()
	if err != nil {
		return config.Config{}, fail(formatter, ExitCommandError, ErrCodeConfig, "loading configuration", err)
	}
	return cfg, nil
}

// specPaths returns the command arguments, or the configured specs when
// none are given.
func specPaths(args []string, cfg config.Config) []string {
	if len(args) > 0 {
		return args
	}
	return cfg.Specs
}

// loadDeclarations loads every declaration file under paths. All load
// errors are reported together as one command error.
func loadDeclarations(ctx context.Context, formatter *OutputFormatter, paths []string) (*loader.Result, error) {
	result, errs := loader.Load(ctx, paths...)
	if len(errs) > 0 {
		return nil, outputLoadErrors(formatter, errs)
	}
	formatter.VerboseLog("Loaded %d declaration(s) from %d file(s)", len(result.Declarations), len(result.Files))
	return result, nil
}

// outputLoadErrors outputs every load error.
func outputLoadErrors(formatter *OutputFormatter, errs []error) error {
	loadErrs := make([]*loader.LoadError, len(errs))
	for i, err := range errs {
		var le *loader.LoadError
		if !errors.As(err, &le) {
			le = &loader.LoadError{Code: ErrCodeGeneric, Message: err.Error()}
		}
		loadErrs[i] = le
	}

	if formatter.IsJSON() {
		_ = formatter.encode(CLIResponse{
			Status: "error",
			Error: &CLIError{
				Code:    loadErrs[0].Code,
				Message: loadErrs[0].Message,
				Details: loadErrs,
			},
		})
	} else {
		fmt.Fprintf(formatter.Writer, "%s Loading failed\n\n", markError())
		for _, le := range loadErrs {
			fmt.Fprintf(formatter.Writer, "  %s\n", le)
		}
	}
	return NewExitError(ExitCommandError, fmt.Sprintf("loading failed with %d error(s)", len(errs)))
}

// openStore opens the history database, creating its directory.
func openStore(path string) (*store.Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	return store.Open(path)
}

// writeFile writes content to path, creating parent directories.
func writeFile(path, content string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, []byte(content), 0o644)
}

// sourceLabel names a set of inputs in history.
func sourceLabel(paths []string) string {
	return strings.Join(paths, ",")
}
