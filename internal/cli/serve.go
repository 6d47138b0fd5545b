package cli

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/iogen/internal/engine"
	"github.com/roach88/iogen/internal/server"
)

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions
	Addr     string
	Database string
	History  bool
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP playground",
		Long: `Run an HTTP server that generates codecs from posted declarations.

POST /v1/generate with {"format": "yaml", "source": "..."} returns the
generated document. With --history, runs can be recorded and browsed
under /v1/runs.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().StringVar(&opts.Database, "db", "", "history database path")
	cmd.Flags().BoolVar(&opts.History, "history", false, "enable the history routes")

	return cmd
}

func runServe(opts *ServeOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	cfg, err := loadConfig(opts.RootOptions, formatter)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("addr") {
		cfg.Serve.Addr = opts.Addr
	}
	if cmd.Flags().Changed("db") {
		cfg.Database = opts.Database
	}

	engineOpts := []engine.Option{engine.WithPrinterOptions(cfg.PrinterOptions())}
	if opts.History || cfg.Record {
		s, err := openStore(cfg.Database)
		if err != nil {
			return fail(formatter, ExitCommandError, ErrCodeStore, "opening history database", err)
		}
		defer s.Close()
		engineOpts = append(engineOpts, engine.WithStore(s))
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(engine.New(engineOpts...), slog.Default())
	if err := srv.ListenAndServe(ctx, cfg.Serve.Addr); err != nil {
		return fail(formatter, ExitCommandError, ErrCodeGeneric, "serving", err)
	}
	return nil
}
