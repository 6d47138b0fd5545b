package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/iogen/internal/store"
)

// HistoryOptions holds flags shared by the history commands.
type HistoryOptions struct {
	*RootOptions
	Database string
	Limit    int
	Batch    string
	Keep     int
}

// RunDiff is the JSON payload of history diff.
type RunDiff struct {
	From    string        `json:"from"`
	To      string        `json:"to"`
	Changes store.Changes `json:"changes"`
}

// NewHistoryCommand creates the history command and its subcommands.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect recorded generation runs",
		Long: `List and compare the runs recorded by generate --record.

Each run stores the fingerprint of every emitted declaration, so runs
can be compared declaration by declaration.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistoryList(opts, cmd)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.Database, "db", "", "history database path (default from config)")
	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 20, "number of runs to list (0 for all)")

	show := &cobra.Command{
		Use:           "show [run-id|latest]",
		Short:         "Show one run with its declarations",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistoryShow(opts, args, cmd)
		},
	}
	show.Flags().StringVar(&opts.Batch, "batch", "", "show the newest run of a batch fingerprint")

	decl := &cobra.Command{
		Use:           "decl <name>",
		Short:         "Show the fingerprints one declaration had across runs",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistoryDecl(opts, args[0], cmd)
		},
	}

	diff := &cobra.Command{
		Use:           "diff <from-run> <to-run>",
		Short:         "Compare the declarations of two runs",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistoryDiff(opts, args[0], args[1], cmd)
		},
	}

	prune := &cobra.Command{
		Use:           "prune",
		Short:         "Delete all but the newest runs",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistoryPrune(opts, cmd)
		},
	}
	prune.Flags().IntVar(&opts.Keep, "keep", 10, "number of runs to keep")

	cmd.AddCommand(show, decl, diff, prune)
	return cmd
}

// openHistory opens the configured database. A missing database is a
// command error: history never creates one.
func openHistory(opts *HistoryOptions, formatter *OutputFormatter, cmd *cobra.Command) (*store.Store, error) {
	cfg, err := loadConfig(opts.RootOptions, formatter)
	if err != nil {
		return nil, err
	}
	path := cfg.Database
	if cmd.Flags().Changed("db") {
		path = opts.Database
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fail(formatter, ExitCommandError, ErrCodeStore, fmt.Sprintf("history database not found: %s", path), nil)
	}
	s, err := store.Open(path)
	if err != nil {
		return nil, fail(formatter, ExitCommandError, ErrCodeStore, "opening history database", err)
	}
	return s, nil
}

func runHistoryList(opts *HistoryOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	s, err := openHistory(opts, formatter, cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	runs, err := s.ReadRuns(cmd.Context(), opts.Limit)
	if err != nil {
		return fail(formatter, ExitCommandError, ErrCodeStore, "reading runs", err)
	}
	if formatter.IsJSON() {
		return formatter.Success(runs)
	}

	if len(runs) == 0 {
		fmt.Fprintln(formatter.Writer, "No runs recorded")
		return nil
	}
	for _, run := range runs {
		fmt.Fprintf(formatter.Writer, "%4d  %s  %s  %s\n",
			run.Seq,
			styleName.Render(run.ID),
			run.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			styleDim.Render(run.Source),
		)
	}
	return nil
}

func runHistoryShow(opts *HistoryOptions, args []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	s, err := openHistory(opts, formatter, cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := cmd.Context()
	var run store.Run
	switch {
	case opts.Batch != "":
		run, err = s.FindRunByBatch(ctx, opts.Batch)
	case len(args) == 0 || args[0] == "latest":
		run, err = s.LatestRun(ctx)
	default:
		run, err = s.ReadRun(ctx, args[0])
	}
	if errors.Is(err, store.ErrRunNotFound) {
		return fail(formatter, ExitCommandError, ErrCodeStore, "run not found", nil)
	}
	if err != nil {
		return fail(formatter, ExitCommandError, ErrCodeStore, "reading run", err)
	}

	if formatter.IsJSON() {
		return formatter.Success(run)
	}

	w := formatter.Writer
	fmt.Fprintf(w, "run %d  %s\n", run.Seq, styleName.Render(run.ID))
	fmt.Fprintf(w, "  source:    %s\n", run.Source)
	fmt.Fprintf(w, "  created:   %s\n", run.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "  batch:     %s\n", run.BatchHash)
	fmt.Fprintf(w, "  output:    %s\n", run.OutputHash)
	fmt.Fprintf(w, "  generator: %s (ir %s)\n\n", run.GeneratorVersion, run.IRVersion)
	for _, d := range run.Declarations {
		suffix := ""
		if d.Recursive {
			suffix = " " + styleDim.Render("(recursive)")
		}
		fmt.Fprintf(w, "  %3d  %-6s %s%s\n", d.Position+1, d.Kind, styleName.Render(d.Name), suffix)
	}
	return nil
}

func runHistoryDecl(opts *HistoryOptions, name string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	s, err := openHistory(opts, formatter, cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	versions, err := s.DeclarationHistory(cmd.Context(), name)
	if err != nil {
		return fail(formatter, ExitCommandError, ErrCodeStore, "reading declaration history", err)
	}
	if formatter.IsJSON() {
		return formatter.Success(versions)
	}

	if len(versions) == 0 {
		fmt.Fprintf(formatter.Writer, "%s was never emitted\n", name)
		return nil
	}
	prev := ""
	for _, v := range versions {
		marker := " "
		if prev != "" && v.Fingerprint != prev {
			marker = "*"
		}
		prev = v.Fingerprint
		fmt.Fprintf(formatter.Writer, "%s %4d  %s  %s\n", marker, v.Seq, v.Fingerprint, styleDim.Render(v.RunID))
	}
	return nil
}

func runHistoryDiff(opts *HistoryOptions, fromID, toID string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	s, err := openHistory(opts, formatter, cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := cmd.Context()
	from, err := s.ReadRun(ctx, fromID)
	if err != nil {
		return fail(formatter, ExitCommandError, ErrCodeStore, fmt.Sprintf("reading run %s", fromID), err)
	}
	to, err := s.ReadRun(ctx, toID)
	if err != nil {
		return fail(formatter, ExitCommandError, ErrCodeStore, fmt.Sprintf("reading run %s", toID), err)
	}

	changes := store.Diff(from, to)
	if formatter.IsJSON() {
		return formatter.Success(RunDiff{From: from.ID, To: to.ID, Changes: changes})
	}

	if changes.Empty() {
		fmt.Fprintf(formatter.Writer, "%s No declaration changes\n", markSuccess())
		return nil
	}
	for _, name := range changes.Added {
		fmt.Fprintf(formatter.Writer, "+ %s\n", name)
	}
	for _, name := range changes.Removed {
		fmt.Fprintf(formatter.Writer, "- %s\n", name)
	}
	for _, name := range changes.Changed {
		fmt.Fprintf(formatter.Writer, "~ %s\n", name)
	}
	return nil
}

func runHistoryPrune(opts *HistoryOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	s, err := openHistory(opts, formatter, cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	n, err := s.Prune(cmd.Context(), opts.Keep)
	if err != nil {
		return fail(formatter, ExitCommandError, ErrCodeStore, "pruning runs", err)
	}
	if formatter.IsJSON() {
		return formatter.Success(map[string]int64{"deleted": n})
	}
	fmt.Fprintf(formatter.Writer, "%s Deleted %d run(s)\n", markSuccess(), n)
	return nil
}
