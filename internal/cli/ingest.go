package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/zaphkiel/internal/ingest"
	"github.com/roach88/zaphkiel/internal/store"
)

// IngestOptions holds flags for the ingest command.
type IngestOptions struct {
	*RootOptions
	Source   string
	Database string
	User     string // optional - limit friend snapshots to one account
	Workers  int
}

// ingestResult wraps a report for text rendering.
type ingestResult struct {
	ingest.Report
	verbose bool
}

// WriteText renders the report as a per-table summary.
func (r ingestResult) WriteText(w io.Writer) error {
	fmt.Fprintf(w, "Run %s\n", r.RunID)
	for _, t := range r.Tables {
		fmt.Fprintf(w, "  %s: %d rows, %d converted, %d failed\n", t.Table, t.Rows, t.Converted, t.Failed)
	}
	if r.verbose {
		for _, f := range r.Failures {
			fmt.Fprintf(w, "  ✗ %s row %s [%s] %s\n", f.Table, f.RowID, f.Code, f.Reason)
		}
	}
	_, err := fmt.Fprintf(w, "Converted %d, failed %d\n", r.Converted(), r.Failed())
	return err
}

// NewIngestCommand creates the ingest command.
func NewIngestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &IngestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Normalize a VRCX database into the zaphkiel store",
		Long: `Read every join/leave, location and friend snapshot row from a VRCX
database, convert it and write the records to the normalized database.

Rows that fail to convert are recorded under the run id and listed by
'zaphkiel failures'. Re-ingesting the same VRCX database updates records in
place.

Exit codes:
  0 - Every row converted
  1 - One or more rows failed to convert
  2 - Command error (source not found, database error, etc.)

Examples:
  zaphkiel ingest --source ~/AppData/Roaming/VRCX/VRCX.sqlite3 --db ./zaphkiel.db
  zaphkiel ingest --source ./VRCX.sqlite3 --user usr_1234 --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngest(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Source, "source", "", "path to the VRCX sqlite database")
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to the normalized database")
	cmd.Flags().StringVar(&opts.User, "user", "", "only ingest the friend snapshot of this VRChat user id")
	cmd.Flags().IntVar(&opts.Workers, "workers", 0, "conversion workers (0 = config or GOMAXPROCS)")

	return cmd
}

func runIngest(opts *IngestOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()
	cfg := opts.settings()
	out := opts.formatter(cmd)

	source := firstNonEmpty(opts.Source, cfg.Source)
	if source == "" {
		_ = out.Error(ErrCodeConfig, "no VRCX source database given", nil)
		return NewExitError(ExitCommandError, "--source is required (or set source in config)")
	}
	database := firstNonEmpty(opts.Database, cfg.Database)

	src, err := store.OpenSource(source)
	if err != nil {
		_ = out.Error(ErrCodeOpenFailed, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to open source", err)
	}
	defer src.Close()

	st, err := store.Open(database)
	if err != nil {
		_ = out.Error(ErrCodeOpenFailed, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	jl, loc, ft := cfg.JoinLeavePolicy(), cfg.LocationPolicy(), cfg.FriendTrustPolicy()
	pipelineOpts := ingest.Options{
		Workers:           cfg.Workers,
		JoinLeavePolicy:   &jl,
		LocationPolicy:    &loc,
		FriendTrustPolicy: &ft,
		FriendTables:      cfg.FriendTables,
		Logger:            opts.logger(),
	}
	if opts.Workers > 0 {
		pipelineOpts.Workers = opts.Workers
	}
	if opts.User != "" {
		pipelineOpts.FriendTables = []string{store.FriendLogTable(opts.User)}
	}

	report, err := ingest.NewPipeline(src, st, pipelineOpts).Run(ctx)
	if err != nil {
		_ = out.Error(ErrCodeIngestFailed, err.Error(), nil)
		return WrapExitError(ExitCommandError, "ingest failed", err)
	}

	result := ingestResult{Report: report, verbose: opts.Verbose}
	if report.Failed() > 0 {
		msg := fmt.Sprintf("%d row(s) failed to convert", report.Failed())
		if err := out.Partial(result, ErrCodeRowFailures, msg); err != nil {
			return err
		}
		return NewExitError(ExitFailure, msg)
	}
	return out.Success(result)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
