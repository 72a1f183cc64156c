package cli

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/zaphkiel/internal/model"
	"github.com/roach88/zaphkiel/internal/store"
)

// FailuresOptions holds flags for the failures command.
type FailuresOptions struct {
	*RootOptions
	Database string
	RunID    string // optional - defaults to the most recent run
}

// FailuresResult lists the rows that failed in one run.
type FailuresResult struct {
	Run      store.Run       `json:"run"`
	Failures []model.Failure `json:"failures"`
}

// WriteText prints one failure per line.
func (r FailuresResult) WriteText(w io.Writer) error {
	if len(r.Failures) == 0 {
		_, err := fmt.Fprintf(w, "No failures recorded for run %s\n", r.Run.ID)
		return err
	}
	fmt.Fprintf(w, "Run %s: %d failure(s)\n", r.Run.ID, len(r.Failures))
	for _, f := range r.Failures {
		field := f.Field
		if field == "" {
			field = "-"
		}
		fmt.Fprintf(w, "  %s row %s %s [%s] %s\n", f.Table, f.RowID, field, f.Code, f.Reason)
	}
	return nil
}

// NewFailuresCommand creates the failures command.
func NewFailuresCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FailuresOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "failures",
		Short: "List rows that failed to convert during an ingest run",
		Long: `List the rows an ingest run could not convert, with the field and reason.

Without --run the most recent run is shown.

Examples:
  zaphkiel failures --db ./zaphkiel.db
  zaphkiel failures --db ./zaphkiel.db --run 0192f0c4-... --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFailures(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to the normalized database")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "ingest run id")

	return cmd
}

func runFailures(opts *FailuresOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()
	out := opts.formatter(cmd)

	st, err := openExisting(out, firstNonEmpty(opts.Database, opts.settings().Database))
	if err != nil {
		return err
	}
	defer st.Close()

	var run store.Run
	if opts.RunID != "" {
		run, err = st.ReadRun(ctx, opts.RunID)
	} else {
		var runs []store.Run
		runs, err = st.ListRuns(ctx)
		if err == nil && len(runs) == 0 {
			err = sql.ErrNoRows
		}
		if err == nil {
			run = runs[0]
		}
	}
	if errors.Is(err, sql.ErrNoRows) {
		msg := "no ingest runs found"
		if opts.RunID != "" {
			msg = fmt.Sprintf("run %q not found", opts.RunID)
		}
		_ = out.Error(ErrCodeNotFound, msg, nil)
		return NewExitError(ExitCommandError, msg)
	}
	if err != nil {
		_ = out.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to read run", err)
	}

	failures, err := st.ReadFailures(ctx, run.ID)
	if err != nil {
		_ = out.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to read failures", err)
	}

	return out.Success(FailuresResult{Run: run, Failures: failures})
}

// openExisting opens a normalized database that must already exist.
// store.Open alone would create an empty one.
func openExisting(out *OutputFormatter, path string) (*store.Store, error) {
	if _, err := os.Stat(path); err != nil {
		_ = out.Error(ErrCodeNotFound, fmt.Sprintf("database not found: %s", path), nil)
		return nil, WrapExitError(ExitCommandError, "database not found", err)
	}
	st, err := store.Open(path)
	if err != nil {
		_ = out.Error(ErrCodeOpenFailed, err.Error(), nil)
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	return st, nil
}
