package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/zaphkiel/internal/store"
)

// TablesResult lists the tables of a VRCX database.
type TablesResult struct {
	Tables          []store.TableInfo `json:"tables"`
	FriendLogTables []string          `json:"friend_log_tables"`
	verbose         bool
}

// WriteText prints one table per line, marking friend snapshot tables.
func (r TablesResult) WriteText(w io.Writer) error {
	friend := make(map[string]bool, len(r.FriendLogTables))
	for _, name := range r.FriendLogTables {
		friend[name] = true
	}

	fmt.Fprintf(w, "%d table(s)\n", len(r.Tables))
	for _, t := range r.Tables {
		marker := " "
		if friend[t.Name] {
			marker = "*"
		}
		fmt.Fprintf(w, "%s %s\n", marker, t.Name)
		if r.verbose && t.SQL != "" {
			fmt.Fprintf(w, "    %s\n", t.SQL)
		}
	}
	return nil
}

// NewTablesCommand creates the tables command.
func NewTablesCommand(rootOpts *RootOptions) *cobra.Command {
	var source string

	cmd := &cobra.Command{
		Use:   "tables",
		Short: "List the tables of a VRCX database",
		Long: `List the tables in a VRCX database. Friend snapshot tables, which the
ingest command discovers automatically, are marked with '*'.

Examples:
  zaphkiel tables --source ./VRCX.sqlite3
  zaphkiel tables --source ./VRCX.sqlite3 -v`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTables(rootOpts, cmd, source)
		},
	}

	cmd.Flags().StringVar(&source, "source", "", "path to the VRCX sqlite database")

	return cmd
}

func runTables(opts *RootOptions, cmd *cobra.Command, source string) error {
	ctx := cmd.Context()
	out := opts.formatter(cmd)

	source = firstNonEmpty(source, opts.settings().Source)
	if source == "" {
		_ = out.Error(ErrCodeConfig, "no VRCX source database given", nil)
		return NewExitError(ExitCommandError, "--source is required (or set source in config)")
	}

	src, err := store.OpenSource(source)
	if err != nil {
		_ = out.Error(ErrCodeOpenFailed, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to open source", err)
	}
	defer src.Close()

	tables, err := src.Tables(ctx)
	if err != nil {
		_ = out.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to list tables", err)
	}
	friends, err := src.FriendLogTables(ctx)
	if err != nil {
		_ = out.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to list friend log tables", err)
	}

	return out.Success(TablesResult{Tables: tables, FriendLogTables: friends, verbose: opts.Verbose})
}
