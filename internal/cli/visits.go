package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/zaphkiel/internal/model"
)

// VisitsOptions holds flags for the visits command.
type VisitsOptions struct {
	*RootOptions
	Database string
	WorldID  string // optional - filter to one world
}

// VisitsResult lists normalized location records.
type VisitsResult struct {
	Visits []model.GamelogLocation `json:"visits"`
}

// WriteText prints one visit per line, oldest first.
func (r VisitsResult) WriteText(w io.Writer) error {
	if len(r.Visits) == 0 {
		_, err := fmt.Fprintln(w, "No visits found.")
		return err
	}
	for _, v := range r.Visits {
		where := "-"
		if v.WorldInstance != nil {
			where = v.WorldInstance.WorldID + ":" + v.WorldInstance.InstanceID
			if v.WorldInstance.Region != nil {
				where += " " + v.WorldInstance.Region.String()
			}
		} else if v.WorldID != nil {
			where = *v.WorldID
		}
		stay := ""
		if v.Time != nil {
			stay = " " + (time.Duration(*v.Time) * time.Millisecond).String()
		}
		fmt.Fprintf(w, "%s  %s  %s%s\n", v.CreatedAt.Format(time.RFC3339), v.WorldName, where, stay)
	}
	return nil
}

// NewVisitsCommand creates the visits command.
func NewVisitsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &VisitsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "visits",
		Short: "List normalized world visits",
		Long: `List the location records stored by ingest, oldest first.

Examples:
  zaphkiel visits --db ./zaphkiel.db
  zaphkiel visits --db ./zaphkiel.db --world wrld_1234 --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVisits(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to the normalized database")
	cmd.Flags().StringVar(&opts.WorldID, "world", "", "only list visits to this world id")

	return cmd
}

func runVisits(opts *VisitsOptions, cmd *cobra.Command) error {
	out := opts.formatter(cmd)

	st, err := openExisting(out, firstNonEmpty(opts.Database, opts.settings().Database))
	if err != nil {
		return err
	}
	defer st.Close()

	visits, err := st.ReadLocations(cmd.Context(), opts.WorldID)
	if err != nil {
		_ = out.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to read visits", err)
	}

	return out.Success(VisitsResult{Visits: visits})
}
