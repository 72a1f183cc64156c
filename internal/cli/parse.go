package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/zaphkiel/internal/vrc"
)

// ParseOptions holds flags for the parse command.
type ParseOptions struct {
	*RootOptions
	StrictRegion bool
}

// ParseResult is the output of the parse command.
type ParseResult struct {
	Input    string            `json:"input"`
	Instance vrc.WorldInstance `json:"instance"`
}

// WriteText renders one field per line, skipping absent modifiers.
func (r ParseResult) WriteText(w io.Writer) error {
	inst := r.Instance
	field := func(name, value string) {
		fmt.Fprintf(w, "%-18s %s\n", name+":", value)
	}
	optional := func(name string, value *string) {
		if value != nil {
			field(name, *value)
		}
	}

	field("world_id", inst.WorldID)
	field("instance_id", inst.InstanceID)
	if inst.Region != nil {
		field("region", inst.Region.String())
	}
	optional("nonce", inst.Nonce)
	optional("hidden", inst.Hidden)
	optional("private", inst.Private)
	optional("friends", inst.Friends)
	optional("group", inst.Group)
	optional("group_access_type", inst.GroupAccessType)
	return nil
}

// NewParseCommand creates the parse command.
func NewParseCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ParseOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "parse <location>",
		Short: "Parse a VRChat location string",
		Long: `Parse a location string of the form world_id:instance_id~modifier... and
print the resulting world instance.

Exit codes:
  0 - Location parsed
  2 - Location is malformed

Examples:
  zaphkiel parse 'wrld_1234:56789~region(eu)~nonce(abc)'
  zaphkiel parse --format json 'wrld_1234:56789~group(grp_1)~groupAccessType(public)'`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(opts, cmd, args[0])
		},
	}

	cmd.Flags().BoolVar(&opts.StrictRegion, "strict-region", false, "reject unknown region tokens")

	return cmd
}

func runParse(opts *ParseOptions, cmd *cobra.Command, location string) error {
	out := opts.formatter(cmd)
	parser := vrc.Parser{StrictRegion: opts.StrictRegion || opts.settings().Policy.StrictRegion}

	inst, err := parser.Parse(location)
	if err != nil {
		details := map[string]string{
			"input":      location,
			"parse_code": string(vrc.ParseErrorCodeOf(err)),
		}
		_ = out.Error(ErrCodeParse, err.Error(), details)
		return WrapExitError(ExitCommandError, "invalid location", err)
	}

	return out.Success(ParseResult{Input: location, Instance: inst})
}
