package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/zaphkiel/internal/vrc"
)

// NormalizeResult is the output of the normalize command.
type NormalizeResult struct {
	Kind       vrc.TokenKind `json:"kind"`
	Token      string        `json:"token"`
	Value      string        `json:"value"`
	Recognized bool          `json:"recognized"`
}

// WriteText prints the canonical value, flagging fallbacks.
func (r NormalizeResult) WriteText(w io.Writer) error {
	if !r.Recognized {
		_, err := fmt.Fprintf(w, "%s (unrecognized %s token %q)\n", r.Value, r.Kind, r.Token)
		return err
	}
	_, err := fmt.Fprintln(w, r.Value)
	return err
}

// normalizers maps the command's kind argument to a normalizer returning
// the canonical string of the result.
var normalizers = map[string]struct {
	kind vrc.TokenKind
	fn   func(string) (fmt.Stringer, error)
}{
	"region": {vrc.KindRegion, func(s string) (fmt.Stringer, error) { return vrc.NormalizeRegion(s) }},
	"trust":  {vrc.KindTrustLevel, func(s string) (fmt.Stringer, error) { return vrc.NormalizeTrustLevel(s) }},
	"event":  {vrc.KindJoinLeaveEvent, func(s string) (fmt.Stringer, error) { return vrc.NormalizeJoinLeaveEvent(s) }},
}

// NewNormalizeCommand creates the normalize command.
func NewNormalizeCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "normalize <region|trust|event> <token>",
		Short: "Map a free-form token to its category",
		Long: `Normalize a region, trust level or join/leave event token the way the
ingest pipeline does. Matching ignores case.

Unrecognized tokens print the fallback category (other, unknown, other).

Exit codes:
  0 - Token recognized
  1 - Token not recognized
  2 - Unknown kind

Examples:
  zaphkiel normalize region "US W"
  zaphkiel normalize trust known_user
  zaphkiel normalize event OnPlayerJoined`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNormalize(rootOpts, cmd, args[0], args[1])
		},
	}

	return cmd
}

func runNormalize(opts *RootOptions, cmd *cobra.Command, kind, token string) error {
	out := opts.formatter(cmd)

	n, ok := normalizers[strings.ToLower(kind)]
	if !ok {
		msg := fmt.Sprintf("unknown kind %q: must be region, trust or event", kind)
		_ = out.Error(ErrCodeGeneric, msg, nil)
		return NewExitError(ExitCommandError, msg)
	}

	value, err := n.fn(token)
	result := NormalizeResult{
		Kind:       n.kind,
		Token:      token,
		Value:      value.String(),
		Recognized: err == nil,
	}
	if err != nil {
		if err := out.Partial(result, ErrCodeUnrecognized, err.Error()); err != nil {
			return err
		}
		return WrapExitError(ExitFailure, "token not recognized", err)
	}
	return out.Success(result)
}
