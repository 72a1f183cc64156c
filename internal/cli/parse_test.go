package cli

import (
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/zaphkiel/internal/vrc"
)

const groupLocation = "wrld_1234:56789~region(eu)~nonce(abc)~group(grp_1)~groupAccessType(members)"

// TestParseOutput pins parse output in both formats.
//
// To regenerate golden files, run:
//
//	go test ./internal/cli -update
func TestParseOutput(t *testing.T) {
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)

	out, _, code := executeRoot(t, "parse", groupLocation)
	require.Equal(t, ExitSuccess, code)
	g.Assert(t, "parse_text", []byte(out))

	out, _, code = executeRoot(t, "parse", "--format", "json", groupLocation)
	require.Equal(t, ExitSuccess, code)
	g.Assert(t, "parse_json", []byte(out))
}

func TestParse_Malformed(t *testing.T) {
	tests := []struct {
		input string
		code  vrc.ParseErrorCode
	}{
		{"wrld_1234", vrc.ParseInvalidFormat},
		{":1234", vrc.ParseInvalidWorldID},
		{"wrld_1234:", vrc.ParseInvalidInstanceID},
		{"wrld_1234:1~bogus(x)", vrc.ParseInvalidOptionalField},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			out, _, code := executeRoot(t, "parse", "--format", "json", tt.input)
			assert.Equal(t, ExitCommandError, code)

			var resp struct {
				Status string `json:"status"`
				Error  struct {
					Code    string            `json:"code"`
					Details map[string]string `json:"details"`
				} `json:"error"`
			}
			require.NoError(t, json.Unmarshal([]byte(out), &resp))
			assert.Equal(t, "error", resp.Status)
			assert.Equal(t, ErrCodeParse, resp.Error.Code)
			assert.Equal(t, string(tt.code), resp.Error.Details["parse_code"])
		})
	}
}

func TestParse_StrictRegion(t *testing.T) {
	out, _, code := executeRoot(t, "parse", "wrld_1234:1~region(mars)")
	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, out, "other")

	_, _, code = executeRoot(t, "parse", "--strict-region", "wrld_1234:1~region(mars)")
	assert.Equal(t, ExitCommandError, code)
}

func TestParse_RequiresOneArg(t *testing.T) {
	_, _, code := executeRoot(t, "parse")
	assert.NotEqual(t, ExitSuccess, code)
}
