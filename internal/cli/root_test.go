package cli

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// executeRoot runs the full command tree with args and returns stdout,
// stderr and the exit code main would use.
func executeRoot(t *testing.T, args ...string) (string, string, int) {
	t.Helper()
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), GetExitCode(err)
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "zaphkiel", cmd.Use)
	assert.Contains(t, cmd.Long, "VRCX")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"ingest", "parse", "normalize", "tables", "failures", "visits"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	configFlag := cmd.PersistentFlags().Lookup("config")
	require.NotNil(t, configFlag)
	assert.Equal(t, "", configFlag.DefValue)
}

func TestIngestCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	ingestCmd, _, err := cmd.Find([]string{"ingest"})
	require.NoError(t, err)

	for _, name := range []string{"source", "db", "user", "workers"} {
		assert.NotNil(t, ingestCmd.Flags().Lookup(name), "ingest should have --%s", name)
	}
}

func TestInvalidFormat(t *testing.T) {
	_, _, code := executeRoot(t, "normalize", "region", "eu", "--format", "xml")
	assert.Equal(t, ExitCommandError, code)
}

func TestIsValidFormat(t *testing.T) {
	assert.True(t, isValidFormat("text"))
	assert.True(t, isValidFormat("json"))
	assert.False(t, isValidFormat("xml"))
	assert.False(t, isValidFormat(""))
}

func TestConfigFileSetsFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "zaphkiel.yaml")
	require.NoError(t, os.WriteFile(path, []byte("format: json\n"), 0644))

	out, _, code := executeRoot(t, "normalize", "region", "eu", "--config", path)
	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, out, `"status": "ok"`)

	// An explicit flag wins over the file.
	out, _, code = executeRoot(t, "normalize", "region", "eu", "--config", path, "--format", "text")
	assert.Equal(t, ExitSuccess, code)
	assert.Equal(t, "europe\n", out)
}

func TestInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "zaphkiel.yaml")
	require.NoError(t, os.WriteFile(path, []byte("workers: -3\n"), 0644))

	_, _, code := executeRoot(t, "normalize", "region", "eu", "--config", path)
	assert.Equal(t, ExitCommandError, code)
}
