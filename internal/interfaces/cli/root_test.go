package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runCommand executes the root command with args, feeding stdin and
// capturing stdout.
func runCommand(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(bytes.NewBufferString(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootCommandStructure(t *testing.T) {
	cmd := NewRootCommand()

	assert.Equal(t, "msmectl", cmd.Use)
	assert.NotEmpty(t, cmd.Short)

	names := make(map[string]bool)
	for _, sub := range cmd.Commands() {
		names[sub.Use] = true
	}
	assert.True(t, names["valuate"], "valuate subcommand missing")
	assert.True(t, names["score"], "score subcommand missing")
}

func TestRootCommandOutputFlag(t *testing.T) {
	cmd := NewRootCommand()
	flag := cmd.PersistentFlags().Lookup("output")
	require.NotNil(t, flag)
	assert.Equal(t, "text", flag.DefValue)
}

func TestRootCommandRejectsBadOutputFormat(t *testing.T) {
	_, err := runCommand(t, `{}`, "--output", "yaml", "valuate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid output format")
}
