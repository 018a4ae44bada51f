package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildParser_RegistersAllCommands(t *testing.T) {
	parser, globals, cmds := buildParser("1.2.3")

	require.NotNil(t, globals)
	require.NotNil(t, cmds.Fetch)
	require.NotNil(t, cmds.Build)
	require.NotNil(t, cmds.Refresh)
	require.NotNil(t, cmds.Serve)

	names := make([]string, 0, 4)
	for _, cmd := range parser.Commands() {
		names = append(names, cmd.Name)
	}
	assert.ElementsMatch(t, []string{"fetch", "build", "refresh", "serve"}, names)
}

func TestRunWithArgs_Version(t *testing.T) {
	require.NoError(t, RunWithArgs("1.2.3", []string{"--version"}))
}

func TestRunWithArgs_UnknownCommand(t *testing.T) {
	err := RunWithArgs("1.2.3", []string{"frobnicate"})
	require.Error(t, err)
}

func TestFetchCommand_MutuallyExclusiveFlags(t *testing.T) {
	err := RunWithArgs("1.2.3", []string{"fetch", "--curves-only", "--observations-only"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mutually exclusive")
}
