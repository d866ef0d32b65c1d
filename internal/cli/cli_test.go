package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVersionFlag(t *testing.T) {
	output := captureOutput(t, func() {
		err := RunWithArgs("0.1.0-test", []string{"--version"})
		assert.NoError(t, err)
	})
	assert.Contains(t, output, "sessionlens 0.1.0-test")
}

func TestVersionOutputFormat(t *testing.T) {
	output := captureOutput(t, func() {
		_ = RunWithArgs("1.2.3", []string{"--version"})
	})
	assert.Equal(t, "sessionlens 1.2.3", strings.TrimSpace(output))
}

func TestVersionFlagAfterDashDashIgnored(t *testing.T) {
	// "--" terminates option scanning; --version after it is positional.
	err := RunWithArgs("1.0.0", []string{"--", "--version"})
	assert.Error(t, err)
}

func TestAllSubcommandsRegistered(t *testing.T) {
	parser, _, _ := buildParser("test")

	for _, name := range []string{"status", "import", "sessions", "analyze", "prune", "purge"} {
		assert.NotNil(t, parser.Find(name), "subcommand %s", name)
	}
}

func TestUnknownSubcommand(t *testing.T) {
	parser, _, _ := buildParser("test")
	_, err := parser.ParseArgs([]string{"bogus"})
	assert.Error(t, err)
}

func TestGlobalFlagsWiredToCommands(t *testing.T) {
	_, globals, cmds := buildParser("test")

	globals.JSON = true
	assert.True(t, cmds.Status.globals.JSON)
	assert.True(t, cmds.Analyze.globals.JSON)
	assert.True(t, cmds.Purge.globals.JSON)
}

func TestCommandVersionsPropagated(t *testing.T) {
	_, _, cmds := buildParser("9.9.9")
	assert.Equal(t, "9.9.9", cmds.Status.version)
	assert.Equal(t, "9.9.9", cmds.Import.version)
}
