package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRootCmd_Subcommands(t *testing.T) {
	root := NewRootCmd()

	want := []string{"run", "runs", "dq", "version"}
	for _, name := range want {
		found := false
		for _, c := range root.Commands() {
			if c.Name() == name {
				found = true
				break
			}
		}
		assert.True(t, found, "missing subcommand %s", name)
	}
}

func TestRootCmd_Help(t *testing.T) {
	root := NewRootCmd()

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"--help"})

	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "lakeline")
	assert.Contains(t, out.String(), "star schema")
}
