package cli_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/virtuallist/internal/cli"
)

func TestViewCmd_RequiresTerminal(t *testing.T) {
	setupCLITest(t)

	_, err := executeCmd(t, "view", "--generate", "10")
	require.Error(t, err)
	require.ErrorIs(t, err, cli.ErrNotTerminal)
	assert.Equal(t, 3, cli.ExitCode(err))
}
