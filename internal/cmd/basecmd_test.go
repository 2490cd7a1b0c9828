package cmd

import (
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/require"
)

func TestBaseCmd_Logger(t *testing.T) {
	t.Parallel()

	c := &BaseCmd{}

	// Without an explicit logger a fallback is created and cached.
	logger := c.Logger()
	require.NotNil(t, logger)
	require.Same(t, logger, c.Logger())
}

func TestBaseCmd_SetLogger(t *testing.T) {
	t.Parallel()

	c := &BaseCmd{}

	custom := hclog.NewNullLogger()
	c.SetLogger(custom)
	require.Same(t, custom, c.Logger())
}
