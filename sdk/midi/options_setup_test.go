package midi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/midivolt/nanokontrol/internal/logger"
	"github.com/midivolt/nanokontrol/sdk/contracts"
)

func TestApplyDefaultOptions(t *testing.T) {
	t.Parallel()

	options, err := applyDefaultOptions()
	require.NoError(t, err)

	assert.NotNil(t, options.Logger)
	assert.Equal(t, contracts.InfoLevel, options.LogLevel)
	require.NotNil(t, options.ClientConfig)
	assert.Equal(t, "nanokontrol", options.ClientConfig.Name)
	assert.Nil(t, options.MIDIEventFilter)
}

func TestApplyDefaultOptionsOverrides(t *testing.T) {
	t.Parallel()

	log := logger.NewNopLogger()
	options, err := applyDefaultOptions(
		contracts.WithLogger(log),
		contracts.WithLogLevel(contracts.DebugLevel),
		contracts.WithClientName("custom"),
		contracts.WithMIDIEventFilter(contracts.MIDIEventFilter{
			Commands: []contracts.MIDICommand{contracts.ControlChange},
		}),
	)
	require.NoError(t, err)

	assert.Same(t, log, options.Logger)
	assert.Equal(t, contracts.DebugLevel, options.LogLevel)
	assert.Equal(t, "custom", options.ClientConfig.Name)
	require.NotNil(t, options.MIDIEventFilter)
	assert.Equal(t, []contracts.MIDICommand{contracts.ControlChange}, options.MIDIEventFilter.Commands)
}
