package device

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCCKnownControls(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cc   byte
	}{
		{"PLAY", 41},
		{"STOP", 42},
		{"RECORD", 45},
		{"CYCLE", 46},
		{"TRACK_PREV", 58},
		{"MARKER_NEXT", 62},
		{"PARAM1_SLIDER", 0},
		{"PARAM8_SLIDER", 7},
		{"PARAM1_KNOB", 16},
		{"PARAM8_KNOB", 23},
		{"PARAM1_SOLO", 32},
		{"PARAM8_MUTE", 55},
		{"PARAM8_RECORD", 71},
	}
	for _, tt := range tests {
		cc, ok := CC(tt.name)
		require.True(t, ok, tt.name)
		assert.Equal(t, tt.cc, cc, tt.name)
	}
}

func TestCCUnknownControl(t *testing.T) {
	t.Parallel()

	_, ok := CC("PARAM9_SLIDER")
	assert.False(t, ok)
}

func TestNameRoundTrip(t *testing.T) {
	t.Parallel()

	name, ok := Name(Play)
	require.True(t, ok)
	assert.Equal(t, "PLAY", name)

	_, ok = Name(99)
	assert.False(t, ok)
}

func TestHasLED(t *testing.T) {
	t.Parallel()

	// Buttons have LEDs, sliders and knobs do not.
	assert.True(t, HasLED(Play))
	assert.True(t, HasLED(Cycle))
	assert.True(t, HasLED(32)) // PARAM1_SOLO
	assert.True(t, HasLED(71)) // PARAM8_RECORD

	assert.False(t, HasLED(0))  // PARAM1_SLIDER
	assert.False(t, HasLED(16)) // PARAM1_KNOB
	assert.False(t, HasLED(99)) // not a control at all
}
