package uinput

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		code int
	}{
		{"KEY_PLAYPAUSE", 164},
		{"KEY_NEXTSONG", 163},
		{"KEY_PREVIOUSSONG", 165},
		{"KEY_STOPCD", 166},
		{"KEY_VOLUMEUP", 115},
		{"KEY_VOLUMEDOWN", 114},
		{"KEY_MUTE", 113},
		{"KEY_A", 30},
		{"KEY_F24", 194},
	}
	for _, tt := range tests {
		code, ok := KeyCode(tt.name)
		require.True(t, ok, tt.name)
		assert.Equal(t, tt.code, code, tt.name)
	}
}

func TestKeyCodeCaseInsensitive(t *testing.T) {
	t.Parallel()

	code, ok := KeyCode("key_playpause")
	require.True(t, ok)
	assert.Equal(t, 164, code)
}

func TestKeyCodeUnknown(t *testing.T) {
	t.Parallel()

	_, ok := KeyCode("KEY_DOES_NOT_EXIST")
	assert.False(t, ok)
}
