package pulseaudio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRatioToVolume(t *testing.T) {
	t.Parallel()

	assert.Equal(t, uint32(volumeNorm), ratioToVolume(1.0))
	assert.Equal(t, uint32(0), ratioToVolume(0))
	assert.Equal(t, uint32(0), ratioToVolume(-0.5))
	assert.Equal(t, uint32(volumeNorm/2), ratioToVolume(0.5))
	assert.Equal(t, uint32(volumeNorm*3/2), ratioToVolume(1.5))
}

func TestChannelVolumes(t *testing.T) {
	t.Parallel()

	cv := channelVolumes(2, 1234)
	require.Len(t, cv, 2)
	assert.EqualValues(t, 1234, cv[0])
	assert.EqualValues(t, 1234, cv[1])

	// Unknown channel counts fall back to stereo.
	assert.Len(t, channelVolumes(0, 1), 2)
	assert.Len(t, channelVolumes(-3, 1), 2)
}
