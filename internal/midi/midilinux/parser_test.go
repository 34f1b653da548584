package midilinux

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParserControlChange(t *testing.T) {
	t.Parallel()

	var p messageParser
	msgs := p.Feed([]byte{0xB0, 41, 127})

	assert.Equal(t, [][3]byte{{0xB0, 41, 127}}, msgs)
}

func TestParserRunningStatus(t *testing.T) {
	t.Parallel()

	var p messageParser
	msgs := p.Feed([]byte{0xB0, 41, 127, 41, 0, 0, 64})

	assert.Equal(t, [][3]byte{
		{0xB0, 41, 127},
		{0xB0, 41, 0},
		{0xB0, 0, 64},
	}, msgs)
}

func TestParserSplitAcrossReads(t *testing.T) {
	t.Parallel()

	var p messageParser
	assert.Empty(t, p.Feed([]byte{0xB0, 41}))
	assert.Equal(t, [][3]byte{{0xB0, 41, 127}}, p.Feed([]byte{127}))
}

func TestParserRealTimeInterleaved(t *testing.T) {
	t.Parallel()

	// Clock bytes (0xF8) may appear between any two bytes of a message.
	var p messageParser
	msgs := p.Feed([]byte{0xB0, 0xF8, 41, 0xF8, 127})

	assert.Equal(t, [][3]byte{{0xB0, 41, 127}}, msgs)
}

func TestParserSystemCommonCancelsRunningStatus(t *testing.T) {
	t.Parallel()

	var p messageParser
	msgs := p.Feed([]byte{0xB0, 41, 127, 0xF0, 1, 2, 3})

	// Data bytes after the sysex start must not be decoded as control
	// changes via stale running status.
	assert.Equal(t, [][3]byte{{0xB0, 41, 127}}, msgs)
}

func TestParserTwoByteMessage(t *testing.T) {
	t.Parallel()

	var p messageParser
	msgs := p.Feed([]byte{0xC0, 12, 0xB0, 7, 100})

	assert.Equal(t, [][3]byte{
		{0xC0, 12, 0},
		{0xB0, 7, 100},
	}, msgs)
}

func TestParserIgnoresLeadingDataBytes(t *testing.T) {
	t.Parallel()

	var p messageParser
	msgs := p.Feed([]byte{41, 127, 0xB0, 41, 127})

	assert.Equal(t, [][3]byte{{0xB0, 41, 127}}, msgs)
}

func TestDataLen(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 2, dataLen(0x90))
	assert.Equal(t, 2, dataLen(0xB3))
	assert.Equal(t, 1, dataLen(0xC0))
	assert.Equal(t, 1, dataLen(0xD5))
}
