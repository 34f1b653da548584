package device

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/midivolt/nanokontrol/internal/logger"
	"github.com/midivolt/nanokontrol/sdk/contracts"
)

type fakeSender struct {
	sent []contracts.MIDI
	err  error
}

func (f *fakeSender) Send(event contracts.MIDI) error {
	f.sent = append(f.sent, event)
	return f.err
}

func TestLEDsSetOn(t *testing.T) {
	t.Parallel()

	sender := &fakeSender{}
	leds := NewLEDs(sender, logger.NewNopLogger())

	leds.Set(Play, true)

	require.Len(t, sender.sent, 1)
	assert.Equal(t, byte(contracts.ControlChange), sender.sent[0].Command)
	assert.Equal(t, Play, sender.sent[0].Control)
	assert.Equal(t, byte(127), sender.sent[0].Value)
}

func TestLEDsSetOff(t *testing.T) {
	t.Parallel()

	sender := &fakeSender{}
	leds := NewLEDs(sender, logger.NewNopLogger())

	leds.Set(Play, false)

	require.Len(t, sender.sent, 1)
	assert.Equal(t, byte(0), sender.sent[0].Value)
}

func TestLEDsSetWithoutLEDIsNoop(t *testing.T) {
	t.Parallel()

	sender := &fakeSender{}
	leds := NewLEDs(sender, logger.NewNopLogger())

	leds.Set(0, true) // PARAM1_SLIDER has no LED

	assert.Empty(t, sender.sent)
}

func TestLEDsSendErrorDoesNotPanic(t *testing.T) {
	t.Parallel()

	sender := &fakeSender{err: assert.AnError}
	leds := NewLEDs(sender, logger.NewNopLogger())

	leds.Set(Play, true)

	assert.Len(t, sender.sent, 1)
}
