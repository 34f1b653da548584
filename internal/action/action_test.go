package action

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/midivolt/nanokontrol/internal/logger"
	"github.com/midivolt/nanokontrol/internal/pulseaudio"
)

type fakeKeyboard struct {
	pressed  []int
	released []int
	err      error
}

func (f *fakeKeyboard) Press(code int) error {
	f.pressed = append(f.pressed, code)
	return f.err
}

func (f *fakeKeyboard) Release(code int) error {
	f.released = append(f.released, code)
	return f.err
}

type fakeLEDs struct {
	states map[byte]bool
}

func newFakeLEDs() *fakeLEDs {
	return &fakeLEDs{states: make(map[byte]bool)}
}

func (f *fakeLEDs) Set(control byte, on bool) {
	f.states[control] = on
}

type fakeAudio struct {
	deviceVolumes map[string]float64
	streamVolumes map[string]float64
	mutes         map[string]bool
	err           error
}

func newFakeAudio() *fakeAudio {
	return &fakeAudio{
		deviceVolumes: make(map[string]float64),
		streamVolumes: make(map[string]float64),
		mutes:         make(map[string]bool),
	}
}

func (f *fakeAudio) SetDeviceVolume(d pulseaudio.Device, ratio float64) error {
	if f.err != nil {
		return f.err
	}
	f.deviceVolumes[d.Name] = ratio
	return nil
}

func (f *fakeAudio) SetDeviceMute(d pulseaudio.Device, mute bool) error {
	if f.err != nil {
		return f.err
	}
	f.mutes[d.Name] = mute
	return nil
}

func (f *fakeAudio) SetStreamVolume(s pulseaudio.Stream, ratio float64) error {
	if f.err != nil {
		return f.err
	}
	f.streamVolumes[s.Name] = ratio
	return nil
}

func TestKeyPressAndRelease(t *testing.T) {
	t.Parallel()

	kb := &fakeKeyboard{}
	leds := newFakeLEDs()
	key := NewKey(kb, leds, 164, logger.NewNopLogger())

	require.NoError(t, key.Do(41, 127))
	assert.Equal(t, []int{164}, kb.pressed)
	assert.True(t, leds.states[41])

	require.NoError(t, key.Do(41, 0))
	assert.Equal(t, []int{164}, kb.released)
	assert.False(t, leds.states[41])
}

func TestKeyWriteError(t *testing.T) {
	t.Parallel()

	kb := &fakeKeyboard{err: assert.AnError}
	key := NewKey(kb, newFakeLEDs(), 164, logger.NewNopLogger())

	assert.Error(t, key.Do(41, 127))
}

func TestMuteTogglesOnPressOnly(t *testing.T) {
	t.Parallel()

	audio := newFakeAudio()
	leds := newFakeLEDs()
	dev := pulseaudio.Device{Kind: pulseaudio.Sink, Name: "speakers"}
	mute := NewMute(audio, dev, leds, logger.NewNopLogger())

	// Press mutes.
	require.NoError(t, mute.Do(48, 127))
	assert.True(t, audio.mutes["speakers"])
	assert.True(t, leds.states[48])

	// Release is ignored.
	require.NoError(t, mute.Do(48, 0))
	assert.True(t, audio.mutes["speakers"])

	// Next press unmutes.
	require.NoError(t, mute.Do(48, 127))
	assert.False(t, audio.mutes["speakers"])
	assert.False(t, leds.states[48])
}

func TestMuteInitialStateFromDevice(t *testing.T) {
	t.Parallel()

	audio := newFakeAudio()
	dev := pulseaudio.Device{Kind: pulseaudio.Sink, Name: "speakers", Mute: true}
	mute := NewMute(audio, dev, newFakeLEDs(), logger.NewNopLogger())

	// Device starts muted, so the first press unmutes.
	require.NoError(t, mute.Do(48, 127))
	assert.False(t, audio.mutes["speakers"])
}

func TestRatio(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 1.0, Ratio(127, 100), 1e-9)
	assert.InDelta(t, 0.0, Ratio(0, 100), 1e-9)
	assert.InDelta(t, 1.5, Ratio(127, 150), 1e-9)
	assert.InDelta(t, 64.0/127.0, Ratio(64, 100), 1e-9)
}

func TestVolume(t *testing.T) {
	t.Parallel()

	audio := newFakeAudio()
	dev := pulseaudio.Device{Kind: pulseaudio.Sink, Name: "speakers"}
	vol := NewVolume(audio, dev, 150, logger.NewNopLogger())

	require.NoError(t, vol.Do(0, 127))
	assert.InDelta(t, 1.5, audio.deviceVolumes["speakers"], 1e-9)
}

func TestStreamVolume(t *testing.T) {
	t.Parallel()

	audio := newFakeAudio()
	stream := pulseaudio.Stream{Index: 3, Name: "music"}
	vol := NewStreamVolume(audio, stream, DefaultMaxLevel, logger.NewNopLogger())

	require.NoError(t, vol.Do(0, 64))
	assert.InDelta(t, 64.0/127.0, audio.streamVolumes["music"], 1e-9)
}

func TestStreamVolumeError(t *testing.T) {
	t.Parallel()

	audio := newFakeAudio()
	audio.err = assert.AnError
	vol := NewStreamVolume(audio, pulseaudio.Stream{Name: "music"}, DefaultMaxLevel, logger.NewNopLogger())

	assert.Error(t, vol.Do(0, 64))
}

func TestExpand(t *testing.T) {
	t.Parallel()

	got := expand("notify-send {NK_KEY_ID} {NK_KEY_VALUE}", 41, 127)
	assert.Equal(t, "notify-send 41 127", got)

	got = expand("true", 41, 127)
	assert.Equal(t, "true", got)
}

func TestExecRunsCommand(t *testing.T) {
	t.Parallel()

	e := NewExec("true", logger.NewNopLogger())
	assert.NoError(t, e.Do(41, 127))
}

func TestExecFailure(t *testing.T) {
	t.Parallel()

	e := NewExec("false", logger.NewNopLogger())
	assert.Error(t, e.Do(41, 127))
}
