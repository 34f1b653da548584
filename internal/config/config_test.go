package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/midivolt/nanokontrol/internal/action"
	"github.com/midivolt/nanokontrol/internal/logger"
	"github.com/midivolt/nanokontrol/internal/pulseaudio"
)

type fakeKeyboard struct{}

func (fakeKeyboard) Press(int) error   { return nil }
func (fakeKeyboard) Release(int) error { return nil }

type fakeLEDs struct{}

func (fakeLEDs) Set(byte, bool) {}

type fakeAudio struct{}

func (fakeAudio) SetDeviceVolume(pulseaudio.Device, float64) error { return nil }
func (fakeAudio) SetDeviceMute(pulseaudio.Device, bool) error      { return nil }
func (fakeAudio) SetStreamVolume(pulseaudio.Stream, float64) error { return nil }

type fakeDirectory struct {
	sinks   []pulseaudio.Device
	sources []pulseaudio.Device
	inputs  []pulseaudio.Stream
}

func (f *fakeDirectory) Sinks() ([]pulseaudio.Device, error)      { return f.sinks, nil }
func (f *fakeDirectory) Sources() ([]pulseaudio.Device, error)    { return f.sources, nil }
func (f *fakeDirectory) SinkInputs() ([]pulseaudio.Stream, error) { return f.inputs, nil }

func testDeps() Deps {
	return Deps{
		Keyboard: fakeKeyboard{},
		Audio:    fakeAudio{},
		Directory: &fakeDirectory{
			sinks: []pulseaudio.Device{
				{Kind: pulseaudio.Sink, Index: 0, Name: "alsa_output.pci.analog-stereo", Channels: 2},
			},
			sources: []pulseaudio.Device{
				{Kind: pulseaudio.Source, Index: 1, Name: "alsa_input.pci.analog-stereo", Channels: 2},
			},
			inputs: []pulseaudio.Stream{
				{Index: 7, Name: "Some Tab - YouTube Music", Channels: 2},
			},
		},
		LEDs:   fakeLEDs{},
		Logger: logger.NewNopLogger(),
	}
}

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nanokontrol.ini")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
[keymap]
PLAY = KEY_PLAYPAUSE
STOP = exec/true
PARAM1_MUTE = mute/speakers
PARAM1_SLIDER = volume/speakers/150
PARAM2_SLIDER = volumestr/music
PARAM1_KNOB = volume/mic

[audiooutputs]
speakers = alsa_output.pci.analog-stereo

[audioinputs]
mic = alsa_input.pci.analog-stereo

[streams]
music = - YouTube Music
`)

	actions, err := Load(path, testDeps())
	require.NoError(t, err)
	require.Len(t, actions, 6)

	assert.IsType(t, &action.Key{}, actions[41])         // PLAY
	assert.IsType(t, &action.Exec{}, actions[42])        // STOP
	assert.IsType(t, &action.Mute{}, actions[48])        // PARAM1_MUTE
	assert.IsType(t, &action.Volume{}, actions[0])       // PARAM1_SLIDER
	assert.IsType(t, &action.StreamVolume{}, actions[1]) // PARAM2_SLIDER
	assert.IsType(t, &action.Volume{}, actions[16])      // PARAM1_KNOB
}

func TestLoadSkipsUnresolvableEntries(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
[keymap]
PLAY = KEY_PLAYPAUSE
BOGUS_CONTROL = KEY_A
CYCLE = KEY_DOES_NOT_EXIST
NEXT = frobnicate/x
PREV = mute/unknown
PARAM3_SLIDER = volumestr/unknown
`)

	actions, err := Load(path, testDeps())
	require.NoError(t, err)

	// Only PLAY survives; everything else is warned about and dropped.
	require.Len(t, actions, 1)
	assert.IsType(t, &action.Key{}, actions[41])
}

func TestLoadMissingKeymap(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
[audiooutputs]
speakers = alsa_output.pci.analog-stereo
`)

	_, err := Load(path, testDeps())
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "absent.ini"), testDeps())
	assert.Error(t, err)
}

func TestLoadCaseSensitiveKeys(t *testing.T) {
	t.Parallel()

	// Control names are case-sensitive, as in the evdev names they map to.
	path := writeConfig(t, `
[keymap]
play = KEY_PLAYPAUSE
`)

	actions, err := Load(path, testDeps())
	require.NoError(t, err)
	assert.Empty(t, actions)
}
