package action

import (
	"fmt"

	"github.com/midivolt/nanokontrol/internal/pulseaudio"
	"github.com/midivolt/nanokontrol/sdk/contracts"
)

// DefaultMaxLevel is the volume percentage a fully raised slider reaches
// when the mapping does not override it.
const DefaultMaxLevel = 100

// Ratio converts a 7-bit controller value into a volume ratio, scaled so a
// full slider reaches maxLevel percent of the device's unamplified volume.
func Ratio(value byte, maxLevel float64) float64 {
	return float64(value) / 127.0 * maxLevel / 100.0
}

// Volume follows a slider or knob with an audio device's volume.
type Volume struct {
	audio    Audio
	device   pulseaudio.Device
	maxLevel float64
	logger   contracts.Logger
}

// NewVolume binds a slider to an audio device's volume.
func NewVolume(audio Audio, device pulseaudio.Device, maxLevel float64, logger contracts.Logger) *Volume {
	return &Volume{audio: audio, device: device, maxLevel: maxLevel, logger: logger}
}

func (v *Volume) Do(control, value byte) error {
	v.logger.Debug("setting device volume",
		v.logger.Field().String("device", v.device.Name),
		v.logger.Field().Uint8("value", value))

	if err := v.audio.SetDeviceVolume(v.device, Ratio(value, v.maxLevel)); err != nil {
		return fmt.Errorf("error setting volume on %s: %w", v.device.Name, err)
	}
	return nil
}

// StreamVolume follows a slider with the volume of a single playback
// stream. The bound stream can vanish at any time; the resulting error is
// the caller's cue to re-resolve its mappings.
type StreamVolume struct {
	audio    Audio
	stream   pulseaudio.Stream
	maxLevel float64
	logger   contracts.Logger
}

// NewStreamVolume binds a slider to a playback stream's volume.
func NewStreamVolume(audio Audio, stream pulseaudio.Stream, maxLevel float64, logger contracts.Logger) *StreamVolume {
	return &StreamVolume{audio: audio, stream: stream, maxLevel: maxLevel, logger: logger}
}

func (s *StreamVolume) Do(control, value byte) error {
	s.logger.Debug("setting stream volume",
		s.logger.Field().String("stream", s.stream.Name),
		s.logger.Field().Uint8("value", value))

	if err := s.audio.SetStreamVolume(s.stream, Ratio(value, s.maxLevel)); err != nil {
		return fmt.Errorf("error setting volume on stream %s: %w", s.stream.Name, err)
	}
	return nil
}
