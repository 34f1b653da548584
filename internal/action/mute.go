package action

import (
	"fmt"

	"github.com/midivolt/nanokontrol/internal/pulseaudio"
	"github.com/midivolt/nanokontrol/sdk/contracts"
)

// Mute toggles an audio device's mute state on every button press and
// keeps the button LED in sync with it.
type Mute struct {
	audio  Audio
	device pulseaudio.Device
	leds   LEDs
	muted  bool
	logger contracts.Logger
}

// NewMute binds a surface button to an audio device's mute toggle.
// The initial state is taken from the device.
func NewMute(audio Audio, device pulseaudio.Device, leds LEDs, logger contracts.Logger) *Mute {
	return &Mute{
		audio:  audio,
		device: device,
		leds:   leds,
		muted:  device.Mute,
		logger: logger,
	}
}

func (m *Mute) Do(control, value byte) error {
	// Toggle on the pressed edge only; ignore the release.
	if !isPress(value) {
		return nil
	}

	m.muted = !m.muted
	m.leds.Set(control, m.muted)
	m.logger.Debug("toggling mute",
		m.logger.Field().String("device", m.device.Name),
		m.logger.Field().Bool("muted", m.muted))

	if err := m.audio.SetDeviceMute(m.device, m.muted); err != nil {
		return fmt.Errorf("error setting mute on %s: %w", m.device.Name, err)
	}
	return nil
}
