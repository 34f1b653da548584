// Package action implements what a control surface event does: pressing a
// virtual key, changing volumes, toggling mute or running a command.
package action

import (
	"github.com/midivolt/nanokontrol/internal/pulseaudio"
)

// Action reacts to a control change event from the surface.
type Action interface {
	Do(control, value byte) error
}

// Keyboard is the slice of the virtual keyboard actions need.
type Keyboard interface {
	Press(code int) error
	Release(code int) error
}

// LEDs sets button LEDs on the control surface.
type LEDs interface {
	Set(control byte, on bool)
}

// Audio is the slice of the PulseAudio client actions need.
type Audio interface {
	SetDeviceVolume(d pulseaudio.Device, ratio float64) error
	SetDeviceMute(d pulseaudio.Device, mute bool) error
	SetStreamVolume(s pulseaudio.Stream, ratio float64) error
}

// pressThreshold is where a button value becomes a press. Buttons report
// 127 pressed and 0 released.
const pressThreshold = 126

// isPress reports whether a button value is the pressed edge.
func isPress(value byte) bool {
	return value >= pressThreshold
}
