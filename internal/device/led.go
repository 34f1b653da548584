package device

import (
	"github.com/midivolt/nanokontrol/sdk/contracts"
)

// Sender is the slice of the MIDI client the LED handler needs.
type Sender interface {
	Send(event contracts.MIDI) error
}

// LEDs drives the button LEDs of the control surface by echoing control
// change messages back to the device.
type LEDs struct {
	sender Sender
	logger contracts.Logger
}

// NewLEDs creates a LED handler bound to the given MIDI output.
func NewLEDs(sender Sender, logger contracts.Logger) *LEDs {
	return &LEDs{sender: sender, logger: logger}
}

// Set lights or clears the LED of a control. Controls without an LED are a
// logged no-op, so callers can set unconditionally.
func (l *LEDs) Set(control byte, on bool) {
	if !HasLED(control) {
		l.logger.Debug("control has no LED to set",
			l.logger.Field().Uint8("control", control))
		return
	}

	var value byte
	if on {
		value = 127
	}
	event := contracts.MIDI{
		Command: byte(contracts.ControlChange),
		Control: control,
		Value:   value,
	}
	if err := l.sender.Send(event); err != nil {
		l.logger.Warn("failed to set LED",
			l.logger.Field().Uint8("control", control),
			l.logger.Field().Error("error", err))
	}
}
