package action

import (
	"fmt"

	"github.com/midivolt/nanokontrol/sdk/contracts"
)

// Key presses a virtual keyboard key while the surface button is held and
// mirrors the button state on its LED.
type Key struct {
	keyboard Keyboard
	leds     LEDs
	code     int
	logger   contracts.Logger
}

// NewKey binds a surface button to a Linux input key code.
func NewKey(keyboard Keyboard, leds LEDs, code int, logger contracts.Logger) *Key {
	return &Key{keyboard: keyboard, leds: leds, code: code, logger: logger}
}

func (k *Key) Do(control, value byte) error {
	pressed := isPress(value)
	k.logger.Debug("key event",
		k.logger.Field().Uint8("control", control),
		k.logger.Field().Uint8("value", value),
		k.logger.Field().Int("code", k.code))

	var err error
	if pressed {
		err = k.keyboard.Press(k.code)
	} else {
		err = k.keyboard.Release(k.code)
	}
	if err != nil {
		return fmt.Errorf("error writing key event: %w", err)
	}

	k.leds.Set(control, pressed)
	return nil
}
