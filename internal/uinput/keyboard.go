// Package uinput emits keypresses through a virtual keyboard registered
// with the kernel's uinput subsystem.
package uinput

import (
	"fmt"

	hid "github.com/bendahl/uinput"
)

const devicePath = "/dev/uinput"

// Keyboard presses and releases keys on a virtual input device.
type Keyboard interface {
	Press(code int) error
	Release(code int) error
	Close() error
}

type virtualKeyboard struct {
	kb hid.Keyboard
}

// NewKeyboard registers a virtual keyboard under the given device name.
// Requires write access to /dev/uinput.
func NewKeyboard(name string) (Keyboard, error) {
	kb, err := hid.CreateKeyboard(devicePath, []byte(name))
	if err != nil {
		return nil, fmt.Errorf("error creating virtual keyboard: %w", err)
	}
	return &virtualKeyboard{kb: kb}, nil
}

func (v *virtualKeyboard) Press(code int) error {
	return v.kb.KeyDown(code)
}

func (v *virtualKeyboard) Release(code int) error {
	return v.kb.KeyUp(code)
}

func (v *virtualKeyboard) Close() error {
	return v.kb.Close()
}
