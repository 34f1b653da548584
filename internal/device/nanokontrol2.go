// Package device describes the Korg nanoKONTROL2 control surface: the CC
// number behind every named key, slider and knob, and which of them carry
// an addressable LED.
package device

import "strings"

// Control change numbers reported by the nanoKONTROL2 in its default
// (CC mode) mapping.
const (
	TrackPrev  byte = 58
	TrackNext  byte = 59
	Cycle      byte = 46
	MarkerSet  byte = 60
	MarkerPrev byte = 61
	MarkerNext byte = 62
	Prev       byte = 43
	Next       byte = 44
	Stop       byte = 42
	Play       byte = 41
	Record     byte = 45
)

// controls maps the configuration names of every control to its CC number.
// The names follow the labels printed on the device, with the eight channel
// strips numbered PARAM1 through PARAM8.
var controls = map[string]byte{
	"TRACK_PREV":  TrackPrev,
	"TRACK_NEXT":  TrackNext,
	"CYCLE":       Cycle,
	"MARKER_SET":  MarkerSet,
	"MARKER_PREV": MarkerPrev,
	"MARKER_NEXT": MarkerNext,
	"PREV":        Prev,
	"NEXT":        Next,
	"STOP":        Stop,
	"PLAY":        Play,
	"RECORD":      Record,

	"PARAM1_SOLO": 32,
	"PARAM2_SOLO": 33,
	"PARAM3_SOLO": 34,
	"PARAM4_SOLO": 35,
	"PARAM5_SOLO": 36,
	"PARAM6_SOLO": 37,
	"PARAM7_SOLO": 38,
	"PARAM8_SOLO": 39,

	"PARAM1_MUTE": 48,
	"PARAM2_MUTE": 49,
	"PARAM3_MUTE": 50,
	"PARAM4_MUTE": 51,
	"PARAM5_MUTE": 52,
	"PARAM6_MUTE": 53,
	"PARAM7_MUTE": 54,
	"PARAM8_MUTE": 55,

	"PARAM1_RECORD": 64,
	"PARAM2_RECORD": 65,
	"PARAM3_RECORD": 66,
	"PARAM4_RECORD": 67,
	"PARAM5_RECORD": 68,
	"PARAM6_RECORD": 69,
	"PARAM7_RECORD": 70,
	"PARAM8_RECORD": 71,

	"PARAM1_SLIDER": 0,
	"PARAM2_SLIDER": 1,
	"PARAM3_SLIDER": 2,
	"PARAM4_SLIDER": 3,
	"PARAM5_SLIDER": 4,
	"PARAM6_SLIDER": 5,
	"PARAM7_SLIDER": 6,
	"PARAM8_SLIDER": 7,

	"PARAM1_KNOB": 16,
	"PARAM2_KNOB": 17,
	"PARAM3_KNOB": 18,
	"PARAM4_KNOB": 19,
	"PARAM5_KNOB": 20,
	"PARAM6_KNOB": 21,
	"PARAM7_KNOB": 22,
	"PARAM8_KNOB": 23,
}

// names is the reverse of controls, built once at init.
var names = func() map[byte]string {
	m := make(map[byte]string, len(controls))
	for name, cc := range controls {
		m[cc] = name
	}
	return m
}()

// ledControls holds the CC numbers of controls with an addressable LED.
// Every button has one; sliders and knobs do not. With external LED mode
// enabled on the device, the LED is lit by sending the button's own CC
// back with value 127 and cleared with value 0.
var ledControls = func() map[byte]bool {
	m := make(map[byte]bool, len(controls))
	for name, cc := range controls {
		if strings.HasSuffix(name, "_SLIDER") || strings.HasSuffix(name, "_KNOB") {
			continue
		}
		m[cc] = true
	}
	return m
}()

// CC returns the control change number for a named control.
func CC(name string) (byte, bool) {
	cc, ok := controls[name]
	return cc, ok
}

// Name returns the control name for a CC number.
func Name(cc byte) (string, bool) {
	name, ok := names[cc]
	return name, ok
}

// HasLED reports whether the control carries an addressable LED.
func HasLED(cc byte) bool {
	return ledControls[cc]
}
