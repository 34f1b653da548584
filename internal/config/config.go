// Package config loads the INI mapping file and builds the action map
// binding control surface events to keys, volumes and commands.
//
// The file has four sections. [keymap] maps control names to action
// expressions: a bare evdev key name, mute/<alias>, volume/<alias>[/<max>],
// volumestr/<alias> or exec/<command>. [audiooutputs] and [audioinputs]
// declare aliases for PulseAudio sink and source names, and [streams]
// declares aliases matched against the end of playback stream names.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/ini.v1"

	"github.com/midivolt/nanokontrol/internal/action"
	"github.com/midivolt/nanokontrol/internal/device"
	"github.com/midivolt/nanokontrol/internal/pulseaudio"
	"github.com/midivolt/nanokontrol/internal/uinput"
	"github.com/midivolt/nanokontrol/sdk/contracts"
)

// DefaultPath returns the default config file location.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "nanokontrol.ini"
	}
	return filepath.Join(home, ".config", "nanokontrol.ini")
}

// Directory lists the audio objects mappings can bind to.
type Directory interface {
	Sinks() ([]pulseaudio.Device, error)
	Sources() ([]pulseaudio.Device, error)
	SinkInputs() ([]pulseaudio.Stream, error)
}

// Deps carries the handles actions are wired to.
type Deps struct {
	Keyboard  action.Keyboard
	Audio     action.Audio
	Directory Directory
	LEDs      action.LEDs
	Logger    contracts.Logger
}

// Load reads the INI file at path and builds the control-to-action map.
// Unresolvable entries are logged and skipped; a missing [keymap] section
// is an error.
func Load(path string, deps Deps) (map[byte]action.Action, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("error loading config file %s: %w", path, err)
	}

	keymap, err := cfg.GetSection("keymap")
	if err != nil {
		return nil, fmt.Errorf("config %s has no keymap section", path)
	}

	devices, err := resolveDevices(cfg, deps)
	if err != nil {
		return nil, err
	}
	streams, err := resolveStreams(cfg, deps)
	if err != nil {
		return nil, err
	}

	actions := make(map[byte]action.Action)
	for _, key := range keymap.Keys() {
		cc, ok := device.CC(key.Name())
		if !ok {
			deps.Logger.Warn("no such control on the surface",
				deps.Logger.Field().String("control", key.Name()))
			continue
		}
		if act := buildAction(key.Value(), devices, streams, deps); act != nil {
			actions[cc] = act
		}
	}
	return actions, nil
}

// resolveDevices maps config aliases to live PulseAudio devices.
func resolveDevices(cfg *ini.File, deps Deps) (map[string]pulseaudio.Device, error) {
	resolved := make(map[string]pulseaudio.Device)

	if sec, err := cfg.GetSection("audiooutputs"); err == nil {
		sinks, err := deps.Directory.Sinks()
		if err != nil {
			return nil, err
		}
		resolveAliases(sec, sinks, resolved, deps.Logger)
	}

	if sec, err := cfg.GetSection("audioinputs"); err == nil {
		sources, err := deps.Directory.Sources()
		if err != nil {
			return nil, err
		}
		resolveAliases(sec, sources, resolved, deps.Logger)
	}

	return resolved, nil
}

func resolveAliases(sec *ini.Section, devices []pulseaudio.Device, resolved map[string]pulseaudio.Device, logger contracts.Logger) {
	for _, key := range sec.Keys() {
		alias, want := key.Name(), key.Value()
		found := false
		for _, d := range devices {
			if d.Name == want {
				logger.Debug("resolved audio device",
					logger.Field().String("alias", alias),
					logger.Field().String("name", d.Name))
				resolved[alias] = d
				found = true
				break
			}
		}
		if !found {
			logger.Warn("audio device not found",
				logger.Field().String("alias", alias),
				logger.Field().String("name", want))
		}
	}
}

// resolveStreams maps stream aliases to live playback streams by matching
// the declared value against the end of the stream name.
func resolveStreams(cfg *ini.File, deps Deps) (map[string]pulseaudio.Stream, error) {
	resolved := make(map[string]pulseaudio.Stream)

	sec, err := cfg.GetSection("streams")
	if err != nil {
		return resolved, nil
	}

	inputs, err := deps.Directory.SinkInputs()
	if err != nil {
		return nil, err
	}

	for _, key := range sec.Keys() {
		alias, suffix := key.Name(), key.Value()
		for _, s := range inputs {
			if strings.HasSuffix(s.Name, suffix) {
				deps.Logger.Debug("resolved stream",
					deps.Logger.Field().String("alias", alias),
					deps.Logger.Field().String("name", s.Name))
				resolved[alias] = s
				break
			}
		}
	}
	if len(sec.Keys()) > 0 && len(resolved) == 0 {
		deps.Logger.Warn("no configured streams are currently playing")
	}
	return resolved, nil
}

// buildAction parses one keymap expression. Returns nil (after logging)
// when the expression cannot be bound.
func buildAction(expr string, devices map[string]pulseaudio.Device, streams map[string]pulseaudio.Stream, deps Deps) action.Action {
	parts := strings.SplitN(expr, "/", 2)

	if len(parts) == 1 {
		code, ok := uinput.KeyCode(expr)
		if !ok {
			deps.Logger.Warn("unknown evdev key", deps.Logger.Field().String("key", expr))
			return nil
		}
		return action.NewKey(deps.Keyboard, deps.LEDs, code, deps.Logger)
	}

	switch parts[0] {
	case "mute":
		dev, ok := devices[parts[1]]
		if !ok {
			deps.Logger.Warn("unknown audio device alias", deps.Logger.Field().String("alias", parts[1]))
			return nil
		}
		return action.NewMute(deps.Audio, dev, deps.LEDs, deps.Logger)

	case "volume":
		alias, maxLevel := volumeDetails(parts[1], deps.Logger)
		dev, ok := devices[alias]
		if !ok {
			deps.Logger.Warn("unknown audio device alias", deps.Logger.Field().String("alias", alias))
			return nil
		}
		return action.NewVolume(deps.Audio, dev, maxLevel, deps.Logger)

	case "volumestr":
		alias, maxLevel := volumeDetails(parts[1], deps.Logger)
		stream, ok := streams[alias]
		if !ok {
			deps.Logger.Warn("unknown stream alias", deps.Logger.Field().String("alias", alias))
			return nil
		}
		return action.NewStreamVolume(deps.Audio, stream, maxLevel, deps.Logger)

	case "exec":
		return action.NewExec(parts[1], deps.Logger)

	default:
		deps.Logger.Warn("unknown action", deps.Logger.Field().String("action", expr))
		return nil
	}
}

// volumeDetails splits "<alias>[/<maxlevel>]"; an unparsable max level
// falls back to the default.
func volumeDetails(s string, logger contracts.Logger) (string, float64) {
	details := strings.SplitN(s, "/", 2)
	maxLevel := float64(action.DefaultMaxLevel)
	if len(details) == 2 {
		parsed, err := strconv.ParseFloat(details[1], 64)
		if err != nil {
			logger.Warn("invalid max volume level", logger.Field().String("value", details[1]))
		} else {
			maxLevel = parsed
		}
	}
	return details[0], maxLevel
}
