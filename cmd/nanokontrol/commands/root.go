// Package commands implements the CLI command handlers for nanokontrol.
package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/midivolt/nanokontrol/internal/action"
	"github.com/midivolt/nanokontrol/internal/config"
	"github.com/midivolt/nanokontrol/internal/device"
	"github.com/midivolt/nanokontrol/internal/logger"
	"github.com/midivolt/nanokontrol/internal/pulseaudio"
	"github.com/midivolt/nanokontrol/internal/router"
	"github.com/midivolt/nanokontrol/internal/uinput"
	"github.com/midivolt/nanokontrol/sdk/contracts"
	"github.com/midivolt/nanokontrol/sdk/midi"
)

// clientName is how the daemon identifies itself to MIDI and PulseAudio.
const clientName = "nanokontrol"

// Options holds the flags shared across commands.
type Options struct {
	ConfigPath string
	Debug      bool
	Device     string
}

// NewRootCommand builds the CLI. The root command runs the daemon.
func NewRootCommand() *cobra.Command {
	opts := &Options{}

	cmd := &cobra.Command{
		Use:   "nanokontrol",
		Short: "Map Korg nanoKONTROL2 events to keypresses, volumes and commands",
		Long: `nanokontrol attaches to a Korg nanoKONTROL2 control surface and maps
its buttons, sliders and knobs to virtual keypresses, PulseAudio volume and
mute control, and shell commands, as declared in an INI config file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runDaemon(opts)
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", config.DefaultPath(), "path to config file")
	cmd.PersistentFlags().BoolVarP(&opts.Debug, "debug", "d", false, "enable debug output")
	cmd.Flags().StringVar(&opts.Device, "device", "nanoKONTROL2", "MIDI device name to attach to")

	cmd.AddCommand(NewDevicesCommand(opts))
	cmd.AddCommand(NewStreamsCommand(opts))
	return cmd
}

// newLogger builds the daemon logger at the requested verbosity.
func newLogger(debug bool) contracts.Logger {
	log := logger.NewZapLogger()
	if debug {
		log.SetLevel(contracts.DebugLevel)
	}
	return log
}

func logLevel(debug bool) contracts.LogLevel {
	if debug {
		return contracts.DebugLevel
	}
	return contracts.InfoLevel
}

// runDaemon wires the MIDI client, PulseAudio, the virtual keyboard and the
// config-driven action map together, then routes events until interrupted.
func runDaemon(opts *Options) error {
	log := newLogger(opts.Debug)

	client, err := midi.NewMIDIClient(
		contracts.WithLogger(log),
		contracts.WithLogLevel(logLevel(opts.Debug)),
		contracts.WithClientName(clientName),
		contracts.WithMIDIEventFilter(contracts.MIDIEventFilter{
			Commands: []contracts.MIDICommand{contracts.ControlChange},
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to initialize MIDI client: %w", err)
	}

	if err := client.SelectDeviceByName(opts.Device); err != nil {
		return err
	}
	defer client.Stop()

	audio, err := pulseaudio.New(clientName, log)
	if err != nil {
		return err
	}
	defer audio.Close()

	keyboard, err := uinput.NewKeyboard(clientName)
	if err != nil {
		return err
	}
	defer keyboard.Close()

	deps := config.Deps{
		Keyboard:  keyboard,
		Audio:     audio,
		Directory: audio,
		LEDs:      device.NewLEDs(client, log),
		Logger:    log,
	}
	actions, err := config.Load(opts.ConfigPath, deps)
	if err != nil {
		return err
	}

	events := make(chan contracts.MIDI, 100)
	client.StartCapture(events)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("nanokontrol running",
		log.Field().String("device", opts.Device),
		log.Field().String("config", opts.ConfigPath))

	reload := func() (map[byte]action.Action, error) {
		return config.Load(opts.ConfigPath, deps)
	}
	err = router.New(actions, reload, log).Run(ctx, events)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	log.Info("shutting down")
	return nil
}
