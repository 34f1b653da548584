package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/midivolt/nanokontrol/internal/pulseaudio"
	"github.com/midivolt/nanokontrol/sdk/contracts"
	"github.com/midivolt/nanokontrol/sdk/midi"
)

// NewDevicesCommand lists the PulseAudio devices and MIDI inputs the
// config file can reference.
func NewDevicesCommand(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "devices",
		Short: "List PulseAudio devices and MIDI inputs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			log := newLogger(opts.Debug)
			out := cmd.OutOrStdout()

			audio, err := pulseaudio.New(clientName, log)
			if err != nil {
				return err
			}
			defer audio.Close()

			sinks, err := audio.Sinks()
			if err != nil {
				return err
			}
			for _, s := range sinks {
				fmt.Fprintf(out, "output: %s\n", s.Name)
			}

			sources, err := audio.Sources()
			if err != nil {
				return err
			}
			for _, s := range sources {
				fmt.Fprintf(out, "input: %s\n", s.Name)
			}

			client, err := midi.NewMIDIClient(
				contracts.WithLogger(log),
				contracts.WithLogLevel(logLevel(opts.Debug)),
				contracts.WithClientName(clientName),
			)
			if err != nil {
				return err
			}
			defer client.Stop()

			devices, err := client.ListDevices()
			if err != nil {
				// No MIDI devices plugged in is not a failure of the listing.
				log.Warn("could not list MIDI devices", log.Field().Error("error", err))
				return nil
			}
			for i, d := range devices {
				fmt.Fprintf(out, "midi %d: %s (%s)\n", i, d.Name, d.EntityName)
			}
			return nil
		},
	}
}
