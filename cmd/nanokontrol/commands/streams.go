package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/midivolt/nanokontrol/internal/pulseaudio"
)

// NewStreamsCommand lists the playback streams currently attached to
// sinks, for picking [streams] suffixes in the config file.
func NewStreamsCommand(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "streams",
		Short: "List current PulseAudio playback streams",
		RunE: func(cmd *cobra.Command, _ []string) error {
			log := newLogger(opts.Debug)
			out := cmd.OutOrStdout()

			audio, err := pulseaudio.New(clientName, log)
			if err != nil {
				return err
			}
			defer audio.Close()

			streams, err := audio.SinkInputs()
			if err != nil {
				return err
			}
			if len(streams) == 0 {
				fmt.Fprintln(out, "no playback streams")
				return nil
			}
			for _, s := range streams {
				fmt.Fprintf(out, "stream %d: %s\n", s.Index, s.Name)
			}
			return nil
		},
	}
}
