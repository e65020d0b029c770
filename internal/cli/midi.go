package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/bartree/pkg/io"
	"github.com/matzehuels/bartree/pkg/sequence"
)

// midiCommand creates the midi command, which turns a MIDI file into a bar
// document without encoding it.
func (c *CLI) midiCommand() *cobra.Command {
	var (
		opts    io.MIDIOptions
		ts      string
		output  string
		format  string
		keyName bool
	)

	cmd := &cobra.Command{
		Use:   "midi <file.mid>",
		Short: "Import a monophonic MIDI track as a bar document",
		Long: `Import a MIDI track as a JSON or YAML bar document.

Chords are reduced to their highest note, overlaps are cut at the next onset
and gaps become rests. Notes crossing a barline are split and tied. The time
signature comes from --time, else the file's first time signature, else 4/4.`,
		Example: `  bartree midi song.mid --track 2 -o song.yaml
  bartree midi song.mid --names --format yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			if ts != "" {
				var err error
				if opts.Time, err = sequence.ParseTimeSignature(ts); err != nil {
					return err
				}
			}
			opts.NamePitches = keyName

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			prog := newProgress(logger)
			score, err := io.ReadMIDI(f, opts)
			if err != nil {
				return err
			}
			prog.done("read MIDI", "bars", len(score.Bars), "time", score.Time)

			if output != "" {
				if err := io.Export(score, output); err != nil {
					return err
				}
				u := ui{w: cmd.ErrOrStderr()}
				u.success("Imported %d bars", len(score.Bars))
				u.file(output)
				u.nextStep("Encode them", "bartree convert "+output)
				return nil
			}
			outFormat, err := outputFormat(format, "")
			if err != nil {
				return err
			}
			return io.Write(cmd.OutOrStdout(), score, outFormat)
		},
	}

	cmd.Flags().IntVar(&opts.Track, "track", 0, "track to read, 1-based (0 reads all)")
	cmd.Flags().IntVar(&opts.Channel, "channel", 0, "channel to read, 1-16 (0 reads all)")
	cmd.Flags().StringVarP(&ts, "time", "t", "", "time signature (default from the file)")
	cmd.Flags().BoolVar(&keyName, "names", false, "write pitches as note names (C4) instead of key numbers")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVarP(&format, "format", "f", "", "output format when writing to stdout: json or yaml")

	return cmd
}
