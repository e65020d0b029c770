package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/bartree/pkg/errors"
	"github.com/matzehuels/bartree/pkg/io"
	"github.com/matzehuels/bartree/pkg/pipeline"
	"github.com/matzehuels/bartree/pkg/sequence"
)

type convertFlags struct {
	encodeFlags
	output string
	format string
	strict bool
}

// convertCommand creates the convert command.
func (c *CLI) convertCommand() *cobra.Command {
	var flags convertFlags

	cmd := &cobra.Command{
		Use:   "convert <score>",
		Short: "Encode every bar of a score",
		Long: `Encode every bar of a JSON, YAML or MIDI score.

Each bar is written back with explicit grouping on its entries, the rhythm
tree in compact form, and beams when requested. Bars that cannot be grouped
keep their input entries and carry the error; use --best-effort to group
them as flat runs instead.`,
		Example: `  bartree convert melody.json -o melody.out.json
  bartree convert song.mid --time 6/8 --beams -o song.yaml
  bartree convert bars.yaml --divisions 2,3,5 --preference ascending`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runConvert(cmd, args[0], &flags)
		},
	}

	flags.register(cmd.Flags())
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVarP(&flags.format, "format", "f", "", "output format when writing to stdout: json or yaml")
	cmd.Flags().BoolVar(&flags.strict, "strict", false, "exit with an error when any bar fails")

	return cmd
}

func (c *CLI) runConvert(cmd *cobra.Command, path string, flags *convertFlags) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	out := ui{w: cmd.ErrOrStderr()}

	res, err := c.encodeScore(cmd, path, &flags.encodeFlags)
	if err != nil {
		return err
	}
	score := pipeline.ToScore(res)

	if flags.output != "" {
		if err := io.Export(score, flags.output); err != nil {
			return err
		}
	} else {
		format, err := outputFormat(flags.format, path)
		if err != nil {
			return err
		}
		if err := io.Write(cmd.OutOrStdout(), score, format); err != nil {
			return err
		}
	}
	logger.Debug("wrote score", "bars", len(score.Bars), "output", flags.output)

	for _, b := range res.Failed() {
		out.warning("bar %d: %s", b.Number, errors.UserMessage(b.Err))
	}
	if flags.output != "" {
		out.success("Encoded %s", path)
		out.stats(res.Stats)
		out.file(flags.output)
		if res.Stats.Failed > 0 {
			out.nextStep("Inspect the failed bars", fmt.Sprintf("bartree inspect %s", flags.output))
		}
	}
	if flags.strict && res.Stats.Failed > 0 {
		return fmt.Errorf("%d of %d bars failed", res.Stats.Failed, res.Stats.Bars)
	}
	return nil
}

// encodeScore reads path and runs the pipeline over it.
func (c *CLI) encodeScore(cmd *cobra.Command, path string, flags *encodeFlags) (*pipeline.Result, error) {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	opts, err := flags.options(cmd, c.config)
	if err != nil {
		return nil, err
	}
	prog := newProgress(logger)
	score, err := readScore(path, opts.Codec.Time, flags.midiOptions())
	if err != nil {
		return nil, err
	}
	prog.done("read score", "path", path, "bars", len(score.Bars))

	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return nil, err
	}
	defer runner.Close()

	return runner.Execute(ctx, score, opts)
}

// outputFormat picks the stdout format: the flag, else the input's own format,
// else JSON for MIDI input.
func outputFormat(flag, input string) (io.Format, error) {
	if flag != "" {
		switch f := io.Format(flag); f {
		case io.FormatJSON, io.FormatYAML:
			return f, nil
		}
		return "", errors.New(errors.ErrCodeInvalidInput, "unsupported output format %q", flag)
	}
	f, err := io.FormatFromPath(input)
	if err != nil || f == io.FormatMIDI {
		return io.FormatJSON, nil
	}
	return f, nil
}

// selectBar returns the bar numbered n, or the first bar when n is zero.
func selectBar(res *pipeline.Result, n int) (*pipeline.BarResult, error) {
	if len(res.Bars) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "score has no bars")
	}
	if n == 0 {
		return &res.Bars[0], nil
	}
	for i := range res.Bars {
		if res.Bars[i].Number == n {
			return &res.Bars[i], nil
		}
	}
	return nil, errors.New(errors.ErrCodeInvalidInput, "no bar %d (score has %d bars)", n, len(res.Bars))
}

// writeTo writes data to path, or to the command's stdout when path is empty.
func writeTo(cmd *cobra.Command, path string, data []byte) error {
	if path == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func timeLabel(ts sequence.TimeSignature) string {
	if ts.IsZero() {
		return "free"
	}
	return ts.String()
}
