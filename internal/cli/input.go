package cli

import (
	"fmt"
	"os"

	"github.com/matzehuels/bartree/pkg/io"
	"github.com/matzehuels/bartree/pkg/sequence"
)

// readScore reads a JSON, YAML or MIDI score. When ts is set it becomes the
// default signature, and an untimed timeline is cut into bars of ts.
func readScore(path string, ts sequence.TimeSignature, midi io.MIDIOptions) (*io.Score, error) {
	format, err := io.FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	if format == io.FormatMIDI {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		midi.Time = ts
		return io.ReadMIDI(f, midi)
	}

	s, err := io.Import(path)
	if err != nil {
		return nil, err
	}
	if ts.IsZero() || !s.Time.IsZero() {
		return s, nil
	}
	if len(s.Bars) == 1 && s.Bars[0].Time.IsZero() {
		bars, err := sequence.SplitBars(s.Events(), ts)
		if err != nil {
			return nil, fmt.Errorf("split %s: %w", path, err)
		}
		s.Bars = s.Bars[:0]
		for _, b := range bars {
			s.Bars = append(s.Bars, io.Bar{Bar: b})
		}
	}
	s.Time = ts
	return s, nil
}
