package pipeline

import (
	"github.com/matzehuels/bartree/pkg/errors"
	"github.com/matzehuels/bartree/pkg/io"
	"github.com/matzehuels/bartree/pkg/sequence"
)

// ToScore converts a run back into a score for writing. Encoded bars carry
// their grouped structure, tree and beams; failed bars keep their input
// entries and the error message.
func ToScore(res *Result) *io.Score {
	s := &io.Score{Time: res.Time, Bars: make([]io.Bar, len(res.Bars))}
	for i, b := range res.Bars {
		out := io.Bar{Bar: sequence.Bar{Number: b.Number, Time: b.Time}}
		if b.Err != nil {
			out.Entries = b.Input
			out.Error = errors.UserMessage(b.Err)
			s.Bars[i] = out
			continue
		}
		out.Entries = b.Structure
		out.Tree = b.Tree.String()
		out.Beams = b.Beams
		for _, r := range b.Approximate {
			out.Approximate = append(out.Approximate, r.String())
		}
		s.Bars[i] = out
	}
	return s
}
