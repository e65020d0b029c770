package notation

import (
	"github.com/matzehuels/bartree/pkg/errors"
	"github.com/matzehuels/bartree/pkg/sequence"
	"github.com/matzehuels/bartree/pkg/tree"
)

// Annotation is the notation the caller supplies for one leaf.
type Annotation struct {
	Tie        sequence.TieState `json:"tie,omitempty"`
	Pitch      any               `json:"pitch,omitempty"`
	Accidental any               `json:"accidental,omitempty"`
}

// Tree is a rhythm tree whose leaves carry notation.
type Tree struct {
	*tree.Tree
}

// Decorate returns a copy of rt with annotations applied to its leaves in
// order. It fails with INVALID_INPUT when the counts differ and with the
// tree's own error when rt is not valid.
func Decorate(rt *tree.Tree, anns []Annotation) (*Tree, error) {
	if err := rt.Validate(); err != nil {
		return nil, err
	}
	t := rt.Clone()
	leaves := t.Leaves()
	if len(leaves) != len(anns) {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"%d annotations for %d leaves", len(anns), len(leaves))
	}
	for i, l := range leaves {
		l.Event.Tie = anns[i].Tie
		l.Event.Pitch = anns[i].Pitch
		l.Accidental = anns[i].Accidental
	}
	return &Tree{Tree: t}, nil
}

// FromEvents returns the annotations already present on events, for
// decorating a tree with the notation it was built from.
func FromEvents(events []sequence.Event) []Annotation {
	out := make([]Annotation, len(events))
	for i, e := range events {
		out[i] = Annotation{Tie: e.Tie, Pitch: e.Pitch}
	}
	return out
}

// Annotations reads the annotations back from nt's leaves.
func (nt *Tree) Annotations() []Annotation {
	leaves := nt.Leaves()
	out := make([]Annotation, len(leaves))
	for i, l := range leaves {
		out[i] = Annotation{Tie: l.Event.Tie, Pitch: l.Event.Pitch, Accidental: l.Accidental}
	}
	return out
}

// Beams returns the beam state of every leaf in order.
func (nt *Tree) Beams() []sequence.BeamState {
	leaves := nt.Leaves()
	out := make([]sequence.BeamState, len(leaves))
	for i, l := range leaves {
		out[i] = l.Beam
	}
	return out
}
