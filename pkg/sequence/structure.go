package sequence

import (
	"strings"

	"github.com/matzehuels/bartree/pkg/duration"
)

// Group is one enclosing grouping of an entry.
type Group struct {
	ID    int               `json:"id"`
	Ratio duration.Ratio    `json:"ratio"`
	Span  duration.Duration `json:"span"`
	Label string            `json:"label,omitempty"`
}

// Entry pairs an event with the chain of groups enclosing it, outermost first.
type Entry struct {
	Event  Event   `json:"event"`
	Groups []Group `json:"groups,omitempty"`
}

// Structure is an ordered sequence of entries for one bar.
type Structure []Entry

// FromEvents wraps events in entries with no grouping hints.
func FromEvents(events []Event) Structure {
	s := make(Structure, len(events))
	for i, e := range events {
		s[i] = Entry{Event: e}
	}
	return s
}

// Events returns the events in order.
func (s Structure) Events() []Event {
	out := make([]Event, len(s))
	for i, e := range s {
		out[i] = e.Event
	}
	return out
}

// HasGroups reports whether any entry carries grouping hints.
func (s Structure) HasGroups() bool {
	for _, e := range s {
		if len(e.Groups) > 0 {
			return true
		}
	}
	return false
}

// Canonical returns a copy with group IDs renumbered 0, 1, 2, ... in order of
// first appearance, with empty chains normalized to nil and plain ratios
// normalized. Two structures describing the same tree have equal canonical
// forms.
func (s Structure) Canonical() Structure {
	ids := make(map[int]int)
	out := make(Structure, len(s))
	for i, e := range s {
		out[i] = Entry{Event: e.Event}
		if len(e.Groups) == 0 {
			continue
		}
		out[i].Groups = make([]Group, len(e.Groups))
		for j, g := range e.Groups {
			id, ok := ids[g.ID]
			if !ok {
				id = len(ids)
				ids[g.ID] = id
			}
			g.ID = id
			g.Ratio = g.Ratio.Normalize()
			out[i].Groups[j] = g
		}
	}
	return out
}

// Path renders an entry's group chain as "3:2/1", outermost first, for logs.
func (e Entry) Path() string {
	parts := make([]string, len(e.Groups))
	for i, g := range e.Groups {
		parts[i] = g.Ratio.String()
	}
	return strings.Join(parts, "/")
}
