package codec

import (
	"slices"

	"github.com/matzehuels/bartree/pkg/errors"
	"github.com/matzehuels/bartree/pkg/sequence"
)

// Default option values.
const (
	DefaultMaxDenominator = 64
	DefaultMaxDepth       = 7
	DefaultMaxDots        = 2

	// NoDots set as MaxDots forbids dotted values.
	NoDots = -1
)

// DefaultDivisions are the divisions tried when none are configured.
var DefaultDivisions = []int{2, 3}

// Options configures tree building.
type Options struct {
	// AllowedDivisions are the numbers of equal parts a span may be split into.
	AllowedDivisions []int

	// MaxDenominator bounds the denominator of any part length.
	MaxDenominator int64

	// MaxDepth bounds the depth of the tree below the root.
	MaxDepth int

	// MaxDots is the most dots a written note value may carry. Zero means
	// DefaultMaxDots; NoDots forbids dots.
	MaxDots int

	// Preference orders divisions that produce equally small trees.
	// Nil means PreferBinary.
	Preference Preference

	// Quantize snaps onsets to the nearest allowed division before building.
	Quantize bool

	// BestEffort replaces ungroupable spans with flat approximate groups.
	BestEffort bool

	// Time is the bar's time signature. The zero value means the bar is
	// exactly as long as its events.
	Time sequence.TimeSignature
}

// ValidateAndSetDefaults fills zero fields with defaults and checks the rest.
func (o *Options) ValidateAndSetDefaults() error {
	if len(o.AllowedDivisions) == 0 {
		o.AllowedDivisions = slices.Clone(DefaultDivisions)
	}
	if o.MaxDenominator == 0 {
		o.MaxDenominator = DefaultMaxDenominator
	}
	if o.MaxDepth == 0 {
		o.MaxDepth = DefaultMaxDepth
	}
	if o.MaxDots == 0 {
		o.MaxDots = DefaultMaxDots
	}
	if o.Preference == nil {
		o.Preference = PreferBinary
	}

	if err := errors.ValidateDivisions(o.AllowedDivisions); err != nil {
		return err
	}
	if err := errors.ValidateMaxDenominator(o.MaxDenominator); err != nil {
		return err
	}
	if o.MaxDepth < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "max depth must be positive, got %d", o.MaxDepth)
	}
	if o.MaxDots < NoDots {
		return errors.New(errors.ErrCodeInvalidConfig, "max dots must be NoDots or at least 1, got %d", o.MaxDots)
	}
	if !o.Time.IsZero() {
		if err := o.Time.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// dots is MaxDots with NoDots read as zero.
func (o Options) dots() int { return max(o.MaxDots, 0) }
