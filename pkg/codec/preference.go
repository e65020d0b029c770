package codec

import (
	"slices"
	"strconv"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/matzehuels/bartree/pkg/duration"
	"github.com/matzehuels/bartree/pkg/errors"
)

// Preference ranks divisions at a given depth. Lower ranks are preferred;
// equal ranks fall back to the smaller division.
type Preference interface {
	Rank(depth, division int) int
}

// PreferenceFunc adapts a function to the Preference interface.
type PreferenceFunc func(depth, division int) int

// Rank calls f.
func (f PreferenceFunc) Rank(depth, division int) int { return f(depth, division) }

// PreferBinary ranks powers of two ahead of everything else, each group in
// ascending order: 2, 4, 8, then 3, 5, 6.
var PreferBinary Preference = PreferenceFunc(func(_, division int) int {
	if duration.IsPowerOfTwo(division) {
		return division
	}
	return 1<<10 + division
})

// PreferAscending ranks divisions by size.
var PreferAscending Preference = PreferenceFunc(func(_, division int) int {
	return division
})

// PreferOrder ranks divisions by their position in order. Divisions not
// listed come after all listed ones.
func PreferOrder(order ...int) Preference {
	order = slices.Clone(order)
	return PreferenceFunc(func(_, division int) int {
		if i := slices.Index(order, division); i >= 0 {
			return i
		}
		return len(order) + division
	})
}

// PreferByDepth prefers perDepth[depth-1] at each depth, where depth 1 is the
// top grouping of a bar. Depths past the end of perDepth reuse its last entry.
// Other divisions are ranked by PreferBinary.
func PreferByDepth(perDepth []int) Preference {
	perDepth = slices.Clone(perDepth)
	return PreferenceFunc(func(depth, division int) int {
		if len(perDepth) > 0 {
			i := min(max(depth-1, 0), len(perDepth)-1)
			if perDepth[i] == division {
				return -1
			}
		}
		return PreferBinary.Rank(depth, division)
	})
}

// ExprPreference ranks divisions with an expression over the variables depth
// and division, for example "division == 3 ? 0 : division". The helper
// isPow2(n) is available.
type ExprPreference struct {
	source  string
	program *vm.Program
}

func exprEnv(depth, division int) map[string]any {
	return map[string]any{"depth": depth, "division": division}
}

// NewExprPreference compiles src. The expression must evaluate to an integer.
func NewExprPreference(src string) (*ExprPreference, error) {
	prg, err := expr.Compile(src,
		expr.Env(exprEnv(0, 0)),
		expr.Function("isPow2", func(params ...any) (any, error) {
			return duration.IsPowerOfTwo(params[0].(int)), nil
		}, new(func(int) bool)),
		expr.AsInt(),
	)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "compile preference %q", src)
	}
	return &ExprPreference{source: src, program: prg}, nil
}

// Rank evaluates the expression. A runtime failure ranks the division last.
func (p *ExprPreference) Rank(depth, division int) int {
	res, err := expr.Run(p.program, exprEnv(depth, division))
	if err != nil {
		return 1 << 20
	}
	n, ok := res.(int)
	if !ok {
		return 1 << 20
	}
	return n
}

// String returns the expression source.
func (p *ExprPreference) String() string { return p.source }

// ParsePreference returns the named policy: "binary", "ascending",
// "order:<d,d,...>", "depth:<d,d,...>" or "expr:<expression>".
func ParsePreference(name string) (Preference, error) {
	switch name {
	case "", "binary":
		return PreferBinary, nil
	case "ascending":
		return PreferAscending, nil
	}
	if src, ok := strings.CutPrefix(name, "expr:"); ok {
		return NewExprPreference(src)
	}
	if list, ok := strings.CutPrefix(name, "order:"); ok {
		order, err := parseDivisionList("order", list)
		if err != nil {
			return nil, err
		}
		return PreferOrder(order...), nil
	}
	if list, ok := strings.CutPrefix(name, "depth:"); ok {
		perDepth, err := parseDivisionList("depth", list)
		if err != nil {
			return nil, err
		}
		return PreferByDepth(perDepth), nil
	}
	return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown preference %q", name)
}

func parseDivisionList(kind, list string) ([]int, error) {
	var out []int
	for _, f := range strings.Split(list, ",") {
		d, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "preference %s %q", kind, list)
		}
		if d < 2 {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "preference %s %q: division %d is below 2", kind, list, d)
		}
		out = append(out, d)
	}
	return out, nil
}

// rankDivisions returns the allowed divisions in preference order for depth.
func rankDivisions(p Preference, allowed []int, depth int) []int {
	out := slices.Clone(allowed)
	slices.SortStableFunc(out, func(a, b int) int {
		ra, rb := p.Rank(depth, a), p.Rank(depth, b)
		if ra != rb {
			return ra - rb
		}
		return a - b
	})
	return out
}
