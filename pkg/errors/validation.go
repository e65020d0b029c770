package errors

// maxDivision bounds a single subdivision; anything larger is not a tuplet a
// score would print.
const maxDivision = 32

// ValidateDivisions checks a set of allowed subdivisions.
//
// The rules:
//   - at least one division
//   - every division is between 2 and 32
//   - no duplicates
func ValidateDivisions(divisions []int) error {
	if len(divisions) == 0 {
		return New(ErrCodeInvalidConfig, "allowed divisions cannot be empty")
	}
	seen := make(map[int]bool, len(divisions))
	for _, d := range divisions {
		if d < 2 || d > maxDivision {
			return New(ErrCodeInvalidConfig, "division %d out of range [2, %d]", d, maxDivision)
		}
		if seen[d] {
			return New(ErrCodeInvalidConfig, "duplicate division %d", d)
		}
		seen[d] = true
	}
	return nil
}

// ValidateMaxDenominator checks the denominator limit used for grouping and rounding.
func ValidateMaxDenominator(n int64) error {
	if n < 1 {
		return New(ErrCodeInvalidConfig, "max denominator must be positive, got %d", n)
	}
	if n > 1<<20 {
		return New(ErrCodeInvalidConfig, "max denominator %d too large", n)
	}
	return nil
}

// ValidateTimeSignature checks a meter such as 3/4 or 6/8.
// The beat type must be a power of two between 1 and 64.
func ValidateTimeSignature(beats, beatType int) error {
	if beats < 1 || beats > 64 {
		return New(ErrCodeInvalidInput, "time signature numerator %d out of range", beats)
	}
	if beatType < 1 || beatType > 64 || beatType&(beatType-1) != 0 {
		return New(ErrCodeInvalidInput, "time signature denominator %d is not a power of two", beatType)
	}
	return nil
}
