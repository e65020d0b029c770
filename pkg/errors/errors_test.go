package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNewFormatsCodeAndMessage(t *testing.T) {
	tests := []struct {
		err  *Error
		want string
	}{
		{New(ErrCodeNegativeDuration, "%s - %s is negative", "1/4", "1/2"), "NEGATIVE_DURATION: 1/4 - 1/2 is negative"},
		{New(ErrCodeUngroupableSpan, "no division of [%s, %s)", "1", "2"), "UNGROUPABLE_SPAN: no division of [1, 2)"},
		{New(ErrCodeInvalidWindowSize, "window size %d", 0), "INVALID_WINDOW_SIZE: window size 0"},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
		if tt.err.Cause != nil {
			t.Errorf("New() set a cause: %v", tt.err.Cause)
		}
	}
}

func TestWrapKeepsStructuralCause(t *testing.T) {
	short := New(ErrCodeNegativeDuration, "3/2 - 2 is negative")
	err := Wrap(ErrCodeIncompleteNode, short, "group %d spans 2 but its events fill %s", 4, "3/2")

	if got, want := err.Error(), "INCOMPLETE_NODE: group 4 spans 2 but its events fill 3/2: NEGATIVE_DURATION: 3/2 - 2 is negative"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if errors.Unwrap(err) != short {
		t.Error("Unwrap() does not return the negative-duration cause")
	}

	// The outermost code names the failure; the cause stays reachable.
	if GetCode(err) != ErrCodeIncompleteNode {
		t.Errorf("GetCode() = %s, want INCOMPLETE_NODE", GetCode(err))
	}
	var inner *Error
	if !errors.As(errors.Unwrap(err), &inner) || inner.Code != ErrCodeNegativeDuration {
		t.Errorf("cause code = %v, want NEGATIVE_DURATION", inner)
	}
	if UserMessage(err) != "group 4 spans 2 but its events fill 3/2" {
		t.Errorf("UserMessage() = %q", UserMessage(err))
	}
}

func TestIs(t *testing.T) {
	misaligned := New(ErrCodeMisalignedEvent, "event 3 crosses the end of group 1")

	tests := []struct {
		name string
		err  error
		code Code
		want bool
	}{
		{"matching code", New(ErrCodeDisjointNodes, "nodes from two trees"), ErrCodeDisjointNodes, true},
		{"other code", New(ErrCodeDisjointNodes, "nodes from two trees"), ErrCodeInvalidChild, false},
		{"through fmt wrapping", fmt.Errorf("bar 7: %w", misaligned), ErrCodeMisalignedEvent, true},
		{"through two fmt layers", fmt.Errorf("score: %w", fmt.Errorf("bar 7: %w", misaligned)), ErrCodeMisalignedEvent, true},
		{"outer code of a wrap", Wrap(ErrCodeInvalidFormat, misaligned, "decode bars.json"), ErrCodeInvalidFormat, true},
		{"plain error", errors.New("unexpected EOF"), ErrCodeInvalidFormat, false},
		{"nil", nil, ErrCodeInvalidInput, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.want {
				t.Errorf("Is(%v, %s) = %v, want %v", tt.err, tt.code, got, tt.want)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Code
	}{
		{"ungroupable span", New(ErrCodeUngroupableSpan, "[0, 1)"), ErrCodeUngroupableSpan},
		{"wrapped by a bar", fmt.Errorf("bar 2: %w", New(ErrCodeInvalidDuration, "empty duration")), ErrCodeInvalidDuration},
		{"plain error", errors.New("plain"), ""},
		{"nil", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.want {
				t.Errorf("GetCode() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"coded", New(ErrCodeUngroupableSpan, "cannot group [1/2, 1)"), "cannot group [1/2, 1)"},
		{"coded under fmt", fmt.Errorf("bar 3: %w", New(ErrCodeMisalignedEvent, "event 2 overruns the bar")), "event 2 overruns the bar"},
		{"plain", errors.New("open bars.json: no such file"), "open bars.json: no such file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.want {
				t.Errorf("UserMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsContractViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"invalid child", New(ErrCodeInvalidChild, "leaf cannot have children"), true},
		{"negative duration", New(ErrCodeNegativeDuration, "1/4 - 1/2"), true},
		{"incomplete node over negative duration", Wrap(ErrCodeIncompleteNode, New(ErrCodeNegativeDuration, "3/2 - 2"), "group 3"), true},
		{"disjoint nodes", New(ErrCodeDisjointNodes, "two trees"), true},
		{"ungroupable span", New(ErrCodeUngroupableSpan, "[1, 2)"), false},
		{"misaligned event", New(ErrCodeMisalignedEvent, "event 1"), false},
		{"bad config over contract", Wrap(ErrCodeInvalidConfig, New(ErrCodeInvalidChild, "x"), "load"), false},
		{"plain error", errors.New("plain"), false},
		{"nil", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsContractViolation(tt.err); got != tt.want {
				t.Errorf("IsContractViolation() = %v, want %v", got, tt.want)
			}
		})
	}
}
