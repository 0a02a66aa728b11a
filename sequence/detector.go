// Package sequence finds cyclic patterns in an ordered token stream: a window
// of tokens immediately followed by an identical window.
//
// The detector reports only the first such window per length, scanning left
// to right in the order the tokens were given. It never sorts its input.
package sequence

import (
	"errors"
	"fmt"
)

// MaxRepetitionChecks bounds the extension step: windows at offsets
// i+l*k are compared for k = 2 .. MaxRepetitionChecks-1.
const MaxRepetitionChecks = 10

// DefaultWindowLengths are the window lengths scanned when none are configured
var DefaultWindowLengths = []int{3, 5, 8}

// ErrInvalidWindowLength is returned for window lengths <= 0
var ErrInvalidWindowLength = errors.New("window length must be positive")

// Match is the first repeated window found for one length
type Match[T comparable] struct {
	// Start is the index of the first window in the token sequence
	Start int `json:"start" yaml:"start" msgpack:"start"`
	// Window holds the repeated tokens
	Window []T `json:"window" yaml:"window" msgpack:"window"`
	// Repetitions counts consecutive equal windows after the first one.
	// 1 means the base pair only.
	Repetitions int `json:"repetitions" yaml:"repetitions" msgpack:"repetitions"`
}

// Result is the outcome of the scan for one window length. Match is nil when
// no repeated window exists, including when the sequence is shorter than two
// windows.
type Result[T comparable] struct {
	WindowLength int       `json:"window_length" yaml:"window_length" msgpack:"window_length"`
	Match        *Match[T] `json:"match,omitempty" yaml:"match,omitempty" msgpack:"match,omitempty"`
}

// Found reports whether a repeated window was found
func (r Result[T]) Found() bool {
	return r.Match != nil
}

// ValidateLengths checks that every window length is positive
func ValidateLengths(lengths []int) error {
	for _, l := range lengths {
		if l <= 0 {
			return fmt.Errorf("%w: got %d", ErrInvalidWindowLength, l)
		}
	}
	return nil
}

// Detect scans tokens once per window length and returns one Result per
// length, in the order the lengths were given. Lengths are independent: the
// outcome for one does not influence another.
func Detect[T comparable](tokens []T, lengths []int) ([]Result[T], error) {
	if err := ValidateLengths(lengths); err != nil {
		return nil, err
	}

	results := make([]Result[T], 0, len(lengths))
	for _, l := range lengths {
		results = append(results, Result[T]{WindowLength: l, Match: firstRepeat(tokens, l)})
	}
	return results, nil
}

// firstRepeat returns the first window of length l that is immediately
// followed by an equal window, extended over further equal windows.
func firstRepeat[T comparable](tokens []T, l int) *Match[T] {
	n := len(tokens)
	if 2*l > n {
		return nil
	}

	for i := 0; i <= n-2*l; i++ {
		if !windowsEqual(tokens, i, i+l, l) {
			continue
		}

		reps := 1
		for k := 2; k < MaxRepetitionChecks; k++ {
			start := i + l*k
			if start+l > n {
				break
			}
			if !windowsEqual(tokens, i, start, l) {
				break
			}
			reps++
		}

		window := make([]T, l)
		copy(window, tokens[i:i+l])
		return &Match[T]{Start: i, Window: window, Repetitions: reps}
	}
	return nil
}

// windowsEqual compares tokens[a:a+l] with tokens[b:b+l] element-wise
func windowsEqual[T comparable](tokens []T, a, b, l int) bool {
	for j := 0; j < l; j++ {
		if tokens[a+j] != tokens[b+j] {
			return false
		}
	}
	return true
}
