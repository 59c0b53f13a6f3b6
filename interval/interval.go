// Package interval provides a closed or upward-unbounded integer interval.
// It describes both how many tokens a command-line argument consumes (its
// arity) and which argument positions a positional parameter claims (its
// index). Intervals are parsed from strings of the form "N", "N..M", or
// "N..*".
package interval

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Interval is an immutable range of non-negative integers. The zero value
// is the single-element interval [0,0].
type Interval struct {
	// Min is the inclusive lower bound.
	Min int
	// Max is the inclusive upper bound. It equals math.MaxInt when the
	// interval is open-ended.
	Max int
	// Variable reports whether the interval was declared open-ended
	// ("N..*").
	Variable bool
}

// Exactly returns the single-element interval [n,n].
// It panics if n is negative.
func Exactly(n int) Interval {
	if n < 0 {
		panic(fmt.Sprintf("interval: negative bound %d", n))
	}
	return Interval{Min: n, Max: n}
}

// Between returns the closed interval [min,max].
// It panics if min is negative or exceeds max.
func Between(min, max int) Interval {
	if min < 0 || min > max {
		panic(fmt.Sprintf("interval: invalid bounds %d..%d", min, max))
	}
	return Interval{Min: min, Max: max}
}

// AtLeast returns the open-ended interval [min,*].
// It panics if min is negative.
func AtLeast(min int) Interval {
	if min < 0 {
		panic(fmt.Sprintf("interval: negative bound %d", min))
	}
	return Interval{Min: min, Max: math.MaxInt, Variable: true}
}

// Parse converts a string of the form "N", "N..M", or "N..*" into an
// Interval. It returns an error if the string does not match one of these
// forms, or if the parsed bounds violate 0 <= min <= max.
func Parse(s string) (Interval, error) {
	lo, hi, found := strings.Cut(s, "..")
	min, err := strconv.Atoi(strings.TrimSpace(lo))
	if err != nil {
		return Interval{}, fmt.Errorf("interval: invalid bound %q in %q", lo, s)
	}
	if min < 0 {
		return Interval{}, fmt.Errorf("interval: negative bound %d in %q", min, s)
	}
	if !found {
		return Interval{Min: min, Max: min}, nil
	}
	hi = strings.TrimSpace(hi)
	if hi == "*" {
		return Interval{Min: min, Max: math.MaxInt, Variable: true}, nil
	}
	max, err := strconv.Atoi(hi)
	if err != nil {
		return Interval{}, fmt.Errorf("interval: invalid bound %q in %q", hi, s)
	}
	if max < min {
		return Interval{}, fmt.Errorf("interval: min %d exceeds max %d in %q", min, max, s)
	}
	return Interval{Min: min, Max: max}, nil
}

// WithMin returns a copy with the lower bound replaced. The upper bound is
// raised if necessary to keep the interval valid.
func (i Interval) WithMin(min int) Interval {
	i.Min = min
	if i.Max < min {
		i.Max = min
	}
	return i
}

// WithMax returns a copy with the upper bound replaced. The lower bound is
// lowered if necessary to keep the interval valid. The copy is no longer
// open-ended.
func (i Interval) WithMax(max int) Interval {
	i.Max = max
	i.Variable = max == math.MaxInt
	if i.Min > max {
		i.Min = max
	}
	return i
}

// Contains reports whether n lies within the interval.
func (i Interval) Contains(n int) bool {
	return n >= i.Min && n <= i.Max
}

// Unbounded reports whether the interval has no effective upper limit.
func (i Interval) Unbounded() bool {
	return i.Variable || i.Max == math.MaxInt
}

// Size returns the number of integers covered by the interval, or
// math.MaxInt if it is unbounded.
func (i Interval) Size() int {
	if i.Unbounded() {
		return math.MaxInt
	}
	return i.Max - i.Min + 1
}

// Scale multiplies both bounds by n, saturating at math.MaxInt. It is used
// to derive the token capacity of a positional parameter (index span times
// arity).
func (i Interval) Scale(n int) Interval {
	return Interval{
		Min:      mulSat(i.Min, n),
		Max:      mulSat(i.Max, n),
		Variable: i.Variable,
	}
}

// String renders the interval in a form accepted by Parse.
func (i Interval) String() string {
	if i.Unbounded() {
		return fmt.Sprintf("%d..*", i.Min)
	}
	if i.Min == i.Max {
		return strconv.Itoa(i.Min)
	}
	return fmt.Sprintf("%d..%d", i.Min, i.Max)
}

func mulSat(a, b int) int {
	if a == 0 || b == 0 {
		return 0
	}
	if a >= math.MaxInt/b {
		return math.MaxInt
	}
	return a * b
}
