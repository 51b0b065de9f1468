// Package sweep checks that a set of postal code patterns never matches a
// six-digit number outside the known set of valid postal codes.
//
// The check is exhaustive: every candidate in [RangeStart, RangeEnd] is
// rendered in base 10 and tested against every compiled pattern with
// unanchored search semantics. A candidate that matches some pattern but is
// not a valid postal code is an invalid match.
package sweep

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
)

const (
	// RangeStart and RangeEnd bound the six-digit candidate space, inclusive.
	RangeStart = 100000
	RangeEnd   = 999999

	// SampleSize is the number of invalid matches shown in a report.
	SampleSize = 10

	// Candidates swept between context checks.
	cancelCheckInterval = 10_000
)

// Options tunes how a sweep is executed. The zero value runs a sequential
// sweep without progress output.
type Options struct {
	// Workers is the number of partitions swept concurrently. Values below
	// 2 select the sequential sweep.
	Workers int

	// Progress, if set, receives human-readable phase messages.
	Progress func(string)
}

// Result is the outcome of one sweep.
type Result struct {
	// Invalid holds every invalid match in ascending order.
	Invalid []int
	// Checked is the number of candidates evaluated.
	Checked int
	// Matched is the number of candidates matched by at least one pattern.
	Matched int
}

// Clean reports whether no invalid match was found.
func (r Result) Clean() bool {
	return len(r.Invalid) == 0
}

// Total returns the number of invalid matches.
func (r Result) Total() int {
	return len(r.Invalid)
}

// Sample returns the first n invalid matches in ascending order.
func (r Result) Sample(n int) []int {
	if n < 0 {
		n = 0
	}
	if n > len(r.Invalid) {
		n = len(r.Invalid)
	}
	sample := make([]int, n)
	copy(sample, r.Invalid[:n])
	return sample
}

// Validator holds the compiled patterns and ground-truth set for repeated
// sweeps. It is safe for concurrent use.
type Validator struct {
	matchers []*regexp.Regexp
	valid    CodeSet
	opts     Options
}

// New compiles patterns and indexes validPostalCodes. It fails with a
// *PatternError if any pattern does not compile.
func New(patterns PatternList, validPostalCodes []int, opts Options) (*Validator, error) {
	v := &Validator{opts: opts}

	v.progress(fmt.Sprintf("Compiling %d patterns...", len(patterns)))
	matchers, err := Compile(patterns)
	if err != nil {
		return nil, err
	}
	v.matchers = matchers

	v.valid = NewCodeSet(validPostalCodes)
	v.progress(fmt.Sprintf("Indexed %d valid postal codes", v.valid.Len()))

	return v, nil
}

// Run is a convenience wrapper around New followed by Validate.
func Run(ctx context.Context, patterns PatternList, validPostalCodes []int, opts Options) (Result, error) {
	v, err := New(patterns, validPostalCodes, opts)
	if err != nil {
		return Result{}, err
	}
	return v.Validate(ctx)
}

// Validate sweeps [RangeStart, RangeEnd] and returns the invalid matches.
// The invalid match set is built per call and never shared between calls.
func (v *Validator) Validate(ctx context.Context) (Result, error) {
	workers := v.opts.Workers

	var (
		t   tally
		err error
	)
	if workers <= 1 {
		v.progress(fmt.Sprintf("Sweeping %d-%d sequentially...", RangeStart, RangeEnd))
		t, err = v.sweepSpan(ctx, Span{Lo: RangeStart, Hi: RangeEnd})
	} else {
		spans := Partition(RangeStart, RangeEnd, workers)
		v.progress(fmt.Sprintf("Sweeping %d-%d in %d partitions with %d workers...",
			RangeStart, RangeEnd, len(spans), workers))
		t, err = v.sweepPartitioned(ctx, spans, workers)
	}
	if err != nil {
		return Result{}, fmt.Errorf("sweep interrupted: %w", err)
	}

	v.progress(fmt.Sprintf("Sweep complete: %d checked, %d matched, %d invalid",
		t.checked, t.matched, len(t.invalid)))

	return Result{Invalid: t.invalid, Checked: t.checked, Matched: t.matched}, nil
}

// Matches reports whether any pattern finds a match anywhere in s.
func (v *Validator) Matches(s string) bool {
	for _, re := range v.matchers {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}

// tally accumulates the outcome of sweeping one span.
type tally struct {
	invalid []int
	checked int
	matched int
}

// merge appends other, which must cover candidates above t's.
func (t *tally) merge(other tally) {
	t.invalid = append(t.invalid, other.invalid...)
	t.checked += other.checked
	t.matched += other.matched
}

// sweepSpan evaluates every candidate in s once, in ascending order.
func (v *Validator) sweepSpan(ctx context.Context, s Span) (tally, error) {
	var t tally
	for n := s.Lo; n <= s.Hi; n++ {
		if (n-s.Lo)%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return tally{}, err
			}
		}

		t.checked++
		if !v.Matches(strconv.Itoa(n)) {
			continue
		}
		t.matched++

		if !v.valid.Contains(n) {
			t.invalid = append(t.invalid, n)
		}
	}
	return t, nil
}

func (v *Validator) progress(msg string) {
	if v.opts.Progress != nil {
		v.opts.Progress(msg)
	}
}
