package sweep

import "regexp"

// Compile turns every pattern into a matcher. It stops at the first
// pattern the regexp engine rejects.
func Compile(patterns PatternList) ([]*regexp.Regexp, error) {
	matchers := make([]*regexp.Regexp, 0, len(patterns))
	for i, pattern := range patterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, &PatternError{Index: i, Pattern: pattern, Err: err}
		}
		matchers = append(matchers, re)
	}
	return matchers, nil
}

// CodeSet is the ground-truth set of valid postal codes.
type CodeSet map[int]struct{}

// NewCodeSet builds a CodeSet from codes. Duplicates collapse and values
// outside the six-digit range are kept as-is.
func NewCodeSet(codes []int) CodeSet {
	set := make(CodeSet, len(codes))
	for _, code := range codes {
		set[code] = struct{}{}
	}
	return set
}

// Contains reports whether code is a valid postal code.
func (s CodeSet) Contains(code int) bool {
	_, ok := s[code]
	return ok
}

func (s CodeSet) Len() int {
	return len(s)
}
