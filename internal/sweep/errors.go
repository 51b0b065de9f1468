package sweep

import (
	"errors"
	"fmt"
)

// ErrorKind classifies the failures that can abort a validation run.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindInputLoad
	KindPatternCompile
)

func (k ErrorKind) String() string {
	switch k {
	case KindInputLoad:
		return "input load failure"
	case KindPatternCompile:
		return "pattern compilation failure"
	default:
		return "unknown failure"
	}
}

// LoadError reports that an input document could not be read, parsed or
// did not have the expected structure.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// PatternError reports a pattern rejected by the regexp engine.
type PatternError struct {
	Index   int
	Pattern string
	Err     error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("pattern %d (%q) does not compile: %v", e.Index, e.Pattern, e.Err)
}

func (e *PatternError) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of the first LoadError or PatternError in err's chain.
func KindOf(err error) ErrorKind {
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		return KindInputLoad
	}

	var patternErr *PatternError
	if errors.As(err, &patternErr) {
		return KindPatternCompile
	}

	return KindUnknown
}

// Describe converts err into the single line shown to the operator.
func Describe(err error) string {
	if err == nil {
		return ""
	}

	switch kind := KindOf(err); kind {
	case KindInputLoad, KindPatternCompile:
		return fmt.Sprintf("%s: %v", kind, err)
	default:
		return err.Error()
	}
}
