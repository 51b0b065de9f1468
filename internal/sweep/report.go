package sweep

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
)

const (
	overmatchHeader   = "Found numbers that match regex but aren't in postal codes:"
	cleanConfirmation = "All regex matches are valid postal codes!"
)

// Reporter writes the human-readable outcome of a sweep.
type Reporter struct {
	w    io.Writer
	warn *color.Color
	ok   *color.Color
}

// NewReporter returns a Reporter writing to w. When colorize is false the
// output is plain text regardless of the terminal.
func NewReporter(w io.Writer, colorize bool) *Reporter {
	r := &Reporter{
		w:    w,
		warn: color.New(color.FgYellow, color.Bold),
		ok:   color.New(color.FgGreen),
	}
	if !colorize {
		r.warn.DisableColor()
		r.ok.DisableColor()
	}
	return r
}

// Write prints either the overmatch report (header, first SampleSize
// invalid matches, total) or the single confirmation line.
func (r *Reporter) Write(result Result) error {
	if result.Clean() {
		if _, err := r.ok.Fprintln(r.w, cleanConfirmation); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		return nil
	}

	if _, err := r.warn.Fprintln(r.w, overmatchHeader); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	if _, err := fmt.Fprintln(r.w, FormatSequence(result.Sample(SampleSize))); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	if _, err := fmt.Fprintf(r.w, "Total invalid matches: %d\n", result.Total()); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// FormatSequence renders values as a literal sequence, e.g. "[1, 2, 3]".
func FormatSequence(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
