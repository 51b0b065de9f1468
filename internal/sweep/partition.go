package sweep

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Span is a closed range [Lo, Hi] of candidates.
type Span struct {
	Lo, Hi int
}

// Len returns the number of candidates in the span.
func (s Span) Len() int {
	if s.Hi < s.Lo {
		return 0
	}
	return s.Hi - s.Lo + 1
}

// Partition splits [lo, hi] into at most n contiguous, disjoint spans of
// near-equal size, returned in ascending order. Earlier spans absorb the
// remainder.
func Partition(lo, hi, n int) []Span {
	total := Span{Lo: lo, Hi: hi}.Len()
	if total == 0 {
		return nil
	}
	if n <= 1 {
		return []Span{{Lo: lo, Hi: hi}}
	}
	if n > total {
		n = total
	}

	size, extra := total/n, total%n
	spans := make([]Span, 0, n)
	start := lo
	for i := 0; i < n; i++ {
		length := size
		if i < extra {
			length++
		}
		spans = append(spans, Span{Lo: start, Hi: start + length - 1})
		start += length
	}
	return spans
}

type indexedSpan struct {
	index int
	span  Span
}

type spanResult struct {
	index int
	tally tally
}

// sweepPartitioned sweeps spans with a pool of workers. Each worker builds
// its own tally; tallies are merged in span order once every worker is done.
func (v *Validator) sweepPartitioned(ctx context.Context, spans []Span, workers int) (tally, error) {
	spanCh := make(chan indexedSpan, len(spans))
	results := make(chan spanResult, workers)

	eg, ctx := errgroup.WithContext(ctx)
	for w := 1; w <= workers; w++ {
		eg.Go(func() error {
			return v.sweepWorker(ctx, spanCh, results)
		})
	}

	for i, span := range spans {
		spanCh <- indexedSpan{index: i, span: span}
	}
	close(spanCh)

	tallies := make([]tally, len(spans))
	done := make(chan struct{})
	go func() {
		defer close(done)
		completed := 0
		for res := range results {
			tallies[res.index] = res.tally
			completed++
			v.progress(fmt.Sprintf("  Swept partition %d/%d [%d-%d]: %d invalid",
				completed, len(spans), spans[res.index].Lo, spans[res.index].Hi, len(res.tally.invalid)))
		}
	}()

	err := eg.Wait()
	close(results)
	<-done

	if err != nil {
		return tally{}, err
	}

	var merged tally
	for _, t := range tallies {
		merged.merge(t)
	}
	return merged, nil
}

func (v *Validator) sweepWorker(ctx context.Context, spans <-chan indexedSpan, results chan<- spanResult) error {
	for s := range spans {
		t, err := v.sweepSpan(ctx, s.span)
		if err != nil {
			return err
		}
		results <- spanResult{index: s.index, tally: t}
	}
	return nil
}
