// Package pipeline runs independent utterances through extraction on a
// bounded worker pool.
package pipeline

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"nadcal/internal/event"
	"nadcal/internal/extract"
)

// Task handles the line at index i. Tasks run concurrently and must only
// write state owned by their index.
type Task func(ctx context.Context, i int, line string) error

// LineError is a failure of one line; the other lines still run.
type LineError struct {
	Index int
	Err   error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Index+1, e.Err)
}

func (e *LineError) Unwrap() error { return e.Err }

// Run calls fn for every line with at most workers in flight (NumCPU when
// workers <= 0). Lines not yet started when ctx is done fail with the
// context error.
func Run(ctx context.Context, lines []string, workers int, fn Task) []error {
	if len(lines) == 0 || fn == nil {
		return nil
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
		if workers < 1 {
			workers = 1
		}
	}

	jobs := make(chan int)
	errs := make(chan error, len(lines))
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if err := runTask(ctx, fn, i, lines[i]); err != nil {
					errs <- &LineError{Index: i, Err: err}
				}
			}
		}()
	}

	for i := range lines {
		if err := ctx.Err(); err != nil {
			errs <- &LineError{Index: i, Err: err}
			continue
		}
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	close(errs)

	out := make([]error, 0, len(errs))
	for err := range errs {
		out = append(out, err)
	}
	return out
}

func runTask(ctx context.Context, fn Task, i int, line string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn(ctx, i, line)
}

// ExtractLines runs every line through x.ExtractMany. records[i] holds the
// candidates of lines[i], nil for a line that failed.
func ExtractLines(ctx context.Context, x *extract.Extractor, lines []string, workers int) ([][]event.Slots, []error) {
	records := make([][]event.Slots, len(lines))
	errs := Run(ctx, lines, workers, func(ctx context.Context, i int, line string) error {
		records[i] = x.ExtractMany(ctx, line)
		return nil
	})
	return records, errs
}
