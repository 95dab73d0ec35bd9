// Package timing measures the blur variants against each other.
package timing

import (
	"fmt"
	"time"

	apperrors "go-frame-filters/internal/errors"
	"go-frame-filters/internal/filter"
	"go-frame-filters/internal/frame"
)

// DefaultRuns matches the number of repetitions the harness reports on
const DefaultRuns = 10

// Result is the timing of one transform repeated Runs times
type Result struct {
	Name   string
	Runs   int
	Total  time.Duration
	Output *frame.Frame
}

// Mean is the average time per run
func (r Result) Mean() time.Duration {
	if r.Runs == 0 {
		return 0
	}
	return r.Total / time.Duration(r.Runs)
}

// Measure runs fn runs times and keeps the last output
func Measure(name string, runs int, fn func() (*frame.Frame, error)) (Result, error) {
	if runs < 1 {
		return Result{}, apperrors.NewInvalidParameterError(fmt.Sprintf("runs must be >= 1, got %d", runs))
	}
	res := Result{Name: name, Runs: runs}
	start := time.Now()
	for i := 0; i < runs; i++ {
		out, err := fn()
		if err != nil {
			return Result{}, fmt.Errorf("%s run %d: %w", name, i+1, err)
		}
		res.Output = out
	}
	res.Total = time.Since(start)
	return res, nil
}

// CompareBlurs times the naive and the separable blur on src
func CompareBlurs(p *filter.Processor, src *frame.Frame, runs int) ([]Result, error) {
	naive, err := Measure("blur5x5", runs, func() (*frame.Frame, error) {
		return p.Blur5x5(src)
	})
	if err != nil {
		return nil, err
	}
	separable, err := Measure("blur5x5_separable", runs, func() (*frame.Frame, error) {
		return p.Blur5x5Separable(src)
	})
	if err != nil {
		return nil, err
	}
	return []Result{naive, separable}, nil
}
