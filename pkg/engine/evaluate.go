package engine

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ssargent/recprobe/pkg/registry"
)

// Evaluation is the per-candidate outcome of a multi-candidate run. Exactly one
// of Result (when Err is nil) or Err (a rejected candidate) is meaningful.
type Evaluation struct {
	Candidate string
	Result    Result
	Err       error
	Elapsed   time.Duration
}

// OK reports whether the candidate was decoded
func (e Evaluation) OK() bool { return e.Err == nil }

// Observer is notified once per candidate. Implementations must be safe for
// concurrent use when the evaluator runs more than one worker.
type Observer interface {
	ObserveDecode(candidate string, res Result, elapsed time.Duration)
	ObserveRejected(candidate string, err error)
}

// Evaluator decodes one buffer against every candidate of a registry
type Evaluator struct {
	budget   int
	workers  int
	observer Observer
	logger   logrus.FieldLogger
}

// Option configures an Evaluator
type Option func(*Evaluator)

// WithWorkers sets the number of candidates decoded concurrently
func WithWorkers(n int) Option {
	return func(e *Evaluator) {
		if n > 0 {
			e.workers = n
		}
	}
}

// WithObserver installs a per-candidate observer
func WithObserver(o Observer) Option {
	return func(e *Evaluator) { e.observer = o }
}

// WithLogger sets the logger used for per-candidate debug lines
func WithLogger(l logrus.FieldLogger) Option {
	return func(e *Evaluator) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewEvaluator creates an evaluator with the given record budget
func NewEvaluator(budget int, opts ...Option) *Evaluator {
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	e := &Evaluator{
		budget:  budget,
		workers: 1,
		logger:  discard,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Budget returns the per-candidate record budget
func (e *Evaluator) Budget() int { return e.budget }

// Evaluate returns one Evaluation per registry entry, in registry order.
// Rejected candidates are reported with their error. The only error returned
// is the context's, in which case no evaluations are returned.
func (e *Evaluator) Evaluate(ctx context.Context, buffer []byte, reg *registry.Registry) ([]Evaluation, error) {
	entries := reg.Entries()
	out := make([]Evaluation, len(entries))

	workers := e.workers
	if workers > len(entries) {
		workers = len(entries)
	}
	if workers <= 1 {
		for i, entry := range entries {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			out[i] = e.evaluateOne(buffer, entry)
		}
		return out, nil
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				out[i] = e.evaluateOne(buffer, entries[i])
			}
		}()
	}

	var cancelled error
feed:
	for i := range entries {
		if err := ctx.Err(); err != nil {
			cancelled = err
			break
		}
		select {
		case <-ctx.Done():
			cancelled = ctx.Err()
			break feed
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	if cancelled != nil {
		return nil, cancelled
	}
	return out, nil
}

func (e *Evaluator) evaluateOne(buffer []byte, entry registry.Entry) Evaluation {
	log := e.logger.WithField("candidate", entry.Name)
	if !entry.OK() {
		log.WithError(entry.Err).Warn("candidate rejected")
		if e.observer != nil {
			e.observer.ObserveRejected(entry.Name, entry.Err)
		}
		return Evaluation{Candidate: entry.Name, Err: entry.Err}
	}

	start := time.Now()
	res := Decode(buffer, entry.Descriptor, e.budget)
	elapsed := time.Since(start)

	log.WithFields(logrus.Fields{
		"layout":      entry.Descriptor.Layout(),
		"records":     res.RecordCount(),
		"termination": res.Termination.String(),
		"elapsed":     elapsed,
	}).Debug("candidate decoded")
	if e.observer != nil {
		e.observer.ObserveDecode(entry.Name, res, elapsed)
	}
	return Evaluation{Candidate: entry.Name, Result: res, Elapsed: elapsed}
}
