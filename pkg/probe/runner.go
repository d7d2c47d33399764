// Package probe runs a complete evaluation: resolve a candidate set, decode a
// buffer against every candidate, summarise, then optionally export the
// results and archive the report.
package probe

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ssargent/recprobe/pkg/engine"
	"github.com/ssargent/recprobe/pkg/export"
	"github.com/ssargent/recprobe/pkg/report"
	"github.com/ssargent/recprobe/pkg/summary"
)

// Archiver stores run reports
type Archiver interface {
	Save(r report.Report) (string, error)
}

// Request describes one run
type Request struct {
	Source report.Source
	Buffer []byte
	Set    string
	// Candidates restricts the run to the named candidates when not empty
	Candidates []string
	// Budget overrides the runner's budget when positive
	Budget int
}

// Run is the outcome of a run
type Run struct {
	Report      report.Report
	Evaluations []engine.Evaluation
	Files       []string
}

// Options configures a Runner
type Options struct {
	Budget   int
	Workers  int
	Summary  summary.Options
	Exporter *export.Exporter
	Archive  Archiver
	Observer engine.Observer
	Logger   logrus.FieldLogger
}

// Runner executes runs against a catalog
type Runner struct {
	catalog *Catalog
	opts    Options
}

// NewRunner creates a runner
func NewRunner(catalog *Catalog, opts Options) *Runner {
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	return &Runner{catalog: catalog, opts: opts}
}

// Catalog returns the runner's catalog
func (r *Runner) Catalog() *Catalog { return r.catalog }

// Run evaluates req and returns its report. Export and archive failures are
// returned as errors together with the completed run.
func (r *Runner) Run(ctx context.Context, req Request) (*Run, error) {
	set := req.Set
	if set == "" {
		set = r.catalog.DefaultSet()
	}
	reg, err := r.catalog.Registry(set)
	if err != nil {
		return nil, err
	}
	if len(req.Candidates) > 0 {
		if reg, err = reg.Select(req.Candidates...); err != nil {
			return nil, err
		}
	}

	budget := r.opts.Budget
	if req.Budget > 0 {
		budget = req.Budget
	}

	log := r.opts.Logger.WithFields(logrus.Fields{
		"source": req.Source.Name,
		"set":    set,
		"bytes":  len(req.Buffer),
	})
	log.WithField("candidates", len(reg.Entries())).Info("evaluating candidates")

	start := time.Now()
	ev := engine.NewEvaluator(budget,
		engine.WithWorkers(r.opts.Workers),
		engine.WithObserver(r.opts.Observer),
		engine.WithLogger(r.opts.Logger),
	)
	evals, err := ev.Evaluate(ctx, req.Buffer, reg)
	if err != nil {
		return nil, err
	}

	req.Source.Length = len(req.Buffer)
	run := &Run{
		Report:      report.Build(req.Source, set, budget, evals, r.opts.Summary),
		Evaluations: evals,
	}
	decoded, rejected := run.Report.Count()
	log.WithFields(logrus.Fields{
		"decoded":  decoded,
		"rejected": rejected,
		"elapsed":  time.Since(start),
	}).Info("evaluation complete")

	if r.opts.Exporter != nil {
		files, err := r.opts.Exporter.WriteRun(&run.Report, evals)
		run.Files = files
		if err != nil {
			return run, fmt.Errorf("export failed: %w", err)
		}
		log.WithField("dir", r.opts.Exporter.Dir).Infof("wrote %d files", len(files))
	}

	if r.opts.Archive != nil {
		id, err := r.opts.Archive.Save(run.Report)
		if err != nil {
			return run, fmt.Errorf("archive failed: %w", err)
		}
		run.Report.ID = id
		log.WithField("id", id).Info("run archived")
	}
	return run, nil
}
