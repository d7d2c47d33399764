// Package di provides dependency injection container
package di

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/ssargent/recprobe/pkg/api"     //nolint:depguard
	"github.com/ssargent/recprobe/pkg/archive" //nolint:depguard
	"github.com/ssargent/recprobe/pkg/config"
	"github.com/ssargent/recprobe/pkg/engine"
	"github.com/ssargent/recprobe/pkg/export"
	"github.com/ssargent/recprobe/pkg/probe"
	"github.com/ssargent/recprobe/pkg/summary"
)

// Container holds all the dependencies for the application
type Container struct {
	config        *config.Config
	logger        logrus.FieldLogger
	serverFactory api.ServerFactory

	archive *archive.Archive
	metrics *api.Metrics
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *config.Config, logger logrus.FieldLogger) *Container {
	return &Container{
		config:        cfg,
		logger:        logger,
		serverFactory: api.NewServerFactory(),
	}
}

// Config returns the configuration the container was built from
func (c *Container) Config() *config.Config { return c.config }

// Logger returns the shared logger
func (c *Container) Logger() logrus.FieldLogger { return c.logger }

// Catalog resolves candidate sets. A configured candidates file becomes the
// default set.
func (c *Container) Catalog() *probe.Catalog {
	catalog := probe.NewCatalog(c.config.Decode.CandidateSet, c.logger)
	if c.config.Decode.CandidatesFile != "" {
		catalog.SetDefault(catalog.AddTable(c.config.Decode.CandidatesFile))
	}
	return catalog
}

// Archive opens the run archive on first use. It returns nil when the
// archive is disabled.
func (c *Container) Archive() (*archive.Archive, error) {
	if !c.config.Archive.Enabled {
		return nil, nil
	}
	if c.archive == nil {
		a, err := archive.Open(c.config.Archive.Dir)
		if err != nil {
			return nil, err
		}
		c.archive = a
	}
	return c.archive, nil
}

// Metrics returns the shared metrics instance
func (c *Container) Metrics() *api.Metrics {
	if c.metrics == nil {
		c.metrics = api.NewMetrics()
	}
	return c.metrics
}

// SummaryOptions converts the summary configuration
func (c *Container) SummaryOptions() summary.Options {
	return summary.Options{
		HistogramBins:  c.config.Summary.HistogramBins,
		TimestampField: c.config.Summary.TimestampField,
		DeltaSample:    c.config.Summary.DeltaSample,
	}
}

// Runner builds a runner. withExport enables file export when the
// configuration allows it; the HTTP server never exports. observer may be nil.
func (c *Container) Runner(withExport bool, observer engine.Observer) (*probe.Runner, error) {
	opts := probe.Options{
		Budget:   c.config.Decode.Budget,
		Workers:  c.config.Decode.Workers,
		Summary:  c.SummaryOptions(),
		Observer: observer,
		Logger:   c.logger,
	}

	if withExport && c.config.Export.Enabled {
		opts.Exporter = &export.Exporter{
			Dir:     c.config.Export.OutputDir,
			MaxRows: c.config.Export.CSVRows,
		}
	}

	arch, err := c.Archive()
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	if arch != nil {
		opts.Archive = arch
	}
	return probe.NewRunner(c.Catalog(), opts), nil
}

// GetServerFactory returns the server factory
func (c *Container) GetServerFactory() api.ServerFactory {
	return c.serverFactory
}

// SetServerFactory allows overriding the server factory (for testing)
func (c *Container) SetServerFactory(factory api.ServerFactory) {
	c.serverFactory = factory
}

// Close releases the archive if it was opened
func (c *Container) Close() error {
	if c.archive == nil {
		return nil
	}
	err := c.archive.Close()
	c.archive = nil
	return err
}
