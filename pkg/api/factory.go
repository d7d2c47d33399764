// Package api provides factory implementations for dependency injection
package api

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/ssargent/recprobe/pkg/probe"
)

// DefaultServerFactory is the default implementation of ServerFactory
type DefaultServerFactory struct{}

// NewServerFactory creates a new server factory
func NewServerFactory() ServerFactory {
	return &DefaultServerFactory{}
}

// CreateServerStarter creates a server starter
func (f *DefaultServerFactory) CreateServerStarter() ServerStarter {
	return &DefaultServerStarter{}
}

// DefaultServerStarter is the default implementation of ServerStarter
type DefaultServerStarter struct{}

// StartServer builds a Server and serves it until ctx is cancelled
func (s *DefaultServerStarter) StartServer(
	ctx context.Context,
	runner *probe.Runner,
	runs RunStore,
	config ServerConfig,
	metrics *Metrics,
	logger logrus.FieldLogger,
) error {
	return NewServer(runner, runs, config, metrics, logger).ListenAndServe(ctx)
}
