package app

import (
	"context"
	"errors"
	"fmt"
	"github.com/rs/zerolog/log"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"
)

//go:generate mockgen -destination=./app_mock.go -package=app -source=app.go

var ErrAlreadyRun = errors.New("run has already been called")

// Dependency is a long running part of the application, such as the compaction job or the
// metrics server.
type Dependency interface {
	// Start runs the dependency. It may block until Stop is called.
	Start() error
	// Stop releases the dependency.
	Stop() error
	// Name is used for logging only.
	Name() string
}

type App struct {
	serviceName string
	deps        []Dependency
	// stopTimeout bounds the time all dependencies get to stop.
	stopTimeout time.Duration
	runCalled   atomic.Bool
}

type Config struct {
	ServiceName string
	StopTimeout time.Duration
}

func (c *Config) validate() error {
	var errs []error
	if c.ServiceName == "" {
		errs = append(errs, errors.New("service name is required"))
	}
	if c.StopTimeout <= 0 {
		errs = append(errs, errors.New("stop timeout is required"))
	}
	return errors.Join(errs...)
}

// New creates a new application with the provided dependencies.
func New(cfg *Config, deps ...Dependency) (*App, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &App{
		serviceName: cfg.ServiceName,
		deps:        deps,
		stopTimeout: cfg.StopTimeout,
	}, nil
}

// Run starts every dependency and blocks until ctx is done, the process receives SIGINT or
// SIGTERM, or a dependency fails. All dependencies are then stopped in reverse order.
func (a *App) Run(ctx context.Context) error {
	if !a.runCalled.CompareAndSwap(false, true) {
		return ErrAlreadyRun
	}

	ctx, stopSignals := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	// one slot per dependency, so a failing Start never blocks
	depFail := make(chan error, len(a.deps))

	log.Info().Msgf("starting %s", a.serviceName)
	for _, dep := range a.deps {
		go func(dep Dependency) {
			defer func() {
				if r := recover(); r != nil {
					depFail <- fmt.Errorf("panic in Start() for dependency %s: %v", dep.Name(), r)
				}
			}()

			log.Info().Msg("Starting dependency: " + dep.Name())
			if err := dep.Start(); err != nil {
				depFail <- fmt.Errorf("failure in Start() for dependency %s: %w", dep.Name(), err)
			}
		}(dep)
	}

	var runErr error
	select {
	case <-ctx.Done():
		log.Info().Msg("App context done: shutting down")
	case runErr = <-depFail:
		log.Error().Err(runErr).Msg("Dependency failed")
	}

	if err := a.stop(); err != nil {
		log.Error().Err(err).Msg("Error stopping application")
		return errors.Join(runErr, err)
	}
	return runErr
}

// stop stops the dependencies in reverse start order.
func (a *App) stop() error {
	done := make(chan error, 1)
	go func() {
		var errs []error
		for i := len(a.deps) - 1; i >= 0; i-- {
			dep := a.deps[i]
			log.Info().Msg("Stopping dependency: " + dep.Name())
			if err := dep.Stop(); err != nil {
				errs = append(errs, fmt.Errorf("failure in Stop() for dependency %s: %w", dep.Name(), err))
			}
		}
		done <- errors.Join(errs...)
	}()

	select {
	case err := <-done:
		return err
	case <-time.After(a.stopTimeout):
		return fmt.Errorf("dependencies did not stop within %s: %w", a.stopTimeout,
			context.DeadlineExceeded)
	}
}
