// Package server runs a process's long-lived services and stops them in
// reverse order on a signal, a cancelled context, or the first service failure.
package server

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// DefaultStopTimeout bounds how long one service may take to stop.
const DefaultStopTimeout = 10 * time.Second

// Service is a long-running component. Start blocks until the service stops
// or fails; Stop asks it to stop.
type Service interface {
	Start() error
	Stop()
}

// FuncService adapts a start/stop function pair into the Service interface.
type FuncService struct {
	StartFn func() error
	StopFn  func()
}

// Start calls the underlying start function.
func (f *FuncService) Start() error { return f.StartFn() }

// Stop calls the underlying stop function.
func (f *FuncService) Stop() { f.StopFn() }

// Periodic runs fn every interval until stopped.
type Periodic struct {
	Interval time.Duration
	Fn       func(ctx context.Context)

	once sync.Once
	ctx  context.Context
	stop context.CancelFunc
}

func (p *Periodic) init() {
	p.once.Do(func() { p.ctx, p.stop = context.WithCancel(context.Background()) })
}

// Start implements Service.
//
// Precondition: Interval > 0.
func (p *Periodic) Start() error {
	p.init()
	t := time.NewTicker(p.Interval)
	defer t.Stop()
	for {
		select {
		case <-p.ctx.Done():
			return nil
		case <-t.C:
			p.Fn(p.ctx)
		}
	}
}

// Stop implements Service.
func (p *Periodic) Stop() {
	p.init()
	p.stop()
}

// Lifecycle starts registered services together and stops them in reverse
// registration order.
type Lifecycle struct {
	logger      *zap.Logger
	stopTimeout time.Duration

	mu       sync.Mutex
	services []namedService
}

type namedService struct {
	name    string
	service Service
}

// NewLifecycle creates a new Lifecycle manager.
//
// Precondition: logger must be non-nil.
func NewLifecycle(logger *zap.Logger) *Lifecycle {
	return &Lifecycle{logger: logger, stopTimeout: DefaultStopTimeout}
}

// SetStopTimeout overrides DefaultStopTimeout.
func (l *Lifecycle) SetStopTimeout(d time.Duration) { l.stopTimeout = d }

// Add registers a named service.
//
// Precondition: name must be non-empty; svc must be non-nil.
func (l *Lifecycle) Add(name string, svc Service) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.services = append(l.services, namedService{name: name, service: svc})
}

// Run starts every service and blocks until SIGINT or SIGTERM arrives, ctx is
// cancelled, or a service fails.
//
// Postcondition: every service has been asked to stop. Returns the first
// service failure, or nil for a signal or cancellation.
func (l *Lifecycle) Run(ctx context.Context) error {
	start := time.Now()
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	l.mu.Lock()
	services := append([]namedService(nil), l.services...)
	l.mu.Unlock()

	errCh := make(chan error, len(services))
	for _, ns := range services {
		go func() {
			l.logger.Info("starting service", zap.String("service", ns.name))
			if err := ns.service.Start(); err != nil {
				errCh <- fmt.Errorf("service %s: %w", ns.name, err)
			}
		}()
	}
	l.logger.Info("all services started",
		zap.Int("count", len(services)),
		zap.Duration("startup", time.Since(start)),
	)

	var runErr error
	select {
	case runErr = <-errCh:
		l.logger.Error("service failed, shutting down", zap.Error(runErr))
	case <-ctx.Done():
		l.logger.Info("shutting down", zap.Error(context.Cause(ctx)))
	}

	l.shutdown(services)
	l.logger.Info("shutdown complete", zap.Duration("total_uptime", time.Since(start)))
	return runErr
}

// shutdown stops services in reverse order, abandoning any that exceeds the
// stop timeout.
func (l *Lifecycle) shutdown(services []namedService) {
	for i := len(services) - 1; i >= 0; i-- {
		ns := services[i]
		begin := time.Now()
		done := make(chan struct{})
		go func() {
			ns.service.Stop()
			close(done)
		}()
		select {
		case <-done:
			l.logger.Info("service stopped",
				zap.String("service", ns.name),
				zap.Duration("elapsed", time.Since(begin)),
			)
		case <-time.After(l.stopTimeout):
			l.logger.Warn("service stop timed out",
				zap.String("service", ns.name),
				zap.Error(errors.New("stop timeout exceeded")),
			)
		}
	}
}
