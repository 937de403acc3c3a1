package observability

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
)

// ShutdownFunc releases one resource during shutdown.
type ShutdownFunc func(context.Context) error

// ShutdownManager drains the HTTP servers and releases resources when the
// process receives SIGINT or SIGTERM.
type ShutdownManager struct {
	log     *logrus.Logger
	servers []*http.Server
	hooks   []ShutdownFunc
	timeout time.Duration
	mu      sync.Mutex
}

// NewShutdownManager creates a shutdown manager draining the given servers.
func NewShutdownManager(log *logrus.Logger, timeout time.Duration, servers ...*http.Server) *ShutdownManager {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &ShutdownManager{log: log, servers: servers, timeout: timeout}
}

// OnShutdown registers a hook to run after the servers have drained.
func (sm *ShutdownManager) OnShutdown(fn ShutdownFunc) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.hooks = append(sm.hooks, fn)
}

// Wait blocks until a termination signal arrives, then drains the servers
// and runs all hooks within the configured timeout.
func (sm *ShutdownManager) Wait() error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	sm.log.WithField("signal", sig.String()).Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), sm.timeout)
	defer cancel()

	var failed int
	for _, server := range sm.servers {
		if err := server.Shutdown(ctx); err != nil {
			sm.log.WithError(err).Error("server shutdown failed")
			failed++
		}
	}

	sm.mu.Lock()
	hooks := sm.hooks
	sm.mu.Unlock()

	for _, hook := range hooks {
		if err := hook(ctx); err != nil {
			sm.log.WithError(err).Error("shutdown hook failed")
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("shutdown completed with %d errors", failed)
	}
	sm.log.Info("shutdown complete")
	return nil
}
