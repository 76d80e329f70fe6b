// Package shutdown coordinates teardown of long-lived resources when the
// process is interrupted.
package shutdown

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/lushplayer/catalogue/internal/logger"
)

// hook is a named teardown step
type hook struct {
	name string
	stop func(context.Context) error
}

// Coordinator runs registered teardown steps on shutdown.
// Steps run in reverse registration order, so dependents stop before the
// resources they depend on.
type Coordinator struct {
	mu      sync.Mutex
	hooks   []hook
	timeout time.Duration
	done    chan struct{}
	once    sync.Once
	sigs    chan os.Signal
}

// New creates a coordinator with a shared teardown timeout
func New(timeout time.Duration) *Coordinator {
	return &Coordinator{
		timeout: timeout,
		done:    make(chan struct{}),
		sigs:    make(chan os.Signal, 1),
	}
}

// Register adds a teardown step
func (c *Coordinator) Register(name string, stop func(context.Context) error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hooks = append(c.hooks, hook{name: name, stop: stop})
}

// Wait blocks until SIGINT or SIGTERM, then runs teardown
func (c *Coordinator) Wait() error {
	signal.Notify(c.sigs, syscall.SIGINT, syscall.SIGTERM)
	<-c.sigs
	return c.Run()
}

// Run executes all registered steps once, newest first, under the shared
// timeout. Every step runs even if an earlier one fails; the first error is
// returned.
func (c *Coordinator) Run() error {
	var firstErr error

	c.once.Do(func() {
		close(c.done)

		ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
		defer cancel()

		log := logger.AppLogger()

		c.mu.Lock()
		hooks := make([]hook, len(c.hooks))
		copy(hooks, c.hooks)
		c.mu.Unlock()

		for i := len(hooks) - 1; i >= 0; i-- {
			h := hooks[i]
			log.WithFields(map[string]interface{}{"step": h.name}).Debug("shutting down")

			if err := h.stop(ctx); err != nil {
				log.WithFields(map[string]interface{}{"step": h.name}).Error("shutdown step failed", err)
				if firstErr == nil {
					firstErr = err
				}
			}
		}
	})

	return firstErr
}

// Done is closed when shutdown has started
func (c *Coordinator) Done() <-chan struct{} {
	return c.done
}

// Trigger starts shutdown without an OS signal
func (c *Coordinator) Trigger() {
	select {
	case c.sigs <- syscall.SIGTERM:
	default:
	}
}
