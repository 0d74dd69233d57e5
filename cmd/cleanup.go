package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/sirupsen/logrus"
)

// errInterrupted is returned by commands cut short by SIGINT or SIGTERM.
// Execute maps it to exit code 130 (128 + SIGINT).
var errInterrupted = errors.New("interrupted")

// shutdowner stops whatever a command left running.
type shutdowner interface {
	Shutdown(ctx context.Context) error
}

// cleanupHandler cancels a running command on interrupt and stops its runtime.
// finish blocks until that cleanup has completed so the process never exits
// while the runtime is still being stopped.
type cleanupHandler struct {
	log         logrus.FieldLogger
	target      shutdowner
	cancel      context.CancelFunc
	signals     chan os.Signal
	done        chan struct{}
	interrupted atomic.Bool
}

func newCleanupHandler(log logrus.FieldLogger, target shutdowner, cancel context.CancelFunc) *cleanupHandler {
	return &cleanupHandler{
		log:     log,
		target:  target,
		cancel:  cancel,
		signals: make(chan os.Signal, 1),
		done:    make(chan struct{}),
	}
}

// start subscribes to interrupt signals and begins listening.
func (h *cleanupHandler) start() {
	signal.Notify(h.signals, os.Interrupt, syscall.SIGTERM)
	h.listen()
}

func (h *cleanupHandler) listen() {
	go func() {
		defer close(h.done)

		if _, ok := <-h.signals; !ok {
			return
		}

		h.interrupted.Store(true)
		h.log.Warn("received interrupt signal, cleaning up...")

		h.cancel()

		// The run context is already canceled.
		if err := h.target.Shutdown(context.Background()); err != nil {
			h.log.WithError(err).Error("failed to stop runtime")
		}
	}()
}

// finish stops listening and waits for an in-flight cleanup. It returns
// errInterrupted when a signal was handled.
func (h *cleanupHandler) finish() error {
	signal.Stop(h.signals)
	close(h.signals)

	<-h.done

	if h.interrupted.Load() {
		return errInterrupted
	}

	return nil
}
