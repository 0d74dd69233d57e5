// Package infra controls the local runtime the benchmarks are measured
// against.
package infra

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"

	"github.com/sirupsen/logrus"
)

// ErrPortInUse is returned when a runtime port is already bound.
var ErrPortInUse = errors.New("port already in use")

// CommandRunner executes a shell command in a working directory.
type CommandRunner interface {
	Run(ctx context.Context, command, dir string) error
}

// RuntimeConfig contains configuration for a RuntimeManager.
type RuntimeConfig struct {
	Logger       logrus.FieldLogger
	Runner       CommandRunner
	StartCommand string
	StopCommand  string
	Ports        []int
	// Host is the interface ports are probed on; defaults to 127.0.0.1.
	Host string
}

// RuntimeManager starts and stops the runtime service pair.
type RuntimeManager struct {
	runner       CommandRunner
	startCommand string
	stopCommand  string
	ports        []int
	host         string
	log          logrus.FieldLogger
}

// NewRuntimeManager creates a new runtime manager.
func NewRuntimeManager(cfg *RuntimeConfig) *RuntimeManager {
	host := cfg.Host
	if host == "" {
		host = "127.0.0.1"
	}

	return &RuntimeManager{
		runner:       cfg.Runner,
		startCommand: cfg.StartCommand,
		stopCommand:  cfg.StopCommand,
		ports:        cfg.Ports,
		host:         host,
		log:          cfg.Logger.WithField("component", "runtime_manager"),
	}
}

// CheckPorts verifies that every runtime port is free to bind.
func (m *RuntimeManager) CheckPorts() error {
	for _, port := range m.ports {
		addr := net.JoinHostPort(m.host, strconv.Itoa(port))

		listener, err := net.Listen("tcp", addr)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrPortInUse, addr, err)
		}

		if err := listener.Close(); err != nil {
			m.log.WithError(err).WithField("addr", addr).Debug("failed to close probe listener")
		}
	}

	m.log.WithField("ports", m.ports).Debug("runtime ports available")

	return nil
}

// Start starts the runtime from dir.
func (m *RuntimeManager) Start(ctx context.Context, dir string) error {
	m.log.WithField("dir", dir).Info("starting runtime")

	if err := m.runner.Run(ctx, m.startCommand, dir); err != nil {
		return fmt.Errorf("starting runtime: %w", err)
	}

	m.log.Info("runtime started")

	return nil
}

// Stop stops the runtime started from dir.
func (m *RuntimeManager) Stop(ctx context.Context, dir string) error {
	m.log.WithField("dir", dir).Info("stopping runtime")

	if err := m.runner.Run(ctx, m.stopCommand, dir); err != nil {
		return fmt.Errorf("stopping runtime: %w", err)
	}

	m.log.Info("runtime stopped")

	return nil
}
