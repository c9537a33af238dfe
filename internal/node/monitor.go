package node

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/goodnatureofminers/blockinsight7000-graph/internal/clock"
	"go.uber.org/zap"
)

// BinaryName is the node executable expected in the node directory.
const BinaryName = "bitcoind"

const (
	defaultRestartDelay = 10 * time.Second
	maxRestartDelayMult = 30
	stableUptime        = 10 * time.Minute
	shutdownTimeout     = time.Minute
	maxLineSize         = 1 << 20
)

// Monitor keeps the node process running and publishes events parsed from its output.
type Monitor struct {
	command func(ctx context.Context) *exec.Cmd
	backoff backoff.BackOff
	sleep   func(context.Context, time.Duration) error
	metrics MonitorMetrics
	logger  *zap.Logger
}

// NewMonitor builds a Monitor for <nodeDir>/bitcoind writing into dataDir.
func NewMonitor(nodeDir, dataDir string, restartDelay time.Duration, metrics MonitorMetrics, logger *zap.Logger) (*Monitor, error) {
	if metrics == nil {
		return nil, errors.New("monitor metrics is required")
	}
	binary := filepath.Join(nodeDir, BinaryName)
	if _, err := os.Stat(binary); err != nil {
		return nil, fmt.Errorf("node binary: %w", err)
	}
	if restartDelay <= 0 {
		restartDelay = defaultRestartDelay
	}
	args := []string{"-datadir=" + dataDir, "-printtoconsole"}
	return &Monitor{
		command: func(ctx context.Context) *exec.Cmd {
			cmd := exec.CommandContext(ctx, binary, args...)
			cmd.Cancel = func() error {
				return cmd.Process.Signal(os.Interrupt)
			}
			cmd.WaitDelay = shutdownTimeout
			return cmd
		},
		backoff: newRestartBackoff(restartDelay),
		sleep:   clock.SleepWithContext,
		metrics: metrics,
		logger:  logger.Named("node"),
	}, nil
}

// newRestartBackoff doubles the restart delay from initial up to
// maxRestartDelayMult times initial and never gives up.
func newRestartBackoff(initial time.Duration) *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = initial
	b.MaxInterval = maxRestartDelayMult * initial
	b.Multiplier = 2
	b.RandomizationFactor = 0
	b.MaxElapsedTime = 0
	b.Reset()
	return b
}

// Run starts the node and restarts it whenever it exits, until ctx is done.
// The restart delay doubles while the node keeps exiting quickly.
// events is never closed by Run.
func (m *Monitor) Run(ctx context.Context, events chan<- Event) error {
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		started := time.Now()
		err := m.run(ctx, events)
		uptime := time.Since(started)
		m.metrics.ObserveExit(err, uptime)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if uptime >= stableUptime {
			m.backoff.Reset()
		}
		delay := m.backoff.NextBackOff()
		m.logger.Warn("node exited, restarting", zap.Error(err), zap.Duration("uptime", uptime), zap.Duration("delay", delay))
		if err := m.sleep(ctx, delay); err != nil {
			return err
		}
	}
}

func (m *Monitor) run(ctx context.Context, events chan<- Event) error {
	cmd := m.command(ctx)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}
	cmd.Stderr = cmd.Stdout
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start node: %w", err)
	}
	m.logger.Info("node started", zap.String("path", cmd.Path), zap.Strings("args", cmd.Args[1:]))

	readErr := m.consume(ctx, stdout, events)
	switch {
	case readErr != nil && ctx.Err() != nil:
		// the context interrupts the node; keep its pipe drained until it exits
		_, _ = io.Copy(io.Discard, stdout)
	case readErr != nil:
		_ = cmd.Process.Kill()
	}
	waitErr := cmd.Wait()
	if readErr != nil {
		return readErr
	}
	if waitErr != nil {
		return fmt.Errorf("node: %w", waitErr)
	}
	return nil
}

// consume forwards the events found in r until r ends or ctx is done.
func (m *Monitor) consume(ctx context.Context, r io.Reader, events chan<- Event) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		event, ok := ParseLine(scanner.Text())
		if !ok {
			m.metrics.ObserveIgnoredLine()
			continue
		}
		m.metrics.ObserveEvent(event.Kind())
		select {
		case events <- event:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read node output: %w", err)
	}
	return nil
}
