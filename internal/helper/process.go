package helper

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"sync"
	"syscall"

	"inputmon/internal/logging"
	"inputmon/internal/metrics"
)

// SpawnError reports a helper process that could not be started.
type SpawnError struct {
	Path string
	Err  error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("spawn helper %s: %v", e.Path, e.Err)
}

func (e *SpawnError) Unwrap() error {
	return e.Err
}

// Options configures Spawn.
type Options struct {
	Logger  *slog.Logger
	Metrics *metrics.InputMetrics

	// Env is appended to the current environment.
	Env []string
}

// Process is a running helper.
type Process struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	logger *slog.Logger

	readers sync.WaitGroup
	exited  chan struct{}

	once    sync.Once
	waitErr error
}

// Spawn starts "path x y" and delivers each valid stdout message to emit
// on a dedicated reader goroutine.
func Spawn(path string, x, y float64, emit func(Message), opts Options) (*Process, error) {
	logger := logging.OrDiscard(opts.Logger)

	cmd := exec.Command(path,
		strconv.FormatFloat(x, 'f', -1, 64),
		strconv.FormatFloat(y, 'f', -1, 64),
	)
	if len(opts.Env) > 0 {
		cmd.Env = append(os.Environ(), opts.Env...)
	}

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, &SpawnError{Path: path, Err: err}
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, &SpawnError{Path: path, Err: err}
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, &SpawnError{Path: path, Err: err}
	}
	if err := cmd.Start(); err != nil {
		return nil, &SpawnError{Path: path, Err: err}
	}
	logger.Debug("helper started", "path", path, "pid", cmd.Process.Pid)

	p := &Process{
		cmd:    cmd,
		stdin:  stdin,
		logger: logger,
		exited: make(chan struct{}),
	}

	p.readers.Add(2)
	go func() {
		defer p.readers.Done()
		if err := ReadMessages(stdout, emit, logger, opts.Metrics); err != nil {
			logger.Warn("read helper output", "error", err)
		}
	}()
	go func() {
		defer p.readers.Done()
		scanner := bufio.NewScanner(stderr)
		for scanner.Scan() {
			logger.Debug("helper stderr", "line", scanner.Text())
		}
	}()
	go func() {
		p.readers.Wait()
		close(p.exited)
	}()

	return p, nil
}

// Exited is closed once the helper has closed its output, normally
// because it exited.
func (p *Process) Exited() <-chan struct{} {
	return p.exited
}

// Pid returns the helper's process id.
func (p *Process) Pid() int {
	return p.cmd.Process.Pid
}

// Shutdown asks the helper to exit, waits for it and for the reader
// goroutines. It does not time out. Calling it again returns the first
// result.
func (p *Process) Shutdown() error {
	p.once.Do(func() {
		if _, err := io.WriteString(p.stdin, "shutdown\n"); err != nil && !isClosedPipe(err) {
			p.logger.Debug("send shutdown to helper", "error", err)
		}
		p.stdin.Close()

		<-p.exited
		err := p.cmd.Wait()
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			p.logger.Debug("helper exited", "code", exitErr.ExitCode())
			err = nil
		}
		p.waitErr = err
	})
	return p.waitErr
}

func isClosedPipe(err error) bool {
	return errors.Is(err, syscall.EPIPE) || errors.Is(err, os.ErrClosed)
}
