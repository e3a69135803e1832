package engine

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

const (
	linesBuffer = 256
	tailLines   = 8
)

// Process is a running engine invocation
type Process interface {
	// Lines streams console output split on CR and LF; it is closed when output ends
	Lines() <-chan string
	// Wait blocks until the process exits
	Wait() error
	// Suspend pauses the process in place
	Suspend() error
	// Continue resumes a suspended process
	Continue() error
	// Terminate asks the process to quit and kills it after the grace period
	Terminate() error
}

type execProcess struct {
	cmd    *exec.Cmd
	file   string
	ctx    context.Context
	cancel context.CancelFunc
	lines  chan string
	tail   *lineTail
	done   chan struct{}
	err    error

	terminated atomic.Bool
}

func startProcess(ctx context.Context, path string, args, env []string, grace time.Duration, file string) (*execProcess, error) {
	procCtx, cancel := context.WithCancel(ctx)

	cmd := exec.CommandContext(procCtx, path, args...)
	if len(env) > 0 {
		cmd.Env = append(cmd.Environ(), env...)
	}
	cmd.Cancel = func() error {
		return terminateProcess(cmd.Process)
	}
	detachProcessGroup(cmd)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to create stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to create stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		cancel()
		return nil, fmt.Errorf("failed to start %s: %w", path, err)
	}

	p := &execProcess{
		cmd:    cmd,
		file:   file,
		ctx:    procCtx,
		cancel: cancel,
		lines:  make(chan string, linesBuffer),
		tail:   &lineTail{max: tailLines},
		done:   make(chan struct{}),
	}

	var readers sync.WaitGroup
	readers.Add(2)
	go func() {
		defer readers.Done()
		p.readOutput(stdout)
	}()
	go func() {
		defer readers.Done()
		p.readStderr(stderr)
	}()

	// kill the process if it ignores the termination signal
	go func() {
		<-procCtx.Done()
		select {
		case <-p.done:
		case <-time.After(grace):
			_ = cmd.Process.Kill()
		}
	}()

	go func() {
		readers.Wait()
		close(p.lines)
		p.err = p.exitError(cmd.Wait())
		cancel()
		close(p.done)
	}()

	return p, nil
}

func (p *execProcess) Lines() <-chan string {
	return p.lines
}

func (p *execProcess) Wait() error {
	<-p.done
	return p.err
}

func (p *execProcess) Suspend() error {
	return suspendProcess(p.cmd.Process)
}

func (p *execProcess) Continue() error {
	return continueProcess(p.cmd.Process)
}

func (p *execProcess) Terminate() error {
	select {
	case <-p.done:
		return nil
	default:
	}
	p.terminated.Store(true)
	p.cancel()
	return nil
}

// readOutput forwards readout lines; diagnostic lines also go to the tail
func (p *execProcess) readOutput(r io.Reader) {
	scanner := bufio.NewScanner(r)
	scanner.Split(ScanCRLF)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if IsDiagnostic(line) {
			p.tail.Add(line)
		}
		select {
		case p.lines <- line:
		default:
			// consumer is behind, readout lines are superseded every second anyway
		}
	}
}

func (p *execProcess) readStderr(r io.Reader) {
	scanner := bufio.NewScanner(r)
	scanner.Split(ScanCRLF)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			p.tail.Add(line)
		}
	}
}

func (p *execProcess) exitError(err error) error {
	if p.terminated.Load() || p.ctx.Err() != nil {
		return ErrTerminated
	}
	if err == nil {
		return nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if code := exitErr.ExitCode(); code >= 0 {
			return &EngineExitError{Path: p.file, Code: code, Stderr: p.tail.String()}
		}
	}
	return &EngineExitError{Path: p.file, Code: -1, Stderr: strings.TrimSpace(p.tail.String() + " " + err.Error())}
}

// IsDiagnostic reports whether an output line is an error or warning rather than a readout
func IsDiagnostic(line string) bool {
	return strings.Contains(line, "[ERROR]") ||
		strings.Contains(line, "[WARN]") ||
		strings.Contains(line, "errorCode=") ||
		strings.HasPrefix(line, "Exception")
}

// ScanCRLF is a bufio.SplitFunc that splits on both '\r' and '\n',
// since aria2c redraws its readout with carriage returns.
func ScanCRLF(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

// lineTail keeps the last few lines written to it
type lineTail struct {
	mu    sync.Mutex
	lines []string
	max   int
}

func (t *lineTail) Add(line string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lines = append(t.lines, line)
	if len(t.lines) > t.max {
		t.lines = t.lines[len(t.lines)-t.max:]
	}
}

func (t *lineTail) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return strings.Join(t.lines, "; ")
}
