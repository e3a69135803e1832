package engine

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/ytget/hf-downloader/internal/logging"
)

// aria2c constants
const (
	BinaryName          = "aria2c"
	DefaultConnections  = 16
	MaxConnections      = 16
	ConcurrentDownloads = 5
	SummaryInterval     = 1
	ConsoleLogLevel     = "warn"
	DefaultGrace        = 3 * time.Second
)

// Request describes one file transfer handed to the engine
type Request struct {
	File        string // repository path, used for logs and errors
	URL         string
	Dir         string // directory aria2c writes into
	Out         string // output file name inside Dir
	Connections int    // per-file connections, 0 means DefaultConnections
	RateLimit   string // --max-download-limit value, empty for unlimited
	Token       string // bearer token for gated repositories
}

// Runner starts engine processes
type Runner interface {
	Start(ctx context.Context, req Request) (Process, error)
}

// Locate finds the aria2c binary: an explicit path first, then PATH, then next to the executable
func Locate(explicit string) (string, error) {
	if explicit != "" {
		if info, err := os.Stat(explicit); err == nil && !info.IsDir() {
			return explicit, nil
		}
		return "", fmt.Errorf("%w: %s", ErrEngineNotFound, explicit)
	}

	if path, err := exec.LookPath(BinaryName); err == nil {
		return path, nil
	}

	if execPath, err := os.Executable(); err == nil {
		bundled := filepath.Join(filepath.Dir(execPath), BinaryName)
		if runtime.GOOS == "windows" {
			bundled += ".exe"
		}
		if _, err := os.Stat(bundled); err == nil {
			return bundled, nil
		}
	}

	return "", ErrEngineNotFound
}

// ClampConnections keeps a connection count inside 1..MaxConnections, 0 selects the default
func ClampConnections(n int) int {
	if n <= 0 {
		return DefaultConnections
	}
	if n > MaxConnections {
		return MaxConnections
	}
	return n
}

// BuildArgs builds the aria2c command line for a single file
func BuildArgs(req Request) []string {
	conns := strconv.Itoa(ClampConnections(req.Connections))
	args := []string{
		"-x", conns, // max connections per server
		"-s", conns, // split
		"-j", strconv.Itoa(ConcurrentDownloads),
		"--continue=true",
		"--dir", req.Dir,
		"--out", req.Out,
	}
	if req.RateLimit != "" {
		args = append(args, "--max-download-limit", req.RateLimit)
	}
	if req.Token != "" {
		args = append(args, "--header", "Authorization: Bearer "+req.Token)
	}
	args = append(args,
		"--summary-interval="+strconv.Itoa(SummaryInterval),
		"--console-log-level="+ConsoleLogLevel,
		req.URL,
	)
	return args
}

// ExecRunner launches aria2c as a child process
type ExecRunner struct {
	Path  string        // aria2c binary
	Grace time.Duration // time between SIGTERM and SIGKILL

	prefixArgs []string // test hook: arguments placed before the aria2c ones
	env        []string
	log        zerolog.Logger
}

// NewExecRunner creates a runner for the binary at path
func NewExecRunner(path string) *ExecRunner {
	return &ExecRunner{
		Path:  path,
		Grace: DefaultGrace,
		log:   logging.Component("engine"),
	}
}

// Start launches aria2c for req. The process is killed when ctx is done.
func (r *ExecRunner) Start(ctx context.Context, req Request) (Process, error) {
	args := append(append([]string{}, r.prefixArgs...), BuildArgs(req)...)

	r.log.Debug().Str("op", "engine/start").Str("file", req.File).Str("dir", req.Dir).Msg("Launching aria2c")
	proc, err := startProcess(ctx, r.Path, args, r.env, graceOrDefault(r.Grace), req.File)
	if err != nil {
		return nil, err
	}
	return proc, nil
}

func graceOrDefault(d time.Duration) time.Duration {
	if d <= 0 {
		return DefaultGrace
	}
	return d
}
