package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrEngineNotFound is returned by Locate when no aria2c binary can be found
	ErrEngineNotFound = errors.New("aria2c not found: install aria2 or set its path in settings")

	// ErrSuspendUnsupported is returned by Suspend and Continue where process suspension is unavailable
	ErrSuspendUnsupported = errors.New("process suspension is not supported on this platform")

	// ErrTerminated is returned by Wait after Terminate or context cancellation
	ErrTerminated = errors.New("engine process terminated")
)

// exitDescriptions covers the aria2c exit codes users actually run into
var exitDescriptions = map[int]string{
	1:  "unknown error",
	2:  "timeout",
	3:  "resource not found",
	6:  "network problem",
	7:  "unfinished downloads",
	9:  "not enough disk space",
	13: "file already exists",
	15: "could not open existing file",
	16: "could not create or truncate file",
	17: "file I/O error",
	18: "could not create directory",
	19: "name resolution failed",
	22: "bad HTTP response header",
	24: "HTTP authorization failed",
	28: "invalid option",
}

// EngineExitError reports a non-zero aria2c exit
type EngineExitError struct {
	Path   string // repository path of the file being downloaded
	Code   int
	Stderr string // last diagnostic lines printed by the engine
}

func (e *EngineExitError) Error() string {
	msg := fmt.Sprintf("aria2c exited with code %d", e.Code)
	if desc := e.Description(); desc != "" {
		msg += " (" + desc + ")"
	}
	if e.Path != "" {
		msg += " while downloading " + e.Path
	}
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

// Description returns a short explanation of the exit code, empty if unknown
func (e *EngineExitError) Description() string {
	return exitDescriptions[e.Code]
}
