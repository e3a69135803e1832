package download

import (
	"errors"
	"fmt"
)

var (
	// ErrNothingSelected is returned when a download is started with no listed or selected files
	ErrNothingSelected = errors.New("no files selected")

	// ErrInvalidRateLimit is returned for rate limits aria2c would not accept
	ErrInvalidRateLimit = errors.New("invalid rate limit: use digits with an optional K or M suffix, e.g. 500K or 2M")
)

// LaunchError reports that the engine could not be found or started
type LaunchError struct {
	Path string // file being launched, empty when the binary lookup failed
	Err  error
}

func (e *LaunchError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("failed to launch download engine: %v", e.Err)
	}
	return fmt.Sprintf("failed to launch download engine for %s: %v", e.Path, e.Err)
}

func (e *LaunchError) Unwrap() error {
	return e.Err
}

// FilesystemError reports a failure preparing the destination folder
type FilesystemError struct {
	Op   string
	Path string
	Err  error
}

func (e *FilesystemError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FilesystemError) Unwrap() error {
	return e.Err
}
