//go:build windows

package engine

import (
	"os"
	"os/exec"
)

// SupportsSuspend reports whether Suspend and Continue work on this platform
const SupportsSuspend = false

func suspendProcess(*os.Process) error {
	return ErrSuspendUnsupported
}

func continueProcess(*os.Process) error {
	return ErrSuspendUnsupported
}

func terminateProcess(p *os.Process) error {
	return p.Kill()
}

func detachProcessGroup(*exec.Cmd) {}
