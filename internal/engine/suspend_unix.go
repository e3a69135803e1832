//go:build !windows

package engine

import (
	"os"
	"os/exec"
	"syscall"
)

// SupportsSuspend reports whether Suspend and Continue work on this platform
const SupportsSuspend = true

func suspendProcess(p *os.Process) error {
	return p.Signal(syscall.SIGSTOP)
}

func continueProcess(p *os.Process) error {
	return p.Signal(syscall.SIGCONT)
}

// terminateProcess sends SIGTERM and wakes a stopped process so it can handle it
func terminateProcess(p *os.Process) error {
	err := p.Signal(syscall.SIGTERM)
	_ = p.Signal(syscall.SIGCONT)
	return err
}

// detachProcessGroup puts the engine in its own process group so a terminal
// Ctrl+C reaches only this program, which stops the engine through Terminate
func detachProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}
