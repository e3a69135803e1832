//go:build !windows

package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"
	"testing"
	"time"
)

// TestHelperProcess acts as a fake aria2c when re-executed by helperRunner
func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}
	args := os.Args
	for len(args) > 0 && args[0] != "--" {
		args = args[1:]
	}

	switch os.Getenv("HELPER_MODE") {
	case "ok":
		fmt.Print("[#aa 1MiB/4MiB(25%) CN:16 DL:1MiB ETA:3s]\r")
		fmt.Print("[#aa 4MiB/4MiB(100%) CN:16 DL:2MiB]\n")
		fmt.Printf("args:%s\n", strings.Join(args[1:], " "))
		os.Exit(0)
	case "fail":
		fmt.Println("10/14 12:00:00 [ERROR] CUID#7 - Download aborted. URI=x")
		fmt.Fprintln(os.Stderr, "errorCode=3 Resource not found")
		os.Exit(3)
	case "hang":
		fmt.Println("[#bb 0B/1MiB(0%) CN:1 DL:0B]")
		time.Sleep(30 * time.Second)
		os.Exit(0)
	}
	os.Exit(2)
}

func helperRunner(mode string) *ExecRunner {
	r := NewExecRunner(os.Args[0])
	r.Grace = 500 * time.Millisecond
	r.prefixArgs = []string{"-test.run=TestHelperProcess", "--"}
	r.env = []string{"GO_WANT_HELPER_PROCESS=1", "HELPER_MODE=" + mode}
	return r
}

func collect(p Process) []string {
	var lines []string
	for line := range p.Lines() {
		lines = append(lines, line)
	}
	return lines
}

func TestExecRunner_Success(t *testing.T) {
	p, err := helperRunner("ok").Start(context.Background(), Request{File: "a.bin", URL: "http://x/a.bin", Dir: "/tmp", Out: "a.bin"})
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	lines := collect(p)
	if err := p.Wait(); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}

	var readouts int
	var argsLine string
	for _, l := range lines {
		if _, ok := ParseProgress(l); ok {
			readouts++
		}
		if strings.HasPrefix(l, "args:") {
			argsLine = l
		}
	}
	if readouts != 2 {
		t.Errorf("got %d readout lines, expected 2: %q", readouts, lines)
	}
	if !strings.Contains(argsLine, "--out a.bin") || !strings.HasSuffix(argsLine, "http://x/a.bin") {
		t.Errorf("engine received %q", argsLine)
	}
}

func TestExecRunner_ExitCode(t *testing.T) {
	p, err := helperRunner("fail").Start(context.Background(), Request{File: "b.bin"})
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	collect(p)

	var exitErr *EngineExitError
	if err := p.Wait(); !errors.As(err, &exitErr) {
		t.Fatalf("Wait() error = %v, expected *EngineExitError", err)
	}
	if exitErr.Code != 3 || exitErr.Path != "b.bin" {
		t.Errorf("EngineExitError = %+v", exitErr)
	}
	if !strings.Contains(exitErr.Stderr, "Resource not found") || !strings.Contains(exitErr.Stderr, "[ERROR]") {
		t.Errorf("Stderr tail = %q", exitErr.Stderr)
	}
}

func TestExecRunner_SuspendContinueTerminate(t *testing.T) {
	p, err := helperRunner("hang").Start(context.Background(), Request{File: "c.bin"})
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	select {
	case <-p.Lines():
	case <-time.After(10 * time.Second):
		t.Fatal("no output from helper")
	}

	if err := p.Suspend(); err != nil {
		t.Errorf("Suspend() error = %v", err)
	}
	if err := p.Continue(); err != nil {
		t.Errorf("Continue() error = %v", err)
	}
	if err := p.Suspend(); err != nil {
		t.Errorf("second Suspend() error = %v", err)
	}

	// terminating a suspended process must still end it
	if err := p.Terminate(); err != nil {
		t.Errorf("Terminate() error = %v", err)
	}

	done := make(chan error, 1)
	go func() {
		collect(p)
		done <- p.Wait()
	}()
	select {
	case err := <-done:
		if !errors.Is(err, ErrTerminated) {
			t.Errorf("Wait() error = %v, expected ErrTerminated", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("process did not exit after Terminate")
	}

	if err := p.Terminate(); err != nil {
		t.Errorf("Terminate() after exit error = %v", err)
	}
}

func TestExecRunner_ContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p, err := helperRunner("hang").Start(ctx, Request{File: "d.bin"})
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	cancel()
	collect(p)
	if err := p.Wait(); !errors.Is(err, ErrTerminated) {
		t.Errorf("Wait() error = %v, expected ErrTerminated", err)
	}
}

func TestExecRunner_OwnProcessGroup(t *testing.T) {
	p, err := helperRunner("hang").Start(context.Background(), Request{File: "e.bin"})
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer func() {
		_ = p.Terminate()
		collect(p)
		_ = p.Wait()
	}()

	pid := p.(*execProcess).cmd.Process.Pid
	pgid, err := syscall.Getpgid(pid)
	if err != nil {
		t.Fatalf("Getpgid() error = %v", err)
	}
	// a terminal interrupt goes to our group and must not reach the engine
	if pgid != pid || pgid == syscall.Getpgrp() {
		t.Errorf("engine pgid = %d (pid %d, ours %d), expected its own group", pgid, pid, syscall.Getpgrp())
	}
}

func TestExecRunner_StartFailure(t *testing.T) {
	r := NewExecRunner("/nonexistent/aria2c")
	if _, err := r.Start(context.Background(), Request{}); err == nil {
		t.Error("Start() with missing binary expected error")
	}
}
