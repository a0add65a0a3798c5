// Package runner runs the external helper programs the translator relies on.
package runner

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"sync"
	"time"

	"gdtranslate/pkg/logger"
)

// Result describes a finished child process.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
	TimedOut bool
	// StartErr is set when the program could not be started at all.
	StartErr error
}

// OK reports whether the child ran to completion with exit status 0.
func (r Result) OK() bool {
	return r.StartErr == nil && !r.TimedOut && r.ExitCode == 0
}

// Process is a child started in the background.
type Process interface {
	Pid() int
	// Exited is closed once the child has been reaped.
	Exited() <-chan struct{}
	// ExitCode is only meaningful after Exited is closed.
	ExitCode() int
}

// Runner starts external programs.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) Result
	Start(name string, args ...string) (Process, error)
}

// OS runs real processes.
type OS struct{}

func New() OS {
	return OS{}
}

// Run executes name and captures its output. The context bounds the wait.
func (OS) Run(ctx context.Context, name string, args ...string) Result {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.WaitDelay = time.Second

	var outBuf bytes.Buffer
	var errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf

	if err := cmd.Start(); err != nil {
		logger.Debug().Err(err).Str("cmd", name).Msg("start failed")
		return Result{ExitCode: -1, StartErr: err}
	}

	waitErr := cmd.Wait()
	exitCode, timedOut := exitStatus(waitErr, ctx.Err())

	logger.Debug().
		Str("cmd", name).
		Strs("args", args).
		Int("exit_code", exitCode).
		Bool("timed_out", timedOut).
		Msg("command finished")

	return Result{
		ExitCode: exitCode,
		Stdout:   outBuf.String(),
		Stderr:   errBuf.String(),
		TimedOut: timedOut,
	}
}

// exitStatus maps the result of Wait to an exit code. A child that finished
// cleanly is never a timeout, even when the deadline passed right after.
func exitStatus(waitErr, ctxErr error) (code int, timedOut bool) {
	if waitErr == nil {
		return 0, false
	}
	if errors.Is(ctxErr, context.DeadlineExceeded) {
		return -1, true
	}
	var ee *exec.ExitError
	if errors.As(waitErr, &ee) {
		return ee.ExitCode(), false
	}
	return 1, false
}

// Start launches name detached from this process: its own session, no
// inherited stdio. The child keeps running after the parent exits.
func (OS) Start(name string, args ...string) (Process, error) {
	cmd := exec.Command(name, args...)
	// nil stdio means /dev/null for the child
	cmd.Stdin = nil
	cmd.Stdout = nil
	cmd.Stderr = nil
	detach(cmd)

	if err := cmd.Start(); err != nil {
		return nil, err
	}

	p := &osProcess{pid: cmd.Process.Pid, exited: make(chan struct{})}
	go p.reap(cmd)
	return p, nil
}

type osProcess struct {
	pid    int
	exited chan struct{}

	mu       sync.Mutex
	exitCode int
}

func (p *osProcess) reap(cmd *exec.Cmd) {
	err := cmd.Wait()
	code := 0
	if err != nil {
		var ee *exec.ExitError
		if errors.As(err, &ee) {
			code = ee.ExitCode()
		} else {
			code = -1
		}
	}
	p.mu.Lock()
	p.exitCode = code
	p.mu.Unlock()
	close(p.exited)
}

func (p *osProcess) Pid() int {
	return p.pid
}

func (p *osProcess) Exited() <-chan struct{} {
	return p.exited
}

func (p *osProcess) ExitCode() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.exitCode
}

// LookPath reports whether name resolves to an executable on PATH.
func LookPath(name string) (string, error) {
	return exec.LookPath(name)
}
