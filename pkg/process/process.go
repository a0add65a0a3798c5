// Package process looks for and launches the dictionary application.
package process

import (
	"context"
	"time"

	"gdtranslate/pkg/errors"
	"gdtranslate/pkg/logger"
	"gdtranslate/pkg/runner"
)

// Presence is what the process table says about the dictionary.
type Presence int

const (
	// Unknown means the process table could not be queried.
	Unknown Presence = iota
	NotRunning
	Running
)

func (p Presence) String() string {
	switch p {
	case Running:
		return "running"
	case NotRunning:
		return "not running"
	default:
		return "unknown"
	}
}

const lookupTimeout = 5 * time.Second

type Finder struct {
	run runner.Runner
}

func NewFinder(r runner.Runner) *Finder {
	return &Finder{run: r}
}

// Find asks pgrep for a process named exactly name.
func (f *Finder) Find(ctx context.Context, name string) Presence {
	ctx, cancel := context.WithTimeout(ctx, lookupTimeout)
	defer cancel()

	res := f.run.Run(ctx, "pgrep", "-x", name)
	switch {
	case res.StartErr != nil || res.TimedOut:
		logger.Debug().Err(res.StartErr).Bool("timed_out", res.TimedOut).Msg("pgrep unavailable")
		return Unknown
	case res.OK():
		return Running
	case res.ExitCode == 1:
		return NotRunning
	default:
		logger.Debug().Int("exit_code", res.ExitCode).Str("stderr", res.Stderr).Msg("pgrep failed")
		return Unknown
	}
}

// State is how a freshly launched child looked after the settle interval.
type State int

const (
	// StillRunning is the expected case: the application took over.
	StillRunning State = iota
	// AlreadyExited is ambiguous. Single-instance applications hand the
	// query to the running instance and exit, so this is still reported as
	// success.
	AlreadyExited
)

func (s State) String() string {
	if s == AlreadyExited {
		return "already exited"
	}
	return "still running"
}

// Launch is the outcome of a successful spawn.
type Launch struct {
	State    State
	PID      int
	ExitCode int
}

type Launcher struct {
	binary string
	settle time.Duration
	run    runner.Runner
}

func NewLauncher(binary string, settle time.Duration, r runner.Runner) *Launcher {
	return &Launcher{binary: binary, settle: settle, run: r}
}

// Launch starts the dictionary with text as its only argument, waits the
// settle interval and reports whether the child is still alive. Only a
// failed spawn is an error.
func (l *Launcher) Launch(ctx context.Context, text string) (Launch, error) {
	if text == "" {
		return Launch{}, errors.EmptyTextError()
	}

	proc, err := l.run.Start(l.binary, text)
	if err != nil {
		return Launch{}, errors.LaunchError(l.binary, err)
	}

	logger.Info().Str("binary", l.binary).Int("pid", proc.Pid()).Msg("dictionary started")

	timer := time.NewTimer(l.settle)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-ctx.Done():
	}

	select {
	case <-proc.Exited():
		return Launch{State: AlreadyExited, PID: proc.Pid(), ExitCode: proc.ExitCode()}, nil
	default:
		return Launch{State: StillRunning, PID: proc.Pid()}, nil
	}
}
