// Package runnertest provides a scripted runner.Runner for tests.
package runnertest

import (
	"context"
	"strings"
	"sync"

	"gdtranslate/pkg/runner"
)

// Call records one invocation.
type Call struct {
	Name string
	Args []string
}

func (c Call) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// Fake answers Run with canned results keyed by program name and hands out
// Process values from Start.
type Fake struct {
	mu sync.Mutex

	Results map[string]runner.Result

	// Block makes Run wait for the context for the named programs.
	Block map[string]bool

	StartErr error

	// Exited controls whether started processes report as already exited.
	Exited   bool
	ExitCode int

	Runs   []Call
	Starts []Call
}

func New() *Fake {
	return &Fake{
		Results: map[string]runner.Result{},
		Block:   map[string]bool{},
	}
}

func (f *Fake) Run(ctx context.Context, name string, args ...string) runner.Result {
	f.mu.Lock()
	f.Runs = append(f.Runs, Call{Name: name, Args: args})
	res, ok := f.Results[name]
	block := f.Block[name]
	f.mu.Unlock()

	if block {
		<-ctx.Done()
		return runner.Result{ExitCode: -1, TimedOut: true}
	}
	if !ok {
		return runner.Result{ExitCode: 127}
	}
	return res
}

func (f *Fake) Start(name string, args ...string) (runner.Process, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Starts = append(f.Starts, Call{Name: name, Args: args})
	if f.StartErr != nil {
		return nil, f.StartErr
	}

	p := &Process{pid: 4242 + len(f.Starts), code: f.ExitCode, exited: make(chan struct{})}
	if f.Exited {
		close(p.exited)
	}
	return p, nil
}

// RunCalls returns the recorded Run invocations.
func (f *Fake) RunCalls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.Runs...)
}

// StartCalls returns the recorded Start invocations.
func (f *Fake) StartCalls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.Starts...)
}

type Process struct {
	pid    int
	code   int
	exited chan struct{}
}

func (p *Process) Pid() int                { return p.pid }
func (p *Process) Exited() <-chan struct{} { return p.exited }
func (p *Process) ExitCode() int           { return p.code }
