// Package translator sends the current desktop selection to the dictionary
// application. Run walks the fixed sequence
//
//	detect session -> check dependencies -> look up dictionary -> read selection -> launch dictionary
//
// and stops at the first failure; nothing is retried.
package translator

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"gdtranslate/pkg/config"
	"gdtranslate/pkg/deps"
	"gdtranslate/pkg/errors"
	"gdtranslate/pkg/logger"
	"gdtranslate/pkg/process"
	"gdtranslate/pkg/progress"
	"gdtranslate/pkg/runner"
	"gdtranslate/pkg/selection"
	"gdtranslate/pkg/session"

	"github.com/fatih/color"
)

// Options wires a Translator to its environment. Zero fields fall back to
// the real system.
type Options struct {
	Env      session.Env
	Config   *config.Config
	Runner   runner.Runner
	LookPath deps.LookPathFunc
	ReadAll  selection.ReadAllFunc
	Stdout   io.Writer

	// Interactive enables the spinner while waiting for the dictionary.
	Interactive bool
}

type Translator struct {
	protocol session.Protocol
	cfg      *config.Config
	out      io.Writer
	interact bool

	checker  *deps.Checker
	finder   *process.Finder
	reader   *selection.Reader
	launcher *process.Launcher
}

func New(opts Options) *Translator {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	run := opts.Runner
	if run == nil {
		run = runner.New()
	}
	lookPath := opts.LookPath
	if lookPath == nil {
		lookPath = runner.LookPath
	}
	out := opts.Stdout
	if out == nil {
		out = os.Stdout
	}

	protocol := session.Detect(opts.Env)

	return &Translator{
		protocol: protocol,
		cfg:      cfg,
		out:      out,
		interact: opts.Interactive,
		checker:  deps.NewChecker(cfg.Dictionary, lookPath),
		finder:   process.NewFinder(run),
		reader: selection.NewReader(protocol, run, selection.Options{
			Timeout:      cfg.ReadTimeout,
			MaxLength:    cfg.MaxLength,
			UseClipboard: cfg.Source == config.SourceClipboard,
			ReadAll:      opts.ReadAll,
		}),
		launcher: process.NewLauncher(cfg.Dictionary, cfg.LaunchSettle, run),
	}
}

// Protocol is the display protocol detected at construction.
func (t *Translator) Protocol() session.Protocol {
	return t.protocol
}

// Run performs one translation. Every failure is returned as *errors.Error.
func (t *Translator) Run(ctx context.Context) error {
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)
	cyan := color.New(color.FgCyan)
	bold := color.New(color.Bold)

	bold.Fprintln(t.out, "=== gdtranslate ===")
	fmt.Fprintf(t.out, "Detected desktop environment: %s\n", t.protocol)
	fmt.Fprintln(t.out)

	logger.Info().Str("protocol", t.protocol.String()).Str("dictionary", t.cfg.Dictionary).Msg("run started")

	if err := t.checker.Check(t.protocol); err != nil {
		return err
	}

	dict := t.cfg.Dictionary
	if t.finder.Find(ctx, dict) == process.Running {
		green.Fprintf(t.out, "✓ %s is already running\n", dict)
	} else {
		cyan.Fprintf(t.out, "ℹ %s is not running, a new instance will be started\n", dict)
	}
	fmt.Fprintln(t.out)

	fmt.Fprintln(t.out, "Reading selected text...")
	sel := t.reader.Read(ctx)
	if !sel.Available() {
		return errors.SelectionError(describe(sel))
	}

	fmt.Fprintf(t.out, "Selected text: %q\n", sel.Text)
	fmt.Fprintln(t.out, strings.Repeat("-", 40))
	fmt.Fprintf(t.out, "Translating: %q\n", sel.Text)

	var launch process.Launch
	err := progress.Run(t.out, t.interact, "Waiting for "+dict+"...", func() error {
		var err error
		launch, err = t.launcher.Launch(ctx, sel.Text)
		return err
	})
	if err != nil {
		return err
	}

	switch launch.State {
	case process.StillRunning:
		green.Fprintf(t.out, "✓ %s started (PID: %d)\n", dict, launch.PID)
	case process.AlreadyExited:
		logger.Info().Int("pid", launch.PID).Int("exit_code", launch.ExitCode).Msg("dictionary exited during settle interval")
		yellow.Fprintf(t.out, "⚠ %s may have exited, but the translation window may already be open\n", dict)
	}

	fmt.Fprintln(t.out)
	green.Fprintf(t.out, "✓ Translation request sent to %s\n", dict)
	fmt.Fprintln(t.out)
	fmt.Fprintln(t.out, "Tip: bind this command to a hotkey for quick translation")
	return nil
}

// Check reports the detected session, every required binary and whether
// the dictionary runs, without reading the selection. It returns the same
// error Run would return at the dependency step.
func (t *Translator) Check(ctx context.Context) error {
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)

	fmt.Fprintf(t.out, "Desktop environment: %s\n", t.protocol)
	for _, st := range t.checker.Report(t.protocol) {
		if st.Found {
			green.Fprintf(t.out, "  ✓ %-12s %s\n", st.Binary, st.Path)
		} else {
			red.Fprintf(t.out, "  ✗ %-12s missing (package %s)\n", st.Binary, st.Package)
		}
	}
	fmt.Fprintf(t.out, "%s: %s\n", t.cfg.Dictionary, t.finder.Find(ctx, t.cfg.Dictionary))

	return t.checker.Check(t.protocol)
}

func describe(r selection.Result) string {
	if r.Detail == "" {
		return string(r.Reason)
	}
	return string(r.Reason) + ": " + r.Detail
}
