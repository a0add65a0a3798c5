// Package selection reads the text the user has selected on the desktop.
package selection

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"gdtranslate/pkg/logger"
	"gdtranslate/pkg/runner"
	"gdtranslate/pkg/session"

	atotto "github.com/atotto/clipboard"
)

// Reason explains why no text is available.
type Reason string

const (
	ReasonNone        Reason = ""
	ReasonTimeout     Reason = "timeout"
	ReasonExitStatus  Reason = "exit status"
	ReasonStartFailed Reason = "start failed"
	ReasonEmpty       Reason = "empty"
	ReasonUnsupported Reason = "unsupported session"
)

// Result is the outcome of a read: either usable Text or a Reason it is
// missing. A failed read is a Result, never an error.
type Result struct {
	Text   string
	Reason Reason
	Detail string
}

// Available reports whether the result holds usable text.
func (r Result) Available() bool {
	return r.Reason == ReasonNone && r.Text != ""
}

func unavailable(reason Reason, detail string) Result {
	return Result{Reason: reason, Detail: detail}
}

// Command returns the program and arguments that print the primary
// selection for the given protocol.
func Command(p session.Protocol) (string, []string, bool) {
	switch p {
	case session.X11:
		return "xclip", []string{"-selection", "primary", "-o"}, true
	case session.Wayland:
		return "wl-paste", []string{"-p"}, true
	default:
		return "", nil, false
	}
}

// ReadAllFunc reads the regular clipboard.
type ReadAllFunc func() (string, error)

type Options struct {
	Timeout   time.Duration
	MaxLength int

	// UseClipboard reads the CLIPBOARD selection instead of PRIMARY.
	UseClipboard bool
	ReadAll      ReadAllFunc
}

type Reader struct {
	protocol session.Protocol
	run      runner.Runner
	opts     Options
}

func NewReader(p session.Protocol, r runner.Runner, opts Options) *Reader {
	if opts.ReadAll == nil {
		opts.ReadAll = atotto.ReadAll
	}
	return &Reader{protocol: p, run: r, opts: opts}
}

// Read fetches the selection, trims it and cuts it to MaxLength characters.
func (r *Reader) Read(ctx context.Context) Result {
	if r.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.opts.Timeout)
		defer cancel()
	}

	var res Result
	if r.opts.UseClipboard {
		res = r.readClipboard(ctx)
	} else {
		res = r.readPrimary(ctx)
	}

	if res.Reason != ReasonNone {
		logger.Debug().
			Str("protocol", r.protocol.String()).
			Str("reason", string(res.Reason)).
			Str("detail", res.Detail).
			Msg("no selection")
	}
	return res
}

func (r *Reader) readPrimary(ctx context.Context) Result {
	name, args, ok := Command(r.protocol)
	if !ok {
		return unavailable(ReasonUnsupported, r.protocol.String())
	}

	out := r.run.Run(ctx, name, args...)
	switch {
	case out.StartErr != nil:
		return unavailable(ReasonStartFailed, out.StartErr.Error())
	case out.TimedOut:
		return unavailable(ReasonTimeout, fmt.Sprintf("%s did not answer within %s", name, r.opts.Timeout))
	case out.ExitCode != 0:
		return unavailable(ReasonExitStatus, fmt.Sprintf("%s exited with status %d", name, out.ExitCode))
	}

	return Normalize(out.Stdout, r.opts.MaxLength)
}

func (r *Reader) readClipboard(ctx context.Context) Result {
	type reply struct {
		text string
		err  error
	}
	ch := make(chan reply, 1)
	go func() {
		text, err := r.opts.ReadAll()
		ch <- reply{text, err}
	}()

	select {
	case <-ctx.Done():
		return unavailable(ReasonTimeout, "clipboard did not answer in time")
	case rep := <-ch:
		if rep.err != nil {
			return unavailable(ReasonExitStatus, rep.err.Error())
		}
		return Normalize(rep.text, r.opts.MaxLength)
	}
}

// Normalize trims surrounding whitespace and truncates to maxLen characters.
// A non-positive maxLen disables truncation.
func Normalize(raw string, maxLen int) Result {
	text := strings.TrimSpace(raw)
	if text == "" {
		return unavailable(ReasonEmpty, "selection is empty")
	}
	return Result{Text: Truncate(text, maxLen)}
}

// Truncate keeps the first n characters (runes) of s.
func Truncate(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
