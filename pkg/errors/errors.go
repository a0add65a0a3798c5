package errors

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gdtranslate/pkg/logger"

	"github.com/fatih/color"
)

type ExitCode int

const (
	ExitCodeSuccess ExitCode = 0
	ExitCodeGeneral ExitCode = 1
	ExitCodeConfig  ExitCode = 2
)

// Kind classifies a failure of a translation run.
type Kind string

const (
	KindGeneral     Kind = "general"
	KindEnvironment Kind = "environment"
	KindDependency  Kind = "dependency"
	KindSelection   Kind = "selection"
	KindLaunch      Kind = "launch"
	KindConfig      Kind = "config"
)

// Standardized error messages for consistent user-facing errors
const (
	ErrMsgNoEnvironment    = "Could not detect a usable desktop environment"
	ErrMsgNoSelection      = "Could not read the selected text"
	ErrMsgEmptyText        = "Text to translate is empty"
	ErrMsgLaunchFailed     = "Failed to start the dictionary application"
	ErrMsgConfigUnreadable = "Failed to load configuration"
)

type Error struct {
	Code       ExitCode
	Kind       Kind
	Message    string
	Underlying error
	Suggestion string
}

func (e *Error) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Underlying)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Underlying
}

func NewWithError(code ExitCode, message string, err error) *Error {
	return &Error{
		Code:       code,
		Kind:       KindGeneral,
		Message:    message,
		Underlying: err,
	}
}

// As returns the *Error in err's chain, if any.
func As(err error) (*Error, bool) {
	var e *Error
	if stderrors.As(err, &e) {
		return e, true
	}
	return nil, false
}

func IsKind(err error, kind Kind) bool {
	e, ok := As(err)
	return ok && e.Kind == kind
}

func IsExitCode(err error, code ExitCode) bool {
	if err == nil {
		return false
	}

	if e, ok := As(err); ok {
		return e.Code == code
	}

	return false
}

// HandleReturn processes an error and returns the appropriate exit code.
// It does not call os.Exit; the caller is responsible for exiting.
func HandleReturn(err error) ExitCode {
	return HandleTo(os.Stderr, err)
}

// HandleTo is HandleReturn with an explicit destination for the report.
// The coloured report is the user-facing output; the log only gets a
// debug entry.
func HandleTo(w io.Writer, err error) ExitCode {
	if err == nil {
		return ExitCodeSuccess
	}

	var exitCode ExitCode = ExitCodeGeneral
	var message string
	var suggestion string

	if e, ok := As(err); ok {
		exitCode = e.Code
		message = e.Message
		suggestion = e.Suggestion

		if e.Underlying != nil {
			message = e.Error()
			logger.Debug().Err(e.Underlying).Str("kind", string(e.Kind)).Msg(e.Message)
		} else {
			logger.Debug().Str("kind", string(e.Kind)).Msg(e.Message)
		}
	} else {
		message = err.Error()
		logger.Debug().Msg(message)
	}

	red := color.New(color.FgRed, color.Bold)
	yellow := color.New(color.FgYellow)
	cyan := color.New(color.FgCyan)

	fmt.Fprintln(w)
	red.Fprint(w, "Error: ")
	fmt.Fprintln(w, message)

	if suggestion != "" {
		yellow.Fprint(w, "Suggestion: ")
		lines := strings.Split(suggestion, "\n")
		for i, line := range lines {
			if i == 0 {
				fmt.Fprintln(w, line)
			} else {
				if strings.HasPrefix(line, "  ") {
					cyan.Fprintln(w, line)
				} else {
					fmt.Fprintln(w, "            "+line)
				}
			}
		}
	}

	return exitCode
}

// EnvironmentError reports that neither a Wayland nor an X11 session was found.
func EnvironmentError() *Error {
	return &Error{
		Code:       ExitCodeGeneral,
		Kind:       KindEnvironment,
		Message:    ErrMsgNoEnvironment,
		Suggestion: "Run gdtranslate from inside a Wayland or X11 session (WAYLAND_DISPLAY or DISPLAY must be set).",
	}
}

// DependencyError reports a binary missing from PATH together with the
// package that provides it.
func DependencyError(binary, pkg string) *Error {
	return &Error{
		Code:       ExitCodeGeneral,
		Kind:       KindDependency,
		Message:    fmt.Sprintf("%s not found in PATH", binary),
		Suggestion: fmt.Sprintf("Install it on Arch Linux: sudo pacman -S %s", pkg),
	}
}

const selectionSuggestion = `Please select the text to translate first. Make sure that:
  1. this command runs inside a desktop session
  2. the text is selected with the mouse`

// SelectionError reports that no usable text could be read.
func SelectionError(reason string) *Error {
	return &Error{
		Code:       ExitCodeGeneral,
		Kind:       KindSelection,
		Message:    fmt.Sprintf("%s (%s)", ErrMsgNoSelection, reason),
		Suggestion: selectionSuggestion,
	}
}

func EmptyTextError() *Error {
	return &Error{
		Code:    ExitCodeGeneral,
		Kind:    KindSelection,
		Message: ErrMsgEmptyText,
	}
}

// LaunchError wraps a failure to spawn the dictionary application.
func LaunchError(binary string, err error) *Error {
	return &Error{
		Code:       ExitCodeGeneral,
		Kind:       KindLaunch,
		Message:    fmt.Sprintf("%s (%s)", ErrMsgLaunchFailed, binary),
		Underlying: err,
	}
}

func ConfigError(message string, err error) *Error {
	return &Error{
		Code:       ExitCodeConfig,
		Kind:       KindConfig,
		Message:    message,
		Underlying: err,
		Suggestion: "Check your configuration file (~/.config/gdtranslate/config.yaml) or the GDTRANSLATE_* environment variables.",
	}
}
