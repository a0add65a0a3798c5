// Package session classifies the desktop session the command runs in.
package session

import (
	"github.com/caarlos0/env/v6"
)

// Protocol is the display protocol of the current desktop session.
type Protocol string

const (
	Wayland Protocol = "wayland"
	X11     Protocol = "x11"
	Unknown Protocol = "unknown"
)

func (p Protocol) String() string {
	return string(p)
}

// Env is the snapshot of the environment variables used for detection.
// Only WaylandDisplay and Display take part in Detect; the XDG fields are
// logged to help diagnose odd sessions.
type Env struct {
	WaylandDisplay string `env:"WAYLAND_DISPLAY"`
	Display        string `env:"DISPLAY"`
	SessionType    string `env:"XDG_SESSION_TYPE"`
	CurrentDesktop string `env:"XDG_CURRENT_DESKTOP"`
}

// LoadEnv snapshots the process environment.
func LoadEnv() (Env, error) {
	var e Env
	err := env.Parse(&e)
	return e, err
}

// EnvFrom builds a snapshot from an explicit set of variables.
func EnvFrom(vars map[string]string) Env {
	var e Env
	// Every field is a plain string, parsing cannot fail.
	_ = env.Parse(&e, env.Options{Environment: vars})
	return e
}

// Detect returns Wayland when WAYLAND_DISPLAY is set, otherwise X11 when
// DISPLAY is set, otherwise Unknown.
func Detect(e Env) Protocol {
	switch {
	case e.WaylandDisplay != "":
		return Wayland
	case e.Display != "":
		return X11
	default:
		return Unknown
	}
}
