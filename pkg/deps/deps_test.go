package deps

import (
	"fmt"
	"testing"

	"gdtranslate/pkg/errors"
	"gdtranslate/pkg/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeLookPath(installed ...string) LookPathFunc {
	set := make(map[string]bool, len(installed))
	for _, name := range installed {
		set[name] = true
	}
	return func(name string) (string, error) {
		if set[name] {
			return "/usr/bin/" + name, nil
		}
		return "", fmt.Errorf("exec: %q: executable file not found in $PATH", name)
	}
}

func TestChecker_Check(t *testing.T) {
	tests := []struct {
		name        string
		protocol    session.Protocol
		installed   []string
		wantKind    errors.Kind
		wantMessage string
		wantHint    string
	}{
		{
			name:      "x11 with everything installed",
			protocol:  session.X11,
			installed: []string{"goldendict", "xclip"},
		},
		{
			name:      "wayland with everything installed",
			protocol:  session.Wayland,
			installed: []string{"goldendict", "wl-paste"},
		},
		{
			name:        "missing dictionary",
			protocol:    session.X11,
			installed:   []string{"xclip"},
			wantKind:    errors.KindDependency,
			wantMessage: "goldendict not found in PATH",
			wantHint:    "sudo pacman -S goldendict",
		},
		{
			name:        "missing dictionary in unknown session",
			protocol:    session.Unknown,
			installed:   nil,
			wantKind:    errors.KindDependency,
			wantMessage: "goldendict not found in PATH",
			wantHint:    "sudo pacman -S goldendict",
		},
		{
			name:        "missing xclip",
			protocol:    session.X11,
			installed:   []string{"goldendict", "wl-paste"},
			wantKind:    errors.KindDependency,
			wantMessage: "xclip not found in PATH",
			wantHint:    "sudo pacman -S xclip",
		},
		{
			name:        "missing wl-paste",
			protocol:    session.Wayland,
			installed:   []string{"goldendict", "xclip"},
			wantKind:    errors.KindDependency,
			wantMessage: "wl-paste not found in PATH",
			wantHint:    "sudo pacman -S wl-clipboard",
		},
		{
			name:      "unknown session",
			protocol:  session.Unknown,
			installed: []string{"goldendict", "xclip", "wl-paste"},
			wantKind:  errors.KindEnvironment,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewChecker("goldendict", fakeLookPath(tt.installed...))
			err := c.Check(tt.protocol)

			if tt.wantKind == "" {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			e, ok := errors.As(err)
			require.True(t, ok)
			assert.Equal(t, tt.wantKind, e.Kind)
			assert.Equal(t, errors.ExitCodeGeneral, e.Code)
			if tt.wantMessage != "" {
				assert.Equal(t, tt.wantMessage, e.Message)
			}
			if tt.wantHint != "" {
				assert.Contains(t, e.Suggestion, tt.wantHint)
			}
		})
	}
}

func TestChecker_CustomDictionary(t *testing.T) {
	c := NewChecker("goldendict-ng", fakeLookPath("goldendict", "xclip"))

	err := c.Check(session.X11)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "goldendict-ng")
}

func TestChecker_Report(t *testing.T) {
	c := NewChecker("goldendict", fakeLookPath("goldendict"))

	got := c.Report(session.Wayland)

	require.Len(t, got, 2)
	assert.Equal(t, "goldendict", got[0].Binary)
	assert.True(t, got[0].Found)
	assert.Equal(t, "/usr/bin/goldendict", got[0].Path)
	assert.Equal(t, WaylandPaste, got[1].Requirement)
	assert.False(t, got[1].Found)
}

func TestChecker_Required(t *testing.T) {
	c := NewChecker("goldendict", fakeLookPath())

	assert.Equal(t, []Requirement{{"goldendict", "goldendict"}, X11Clip}, c.Required(session.X11))
	assert.Equal(t, []Requirement{{"goldendict", "goldendict"}, WaylandPaste}, c.Required(session.Wayland))
	assert.Equal(t, []Requirement{{"goldendict", "goldendict"}}, c.Required(session.Unknown))
}
