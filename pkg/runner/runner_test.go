package runner

import (
	"context"
	"errors"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireShell(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func TestRun(t *testing.T) {
	requireShell(t)

	tests := []struct {
		name     string
		script   string
		timeout  time.Duration
		wantOK   bool
		wantCode int
		wantOut  string
		timedOut bool
	}{
		{
			name:    "captures stdout",
			script:  "printf 'hello world'",
			timeout: 5 * time.Second,
			wantOK:  true,
			wantOut: "hello world",
		},
		{
			name:     "non-zero exit",
			script:   "echo partial; exit 3",
			timeout:  5 * time.Second,
			wantCode: 3,
			wantOut:  "partial\n",
		},
		{
			name:     "timeout",
			script:   "sleep 5",
			timeout:  100 * time.Millisecond,
			wantCode: -1,
			timedOut: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), tt.timeout)
			defer cancel()

			res := New().Run(ctx, "sh", "-c", tt.script)

			assert.Equal(t, tt.wantOK, res.OK())
			assert.Equal(t, tt.wantCode, res.ExitCode)
			assert.Equal(t, tt.wantOut, res.Stdout)
			assert.Equal(t, tt.timedOut, res.TimedOut)
			assert.NoError(t, res.StartErr)
		})
	}
}

func TestRun_MissingBinary(t *testing.T) {
	res := New().Run(context.Background(), "gdtranslate-definitely-missing-binary")

	assert.Error(t, res.StartErr)
	assert.False(t, res.OK())
	assert.Equal(t, -1, res.ExitCode)
}

func TestStart(t *testing.T) {
	requireShell(t)

	t.Run("short lived child is reaped", func(t *testing.T) {
		p, err := New().Start("sh", "-c", "exit 4")
		require.NoError(t, err)
		assert.Positive(t, p.Pid())

		select {
		case <-p.Exited():
		case <-time.After(5 * time.Second):
			t.Fatal("child was not reaped")
		}
		assert.Equal(t, 4, p.ExitCode())
	})

	t.Run("long lived child keeps running", func(t *testing.T) {
		p, err := New().Start("sh", "-c", "sleep 2")
		require.NoError(t, err)

		select {
		case <-p.Exited():
			t.Fatal("child exited too early")
		case <-time.After(100 * time.Millisecond):
		}
	})

	t.Run("missing binary", func(t *testing.T) {
		_, err := New().Start("gdtranslate-definitely-missing-binary", "text")
		assert.Error(t, err)
	})
}

func TestExitStatus(t *testing.T) {
	requireShell(t)
	exitErr := exec.Command("sh", "-c", "exit 3").Run()
	require.Error(t, exitErr)

	tests := []struct {
		name         string
		waitErr      error
		ctxErr       error
		wantCode     int
		wantTimedOut bool
	}{
		{name: "clean exit", wantCode: 0},
		{name: "clean exit racing the deadline", ctxErr: context.DeadlineExceeded, wantCode: 0},
		{name: "killed by the deadline", waitErr: exitErr, ctxErr: context.DeadlineExceeded, wantCode: -1, wantTimedOut: true},
		{name: "exit status", waitErr: exitErr, wantCode: 3},
		{name: "cancelled context is not a timeout", waitErr: exitErr, ctxErr: context.Canceled, wantCode: 3},
		{name: "other wait error", waitErr: errors.New("i/o error"), wantCode: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, timedOut := exitStatus(tt.waitErr, tt.ctxErr)
			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantTimedOut, timedOut)
		})
	}
}
