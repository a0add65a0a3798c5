package progress

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestRun_Disabled(t *testing.T) {
	var buf syncBuffer
	called := false

	err := Run(&buf, false, "waiting", func() error {
		called = true
		return nil
	})

	if err != nil {
		t.Fatalf("Run() returned error: %v", err)
	}
	if !called {
		t.Error("Run() did not call fn")
	}
	if buf.String() != "" {
		t.Errorf("Run() wrote %q with spinner disabled", buf.String())
	}
}

func TestRun_EnabledAnimatesAndClears(t *testing.T) {
	var buf syncBuffer
	want := errors.New("boom")

	err := Run(&buf, true, "waiting for dictionary", func() error {
		time.Sleep(250 * time.Millisecond)
		return want
	})

	if err != want {
		t.Fatalf("Run() error = %v, want %v", err, want)
	}
	out := buf.String()
	if !strings.Contains(out, "waiting for dictionary") {
		t.Errorf("spinner output missing message: %q", out)
	}
	if !strings.HasSuffix(out, "\r\033[K") {
		t.Errorf("spinner did not clear its line: %q", out)
	}
}

func TestSpinner_StopIsIdempotent(t *testing.T) {
	s := NewSpinner("x")
	s.SetWriter(&syncBuffer{})
	s.Stop()
	s.Start()
	s.Start()
	s.Stop()
	s.Stop()
}
