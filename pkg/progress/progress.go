package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Spinner represents a progress spinner
type Spinner struct {
	mu         sync.Mutex
	writer     io.Writer
	frames     []string
	frameIndex int
	message    string
	interval   time.Duration
	running    bool
	stopChan   chan struct{}
	wg         sync.WaitGroup
}

// NewSpinner creates a new spinner with default frames
func NewSpinner(message string) *Spinner {
	return &Spinner{
		writer:   os.Stdout,
		frames:   []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"},
		message:  message,
		interval: 80 * time.Millisecond,
	}
}

// SetWriter sets a custom writer for the spinner
func (s *Spinner) SetWriter(w io.Writer) {
	s.writer = w
}

// Start starts the spinner animation
func (s *Spinner) Start() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.stopChan = make(chan struct{})
	s.mu.Unlock()

	s.wg.Add(1)
	go s.animate()
}

// Stop stops the spinner animation and clears its line
func (s *Spinner) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.stopChan)
	s.mu.Unlock()

	s.wg.Wait()
	fmt.Fprint(s.writer, "\r\033[K")
}

func (s *Spinner) animate() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.mu.Lock()
			frame := s.frames[s.frameIndex%len(s.frames)]
			message := s.message
			s.frameIndex++
			s.mu.Unlock()

			fmt.Fprintf(s.writer, "\r%s %s", frame, message)
		}
	}
}

// Run shows a spinner on w while fn runs. With enabled false fn runs
// without any output.
func Run(w io.Writer, enabled bool, message string, fn func() error) error {
	if !enabled {
		return fn()
	}
	spinner := NewSpinner(message)
	spinner.SetWriter(w)
	spinner.Start()
	err := fn()
	spinner.Stop()
	return err
}
