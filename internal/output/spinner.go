package output

import (
	"fmt"
	"os"
	"sync"
	"time"
)

// Spinner animates a message on the log writer while a provider API call is
// in flight.
type Spinner struct {
	message string
	done    chan struct{}
	exited  chan struct{}
	once    sync.Once
	active  bool
	mu      sync.Mutex
}

// NewSpinner creates a new spinner with the given message.
func NewSpinner(message string) *Spinner {
	return &Spinner{
		message: message,
		done:    make(chan struct{}),
		exited:  make(chan struct{}),
	}
}

// Start begins the spinner animation in a goroutine.
// It is safe to call Start multiple times; only the first call starts the spinner.
func (s *Spinner) Start() {
	s.mu.Lock()
	select {
	case <-s.done:
		s.mu.Unlock()
		return
	default:
	}
	if s.active {
		s.mu.Unlock()
		return
	}
	s.active = true
	s.mu.Unlock()

	// Only animate on a real file; captured output would just collect frames.
	if _, ok := Writer().(*os.File); JSONMode || !ok {
		close(s.exited)
		return
	}

	go s.run()
}

func (s *Spinner) run() {
	defer close(s.exited)
	frames := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	if NoColor() {
		frames = []string{"|", "/", "-", "\\"}
	}

	w := Writer()
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	i := 0
	for {
		select {
		case <-s.done:
			fmt.Fprint(w, "\r\033[K")
			return
		case <-ticker.C:
			fmt.Fprintf(w, "\r%s %s", frames[i%len(frames)], s.message)
			i++
		}
	}
}

// Stop stops the spinner. It is safe to call Stop multiple times.
func (s *Spinner) Stop() {
	s.once.Do(func() {
		s.mu.Lock()
		started := s.active
		s.active = false
		s.mu.Unlock()
		close(s.done)
		if started {
			<-s.exited
		}
	})
}

// StopWithSuccess stops the spinner and prints a success message.
func (s *Spinner) StopWithSuccess(msg string) {
	s.Stop()
	Success(msg)
}

// StopWithError stops the spinner and prints an error message.
func (s *Spinner) StopWithError(msg string) {
	s.Stop()
	Fail(msg)
}

// StopWithWarning stops the spinner and prints a warning message.
func (s *Spinner) StopWithWarning(msg string) {
	s.Stop()
	Warn(msg)
}

// WithSpinner runs fn behind a spinner and returns its error.
func WithSpinner(message string, fn func() error) error {
	sp := NewSpinner(message)
	sp.Start()
	err := fn()
	if err != nil {
		sp.StopWithError(message + ": failed")
	} else {
		sp.StopWithSuccess(message)
	}
	return err
}
