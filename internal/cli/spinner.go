package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"
)

// Spinner animates a stage message on stderr while extraction or analysis
// runs. It stops on its own when the command context is cancelled, so an
// interrupted run leaves a clean line behind.
type Spinner struct {
	message string
	start   time.Time
	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
	stopped chan struct{}
	frames  []string
	lastLen int
	mu      sync.Mutex
}

// newSpinnerWithContext creates a spinner bound to the command context.
func newSpinnerWithContext(ctx context.Context, message string) *Spinner {
	spinnerCtx, cancel := context.WithCancel(ctx)
	return &Spinner{
		message: message,
		ctx:     spinnerCtx,
		cancel:  cancel,
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
		frames:  []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"},
	}
}

// Start begins the animation. After a few seconds the elapsed time is
// appended to the message, since LLM classification of a large outline can
// run well past the point where a bare spinner reassures anyone.
func (s *Spinner) Start() {
	s.start = time.Now()
	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		i := 0
		for {
			select {
			case <-s.ctx.Done():
				s.clearLine()
				return
			case <-s.done:
				return
			case <-ticker.C:
				frame := s.frames[i%len(s.frames)]
				text := s.message
				if elapsed := time.Since(s.start); elapsed > 3*time.Second {
					text = fmt.Sprintf("%s (%ds)", s.message, int(elapsed.Seconds()))
				}
				s.mu.Lock()
				fmt.Fprintf(os.Stderr, "\r%s %s", styleIconSpinner.Render(frame), StyleDim.Render(text))
				s.lastLen = len(text) + 2
				s.mu.Unlock()
				i++
			}
		}
	}()
}

// Stop halts the animation and clears the line.
func (s *Spinner) Stop() {
	s.cancel()
	select {
	case <-s.done:
	default:
		close(s.done)
	}
	<-s.stopped
	s.clearLine()
}

func (s *Spinner) clearLine() {
	s.mu.Lock()
	defer s.mu.Unlock()
	width := s.lastLen
	if w := len(s.message) + 2; w > width {
		width = w
	}
	fmt.Fprintf(os.Stderr, "\r%s\r", strings.Repeat(" ", width+2))
}

// StopWithError halts the animation and prints an error line in its place.
func (s *Spinner) StopWithError(message string) {
	s.Stop()
	printError("%s", message)
}

// Cancelled reports whether the spinner stopped because the command
// context was cancelled.
func (s *Spinner) Cancelled() bool {
	return s.ctx.Err() != nil
}
