package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Tracker creates progress bars on one output stream.
type Tracker struct {
	Out      io.Writer
	Interval time.Duration
}

// New returns a tracker writing to stderr.
func New() *Tracker {
	return &Tracker{Out: os.Stderr, Interval: 100 * time.Millisecond}
}

// Bar is a spinner with a counter, redrawn on a ticker until Finish.
type Bar struct {
	out       io.Writer
	total     int
	current   int
	message   string
	mu        sync.Mutex
	startTime time.Time
	done      chan struct{}
	stopped   sync.WaitGroup
	once      sync.Once
}

// NewBar starts rendering a bar for total steps.
func (t *Tracker) NewBar(total int, message string) *Bar {
	interval := t.Interval
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	b := &Bar{
		out:       t.Out,
		total:     total,
		message:   message,
		startTime: time.Now(),
		done:      make(chan struct{}),
	}
	b.stopped.Add(1)
	go b.render(interval)
	return b
}

func (b *Bar) render(interval time.Duration) {
	defer b.stopped.Done()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	spinner := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	frame := 0

	for {
		select {
		case <-b.done:
			b.mu.Lock()
			elapsed := time.Since(b.startTime)
			fmt.Fprintf(b.out, "\r✓ %s (%d/%d files, %s)          \n",
				b.message, b.current, b.total, elapsed.Round(time.Millisecond))
			b.mu.Unlock()
			return

		case <-ticker.C:
			b.mu.Lock()
			if b.total > 0 {
				percent := float64(b.current) / float64(b.total) * 100
				fmt.Fprintf(b.out, "\r%s %s [%d/%d] %.0f%%  ",
					spinner[frame%len(spinner)],
					b.message,
					b.current,
					b.total,
					percent)
			} else {
				fmt.Fprintf(b.out, "\r%s %s [%d files]  ",
					spinner[frame%len(spinner)],
					b.message,
					b.current)
			}
			b.mu.Unlock()
			frame++
		}
	}
}

func (b *Bar) Increment() {
	b.mu.Lock()
	b.current++
	b.mu.Unlock()
}

// Finish prints the summary line and waits for the renderer to stop.
// Calling it again is a no-op.
func (b *Bar) Finish() {
	b.once.Do(func() {
		close(b.done)
		b.stopped.Wait()
	})
}
