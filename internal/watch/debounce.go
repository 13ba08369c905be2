package watch

import (
	"sort"
	"sync"
	"time"
)

// Debouncer collects paths and hands them to a callback once no new path
// has arrived for the configured delay. Callbacks never overlap.
type Debouncer struct {
	delay    time.Duration
	callback func([]string)

	running  sync.Mutex
	inflight sync.WaitGroup

	mu      sync.Mutex
	timer   *time.Timer
	pending map[string]struct{}
	stopped bool
}

// NewDebouncer creates a debouncer calling callback with the sorted batch of paths
func NewDebouncer(delay time.Duration, callback func([]string)) *Debouncer {
	return &Debouncer{
		delay:    delay,
		callback: callback,
		pending:  make(map[string]struct{}),
	}
}

// Add records a path and restarts the delay
func (d *Debouncer) Add(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	d.pending[path] = struct{}{}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.flush)
}

func (d *Debouncer) flush() {
	d.mu.Lock()
	if d.stopped || len(d.pending) == 0 {
		d.mu.Unlock()
		return
	}
	paths := make([]string, 0, len(d.pending))
	for p := range d.pending {
		paths = append(paths, p)
	}
	d.pending = make(map[string]struct{})
	d.inflight.Add(1)
	d.mu.Unlock()
	defer d.inflight.Done()

	sort.Strings(paths)
	d.running.Lock()
	defer d.running.Unlock()
	d.callback(paths)
}

// Stop drops pending paths and waits for a running callback to return.
// Adds after Stop are ignored. Stop must not be called from the callback.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
	}
	d.pending = make(map[string]struct{})
	d.mu.Unlock()

	d.inflight.Wait()
}
