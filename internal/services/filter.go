package services

import (
	"strings"
	"sync"
	"time"
)

const DefaultDebounce = 300 * time.Millisecond

// FilterByFields keeps the items whose extracted fields contain the query,
// case-insensitively. An empty or whitespace-only query returns the input
// unchanged.
func FilterByFields[T any](items []T, query string, fields func(T) []string) []T {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return items
	}
	needle := strings.ToLower(trimmed)

	matched := make([]T, 0, len(items))
	for _, item := range items {
		for _, field := range fields(item) {
			if strings.Contains(strings.ToLower(field), needle) {
				matched = append(matched, item)
				break
			}
		}
	}
	return matched
}

// Debouncer coalesces bursts of calls into one, firing the latest function
// after a quiet period. Each Trigger cancels the previous pending one.
type Debouncer struct {
	mu    sync.Mutex
	delay time.Duration
	timer *time.Timer
}

func NewDebouncer(delay time.Duration) *Debouncer {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Debouncer{delay: delay}
}

func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, fn)
}

// Stop cancels any pending call.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
