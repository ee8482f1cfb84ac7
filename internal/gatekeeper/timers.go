package gatekeeper

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

type scheduledTimer struct {
	timer    *clock.Timer
	deadline time.Time
}

// TimerRegistry maps a challenge identifier to a one-shot callback.
// A callback only runs if its timer is still the one registered under
// the key when it fires; the registration is removed before the call.
type TimerRegistry struct {
	clock clock.Clock

	mu     sync.Mutex
	timers map[string]*scheduledTimer
}

func NewTimerRegistry(clk clock.Clock) *TimerRegistry {
	if clk == nil {
		clk = clock.New()
	}
	return &TimerRegistry{
		clock:  clk,
		timers: make(map[string]*scheduledTimer),
	}
}

// Schedule registers fn to run after d. An existing timer under key is
// canceled and replaced.
func (r *TimerRegistry) Schedule(key string, d time.Duration, fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, ok := r.timers[key]; ok {
		prev.timer.Stop()
		delete(r.timers, key)
	}

	entry := &scheduledTimer{deadline: r.clock.Now().Add(d)}
	// fire blocks on r.mu until this method returns, so entry is fully
	// registered before any callback can observe it.
	entry.timer = r.clock.AfterFunc(d, func() { r.fire(key, entry, fn) })
	r.timers[key] = entry
}

// Cancel stops the timer under key. It returns false when nothing was
// registered, including timers that already fired.
func (r *TimerRegistry) Cancel(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.timers[key]
	if !ok {
		return false
	}
	delete(r.timers, key)
	entry.timer.Stop()
	return true
}

func (r *TimerRegistry) Deadline(key string) (time.Time, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.timers[key]
	if !ok {
		return time.Time{}, false
	}
	return entry.deadline, true
}

func (r *TimerRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.timers)
}

// Stop cancels every registered timer.
func (r *TimerRegistry) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key, entry := range r.timers {
		entry.timer.Stop()
		delete(r.timers, key)
	}
}

func (r *TimerRegistry) fire(key string, entry *scheduledTimer, fn func()) {
	r.mu.Lock()
	if current, ok := r.timers[key]; !ok || current != entry {
		r.mu.Unlock()
		return
	}
	delete(r.timers, key)
	r.mu.Unlock()

	fn()
}
