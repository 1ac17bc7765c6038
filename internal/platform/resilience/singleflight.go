package resilience

import (
	"errors"
	"sync"
)

// ErrInFlight is returned by TryDo when the key is already running.
var ErrInFlight = errors.New("call already in flight")

// Flight collapses concurrent calls that share a key. The zero value is
// ready to use.
type Flight struct {
	mu      sync.Mutex
	running map[string]*flightCall
}

type flightCall struct {
	done chan struct{}
	val  any
	err  error
}

// Do runs fn once per key at a time. Callers arriving while fn runs wait
// for it and get its result with shared set.
func (f *Flight) Do(key string, fn func() (any, error)) (val any, err error, shared bool) {
	c, leader := f.join(key)
	if !leader {
		<-c.done
		return c.val, c.err, true
	}
	defer f.finish(key, c)
	c.val, c.err = fn()
	return c.val, c.err, false
}

// TryDo runs fn unless key is already running; it never waits.
func (f *Flight) TryDo(key string, fn func() error) error {
	c, leader := f.join(key)
	if !leader {
		return ErrInFlight
	}
	defer f.finish(key, c)
	c.err = fn()
	return c.err
}

// Running reports whether a call for key is in progress.
func (f *Flight) Running(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.running[key]
	return ok
}

func (f *Flight) join(key string) (*flightCall, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.running[key]; ok {
		return c, false
	}
	if f.running == nil {
		f.running = make(map[string]*flightCall)
	}
	c := &flightCall{done: make(chan struct{})}
	f.running[key] = c
	return c, true
}

// finish also runs when fn panics, so waiters are released and the key freed.
func (f *Flight) finish(key string, c *flightCall) {
	f.mu.Lock()
	delete(f.running, key)
	f.mu.Unlock()
	close(c.done)
}
