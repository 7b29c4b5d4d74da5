package changefeed

import (
	"context"
	"sync"
	"time"

	"github.com/agyouthrise/rise-backend/internal/domain"
)

// Op 변경 종류
type Op string

const (
	OpCreate Op = "create"
	OpDelete Op = "delete"
)

// Change one committed write on a collection
type Change struct {
	Kind   domain.Kind `json:"kind"`
	Op     Op          `json:"op"`
	ID     string      `json:"id"`
	At     time.Time   `json:"at"`
	Origin string      `json:"origin,omitempty"` // instance that committed the write
}

// Feed fans committed changes out to listeners of a collection
type Feed interface {
	// Publish announces a committed change to every listener of ch.Kind
	Publish(ctx context.Context, ch Change) error
	// Listen registers a listener. The returned channel has capacity 1 and
	// coalesces bursts: a pending signal means "at least one change since
	// you last looked". release must be called exactly once.
	Listen(kind domain.Kind) (signals <-chan Change, release func())
	// Close releases every listener and stops background work
	Close() error
}

type listener struct {
	ch chan Change
}

// LocalFeed in-process fan-out
type LocalFeed struct {
	mu        sync.RWMutex
	listeners map[domain.Kind]map[*listener]struct{}
	closed    bool
}

// NewLocalFeed 생성자
func NewLocalFeed() *LocalFeed {
	return &LocalFeed{
		listeners: make(map[domain.Kind]map[*listener]struct{}),
	}
}

// Publish delivers ch to local listeners without blocking
func (f *LocalFeed) Publish(_ context.Context, ch Change) error {
	f.broadcast(ch)
	return nil
}

func (f *LocalFeed) broadcast(ch Change) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	for l := range f.listeners[ch.Kind] {
		select {
		case l.ch <- ch:
		default:
			// a signal is already pending; the listener will re-read anyway
		}
	}
}

// Listen registers a listener for one collection
func (f *LocalFeed) Listen(kind domain.Kind) (<-chan Change, func()) {
	l := &listener{ch: make(chan Change, 1)}

	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		close(l.ch)
		return l.ch, func() {}
	}
	if f.listeners[kind] == nil {
		f.listeners[kind] = make(map[*listener]struct{})
	}
	f.listeners[kind][l] = struct{}{}
	f.mu.Unlock()

	var once sync.Once
	release := func() {
		once.Do(func() {
			f.mu.Lock()
			defer f.mu.Unlock()
			if _, ok := f.listeners[kind][l]; !ok {
				return // already released by Close
			}
			delete(f.listeners[kind], l)
			if len(f.listeners[kind]) == 0 {
				delete(f.listeners, kind)
			}
			close(l.ch)
		})
	}
	return l.ch, release
}

// ListenerCount number of registered listeners for a collection
func (f *LocalFeed) ListenerCount(kind domain.Kind) int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.listeners[kind])
}

// Close closes every listener channel
func (f *LocalFeed) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return nil
	}
	f.closed = true
	for kind, ls := range f.listeners {
		for l := range ls {
			close(l.ch)
		}
		delete(f.listeners, kind)
	}
	return nil
}
