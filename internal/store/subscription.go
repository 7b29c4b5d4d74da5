package store

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/agyouthrise/rise-backend/internal/changefeed"
	"github.com/agyouthrise/rise-backend/internal/domain"
	pkglogger "github.com/agyouthrise/rise-backend/pkg/logger"
)

func (c *Client) now() time.Time {
	if c.opts.Clock != nil {
		return c.opts.Clock()
	}
	return time.Now().UTC()
}

// subscription one live snapshot stream, driven by a single goroutine
type subscription[T any] struct {
	client  *Client
	kind    domain.Kind
	query   func(ctx context.Context) ([]T, error)
	signals <-chan changefeed.Change
	release func()

	ctx    context.Context
	stop   context.CancelFunc
	done   chan struct{}
	exited chan struct{}
	once   sync.Once

	// admit guards the stopped check before each handler call. cancel passes
	// through it after closing done, so a call admitted earlier has already
	// been handed to the handler and none is admitted later.
	admit sync.Mutex
	// set while the loop goroutine is inside a handler; cancel then must
	// not wait for the loop or a handler cancelling itself would deadlock
	inHandler atomic.Bool
}

func newSubscription[T any](ctx context.Context, client *Client, kind domain.Kind, query func(context.Context) ([]T, error)) *subscription[T] {
	sctx, stop := context.WithCancel(ctx)
	// register before the first read so no change between read and listen is lost
	signals, release := client.feed.Listen(kind)
	return &subscription[T]{
		client:  client,
		kind:    kind,
		query:   query,
		signals: signals,
		release: release,
		ctx:     sctx,
		stop:    stop,
		done:    make(chan struct{}),
		exited:  make(chan struct{}),
	}
}

// cancel stops the subscription. After it returns no new delivery begins.
// Outside a delivery it also waits for the loop goroutine to exit; during one
// it returns without waiting, since the caller may be the handler itself.
func (s *subscription[T]) cancel() {
	s.once.Do(func() {
		close(s.done)
		s.stop()
	})
	s.admit.Lock()
	running := s.inHandler.Load()
	s.admit.Unlock()
	if running {
		return
	}
	<-s.exited
}

// enter admits one handler call; false once the subscription stopped
func (s *subscription[T]) enter() bool {
	s.admit.Lock()
	defer s.admit.Unlock()
	if s.stopped() {
		return false
	}
	s.inHandler.Store(true)
	return true
}

func (s *subscription[T]) leave() {
	s.inHandler.Store(false)
}

func (s *subscription[T]) stopped() bool {
	select {
	case <-s.done:
		return true
	case <-s.ctx.Done():
		return true
	default:
		return false
	}
}

// run delivers snapshots until cancelled. deliver returns false to end the loop.
func (s *subscription[T]) run(deliver func(domain.Snapshot[T]) bool, onExit func()) {
	id, ok := s.client.track(s.cancel)
	if !ok {
		s.release()
		s.stop()
		onExit()
		close(s.exited)
		return
	}
	activeSubscriptions.WithLabelValues(s.kind.String()).Inc()

	go func() {
		defer close(s.exited)
		defer func() {
			s.release()
			s.stop()
			s.client.untrack(id)
			activeSubscriptions.WithLabelValues(s.kind.String()).Dec()
			onExit()
		}()
		s.loop(deliver)
	}()
}

func (s *subscription[T]) loop(deliver func(domain.Snapshot[T]) bool) {
	var recheck *time.Timer
	defer func() {
		if recheck != nil {
			recheck.Stop()
		}
	}()

	for {
		snap, ok := s.read()
		if !ok {
			return
		}
		if !deliver(snap) {
			return
		}

		// a degraded stream re-reads on its own instead of waiting for the next write
		var recheckC <-chan time.Time
		if snap.Degraded {
			if recheck == nil {
				recheck = time.NewTimer(s.client.opts.Retry.MaxDelay)
			} else {
				recheck.Reset(s.client.opts.Retry.MaxDelay)
			}
			recheckC = recheck.C
		}

		select {
		case <-s.done:
			return
		case <-s.ctx.Done():
			return
		case _, open := <-s.signals:
			if !open {
				return
			}
		case <-recheckC:
		}
		if recheck != nil && recheckC != nil && !recheck.Stop() {
			select {
			case <-recheck.C:
			default:
			}
		}
	}
}

// read queries the full collection. ok is false once the subscription stopped.
func (s *subscription[T]) read() (domain.Snapshot[T], bool) {
	if s.stopped() {
		return domain.Snapshot[T]{}, false
	}
	qctx, cancel := context.WithTimeout(s.ctx, s.client.opts.QueryTimeout)
	defer cancel()

	items, err := s.query(qctx)
	if err != nil {
		if s.stopped() {
			return domain.Snapshot[T]{}, false
		}
		degradedSnapshots.WithLabelValues(s.kind.String()).Inc()
		pkglogger.WithCollection(s.kind.String()).Warn().Err(err).
			Msg("snapshot query failed, delivering empty degraded snapshot")
		return domain.Snapshot[T]{Kind: s.kind, Items: []T{}, Degraded: true, At: s.client.now()}, true
	}
	return domain.Snapshot[T]{Kind: s.kind, Items: items, At: s.client.now()}, true
}

// List calls onUpdate with the current snapshot and again after every change.
// The returned cancel may be called from inside onUpdate. Once cancel returns
// no new onUpdate call begins; a call already running when cancel is invoked
// from another goroutine may still be finishing. Cancelling ctx has the same
// effect.
func (c *Collection[T, P]) List(ctx context.Context, onUpdate func(domain.Snapshot[T])) (cancel func()) {
	sub := newSubscription[T](ctx, c.client, c.kind, c.repo.FindAll)
	deliver := func(snap domain.Snapshot[T]) bool {
		if !sub.enter() {
			return false
		}
		defer sub.leave()
		onUpdate(snap)
		return !sub.stopped()
	}
	sub.run(deliver, func() {})
	return sub.cancel
}

// Subscription channel form of a snapshot stream
type Subscription[T any] struct {
	sub     *subscription[T]
	updates chan domain.Snapshot[T]
}

// Updates yields snapshots; closed after Cancel or ctx cancellation
func (s *Subscription[T]) Updates() <-chan domain.Snapshot[T] {
	return s.updates
}

// Cancel stops the stream and closes Updates
func (s *Subscription[T]) Cancel() {
	s.sub.cancel()
}

// Subscribe opens a channel-based snapshot stream.
// A slow reader receives the latest state; intermediate changes coalesce.
func (c *Collection[T, P]) Subscribe(ctx context.Context) *Subscription[T] {
	sub := newSubscription[T](ctx, c.client, c.kind, c.repo.FindAll)
	out := &Subscription[T]{sub: sub, updates: make(chan domain.Snapshot[T])}
	deliver := func(snap domain.Snapshot[T]) bool {
		select {
		case out.updates <- snap:
			return true
		case <-sub.done:
			return false
		case <-sub.ctx.Done():
			return false
		}
	}
	sub.run(deliver, func() { close(out.updates) })
	return out
}
