package cart

import (
	"context"
	"fmt"
	"sync"

	"github.com/divya8341883853/clothstore-backend/pkg/logger"
	"github.com/divya8341883853/clothstore-backend/pkg/types"
)

// Counter is the read surface the observer needs to recount a cart.
type Counter interface {
	Count(ctx context.Context, owner types.Identity) (int, error)
}

type watcher struct {
	owner types.Identity
	ch    chan int
}

// Observer fans cart change signals out to per-owner watchers. Each watcher
// receives the current distinct-line count: once on registration and again
// whenever a signal for its owner arrives.
type Observer struct {
	counter Counter
	logg    *logger.Logger

	mu       sync.Mutex
	watchers map[int64]*watcher
	nextID   int64
}

func NewObserver(counter Counter, logg *logger.Logger) (*Observer, error) {
	if counter == nil {
		return nil, fmt.Errorf("counter is required")
	}
	return &Observer{
		counter:  counter,
		logg:     logg,
		watchers: make(map[int64]*watcher),
	}, nil
}

// Run consumes signals until the context is canceled.
func (o *Observer) Run(ctx context.Context, source SignalSource) error {
	signals, err := source.Signals(ctx)
	if err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case signal, ok := <-signals:
			if !ok {
				return nil
			}
			o.notify(ctx, signal.Identity())
		}
	}
}

// Watch registers a listener for one owner's cart count. The current count
// is delivered immediately. The returned cancel func must be called to
// release the watcher; the channel is closed on cancel.
func (o *Observer) Watch(ctx context.Context, owner types.Identity) (<-chan int, func(), error) {
	if err := owner.Validate(); err != nil {
		return nil, nil, err
	}

	count, err := o.counter.Count(ctx, owner)
	if err != nil {
		return nil, nil, err
	}

	w := &watcher{owner: owner, ch: make(chan int, 1)}
	w.ch <- count

	o.mu.Lock()
	o.nextID++
	id := o.nextID
	o.watchers[id] = w
	o.mu.Unlock()

	cancel := func() {
		o.mu.Lock()
		if _, ok := o.watchers[id]; ok {
			delete(o.watchers, id)
			close(w.ch)
		}
		o.mu.Unlock()
	}
	return w.ch, cancel, nil
}

func (o *Observer) notify(ctx context.Context, owner types.Identity) {
	ids := o.matching(owner)
	if len(ids) == 0 {
		return
	}

	count, err := o.counter.Count(ctx, owner)
	if err != nil {
		if o.logg != nil {
			o.logg.Error(ctx, "cart recount failed", err)
		}
		return
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	for _, id := range ids {
		// A watcher may have been canceled since matching; its channel
		// is closed, so re-check membership before sending.
		w, ok := o.watchers[id]
		if !ok {
			continue
		}
		// Coalesce: a slow consumer only ever sees the latest count.
		select {
		case <-w.ch:
		default:
		}
		select {
		case w.ch <- count:
		default:
		}
	}
}

func (o *Observer) matching(owner types.Identity) []int64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	var out []int64
	for id, w := range o.watchers {
		if w.owner == owner {
			out = append(out, id)
		}
	}
	return out
}
