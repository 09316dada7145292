package cart

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/divya8341883853/clothstore-backend/pkg/types"
)

type fakeCounter struct {
	mu     sync.Mutex
	counts map[string]int
}

func newFakeCounter() *fakeCounter {
	return &fakeCounter{counts: map[string]int{}}
}

func (f *fakeCounter) set(owner types.Identity, count int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counts[owner.String()] = count
}

func (f *fakeCounter) Count(ctx context.Context, owner types.Identity) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.counts[owner.String()], nil
}

type fakeSource struct {
	ch chan ChangeSignal
}

func newFakeSource() *fakeSource {
	return &fakeSource{ch: make(chan ChangeSignal)}
}

func (f *fakeSource) Signals(ctx context.Context) (<-chan ChangeSignal, error) {
	return f.ch, nil
}

func waitForCount(t *testing.T, ch <-chan int, want int) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case got, ok := <-ch:
			if !ok {
				t.Fatal("watch channel closed")
			}
			if got == want {
				return
			}
		case <-deadline:
			t.Fatalf("timed out waiting for count %d", want)
		}
	}
}

func TestWatch_DeliversInitialCount(t *testing.T) {
	counter := newFakeCounter()
	owner := types.Anonymous("sess-A")
	counter.set(owner, 2)

	obs, err := NewObserver(counter, nil)
	if err != nil {
		t.Fatalf("NewObserver returned error: %v", err)
	}

	ch, cancel, err := obs.Watch(context.Background(), owner)
	if err != nil {
		t.Fatalf("Watch returned error: %v", err)
	}
	defer cancel()

	waitForCount(t, ch, 2)
}

func TestObserver_RecountsOnMatchingSignal(t *testing.T) {
	counter := newFakeCounter()
	owner := types.Anonymous("sess-A")
	counter.set(owner, 1)

	obs, err := NewObserver(counter, nil)
	if err != nil {
		t.Fatalf("NewObserver returned error: %v", err)
	}

	source := newFakeSource()
	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	go func() { _ = obs.Run(ctx, source) }()

	ch, cancel, err := obs.Watch(ctx, owner)
	if err != nil {
		t.Fatalf("Watch returned error: %v", err)
	}
	defer cancel()
	waitForCount(t, ch, 1)

	counter.set(owner, 3)
	source.ch <- ChangeSignal{OwnerKind: owner.Kind, OwnerRef: owner.Ref}
	waitForCount(t, ch, 3)
}

func TestObserver_IgnoresForeignSignals(t *testing.T) {
	counter := newFakeCounter()
	owner := types.Anonymous("sess-A")
	counter.set(owner, 1)

	obs, err := NewObserver(counter, nil)
	if err != nil {
		t.Fatalf("NewObserver returned error: %v", err)
	}

	source := newFakeSource()
	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	go func() { _ = obs.Run(ctx, source) }()

	ch, cancel, err := obs.Watch(ctx, owner)
	if err != nil {
		t.Fatalf("Watch returned error: %v", err)
	}
	defer cancel()
	waitForCount(t, ch, 1)

	counter.set(owner, 9)
	source.ch <- ChangeSignal{OwnerKind: owner.Kind, OwnerRef: "sess-B"}

	select {
	case got := <-ch:
		t.Fatalf("unexpected count %d for foreign signal", got)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestWatch_CancelClosesChannel(t *testing.T) {
	counter := newFakeCounter()
	owner := types.Anonymous("sess-A")

	obs, err := NewObserver(counter, nil)
	if err != nil {
		t.Fatalf("NewObserver returned error: %v", err)
	}

	ch, cancel, err := obs.Watch(context.Background(), owner)
	if err != nil {
		t.Fatalf("Watch returned error: %v", err)
	}
	waitForCount(t, ch, 0)
	cancel()

	select {
	case _, ok := <-ch:
		if ok {
			t.Fatal("expected closed channel after cancel")
		}
	case <-time.After(time.Second):
		t.Fatal("channel not closed after cancel")
	}
}
