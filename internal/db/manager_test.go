package db

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

type countingDialer struct {
	calls   atomic.Int32
	release chan struct{}
	fail    func(call int32) error
}

func (d *countingDialer) dial(ctx context.Context, uri string) (Store, error) {
	call := d.calls.Add(1)
	if d.release != nil {
		<-d.release
	}
	if d.fail != nil {
		if err := d.fail(call); err != nil {
			return nil, err
		}
	}
	return NewMemoryStore(), nil
}

func TestManagerStore(t *testing.T) {
	t.Run("requires a connection string", func(t *testing.T) {
		dialer := &countingDialer{}
		manager := NewManager("", dialer.dial, nil)

		_, err := manager.Store(context.Background())

		if !errors.Is(err, ErrNotConfigured) {
			t.Fatalf("got %v, want ErrNotConfigured", err)
		}
		if dialer.calls.Load() != 0 {
			t.Errorf("dial should not be attempted, got %d calls", dialer.calls.Load())
		}
	})

	t.Run("reuses the first connection", func(t *testing.T) {
		dialer := &countingDialer{}
		manager := NewManager("memory://", dialer.dial, nil)

		first, err := manager.Store(context.Background())
		assertNoError(t, err)
		second, err := manager.Store(context.Background())
		assertNoError(t, err)

		if first != second {
			t.Error("expected the same store on every call")
		}
		if got := dialer.calls.Load(); got != 1 {
			t.Errorf("got %d dials, want 1", got)
		}
	})

	t.Run("concurrent first callers share one dial", func(t *testing.T) {
		const callers = 50
		dialer := &countingDialer{release: make(chan struct{})}
		manager := NewManager("memory://", dialer.dial, nil)

		var wg sync.WaitGroup
		stores := make([]Store, callers)
		errs := make([]error, callers)
		for i := 0; i < callers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				stores[i], errs[i] = manager.Store(context.Background())
			}(i)
		}
		close(dialer.release)
		wg.Wait()

		if got := dialer.calls.Load(); got != 1 {
			t.Fatalf("got %d dials, want 1", got)
		}
		for i := range stores {
			assertNoError(t, errs[i])
			if stores[i] != stores[0] {
				t.Fatalf("caller %d got a different store", i)
			}
		}
	})

	t.Run("does not cache a failed dial", func(t *testing.T) {
		boom := errors.New("connection refused")
		dialer := &countingDialer{fail: func(call int32) error {
			if call == 1 {
				return boom
			}
			return nil
		}}
		manager := NewManager("memory://", dialer.dial, nil)

		_, err := manager.Store(context.Background())
		var cerr *ConnectionError
		if !errors.As(err, &cerr) {
			t.Fatalf("got %v, want a ConnectionError", err)
		}
		if !errors.Is(err, boom) {
			t.Errorf("ConnectionError should wrap the dial error, got %v", err)
		}

		_, err = manager.Store(context.Background())
		assertNoError(t, err)
		if got := dialer.calls.Load(); got != 2 {
			t.Errorf("got %d dials, want 2", got)
		}
	})

	t.Run("dial ignores caller cancellation", func(t *testing.T) {
		var sawCancel bool
		manager := NewManager("memory://", func(ctx context.Context, uri string) (Store, error) {
			sawCancel = ctx.Err() != nil
			return NewMemoryStore(), nil
		}, nil)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := manager.Store(ctx)

		assertNoError(t, err)
		if sawCancel {
			t.Error("dial context should not carry the caller's cancellation")
		}
	})
}

func TestManagerClose(t *testing.T) {
	t.Run("closes the open store", func(t *testing.T) {
		manager := NewManager("memory://", NewDialer("blog"), nil)

		store, err := manager.Store(context.Background())
		assertNoError(t, err)
		assertNoError(t, manager.Close(context.Background()))

		if _, err := store.ListPosts(context.Background()); err == nil {
			t.Error("expected the closed store to reject reads")
		}
		if _, err := manager.Store(context.Background()); !errors.Is(err, ErrManagerClosed) {
			t.Errorf("got %v, want ErrManagerClosed", err)
		}
	})

	t.Run("closing before any connect", func(t *testing.T) {
		dialer := &countingDialer{}
		manager := NewManager("memory://", dialer.dial, nil)

		assertNoError(t, manager.Close(context.Background()))

		if _, err := manager.Store(context.Background()); !errors.Is(err, ErrManagerClosed) {
			t.Errorf("got %v, want ErrManagerClosed", err)
		}
		if dialer.calls.Load() != 0 {
			t.Errorf("dial should not be attempted, got %d calls", dialer.calls.Load())
		}
	})

	t.Run("releases a store connected during close", func(t *testing.T) {
		started := make(chan struct{})
		release := make(chan struct{})
		dialed := make(chan *MemoryStore, 1)
		manager := NewManager("memory://", func(ctx context.Context, uri string) (Store, error) {
			close(started)
			<-release
			store := NewMemoryStore()
			dialed <- store
			return store, nil
		}, nil)

		done := make(chan error, 1)
		go func() {
			_, err := manager.Store(context.Background())
			done <- err
		}()

		<-started
		assertNoError(t, manager.Close(context.Background()))
		close(release)

		if err := <-done; !errors.Is(err, ErrManagerClosed) {
			t.Errorf("got %v, want ErrManagerClosed", err)
		}
		store := <-dialed
		if _, err := store.ListPosts(context.Background()); err == nil {
			t.Error("expected the late store to be closed")
		}
	})
}
