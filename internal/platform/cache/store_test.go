package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestStore_GetOrLoad_UsesSingleFlight(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) (any, error) {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond)
		return "value", nil
	}

	const workers = 32
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			v, err := store.GetOrLoad(context.Background(), "same-key", loader)
			if err != nil {
				t.Errorf("GetOrLoad error: %v", err)
				return
			}
			if got, _ := v.(string); got != "value" {
				t.Errorf("unexpected value %v", v)
			}
		}()
	}

	close(start)
	wg.Wait()

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestStore_LazyExpiry(t *testing.T) {
	t.Parallel()

	now := time.Unix(1700000000, 0)
	store := NewStoreWithClock(time.Hour, func() time.Time { return now })

	store.Set(context.Background(), "k", 42)
	if _, ok := store.Get(context.Background(), "k"); !ok {
		t.Fatal("expected hit inside TTL")
	}

	now = now.Add(time.Hour + time.Second)
	if _, ok := store.Get(context.Background(), "k"); ok {
		t.Fatal("expected miss after TTL elapsed")
	}
}

func TestStore_GetOrLoad_DoesNotCacheErrors(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32
	boom := errors.New("boom")

	loader := func(context.Context) (any, error) {
		calls.Add(1)
		return nil, boom
	}

	if _, err := store.GetOrLoad(context.Background(), "k", loader); !errors.Is(err, boom) {
		t.Fatalf("want boom, got %v", err)
	}
	if _, err := store.GetOrLoad(context.Background(), "k", loader); !errors.Is(err, boom) {
		t.Fatalf("want boom on retry, got %v", err)
	}

	if got := calls.Load(); got != 2 {
		t.Fatalf("loader called %d times, want 2", got)
	}
}

func TestStore_ZeroTTLNeverExpires(t *testing.T) {
	t.Parallel()

	now := time.Unix(1700000000, 0)
	store := NewStoreWithClock(0, func() time.Time { return now })

	store.Set(context.Background(), "k", "v")
	now = now.Add(1000 * time.Hour)
	if _, ok := store.Get(context.Background(), "k"); !ok {
		t.Fatal("zero-TTL store should never expire entries")
	}
}
