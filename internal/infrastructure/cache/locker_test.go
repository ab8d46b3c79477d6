package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
)

func TestMemoryLocker_ExclusiveUntilReleased(t *testing.T) {
	l := NewMemoryLocker()
	ctx := context.Background()

	release, ok, err := l.TryLock(ctx, "owner:a")
	if err != nil || !ok {
		t.Fatalf("first TryLock: ok=%v err=%v", ok, err)
	}
	if _, ok, _ := l.TryLock(ctx, "owner:a"); ok {
		t.Fatalf("second TryLock should fail while held")
	}
	if _, ok, _ := l.TryLock(ctx, "owner:b"); !ok {
		t.Fatalf("other keys must not be blocked")
	}
	_ = release(ctx)
	_ = release(ctx)
	if _, ok, _ := l.TryLock(ctx, "owner:a"); !ok {
		t.Fatalf("TryLock after release should succeed")
	}
}

func TestMemoryLocker_Concurrent(t *testing.T) {
	l := NewMemoryLocker()
	var won atomic.Int32
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			if _, ok, _ := l.TryLock(context.Background(), "k"); ok {
				won.Add(1)
			}
		}()
	}
	close(start)
	wg.Wait()
	if won.Load() != 1 {
		t.Fatalf("winners: got %d want 1", won.Load())
	}
}
