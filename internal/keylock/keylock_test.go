package keylock

import (
	"context"
	"errors"
	"os"
	"reflect"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestNormalizeSortsAndDeduplicates(t *testing.T) {
	got := normalize([]string{"owner:7:2024-01-15", "court:1:2024-01-15", "owner:7:2024-01-15"})
	want := []string{"court:1:2024-01-15", "owner:7:2024-01-15"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("normalize = %v, want %v", got, want)
	}
}

func TestMemoryBoundedWait(t *testing.T) {
	locker := NewMemory(50 * time.Millisecond)
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, "court:1:2024-01-15")
	if err != nil {
		t.Fatalf("first lock: %v", err)
	}

	start := time.Now()
	if _, err := locker.Lock(ctx, "court:1:2024-01-15"); !errors.Is(err, ErrBusy) {
		t.Fatalf("second lock error = %v, want ErrBusy", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("bounded wait took %s", elapsed)
	}

	unlock()
	unlock()

	again, err := locker.Lock(ctx, "court:1:2024-01-15")
	if err != nil {
		t.Fatalf("lock after release: %v", err)
	}
	again()
	if n := locker.size(); n != 0 {
		t.Fatalf("expected idle entries to be pruned, have %d", n)
	}
}

func TestMemoryPartialAcquireUnwinds(t *testing.T) {
	locker := NewMemory(30 * time.Millisecond)
	ctx := context.Background()

	hold, err := locker.Lock(ctx, "b")
	if err != nil {
		t.Fatalf("lock b: %v", err)
	}
	if _, err := locker.Lock(ctx, "a", "b"); !errors.Is(err, ErrBusy) {
		t.Fatalf("lock a,b error = %v, want ErrBusy", err)
	}

	// "a" must have been released when "b" timed out.
	unlockA, err := locker.Lock(ctx, "a")
	if err != nil {
		t.Fatalf("lock a after unwind: %v", err)
	}
	unlockA()
	hold()
}

func TestMemoryCallerCancellation(t *testing.T) {
	locker := NewMemory(time.Second)
	unlock, err := locker.Lock(context.Background(), "k")
	if err != nil {
		t.Fatalf("lock: %v", err)
	}
	defer unlock()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := locker.Lock(ctx, "k"); !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
}

func TestMemorySerializesHolders(t *testing.T) {
	locker := NewMemory(5 * time.Second)
	var inside, maxInside int32
	var wg sync.WaitGroup

	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := locker.Lock(context.Background(), "court:3:2024-02-01", "owner:9:2024-02-01")
			if err != nil {
				t.Errorf("lock: %v", err)
				return
			}
			n := atomic.AddInt32(&inside, 1)
			for {
				m := atomic.LoadInt32(&maxInside)
				if n <= m || atomic.CompareAndSwapInt32(&maxInside, m, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			atomic.AddInt32(&inside, -1)
			unlock()
		}()
	}
	wg.Wait()

	if maxInside != 1 {
		t.Fatalf("max concurrent holders = %d, want 1", maxInside)
	}
}

func TestRedisLocker(t *testing.T) {
	url := os.Getenv("LOCKS_REDIS_URL")
	if url == "" {
		t.Skip("LOCKS_REDIS_URL not set")
	}
	ctx := context.Background()
	locker, err := NewRedisFromURL(ctx, url, 100*time.Millisecond, 5*time.Second)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer locker.Close()

	key := "test:" + time.Now().Format(time.RFC3339Nano)
	unlock, err := locker.Lock(ctx, key)
	if err != nil {
		t.Fatalf("lock: %v", err)
	}
	if _, err := locker.Lock(ctx, key); !errors.Is(err, ErrBusy) {
		t.Fatalf("second lock error = %v, want ErrBusy", err)
	}
	unlock()

	again, err := locker.Lock(ctx, key)
	if err != nil {
		t.Fatalf("relock: %v", err)
	}
	again()
}
