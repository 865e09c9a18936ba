package cache

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestGetMissMarksInProgress(t *testing.T) {
	c := NewSharded(1024, 1)
	if _, ok := c.Get("k", DefaultTimeout); ok {
		t.Fatalf("expected miss on empty cache")
	}
	// A second Get for the same key should now block until Put/MarkLoadFailed.
	done := make(chan bool, 1)
	go func() {
		_, ok := c.Get("k", 50*time.Millisecond)
		done <- ok
	}()
	select {
	case ok := <-done:
		if ok {
			t.Fatalf("expected second get to time out while in-progress, got a hit")
		}
	case <-time.After(time.Second):
		t.Fatalf("second get never returned")
	}
}

func TestPutThenGetHits(t *testing.T) {
	c := NewSharded(1024, 1)
	c.Get("k", DefaultTimeout) // establish build obligation
	c.Put("k", Item{Bytes: []byte("hello")})

	item, ok := c.Get("k", DefaultTimeout)
	if !ok {
		t.Fatalf("expected hit after put")
	}
	if string(item.Bytes) != "hello" {
		t.Errorf("got %q, want hello", item.Bytes)
	}
}

func TestSingleFlightS4(t *testing.T) {
	// S4: ten concurrent readers, fresh cache, capacity 10MiB. Expect
	// exactly one winner of the build obligation; the rest wait for it.
	c := NewSharded(10*1024*1024, 1)

	var winners int32
	var wg sync.WaitGroup
	results := make([]Item, 10)

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			if item, ok := c.Get("E", DefaultTimeout); ok {
				results[idx] = item
				return
			}
			atomic.AddInt32(&winners, 1)
			item := Item{Bytes: []byte("rendered")}
			c.Put("E", item)
			results[idx] = item
		}(i)
	}
	wg.Wait()

	if winners != 1 {
		t.Errorf("expected exactly one winner of the build obligation, got %d", winners)
	}
	for i, r := range results {
		if string(r.Bytes) != "rendered" {
			t.Errorf("reader %d got %q, want rendered", i, r.Bytes)
		}
	}
}

func TestEvictionS5(t *testing.T) {
	// S5: capacity = 2*sizeof(item); put A, B, C in order; A evicted.
	itemSize := int64(100)
	c := NewSharded(2*itemSize, 1)

	c.Get("A", DefaultTimeout)
	c.Put("A", Item{Bytes: make([]byte, itemSize)})
	c.Get("B", DefaultTimeout)
	c.Put("B", Item{Bytes: make([]byte, itemSize)})
	c.Get("C", DefaultTimeout)
	c.Put("C", Item{Bytes: make([]byte, itemSize)})

	if _, ok := c.Get("A", DefaultTimeout); ok {
		t.Errorf("expected A to be evicted")
	}
	if _, ok := c.Get("B", DefaultTimeout); !ok {
		t.Errorf("expected B to still be cached")
	}
	if _, ok := c.Get("C", DefaultTimeout); !ok {
		t.Errorf("expected C to still be cached")
	}
}

func TestOversizedItemNotCached(t *testing.T) {
	c := NewSharded(10, 1)
	c.Get("k", DefaultTimeout)
	c.Put("k", Item{Bytes: make([]byte, 100)})

	if _, ok := c.Get("k", DefaultTimeout); ok {
		t.Errorf("expected oversized item to not be cached")
	}
	if c.Size() != 0 {
		t.Errorf("current_bytes should be 0 after refusing an oversized item, got %d", c.Size())
	}
}

func TestMarkLoadFailedUnblocksWaiters(t *testing.T) {
	c := NewSharded(1024, 1)
	c.Get("k", DefaultTimeout) // winner

	done := make(chan bool, 1)
	go func() {
		_, ok := c.Get("k", 5*time.Second)
		done <- ok
	}()

	time.Sleep(20 * time.Millisecond)
	c.MarkLoadFailed("k")

	select {
	case ok := <-done:
		if ok {
			t.Errorf("expected a miss after markLoadFailed, not a hit")
		}
	case <-time.After(time.Second):
		t.Fatalf("waiter was not unblocked by markLoadFailed")
	}
}

func TestSizeNeverExceedsCapacityAtRest(t *testing.T) {
	c := NewSharded(500, 4)
	for i := 0; i < 50; i++ {
		key := i % 7
		c.Get(key, DefaultTimeout)
		c.Put(key, Item{Bytes: make([]byte, 50)})
	}
	if c.Size() > c.Capacity() {
		t.Errorf("current_bytes %d exceeds capacity %d at rest", c.Size(), c.Capacity())
	}
}
