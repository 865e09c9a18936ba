package cache

import (
	"container/list"
	"sync"
	"time"

	"github.com/dendrascience/mcrawfs/internal/logging"
)

type lruEntry struct {
	key  any
	item Item
}

// shard is one stripe of the cache: its own mutex, LRU list, lookup map,
// and in-progress set, matching Cache's data model at reduced scale.
// In-progress is tracked as key -> channel, closed when the build
// obligation is discharged (by put, markLoadFailed, remove, or clear), so
// waiters can select on it with a timeout instead of needing a timed
// condition variable.
type shard struct {
	mu            sync.Mutex
	capacityBytes int64
	current       int64

	lru      *list.List             // front = most recently used
	byKey    map[any]*list.Element  // key -> element in lru
	progress map[any]chan struct{}
}

func newShard(capacityBytes int64) *shard {
	return &shard{
		capacityBytes: capacityBytes,
		lru:           list.New(),
		byKey:         make(map[any]*list.Element),
		progress:      make(map[any]chan struct{}),
	}
}

func (s *shard) get(key any, timeout time.Duration) (Item, bool) {
	deadline := time.Now().Add(timeout)

	s.mu.Lock()
	for {
		ch, building := s.progress[key]
		if !building {
			break
		}
		s.mu.Unlock()

		remaining := time.Until(deadline)
		if remaining <= 0 {
			logging.Warnf("cache: timed out waiting for in-progress build of key %v", key)
			return Item{}, false
		}
		select {
		case <-ch:
			s.mu.Lock()
			continue
		case <-time.After(remaining):
			logging.Warnf("cache: timed out waiting for in-progress build of key %v", key)
			return Item{}, false
		}
	}

	if el, ok := s.byKey[key]; ok {
		s.lru.MoveToFront(el)
		item := el.Value.(*lruEntry).item
		s.mu.Unlock()
		return item, true
	}

	// Miss: caller now owns the build obligation.
	s.progress[key] = make(chan struct{})
	s.mu.Unlock()
	return Item{}, false
}

// clearProgress discharges the build obligation for key, waking any
// waiters blocked in get. Must be called with s.mu held.
func (s *shard) clearProgress(key any) {
	if ch, ok := s.progress[key]; ok {
		close(ch)
		delete(s.progress, key)
	}
}

func (s *shard) put(key any, item Item) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if el, ok := s.byKey[key]; ok {
		old := el.Value.(*lruEntry)
		s.current += item.size() - old.item.size()
		old.item = item
		s.lru.MoveToFront(el)
		s.clearProgress(key)
		return
	}

	if item.size() > s.capacityBytes {
		// Too large to cache; clear in-progress and let the request
		// complete uncached.
		s.clearProgress(key)
		return
	}

	for s.current+item.size() > s.capacityBytes && s.lru.Len() > 0 {
		back := s.lru.Back()
		evicted := back.Value.(*lruEntry)
		s.current -= evicted.item.size()
		delete(s.byKey, evicted.key)
		s.lru.Remove(back)
	}

	el := s.lru.PushFront(&lruEntry{key: key, item: item})
	s.byKey[key] = el
	s.current += item.size()

	s.clearProgress(key)
}

func (s *shard) markLoadFailed(key any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearProgress(key)
}

func (s *shard) remove(key any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if el, ok := s.byKey[key]; ok {
		s.current -= el.Value.(*lruEntry).item.size()
		delete(s.byKey, key)
		s.lru.Remove(el)
	}
	s.clearProgress(key)
}

func (s *shard) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lru.Init()
	s.byKey = make(map[any]*list.Element)
	s.current = 0
	for key := range s.progress {
		s.clearProgress(key)
	}
}

func (s *shard) size() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *shard) capacity() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.capacityBytes
}
