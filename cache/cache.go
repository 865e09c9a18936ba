package cache

import (
	"fmt"
	"time"

	"github.com/taigrr/colorhash"

	"github.com/dendrascience/mcrawfs/entry"
)

// DefaultTimeout is the bounded wait for a peer's in-progress build before
// Get gives up and reports a miss. Exposed as a constant, not hardwired
// into get, so a caller can pass a shorter or longer wait.
const DefaultTimeout = 2 * time.Second

// Item is a cache value: the rendered bytes for one logical frame entry.
type Item struct {
	Bytes []byte
}

func (it Item) size() int64 { return int64(len(it.Bytes)) }

// Cache is a process-wide, byte-capacity-bounded LRU shared across mounts.
// Internally it is sharded across N stripes keyed by a colorhash of the
// entry's identity — the same content-hash bucketing idiom used to keep
// directory fan-out flat elsewhere — to keep per-operation lock hold times
// short under concurrent readers. Capacity is divided evenly across
// shards: each shard independently stays within its slice of the budget,
// which together satisfy the cache-wide bound.
type Cache struct {
	shards []*shard
}

const defaultShardCount = 16

// New constructs a Cache with the given total byte capacity.
func New(capacityBytes int64) *Cache {
	return NewSharded(capacityBytes, defaultShardCount)
}

// NewSharded constructs a Cache with an explicit shard count, mainly for
// tests that want to force every key into one shard.
func NewSharded(capacityBytes int64, shardCount int) *Cache {
	if shardCount < 1 {
		shardCount = 1
	}
	perShard := capacityBytes / int64(shardCount)
	shards := make([]*shard, shardCount)
	for i := range shards {
		shards[i] = newShard(perShard)
	}
	return &Cache{shards: shards}
}

func shardIndex(key any, n int) int {
	h := colorhash.HashString(keyString(key))
	if h < 0 {
		h = -h
	}
	return h % n
}

// keyString renders an entry.Entry key (as returned by Entry.Key) into a
// string suitable for hashing.
func keyString(key any) string {
	return fmt.Sprintf("%v", key)
}

func (c *Cache) shardFor(key any) *shard {
	return c.shards[shardIndex(key, len(c.shards))]
}

// Get looks up key, waiting up to timeout if a peer is currently building
// it. On timeout it returns (Item{}, false) and logs a warning — the
// caller may still proceed to render, it just cannot block this slot
// again. Otherwise: a hit splices to LRU-front and returns the item; a
// miss marks key in-progress and returns false — the caller now owns the
// build obligation and must eventually call Put or MarkLoadFailed.
func (c *Cache) Get(key any, timeout time.Duration) (Item, bool) {
	return c.shardFor(key).get(key, timeout)
}

// Put stores item under key, evicting LRU-tail entries of key's shard as
// needed to stay within that shard's slice of the capacity. If item alone
// exceeds the shard's slice it is not inserted; in-progress is always
// cleared either way.
func (c *Cache) Put(key any, item Item) {
	c.shardFor(key).put(key, item)
}

// MarkLoadFailed clears key's in-progress mark without inserting anything,
// notifying any waiters — used when a render fails.
func (c *Cache) MarkLoadFailed(key any) {
	c.shardFor(key).markLoadFailed(key)
}

// Remove drops key from the cache (and clears in-progress if set).
func (c *Cache) Remove(key any) {
	c.shardFor(key).remove(key)
}

// Clear empties every shard, notifying all waiters.
func (c *Cache) Clear() {
	for _, s := range c.shards {
		s.clear()
	}
}

// Size returns the total bytes currently cached, summed across all shards.
func (c *Cache) Size() int64 {
	var total int64
	for _, s := range c.shards {
		total += s.size()
	}
	return total
}

// Capacity returns the total byte capacity, summed across all shards.
func (c *Cache) Capacity() int64 {
	var total int64
	for _, s := range c.shards {
		total += s.capacity()
	}
	return total
}

// EntryKey is a convenience for callers that have an entry.Entry rather
// than an already-extracted key.
func EntryKey(e entry.Entry) any {
	return e.Key()
}
