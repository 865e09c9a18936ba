// Package registry implements the mount registry: a monotonic mount-id
// counter and a map from id to live mount, sharing one cache and one pool
// pair across every mount.
package registry

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dendrascience/mcrawfs/cache"
	"github.com/dendrascience/mcrawfs/container"
	"github.com/dendrascience/mcrawfs/dng"
	"github.com/dendrascience/mcrawfs/hostfuse"
	"github.com/dendrascience/mcrawfs/internal/logging"
	"github.com/dendrascience/mcrawfs/vfs"
	"github.com/dendrascience/mcrawfs/vfserr"
)

// DefaultCacheCapacityBytes is the content cache's default budget.
const DefaultCacheCapacityBytes = 768 * 1024 * 1024

// mount is one live projection.
type mount struct {
	id          int64
	sourcePath  string
	mountPath   string
	options     dng.Options
	draftScale  int
	customModel string

	core    *vfs.Core
	mounted *hostfuse.Mounted
}

// Registry owns the shared Cache and Pools and the id -> mount map.
// Construction initializes both, along with logging.
type Registry struct {
	opener container.Opener

	cache *cache.Cache
	pools *vfs.Pools

	mu        sync.Mutex
	mounts    map[int64]*mount
	nextID    int64
	cacheWait time.Duration
}

// SetCacheWaitTimeout overrides the single-flight wait applied to every
// subsequently created mount's reads.
func (r *Registry) SetCacheWaitTimeout(d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cacheWait = d
}

// New constructs a Registry. opener is the container reader contract the
// caller injects — the registry never decodes .mcraw bytes itself.
func New(opener container.Opener, cacheCapacityBytes int64, ioPoolSize int64) *Registry {
	if cacheCapacityBytes <= 0 {
		cacheCapacityBytes = DefaultCacheCapacityBytes
	}
	logging.Infof("registry: starting with cache capacity %d bytes", cacheCapacityBytes)
	return &Registry{
		opener: opener,
		cache:  cache.New(cacheCapacityBytes),
		pools:  vfs.NewPools(ioPoolSize),
		mounts: make(map[int64]*mount),
	}
}

// Mount validates the .mcraw extension, creates dst if missing,
// constructs a core, attaches the host adapter, and returns the assigned
// mount id.
func (r *Registry) Mount(opts dng.Options, draftScale int, src, dst string, customModel string) (int64, error) {
	if !strings.EqualFold(filepath.Ext(src), ".mcraw") {
		return 0, fmt.Errorf("%w: source %q does not have a .mcraw extension", vfserr.ErrInvalidFormat, src)
	}
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return 0, fmt.Errorf("%w: creating destination %q: %v", vfserr.ErrIOFailure, dst, err)
	}

	core, err := vfs.NewCore(src, r.opener, r.cache, r.pools, opts, draftScale, customModel)
	if err != nil {
		return 0, err
	}
	r.mu.Lock()
	if r.cacheWait > 0 {
		core.SetCacheWaitTimeout(r.cacheWait)
	}
	r.mu.Unlock()

	mounted, err := hostfuse.Mount(dst, hostfuse.NewFS(core))
	if err != nil {
		core.Close()
		return 0, fmt.Errorf("%w: %v", vfserr.ErrInternal, err)
	}

	id := atomic.AddInt64(&r.nextID, 1)
	m := &mount{
		id:          id,
		sourcePath:  src,
		mountPath:   dst,
		options:     opts,
		draftScale:  draftScale,
		customModel: customModel,
		core:        core,
		mounted:     mounted,
	}

	r.mu.Lock()
	r.mounts[id] = m
	r.mu.Unlock()

	logging.Infof("registry: mounted %s at %s as id %d", src, dst, id)
	return id, nil
}

// Unmount drops the mount and tears down its host adapter and decoder
// pool. Outstanding render tasks are not cancelled — they complete into
// buffers the host adapter has already detached from.
func (r *Registry) Unmount(id int64) error {
	r.mu.Lock()
	m, ok := r.mounts[id]
	if ok {
		delete(r.mounts, id)
	}
	r.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: mount id %d", vfserr.ErrNotFound, id)
	}

	var unmountErr error
	if m.mounted != nil {
		unmountErr = m.mounted.Unmount()
	}
	m.core.Close()
	logging.Infof("registry: unmounted id %d", id)
	return unmountErr
}

// UpdateOptions delegates to the core (which rebuilds entries) and
// records the new option state. It does not additionally invalidate the
// host adapter's attribute cache: bazil.org/fuse does not set a kernel
// attribute-cache TTL unless the adapter requests one, so the next
// Lookup/Attr call already observes the rebuilt entries without an
// explicit invalidate call.
func (r *Registry) UpdateOptions(id int64, opts dng.Options, draftScale int, customModel string) error {
	r.mu.Lock()
	m, ok := r.mounts[id]
	r.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: mount id %d", vfserr.ErrNotFound, id)
	}

	if err := m.core.UpdateOptions(opts, draftScale, customModel); err != nil {
		return err
	}

	r.mu.Lock()
	m.options, m.draftScale, m.customModel = opts, draftScale, customModel
	r.mu.Unlock()
	return nil
}

// FileInfo returns the current frame-rate/dimension/dropped-frame
// snapshot for a mount.
func (r *Registry) FileInfo(id int64) (vfs.FileInfo, bool) {
	r.mu.Lock()
	m, ok := r.mounts[id]
	r.mu.Unlock()
	if !ok {
		return vfs.FileInfo{}, false
	}
	return m.core.FileInfo(), true
}

// Close drains the mount map and waits for both pools to quiesce.
func (r *Registry) Close() error {
	r.mu.Lock()
	ids := make([]int64, 0, len(r.mounts))
	for id := range r.mounts {
		ids = append(ids, id)
	}
	r.mu.Unlock()

	for _, id := range ids {
		if err := r.Unmount(id); err != nil {
			logging.Warnf("registry: error unmounting id %d during shutdown: %v", id, err)
		}
	}

	return r.pools.Quiesce(context.Background())
}
