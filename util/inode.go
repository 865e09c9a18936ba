package util

import (
	"sync"
)

var (
	highestInode uint64 = 0
	// could use atomic package for better performance, but this is simpler
	inodeLock = sync.Mutex{}

	registryLock sync.Mutex
	registry     = make(map[uint64]string)
)

// GetNewInode returns the next process-unique monotonically increasing
// inode number. Used by hostfuse to assign synthetic inodes to projected
// frame and audio entries.
func GetNewInode() uint64 {
	inodeLock.Lock()
	defer inodeLock.Unlock()
	highestInode++
	return highestInode
}

// SetInode raises the high-water mark used by GetNewInode, ignoring values
// that are not higher than the current maximum. Synchronous: the effect is
// visible to the next GetNewInode call that happens-after this one returns.
func SetInode(inode uint64) {
	inodeLock.Lock()
	defer inodeLock.Unlock()
	if inode > highestInode {
		highestInode = inode
	}
}

// GetNewInodeFor allocates a new inode and registers it against filename in
// one step.
func GetNewInodeFor(filename string) uint64 {
	inode := GetNewInode()
	RegisterInode(inode, filename)
	return inode
}

// RegisterInode records the filename a previously allocated inode refers to.
func RegisterInode(inode uint64, filename string) {
	registryLock.Lock()
	defer registryLock.Unlock()
	registry[inode] = filename
}

// UnregisterInode removes an inode's filename mapping, e.g. when an entry is
// evicted from a mount's live listing.
func UnregisterInode(inode uint64) {
	registryLock.Lock()
	defer registryLock.Unlock()
	delete(registry, inode)
}

// FileNameFromInode returns the filename registered against inode, or
// ErrInodeNotFound if none is registered.
func FileNameFromInode(inode uint64) (string, error) {
	registryLock.Lock()
	defer registryLock.Unlock()
	name, ok := registry[inode]
	if !ok {
		return "", ErrInodeNotFound
	}
	return name, nil
}

// ClearInodeRegistry empties the filename registry. Exposed for tests.
func ClearInodeRegistry() {
	registryLock.Lock()
	defer registryLock.Unlock()
	registry = make(map[uint64]string)
}

// GetInodeRegistrySize returns the number of registered filename mappings.
func GetInodeRegistrySize() int {
	registryLock.Lock()
	defer registryLock.Unlock()
	return len(registry)
}
