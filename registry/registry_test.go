package registry

import (
	"errors"
	"testing"

	"github.com/dendrascience/mcrawfs/container"
	"github.com/dendrascience/mcrawfs/dng"
	"github.com/dendrascience/mcrawfs/vfserr"
)

func noopOpener(string) (container.Decoder, error) {
	return nil, errors.New("not used in these tests")
}

func TestMountRejectsNonMcrawExtension(t *testing.T) {
	r := New(noopOpener, 0, 2)
	_, err := r.Mount(dng.OptNone, 1, "/tmp/clip.mp4", t.TempDir(), "")
	if !errors.Is(err, vfserr.ErrInvalidFormat) {
		t.Fatalf("expected ErrInvalidFormat, got %v", err)
	}
}

func TestUnmountUnknownID(t *testing.T) {
	r := New(noopOpener, 0, 2)
	err := r.Unmount(999)
	if !errors.Is(err, vfserr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateOptionsUnknownID(t *testing.T) {
	r := New(noopOpener, 0, 2)
	err := r.UpdateOptions(999, dng.OptNone, 1, "")
	if !errors.Is(err, vfserr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFileInfoUnknownID(t *testing.T) {
	r := New(noopOpener, 0, 2)
	if _, ok := r.FileInfo(999); ok {
		t.Fatalf("expected ok=false for unknown id")
	}
}

func TestNewRegistryDefaultsCacheCapacity(t *testing.T) {
	r := New(noopOpener, 0, 2)
	if r.cache.Capacity() != DefaultCacheCapacityBytes {
		t.Errorf("Capacity() = %d, want default %d", r.cache.Capacity(), DefaultCacheCapacityBytes)
	}
}
