package vfs

import (
	"context"
	"fmt"
	"path"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dendrascience/mcrawfs/audio"
	"github.com/dendrascience/mcrawfs/cache"
	"github.com/dendrascience/mcrawfs/container"
	"github.com/dendrascience/mcrawfs/dng"
	"github.com/dendrascience/mcrawfs/entry"
	"github.com/dendrascience/mcrawfs/internal/logging"
	"github.com/dendrascience/mcrawfs/timing"
	"github.com/dendrascience/mcrawfs/vfserr"
)

// FileInfo mirrors the file_info result.
type FileInfo struct {
	FPS           float64
	TotalFrames   int
	DroppedFrames int
	Width         int
	Height        int
}

// Core implements mount/entry construction and the virtual filesystem
// core: directory listing, attribute lookup, and range reads over a
// single mounted container. Every Core shares the process-wide Cache and
// Pools passed to NewCore; only entries, audioBlob, and options are
// mount-local, guarded by mu.
type Core struct {
	sourcePath string
	baseName   string

	decoders  *decoderPool
	cache     *cache.Cache
	pools     *Pools
	cacheWait time.Duration

	mu            sync.Mutex
	options       dng.Options
	draftScale    int
	customModel   string
	entries       []entry.Entry
	audioBlob     []byte
	audioMeta     audio.Metadata
	firstFrameTs  int64
	fps           float64
	width         int
	height        int
	totalFrames   int
	droppedFrames int
}

// NewCore opens sourcePath and builds the initial entry list.
func NewCore(sourcePath string, opener container.Opener, c *cache.Cache, pools *Pools, opts dng.Options, draftScale int, customModel string) (*Core, error) {
	core := &Core{
		sourcePath:  sourcePath,
		baseName:    baseNameNoExt(sourcePath),
		decoders:    newDecoderPool(opener),
		cache:       c,
		pools:       pools,
		cacheWait:   cache.DefaultTimeout,
		options:     opts,
		draftScale:  draftScale,
		customModel: customModel,
		audioMeta:   audio.DefaultMetadata(),
	}
	if err := core.rebuild(); err != nil {
		return nil, err
	}
	return core, nil
}

func baseNameNoExt(p string) string {
	base := path.Base(p)
	if ext := path.Ext(base); ext != "" {
		base = base[:len(base)-len(ext)]
	}
	return base
}

// rebuild implements the entry-construction procedure in full, including
// the dropped-frame compensation and the fixed-size-from-frame-0 rule. It
// is called from both NewCore and UpdateOptions.
func (c *Core) rebuild() error {
	dec, err := c.decoders.acquire(c.sourcePath)
	if err != nil {
		return fmt.Errorf("%w: opening container: %v", vfserr.ErrInvalidFormat, err)
	}
	defer c.decoders.release(c.sourcePath, dec)

	timestamps, err := dec.FrameTimestamps()
	if err != nil {
		return fmt.Errorf("%w: enumerating frames: %v", vfserr.ErrInvalidFormat, err)
	}
	sort.Slice(timestamps, func(i, j int) bool { return timestamps[i] < timestamps[j] })

	c.mu.Lock()
	defer c.mu.Unlock()

	if len(timestamps) == 0 {
		c.entries = []entry.Entry{entry.NewDesktopINIEntry()}
		c.audioBlob = nil
		c.totalFrames = 0
		c.droppedFrames = 0
		return nil
	}

	fps := timing.CalculateFrameRate(timestamps)
	ts0 := timestamps[0]

	// Set before the measuring render below so frame 0's size is computed
	// with the same frame-rate tags every on-demand render will carry.
	c.fps = fps
	c.firstFrameTs = ts0

	containerMeta, err := dec.Metadata()
	if err != nil {
		return fmt.Errorf("%w: reading container metadata: %v", vfserr.ErrInvalidFormat, err)
	}

	first, err := dec.FrameByTimestamp(ts0)
	if err != nil {
		return fmt.Errorf("%w: decoding first frame: %v", vfserr.ErrInvalidFormat, err)
	}

	typicalSize, err := c.renderSize(first, containerMeta, 0)
	if err != nil {
		return err
	}

	entries := []entry.Entry{entry.NewDesktopINIEntry()}

	var audioBlob []byte
	chunks, channels, sampleRateHz, aerr := dec.AudioChunks()
	if aerr == nil && len(chunks) > 0 {
		audioBlob = audio.Synthesize(chunks, channels, sampleRateHz, ts0, fps, c.audioMeta)
	}
	if audioBlob != nil {
		entries = append(entries, entry.NewAudioEntry(int64(len(audioBlob))))
	}

	lastPts := -1
	dropped := 0
	for _, ts := range timestamps {
		pts := timing.PresentationIndex(ts, ts0, fps)
		if pts > lastPts {
			dropped += pts - lastPts - 1
		}
		if pts-lastPts < 1 {
			pts = lastPts + 1
		}
		for p := lastPts + 1; p <= pts; p++ {
			entries = append(entries, entry.NewFrameEntry(c.baseName, p, typicalSize, ts))
		}
		lastPts = pts
	}

	c.entries = entries
	c.audioBlob = audioBlob
	c.width = first.Metadata.Width
	c.height = first.Metadata.Height
	c.totalFrames = len(timestamps)
	c.droppedFrames = dropped
	return nil
}

// renderSize renders frame 0 once, synchronously, purely to measure
// typical_dng_size — it does not populate the cache, since the first real
// read still owns its own build obligation under the entry key assigned
// in rebuild.
func (c *Core) renderSize(frame container.Frame, containerMeta container.Metadata, frameNumber int64) (int64, error) {
	req := dng.Request{
		Pixels:            frame.Pixels,
		FrameMeta:         frame.Metadata,
		ContainerMeta:     containerMeta,
		RecordingFPS:      c.fps,
		FrameNumber:       frameNumber,
		Options:           c.options,
		Scale:             c.draftScale,
		CustomCameraModel: c.customModel,
	}
	out, err := dng.Encode(req)
	if err != nil {
		return 0, err
	}
	return int64(len(out)), nil
}

// ListFiles returns the current entry list. filter is accepted for
// interface compatibility with the host adapter contract but ignored —
// the mount root is small enough that returning everything unfiltered is
// fine.
func (c *Core) ListFiles(filter string) []entry.Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]entry.Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// FindEntry implements find_entry.
func (c *Core) FindEntry(absolutePath string) (entry.Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return entry.FindByPath(c.entries, absolutePath)
}

// CompletionFunc matches the host adapter's completion callback shape:
// bytesCopied and a nil err on success, or 0 and a non-nil err on failure.
type CompletionFunc func(bytesCopied int, err error)

// ReadFile implements read_file, dispatching to the appropriate branch by
// entry name/extension.
func (c *Core) ReadFile(ctx context.Context, e entry.Entry, pos int64, length int, dst []byte, completion CompletionFunc, async bool) int {
	switch {
	case e.Name == entry.DesktopININame:
		return copyFrom([]byte(entry.DesktopINI), pos, length, dst)
	case path.Ext(e.Name) == ".wav":
		c.mu.Lock()
		blob := c.audioBlob
		c.mu.Unlock()
		n := copyFrom(blob, pos, length, dst)
		if completion != nil {
			completion(n, nil)
		}
		return n
	case path.Ext(e.Name) == ".dng":
		return c.readDNG(ctx, e, pos, length, dst, completion, async)
	default:
		return -1
	}
}

func copyFrom(src []byte, pos int64, length int, dst []byte) int {
	if pos < 0 || pos >= int64(len(src)) {
		return 0
	}
	n := copy(dst[:min(length, len(dst))], src[pos:])
	return n
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// readDNG implements the DNG read path in full.
func (c *Core) readDNG(ctx context.Context, e entry.Entry, pos int64, length int, dst []byte, completion CompletionFunc, async bool) int {
	key := e.Key()

	if item, ok := c.cache.Get(key, c.cacheWait); ok {
		n := copyFrom(item.Bytes, pos, length, dst)
		c.cache.Put(key, item) // refresh LRU position on hit
		if completion != nil {
			completion(n, nil)
		}
		return n
	}

	// renderID correlates this render's I/O-pool and processing-pool log
	// lines across the two goroutines it runs on.
	renderID := uuid.New()
	logging.Debugf("vfs: render %s submitted for %s", renderID, e.Path())

	result := make(chan int, 1)
	failed := make(chan error, 1)

	run := func() {
		ran := false
		defer func() {
			if !ran {
				// No I/O slot before ctx ended: discharge the build obligation.
				c.cache.MarkLoadFailed(key)
				failed <- ctx.Err()
			}
		}()
		c.pools.SubmitIO(ctx, func() {
			ran = true
			dec, err := c.decoders.acquire(c.sourcePath)
			if err != nil {
				c.cache.MarkLoadFailed(key)
				failed <- err
				return
			}
			frame, ferr := dec.FrameByTimestamp(e.UserData)
			containerMeta, merr := dec.Metadata()
			c.decoders.release(c.sourcePath, dec)
			if ferr != nil || merr != nil {
				c.cache.MarkLoadFailed(key)
				if ferr != nil {
					failed <- ferr
				} else {
					failed <- merr
				}
				return
			}

			c.pools.SubmitProcessing(func() {
				c.mu.Lock()
				req := dng.Request{
					Pixels:            frame.Pixels,
					FrameMeta:         frame.Metadata,
					ContainerMeta:     containerMeta,
					RecordingFPS:      c.fps,
					FrameNumber:       frameNumberFor(c.entries, e),
					Options:           c.options,
					Scale:             c.draftScale,
					CustomCameraModel: c.customModel,
				}
				c.mu.Unlock()

				out, err := dng.Encode(req)
				if err != nil {
					c.cache.MarkLoadFailed(key)
					failed <- err
					return
				}
				item := cache.Item{Bytes: out}
				c.cache.Put(key, item)
				n := copyFrom(out, pos, length, dst)
				logging.Debugf("vfs: render %s complete, %d bytes", renderID, len(out))
				result <- n
			})
		})
	}
	go run()

	if !async {
		select {
		case n := <-result:
			if completion != nil {
				completion(n, nil)
			}
			return n
		case err := <-failed:
			if completion != nil {
				completion(0, err)
			}
			return 0
		case <-ctx.Done():
			return 0
		}
	}

	go func() {
		select {
		case n := <-result:
			if completion != nil {
				completion(n, nil)
			}
		case err := <-failed:
			if completion != nil {
				completion(0, err)
			}
		}
	}()
	return 0
}

// frameNumberFor derives the timecode frame number for e: its position
// among frame entries in the current (stable) entry list.
func frameNumberFor(entries []entry.Entry, e entry.Entry) int64 {
	n := int64(0)
	for _, cand := range entries {
		if path.Ext(cand.Name) != ".dng" {
			continue
		}
		if cand.Equal(e) {
			return n
		}
		n++
	}
	return n
}

// UpdateOptions implements update_options: replaces option state and
// rebuilds entries. Entry identities are stable across rebuilds by
// construction, since FrameName depends only on base name and index.
func (c *Core) UpdateOptions(opts dng.Options, draftScale int, customModel string) error {
	c.mu.Lock()
	c.options = opts
	c.draftScale = draftScale
	c.customModel = customModel
	c.mu.Unlock()

	if err := c.rebuild(); err != nil {
		logging.Errorf("vfs: updateOptions rebuild failed for %s: %v", c.sourcePath, err)
		return err
	}
	return nil
}

// FileInfo implements file_info.
func (c *Core) FileInfo() FileInfo {
	c.mu.Lock()
	defer c.mu.Unlock()
	return FileInfo{
		FPS:           c.fps,
		TotalFrames:   c.totalFrames,
		DroppedFrames: c.droppedFrames,
		Width:         c.width,
		Height:        c.height,
	}
}

// SetCacheWaitTimeout overrides the bounded wait for a peer's in-progress
// render before a read gives up and renders itself.
func (c *Core) SetCacheWaitTimeout(d time.Duration) {
	if d > 0 {
		c.cacheWait = d
	}
}

// Close releases the decoder pool's idle decoders. Outstanding render
// tasks are not cancelled — they complete into buffers the host adapter
// has already detached from.
func (c *Core) Close() error {
	logging.Debugf("vfs: closing core for %s", c.sourcePath)
	c.decoders.closeAll()
	return nil
}
