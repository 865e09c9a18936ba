package hostfuse

import (
	"context"
	"os"
	"strings"
	"syscall"
	"time"

	"bazil.org/fuse"
	fusefs "bazil.org/fuse/fs"

	"github.com/dendrascience/mcrawfs/entry"
	"github.com/dendrascience/mcrawfs/internal/logging"
	"github.com/dendrascience/mcrawfs/util"
	"github.com/dendrascience/mcrawfs/vfs"
)

// FS adapts a single vfs.Core to bazil.org/fuse's fs.FS interface.
type FS struct {
	core *vfs.Core
}

// NewFS wraps core for mounting.
func NewFS(core *vfs.Core) *FS {
	return &FS{core: core}
}

func (f *FS) Root() (fusefs.Node, error) {
	return &Dir{fs: f, pathParts: nil}, nil
}

// Dir projects one directory level of the mount's entry list. A Dir is
// purely a function of how many PathParts levels have been consumed; the
// tree shape is entirely driven by the entries vfs.Core.ListFiles returns.
type Dir struct {
	fs        *FS
	pathParts []string
}

func (d *Dir) path() string {
	return strings.Join(d.pathParts, "/")
}

func (d *Dir) Attr(ctx context.Context, a *fuse.Attr) error {
	if len(d.pathParts) == 0 {
		a.Inode = 1
	} else {
		a.Inode = util.GetNewInodeFor(d.path())
	}
	a.Mode = os.ModeDir | 0o755
	now := time.Now()
	a.Mtime, a.Ctime, a.Atime = now, now, now
	return nil
}

func (d *Dir) Lookup(ctx context.Context, name string) (fusefs.Node, error) {
	want := append(append([]string{}, d.pathParts...), name)

	for _, e := range d.fs.core.ListFiles("") {
		if len(e.PathParts) == len(d.pathParts) && e.Name == name && pathPartsEqual(e.PathParts, d.pathParts) {
			return &File{fs: d.fs, entry: e}, nil
		}
	}
	for _, e := range d.fs.core.ListFiles("") {
		if hasPrefix(e.PathParts, want) {
			return &Dir{fs: d.fs, pathParts: want}, nil
		}
	}
	return nil, syscall.ENOENT
}

func (d *Dir) ReadDirAll(ctx context.Context) ([]fuse.Dirent, error) {
	var dirents []fuse.Dirent
	seenDirs := make(map[string]bool)

	for _, e := range d.fs.core.ListFiles("") {
		if !hasPrefix(e.PathParts, d.pathParts) && !(len(e.PathParts) == len(d.pathParts) && pathPartsEqual(e.PathParts, d.pathParts)) {
			continue
		}
		if len(e.PathParts) == len(d.pathParts) {
			dirents = append(dirents, fuse.Dirent{
				Inode: util.GetNewInodeFor(e.Path()),
				Name:  e.Name,
				Type:  fuse.DT_File,
			})
			continue
		}
		next := e.PathParts[len(d.pathParts)]
		if !seenDirs[next] {
			seenDirs[next] = true
			childPath := strings.Join(append(append([]string{}, d.pathParts...), next), "/")
			dirents = append(dirents, fuse.Dirent{
				Inode: util.GetNewInodeFor(childPath),
				Name:  next,
				Type:  fuse.DT_Dir,
			})
		}
	}
	return dirents, nil
}

// pathPartsEqual reports whether a and b name the same directory.
func pathPartsEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// hasPrefix reports whether prefix is a strict prefix of parts (parts is
// longer), used to detect that a deeper entry lives under the directory
// named by prefix.
func hasPrefix(parts, prefix []string) bool {
	if len(parts) <= len(prefix) {
		return false
	}
	for i := range prefix {
		if parts[i] != prefix[i] {
			return false
		}
	}
	return true
}

// File adapts one projected Entry to a read-only FUSE file node. Reads are
// forwarded synchronously into vfs.Core.ReadFile — the FUSE callback thread
// itself blocks on the core's pools, since bazil.org/fuse's Read callback
// has no async-completion channel of its own to hand off to.
type File struct {
	fs    *FS
	entry entry.Entry
}

func (f *File) Attr(ctx context.Context, a *fuse.Attr) error {
	a.Inode = util.GetNewInodeFor(f.entry.Path())
	a.Mode = 0o444
	a.Size = uint64(f.entry.Size)
	now := time.Now()
	a.Mtime, a.Ctime, a.Atime = now, now, now
	return nil
}

// Open rejects any non-read access. The mount is read-only at the
// fuse.MountOption level too, but the kernel option alone does not cover
// every open mode on every platform.
func (f *File) Open(ctx context.Context, req *fuse.OpenRequest, resp *fuse.OpenResponse) (fusefs.Handle, error) {
	flags := int(req.Flags)
	if flags&os.O_WRONLY != 0 || flags&os.O_RDWR != 0 {
		logging.Warnf("hostfuse: write access attempted on %s", f.entry.Path())
		return nil, syscall.EACCES
	}
	return f, nil
}

func (f *File) Read(ctx context.Context, req *fuse.ReadRequest, resp *fuse.ReadResponse) error {
	buf := make([]byte, req.Size)
	n := f.fs.core.ReadFile(ctx, f.entry, req.Offset, req.Size, buf, nil, false)
	if n < 0 {
		logging.Errorf("hostfuse: read_file rejected entry %s", f.entry.Path())
		return syscall.EIO
	}
	resp.Data = buf[:n]
	return nil
}
